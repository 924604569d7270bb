package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ReadMarker records the newest message a user has seen in a conversation.
type ReadMarker struct {
	ConversationID    string
	UserID            string
	LastReadMessageID string
	LastReadAt        time.Time
}

type MarkConversationReadParams struct {
	ConversationID string
	UserID         string
}

// MarkConversationRead advances the user's read marker to the newest message
// in the conversation and reports whether it actually moved. The marker only
// moves when at least one message from another sender is newer than the
// current marker, so repeated calls are no-ops.
func (q *Queries) MarkConversationRead(ctx context.Context, arg MarkConversationReadParams) (bool, error) {
	var latestID string
	var latestAt time.Time
	err := q.db.QueryRowContext(ctx, `
		SELECT id, created_at FROM messages
		WHERE conversation_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1`,
		arg.ConversationID,
	).Scan(&latestID, &latestAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to mark conversation read: %w", err)
	}

	var markerAt sql.NullTime
	err = q.db.QueryRowContext(ctx, `
		SELECT m.created_at
		FROM conversation_reads r
		JOIN messages m ON m.id = r.last_read_message_id
		WHERE r.conversation_id = ? AND r.user_id = ?`,
		arg.ConversationID, arg.UserID,
	).Scan(&markerAt)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("failed to mark conversation read: %w", err)
	}

	unreadQuery := `
		SELECT COUNT(*) FROM messages
		WHERE conversation_id = ? AND sender_id != ?`
	args := []any{arg.ConversationID, arg.UserID}
	if markerAt.Valid {
		unreadQuery += ` AND created_at > ?`
		args = append(args, markerAt.Time)
	}
	var unread int
	if err := q.db.QueryRowContext(ctx, unreadQuery, args...).Scan(&unread); err != nil {
		return false, fmt.Errorf("failed to mark conversation read: %w", err)
	}
	if unread == 0 {
		return false, nil
	}

	_, err = q.db.ExecContext(ctx, `
		INSERT INTO conversation_reads (conversation_id, user_id, last_read_message_id, last_read_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (conversation_id, user_id) DO UPDATE SET
			last_read_message_id = excluded.last_read_message_id,
			last_read_at = excluded.last_read_at`,
		arg.ConversationID, arg.UserID, latestID, time.Now().UTC(),
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark conversation read: %w", err)
	}
	return true, nil
}

// GetReadMarkers returns every participant's read marker for the conversation.
func (q *Queries) GetReadMarkers(ctx context.Context, conversationID string) ([]ReadMarker, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT conversation_id, user_id, last_read_message_id, last_read_at
		FROM conversation_reads
		WHERE conversation_id = ?`,
		conversationID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list read markers: %w", err)
	}
	defer rows.Close()

	var out []ReadMarker
	for rows.Next() {
		var m ReadMarker
		if err := rows.Scan(&m.ConversationID, &m.UserID, &m.LastReadMessageID, &m.LastReadAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
