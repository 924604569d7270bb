package store

import (
	"context"
	"fmt"
	"time"
)

// Reaction is one (user, reaction) pair on a message.
type Reaction struct {
	MessageID string
	UserID    string
	Reaction  string
	CreatedAt time.Time
}

// Reaction toggle outcomes.
const (
	ReactionAdded   = "add"
	ReactionRemoved = "remove"
)

type ToggleReactionParams struct {
	MessageID string
	UserID    string
	Reaction  string
}

// ToggleReaction adds the reaction if absent, removes it if present, and
// reports which happened. The insert-or-ignore keeps the toggle atomic
// without an explicit transaction.
func (q *Queries) ToggleReaction(ctx context.Context, arg ToggleReactionParams) (string, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO message_reactions (message_id, user_id, reaction, created_at)
		VALUES (?, ?, ?, ?)`,
		arg.MessageID, arg.UserID, arg.Reaction, time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to toggle reaction: %w", err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("failed to toggle reaction: %w", err)
	}
	if inserted > 0 {
		return ReactionAdded, nil
	}

	_, err = q.db.ExecContext(ctx, `
		DELETE FROM message_reactions
		WHERE message_id = ? AND user_id = ? AND reaction = ?`,
		arg.MessageID, arg.UserID, arg.Reaction,
	)
	if err != nil {
		return "", fmt.Errorf("failed to remove reaction: %w", err)
	}
	return ReactionRemoved, nil
}

// ListReactionsForConversation returns every reaction on the conversation's
// messages, for attaching to message pages.
func (q *Queries) ListReactionsForConversation(ctx context.Context, conversationID string) ([]Reaction, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT r.message_id, r.user_id, r.reaction, r.created_at
		FROM message_reactions r
		JOIN messages m ON m.id = r.message_id
		WHERE m.conversation_id = ?
		ORDER BY r.created_at`,
		conversationID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list reactions: %w", err)
	}
	defer rows.Close()

	var out []Reaction
	for rows.Next() {
		var r Reaction
		if err := rows.Scan(&r.MessageID, &r.UserID, &r.Reaction, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
