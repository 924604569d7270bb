package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Message is a row in the messages table.
type Message struct {
	ID             string
	ConversationID string
	SenderID       string
	Content        string
	ContentType    string
	CreatedAt      time.Time
}

// MessageWithSender joins a message with its sender's public profile.
type MessageWithSender struct {
	Message
	SenderUsername  string
	SenderFirstName string
	SenderLastName  string
	SenderAvatarURL string
}

type CreateMessageParams struct {
	ConversationID string
	SenderID       string
	Content        string
	ContentType    string
}

// CreateMessage persists a message and returns the canonical record. The id
// and timestamp are assigned here; the gateway never pre-assigns them.
func (q *Queries) CreateMessage(ctx context.Context, arg CreateMessageParams) (Message, error) {
	contentType := arg.ContentType
	if contentType == "" {
		contentType = "text"
	}
	m := Message{
		ID:             uuid.NewString(),
		ConversationID: arg.ConversationID,
		SenderID:       arg.SenderID,
		Content:        arg.Content,
		ContentType:    contentType,
		CreatedAt:      time.Now().UTC(),
	}
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO messages (id, conversation_id, sender_id, content, content_type, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		m.ID, m.ConversationID, m.SenderID, m.Content, m.ContentType, m.CreatedAt,
	)
	if err != nil {
		return Message{}, fmt.Errorf("failed to create message: %w", err)
	}
	return m, nil
}

// GetMessageByID fetches one message. The gateway resolves a reaction's
// conversation through this, never from the client payload.
func (q *Queries) GetMessageByID(ctx context.Context, id string) (Message, error) {
	var m Message
	err := q.db.QueryRowContext(ctx, `
		SELECT id, conversation_id, sender_id, content, content_type, created_at
		FROM messages WHERE id = ?`, id,
	).Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.Content, &m.ContentType, &m.CreatedAt)
	if err != nil {
		return Message{}, notFound(err)
	}
	return m, nil
}

type UpdateMessageContentParams struct {
	ID      string
	Content string
}

// UpdateMessageContent rewrites a message's body and returns the updated
// record. Sender authorization happens in the handler, not here.
func (q *Queries) UpdateMessageContent(ctx context.Context, arg UpdateMessageContentParams) (Message, error) {
	res, err := q.db.ExecContext(ctx,
		`UPDATE messages SET content = ? WHERE id = ?`, arg.Content, arg.ID)
	if err != nil {
		return Message{}, fmt.Errorf("failed to update message: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return Message{}, err
	}
	if affected == 0 {
		return Message{}, ErrNotFound
	}
	return q.GetMessageByID(ctx, arg.ID)
}

// DeleteMessage removes a message. Its reactions go with it through the
// foreign key cascade.
func (q *Queries) DeleteMessage(ctx context.Context, id string) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM messages WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type ListMessagesParams struct {
	ConversationID string
	Limit          int
	// Before restricts the page to messages created strictly before this
	// time. Zero means "latest page".
	Before time.Time
}

// ListMessages returns a page of messages, newest first, with sender
// profiles attached.
func (q *Queries) ListMessages(ctx context.Context, arg ListMessagesParams) ([]MessageWithSender, error) {
	limit := arg.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	before := arg.Before
	if before.IsZero() {
		before = time.Now().UTC().Add(time.Minute)
	}
	rows, err := q.db.QueryContext(ctx, `
		SELECT m.id, m.conversation_id, m.sender_id, m.content, m.content_type, m.created_at,
		       u.username, u.first_name, u.last_name, u.avatar_url
		FROM messages m
		JOIN users u ON u.id = m.sender_id
		WHERE m.conversation_id = ? AND m.created_at < ?
		ORDER BY m.created_at DESC, m.id DESC
		LIMIT ?`,
		arg.ConversationID, before, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var out []MessageWithSender
	for rows.Next() {
		var m MessageWithSender
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.Content, &m.ContentType,
			&m.CreatedAt, &m.SenderUsername, &m.SenderFirstName, &m.SenderLastName, &m.SenderAvatarURL); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// LatestMessage returns the newest message in a conversation, or ErrNotFound
// for an empty conversation.
func (q *Queries) LatestMessage(ctx context.Context, conversationID string) (Message, error) {
	var m Message
	err := q.db.QueryRowContext(ctx, `
		SELECT id, conversation_id, sender_id, content, content_type, created_at
		FROM messages
		WHERE conversation_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1`, conversationID,
	).Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.Content, &m.ContentType, &m.CreatedAt)
	if err != nil {
		return Message{}, notFound(err)
	}
	return m, nil
}
