package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Conversation is a row in the conversations table.
type Conversation struct {
	ID            string
	Name          string
	IsGroup       bool
	CreatedBy     string
	LastMessageAt sql.NullTime
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Participant is a conversation member joined with their public profile.
type Participant struct {
	UserID    string
	Username  string
	FirstName string
	LastName  string
	AvatarURL string
	Status    string
	IsAdmin   bool
	JoinedAt  time.Time
}

const conversationColumns = `id, name, is_group, created_by, last_message_at, created_at, updated_at`

func scanConversation(row interface{ Scan(...any) error }) (Conversation, error) {
	var c Conversation
	err := row.Scan(&c.ID, &c.Name, &c.IsGroup, &c.CreatedBy, &c.LastMessageAt, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

type CreateConversationParams struct {
	Name      string
	IsGroup   bool
	CreatedBy string
}

// CreateConversation inserts a conversation row. Participants are added
// separately with AddParticipant.
func (q *Queries) CreateConversation(ctx context.Context, arg CreateConversationParams) (Conversation, error) {
	id := uuid.NewString()
	now := time.Now().UTC()
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO conversations (id, name, is_group, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		id, arg.Name, arg.IsGroup, arg.CreatedBy, now, now,
	)
	if err != nil {
		return Conversation{}, fmt.Errorf("failed to create conversation: %w", err)
	}
	return q.GetConversationByID(ctx, id)
}

// GetConversationByID fetches one conversation.
func (q *Queries) GetConversationByID(ctx context.Context, id string) (Conversation, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+conversationColumns+` FROM conversations WHERE id = ?`, id)
	c, err := scanConversation(row)
	if err != nil {
		return Conversation{}, notFound(err)
	}
	return c, nil
}

// ListConversationsForUser returns the caller's conversations ordered by most
// recent activity.
func (q *Queries) ListConversationsForUser(ctx context.Context, userID string) ([]Conversation, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.is_group, c.created_by, c.last_message_at, c.created_at, c.updated_at
		FROM conversations c
		JOIN conversation_participants p ON p.conversation_id = c.id
		WHERE p.user_id = ?
		ORDER BY COALESCE(c.last_message_at, c.created_at) DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer rows.Close()

	var out []Conversation
	for rows.Next() {
		c, err := scanConversation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListConversationIDsForUser returns just the conversation ids the user
// participates in. This is the gateway's room-subscription query.
func (q *Queries) ListConversationIDsForUser(ctx context.Context, userID string) ([]string, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT conversation_id FROM conversation_participants WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversation ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListParticipants returns a conversation's members with profile fields.
func (q *Queries) ListParticipants(ctx context.Context, conversationID string) ([]Participant, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT u.id, u.username, u.first_name, u.last_name, u.avatar_url, u.status, p.is_admin, p.joined_at
		FROM conversation_participants p
		JOIN users u ON u.id = p.user_id
		WHERE p.conversation_id = ?
		ORDER BY p.joined_at`,
		conversationID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var out []Participant
	for rows.Next() {
		var p Participant
		if err := rows.Scan(&p.UserID, &p.Username, &p.FirstName, &p.LastName,
			&p.AvatarURL, &p.Status, &p.IsAdmin, &p.JoinedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListParticipantIDs returns a conversation's member user ids.
func (q *Queries) ListParticipantIDs(ctx context.Context, conversationID string) ([]string, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT user_id FROM conversation_participants WHERE conversation_id = ?`, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participant ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

type IsParticipantParams struct {
	UserID         string
	ConversationID string
}

// IsParticipant reports current membership. The gateway uses this for
// authorization instead of trusting its room cache.
func (q *Queries) IsParticipant(ctx context.Context, arg IsParticipantParams) (bool, error) {
	var one int
	err := q.db.QueryRowContext(ctx, `
		SELECT 1 FROM conversation_participants
		WHERE conversation_id = ? AND user_id = ?`,
		arg.ConversationID, arg.UserID,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check participation: %w", err)
	}
	return true, nil
}

type AddParticipantParams struct {
	ConversationID string
	UserID         string
	IsAdmin        bool
}

// AddParticipant adds a member. Adding an existing member is a no-op.
func (q *Queries) AddParticipant(ctx context.Context, arg AddParticipantParams) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO conversation_participants (conversation_id, user_id, is_admin, joined_at)
		VALUES (?, ?, ?, ?)`,
		arg.ConversationID, arg.UserID, arg.IsAdmin, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to add participant: %w", err)
	}
	return nil
}

// RemoveParticipant removes a member.
func (q *Queries) RemoveParticipant(ctx context.Context, conversationID, userID string) error {
	_, err := q.db.ExecContext(ctx, `
		DELETE FROM conversation_participants
		WHERE conversation_id = ? AND user_id = ?`,
		conversationID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove participant: %w", err)
	}
	return nil
}

// FindDirectConversation returns the existing non-group conversation between
// two users, if any. Used to avoid duplicate 1:1 conversations.
func (q *Queries) FindDirectConversation(ctx context.Context, userA, userB string) (Conversation, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT c.id, c.name, c.is_group, c.created_by, c.last_message_at, c.created_at, c.updated_at
		FROM conversations c
		JOIN conversation_participants pa ON pa.conversation_id = c.id AND pa.user_id = ?
		JOIN conversation_participants pb ON pb.conversation_id = c.id AND pb.user_id = ?
		WHERE c.is_group = 0
		LIMIT 1`,
		userA, userB,
	)
	c, err := scanConversation(row)
	if err != nil {
		return Conversation{}, notFound(err)
	}
	return c, nil
}

// TouchConversation bumps the last-activity timestamp after a new message.
func (q *Queries) TouchConversation(ctx context.Context, conversationID string, at time.Time) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE conversations SET last_message_at = ?, updated_at = ? WHERE id = ?`,
		at, at, conversationID,
	)
	if err != nil {
		return fmt.Errorf("failed to touch conversation: %w", err)
	}
	return nil
}
