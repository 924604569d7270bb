package handlers

import (
	"context"
	"time"

	"github.com/parley-chat/parley/internal/store"
)

// ParticipationQueries is the subset of conversation queries used by gateway
// handlers. Membership is always re-checked here, never taken from the room
// cache.
type ParticipationQueries interface {
	IsParticipant(ctx context.Context, arg store.IsParticipantParams) (bool, error)
	ListConversationIDsForUser(ctx context.Context, userID string) ([]string, error)
	TouchConversation(ctx context.Context, conversationID string, at time.Time) error
}

// MessageQueries is the subset of message queries used by gateway handlers.
type MessageQueries interface {
	CreateMessage(ctx context.Context, arg store.CreateMessageParams) (store.Message, error)
	GetMessageByID(ctx context.Context, id string) (store.Message, error)
	ToggleReaction(ctx context.Context, arg store.ToggleReactionParams) (string, error)
	MarkConversationRead(ctx context.Context, arg store.MarkConversationReadParams) (bool, error)
}

// UserQueries is the subset of user queries used by gateway handlers.
type UserQueries interface {
	GetUserByID(ctx context.Context, id string) (store.User, error)
	UpdateUserStatus(ctx context.Context, id, status string) error
}

// Deps holds the narrow dependencies required by extracted gateway handlers.
type Deps struct {
	participation ParticipationQueries
	messages      MessageQueries
	users         UserQueries
	now           func() time.Time
}

// NewDeps builds a dependency bundle for handler calls.
func NewDeps(
	participation ParticipationQueries,
	messages MessageQueries,
	users UserQueries,
	now func() time.Time,
) Deps {
	return Deps{
		participation: participation,
		messages:      messages,
		users:         users,
		now:           now,
	}
}

func (d Deps) Participation() ParticipationQueries { return d.participation }
func (d Deps) Messages() MessageQueries            { return d.messages }
func (d Deps) Users() UserQueries                  { return d.users }
func (d Deps) Now() time.Time {
	if d.now != nil {
		return d.now()
	}
	return time.Now()
}
