package handlers

import (
	"context"
	"time"

	"github.com/parley-chat/parley/internal/store"
)

type fakeParticipationQueries struct {
	isParticipant func(ctx context.Context, arg store.IsParticipantParams) (bool, error)
	listIDs       func(ctx context.Context, userID string) ([]string, error)
	touch         func(ctx context.Context, conversationID string, at time.Time) error
}

func (f fakeParticipationQueries) IsParticipant(ctx context.Context, arg store.IsParticipantParams) (bool, error) {
	return f.isParticipant(ctx, arg)
}

func (f fakeParticipationQueries) ListConversationIDsForUser(ctx context.Context, userID string) ([]string, error) {
	return f.listIDs(ctx, userID)
}

func (f fakeParticipationQueries) TouchConversation(ctx context.Context, conversationID string, at time.Time) error {
	if f.touch == nil {
		return nil
	}
	return f.touch(ctx, conversationID, at)
}

type fakeMessageQueries struct {
	create   func(ctx context.Context, arg store.CreateMessageParams) (store.Message, error)
	getByID  func(ctx context.Context, id string) (store.Message, error)
	toggle   func(ctx context.Context, arg store.ToggleReactionParams) (string, error)
	markRead func(ctx context.Context, arg store.MarkConversationReadParams) (bool, error)
}

func (f fakeMessageQueries) CreateMessage(ctx context.Context, arg store.CreateMessageParams) (store.Message, error) {
	return f.create(ctx, arg)
}

func (f fakeMessageQueries) GetMessageByID(ctx context.Context, id string) (store.Message, error) {
	return f.getByID(ctx, id)
}

func (f fakeMessageQueries) ToggleReaction(ctx context.Context, arg store.ToggleReactionParams) (string, error) {
	return f.toggle(ctx, arg)
}

func (f fakeMessageQueries) MarkConversationRead(ctx context.Context, arg store.MarkConversationReadParams) (bool, error) {
	return f.markRead(ctx, arg)
}

type fakeUserQueries struct {
	getByID      func(ctx context.Context, id string) (store.User, error)
	updateStatus func(ctx context.Context, id, status string) error
}

func (f fakeUserQueries) GetUserByID(ctx context.Context, id string) (store.User, error) {
	if f.getByID == nil {
		return store.User{ID: id, Username: "user-" + id}, nil
	}
	return f.getByID(ctx, id)
}

func (f fakeUserQueries) UpdateUserStatus(ctx context.Context, id, status string) error {
	if f.updateStatus == nil {
		return nil
	}
	return f.updateStatus(ctx, id, status)
}

func memberOf(conversations ...string) fakeParticipationQueries {
	return fakeParticipationQueries{
		isParticipant: func(ctx context.Context, arg store.IsParticipantParams) (bool, error) {
			for _, id := range conversations {
				if id == arg.ConversationID {
					return true, nil
				}
			}
			return false, nil
		},
		listIDs: func(ctx context.Context, userID string) ([]string, error) {
			return conversations, nil
		},
	}
}
