package handlers

import (
	"context"

	"github.com/parley-chat/parley/internal/logger"
	"github.com/parley-chat/parley/internal/store"
	"github.com/parley-chat/parley/pkg/wire"
)

// Typing relays a typing indicator to the conversation room. Every socket of
// the typist is excluded, not just the one that sent the event. Nothing is
// persisted.
func Typing(ctx context.Context, deps Deps, auth AuthContext, req wire.TypingPayload) EventResult {
	if req.ConversationID == "" {
		return NewEventResult(nil, nil)
	}

	in, err := deps.Participation().IsParticipant(ctx, store.IsParticipantParams{
		UserID:         auth.UserID(),
		ConversationID: req.ConversationID,
	})
	if err != nil {
		logger.Warnf("Failed to check participation for user %s: %v", auth.UserID(), err)
		return NewEventResult(nil, nil)
	}
	if !in {
		return NewErrorResult(wire.CodeForbidden, "not a participant of this conversation")
	}

	return NewEventResult(nil, []Broadcast{
		newRoomBroadcastSkippingUser(req.ConversationID, wire.EventUserTyping, wire.TypingEvent{
			ConversationID: req.ConversationID,
			UserID:         auth.UserID(),
			Username:       auth.Username(),
			IsTyping:       req.IsTyping,
		}),
	})
}
