package handlers

import (
	"context"
	"errors"

	"github.com/parley-chat/parley/internal/logger"
	"github.com/parley-chat/parley/internal/store"
	"github.com/parley-chat/parley/pkg/wire"
)

// React toggles a reaction on a message and fans the delta out to the
// conversation room. The message's conversation is resolved server-side so a
// client cannot route a reaction into a room it never belonged to.
func React(ctx context.Context, deps Deps, auth AuthContext, req wire.ReactPayload) EventResult {
	if req.MessageID == "" || req.Reaction == "" {
		return NewAckErrorResult(wire.ReactAck{
			OK:    false,
			Error: &wire.ErrorEvent{Code: wire.CodeBadRequest, Message: "message id and reaction required"},
		}, wire.CodeBadRequest, "message id and reaction required")
	}

	msg, err := deps.Messages().GetMessageByID(ctx, req.MessageID)
	if errors.Is(err, store.ErrNotFound) {
		return NewAckErrorResult(wire.ReactAck{
			OK:    false,
			Error: &wire.ErrorEvent{Code: wire.CodeNotFound, Message: "message not found"},
		}, wire.CodeNotFound, "message not found")
	}
	if err != nil {
		logger.Warnf("Failed to load message %s: %v", req.MessageID, err)
		return NewAckErrorResult(wire.ReactAck{
			OK:    false,
			Error: &wire.ErrorEvent{Code: wire.CodeStoreUnavailable, Message: "failed to load message"},
		}, wire.CodeStoreUnavailable, "failed to load message")
	}

	in, err := deps.Participation().IsParticipant(ctx, store.IsParticipantParams{
		UserID:         auth.UserID(),
		ConversationID: msg.ConversationID,
	})
	if err != nil {
		logger.Warnf("Failed to check participation for user %s: %v", auth.UserID(), err)
		return NewAckErrorResult(wire.ReactAck{
			OK:    false,
			Error: &wire.ErrorEvent{Code: wire.CodeStoreUnavailable, Message: "failed to check membership"},
		}, wire.CodeStoreUnavailable, "failed to check membership")
	}
	if !in {
		return NewAckErrorResult(wire.ReactAck{
			OK:    false,
			Error: &wire.ErrorEvent{Code: wire.CodeForbidden, Message: "not a participant of this conversation"},
		}, wire.CodeForbidden, "not a participant of this conversation")
	}

	action, err := deps.Messages().ToggleReaction(ctx, store.ToggleReactionParams{
		MessageID: req.MessageID,
		UserID:    auth.UserID(),
		Reaction:  req.Reaction,
	})
	if err != nil {
		logger.Errorf("Failed to toggle reaction on message %s: %v", req.MessageID, err)
		return NewAckErrorResult(wire.ReactAck{
			OK:    false,
			Error: &wire.ErrorEvent{Code: wire.CodeStoreUnavailable, Message: "failed to store reaction"},
		}, wire.CodeStoreUnavailable, "failed to store reaction")
	}

	profile := senderProfile(ctx, deps, auth)
	delta := wire.ReactionDelta{
		MessageID:      req.MessageID,
		ConversationID: msg.ConversationID,
		UserID:         auth.UserID(),
		Reaction:       req.Reaction,
		Action:         action,
		User:           &profile,
	}

	return NewEventResult(wire.ReactAck{OK: true, Delta: &delta, Action: action}, []Broadcast{
		newRoomBroadcastSkippingSelf(msg.ConversationID, wire.EventMessageReaction, delta),
	})
}
