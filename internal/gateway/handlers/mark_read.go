package handlers

import (
	"context"

	"github.com/parley-chat/parley/internal/logger"
	"github.com/parley-chat/parley/internal/store"
	"github.com/parley-chat/parley/pkg/wire"
)

// MarkRead advances the caller's read marker for a conversation. The
// broadcast fires only when the marker actually moved; re-reading an already
// read conversation stays silent.
func MarkRead(ctx context.Context, deps Deps, auth AuthContext, req wire.MarkReadPayload) EventResult {
	if req.ConversationID == "" {
		return NewErrorResult(wire.CodeBadRequest, "conversation id required")
	}

	in, err := deps.Participation().IsParticipant(ctx, store.IsParticipantParams{
		UserID:         auth.UserID(),
		ConversationID: req.ConversationID,
	})
	if err != nil {
		logger.Warnf("Failed to check participation for user %s: %v", auth.UserID(), err)
		return NewErrorResult(wire.CodeStoreUnavailable, "failed to check membership")
	}
	if !in {
		return NewErrorResult(wire.CodeForbidden, "not a participant of this conversation")
	}

	moved, err := deps.Messages().MarkConversationRead(ctx, store.MarkConversationReadParams{
		ConversationID: req.ConversationID,
		UserID:         auth.UserID(),
	})
	if err != nil {
		logger.Errorf("Failed to mark conversation %s read: %v", req.ConversationID, err)
		return NewErrorResult(wire.CodeStoreUnavailable, "failed to store read marker")
	}
	if !moved {
		return NewEventResult(nil, nil)
	}

	return NewEventResult(nil, []Broadcast{
		newRoomBroadcastSkippingSelf(req.ConversationID, wire.EventMessageRead, wire.ReadEvent{
			ConversationID: req.ConversationID,
			UserID:         auth.UserID(),
		}),
	})
}
