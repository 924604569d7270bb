package handlers

import (
	"context"

	"github.com/parley-chat/parley/internal/logger"
	"github.com/parley-chat/parley/internal/store"
	"github.com/parley-chat/parley/pkg/wire"
)

// JoinConversation subscribes the calling socket to a conversation room after
// re-checking membership against the store.
func JoinConversation(ctx context.Context, deps Deps, auth AuthContext, req wire.JoinConversationPayload) EventResult {
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

	return NewEventResultWithRooms(nil, nil, []RoomChange{newRoomJoin(req.ConversationID)})
}

// LeaveConversation unsubscribes the calling socket from a conversation room.
// Leaving a room the socket is not in is a no-op.
func LeaveConversation(ctx context.Context, deps Deps, auth AuthContext, req wire.LeaveConversationPayload) EventResult {
	if req.ConversationID == "" {
		return NewErrorResult(wire.CodeBadRequest, "conversation id required")
	}

	return NewEventResultWithRooms(nil, nil, []RoomChange{newRoomLeave(req.ConversationID)})
}
