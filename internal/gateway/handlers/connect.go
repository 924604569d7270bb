package handlers

import (
	"context"

	"github.com/parley-chat/parley/internal/logger"
	"github.com/parley-chat/parley/pkg/wire"
)

// Connect joins a freshly authenticated socket to every conversation the user
// participates in. When this is the user's first live socket, it also marks
// them online and announces the transition to everyone.
func Connect(ctx context.Context, deps Deps, auth AuthContext, firstSocket bool) EventResult {
	ids, err := deps.Participation().ListConversationIDsForUser(ctx, auth.UserID())
	if err != nil {
		logger.Warnf("Failed to list conversations for user %s: %v", auth.UserID(), err)
		return NewErrorResult(wire.CodeStoreUnavailable, "failed to load conversations")
	}

	roomChanges := make([]RoomChange, 0, len(ids))
	for _, id := range ids {
		roomChanges = append(roomChanges, newRoomJoin(id))
	}

	var broadcasts []Broadcast
	if firstSocket {
		if err := deps.Users().UpdateUserStatus(ctx, auth.UserID(), "online"); err != nil {
			logger.Warnf("Failed to mark user %s online: %v", auth.UserID(), err)
		}
		// Only the originating socket is excluded. The user's other live
		// sockets hear their own transition, so a client rendering its own
		// presence stays in sync.
		broadcasts = append(broadcasts, newGlobalBroadcastSkippingSelf(wire.EventUserStatus, wire.StatusEvent{
			UserID: auth.UserID(),
			Status: "online",
		}))
	}

	return NewEventResultWithRooms(nil, broadcasts, roomChanges)
}
