package handlers

import (
	"context"

	"github.com/parley-chat/parley/internal/logger"
	"github.com/parley-chat/parley/pkg/wire"
)

// Disconnect applies disconnect-side effects for a socket. Only the user's
// last socket going away flips them offline; closing one tab while another
// stays open is silent.
func Disconnect(ctx context.Context, deps Deps, auth AuthContext, lastSocket bool) EventResult {
	if !lastSocket {
		return NewEventResult(nil, nil)
	}

	if err := deps.Users().UpdateUserStatus(ctx, auth.UserID(), "offline"); err != nil {
		logger.Warnf("Failed to mark user %s offline: %v", auth.UserID(), err)
	}

	return NewEventResult(nil, []Broadcast{
		newGlobalBroadcastSkippingSelf(wire.EventUserStatus, wire.StatusEvent{
			UserID: auth.UserID(),
			Status: "offline",
		}),
	})
}
