package handlers

import (
	"context"
	"strings"

	"github.com/parley-chat/parley/internal/logger"
	"github.com/parley-chat/parley/internal/store"
	"github.com/parley-chat/parley/pkg/wire"
)

// SendMessage persists a message and fans it out to the conversation room.
// The caller's socket gets the canonical record in the ack; every other room
// socket, including the sender's other devices, gets the broadcast.
func SendMessage(ctx context.Context, deps Deps, auth AuthContext, req wire.SendMessagePayload) EventResult {
	if req.ConversationID == "" || strings.TrimSpace(req.Content) == "" {
		return NewAckErrorResult(wire.SendAck{
			OK:    false,
			Error: &wire.ErrorEvent{Code: wire.CodeBadRequest, Message: "conversation id and content required"},
		}, wire.CodeBadRequest, "conversation id and content required")
	}

	in, err := deps.Participation().IsParticipant(ctx, store.IsParticipantParams{
		UserID:         auth.UserID(),
		ConversationID: req.ConversationID,
	})
	if err != nil {
		logger.Warnf("Failed to check participation for user %s: %v", auth.UserID(), err)
		return NewAckErrorResult(wire.SendAck{
			OK:    false,
			Error: &wire.ErrorEvent{Code: wire.CodeStoreUnavailable, Message: "failed to check membership"},
		}, wire.CodeStoreUnavailable, "failed to check membership")
	}
	if !in {
		return NewAckErrorResult(wire.SendAck{
			OK:    false,
			Error: &wire.ErrorEvent{Code: wire.CodeForbidden, Message: "not a participant of this conversation"},
		}, wire.CodeForbidden, "not a participant of this conversation")
	}

	msg, err := deps.Messages().CreateMessage(ctx, store.CreateMessageParams{
		ConversationID: req.ConversationID,
		SenderID:       auth.UserID(),
		Content:        req.Content,
		ContentType:    req.ContentType,
	})
	if err != nil {
		logger.Errorf("Failed to persist message from user %s: %v", auth.UserID(), err)
		return NewAckErrorResult(wire.SendAck{
			OK:    false,
			Error: &wire.ErrorEvent{Code: wire.CodeStoreUnavailable, Message: "failed to store message"},
		}, wire.CodeStoreUnavailable, "failed to store message")
	}

	if err := deps.Participation().TouchConversation(ctx, req.ConversationID, msg.CreatedAt); err != nil {
		logger.Warnf("Failed to bump conversation %s activity: %v", req.ConversationID, err)
	}

	event := wire.MessageEvent{
		ID:             msg.ID,
		ConversationID: msg.ConversationID,
		SenderID:       msg.SenderID,
		Content:        msg.Content,
		ContentType:    msg.ContentType,
		CreatedAt:      msg.CreatedAt.UnixMilli(),
		Sender:         senderProfile(ctx, deps, auth),
	}

	return NewEventResult(wire.SendAck{OK: true, Message: &event}, []Broadcast{
		newRoomBroadcastSkippingSelf(req.ConversationID, wire.EventMessageNew, event),
	})
}

// senderProfile resolves the caller's public profile for outbound events. A
// lookup failure degrades to id and username from the token rather than
// failing the whole event.
func senderProfile(ctx context.Context, deps Deps, auth AuthContext) wire.UserProfile {
	u, err := deps.Users().GetUserByID(ctx, auth.UserID())
	if err != nil {
		logger.Warnf("Failed to load profile for user %s: %v", auth.UserID(), err)
		return wire.UserProfile{ID: auth.UserID(), Username: auth.Username()}
	}
	return wire.UserProfile{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		AvatarURL: u.AvatarURL,
	}
}
