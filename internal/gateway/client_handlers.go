package gateway

import (
	socket "github.com/zishang520/socket.io/servers/socket/v3"

	"github.com/parley-chat/parley/internal/gateway/handlers"
	"github.com/parley-chat/parley/pkg/wire"
)

func (g *Gateway) registerClientHandlers(client *socket.Socket, socketID string) {
	// Room subscription (decode -> handler -> apply room changes)
	onTypedEvent[wire.JoinConversationPayload](g, client, wire.EventJoinConversation, handlers.JoinConversation)
	onTypedEvent[wire.LeaveConversationPayload](g, client, wire.EventLeaveConversation, handlers.LeaveConversation)

	// ACK handlers (decode -> handler -> ack -> broadcast). Sends hold the
	// conversation lock across persist and fan-out so two senders cannot
	// interleave between them.
	onOrderedAck[wire.SendMessagePayload](g, client, wire.EventSendMessage,
		func(p wire.SendMessagePayload) string { return p.ConversationID },
		handlers.SendMessage)
	onTypedAck[wire.ReactPayload](g, client, wire.EventReactMessage, handlers.React)

	// Fire-and-forget events
	onTypedEvent[wire.MarkReadPayload](g, client, wire.EventMarkRead, handlers.MarkRead)
	onTypedEvent[wire.TypingPayload](g, client, wire.EventTyping, handlers.Typing)
}
