package gateway

import (
	"context"
	"sync"

	socket "github.com/zishang520/socket.io/servers/socket/v3"

	"github.com/parley-chat/parley/internal/gateway/handlers"
	"github.com/parley-chat/parley/pkg/wire"
)

// lockConversation serializes persist-then-emit sections per conversation,
// so messages from concurrent senders fan out in the order their writes
// completed. Returns the unlock.
func (g *Gateway) lockConversation(conversationID string) func() {
	v, _ := g.convLocks.LoadOrStore(conversationID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// applyResult executes the instructions a handler returned: room membership
// changes first so a join is visible to the broadcasts that follow, then the
// broadcasts themselves, then the caller's error event if any.
func (g *Gateway) applyResult(callerSocketID string, client *socket.Socket, result handlers.EventResult) {
	for _, rc := range result.RoomChanges() {
		if rc.IsJoin() {
			g.rooms.Join(rc.ConversationID(), callerSocketID)
		} else {
			g.rooms.Leave(rc.ConversationID(), callerSocketID)
		}
	}

	callerUserID := g.getSocketData(callerSocketID).UserID

	for _, b := range result.Broadcasts() {
		skipSocketID := ""
		if b.SkipSelf() {
			skipSocketID = callerSocketID
		}
		skipUserID := ""
		if b.SkipUser() {
			skipUserID = callerUserID
		}
		switch {
		case b.IsRoom():
			g.emitToRoom(b.ConversationID(), b.Event(), b.Payload(), skipSocketID, skipUserID)
		case b.IsGlobal():
			g.emitGlobal(b.Event(), b.Payload(), skipSocketID, skipUserID)
		}
	}

	if errEvent := result.Err(); errEvent != nil && client != nil {
		client.Emit(wire.EventError, *errEvent)
	}
}

func onTypedAck[Req any](
	g *Gateway,
	client *socket.Socket,
	event string,
	handler func(context.Context, handlers.Deps, handlers.AuthContext, Req) handlers.EventResult,
) {
	client.On(event, func(data ...any) {
		socketID := string(client.Id())
		sd := g.getSocketData(socketID)
		if sd.queue == nil {
			return
		}
		raw, ack := getFirstAnyWithAck(data)

		sd.queue.Enqueue(func() {
			var req Req
			_ = decodeAny(raw, &req)

			auth := handlers.NewAuthContext(sd.UserID, sd.Username, socketID)
			result := handler(context.Background(), g.deps, auth, req)

			// Clients that skipped the callback get the error event instead;
			// the ack already carries the failure when one was requested.
			if ack != nil && result.Ack() != nil {
				ack(result.Ack())
				result = handlers.NewEventResultWithRooms(nil, result.Broadcasts(), result.RoomChanges())
			}
			g.applyResult(socketID, client, result)
		})
	})
}

// onOrderedAck is onTypedAck with the handler and its broadcasts held under
// the conversation lock, keyed from the request payload.
func onOrderedAck[Req any](
	g *Gateway,
	client *socket.Socket,
	event string,
	key func(Req) string,
	handler func(context.Context, handlers.Deps, handlers.AuthContext, Req) handlers.EventResult,
) {
	client.On(event, func(data ...any) {
		socketID := string(client.Id())
		sd := g.getSocketData(socketID)
		if sd.queue == nil {
			return
		}
		raw, ack := getFirstAnyWithAck(data)

		sd.queue.Enqueue(func() {
			var req Req
			_ = decodeAny(raw, &req)

			unlock := g.lockConversation(key(req))
			defer unlock()

			auth := handlers.NewAuthContext(sd.UserID, sd.Username, socketID)
			result := handler(context.Background(), g.deps, auth, req)

			if ack != nil && result.Ack() != nil {
				ack(result.Ack())
				result = handlers.NewEventResultWithRooms(nil, result.Broadcasts(), result.RoomChanges())
			}
			g.applyResult(socketID, client, result)
		})
	})
}

func onTypedEvent[Req any](
	g *Gateway,
	client *socket.Socket,
	event string,
	handler func(context.Context, handlers.Deps, handlers.AuthContext, Req) handlers.EventResult,
) {
	client.On(event, func(data ...any) {
		socketID := string(client.Id())
		sd := g.getSocketData(socketID)
		if sd.queue == nil {
			return
		}
		raw, _ := getFirstAnyWithAck(data)

		sd.queue.Enqueue(func() {
			var req Req
			_ = decodeAny(raw, &req)

			auth := handlers.NewAuthContext(sd.UserID, sd.Username, socketID)
			result := handler(context.Background(), g.deps, auth, req)

			g.applyResult(socketID, client, result)
		})
	})
}
