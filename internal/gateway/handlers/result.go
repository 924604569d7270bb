package handlers

import "github.com/parley-chat/parley/pkg/wire"

// BroadcastScope describes where a broadcast should be emitted.
type BroadcastScope int

const (
	broadcastScopeUnknown BroadcastScope = iota
	broadcastScopeRoom
	broadcastScopeGlobal
)

// Broadcast describes a single outbound emission produced by a handler call.
type Broadcast struct {
	scope          BroadcastScope
	conversationID string
	event          string
	payload        any
	skipSelf       bool
	skipUser       bool
}

func newRoomBroadcast(conversationID, event string, payload any) Broadcast {
	return Broadcast{scope: broadcastScopeRoom, conversationID: conversationID, event: event, payload: payload}
}

func newRoomBroadcastSkippingSelf(conversationID, event string, payload any) Broadcast {
	return Broadcast{scope: broadcastScopeRoom, conversationID: conversationID, event: event, payload: payload, skipSelf: true}
}

func newRoomBroadcastSkippingUser(conversationID, event string, payload any) Broadcast {
	return Broadcast{scope: broadcastScopeRoom, conversationID: conversationID, event: event, payload: payload, skipUser: true}
}

func newGlobalBroadcastSkippingSelf(event string, payload any) Broadcast {
	return Broadcast{scope: broadcastScopeGlobal, event: event, payload: payload, skipSelf: true}
}

// IsRoom reports whether the broadcast targets a conversation room.
func (b Broadcast) IsRoom() bool { return b.scope == broadcastScopeRoom }

// IsGlobal reports whether the broadcast targets every connected socket.
func (b Broadcast) IsGlobal() bool { return b.scope == broadcastScopeGlobal }

// SkipSelf reports whether the transport adapter should skip the calling
// socket. The caller's other sockets still receive the broadcast.
func (b Broadcast) SkipSelf() bool { return b.skipSelf }

// SkipUser reports whether the transport adapter should skip every socket
// belonging to the calling user.
func (b Broadcast) SkipUser() bool { return b.skipUser }

// ConversationID returns the target room for room-scoped broadcasts.
func (b Broadcast) ConversationID() string { return b.conversationID }

// Event returns the outbound event name.
func (b Broadcast) Event() string { return b.event }

// Payload returns the outbound event body.
func (b Broadcast) Payload() any { return b.payload }

// RoomChange instructs the transport adapter to join or leave a conversation
// room for the calling socket.
type RoomChange struct {
	conversationID string
	join           bool
}

func newRoomJoin(conversationID string) RoomChange {
	return RoomChange{conversationID: conversationID, join: true}
}

func newRoomLeave(conversationID string) RoomChange {
	return RoomChange{conversationID: conversationID}
}

// ConversationID returns the target room.
func (r RoomChange) ConversationID() string { return r.conversationID }

// IsJoin reports whether the socket should join (true) or leave (false).
func (r RoomChange) IsJoin() bool { return r.join }

// EventResult is the output of a handler invocation.
type EventResult struct {
	ack         any
	errEvent    *wire.ErrorEvent
	broadcasts  []Broadcast
	roomChanges []RoomChange
}

// NewEventResult constructs a handler result.
func NewEventResult(ack any, broadcasts []Broadcast) EventResult {
	return EventResult{ack: ack, broadcasts: broadcasts}
}

// NewEventResultWithRooms constructs a handler result carrying room changes.
func NewEventResultWithRooms(ack any, broadcasts []Broadcast, roomChanges []RoomChange) EventResult {
	return EventResult{ack: ack, broadcasts: broadcasts, roomChanges: roomChanges}
}

// NewErrorResult constructs a result that sends an error event to the caller.
func NewErrorResult(code, message string) EventResult {
	return EventResult{errEvent: &wire.ErrorEvent{Code: code, Message: message}}
}

// NewAckErrorResult constructs a failure result for an ack-style event. The
// transport sends the ack when the client supplied a callback, and falls back
// to the error event otherwise.
func NewAckErrorResult(ack any, code, message string) EventResult {
	return EventResult{ack: ack, errEvent: &wire.ErrorEvent{Code: code, Message: message}}
}

// Ack returns the ACK payload to send to the caller, if any.
func (r EventResult) Ack() any { return r.ack }

// Err returns the error event to send to the calling socket, if any.
func (r EventResult) Err() *wire.ErrorEvent { return r.errEvent }

// Broadcasts returns the emissions requested by the handler.
func (r EventResult) Broadcasts() []Broadcast { return r.broadcasts }

// RoomChanges returns the room membership changes requested by the handler.
func (r EventResult) RoomChanges() []RoomChange { return r.roomChanges }
