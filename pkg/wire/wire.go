// Package wire defines the JSON payloads exchanged over the Socket.IO channel
// and the REST API. Field names match what the web client sends and expects.
package wire

// Client -> server socket event names.
const (
	EventJoinConversation  = "conversation:join"
	EventLeaveConversation = "conversation:leave"
	EventSendMessage       = "message:send"
	EventReactMessage      = "message:react"
	EventMarkRead          = "message:read"
	EventTyping            = "typing"
)

// Server -> client socket event names.
const (
	EventMessageNew      = "message:new"
	EventMessageReaction = "message:reaction"
	EventMessageRead     = "message:read"
	EventUserTyping      = "user:typing"
	EventUserStatus      = "user:status"
	EventConversationNew = "conversation:new"
	EventError           = "error"
)

// Error codes carried on the "error" socket event.
const (
	CodeUnauthorized      = "unauthorized"
	CodeForbidden         = "forbidden"
	CodeNotFound          = "not_found"
	CodeBadRequest        = "bad_request"
	CodeStoreUnavailable  = "store_unavailable"
	CodeInvalidCredential = "invalid_credential"
	CodeExpiredCredential = "expired_credential"
)

// SocketAuthPayload is the Socket.IO handshake auth object.
type SocketAuthPayload struct {
	Token string `json:"token"`
}

// JoinConversationPayload targets a single conversation room.
type JoinConversationPayload struct {
	ConversationID string `json:"conversationId"`
}

// LeaveConversationPayload targets a single conversation room.
type LeaveConversationPayload struct {
	ConversationID string `json:"conversationId"`
}

// SendMessagePayload is the "message:send" request body.
type SendMessagePayload struct {
	ConversationID string `json:"conversationId"`
	Content        string `json:"content"`
	ContentType    string `json:"contentType,omitempty"`
}

// ReactPayload is the "message:react" request body. Reactions toggle: sending
// the same (message, reaction) pair twice adds then removes it.
type ReactPayload struct {
	MessageID string `json:"messageId"`
	Reaction  string `json:"reaction"`
}

// MarkReadPayload is the "message:read" request body.
type MarkReadPayload struct {
	ConversationID string `json:"conversationId"`
}

// TypingPayload is the "typing" request body.
type TypingPayload struct {
	ConversationID string `json:"conversationId"`
	IsTyping       bool   `json:"isTyping"`
}

// UserProfile is the public subset of a user attached to outbound events.
type UserProfile struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// MessageEvent is the "message:new" broadcast body. The id and createdAt come
// from the store, never from the gateway.
type MessageEvent struct {
	ID             string      `json:"id"`
	ConversationID string      `json:"conversationId"`
	SenderID       string      `json:"senderId"`
	Content        string      `json:"content"`
	ContentType    string      `json:"contentType"`
	CreatedAt      int64       `json:"createdAt"`
	Sender         UserProfile `json:"sender"`
}

// ReactionDelta is the "message:reaction" broadcast body. Action is "add" or
// "remove"; clients apply the delta instead of replacing reaction state.
type ReactionDelta struct {
	MessageID      string       `json:"messageId"`
	ConversationID string       `json:"conversationId"`
	UserID         string       `json:"userId"`
	Reaction       string       `json:"reaction"`
	Action         string       `json:"action"`
	User           *UserProfile `json:"user,omitempty"`
}

// ReadEvent is the "message:read" broadcast body. It is per conversation, not
// per message; clients reconcile which of their messages are now read.
type ReadEvent struct {
	ConversationID string `json:"conversationId"`
	UserID         string `json:"userId"`
}

// TypingEvent is the "user:typing" broadcast body.
type TypingEvent struct {
	ConversationID string `json:"conversationId"`
	UserID         string `json:"userId"`
	Username       string `json:"username"`
	IsTyping       bool   `json:"isTyping"`
}

// StatusEvent is the "user:status" broadcast body.
type StatusEvent struct {
	UserID string `json:"userId"`
	Status string `json:"status"`
}

// ConversationEvent is the "conversation:new" broadcast body, sent to
// participants when they are added to a conversation.
type ConversationEvent struct {
	ConversationID string `json:"conversationId"`
}

// ErrorEvent is the "error" body sent to the initiating socket only.
type ErrorEvent struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// SendAck is the acknowledgement returned to the sending socket for
// "message:send". The sender's other devices get the broadcast instead.
type SendAck struct {
	OK      bool          `json:"ok"`
	Message *MessageEvent `json:"message,omitempty"`
	Error   *ErrorEvent   `json:"error,omitempty"`
}

// ReactAck acknowledges a "message:react" request.
type ReactAck struct {
	OK     bool           `json:"ok"`
	Delta  *ReactionDelta `json:"delta,omitempty"`
	Error  *ErrorEvent    `json:"error,omitempty"`
	Action string         `json:"action,omitempty"`
}
