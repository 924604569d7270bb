package handlers

import (
	"github.com/parley-chat/parley/internal/store"
)

// ErrorResponse is the JSON body for failed requests.
type ErrorResponse struct {
	Error string `json:"error"`
}

// UserResponse is a user profile in REST responses. Email is only present on
// the caller's own profile.
type UserResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	AvatarURL string `json:"avatarUrl"`
	Status    string `json:"status"`
}

func ownUserResponse(u store.User) UserResponse {
	r := publicUserResponse(u)
	r.Email = u.Email
	return r
}

func publicUserResponse(u store.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		AvatarURL: u.AvatarURL,
		Status:    u.Status,
	}
}

// ParticipantResponse is a conversation member in REST responses.
type ParticipantResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	AvatarURL string `json:"avatarUrl"`
	Status    string `json:"status"`
	IsAdmin   bool   `json:"isAdmin"`
	JoinedAt  int64  `json:"joinedAt"`
}

func participantResponse(p store.Participant) ParticipantResponse {
	return ParticipantResponse{
		ID:        p.UserID,
		Username:  p.Username,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		AvatarURL: p.AvatarURL,
		Status:    p.Status,
		IsAdmin:   p.IsAdmin,
		JoinedAt:  p.JoinedAt.UnixMilli(),
	}
}

// MessageResponse is a message in REST responses, with its sender profile and
// accumulated reactions.
type MessageResponse struct {
	ID             string             `json:"id"`
	ConversationID string             `json:"conversationId"`
	SenderID       string             `json:"senderId"`
	Content        string             `json:"content"`
	ContentType    string             `json:"contentType"`
	CreatedAt      int64              `json:"createdAt"`
	Sender         UserResponse       `json:"sender"`
	Reactions      []ReactionResponse `json:"reactions"`
}

// ReactionResponse is one reaction on a message.
type ReactionResponse struct {
	UserID   string `json:"userId"`
	Reaction string `json:"reaction"`
}

// ReadMarkerResponse is one participant's read position in a conversation.
type ReadMarkerResponse struct {
	UserID            string `json:"userId"`
	LastReadMessageID string `json:"lastReadMessageId"`
	LastReadAt        int64  `json:"lastReadAt"`
}

// ConversationResponse is a conversation in REST responses.
type ConversationResponse struct {
	ID            string                `json:"id"`
	Name          string                `json:"name"`
	IsGroup       bool                  `json:"isGroup"`
	CreatedBy     string                `json:"createdBy"`
	CreatedAt     int64                 `json:"createdAt"`
	LastMessageAt *int64                `json:"lastMessageAt"`
	Participants  []ParticipantResponse `json:"participants"`
	LastMessage   *MessageResponse      `json:"lastMessage,omitempty"`
}

func conversationResponse(c store.Conversation, participants []store.Participant) ConversationResponse {
	resp := ConversationResponse{
		ID:           c.ID,
		Name:         c.Name,
		IsGroup:      c.IsGroup,
		CreatedBy:    c.CreatedBy,
		CreatedAt:    c.CreatedAt.UnixMilli(),
		Participants: make([]ParticipantResponse, 0, len(participants)),
	}
	if c.LastMessageAt.Valid {
		ms := c.LastMessageAt.Time.UnixMilli()
		resp.LastMessageAt = &ms
	}
	for _, p := range participants {
		resp.Participants = append(resp.Participants, participantResponse(p))
	}
	return resp
}
