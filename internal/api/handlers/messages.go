package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/parley-chat/parley/internal/api/middleware"
	"github.com/parley-chat/parley/internal/logger"
	"github.com/parley-chat/parley/internal/store"
)

type MessageHandler struct {
	queries *store.Queries
}

func NewMessageHandler(queries *store.Queries) *MessageHandler {
	return &MessageHandler{queries: queries}
}

// List handles GET /api/conversations/:id/messages?limit=&before=
// The before cursor is a unix-millisecond timestamp; the page holds messages
// created strictly before it, newest first.
func (h *MessageHandler) List(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	conversationID := c.Param("id")
	ctx := c.Request.Context()

	in, err := h.queries.IsParticipant(ctx, store.IsParticipantParams{
		UserID:         userID,
		ConversationID: conversationID,
	})
	if err != nil {
		logger.Errorf("Failed to check participation: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "database error"})
		return
	}
	if !in {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "not a participant of this conversation"})
		return
	}

	arg := store.ListMessagesParams{ConversationID: conversationID}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
			return
		}
		arg.Limit = limit
	}
	if raw := c.Query("before"); raw != "" {
		ms, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid before cursor"})
			return
		}
		arg.Before = time.UnixMilli(ms).UTC()
	}

	messages, err := h.queries.ListMessages(ctx, arg)
	if err != nil {
		logger.Errorf("Failed to list messages for conversation %s: %v", conversationID, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "database error"})
		return
	}

	reactions, err := h.queries.ListReactionsForConversation(ctx, conversationID)
	if err != nil {
		logger.Errorf("Failed to list reactions for conversation %s: %v", conversationID, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "database error"})
		return
	}
	byMessage := make(map[string][]ReactionResponse)
	for _, r := range reactions {
		byMessage[r.MessageID] = append(byMessage[r.MessageID], ReactionResponse{
			UserID:   r.UserID,
			Reaction: r.Reaction,
		})
	}

	out := make([]MessageResponse, 0, len(messages))
	for _, m := range messages {
		reactions := byMessage[m.ID]
		if reactions == nil {
			reactions = []ReactionResponse{}
		}
		out = append(out, MessageResponse{
			ID:             m.ID,
			ConversationID: m.ConversationID,
			SenderID:       m.SenderID,
			Content:        m.Content,
			ContentType:    m.ContentType,
			CreatedAt:      m.CreatedAt.UnixMilli(),
			Sender: UserResponse{
				ID:        m.SenderID,
				Username:  m.SenderUsername,
				FirstName: m.SenderFirstName,
				LastName:  m.SenderLastName,
				AvatarURL: m.SenderAvatarURL,
			},
			Reactions: reactions,
		})
	}

	markers, err := h.queries.GetReadMarkers(ctx, conversationID)
	if err != nil {
		logger.Errorf("Failed to list read markers for conversation %s: %v", conversationID, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "database error"})
		return
	}
	markerResponses := make([]ReadMarkerResponse, 0, len(markers))
	for _, m := range markers {
		markerResponses = append(markerResponses, ReadMarkerResponse{
			UserID:            m.UserID,
			LastReadMessageID: m.LastReadMessageID,
			LastReadAt:        m.LastReadAt.UnixMilli(),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"messages":    out,
		"readMarkers": markerResponses,
	})
}

// UpdateMessageRequest is the message edit body.
type UpdateMessageRequest struct {
	Content string `json:"content"`
}

// Update handles PUT /api/messages/:id. Only the sender may edit their
// message.
func (h *MessageHandler) Update(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	messageID := c.Param("id")
	ctx := c.Request.Context()

	var req UpdateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "content is required"})
		return
	}

	msg, err := h.queries.GetMessageByID(ctx, messageID)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "message not found"})
		return
	}
	if err != nil {
		logger.Errorf("Failed to load message %s: %v", messageID, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "database error"})
		return
	}
	if msg.SenderID != userID {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "only the sender may edit a message"})
		return
	}

	updated, err := h.queries.UpdateMessageContent(ctx, store.UpdateMessageContentParams{
		ID:      messageID,
		Content: req.Content,
	})
	if err != nil {
		logger.Errorf("Failed to update message %s: %v", messageID, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to update message"})
		return
	}

	sender, err := h.queries.GetUserByID(ctx, updated.SenderID)
	if err != nil {
		logger.Warnf("Failed to load sender %s: %v", updated.SenderID, err)
	}

	c.JSON(http.StatusOK, gin.H{"message": MessageResponse{
		ID:             updated.ID,
		ConversationID: updated.ConversationID,
		SenderID:       updated.SenderID,
		Content:        updated.Content,
		ContentType:    updated.ContentType,
		CreatedAt:      updated.CreatedAt.UnixMilli(),
		Sender:         publicUserResponse(sender),
		Reactions:      []ReactionResponse{},
	}})
}

// Delete handles DELETE /api/messages/:id. Only the sender may delete their
// message; its reactions are removed with it.
func (h *MessageHandler) Delete(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	messageID := c.Param("id")
	ctx := c.Request.Context()

	msg, err := h.queries.GetMessageByID(ctx, messageID)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "message not found"})
		return
	}
	if err != nil {
		logger.Errorf("Failed to load message %s: %v", messageID, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "database error"})
		return
	}
	if msg.SenderID != userID {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "only the sender may delete a message"})
		return
	}

	if err := h.queries.DeleteMessage(ctx, messageID); err != nil {
		logger.Errorf("Failed to delete message %s: %v", messageID, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to delete message"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "message deleted"})
}
