package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/parley-chat/parley/internal/api/middleware"
	"github.com/parley-chat/parley/internal/gateway"
	"github.com/parley-chat/parley/internal/logger"
	"github.com/parley-chat/parley/internal/store"
)

type ConversationHandler struct {
	queries *store.Queries
	gateway *gateway.Gateway
}

func NewConversationHandler(queries *store.Queries, gw *gateway.Gateway) *ConversationHandler {
	return &ConversationHandler{
		queries: queries,
		gateway: gw,
	}
}

// CreateConversationRequest is the conversation creation body.
type CreateConversationRequest struct {
	Name           string   `json:"name"`
	IsGroup        bool     `json:"isGroup"`
	ParticipantIDs []string `json:"participantIds"`
}

// AddParticipantRequest adds one member to a group conversation.
type AddParticipantRequest struct {
	UserID string `json:"userId"`
}

// List handles GET /api/conversations
func (h *ConversationHandler) List(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	ctx := c.Request.Context()

	convs, err := h.queries.ListConversationsForUser(ctx, userID)
	if err != nil {
		logger.Errorf("Failed to list conversations for user %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "database error"})
		return
	}

	out := make([]ConversationResponse, 0, len(convs))
	for _, conv := range convs {
		participants, err := h.queries.ListParticipants(ctx, conv.ID)
		if err != nil {
			logger.Errorf("Failed to list participants for conversation %s: %v", conv.ID, err)
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "database error"})
			return
		}
		resp := conversationResponse(conv, participants)

		latest, err := h.queries.LatestMessage(ctx, conv.ID)
		if err == nil {
			resp.LastMessage = &MessageResponse{
				ID:             latest.ID,
				ConversationID: latest.ConversationID,
				SenderID:       latest.SenderID,
				Content:        latest.Content,
				ContentType:    latest.ContentType,
				CreatedAt:      latest.CreatedAt.UnixMilli(),
				Reactions:      []ReactionResponse{},
			}
		} else if !errors.Is(err, store.ErrNotFound) {
			logger.Warnf("Failed to load latest message for conversation %s: %v", conv.ID, err)
		}

		out = append(out, resp)
	}

	c.JSON(http.StatusOK, gin.H{"conversations": out})
}

// Create handles POST /api/conversations
func (h *ConversationHandler) Create(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	ctx := c.Request.Context()

	var req CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	// Dedupe and drop the creator from the participant list; they are added
	// as admin below.
	seen := map[string]struct{}{userID: {}}
	participantIDs := make([]string, 0, len(req.ParticipantIDs))
	for _, id := range req.ParticipantIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		participantIDs = append(participantIDs, id)
	}
	if len(participantIDs) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "at least one participant required"})
		return
	}
	if !req.IsGroup && len(participantIDs) > 1 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "direct conversations have exactly two members"})
		return
	}

	for _, id := range participantIDs {
		if _, err := h.queries.GetUserByID(ctx, id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown participant: " + id})
				return
			}
			logger.Errorf("Failed to load participant %s: %v", id, err)
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "database error"})
			return
		}
	}

	// A 1:1 conversation with the same pair is reused instead of duplicated.
	if !req.IsGroup {
		existing, err := h.queries.FindDirectConversation(ctx, userID, participantIDs[0])
		if err == nil {
			participants, perr := h.queries.ListParticipants(ctx, existing.ID)
			if perr != nil {
				logger.Errorf("Failed to list participants for conversation %s: %v", existing.ID, perr)
				c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "database error"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"conversation": conversationResponse(existing, participants)})
			return
		}
		if !errors.Is(err, store.ErrNotFound) {
			logger.Errorf("Failed to look up direct conversation: %v", err)
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "database error"})
			return
		}
	}

	conv, err := h.queries.CreateConversation(ctx, store.CreateConversationParams{
		Name:      strings.TrimSpace(req.Name),
		IsGroup:   req.IsGroup,
		CreatedBy: userID,
	})
	if err != nil {
		logger.Errorf("Failed to create conversation: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to create conversation"})
		return
	}

	if err := h.queries.AddParticipant(ctx, store.AddParticipantParams{
		ConversationID: conv.ID,
		UserID:         userID,
		IsAdmin:        true,
	}); err != nil {
		logger.Errorf("Failed to add creator to conversation %s: %v", conv.ID, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to create conversation"})
		return
	}
	for _, id := range participantIDs {
		if err := h.queries.AddParticipant(ctx, store.AddParticipantParams{
			ConversationID: conv.ID,
			UserID:         id,
		}); err != nil {
			logger.Errorf("Failed to add participant %s to conversation %s: %v", id, conv.ID, err)
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to create conversation"})
			return
		}
	}

	// Live sockets of every member join the new room immediately; sockets
	// that connect later pick it up during their join-all.
	h.gateway.JoinUserToConversation(userID, conv.ID)
	for _, id := range participantIDs {
		h.gateway.JoinUserToConversation(id, conv.ID)
	}

	participants, err := h.queries.ListParticipants(ctx, conv.ID)
	if err != nil {
		logger.Errorf("Failed to list participants for conversation %s: %v", conv.ID, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "database error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"conversation": conversationResponse(conv, participants)})
}

// Get handles GET /api/conversations/:id
func (h *ConversationHandler) Get(c *gin.Context) {
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

	conv, err := h.queries.GetConversationByID(ctx, conversationID)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "conversation not found"})
		return
	}
	if err != nil {
		logger.Errorf("Failed to load conversation %s: %v", conversationID, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "database error"})
		return
	}

	participants, err := h.queries.ListParticipants(ctx, conversationID)
	if err != nil {
		logger.Errorf("Failed to list participants for conversation %s: %v", conversationID, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"conversation": conversationResponse(conv, participants)})
}

// AddParticipant handles POST /api/conversations/:id/participants
func (h *ConversationHandler) AddParticipant(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	conversationID := c.Param("id")
	ctx := c.Request.Context()

	var req AddParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "userId required"})
		return
	}

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

	conv, err := h.queries.GetConversationByID(ctx, conversationID)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "conversation not found"})
		return
	}
	if err != nil {
		logger.Errorf("Failed to load conversation %s: %v", conversationID, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "database error"})
		return
	}
	if !conv.IsGroup {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "cannot add members to a direct conversation"})
		return
	}

	if _, err := h.queries.GetUserByID(ctx, req.UserID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown user"})
			return
		}
		logger.Errorf("Failed to load user %s: %v", req.UserID, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "database error"})
		return
	}

	if err := h.queries.AddParticipant(ctx, store.AddParticipantParams{
		ConversationID: conversationID,
		UserID:         req.UserID,
	}); err != nil {
		logger.Errorf("Failed to add participant %s to conversation %s: %v", req.UserID, conversationID, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to add participant"})
		return
	}

	h.gateway.JoinUserToConversation(req.UserID, conversationID)

	participants, err := h.queries.ListParticipants(ctx, conversationID)
	if err != nil {
		logger.Errorf("Failed to list participants for conversation %s: %v", conversationID, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"conversation": conversationResponse(conv, participants)})
}

// RemoveParticipant handles DELETE /api/conversations/:id/participants/:userId
func (h *ConversationHandler) RemoveParticipant(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	conversationID := c.Param("id")
	targetID := c.Param("userId")
	ctx := c.Request.Context()

	participants, err := h.queries.ListParticipants(ctx, conversationID)
	if err != nil {
		logger.Errorf("Failed to list participants for conversation %s: %v", conversationID, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "database error"})
		return
	}

	callerIsAdmin := false
	callerIsMember := false
	targetIsMember := false
	for _, p := range participants {
		if p.UserID == userID {
			callerIsMember = true
			callerIsAdmin = p.IsAdmin
		}
		if p.UserID == targetID {
			targetIsMember = true
		}
	}
	if !callerIsMember {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "not a participant of this conversation"})
		return
	}
	if !targetIsMember {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "user is not a participant"})
		return
	}

	// Members may leave on their own; removing someone else takes admin.
	if targetID != userID && !callerIsAdmin {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "admin required to remove other members"})
		return
	}

	if err := h.queries.RemoveParticipant(ctx, conversationID, targetID); err != nil {
		logger.Errorf("Failed to remove participant %s from conversation %s: %v", targetID, conversationID, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to remove participant"})
		return
	}

	h.gateway.RemoveUserFromConversation(targetID, conversationID)

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
