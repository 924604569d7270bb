package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/parley-chat/parley/internal/api/middleware"
	"github.com/parley-chat/parley/internal/logger"
	"github.com/parley-chat/parley/internal/store"
)

type UserHandler struct {
	queries *store.Queries
}

func NewUserHandler(queries *store.Queries) *UserHandler {
	return &UserHandler{queries: queries}
}

// UpdateProfileRequest is the profile update body. Nil fields are left
// unchanged.
type UpdateProfileRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	AvatarURL *string `json:"avatarUrl"`
}

// Search handles GET /api/users?search=
func (h *UserHandler) Search(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	query := strings.TrimSpace(c.Query("search"))
	if query == "" {
		c.JSON(http.StatusOK, gin.H{"users": []UserResponse{}})
		return
	}

	users, err := h.queries.SearchUsers(c.Request.Context(), store.SearchUsersParams{
		Query:         query,
		ExcludeUserID: userID,
	})
	if err != nil {
		logger.Errorf("Failed to search users: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "database error"})
		return
	}

	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, publicUserResponse(u))
	}
	c.JSON(http.StatusOK, gin.H{"users": out})
}

// UpdateProfile handles PUT /api/users/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	current, err := h.queries.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		logger.Errorf("Failed to load user %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "database error"})
		return
	}

	arg := store.UpdateUserProfileParams{
		ID:        userID,
		FirstName: current.FirstName,
		LastName:  current.LastName,
		AvatarURL: current.AvatarURL,
	}
	if req.FirstName != nil {
		arg.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		arg.LastName = *req.LastName
	}
	if req.AvatarURL != nil {
		arg.AvatarURL = *req.AvatarURL
	}

	user, err := h.queries.UpdateUserProfile(c.Request.Context(), arg)
	if err != nil {
		logger.Errorf("Failed to update profile for user %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": ownUserResponse(user)})
}

// GetByID handles GET /api/users/:id
func (h *UserHandler) GetByID(c *gin.Context) {
	user, err := h.queries.GetUserByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "user not found"})
		return
	}
	if err != nil {
		logger.Errorf("Failed to load user %s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": publicUserResponse(user)})
}

// AddContactRequest is the body for adding a contact.
type AddContactRequest struct {
	UserID string `json:"userId"`
}

// Contacts handles GET /api/users/contacts
func (h *UserHandler) Contacts(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	contacts, err := h.queries.ListContacts(c.Request.Context(), userID)
	if err != nil {
		logger.Errorf("Failed to list contacts for user %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "database error"})
		return
	}

	out := make([]UserResponse, 0, len(contacts))
	for _, u := range contacts {
		out = append(out, publicUserResponse(u))
	}
	c.JSON(http.StatusOK, gin.H{"contacts": out})
}

// AddContact handles POST /api/users/contacts
func (h *UserHandler) AddContact(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req AddContactRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "user id is required"})
		return
	}
	if req.UserID == userID {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "cannot add yourself as a contact"})
		return
	}

	ctx := c.Request.Context()
	contact, err := h.queries.GetUserByID(ctx, req.UserID)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "user not found"})
		return
	}
	if err != nil {
		logger.Errorf("Failed to load user %s: %v", req.UserID, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "database error"})
		return
	}

	added, err := h.queries.AddContact(ctx, store.AddContactParams{
		UserID:    userID,
		ContactID: req.UserID,
	})
	if err != nil {
		logger.Errorf("Failed to add contact for user %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to add contact"})
		return
	}
	if !added {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "contact already exists"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"contact": publicUserResponse(contact)})
}

// RemoveContact handles DELETE /api/users/contacts/:id
func (h *UserHandler) RemoveContact(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	err := h.queries.RemoveContact(c.Request.Context(), store.RemoveContactParams{
		UserID:    userID,
		ContactID: c.Param("id"),
	})
	if err != nil {
		logger.Errorf("Failed to remove contact for user %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to remove contact"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "contact removed"})
}
