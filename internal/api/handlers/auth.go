package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/parley-chat/parley/internal/api/middleware"
	"github.com/parley-chat/parley/internal/crypto"
	"github.com/parley-chat/parley/internal/logger"
	"github.com/parley-chat/parley/internal/store"
)

type AuthHandler struct {
	queries    *store.Queries
	jwtManager *crypto.JWTManager
}

func NewAuthHandler(queries *store.Queries, jwtManager *crypto.JWTManager) *AuthHandler {
	return &AuthHandler{
		queries:    queries,
		jwtManager: jwtManager,
	}
}

const minPasswordLength = 8

// RegisterRequest is the signup body.
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// LoginRequest accepts a username or email plus password.
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// AuthResponse is the body for successful register/login.
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	if req.Username == "" || req.Email == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "username and email required"})
		return
	}
	if len(req.Password) < minPasswordLength {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "password too short"})
		return
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		logger.Errorf("Failed to hash password: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to create user"})
		return
	}

	user, err := h.queries.CreateUser(c.Request.Context(), store.CreateUserParams{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
	})
	if err != nil {
		// The unique constraints on username and email are the source of
		// truth; a pre-check would only race with concurrent signups.
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			c.JSON(http.StatusConflict, ErrorResponse{Error: "username or email already taken"})
			return
		}
		logger.Errorf("Failed to create user: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to create user"})
		return
	}

	token, err := h.jwtManager.CreateToken(user.ID, user.Username)
	if err != nil {
		logger.Errorf("Failed to create token: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to create token"})
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{Token: token, User: ownUserResponse(user)})
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	user, err := h.queries.GetUserByLogin(c.Request.Context(), strings.TrimSpace(req.Login))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid credentials"})
		return
	}
	if err != nil {
		logger.Errorf("Failed to load user for login: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "database error"})
		return
	}

	if !crypto.CheckPassword(user.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid credentials"})
		return
	}

	token, err := h.jwtManager.CreateToken(user.ID, user.Username)
	if err != nil {
		logger.Errorf("Failed to create token: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to create token"})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{Token: token, User: ownUserResponse(user)})
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	user, err := h.queries.GetUserByID(c.Request.Context(), userID)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "user not found"})
		return
	}
	if err != nil {
		logger.Errorf("Failed to load user %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": ownUserResponse(user)})
}
