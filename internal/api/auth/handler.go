// Package auth provides registration and login endpoints.
package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	prommetrics "github.com/flashmind/flashmind-server/internal/metrics"
	"github.com/flashmind/flashmind-server/internal/models"
	"github.com/flashmind/flashmind-server/internal/repository"
	"github.com/flashmind/flashmind-server/internal/token"
	"github.com/flashmind/flashmind-server/pkg/logger"
)

// Handler handles authentication requests.
type Handler struct {
	userRepo *repository.UserRepository
	tokens   *token.Service
	log      *logger.Logger
}

// NewHandler creates a new auth handler.
func NewHandler(userRepo *repository.UserRepository, tokens *token.Service, log *logger.Logger) *Handler {
	return &Handler{
		userRepo: userRepo,
		tokens:   tokens,
		log:      log,
	}
}

type credentialsRequest struct {
	Username string `json:"username" binding:"required,min=3,max=30"`
	Password string `json:"password" binding:"required,min=6"`
}

// Register creates a new user account.
// POST /api/auth/register.
func (h *Handler) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.userRepo.GetByUsername(req.Username); err == nil {
		h.errorResponse(c, http.StatusConflict, "username already taken")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		h.log.Error().Err(err).Msg("Failed to check username availability")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to register")
		return
	}

	hash, err := h.tokens.HashPassword(req.Password)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to hash password")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to register")
		return
	}

	user := &models.User{
		Username:     req.Username,
		PasswordHash: hash,
	}
	if err := h.userRepo.Create(user); err != nil {
		h.log.Error().Err(err).Msg("Failed to create user")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to register")
		return
	}

	token, err := h.tokens.Generate(user)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to issue token")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to register")
		return
	}

	prommetrics.RecordUserRegistered()

	h.log.Info().
		Uint("user_id", user.ID).
		Str("username", user.Username).
		Msg("User registered")

	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user":  user,
	})
}

// Login authenticates a user and issues a token.
// POST /api/auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.userRepo.GetByUsername(req.Username)
	if err != nil || !h.tokens.CheckPassword(user.PasswordHash, req.Password) {
		// Same response for unknown user and wrong password.
		h.errorResponse(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := h.tokens.Generate(user)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to issue token")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to login")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

func (h *Handler) errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"error":     message,
		"timestamp": time.Now().UTC(),
	})
}
