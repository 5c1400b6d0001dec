package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medlens/medlens/internal/auth"
	"github.com/medlens/medlens/internal/common"
)

// AuthHandler owns the register and login routes.
type AuthHandler struct {
	svc    AuthService
	logger *slog.Logger
}

func NewAuthHandler(svc AuthService, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{svc: svc, logger: logger}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var body auth.RegisterRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, common.InvalidInputError("invalid request body"))
		return
	}
	creds, err := h.svc.Register(c.Request.Context(), body)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "token": creds.Token, "user": creds.User})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, common.InvalidInputError("invalid request body"))
		return
	}
	creds, err := h.svc.Login(c.Request.Context(), body.Email, body.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "token": creds.Token, "user": creds.User})
}
