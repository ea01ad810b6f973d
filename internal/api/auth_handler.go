package api

import (
	"net/http"

	"github.com/bilingual-blog-api/internal/apperr"
	"github.com/bilingual-blog-api/internal/auth"
	"github.com/bilingual-blog-api/internal/config"
	"github.com/bilingual-blog-api/internal/models"
	"github.com/bilingual-blog-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AuthHandler handles account and session endpoints
type AuthHandler struct {
	services *service.Services
	tokens   *auth.TokenManager
	cfg      *config.Config
	log      zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(services *service.Services, tokens *auth.TokenManager, cfg *config.Config, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		services: services,
		tokens:   tokens,
		cfg:      cfg,
		log:      log.With().Str("handler", "auth").Logger(),
	}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadJSON(c)
		return
	}

	user, err := h.services.User.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if !h.startSession(c, user) {
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "user": user.Public()})
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadJSON(c)
		return
	}

	user, err := h.services.User.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if !h.startSession(c, user) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user.Public()})
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	auth.ClearCookie(c, h.cfg.Auth.CookieName, h.cfg.Auth.CookieSecure)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "logged out"})
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.services.User.Me(c.Request.Context(), auth.IdentityFrom(c).UserID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// startSession issues a token for user and sets the session cookie.
// It reports false after writing an error response.
func (h *AuthHandler) startSession(c *gin.Context, user *models.User) bool {
	token, err := h.tokens.Issue(user)
	if err != nil {
		respondError(c, h.log, apperr.Internal("failed to issue token").WithCause(err))
		return false
	}
	auth.SetCookie(c, h.cfg.Auth.CookieName, token, int(h.tokens.TTL().Seconds()), h.cfg.Auth.CookieSecure)
	return true
}
