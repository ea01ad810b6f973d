package api

import (
	"net/http"

	"github.com/bilingual-blog-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AuthorHandler handles public author endpoints
type AuthorHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewAuthorHandler creates a new AuthorHandler
func NewAuthorHandler(services *service.Services, log zerolog.Logger) *AuthorHandler {
	return &AuthorHandler{
		services: services,
		log:      log.With().Str("handler", "author").Logger(),
	}
}

// List handles GET /api/authors
func (h *AuthorHandler) List(c *gin.Context) {
	authors, err := h.services.User.Authors(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "authors": authors})
}

// Get handles GET /api/authors/:id
func (h *AuthorHandler) Get(c *gin.Context) {
	profile, err := h.services.User.Author(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"author":        profile.Author,
		"articles":      profile.Articles,
		"totalArticles": profile.TotalArticles,
	})
}
