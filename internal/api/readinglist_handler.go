package api

import (
	"net/http"

	"github.com/bilingual-blog-api/internal/auth"
	"github.com/bilingual-blog-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ReadingListHandler handles the caller's saved articles
type ReadingListHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewReadingListHandler creates a new ReadingListHandler
func NewReadingListHandler(services *service.Services, log zerolog.Logger) *ReadingListHandler {
	return &ReadingListHandler{
		services: services,
		log:      log.With().Str("handler", "readinglist").Logger(),
	}
}

// List handles GET /api/readinglist
func (h *ReadingListHandler) List(c *gin.Context) {
	articles, err := h.services.ReadingList.List(c.Request.Context(), auth.IdentityFrom(c).UserID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"articles": articles,
		"total":    len(articles),
	})
}

// Toggle handles POST /api/readinglist/:slug
func (h *ReadingListHandler) Toggle(c *gin.Context) {
	res, err := h.services.ReadingList.Toggle(c.Request.Context(), auth.IdentityFrom(c).UserID, c.Param("slug"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	message := "article removed from reading list"
	if res.Saved {
		message = "article saved to reading list"
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"saved":   res.Saved,
		"list":    res.List,
		"message": message,
	})
}
