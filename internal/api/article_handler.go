package api

import (
	"net/http"

	"github.com/bilingual-blog-api/internal/auth"
	"github.com/bilingual-blog-api/internal/models"
	"github.com/bilingual-blog-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ArticleHandler handles article endpoints
type ArticleHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewArticleHandler creates a new ArticleHandler
func NewArticleHandler(services *service.Services, log zerolog.Logger) *ArticleHandler {
	return &ArticleHandler{
		services: services,
		log:      log.With().Str("handler", "article").Logger(),
	}
}

// List handles GET /api/articles
func (h *ArticleHandler) List(c *gin.Context) {
	var params models.ArticleListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid query parameters"})
		return
	}

	page, err := h.services.Article.List(c.Request.Context(), &params, auth.IdentityFrom(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"articles": page.Articles,
		"total":    page.Total,
		"page":     page.Page,
		"limit":    page.Limit,
	})
}

// Get handles GET /api/articles/:slug
func (h *ArticleHandler) Get(c *gin.Context) {
	article, err := h.services.Article.Get(c.Request.Context(), c.Param("slug"), auth.IdentityFrom(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "article": article})
}

// Stats handles GET /api/articles/:slug/stats
func (h *ArticleHandler) Stats(c *gin.Context) {
	stats, err := h.services.Stats.Get(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}

// View handles POST /api/articles/:slug/view
func (h *ArticleHandler) View(c *gin.Context) {
	stats, err := h.services.Stats.IncrementViews(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}

// Like handles POST /api/articles/:slug/like
func (h *ArticleHandler) Like(c *gin.Context) {
	caller := auth.IdentityFrom(c)
	stats, err := h.services.Stats.ToggleLike(c.Request.Context(), c.Param("slug"), caller.UserID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}

// Create handles POST /api/admin/articles
func (h *ArticleHandler) Create(c *gin.Context) {
	var in models.ArticleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadJSON(c)
		return
	}

	slug, err := h.services.Article.Create(c.Request.Context(), &in, auth.IdentityFrom(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"slug":    slug,
		"message": "article created",
	})
}

// Update handles PUT /api/admin/articles/:slug
func (h *ArticleHandler) Update(c *gin.Context) {
	var in models.ArticleUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadJSON(c)
		return
	}

	slug := c.Param("slug")
	if err := h.services.Article.Update(c.Request.Context(), slug, &in, auth.IdentityFrom(c)); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"slug":    slug,
		"message": "article updated",
	})
}

// Delete handles DELETE /api/admin/articles/:slug
func (h *ArticleHandler) Delete(c *gin.Context) {
	if err := h.services.Article.Delete(c.Request.Context(), c.Param("slug"), auth.IdentityFrom(c)); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "article deleted",
	})
}
