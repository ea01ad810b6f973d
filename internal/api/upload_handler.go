package api

import (
	"fmt"
	"io"
	"net/http"

	"github.com/bilingual-blog-api/internal/config"
	"github.com/bilingual-blog-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// multipartOverhead is the room left for form boundaries and headers
const multipartOverhead = 1 << 20

// UploadHandler handles cover image uploads
type UploadHandler struct {
	services *service.Services
	cfg      *config.Config
	log      zerolog.Logger
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *UploadHandler {
	return &UploadHandler{
		services: services,
		cfg:      cfg,
		log:      log.With().Str("handler", "upload").Logger(),
	}
}

// UploadCover handles POST /api/upload
// Accepts a multipart form with the image in the "cover" field
func (h *UploadHandler) UploadCover(c *gin.Context) {
	maxSize := h.cfg.Upload.MaxUploadSize
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize+multipartOverhead)

	file, header, err := c.Request.FormFile("cover")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "no cover image found in form data",
		})
		return
	}
	defer file.Close()

	if header.Size > maxSize {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   fmt.Sprintf("file too large, maximum size: %dMB", maxSize/1024/1024),
		})
		return
	}

	// one extra byte lets the service see an oversized stream
	data, err := io.ReadAll(io.LimitReader(file, maxSize+1))
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to read uploaded file")
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "failed to read uploaded file",
		})
		return
	}

	res, err := h.services.Upload.UploadCover(c.Request.Context(), header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"url":      res.URL,
		"filename": res.Filename,
	})
}
