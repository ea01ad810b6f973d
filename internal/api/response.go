package api

import (
	"errors"
	"net/http"

	"github.com/bilingual-blog-api/internal/apperr"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// respondError writes err as a JSON error body with the status of its kind.
// Errors that are not application errors are reported as 500.
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		appErr = apperr.Internal("internal server error").WithCause(err)
	}

	status := appErr.StatusCode()
	if status >= http.StatusInternalServerError {
		log.Error().Str("kind", string(appErr.Kind)).Str("path", c.Request.URL.Path).Msg(appErr.Trace())
	}

	body := gin.H{
		"success": false,
		"error":   appErr.Error(),
	}
	if len(appErr.Fields) > 0 {
		body["errors"] = appErr.Fields
	}
	c.AbortWithStatusJSON(status, body)
}

// respondBadJSON reports an unparseable request body
func respondBadJSON(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   "invalid request body",
	})
}
