package service

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/bilingual-blog-api/internal/apperr"
	"github.com/bilingual-blog-api/internal/gitstore"
	"github.com/bilingual-blog-api/internal/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// coverTypes maps allowed image types to the stored file extension
var coverTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
	"image/avif": ".avif",
}

// uploadService implements UploadService
type uploadService struct {
	backend gitstore.Backend
	dir     string
	maxSize int64
	log     zerolog.Logger
}

func newUploadService(backend gitstore.Backend, dir string, maxSize int64, log zerolog.Logger) *uploadService {
	return &uploadService{
		backend: backend,
		dir:     strings.TrimSuffix(dir, "/"),
		maxSize: maxSize,
		log:     log.With().Str("service", "upload").Logger(),
	}
}

// UploadCover stores an image under a random name and returns its public URL
func (s *uploadService) UploadCover(ctx context.Context, filename, contentType string, data []byte) (*models.UploadResult, error) {
	if len(data) == 0 {
		return nil, apperr.BadRequest("no cover image found in form data")
	}
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	contentType = strings.TrimSpace(strings.Split(contentType, ";")[0])

	ext, ok := coverTypes[contentType]
	if !ok {
		return nil, apperr.BadRequest(fmt.Sprintf("file type %q not allowed, allowed: image/jpeg, image/png, image/webp, image/gif, image/avif", contentType))
	}
	if s.maxSize > 0 && int64(len(data)) > s.maxSize {
		return nil, apperr.BadRequest(fmt.Sprintf("file too large, maximum size: %dMB", s.maxSize/1024/1024))
	}

	name := uuid.NewString() + ext
	p := path.Join(s.dir, name)
	if _, err := s.backend.Put(ctx, p, data, "Upload cover: "+name, ""); err != nil {
		return nil, apperr.FromStore(err, "failed to store cover image")
	}

	s.log.Info().Str("file", name).Str("original", filename).Int("bytes", len(data)).Msg("Cover uploaded")
	return &models.UploadResult{URL: s.backend.RawURL(p), Filename: name}, nil
}
