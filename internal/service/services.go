package service

import (
	"context"
	"errors"

	"github.com/bilingual-blog-api/internal/apperr"
	"github.com/bilingual-blog-api/internal/config"
	"github.com/bilingual-blog-api/internal/gitstore"
	"github.com/bilingual-blog-api/internal/models"
	"github.com/bilingual-blog-api/internal/repository"
	"github.com/rs/zerolog"
)

// ArticleService defines the interface for article operations. The caller
// identity is nil for anonymous requests.
type ArticleService interface {
	List(ctx context.Context, params *models.ArticleListParams, caller *models.Identity) (*models.ArticlePage, error)
	Get(ctx context.Context, slug string, caller *models.Identity) (*models.ArticleDetail, error)
	Create(ctx context.Context, in *models.ArticleInput, caller *models.Identity) (string, error)
	Update(ctx context.Context, slug string, in *models.ArticleUpdate, caller *models.Identity) error
	Delete(ctx context.Context, slug string, caller *models.Identity) error
}

// UserService defines the interface for accounts and author profiles
type UserService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.User, error)
	Me(ctx context.Context, userID string) (*models.PublicUser, error)
	Authors(ctx context.Context) ([]models.Author, error)
	Author(ctx context.Context, id string) (*models.AuthorProfile, error)
}

// StatsService defines the interface for view and like counters
type StatsService interface {
	Get(ctx context.Context, slug string) (models.ArticleStats, error)
	IncrementViews(ctx context.Context, slug string) (models.ArticleStats, error)
	ToggleLike(ctx context.Context, slug, userID string) (models.ArticleStats, error)
	Totals(ctx context.Context) (*models.SiteTotals, error)
}

// ReadingListService defines the interface for saved articles
type ReadingListService interface {
	Toggle(ctx context.Context, userID, slug string) (*models.ReadingListToggle, error)
	List(ctx context.Context, userID string) ([]models.ArticleIndex, error)
}

// UploadService defines the interface for cover image uploads
type UploadService interface {
	UploadCover(ctx context.Context, filename, contentType string, data []byte) (*models.UploadResult, error)
}

// Services holds all service interfaces
type Services struct {
	Article     ArticleService
	User        UserService
	Stats       StatsService
	ReadingList ReadingListService
	Upload      UploadService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, backend gitstore.Backend, cfg *config.Config, log zerolog.Logger) *Services {
	return &Services{
		Article:     newArticleService(repos.Article, log),
		User:        newUserService(repos.User, repos.Article, cfg.Auth.BcryptCost, log),
		Stats:       newStatsService(repos.Stats, repos.Article, repos.User, log),
		ReadingList: newReadingListService(repos.ReadingList, repos.Article, log),
		Upload:      newUploadService(backend, cfg.Store.UploadsDir, cfg.Upload.MaxUploadSize, log),
	}
}

// mutationError turns an unpersisted mutation into an application error
func mutationError[V any](res repository.MutationResult[V], msg string) error {
	if res.Persisted {
		return nil
	}
	switch {
	case errors.Is(res.Err, repository.ErrDuplicateUsername):
		return apperr.Conflict("username already taken").WithCause(res.Err)
	case errors.Is(res.Err, repository.ErrDuplicateEmail):
		return apperr.Conflict("email already registered").WithCause(res.Err)
	case res.Err == nil:
		return apperr.Transient(msg)
	}
	return apperr.FromStore(res.Err, msg)
}

func canSeeDraft(caller *models.Identity, authorID string) bool {
	return caller != nil && (caller.IsAdmin() || caller.UserID == authorID)
}
