package repository

import (
	"context"
	"errors"

	"github.com/bilingual-blog-api/internal/config"
	"github.com/bilingual-blog-api/internal/content"
	"github.com/bilingual-blog-api/internal/gitstore"
	"github.com/bilingual-blog-api/internal/models"
	"github.com/rs/zerolog"
)

var (
	ErrDuplicateUsername = errors.New("username already taken")
	ErrDuplicateEmail    = errors.New("email already registered")
)

// UserRepository defines the interface for user data operations.
// Find methods return nil, nil when no user matches.
type UserRepository interface {
	List(ctx context.Context) ([]models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user models.User) MutationResult[models.User]
	PublicUserMap(ctx context.Context) (map[string]models.PublicUser, error)
	Invalidate()
}

// ArticleRepository defines the interface for article data operations
type ArticleRepository interface {
	BuildIndex(ctx context.Context) ([]models.ArticleIndex, error)
	Query(ctx context.Context, filter models.ArticleFilter) (*models.ArticlePage, error)
	GetBySlug(ctx context.Context, slug string) (*models.ArticleDetail, error)
	Write(ctx context.Context, fm models.ArticleFrontmatter, idBody, enBody string) error
	Delete(ctx context.Context, slug string) (bool, error)
	Exists(ctx context.Context, slug string) (bool, error)
	Invalidate()
}

// StatsRepository defines the interface for per-article counters
type StatsRepository interface {
	Get(ctx context.Context, slug string) (models.ArticleStats, error)
	All(ctx context.Context) (map[string]models.ArticleStats, error)
	IncrementViews(ctx context.Context, slug string) MutationResult[models.ArticleStats]
	ToggleLike(ctx context.Context, slug, userID string) MutationResult[models.ArticleStats]
}

// ReadingListRepository defines the interface for saved-article lists
type ReadingListRepository interface {
	Get(ctx context.Context, userID string) ([]string, error)
	Toggle(ctx context.Context, userID, slug string) MutationResult[models.ReadingListToggle]
}

// Repositories holds all repository interfaces
type Repositories struct {
	User        UserRepository
	Article     ArticleRepository
	Stats       StatsRepository
	ReadingList ReadingListRepository
}

// New creates all repositories on top of one backend
func New(backend gitstore.Backend, cfg *config.StoreConfig, renderer *content.Renderer, log zerolog.Logger) *Repositories {
	opts := CollectionOptions{
		RetryAttempts:  cfg.ConflictRetryAttempts,
		RetryBaseDelay: cfg.ConflictRetryBaseDelay,
		RetryMaxDelay:  cfg.ConflictRetryMaxDelay,
	}
	users := NewUserRepo(backend, cfg.UsersPath, opts, log)
	return &Repositories{
		User:        users,
		Article:     NewArticleRepo(backend, cfg.ArticlesDir, users, renderer, opts, log),
		Stats:       NewStatsRepo(backend, cfg.StatsPath, opts, log),
		ReadingList: NewReadingListRepo(backend, cfg.ReadingListPath, opts, log),
	}
}

// mapResult converts the value of a mutation result, keeping its outcome.
// f must accept the zero value of V, which a transform error leaves behind.
func mapResult[V, T any](r MutationResult[V], f func(V) T) MutationResult[T] {
	return MutationResult[T]{Value: f(r.Value), Persisted: r.Persisted, Err: r.Err}
}
