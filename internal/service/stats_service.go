package service

import (
	"context"

	"github.com/bilingual-blog-api/internal/apperr"
	"github.com/bilingual-blog-api/internal/models"
	"github.com/bilingual-blog-api/internal/repository"
	"github.com/rs/zerolog"
)

// statsService implements StatsService
type statsService struct {
	stats    repository.StatsRepository
	articles repository.ArticleRepository
	users    repository.UserRepository
	log      zerolog.Logger
}

func newStatsService(stats repository.StatsRepository, articles repository.ArticleRepository, users repository.UserRepository, log zerolog.Logger) *statsService {
	return &statsService{
		stats:    stats,
		articles: articles,
		users:    users,
		log:      log.With().Str("service", "stats").Logger(),
	}
}

func (s *statsService) Get(ctx context.Context, slug string) (models.ArticleStats, error) {
	st, err := s.stats.Get(ctx, slug)
	if err != nil {
		return models.ArticleStats{}, apperr.FromStore(err, "failed to load stats")
	}
	return st, nil
}

// Totals counts accounts, articles and interactions across the site
func (s *statsService) Totals(ctx context.Context) (*models.SiteTotals, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperr.FromStore(err, "failed to load users")
	}
	index, err := s.articles.BuildIndex(ctx)
	if err != nil {
		return nil, apperr.FromStore(err, "failed to load articles")
	}
	all, err := s.stats.All(ctx)
	if err != nil {
		return nil, apperr.FromStore(err, "failed to load stats")
	}

	totals := &models.SiteTotals{Users: len(users), Articles: len(index)}
	for _, e := range index {
		if e.Status == models.StatusPublished {
			totals.Published++
		}
	}
	for _, st := range all {
		totals.Views += st.Views
		totals.Likes += st.Likes
	}
	return totals, nil
}

// IncrementViews counts one view of an existing article
func (s *statsService) IncrementViews(ctx context.Context, slug string) (models.ArticleStats, error) {
	if err := requireArticle(ctx, s.articles, slug); err != nil {
		return models.ArticleStats{}, err
	}
	res := s.stats.IncrementViews(ctx, slug)
	if err := mutationError(res, "failed to save stats"); err != nil {
		return models.ArticleStats{}, err
	}
	return res.Value, nil
}

// ToggleLike likes an existing article, or removes the caller's like
func (s *statsService) ToggleLike(ctx context.Context, slug, userID string) (models.ArticleStats, error) {
	if err := requireArticle(ctx, s.articles, slug); err != nil {
		return models.ArticleStats{}, err
	}
	res := s.stats.ToggleLike(ctx, slug, userID)
	if err := mutationError(res, "failed to save stats"); err != nil {
		return models.ArticleStats{}, err
	}
	return res.Value, nil
}

// readingListService implements ReadingListService
type readingListService struct {
	lists    repository.ReadingListRepository
	articles repository.ArticleRepository
	log      zerolog.Logger
}

func newReadingListService(lists repository.ReadingListRepository, articles repository.ArticleRepository, log zerolog.Logger) *readingListService {
	return &readingListService{
		lists:    lists,
		articles: articles,
		log:      log.With().Str("service", "readinglist").Logger(),
	}
}

// Toggle saves or unsaves an existing article
func (s *readingListService) Toggle(ctx context.Context, userID, slug string) (*models.ReadingListToggle, error) {
	if err := requireArticle(ctx, s.articles, slug); err != nil {
		return nil, err
	}
	res := s.lists.Toggle(ctx, userID, slug)
	if err := mutationError(res, "failed to save reading list"); err != nil {
		return nil, err
	}
	return &res.Value, nil
}

// List resolves the saved slugs to published articles. Articles that were
// deleted or unpublished since are left out.
func (s *readingListService) List(ctx context.Context, userID string) ([]models.ArticleIndex, error) {
	slugs, err := s.lists.Get(ctx, userID)
	if err != nil {
		return nil, apperr.FromStore(err, "failed to load reading list")
	}

	articles := make([]models.ArticleIndex, 0, len(slugs))
	for _, slug := range slugs {
		detail, err := s.articles.GetBySlug(ctx, slug)
		if err != nil {
			s.log.Warn().Err(err).Str("slug", slug).Msg("Skipping unreadable saved article")
			continue
		}
		if detail == nil || detail.Status != models.StatusPublished {
			continue
		}
		articles = append(articles, detail.ArticleIndex)
	}
	return articles, nil
}

func requireArticle(ctx context.Context, articles repository.ArticleRepository, slug string) error {
	if slug == "" {
		return apperr.BadRequest("slug is required")
	}
	exists, err := articles.Exists(ctx, slug)
	if err != nil {
		return apperr.FromStore(err, "failed to load article")
	}
	if !exists {
		return apperr.NotFound("article not found")
	}
	return nil
}
