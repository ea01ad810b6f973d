package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bilingual-blog-api/internal/apperr"
	"github.com/bilingual-blog-api/internal/models"
	"github.com/bilingual-blog-api/internal/repository"
	"github.com/bilingual-blog-api/internal/validation"
	"github.com/rs/zerolog"
)

// articleService implements ArticleService
type articleService struct {
	articles repository.ArticleRepository
	log      zerolog.Logger
	now      func() time.Time
}

func newArticleService(articles repository.ArticleRepository, log zerolog.Logger) *articleService {
	return &articleService{
		articles: articles,
		log:      log.With().Str("service", "article").Logger(),
		now:      time.Now,
	}
}

// List returns one page of articles. Drafts are listed only for admins, or
// for authors filtering on their own id.
func (s *articleService) List(ctx context.Context, params *models.ArticleListParams, caller *models.Identity) (*models.ArticlePage, error) {
	status := models.StatusPublished
	if models.ArticleStatus(params.Status) == models.StatusAll && caller != nil {
		if caller.IsAdmin() || (params.AuthorID != "" && params.AuthorID == caller.UserID) {
			status = models.StatusAll
		}
	}

	page, err := s.articles.Query(ctx, models.ArticleFilter{
		Status:   status,
		AuthorID: params.AuthorID,
		Tag:      strings.TrimSpace(params.Tag),
		Query:    params.Q,
		Page:     params.Page,
		Limit:    params.Limit,
	})
	if err != nil {
		return nil, apperr.FromStore(err, "failed to load articles")
	}
	return page, nil
}

// Get returns a single article. Drafts the caller may not see are reported
// as not found.
func (s *articleService) Get(ctx context.Context, slug string, caller *models.Identity) (*models.ArticleDetail, error) {
	if slug == "" {
		return nil, apperr.BadRequest("slug is required")
	}
	detail, err := s.articles.GetBySlug(ctx, slug)
	if err != nil {
		return nil, apperr.FromStore(err, "failed to load article")
	}
	if detail == nil {
		return nil, apperr.NotFound("article not found")
	}
	if detail.Status != models.StatusPublished && !canSeeDraft(caller, detail.AuthorID) {
		return nil, apperr.NotFound("article not found")
	}
	return detail, nil
}

// Create stores a new article owned by the caller and returns its slug
func (s *articleService) Create(ctx context.Context, in *models.ArticleInput, caller *models.Identity) (string, error) {
	if errs := validation.ValidateArticle(in); len(errs) > 0 {
		return "", apperr.Validation(errs)
	}

	now := s.now().UTC()
	slug := strings.TrimSpace(in.Slug)
	if slug == "" {
		slug = validation.SanitizeSlug(in.TitleID)
	}
	if slug == "" {
		slug = "article"
	}

	exists, err := s.articles.Exists(ctx, slug)
	if err != nil {
		return "", apperr.FromStore(err, "failed to check slug")
	}
	if exists {
		slug = fmt.Sprintf("%s-%d", slug, now.UnixMilli())
	}

	status := models.ArticleStatus(in.Status)
	if status == "" {
		status = models.StatusDraft
	}

	fm := models.ArticleFrontmatter{
		TitleID:       strings.TrimSpace(in.TitleID),
		TitleEN:       strings.TrimSpace(in.TitleEN),
		Slug:          slug,
		Date:          now.Format(time.RFC3339),
		DescriptionID: strings.TrimSpace(in.DescriptionID),
		DescriptionEN: strings.TrimSpace(in.DescriptionEN),
		Tags:          cleanTags(in.Tags),
		Status:        status,
		AuthorID:      caller.UserID,
		Cover:         strings.TrimSpace(in.Cover),
	}
	if err := s.articles.Write(ctx, fm, in.MarkdownID, in.MarkdownEN); err != nil {
		return "", apperr.FromStore(err, "failed to save article")
	}

	s.log.Info().Str("slug", slug).Str("author_id", caller.UserID).Msg("Article created")
	return slug, nil
}

// Update applies the fields present in the request. Slug, date and author
// never change.
func (s *articleService) Update(ctx context.Context, slug string, in *models.ArticleUpdate, caller *models.Identity) error {
	existing, err := s.owned(ctx, slug, caller, "you can only edit your own articles")
	if err != nil {
		return err
	}
	if errs := validation.ValidateArticleUpdate(in); len(errs) > 0 {
		return apperr.Validation(errs)
	}

	fm := existing.ArticleFrontmatter
	fm.Slug = slug
	if in.TitleID != nil && strings.TrimSpace(*in.TitleID) != "" {
		fm.TitleID = strings.TrimSpace(*in.TitleID)
	}
	if in.TitleEN != nil && strings.TrimSpace(*in.TitleEN) != "" {
		fm.TitleEN = strings.TrimSpace(*in.TitleEN)
	}
	if in.DescriptionID != nil {
		fm.DescriptionID = strings.TrimSpace(*in.DescriptionID)
	}
	if in.DescriptionEN != nil {
		fm.DescriptionEN = strings.TrimSpace(*in.DescriptionEN)
	}
	if in.Tags != nil {
		fm.Tags = cleanTags(*in.Tags)
	}
	if in.Status != nil {
		fm.Status = models.ArticleStatus(*in.Status)
	}
	if in.Cover != nil {
		fm.Cover = strings.TrimSpace(*in.Cover)
	}

	idBody, enBody := existing.MarkdownID, existing.MarkdownEN
	if in.MarkdownID != nil {
		idBody = *in.MarkdownID
	}
	if in.MarkdownEN != nil {
		enBody = *in.MarkdownEN
	}

	if err := s.articles.Write(ctx, fm, idBody, enBody); err != nil {
		return apperr.FromStore(err, "failed to save article")
	}
	s.log.Info().Str("slug", slug).Str("user_id", caller.UserID).Msg("Article updated")
	return nil
}

// Delete removes an article owned by the caller
func (s *articleService) Delete(ctx context.Context, slug string, caller *models.Identity) error {
	if _, err := s.owned(ctx, slug, caller, "you can only delete your own articles"); err != nil {
		return err
	}
	deleted, err := s.articles.Delete(ctx, slug)
	if err != nil {
		return apperr.FromStore(err, "failed to delete article")
	}
	if !deleted {
		return apperr.NotFound("article not found")
	}
	s.log.Info().Str("slug", slug).Str("user_id", caller.UserID).Msg("Article deleted")
	return nil
}

// owned loads slug and checks the caller may modify it
func (s *articleService) owned(ctx context.Context, slug string, caller *models.Identity, denied string) (*models.ArticleDetail, error) {
	if slug == "" {
		return nil, apperr.BadRequest("slug is required")
	}
	existing, err := s.articles.GetBySlug(ctx, slug)
	if err != nil {
		return nil, apperr.FromStore(err, "failed to load article")
	}
	if existing == nil {
		return nil, apperr.NotFound("article not found")
	}
	if canSeeDraft(caller, existing.AuthorID) {
		return existing, nil
	}
	if existing.Status != models.StatusPublished {
		return nil, apperr.NotFound("article not found")
	}
	return nil, apperr.Forbidden(denied)
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		key := strings.ToLower(t)
		if t == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t)
	}
	return out
}
