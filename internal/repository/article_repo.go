package repository

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bilingual-blog-api/internal/content"
	"github.com/bilingual-blog-api/internal/gitstore"
	"github.com/bilingual-blog-api/internal/models"
	"github.com/bilingual-blog-api/internal/retry"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	articleExt = ".md"

	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100

	// concurrent file fetches while building the index
	indexFetchWorkers = 8
	// a shared rebuild outlives the request that started it, up to this long
	indexBuildTimeout = time.Minute
)

// articleRepo is the concrete implementation of ArticleRepository.
// Each article is its own file; the list index is derived from all of them
// and is rebuilt lazily after any write.
type articleRepo struct {
	backend  gitstore.Backend
	dir      string
	users    UserRepository
	renderer *content.Renderer
	opts     CollectionOptions
	log      zerolog.Logger
	now      func() time.Time

	mu      sync.RWMutex
	built   bool
	entries []models.ArticleIndex
	gen     uint64
	group   singleflight.Group
}

// NewArticleRepo creates a new article repository rooted at dir
func NewArticleRepo(backend gitstore.Backend, dir string, users UserRepository, renderer *content.Renderer, opts CollectionOptions, log zerolog.Logger) ArticleRepository {
	if opts.RetryAttempts < 1 {
		opts.RetryAttempts = 1
	}
	return &articleRepo{
		backend:  backend,
		dir:      strings.TrimSuffix(dir, "/"),
		users:    users,
		renderer: renderer,
		opts:     opts,
		log:      log.With().Str("component", "articles").Logger(),
		now:      time.Now,
	}
}

func (r *articleRepo) filePath(slug string) string {
	return path.Join(r.dir, slug+articleExt)
}

// BuildIndex returns the cached index, rebuilding it if stale. Concurrent
// callers share one rebuild, which is detached from any single caller's
// context; each caller stops waiting when its own ctx is done.
func (r *articleRepo) BuildIndex(ctx context.Context) ([]models.ArticleIndex, error) {
	r.mu.RLock()
	if r.built {
		entries := r.entries
		r.mu.RUnlock()
		return entries, nil
	}
	gen := r.gen
	r.mu.RUnlock()

	ch := r.group.DoChan(fmt.Sprintf("index-%d", gen), func() (any, error) {
		bctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), indexBuildTimeout)
		defer cancel()
		return r.build(bctx)
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if res.Err != nil {
		return nil, res.Err
	}
	entries := res.Val.([]models.ArticleIndex)

	r.mu.Lock()
	defer r.mu.Unlock()
	// an invalidation during the build means the result may already be stale
	if r.gen == gen {
		r.entries, r.built = entries, true
	}
	return entries, nil
}

func (r *articleRepo) build(ctx context.Context) ([]models.ArticleIndex, error) {
	start := time.Now()

	names, err := r.backend.List(ctx, r.dir, articleExt)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	authors, err := r.users.PublicUserMap(ctx)
	if err != nil {
		return nil, fmt.Errorf("load authors: %w", err)
	}

	results := make([]*models.ArticleIndex, len(names))
	errs := make([]error, len(names))
	now := r.now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(indexFetchWorkers)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			slug := strings.TrimSuffix(name, articleExt)
			f, err := r.backend.Get(gctx, r.filePath(slug))
			if gitstore.IsNotFound(err) {
				return nil
			}
			if err != nil {
				errs[i] = fmt.Errorf("%s: %w", name, err)
				return nil
			}
			doc, err := content.Decode(f.Content)
			if err != nil {
				errs[i] = fmt.Errorf("%s: %w", name, err)
				return nil
			}
			entry := models.ArticleIndex{ArticleFrontmatter: content.ParseFrontmatter(doc.Frontmatter, slug, now)}
			entry.Author = lookupAuthor(authors, entry.AuthorID)
			results[i] = &entry
			return nil
		})
	}
	_ = g.Wait()

	var skipped *multierror.Error
	for _, err := range errs {
		if err != nil {
			skipped = multierror.Append(skipped, err)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries := make([]models.ArticleIndex, 0, len(names))
	for _, e := range results {
		if e != nil {
			entries = append(entries, *e)
		}
	}

	if skipped != nil {
		r.log.Warn().Err(skipped).Int("skipped", len(skipped.Errors)).Msg("Skipped unreadable article files")
	}
	r.log.Info().
		Int("articles", len(entries)).
		Dur("duration", time.Since(start)).
		Msg("Article index built")
	return entries, nil
}

// Query filters, sorts and pages the index. Filters apply in order:
// status, author, tag, free-text term.
func (r *articleRepo) Query(ctx context.Context, filter models.ArticleFilter) (*models.ArticlePage, error) {
	entries, err := r.BuildIndex(ctx)
	if err != nil {
		return nil, err
	}

	status := filter.Status
	if status == "" {
		status = models.StatusPublished
	}
	term := strings.ToLower(strings.TrimSpace(filter.Query))

	matched := make([]models.ArticleIndex, 0, len(entries))
	for _, e := range entries {
		if status != models.StatusAll && e.Status != status {
			continue
		}
		if filter.AuthorID != "" && e.AuthorID != filter.AuthorID {
			continue
		}
		if filter.Tag != "" && !hasTag(e.Tags, filter.Tag) {
			continue
		}
		if term != "" && !matchesTerm(e, term) {
			continue
		}
		matched = append(matched, e)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return parseDate(matched[i].Date).After(parseDate(matched[j].Date))
	})

	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	// compare page numbers before multiplying so huge pages cannot overflow
	items := []models.ArticleIndex{}
	if pages := (len(matched) + limit - 1) / limit; page <= pages {
		start := (page - 1) * limit
		end := start + limit
		if end > len(matched) {
			end = len(matched)
		}
		items = matched[start:end]
	}

	return &models.ArticlePage{
		Articles: items,
		Total:    len(matched),
		Page:     page,
		Limit:    limit,
	}, nil
}

// GetBySlug reads the article file directly, never the index, and renders
// both languages. It returns nil, nil when the article does not exist.
func (r *articleRepo) GetBySlug(ctx context.Context, slug string) (*models.ArticleDetail, error) {
	f, err := r.backend.Get(ctx, r.filePath(slug))
	if gitstore.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	doc, err := content.Decode(f.Content)
	if err != nil {
		return nil, fmt.Errorf("decode article %s: %w", slug, err)
	}
	fm := content.ParseFrontmatter(doc.Frontmatter, slug, r.now())
	langs := content.SplitLanguages(doc.Body)

	htmlID, err := r.renderer.RenderCached(f.SHA+":id", langs.ID)
	if err != nil {
		return nil, fmt.Errorf("render article %s: %w", slug, err)
	}
	htmlEN, err := r.renderer.RenderCached(f.SHA+":en", langs.EN)
	if err != nil {
		return nil, fmt.Errorf("render article %s: %w", slug, err)
	}

	authors, err := r.users.PublicUserMap(ctx)
	if err != nil {
		return nil, err
	}
	author := lookupAuthor(authors, fm.AuthorID)
	if fm.AuthorID != "" && author == nil {
		r.log.Warn().Str("slug", slug).Str("author_id", fm.AuthorID).Msg("Article author not found")
	}

	return &models.ArticleDetail{
		ArticleIndex: models.ArticleIndex{ArticleFrontmatter: fm, Author: author},
		HTMLID:       htmlID,
		HTMLEN:       htmlEN,
		MarkdownID:   langs.ID,
		MarkdownEN:   langs.EN,
	}, nil
}

// Write creates or replaces the file of fm.Slug and marks the index stale.
// A version conflict re-reads the current token and writes again.
func (r *articleRepo) Write(ctx context.Context, fm models.ArticleFrontmatter, idBody, enBody string) error {
	data, err := content.Encode(fm, content.JoinLanguages(idBody, enBody))
	if err != nil {
		return err
	}
	p := r.filePath(fm.Slug)

	err = retry.Retry(ctx, func() error {
		sha := ""
		f, err := r.backend.Get(ctx, p)
		switch {
		case err == nil:
			sha = f.SHA
		case !gitstore.IsNotFound(err):
			return err
		}

		message := "Create article: " + fm.Slug
		if sha != "" {
			message = "Update article: " + fm.Slug
		}
		_, err = r.backend.Put(ctx, p, data, message, sha)
		return err
	}, r.opts.retryOptions()...)
	if err != nil {
		r.log.Error().Err(err).Str("slug", fm.Slug).Msg("Failed to write article")
		return err
	}

	r.Invalidate()
	return nil
}

// Delete removes the article file. It reports false when there was none.
func (r *articleRepo) Delete(ctx context.Context, slug string) (bool, error) {
	p := r.filePath(slug)
	deleted := false

	err := retry.Retry(ctx, func() error {
		f, err := r.backend.Get(ctx, p)
		if gitstore.IsNotFound(err) {
			return nil
		}
		if err != nil {
			return err
		}
		err = r.backend.Delete(ctx, p, f.SHA, "Delete article: "+slug)
		if gitstore.IsNotFound(err) {
			return nil
		}
		if err != nil {
			return err
		}
		deleted = true
		return nil
	}, r.opts.retryOptions()...)
	if err != nil {
		r.log.Error().Err(err).Str("slug", slug).Msg("Failed to delete article")
		return false, err
	}

	if deleted {
		r.Invalidate()
	}
	return deleted, nil
}

// Exists checks the backend for the article file
func (r *articleRepo) Exists(ctx context.Context, slug string) (bool, error) {
	_, err := r.backend.Get(ctx, r.filePath(slug))
	if gitstore.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Invalidate marks the index stale; the next read rebuilds it in full
func (r *articleRepo) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.built, r.entries = false, nil
	r.gen++
	r.log.Debug().Msg("Article index invalidated")
}

func lookupAuthor(authors map[string]models.PublicUser, id string) *models.PublicUser {
	if id == "" {
		return nil
	}
	if a, ok := authors[id]; ok {
		return &a
	}
	return nil
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

func matchesTerm(e models.ArticleIndex, term string) bool {
	for _, field := range []string{e.TitleID, e.TitleEN, e.DescriptionID, e.DescriptionEN} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// parseDate accepts RFC 3339 timestamps and plain dates. Anything else
// sorts as the zero time.
func parseDate(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
