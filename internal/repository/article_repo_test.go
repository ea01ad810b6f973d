package repository

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/bilingual-blog-api/internal/content"
	"github.com/bilingual-blog-api/internal/gitstore"
	"github.com/bilingual-blog-api/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testArticlesDir = "content/articles"

func newTestArticleRepo(t *testing.T) (*articleRepo, *gitstore.MemoryBackend) {
	t.Helper()
	backend := gitstore.NewMemoryBackend()
	backend.Seed("data/users.json", []byte(`[{"id":"usr_1","username":"budi","name":"Budi","email":"budi@example.com","role":"author"}]`))
	users := NewUserRepo(backend, "data/users.json", testOpts, zerolog.Nop())
	repo := NewArticleRepo(backend, testArticlesDir, users, content.NewRenderer(16), testOpts, zerolog.Nop())
	return repo.(*articleRepo), backend
}

func seedArticle(t *testing.T, backend *gitstore.MemoryBackend, fm models.ArticleFrontmatter, idBody, enBody string) {
	t.Helper()
	raw, err := content.Encode(fm, content.JoinLanguages(idBody, enBody))
	require.NoError(t, err)
	backend.Seed(testArticlesDir+"/"+fm.Slug+".md", raw)
}

func article(slug, date string, status models.ArticleStatus, tags ...string) models.ArticleFrontmatter {
	return models.ArticleFrontmatter{
		TitleID:       "Judul " + slug,
		TitleEN:       "Title " + slug,
		Slug:          slug,
		Date:          date,
		DescriptionID: "Deskripsi",
		DescriptionEN: "Description",
		Tags:          tags,
		Status:        status,
		AuthorID:      "usr_1",
	}
}

func TestArticleRepo_QueryPagination(t *testing.T) {
	repo, backend := newTestArticleRepo(t)
	for day := 1; day <= 25; day++ {
		slug := fmt.Sprintf("post-%02d", day)
		seedArticle(t, backend, article(slug, fmt.Sprintf("2024-01-%02dT08:00:00Z", day), models.StatusPublished), "isi", "body")
	}
	ctx := context.Background()

	page, err := repo.Query(ctx, models.ArticleFilter{Page: 2, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 25, page.Total)
	require.Len(t, page.Articles, 10)
	assert.Equal(t, "post-15", page.Articles[0].Slug)
	assert.Equal(t, "post-06", page.Articles[9].Slug)

	page, err = repo.Query(ctx, models.ArticleFilter{Page: 4, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 25, page.Total)
	assert.Empty(t, page.Articles)
	assert.NotNil(t, page.Articles)

	page, err = repo.Query(ctx, models.ArticleFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.Limit)
	assert.Equal(t, "post-25", page.Articles[0].Slug)
	assert.Equal(t, "Budi", page.Articles[0].Author.Name)
}

func TestArticleRepo_QueryHugePageIsEmpty(t *testing.T) {
	repo, backend := newTestArticleRepo(t)
	for day := 1; day <= 25; day++ {
		slug := fmt.Sprintf("post-%02d", day)
		seedArticle(t, backend, article(slug, fmt.Sprintf("2024-01-%02dT08:00:00Z", day), models.StatusPublished), "isi", "body")
	}
	ctx := context.Background()

	page, err := repo.Query(ctx, models.ArticleFilter{Page: math.MaxInt / 5, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 25, page.Total)
	assert.Empty(t, page.Articles)
	assert.NotNil(t, page.Articles)

	page, err = repo.Query(ctx, models.ArticleFilter{Page: 1, Limit: math.MaxInt})
	require.NoError(t, err)
	assert.Equal(t, maxLimit, page.Limit)
	assert.Len(t, page.Articles, 25)

	page, err = repo.Query(ctx, models.ArticleFilter{Page: math.MaxInt, Limit: math.MaxInt})
	require.NoError(t, err)
	assert.Empty(t, page.Articles)
}

func TestArticleRepo_QueryFilters(t *testing.T) {
	repo, backend := newTestArticleRepo(t)
	seedArticle(t, backend, article("go-intro", "2024-03-01T00:00:00Z", models.StatusPublished, "Go", "web"), "a", "b")
	seedArticle(t, backend, article("rust-intro", "2024-03-02T00:00:00Z", models.StatusPublished, "rust"), "a", "b")
	seedArticle(t, backend, article("go-draft", "2024-03-03T00:00:00Z", models.StatusDraft, "go"), "a", "b")
	other := article("other-author", "2024-03-04T00:00:00Z", models.StatusPublished, "go")
	other.AuthorID = "usr_2"
	other.DescriptionEN = "Concurrency patterns"
	seedArticle(t, backend, other, "a", "b")
	ctx := context.Background()

	tcs := []struct {
		name   string
		filter models.ArticleFilter
		slugs  []string
	}{
		{"published by default", models.ArticleFilter{}, []string{"other-author", "rust-intro", "go-intro"}},
		{"all statuses", models.ArticleFilter{Status: models.StatusAll}, []string{"other-author", "go-draft", "rust-intro", "go-intro"}},
		{"drafts only", models.ArticleFilter{Status: models.StatusDraft}, []string{"go-draft"}},
		{"tag ignores case", models.ArticleFilter{Tag: "GO"}, []string{"other-author", "go-intro"}},
		{"author", models.ArticleFilter{AuthorID: "usr_2"}, []string{"other-author"}},
		{"term in description", models.ArticleFilter{Query: "CONCURRENCY"}, []string{"other-author"}},
		{"term in title", models.ArticleFilter{Query: "judul rust"}, []string{"rust-intro"}},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			page, err := repo.Query(ctx, tc.filter)
			require.NoError(t, err)
			var slugs []string
			for _, a := range page.Articles {
				slugs = append(slugs, a.Slug)
			}
			assert.Equal(t, tc.slugs, slugs)
			assert.Equal(t, len(tc.slugs), page.Total)
		})
	}
}

func TestArticleRepo_IndexIsCachedUntilWrite(t *testing.T) {
	repo, backend := newTestArticleRepo(t)
	seedArticle(t, backend, article("first", "2024-01-01T00:00:00Z", models.StatusPublished), "a", "b")
	ctx := context.Background()

	_, err := repo.BuildIndex(ctx)
	require.NoError(t, err)
	gets := backend.Gets()

	_, err = repo.BuildIndex(ctx)
	require.NoError(t, err)
	assert.Equal(t, gets, backend.Gets())

	require.NoError(t, repo.Write(ctx, article("second", "2024-01-02T00:00:00Z", models.StatusPublished), "isi", "body"))

	page, err := repo.Query(ctx, models.ArticleFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, "second", page.Articles[0].Slug)
}

func TestArticleRepo_BuildSkipsBadFiles(t *testing.T) {
	repo, backend := newTestArticleRepo(t)
	seedArticle(t, backend, article("good", "2024-01-01T00:00:00Z", models.StatusPublished), "a", "b")
	backend.Seed(testArticlesDir+"/broken.md", []byte("---\ntitle: [unterminated\n---\nbody"))
	backend.Seed(testArticlesDir+"/notes.txt", []byte("not an article"))

	entries, err := repo.BuildIndex(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "good", entries[0].Slug)
}

func TestArticleRepo_LegacyFile(t *testing.T) {
	repo, backend := newTestArticleRepo(t)
	repo.now = func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }
	backend.Seed(testArticlesDir+"/old-post.md", []byte("---\ntitle: Old Post\nstatus: published\n---\n\n# Hello\n\nOne language only.\n"))
	ctx := context.Background()

	entries, err := repo.BuildIndex(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Old Post", entries[0].TitleEN)
	assert.Equal(t, "old-post", entries[0].Slug)
	assert.Equal(t, "2025-01-01T00:00:00Z", entries[0].Date)
	assert.Nil(t, entries[0].Author)

	detail, err := repo.GetBySlug(ctx, "old-post")
	require.NoError(t, err)
	require.NotNil(t, detail)
	assert.Equal(t, detail.MarkdownID, detail.MarkdownEN)
	assert.Equal(t, "# Hello\n\nOne language only.", detail.MarkdownID)
	assert.Contains(t, detail.HTMLEN, "<h1")
}

func TestArticleRepo_GetBySlugBypassesIndex(t *testing.T) {
	repo, backend := newTestArticleRepo(t)
	fm := article("fresh", "2024-01-01T00:00:00Z", models.StatusPublished)
	seedArticle(t, backend, fm, "lama", "old")
	ctx := context.Background()

	_, err := repo.BuildIndex(ctx)
	require.NoError(t, err)

	// changed behind the index's back
	fm.TitleEN = "Updated title"
	seedArticle(t, backend, fm, "baru", "new <script>x</script>")

	detail, err := repo.GetBySlug(ctx, "fresh")
	require.NoError(t, err)
	require.NotNil(t, detail)
	assert.Equal(t, "Updated title", detail.TitleEN)
	assert.Equal(t, "baru", detail.MarkdownID)
	assert.NotContains(t, detail.HTMLEN, "<script")
	assert.Equal(t, "Budi", detail.Author.Name)

	missing, err := repo.GetBySlug(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestArticleRepo_WriteCommitMessages(t *testing.T) {
	repo, backend := newTestArticleRepo(t)
	ctx := context.Background()
	fm := article("my-post", "2024-01-01T00:00:00Z", models.StatusDraft)

	require.NoError(t, repo.Write(ctx, fm, "isi", "body"))
	fm.Status = models.StatusPublished
	require.NoError(t, repo.Write(ctx, fm, "isi 2", "body 2"))

	deleted, err := repo.Delete(ctx, "my-post")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(ctx, "my-post")
	require.NoError(t, err)
	assert.False(t, deleted)

	var messages []string
	for _, c := range backend.History() {
		messages = append(messages, c.Message)
	}
	assert.Equal(t, []string{"Create article: my-post", "Update article: my-post", "Delete article: my-post"}, messages)

	exists, err := repo.Exists(ctx, "my-post")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestArticleRepo_WriteFailureIsReturned(t *testing.T) {
	repo, backend := newTestArticleRepo(t)
	backend.FailNextPut(&gitstore.TransientError{Op: "put", StatusCode: 500, Message: "boom"})

	err := repo.Write(context.Background(), article("x-post", "2024-01-01T00:00:00Z", models.StatusDraft), "a", "b")
	require.Error(t, err)

	exists, err := repo.Exists(context.Background(), "x-post")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestParseDate(t *testing.T) {
	assert.Equal(t, 2024, parseDate("2024-05-01T10:00:00.000Z").Year())
	assert.Equal(t, 2023, parseDate("2023-01-15").Year())
	assert.True(t, parseDate("yesterday").IsZero())
}

func TestArticleRepo_SharedBuildSurvivesCancelledCaller(t *testing.T) {
	backend := &slowList{MemoryBackend: gitstore.NewMemoryBackend(), delay: 80 * time.Millisecond}
	backend.Seed("data/users.json", []byte(`[{"id":"usr_1","username":"budi","name":"Budi","email":"budi@example.com","role":"author"}]`))
	seedArticle(t, backend.MemoryBackend, article("first", "2024-01-01T00:00:00Z", models.StatusPublished), "a", "b")
	users := NewUserRepo(backend, "data/users.json", testOpts, zerolog.Nop())
	repo := NewArticleRepo(backend, testArticlesDir, users, content.NewRenderer(16), testOpts, zerolog.Nop())

	short, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	shortErr := make(chan error, 1)
	go func() {
		_, err := repo.BuildIndex(short)
		shortErr <- err
	}()
	time.Sleep(10 * time.Millisecond)

	entries, err := repo.BuildIndex(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.ErrorIs(t, <-shortErr, context.DeadlineExceeded)

	// the finished build is cached for later readers
	gets := backend.Gets()
	_, err = repo.BuildIndex(context.Background())
	require.NoError(t, err)
	assert.Equal(t, gets, backend.Gets())
}

// slowList delays directory listings until delay passes or ctx ends
type slowList struct {
	*gitstore.MemoryBackend
	delay time.Duration
}

func (s *slowList) List(ctx context.Context, dir, ext string) ([]string, error) {
	select {
	case <-time.After(s.delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return s.MemoryBackend.List(ctx, dir, ext)
}
