package benchmark

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bilingual-blog-api/internal/config"
	"github.com/bilingual-blog-api/internal/content"
	"github.com/bilingual-blog-api/internal/gitstore"
	"github.com/bilingual-blog-api/internal/models"
	"github.com/bilingual-blog-api/internal/repository"
	"github.com/bilingual-blog-api/internal/validation"
	"github.com/rs/zerolog"
)

const articleCount = 200

var sampleMarkdown = strings.Repeat("## Bagian\n\nParagraf dengan **tebal**, `kode` dan [tautan](https://example.com).\n\n| a | b |\n|---|---|\n| 1 | 2 |\n\n", 10)

func storeConfig() *config.StoreConfig {
	return &config.StoreConfig{
		UsersPath:              "data/users.json",
		StatsPath:              "data/stats.json",
		ReadingListPath:        "data/readinglist.json",
		ArticlesDir:            "content/articles",
		ConflictRetryAttempts:  3,
		ConflictRetryBaseDelay: time.Millisecond,
	}
}

// seededRepos returns repositories over a backend holding articleCount articles
func seededRepos(b *testing.B) *repository.Repositories {
	b.Helper()
	backend := gitstore.NewMemoryBackend()
	backend.Seed("data/users.json", []byte(`[{"id":"usr_bench","username":"bench","name":"Bench","email":"bench@example.com","role":"author"}]`))

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < articleCount; i++ {
		status := models.StatusPublished
		if i%5 == 0 {
			status = models.StatusDraft
		}
		fm := models.ArticleFrontmatter{
			TitleID:  fmt.Sprintf("Artikel %03d", i),
			TitleEN:  fmt.Sprintf("Article %03d", i),
			Slug:     fmt.Sprintf("article-%03d", i),
			Date:     base.Add(time.Duration(i) * time.Hour).Format(time.RFC3339),
			Tags:     []string{"go", fmt.Sprintf("tag-%d", i%7)},
			Status:   status,
			AuthorID: "usr_bench",
		}
		raw, err := content.Encode(fm, content.JoinLanguages(sampleMarkdown, sampleMarkdown))
		if err != nil {
			b.Fatalf("Encode failed: %v", err)
		}
		backend.Seed("content/articles/"+fm.Slug+".md", raw)
	}

	return repository.New(backend, storeConfig(), content.NewRenderer(64), zerolog.Nop())
}

// BenchmarkArticleQuery benchmarks filtering and paging a built index
func BenchmarkArticleQuery(b *testing.B) {
	repos := seededRepos(b)
	ctx := context.Background()
	if _, err := repos.Article.BuildIndex(ctx); err != nil {
		b.Fatalf("BuildIndex failed: %v", err)
	}
	filter := models.ArticleFilter{Status: models.StatusPublished, Tag: "tag-3", Query: "artikel", Page: 2, Limit: 5}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := repos.Article.Query(ctx, filter); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkBuildIndex benchmarks a cold index rebuild over all files
func BenchmarkBuildIndex(b *testing.B) {
	repos := seededRepos(b)
	ctx := context.Background()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		repos.Article.Invalidate()
		if _, err := repos.Article.BuildIndex(ctx); err != nil {
			b.Fatal(err)
		}
	}

	b.ReportMetric(float64(articleCount*b.N)/b.Elapsed().Seconds(), "files/sec")
}

// BenchmarkStatsMutate benchmarks serialized read-modify-write cycles
func BenchmarkStatsMutate(b *testing.B) {
	repos := seededRepos(b)
	ctx := context.Background()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		res := repos.Stats.IncrementViews(ctx, "article-001")
		if !res.Persisted {
			b.Fatal(res.Err)
		}
	}
}

// BenchmarkSplitJoinLanguages benchmarks the language marker codec
func BenchmarkSplitJoinLanguages(b *testing.B) {
	body := content.JoinLanguages(sampleMarkdown, sampleMarkdown)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		langs := content.SplitLanguages(body)
		_ = content.JoinLanguages(langs.ID, langs.EN)
	}
}

// BenchmarkRender benchmarks markdown rendering with sanitizing
func BenchmarkRender(b *testing.B) {
	r := content.NewRenderer(0)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := r.Render(sampleMarkdown); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkRenderCached benchmarks repeated renders of the same file version
func BenchmarkRenderCached(b *testing.B) {
	r := content.NewRenderer(16)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := r.RenderCached("sha:id", sampleMarkdown); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkValidateArticle benchmarks article validation
func BenchmarkValidateArticle(b *testing.B) {
	in := &models.ArticleInput{
		TitleID:    "Judul Artikel",
		TitleEN:    "Article Title",
		Slug:       "judul-artikel",
		MarkdownID: sampleMarkdown,
		MarkdownEN: sampleMarkdown,
		Status:     "published",
	}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		validation.ValidateArticle(in)
	}
}
