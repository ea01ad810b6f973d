package content

import (
	"strings"
	"testing"
	"time"

	"github.com/bilingual-blog-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitLanguages(t *testing.T) {
	tcs := []struct {
		name string
		body string
		want Languages
	}{
		{
			name: "legacy body fills both slots",
			body: "\n# Halo\n\nSatu bahasa saja.\n",
			want: Languages{ID: "# Halo\n\nSatu bahasa saja.", EN: "# Halo\n\nSatu bahasa saja."},
		},
		{
			name: "both markers",
			body: "<!-- lang:id -->\nHalo dunia\n\n<!-- lang:en -->\nHello world\n",
			want: Languages{ID: "Halo dunia", EN: "Hello world"},
		},
		{
			name: "reversed markers",
			body: "<!-- lang:en -->\nHello\n<!-- lang:id -->\nHalo",
			want: Languages{ID: "Halo", EN: "Hello"},
		},
		{
			name: "only id marker",
			body: "<!-- lang:id -->\nHalo",
			want: Languages{ID: "Halo"},
		},
		{
			name: "only en marker",
			body: "intro\n<!-- lang:en -->\nHello",
			want: Languages{EN: "Hello"},
		},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SplitLanguages(tc.body))
		})
	}
}

func TestJoinLanguages_RoundTrip(t *testing.T) {
	pairs := [][2]string{
		{"a", "b"},
		{"# Judul\n\nParagraf pertama.", "# Title\n\nFirst paragraph."},
		{"```go\nfmt.Println(\"halo\")\n```", "- one\n- two"},
		{"sama", "sama"},
	}
	for _, p := range pairs {
		got := SplitLanguages(JoinLanguages(p[0], p[1]))
		assert.Equal(t, Languages{ID: p[0], EN: p[1]}, got)
	}
	assert.Equal(t, "<!-- lang:id -->\nhalo\n\n<!-- lang:en -->\nhello", JoinLanguages("halo", "hello"))
}

func TestDecode(t *testing.T) {
	doc, err := Decode([]byte("\xef\xbb\xbf---\r\ntitle: Hello\r\n---\r\n\r\nBody text"))
	require.NoError(t, err)
	assert.Equal(t, "Hello", doc.Frontmatter["title"])
	assert.Equal(t, "Body text", doc.Body)

	doc, err = Decode([]byte("no frontmatter here"))
	require.NoError(t, err)
	assert.Empty(t, doc.Frontmatter)
	assert.Equal(t, "no frontmatter here", doc.Body)

	doc, err = Decode([]byte("---\n---\nonly body"))
	require.NoError(t, err)
	assert.Empty(t, doc.Frontmatter)
	assert.Equal(t, "only body", doc.Body)

	_, err = Decode([]byte("---\ntitle: [unclosed\n---\nbody"))
	assert.Error(t, err)
}

func TestEncodeDecode(t *testing.T) {
	fm := models.ArticleFrontmatter{
		TitleID:       "Belajar Go: bagian 1",
		TitleEN:       "Learning Go: part 1",
		Slug:          "belajar-go",
		Date:          "2024-05-01T10:00:00Z",
		DescriptionID: "Pengantar",
		DescriptionEN: "Introduction",
		Tags:          []string{"go", "web"},
		Status:        models.StatusPublished,
		AuthorID:      "usr_1a2b3c4d",
	}
	body := JoinLanguages("Halo", "Hello")

	raw, err := Encode(fm, body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "---\ntitle_id: "))
	assert.NotContains(t, string(raw), "cover:")

	doc, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, body, doc.Body)
	assert.Equal(t, fm, ParseFrontmatter(doc.Frontmatter, "ignored", time.Now()))
}

func TestParseFrontmatter_LegacyFallbacks(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	doc, err := Decode([]byte("---\ntitle: Old Post\ndescription: Lama\ndate: 2023-01-15\ntags: [go, 42]\n---\n# Body\n"))
	require.NoError(t, err)

	fm := ParseFrontmatter(doc.Frontmatter, "old-post", now)
	assert.Equal(t, "Old Post", fm.TitleID)
	assert.Equal(t, "Old Post", fm.TitleEN)
	assert.Equal(t, "Lama", fm.DescriptionID)
	assert.Equal(t, "Lama", fm.DescriptionEN)
	assert.Equal(t, "old-post", fm.Slug)
	assert.Equal(t, "2023-01-15", fm.Date)
	assert.Equal(t, []string{"go", "42"}, fm.Tags)
	assert.Equal(t, models.StatusDraft, fm.Status)

	fm = ParseFrontmatter(map[string]any{}, "bare", now)
	assert.Equal(t, "bare", fm.TitleID)
	assert.Equal(t, "bare", fm.Slug)
	assert.Equal(t, "2025-03-01T12:00:00Z", fm.Date)
	assert.Equal(t, []string{}, fm.Tags)
}

func TestRender_Sanitizes(t *testing.T) {
	r := NewRenderer(0)
	src := strings.Join([]string{
		"<script>alert(1)</script>",
		"",
		`<img src="x.png" onerror="alert(1)">`,
		"",
		"[click](javascript:alert(1))",
		"",
		"| a | b |",
		"|---|:-:|",
		"| 1 | 2 |",
		"",
		"```go",
		"fmt.Println()",
		"```",
	}, "\n")

	out, err := r.Render(src)
	require.NoError(t, err)
	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "onerror")
	assert.NotContains(t, out, "javascript:")
	assert.Contains(t, out, `<img src="x.png"`)
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "<td>1</td>")
	assert.Contains(t, out, `<th align="center">b</th>`)
	assert.Contains(t, out, `class="language-go"`)
}

func TestRender_AllowList(t *testing.T) {
	r := NewRenderer(0)

	out, err := r.Render(`<details><summary>more</summary><mark>hi</mark></details>`)
	require.NoError(t, err)
	assert.Contains(t, out, "<details><summary>more</summary><mark>hi</mark></details>")

	out, err = r.Render(`<span class="hljs-keyword" style="color:red">func</span>`)
	require.NoError(t, err)
	assert.Contains(t, out, `<span class="hljs-keyword">func</span>`)

	out, err = r.Render(`<span class="evil">x</span><iframe src="https://example.com"></iframe>`)
	require.NoError(t, err)
	assert.NotContains(t, out, "evil")
	assert.NotContains(t, out, "iframe")
}

func TestRender_HighlightClassesPerElement(t *testing.T) {
	r := NewRenderer(0)

	tests := []struct {
		name   string
		in     string
		keep   string
		reject string
	}{
		{"pre takes language", `<pre class="language-go">x</pre>`, `<pre class="language-go">`, ""},
		{"pre rejects hljs", `<pre class="hljs">x</pre>`, "<pre>", "hljs"},
		{"span takes hljs", `<span class="hljs-string">x</span>`, `<span class="hljs-string">`, ""},
		{"span rejects language", `<span class="language-go">x</span>`, "x", "language-go"},
		{"code takes both", `<code class="hljs language-go">x</code>`, `<code class="hljs language-go">`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := r.Render(tt.in)
			require.NoError(t, err)
			assert.Contains(t, out, tt.keep)
			if tt.reject != "" {
				assert.NotContains(t, out, tt.reject)
			}
		})
	}
}

func TestRenderCached(t *testing.T) {
	r := NewRenderer(8)

	first, err := r.RenderCached("sha1:id", "# One")
	require.NoError(t, err)
	// same key returns the memoized output even for different input
	second, err := r.RenderCached("sha1:id", "# Two")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	third, err := r.RenderCached("sha2:id", "# Two")
	require.NoError(t, err)
	assert.Contains(t, third, "Two")
}
