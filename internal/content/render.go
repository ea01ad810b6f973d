package content

import (
	"bytes"
	"regexp"

	"github.com/bluele/gcache"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// highlighting classes: pre takes only language-*, span only hljs*, code both
var (
	preClass  = regexp.MustCompile(`^language-[\w+-]+$`)
	spanClass = regexp.MustCompile(`^hljs[\w-]*(\s+hljs[\w-]*)*$`)
	codeClass = regexp.MustCompile(`^(language-[\w+-]+|hljs[\w-]*)(\s+(language-[\w+-]+|hljs[\w-]*))*$`)
)

// Renderer turns Markdown into HTML that only contains allow-listed markup.
// Raw HTML in the source passes through the parser and is filtered by the
// same policy as generated markup.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
	cache  gcache.Cache
}

// NewRenderer creates a renderer whose RenderCached keeps up to cacheSize
// results. A cacheSize below 1 disables caching.
func NewRenderer(cacheSize int) *Renderer {
	r := &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.NewTable(extension.WithTableCellAlignMethod(extension.TableCellAlignAttribute)),
				extension.Strikethrough,
				extension.Linkify,
				extension.TaskList,
			),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
		policy: newPolicy(),
	}
	if cacheSize > 0 {
		r.cache = gcache.New(cacheSize).LRU().Build()
	}
	return r
}

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("details", "summary", "mark", "del", "ins", "span")
	p.AllowAttrs("src", "alt", "title", "width", "height").OnElements("img")
	p.AllowAttrs("loading").Matching(regexp.MustCompile(`^(lazy|eager)$`)).OnElements("img")
	p.AllowAttrs("href", "title", "rel").OnElements("a")
	p.AllowAttrs("target").Matching(regexp.MustCompile(`^_(blank|self)$`)).OnElements("a")
	p.AllowAttrs("align").Matching(regexp.MustCompile(`^(left|right|center)$`)).OnElements("td", "th")
	p.AllowAttrs("class").Matching(preClass).OnElements("pre")
	p.AllowAttrs("class").Matching(spanClass).OnElements("span")
	p.AllowAttrs("class").Matching(codeClass).OnElements("code")
	return p
}

// Render converts markdown to sanitized HTML
func (r *Renderer) Render(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		return "", err
	}
	return r.policy.Sanitize(buf.String()), nil
}

// RenderCached is Render memoized under key. Callers derive key from the
// file version so that a new write never serves stale HTML.
func (r *Renderer) RenderCached(key, markdown string) (string, error) {
	if r.cache == nil || key == "" {
		return r.Render(markdown)
	}
	if v, err := r.cache.Get(key); err == nil {
		return v.(string), nil
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", err
	}
	_ = r.cache.Set(key, out)
	return out, nil
}
