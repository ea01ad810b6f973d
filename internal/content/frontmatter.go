// Package content encodes and decodes article files: a YAML frontmatter block
// followed by a Markdown body that may carry one section per language.
package content

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/bilingual-blog-api/internal/models"
	"gopkg.in/yaml.v3"
)

var bom = []byte("\xef\xbb\xbf")

// Document is a decoded article file
type Document struct {
	Frontmatter map[string]any
	Body        string
}

// Decode splits a leading "---" delimited YAML block from the body. A file
// without a block yields an empty frontmatter and the whole text as body.
// A block that is not valid YAML is an error.
func Decode(raw []byte) (Document, error) {
	data := bytes.TrimPrefix(raw, bom)

	var rest []byte
	switch {
	case bytes.HasPrefix(data, []byte("---\r\n")):
		rest = data[len("---\r\n"):]
	case bytes.HasPrefix(data, []byte("---\n")):
		rest = data[len("---\n"):]
	default:
		return Document{Frontmatter: map[string]any{}, Body: string(data)}, nil
	}

	endIdx, markerLen := -1, 0
	if bytes.HasPrefix(rest, []byte("---")) {
		// empty block
		endIdx, markerLen = 0, len("---")
	} else {
		for _, m := range [][]byte{[]byte("\n---\r\n"), []byte("\n---\n"), []byte("\r\n---\n"), []byte("\n---")} {
			if i := bytes.Index(rest, m); i >= 0 {
				endIdx, markerLen = i, len(m)
				break
			}
		}
	}
	if endIdx < 0 {
		return Document{Frontmatter: map[string]any{}, Body: string(data)}, nil
	}

	fm := map[string]any{}
	if err := yaml.Unmarshal(rest[:endIdx], &fm); err != nil {
		return Document{}, fmt.Errorf("parse frontmatter: %w", err)
	}
	if fm == nil {
		fm = map[string]any{}
	}
	body := bytes.TrimLeft(rest[endIdx+markerLen:], "\r\n")
	return Document{Frontmatter: fm, Body: string(body)}, nil
}

// ParseFrontmatter maps a decoded frontmatter onto the article schema,
// filling fields missing from older single-language files:
// titles fall back to "title" then the slug, descriptions to "description",
// the slug to fallbackSlug, the date to now, the status to draft.
func ParseFrontmatter(fm map[string]any, fallbackSlug string, now time.Time) models.ArticleFrontmatter {
	title := stringField(fm, "title")
	if title == "" {
		title = fallbackSlug
	}
	description := stringField(fm, "description")

	out := models.ArticleFrontmatter{
		TitleID:       firstNonEmpty(stringField(fm, "title_id"), title),
		TitleEN:       firstNonEmpty(stringField(fm, "title_en"), title),
		Slug:          firstNonEmpty(stringField(fm, "slug"), fallbackSlug),
		Date:          firstNonEmpty(stringField(fm, "date"), now.UTC().Format(time.RFC3339)),
		DescriptionID: firstNonEmpty(stringField(fm, "description_id"), description),
		DescriptionEN: firstNonEmpty(stringField(fm, "description_en"), description),
		Tags:          stringsField(fm, "tags"),
		Status:        models.ArticleStatus(stringField(fm, "status")),
		AuthorID:      stringField(fm, "authorId"),
		Cover:         stringField(fm, "cover"),
	}
	if !models.ValidStatuses[out.Status] {
		out.Status = models.StatusDraft
	}
	return out
}

// Encode writes the frontmatter block, a blank line and the body
func Encode(fm models.ArticleFrontmatter, body string) ([]byte, error) {
	if fm.Tags == nil {
		fm.Tags = []string{}
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fm); err != nil {
		return nil, fmt.Errorf("encode frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode frontmatter: %w", err)
	}
	buf.WriteString("---\n\n")
	buf.WriteString(body)
	return buf.Bytes(), nil
}

func stringField(fm map[string]any, key string) string {
	switch v := fm[key].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case time.Time:
		// unquoted YAML timestamps
		if v.Hour() == 0 && v.Minute() == 0 && v.Second() == 0 && v.Nanosecond() == 0 {
			return v.Format("2006-01-02")
		}
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprint(v)
	}
}

func stringsField(fm map[string]any, key string) []string {
	out := []string{}
	switch v := fm[key].(type) {
	case []any:
		for _, item := range v {
			if item == nil {
				continue
			}
			if s := strings.TrimSpace(fmt.Sprint(item)); s != "" {
				out = append(out, s)
			}
		}
	case []string:
		out = append(out, v...)
	case string:
		// comma separated
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
