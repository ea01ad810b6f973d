package models

// ArticleStatus is the publication state of an article
type ArticleStatus string

const (
	StatusPublished ArticleStatus = "published"
	StatusDraft     ArticleStatus = "draft"

	// StatusAll is a filter value only, never stored
	StatusAll ArticleStatus = "all"
)

// ValidStatuses defines allowed article statuses
var ValidStatuses = map[ArticleStatus]bool{
	StatusDraft:     true,
	StatusPublished: true,
}

// ArticleFrontmatter is the metadata block at the top of an article file.
// Field order here is the order keys are written to the file.
type ArticleFrontmatter struct {
	TitleID       string        `json:"title_id" yaml:"title_id"`
	TitleEN       string        `json:"title_en" yaml:"title_en"`
	Slug          string        `json:"slug" yaml:"slug"`
	Date          string        `json:"date" yaml:"date"`
	DescriptionID string        `json:"description_id" yaml:"description_id"`
	DescriptionEN string        `json:"description_en" yaml:"description_en"`
	Tags          []string      `json:"tags" yaml:"tags"`
	Status        ArticleStatus `json:"status" yaml:"status"`
	AuthorID      string        `json:"authorId" yaml:"authorId"`
	Cover         string        `json:"cover,omitempty" yaml:"cover,omitempty"`
}

// ArticleIndex is the list projection of an article: frontmatter plus author
type ArticleIndex struct {
	ArticleFrontmatter
	Author *PublicUser `json:"author"`
}

// ArticleDetail is a single article with both language bodies
type ArticleDetail struct {
	ArticleIndex
	HTMLID     string `json:"html_id"`
	HTMLEN     string `json:"html_en"`
	MarkdownID string `json:"markdown_id"`
	MarkdownEN string `json:"markdown_en"`
}

// ArticleFilter selects and pages articles from the index
type ArticleFilter struct {
	Status   ArticleStatus
	AuthorID string
	Tag      string
	Query    string
	Page     int
	Limit    int
}

// ArticlePage is one page of query results
type ArticlePage struct {
	Articles []ArticleIndex `json:"articles"`
	Total    int            `json:"total"`
	Page     int            `json:"page"`
	Limit    int            `json:"limit"`
}

// ArticleListParams are the query parameters of the public listing
type ArticleListParams struct {
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
	Tag      string `form:"tag"`
	Q        string `form:"q"`
	Status   string `form:"status"`
	AuthorID string `form:"authorId"`
}

// ArticleInput is the request body for creating an article
type ArticleInput struct {
	TitleID       string   `json:"title_id"`
	TitleEN       string   `json:"title_en"`
	Slug          string   `json:"slug"`
	DescriptionID string   `json:"description_id"`
	DescriptionEN string   `json:"description_en"`
	Tags          []string `json:"tags"`
	Status        string   `json:"status"`
	Cover         string   `json:"cover"`
	MarkdownID    string   `json:"markdown_id"`
	MarkdownEN    string   `json:"markdown_en"`
}

// ArticleUpdate is the request body for updating an article.
// Nil fields keep their current value.
type ArticleUpdate struct {
	TitleID       *string   `json:"title_id"`
	TitleEN       *string   `json:"title_en"`
	DescriptionID *string   `json:"description_id"`
	DescriptionEN *string   `json:"description_en"`
	Tags          *[]string `json:"tags"`
	Status        *string   `json:"status"`
	Cover         *string   `json:"cover"`
	MarkdownID    *string   `json:"markdown_id"`
	MarkdownEN    *string   `json:"markdown_en"`
}
