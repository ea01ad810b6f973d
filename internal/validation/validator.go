package validation

import (
	"regexp"
	"strings"

	"github.com/bilingual-blog-api/internal/models"
)

var (
	emailRegex     = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	usernameRegex  = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	slugRegex      = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	slugStripRegex = regexp.MustCompile(`[^a-z0-9\s-]`)
	spaceRegex     = regexp.MustCompile(`\s+`)
	dashRegex      = regexp.MustCompile(`-+`)
)

const (
	minTitleLength = 3
	maxTitleLength = 200
	minBodyLength  = 10
	minUsernameLen = 3
	minNameLength  = 2
	minPasswordLen = 6
)

// FieldError represents a single validation error
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidateRegister validates a registration request and returns every problem found
func ValidateRegister(req *models.RegisterRequest) []FieldError {
	var errors []FieldError

	username := strings.TrimSpace(req.Username)
	if len(username) < minUsernameLen {
		errors = append(errors, FieldError{Field: "username", Message: "username must be at least 3 characters"})
	} else if !usernameRegex.MatchString(req.Username) {
		errors = append(errors, FieldError{Field: "username", Message: "username may only contain letters, numbers and underscores"})
	}

	if len(strings.TrimSpace(req.Name)) < minNameLength {
		errors = append(errors, FieldError{Field: "name", Message: "name must be at least 2 characters"})
	}

	if req.Email == "" {
		errors = append(errors, FieldError{Field: "email", Message: "email is required"})
	} else if !emailRegex.MatchString(req.Email) {
		errors = append(errors, FieldError{Field: "email", Message: "invalid email format"})
	}

	if len(req.Password) < minPasswordLen {
		errors = append(errors, FieldError{Field: "password", Message: "password must be at least 6 characters"})
	}

	return errors
}

// ValidateLogin validates a login request
func ValidateLogin(req *models.LoginRequest) []FieldError {
	var errors []FieldError

	if req.Username == "" {
		errors = append(errors, FieldError{Field: "username", Message: "username or email is required"})
	}
	if req.Password == "" {
		errors = append(errors, FieldError{Field: "password", Message: "password is required"})
	}

	return errors
}

// ValidateArticle validates a new article
func ValidateArticle(in *models.ArticleInput) []FieldError {
	var errors []FieldError

	errors = appendTitleErrors(errors, "title_id", in.TitleID)
	errors = appendTitleErrors(errors, "title_en", in.TitleEN)

	if len(strings.TrimSpace(in.MarkdownID)) < minBodyLength {
		errors = append(errors, FieldError{Field: "markdown_id", Message: "article content (id) must be at least 10 characters"})
	}
	if len(strings.TrimSpace(in.MarkdownEN)) < minBodyLength {
		errors = append(errors, FieldError{Field: "markdown_en", Message: "article content (en) must be at least 10 characters"})
	}

	if in.Slug != "" && !IsValidSlug(strings.TrimSpace(in.Slug)) {
		errors = append(errors, FieldError{Field: "slug", Message: "slug may only contain lowercase letters, numbers and hyphens"})
	}

	if in.Status != "" && !models.ValidStatuses[models.ArticleStatus(in.Status)] {
		errors = append(errors, FieldError{Field: "status", Message: `status must be "published" or "draft"`})
	}

	return errors
}

// ValidateArticleUpdate validates the fields present in a partial update
func ValidateArticleUpdate(in *models.ArticleUpdate) []FieldError {
	var errors []FieldError

	if in.TitleID != nil && strings.TrimSpace(*in.TitleID) != "" {
		errors = appendTitleErrors(errors, "title_id", *in.TitleID)
	}
	if in.TitleEN != nil && strings.TrimSpace(*in.TitleEN) != "" {
		errors = appendTitleErrors(errors, "title_en", *in.TitleEN)
	}
	if in.Status != nil && !models.ValidStatuses[models.ArticleStatus(*in.Status)] {
		errors = append(errors, FieldError{Field: "status", Message: `status must be "published" or "draft"`})
	}

	return errors
}

func appendTitleErrors(errors []FieldError, field, title string) []FieldError {
	switch {
	case len(strings.TrimSpace(title)) < minTitleLength:
		return append(errors, FieldError{Field: field, Message: field + " must be at least 3 characters"})
	case len(title) > maxTitleLength:
		return append(errors, FieldError{Field: field, Message: field + " must be no more than 200 characters"})
	}
	return errors
}

// IsValidSlug reports whether s is lowercase kebab-case
func IsValidSlug(s string) bool {
	return slugRegex.MatchString(s)
}

// SanitizeSlug turns arbitrary text into a kebab-case slug
func SanitizeSlug(input string) string {
	s := strings.TrimSpace(strings.ToLower(input))
	s = slugStripRegex.ReplaceAllString(s, "")
	s = spaceRegex.ReplaceAllString(s, "-")
	s = dashRegex.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
