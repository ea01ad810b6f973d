package gitstore

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/rs/zerolog"
)

const (
	defaultAPIURL = "https://api.github.com"
	defaultRawURL = "https://raw.githubusercontent.com"
)

// GitHubConfig holds the repository coordinates and credentials
type GitHubConfig struct {
	Token   string
	Owner   string
	Repo    string
	Branch  string
	APIURL  string
	RawURL  string
	Timeout time.Duration
}

// GitHubBackend implements Backend on top of the GitHub contents API
type GitHubBackend struct {
	cfg    GitHubConfig
	client *github.Client
	log    zerolog.Logger
}

// NewGitHubBackend creates a backend for the configured repository
func NewGitHubBackend(cfg GitHubConfig, log zerolog.Logger) *GitHubBackend {
	if cfg.Branch == "" {
		cfg.Branch = "main"
	}
	if cfg.APIURL == "" {
		cfg.APIURL = defaultAPIURL
	}
	if cfg.RawURL == "" {
		cfg.RawURL = defaultRawURL
	}
	cfg.APIURL = strings.TrimSuffix(cfg.APIURL, "/")
	cfg.RawURL = strings.TrimSuffix(cfg.RawURL, "/")
	log = log.With().Str("component", "gitstore").Logger()

	httpClient := cleanhttp.DefaultPooledClient()
	if cfg.Timeout > 0 {
		httpClient.Timeout = cfg.Timeout
	}
	client := github.NewClient(httpClient)
	if cfg.Token != "" {
		client = client.WithAuthToken(cfg.Token)
	}
	// the client resolves request paths against BaseURL, which needs the slash
	if base, err := url.Parse(cfg.APIURL + "/"); err == nil {
		client.BaseURL = base
	} else {
		log.Error().Err(err).Str("api_url", cfg.APIURL).Msg("Invalid API URL, using default")
	}

	return &GitHubBackend{
		cfg:    cfg,
		client: client,
		log:    log,
	}
}

// Get fetches a file and decodes its base64 content
func (b *GitHubBackend) Get(ctx context.Context, path string) (*File, error) {
	p := cleanPath(path)
	file, dir, resp, err := b.client.Repositories.GetContents(ctx, b.cfg.Owner, b.cfg.Repo, p, b.ref())
	if err != nil {
		if statusOf(resp, err) == http.StatusNotFound {
			return nil, ErrNotFound
		}
		return nil, b.failure("get", p, resp, err)
	}
	if file == nil {
		return nil, &TransientError{Op: "get", Path: p, Message: fmt.Sprintf("not a file: directory with %d entries", len(dir))}
	}
	if t := file.GetType(); t != "" && t != "file" {
		return nil, &TransientError{Op: "get", Path: p, Message: "not a file: " + t}
	}

	content, err := file.GetContent()
	if err != nil {
		return nil, &TransientError{Op: "get", Path: p, Err: fmt.Errorf("decode content: %w", err)}
	}
	return &File{Path: p, Content: []byte(content), SHA: file.GetSHA()}, nil
}

// List returns file names in a directory, filtered by extension. A missing
// directory, or a path that names a single file, lists as empty.
func (b *GitHubBackend) List(ctx context.Context, dir, ext string) ([]string, error) {
	p := cleanPath(dir)
	file, entries, resp, err := b.client.Repositories.GetContents(ctx, b.cfg.Owner, b.cfg.Repo, p, b.ref())
	if err != nil {
		if statusOf(resp, err) == http.StatusNotFound {
			return []string{}, nil
		}
		return nil, b.failure("list", p, resp, err)
	}
	if file != nil {
		if file.GetType() == "file" {
			return []string{}, nil
		}
		return nil, &TransientError{Op: "list", Path: p, StatusCode: statusOf(resp, nil), Message: "unexpected object in place of a directory listing"}
	}
	if entries == nil {
		return nil, &TransientError{Op: "list", Path: p, StatusCode: statusOf(resp, nil), Message: "empty directory listing"}
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.GetType() != "file" {
			continue
		}
		if ext != "" && !strings.HasSuffix(e.GetName(), ext) {
			continue
		}
		names = append(names, e.GetName())
	}
	return names, nil
}

// Put creates or replaces a file. A non-empty sha makes it an update.
func (b *GitHubBackend) Put(ctx context.Context, path string, content []byte, message, sha string) (string, error) {
	p := cleanPath(path)
	opts := &github.RepositoryContentFileOptions{
		Message: github.String(message),
		Content: content,
		Branch:  github.String(b.cfg.Branch),
	}

	var (
		res  *github.RepositoryContentResponse
		resp *github.Response
		err  error
	)
	if sha == "" {
		res, resp, err = b.client.Repositories.CreateFile(ctx, b.cfg.Owner, b.cfg.Repo, p, opts)
	} else {
		opts.SHA = github.String(sha)
		res, resp, err = b.client.Repositories.UpdateFile(ctx, b.cfg.Owner, b.cfg.Repo, p, opts)
	}
	if err != nil {
		if isConflictStatus(statusOf(resp, err)) {
			return "", &ConflictError{Path: p, ExpectedSHA: sha, Message: messageOf(err)}
		}
		return "", b.failure("put", p, resp, err)
	}

	newSHA := res.GetContent().GetSHA()
	b.log.Debug().Str("path", p).Str("sha", newSHA).Str("message", message).Msg("File written")
	return newSHA, nil
}

// Delete removes a file at the given version
func (b *GitHubBackend) Delete(ctx context.Context, path, sha, message string) error {
	p := cleanPath(path)
	_, resp, err := b.client.Repositories.DeleteFile(ctx, b.cfg.Owner, b.cfg.Repo, p, &github.RepositoryContentFileOptions{
		Message: github.String(message),
		SHA:     github.String(sha),
		Branch:  github.String(b.cfg.Branch),
	})
	if err != nil {
		status := statusOf(resp, err)
		switch {
		case status == http.StatusNotFound:
			return ErrNotFound
		case isConflictStatus(status):
			return &ConflictError{Path: p, ExpectedSHA: sha, Message: messageOf(err)}
		}
		return b.failure("delete", p, resp, err)
	}

	b.log.Debug().Str("path", p).Str("message", message).Msg("File deleted")
	return nil
}

// RawURL returns the raw content URL for a file on the configured branch
func (b *GitHubBackend) RawURL(path string) string {
	return fmt.Sprintf("%s/%s/%s/%s/%s", b.cfg.RawURL, b.cfg.Owner, b.cfg.Repo, b.cfg.Branch, cleanPath(path))
}

func (b *GitHubBackend) ref() *github.RepositoryContentGetOptions {
	return &github.RepositoryContentGetOptions{Ref: b.cfg.Branch}
}

// failure logs a request that was neither absent nor a conflict and wraps it
func (b *GitHubBackend) failure(op, path string, resp *github.Response, err error) error {
	status := statusOf(resp, err)
	msg := messageOf(err)
	b.log.Error().
		Err(err).
		Str("op", op).
		Str("path", path).
		Int("status", status).
		Msg("Backend request failed")
	return &TransientError{Op: op, Path: path, StatusCode: status, Message: msg, Err: err}
}

// statusOf returns the HTTP status behind a client call, or 0 when the
// request never got a response
func statusOf(resp *github.Response, err error) int {
	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		return errResp.Response.StatusCode
	}
	if resp != nil && resp.Response != nil {
		return resp.StatusCode
	}
	return 0
}

// messageOf extracts the message GitHub puts in error bodies
func messageOf(err error) string {
	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) {
		return errResp.Message
	}
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return rateErr.Message
	}
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return abuseErr.Message
	}
	return ""
}

// isConflictStatus matches the statuses GitHub uses for a stale sha
func isConflictStatus(status int) bool {
	return status == http.StatusConflict || status == http.StatusUnprocessableEntity
}
