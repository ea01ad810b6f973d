// Package gitstore reads and writes whole files in a remote version-controlled
// repository. Every file carries a version token (its blob SHA); updates and
// deletes must present the token they last saw and are rejected when the
// remote file has moved on.
package gitstore

import (
	"context"
	"strings"
)

// File is a remote file together with the version token the backend reported for it.
type File struct {
	Path    string
	Content []byte
	SHA     string
}

// Backend defines the file operations the stores are built on
type Backend interface {
	// Get returns the file at path, or ErrNotFound when it does not exist.
	Get(ctx context.Context, path string) (*File, error)

	// List returns the names of the files directly under dir, optionally
	// restricted to names ending in ext. A missing directory yields no names.
	List(ctx context.Context, dir, ext string) ([]string, error)

	// Put writes content to path and returns the new version token. An empty
	// sha means create; a non-empty sha must match the current remote token.
	// The message is recorded in the repository history.
	Put(ctx context.Context, path string, content []byte, message, sha string) (string, error)

	// Delete removes the file at path if its current token equals sha.
	Delete(ctx context.Context, path, sha, message string) error

	// RawURL returns the public URL the file content is served from.
	RawURL(path string) string
}

func cleanPath(p string) string {
	return strings.TrimPrefix(p, "/")
}
