package gitstore

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"

	"github.com/tidwall/btree"
)

// Commit is one entry of the MemoryBackend history
type Commit struct {
	Op      string
	Path    string
	Message string
	SHA     string
}

type memFile struct {
	content []byte
	sha     string
}

// MemoryBackend is an in-process Backend with the same compare-and-swap
// rules as the remote API. It backs local development and tests.
type MemoryBackend struct {
	mu      sync.Mutex
	files   *btree.Map[string, memFile]
	rawBase string
	history []Commit

	gets     int
	puts     int
	failNext error
}

// NewMemoryBackend creates an empty in-memory backend
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		files:   btree.NewMap[string, memFile](0),
		rawBase: "memory://raw",
	}
}

// Seed stores content at path without counting as a write or adding history
func (m *MemoryBackend) Seed(path string, content []byte) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	sha := blobSHA(content)
	m.files.Set(cleanPath(path), memFile{content: append([]byte(nil), content...), sha: sha})
	return sha
}

// FailNextPut makes the next Put or Delete return err
func (m *MemoryBackend) FailNextPut(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = err
}

// Gets returns the number of Get calls served so far
func (m *MemoryBackend) Gets() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gets
}

// Puts returns the number of successful Put calls
func (m *MemoryBackend) Puts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.puts
}

// History returns the audit trail of writes in order
func (m *MemoryBackend) History() []Commit {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Commit(nil), m.history...)
}

func (m *MemoryBackend) Get(ctx context.Context, path string) (*File, error) {
	if err := ctx.Err(); err != nil {
		return nil, &TransientError{Op: "get", Path: path, Err: err}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++

	p := cleanPath(path)
	f, ok := m.files.Get(p)
	if !ok {
		return nil, ErrNotFound
	}
	return &File{Path: p, Content: append([]byte(nil), f.content...), SHA: f.sha}, nil
}

func (m *MemoryBackend) List(ctx context.Context, dir, ext string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, &TransientError{Op: "list", Path: dir, Err: err}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	prefix := strings.TrimSuffix(cleanPath(dir), "/") + "/"
	names := []string{}
	m.files.Ascend(prefix, func(key string, _ memFile) bool {
		if !strings.HasPrefix(key, prefix) {
			return false
		}
		name := strings.TrimPrefix(key, prefix)
		if strings.Contains(name, "/") {
			return true
		}
		if ext == "" || strings.HasSuffix(name, ext) {
			names = append(names, name)
		}
		return true
	})
	return names, nil
}

func (m *MemoryBackend) Put(ctx context.Context, path string, content []byte, message, sha string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &TransientError{Op: "put", Path: path, Err: err}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.takeFailure(); err != nil {
		return "", err
	}

	p := cleanPath(path)
	current, exists := m.files.Get(p)
	switch {
	case !exists && sha != "":
		return "", &ConflictError{Path: p, ExpectedSHA: sha, Message: "file does not exist"}
	case exists && current.sha != sha:
		return "", &ConflictError{Path: p, ExpectedSHA: sha, Message: fmt.Sprintf("current sha is %s", current.sha)}
	}

	next := memFile{content: append([]byte(nil), content...), sha: blobSHA(content)}
	m.files.Set(p, next)
	m.puts++
	m.history = append(m.history, Commit{Op: "put", Path: p, Message: message, SHA: next.sha})
	return next.sha, nil
}

func (m *MemoryBackend) Delete(ctx context.Context, path, sha, message string) error {
	if err := ctx.Err(); err != nil {
		return &TransientError{Op: "delete", Path: path, Err: err}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.takeFailure(); err != nil {
		return err
	}

	p := cleanPath(path)
	current, exists := m.files.Get(p)
	if !exists {
		return ErrNotFound
	}
	if current.sha != sha {
		return &ConflictError{Path: p, ExpectedSHA: sha}
	}

	m.files.Delete(p)
	m.history = append(m.history, Commit{Op: "delete", Path: p, Message: message, SHA: sha})
	return nil
}

func (m *MemoryBackend) RawURL(path string) string {
	return m.rawBase + "/" + cleanPath(path)
}

func (m *MemoryBackend) takeFailure() error {
	err := m.failNext
	m.failNext = nil
	return err
}

// blobSHA computes the git blob hash, the same token GitHub reports
func blobSHA(content []byte) string {
	h := sha1.New()
	fmt.Fprintf(h, "blob %d\x00", len(content))
	h.Write(content)
	return hex.EncodeToString(h.Sum(nil))
}
