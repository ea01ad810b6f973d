package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"sync"
	"time"

	"github.com/bilingual-blog-api/internal/gitstore"
	"github.com/bilingual-blog-api/internal/retry"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
)

// MutationResult is the outcome of Collection.Mutate. Value is the
// transformed value even when Persisted is false; Err explains why.
type MutationResult[V any] struct {
	Value     V
	Persisted bool
	Err       error
}

// CollectionOptions tunes how a collection retries version conflicts
type CollectionOptions struct {
	// RetryAttempts is the total number of put attempts per mutation
	RetryAttempts  int
	RetryBaseDelay time.Duration
	// RetryMaxDelay caps the wait between attempts; zero means no cap
	RetryMaxDelay time.Duration
}

// Collection is a logical table stored as one JSON file. Reads are served
// from an in-process cache; mutations run one at a time, in arrival order,
// and always re-read before applying their transform.
type Collection[V any] struct {
	backend  gitstore.Backend
	path     string
	name     string
	newEmpty func() V
	opts     CollectionOptions
	log      zerolog.Logger

	// lock serializes mutations; waiters acquire in FIFO order
	lock *semaphore.Weighted

	mu     sync.Mutex
	value  V
	sha    string
	loaded bool
	// gen changes on every cache write or invalidation so a slow fetch
	// never installs data older than the current cache
	gen uint64
}

// NewCollection creates a collection stored at filePath. newEmpty supplies
// the value used to initialize a missing file.
func NewCollection[V any](backend gitstore.Backend, filePath string, newEmpty func() V, opts CollectionOptions, log zerolog.Logger) *Collection[V] {
	if opts.RetryAttempts < 1 {
		opts.RetryAttempts = 1
	}
	name := path.Base(filePath)
	return &Collection[V]{
		backend:  backend,
		path:     filePath,
		name:     name,
		newEmpty: newEmpty,
		opts:     opts,
		log:      log.With().Str("component", "collection").Str("collection", name).Logger(),
		lock:     semaphore.NewWeighted(1),
	}
}

// Read returns the cached value, loading it on first use. A missing file is
// created with the empty value. The result is shared and must not be
// modified by callers.
func (c *Collection[V]) Read(ctx context.Context) (V, error) {
	v, _, err := c.snapshot(ctx)
	return v, err
}

// snapshot returns the cached value together with its version token
func (c *Collection[V]) snapshot(ctx context.Context) (V, string, error) {
	c.mu.Lock()
	if c.loaded {
		v, sha := c.value, c.sha
		c.mu.Unlock()
		return v, sha, nil
	}
	gen := c.gen
	c.mu.Unlock()

	v, sha, err := c.fetch(ctx)
	if err != nil {
		var zero V
		return zero, "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		return c.value, c.sha, nil
	}
	if c.gen == gen {
		c.value, c.sha, c.loaded = v, sha, true
	}
	return v, sha, nil
}

func (c *Collection[V]) fetch(ctx context.Context) (V, string, error) {
	var zero V

	f, err := c.backend.Get(ctx, c.path)
	if gitstore.IsNotFound(err) {
		empty := c.newEmpty()
		data, err := encodeJSON(empty)
		if err != nil {
			return zero, "", err
		}
		sha, err := c.backend.Put(ctx, c.path, data, "Initialize "+c.name, "")
		if err == nil {
			c.log.Info().Str("path", c.path).Msg("Initialized collection file")
			return empty, sha, nil
		}
		if !gitstore.IsConflict(err) {
			return zero, "", fmt.Errorf("initialize %s: %w", c.path, err)
		}
		// created concurrently elsewhere
		f, err = c.backend.Get(ctx, c.path)
	}
	if err != nil {
		return zero, "", fmt.Errorf("read %s: %w", c.path, err)
	}

	v := c.newEmpty()
	if len(f.Content) > 0 {
		if err := json.Unmarshal(f.Content, &v); err != nil {
			return zero, "", fmt.Errorf("decode %s: %w", c.path, err)
		}
	}
	return v, f.SHA, nil
}

// Mutate applies fn to a private copy of the current value and persists the
// result. An error from fn aborts the mutation without writing. Version
// conflicts re-read the remote file and re-apply fn, up to RetryAttempts
// puts in total. On any other failure the cache keeps its previous value.
func (c *Collection[V]) Mutate(ctx context.Context, message string, fn func(V) (V, error)) MutationResult[V] {
	var res MutationResult[V]
	if err := c.lock.Acquire(ctx, 1); err != nil {
		res.Err = err
		return res
	}
	defer c.lock.Release(1)

	attempt := 0
	err := retry.Retry(ctx, func() error {
		if attempt > 0 {
			c.log.Warn().Int("attempt", attempt+1).Str("message", message).Msg("Version conflict, retrying with fresh data")
			c.Invalidate()
		}
		attempt++

		current, sha, err := c.snapshot(ctx)
		if err != nil {
			return err
		}
		next, err := c.clone(current)
		if err != nil {
			return err
		}
		next, err = fn(next)
		if err != nil {
			return &abortError{err: err}
		}
		res.Value = next

		data, err := encodeJSON(next)
		if err != nil {
			return &abortError{err: err}
		}
		newSHA, err := c.backend.Put(ctx, c.path, data, message, sha)
		if err != nil {
			return err
		}

		c.mu.Lock()
		c.value, c.sha, c.loaded = next, newSHA, true
		c.gen++
		c.mu.Unlock()
		return nil
	}, c.opts.retryOptions()...)
	if err != nil {
		var abort *abortError
		if errors.As(err, &abort) {
			res.Err = abort.err
			return res
		}
		c.log.Error().Err(err).Str("path", c.path).Str("message", message).Msg("Failed to persist collection")
		res.Err = err
		return res
	}

	res.Persisted = true
	return res
}

// Invalidate drops the cached value and version token
func (c *Collection[V]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	c.value, c.sha, c.loaded = zero, "", false
	c.gen++
	c.log.Debug().Msg("Cache invalidated")
}

// clone deep-copies v so transforms never touch the cached value
func (c *Collection[V]) clone(v V) (V, error) {
	out := c.newEmpty()
	data, err := json.Marshal(v)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, err
	}
	return out, nil
}

// abortError marks a failure that happened before anything was written
type abortError struct {
	err error
}

func (e *abortError) Error() string {
	return e.err.Error()
}

func (e *abortError) Unwrap() error {
	return e.err
}

// retryOptions retries version conflicts with exponential backoff
func (o CollectionOptions) retryOptions() []retry.Option {
	opts := []retry.Option{
		retry.WithMaxAttempts(o.RetryAttempts),
		retry.WithBaseDelay(o.RetryBaseDelay),
		retry.WithExp(2),
		retry.WithJitter(0.25),
		retry.WithRetryOn(isRetryable),
	}
	if o.RetryMaxDelay > 0 {
		opts = append(opts, retry.WithMaxBackoff(o.RetryMaxDelay))
	}
	return opts
}

func isRetryable(err error) bool {
	var abort *abortError
	return !errors.As(err, &abort) && gitstore.IsConflict(err)
}

func encodeJSON(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}
