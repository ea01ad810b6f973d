package repository

import (
	"context"

	"github.com/bilingual-blog-api/internal/gitstore"
	"github.com/bilingual-blog-api/internal/models"
	"github.com/rs/zerolog"
)

type readingLists = map[string][]string

// readingListRepo is the concrete implementation of ReadingListRepository
type readingListRepo struct {
	lists *Collection[readingLists]
}

// NewReadingListRepo creates a new reading list repository
func NewReadingListRepo(backend gitstore.Backend, path string, opts CollectionOptions, log zerolog.Logger) ReadingListRepository {
	return &readingListRepo{
		lists: NewCollection(backend, path, func() readingLists { return readingLists{} }, opts, log),
	}
}

// Get returns the saved slugs of userID, most recently saved first
func (r *readingListRepo) Get(ctx context.Context, userID string) ([]string, error) {
	all, err := r.lists.Read(ctx)
	if err != nil {
		return nil, err
	}
	return append([]string{}, all[userID]...), nil
}

// Toggle saves slug at the front of the list, or removes it when present
func (r *readingListRepo) Toggle(ctx context.Context, userID, slug string) MutationResult[models.ReadingListToggle] {
	saved := false
	res := r.lists.Mutate(ctx, "Update reading list", func(all readingLists) (readingLists, error) {
		if all == nil {
			all = readingLists{}
		}
		list := all[userID]

		next := make([]string, 0, len(list)+1)
		found := false
		for _, s := range list {
			if s == slug {
				found = true
				continue
			}
			next = append(next, s)
		}
		if !found {
			next = append([]string{slug}, next...)
		}
		saved = !found
		all[userID] = next
		return all, nil
	})
	return mapResult(res, func(all readingLists) models.ReadingListToggle {
		return models.ReadingListToggle{Saved: saved, List: append([]string{}, all[userID]...)}
	})
}
