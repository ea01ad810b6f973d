package repository

import (
	"context"

	"github.com/bilingual-blog-api/internal/gitstore"
	"github.com/bilingual-blog-api/internal/models"
	"github.com/rs/zerolog"
)

type statsMap = map[string]models.ArticleStats

// statsRepo is the concrete implementation of StatsRepository
type statsRepo struct {
	stats *Collection[statsMap]
}

// NewStatsRepo creates a new stats repository
func NewStatsRepo(backend gitstore.Backend, path string, opts CollectionOptions, log zerolog.Logger) StatsRepository {
	return &statsRepo{
		stats: NewCollection(backend, path, func() statsMap { return statsMap{} }, opts, log),
	}
}

// Get returns the counters of slug, zero when the article has none yet
func (r *statsRepo) Get(ctx context.Context, slug string) (models.ArticleStats, error) {
	all, err := r.stats.Read(ctx)
	if err != nil {
		return models.ArticleStats{}, err
	}
	return normalize(all[slug]), nil
}

// All returns the counters of every article. The map is shared and must not
// be modified.
func (r *statsRepo) All(ctx context.Context) (map[string]models.ArticleStats, error) {
	return r.stats.Read(ctx)
}

// IncrementViews adds one view to slug
func (r *statsRepo) IncrementViews(ctx context.Context, slug string) MutationResult[models.ArticleStats] {
	res := r.stats.Mutate(ctx, "Update article stats", func(all statsMap) (statsMap, error) {
		if all == nil {
			all = statsMap{}
		}
		s := normalize(all[slug])
		s.Views++
		all[slug] = s
		return all, nil
	})
	return mapResult(res, func(all statsMap) models.ArticleStats { return normalize(all[slug]) })
}

// ToggleLike adds userID to the likers of slug, or removes it when present
func (r *statsRepo) ToggleLike(ctx context.Context, slug, userID string) MutationResult[models.ArticleStats] {
	res := r.stats.Mutate(ctx, "Update article stats", func(all statsMap) (statsMap, error) {
		if all == nil {
			all = statsMap{}
		}
		s := normalize(all[slug])

		idx := -1
		for i, id := range s.LikedBy {
			if id == userID {
				idx = i
				break
			}
		}
		if idx >= 0 {
			s.LikedBy = append(s.LikedBy[:idx], s.LikedBy[idx+1:]...)
		} else {
			s.LikedBy = append(s.LikedBy, userID)
		}
		s.Likes = len(s.LikedBy)
		all[slug] = s
		return all, nil
	})
	return mapResult(res, func(all statsMap) models.ArticleStats { return normalize(all[slug]) })
}

// normalize fills a missing likers list. Files written before likes were
// tracked per user may lack it.
func normalize(s models.ArticleStats) models.ArticleStats {
	if s.LikedBy == nil {
		s.LikedBy = []string{}
	}
	return s
}
