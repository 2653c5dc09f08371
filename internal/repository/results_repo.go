// Package repository reads draw results through the in-process cache.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dailymillions/internal/cache"
	"dailymillions/internal/models"

	"github.com/google/logger"
	"golang.org/x/sync/singleflight"
)

// Cache keys. Per-date keys are built with ResultsByDateKey.
const (
	KeyLatest     = "latest_results"
	KeyAll        = "all_results"
	DateKeyPrefix = "results_by_date_"
)

const (
	// DefaultLatestTTL applies to the latest and all-results keys.
	DefaultLatestTTL = 10 * time.Minute
	// DefaultQueryTimeout bounds a single data-source query.
	DefaultQueryTimeout = 10 * time.Second
)

// ErrDataSourceUnavailable wraps every failed data-source query. It is logged
// and never returned past the repository.
var ErrDataSourceUnavailable = errors.New("data source unavailable")

// ResultsCache is the cache shape shared by the repository and the admin routes.
type ResultsCache = cache.Store[[]models.DrawRecord]

// NewResultsCache creates the process-wide results cache.
func NewResultsCache(opts cache.Options) *ResultsCache {
	return cache.New[[]models.DrawRecord](opts)
}

// ResultsByDateKey returns the cache key for one civil date.
func ResultsByDateKey(date string) string {
	return DateKeyPrefix + date
}

// DrawSource is the read side of the results collection.
type DrawSource interface {
	// FindByDatePrefix returns records whose primary draw date string starts with prefix.
	FindByDatePrefix(ctx context.Context, prefix string) ([]models.DrawRecord, error)
	// FindAllSorted returns every record, newest draw first.
	FindAllSorted(ctx context.Context) ([]models.DrawRecord, error)
}

// Options tune a ResultsRepository. Zero values fall back to the defaults.
type Options struct {
	LatestTTL    time.Duration
	DefaultTTL   time.Duration
	QueryTimeout time.Duration
}

// ResultsRepository is a cache-aside accessor over a DrawSource.
// Returned slices are shared with the cache and must be treated as read-only.
type ResultsRepository struct {
	source DrawSource
	cache  *ResultsCache
	group  singleflight.Group

	latestTTL    time.Duration
	defaultTTL   time.Duration
	queryTimeout time.Duration
}

// NewResultsRepository creates a repository over source, caching into c.
func NewResultsRepository(source DrawSource, c *ResultsCache, opts Options) *ResultsRepository {
	r := &ResultsRepository{
		source:       source,
		cache:        c,
		latestTTL:    opts.LatestTTL,
		defaultTTL:   opts.DefaultTTL,
		queryTimeout: opts.QueryTimeout,
	}
	if r.latestTTL <= 0 {
		r.latestTTL = DefaultLatestTTL
	}
	if r.queryTimeout <= 0 {
		r.queryTimeout = DefaultQueryTimeout
	}
	return r
}

// LatestResults returns every record, newest first, cached under KeyLatest.
func (r *ResultsRepository) LatestResults(ctx context.Context) []models.DrawRecord {
	return r.fetch(ctx, KeyLatest, r.latestTTL, r.source.FindAllSorted)
}

// AllResults returns every record, newest first, cached under KeyAll.
// It backs the raw results API and is invalidated separately from KeyLatest.
func (r *ResultsRepository) AllResults(ctx context.Context) []models.DrawRecord {
	return r.fetch(ctx, KeyAll, r.latestTTL, r.source.FindAllSorted)
}

// ResultsByDate returns the records drawn on date (YYYY-MM-DD). No match
// yields an empty slice, which is cached like any other result.
func (r *ResultsRepository) ResultsByDate(ctx context.Context, date string) []models.DrawRecord {
	return r.fetch(ctx, ResultsByDateKey(date), r.defaultTTL, func(ctx context.Context) ([]models.DrawRecord, error) {
		return r.source.FindByDatePrefix(ctx, date)
	})
}

// fetch serves key from the cache or runs query once for all concurrent
// callers. The query runs detached from the caller's cancellation, so a
// caller that gives up does not stop the cache from being populated.
// Failures are logged and degrade to an empty result; nothing is cached.
func (r *ResultsRepository) fetch(ctx context.Context, key string, ttl time.Duration,
	query func(context.Context) ([]models.DrawRecord, error)) []models.DrawRecord {

	if records, ok := r.cache.Get(key); ok {
		logger.Infof("Cache hit for %s", key)
		return records
	}
	logger.Infof("Cache miss for %s, fetching from data source", key)

	ch := r.group.DoChan(key, func() (interface{}, error) {
		// Another flight may have filled the key since our miss.
		if records, ok := r.cache.Peek(key); ok {
			return records, nil
		}

		qctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.queryTimeout)
		defer cancel()

		records, err := query(qctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrDataSourceUnavailable, key, err)
		}
		if records == nil {
			records = []models.DrawRecord{}
		}
		r.cache.Set(key, records, ttl)
		return records, nil
	})

	select {
	case <-ctx.Done():
		logger.Warningf("Gave up waiting for %s: %v", key, ctx.Err())
		return []models.DrawRecord{}
	case res := <-ch:
		if res.Err != nil {
			logger.Errorf("Error fetching %s: %v", key, res.Err)
			return []models.DrawRecord{}
		}
		return res.Val.([]models.DrawRecord)
	}
}
