package calendar

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	defaultRetries  = 3
	defaultCacheTTL = 24 * time.Hour
)

// Resolver pre-resolves holidays from a Source into an immutable Table,
// so that the work-day engine never performs I/O
type Resolver struct {
	source   Source
	retries  int
	backoff  time.Duration
	cacheTTL time.Duration
	logger   *zap.Logger
	cache    map[string]*cachedYear
	cacheMu  sync.RWMutex
	now      func() time.Time
}

type cachedYear struct {
	holidays  []Holiday
	fetchedAt time.Time
}

// NewResolver creates a resolver with retries and a TTL cache
func NewResolver(source Source, retries int, cacheTTL time.Duration, logger *zap.Logger) *Resolver {
	if retries <= 0 {
		retries = defaultRetries
	}
	if cacheTTL == 0 {
		cacheTTL = defaultCacheTTL
	}
	return &Resolver{
		source:   source,
		retries:  retries,
		backoff:  time.Second,
		cacheTTL: cacheTTL,
		logger:   logger,
		cache:    make(map[string]*cachedYear),
		now:      time.Now,
	}
}

// Resolve fetches every requested year concurrently and merges them into a Table
func (r *Resolver) Resolve(ctx context.Context, jurisdiction string, years ...int) (*Table, error) {
	j := NormalizeJurisdiction(jurisdiction)
	years = uniqueYears(years)

	results := make([][]Holiday, len(years))
	g, gctx := errgroup.WithContext(ctx)
	for i, year := range years {
		i, year := i, year
		g.Go(func() error {
			holidays, err := r.year(gctx, j, year)
			if err != nil {
				return fmt.Errorf("failed to resolve %s %d: %w", j, year, err)
			}
			results[i] = holidays
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []Holiday
	for _, holidays := range results {
		all = append(all, holidays...)
	}

	r.logger.Info("Holidays resolved",
		zap.String("jurisdiction", j),
		zap.Ints("years", years),
		zap.Int("holidays", len(all)))

	return NewTable(all...), nil
}

func (r *Resolver) year(ctx context.Context, jurisdiction string, year int) ([]Holiday, error) {
	key := fmt.Sprintf("%s-%d", jurisdiction, year)

	r.cacheMu.RLock()
	if cached, ok := r.cache[key]; ok {
		if r.now().Sub(cached.fetchedAt) < r.cacheTTL {
			r.cacheMu.RUnlock()
			r.logger.Debug("Using cached holidays", zap.String("key", key))
			return cached.holidays, nil
		}
	}
	r.cacheMu.RUnlock()

	holidays, err := r.fetchWithRetry(ctx, jurisdiction, year)
	if err != nil {
		return nil, err
	}

	r.cacheMu.Lock()
	r.cache[key] = &cachedYear{
		holidays:  holidays,
		fetchedAt: r.now(),
	}
	r.cacheMu.Unlock()

	return holidays, nil
}

func (r *Resolver) fetchWithRetry(ctx context.Context, jurisdiction string, year int) ([]Holiday, error) {
	var lastErr error
	for attempt := 1; attempt <= r.retries; attempt++ {
		holidays, err := r.source.FetchYear(ctx, jurisdiction, year)
		if err == nil {
			return holidays, nil
		}

		lastErr = err
		r.logger.Warn("Holiday fetch failed, retrying",
			zap.Int("attempt", attempt),
			zap.Int("max_retries", r.retries),
			zap.Error(err))

		if attempt < r.retries {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(r.backoff * time.Duration(attempt)):
			}
		}
	}

	return nil, fmt.Errorf("fetch failed after %d attempts: %w", r.retries, lastErr)
}

func uniqueYears(years []int) []int {
	seen := make(map[int]bool, len(years))
	var out []int
	for _, y := range years {
		if !seen[y] {
			seen[y] = true
			out = append(out, y)
		}
	}
	sort.Ints(out)
	return out
}
