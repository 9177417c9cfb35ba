package tour

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	DefaultCacheTTL      = 5 * time.Minute
	DefaultMaxStaleness  = time.Hour
	defaultFetchTimeout  = 10 * time.Second
	singleflightCacheKey = "tours"
)

// Cache is a read-through copy of a Source for display paths. Concurrent
// misses share one fetch. When a refresh fails, data up to maxStale past
// its TTL is still served.
type Cache struct {
	source       Source
	ttl          time.Duration
	maxStale     time.Duration
	fetchTimeout time.Duration
	now          func() time.Time

	group singleflight.Group

	mu        sync.RWMutex
	tours     []Tour
	fetchedAt time.Time
}

var _ Source = (*Cache)(nil)

func NewCache(source Source, ttl, maxStale time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if maxStale < 0 {
		maxStale = 0
	}
	return &Cache{
		source:       source,
		ttl:          ttl,
		maxStale:     maxStale,
		fetchTimeout: defaultFetchTimeout,
		now:          time.Now,
	}
}

func (c *Cache) ListTours(ctx context.Context) ([]Tour, error) {
	tours, age, ok := c.snapshot()
	if ok && age < c.ttl {
		return tours, nil
	}

	ch := c.group.DoChan(singleflightCacheKey, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.fetchTimeout)
		defer cancel()
		return c.refresh(fetchCtx)
	})

	select {
	case res := <-ch:
		if res.Err == nil {
			return slices.Clone(res.Val.([]Tour)), nil
		}
		if ok && age < c.ttl+c.maxStale {
			slog.WarnContext(ctx, "Tour catalog refresh failed, serving stale copy",
				"age", age.String(), "error", res.Err)
			return tours, nil
		}
		return nil, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Cache) GetTour(ctx context.Context, id string) (Tour, error) {
	tours, err := c.ListTours(ctx)
	if err != nil {
		return Tour{}, err
	}
	for _, t := range tours {
		if t.ID == id {
			return t, nil
		}
	}
	return Tour{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Invalidate forces the next call to refetch.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetchedAt = time.Time{}
}

func (c *Cache) snapshot() ([]Tour, time.Duration, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.tours == nil {
		return nil, 0, false
	}
	if c.fetchedAt.IsZero() {
		return slices.Clone(c.tours), c.ttl, true
	}
	return slices.Clone(c.tours), c.now().Sub(c.fetchedAt), true
}

func (c *Cache) refresh(ctx context.Context) ([]Tour, error) {
	tours, err := c.source.ListTours(ctx)
	if err != nil {
		return nil, fmt.Errorf("refresh tour catalog: %w", err)
	}
	if tours == nil {
		tours = []Tour{}
	}

	c.mu.Lock()
	c.tours = tours
	c.fetchedAt = c.now()
	c.mu.Unlock()

	return tours, nil
}
