// internal/tutorial/cached.go
//
// Read-through LRU in front of Store.Get.
//
// Context
// -------
// By-id lookups dominate traffic from the detail view, so CachedStore keeps
// recently read records in an LRU.  Every other query goes straight to the
// wrapped Store.  Concurrent misses for one id collapse into a single store
// call through singleflight.
//
// Consistency
// -----------
// A generation counter is bumped by every mutation.  A miss only populates
// the cache when the generation it started with is still current, so a slow
// read that raced an Update or Delete never reinstates a stale record.
// In-flight reads are keyed by id and generation, so a Get that starts after
// a mutation returned never joins a read that began before it.
package tutorial

import (
	"context"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/yanizio/tutorials/internal/cache"
	"github.com/yanizio/tutorials/internal/metrics"
)

// CachedStore decorates a Store with an id-keyed LRU.
type CachedStore struct {
	next Store
	lru  *cache.LRU[int64, Tutorial]
	sfg  singleflight.Group

	mu  sync.Mutex
	gen uint64
}

// NewCachedStore wraps next with an LRU of the given size (must be >= 1).
func NewCachedStore(next Store, size int) *CachedStore {
	return &CachedStore{next: next, lru: cache.New[int64, Tutorial](size)}
}

type lookup struct {
	t     Tutorial
	found bool
}

// Get serves id from the LRU or reads it through.  The shared read ignores
// the first caller's cancellation; each caller stops waiting on its own ctx.
func (c *CachedStore) Get(ctx context.Context, id int64) (Tutorial, bool, error) {
	if t, ok := c.lru.Get(id); ok {
		metrics.CacheHitsTotal.Inc()
		return t.Copy(), true, nil
	}
	metrics.CacheMissesTotal.Inc()

	gen := c.generation()
	key := strconv.FormatInt(id, 10) + ":" + strconv.FormatUint(gen, 10)
	ch := c.sfg.DoChan(key, func() (any, error) {
		t, found, err := c.next.Get(context.WithoutCancel(ctx), id)
		if err != nil {
			return nil, err
		}
		if found {
			c.mu.Lock()
			if c.gen == gen {
				c.lru.Add(id, t.Copy())
			}
			c.mu.Unlock()
		}
		return lookup{t: t, found: found}, nil
	})

	select {
	case <-ctx.Done():
		return Tutorial{}, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Tutorial{}, false, res.Err
		}
		l := res.Val.(lookup)
		return l.t.Copy(), l.found, nil
	}
}

func (c *CachedStore) Insert(ctx context.Context, t Tutorial) (Tutorial, error) {
	return c.next.Insert(ctx, t)
}

func (c *CachedStore) All(ctx context.Context) ([]Tutorial, error) {
	return c.next.All(ctx)
}

func (c *CachedStore) FindByTitleContaining(ctx context.Context, term string) ([]Tutorial, error) {
	return c.next.FindByTitleContaining(ctx, term)
}

func (c *CachedStore) FindByPublished(ctx context.Context, published bool) ([]Tutorial, error) {
	return c.next.FindByPublished(ctx, published)
}

func (c *CachedStore) Update(ctx context.Context, id int64, fn Mutator) (Tutorial, bool, error) {
	defer c.invalidate(id)
	return c.next.Update(ctx, id, fn)
}

func (c *CachedStore) Delete(ctx context.Context, id int64) (bool, error) {
	defer c.invalidate(id)
	return c.next.Delete(ctx, id)
}

func (c *CachedStore) DeleteAll(ctx context.Context) error {
	defer func() {
		c.mu.Lock()
		c.gen++
		c.lru.Purge()
		c.mu.Unlock()
	}()
	return c.next.DeleteAll(ctx)
}

func (c *CachedStore) generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

func (c *CachedStore) invalidate(id int64) {
	c.mu.Lock()
	c.gen++
	c.lru.Remove(id)
	c.mu.Unlock()
}
