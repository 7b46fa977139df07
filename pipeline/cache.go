package pipeline

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache stores compiled pipelines by spec key. Implementations must be safe
// for concurrent use; a race on first compilation of a spec may duplicate
// work but the resulting pipelines are interchangeable, so no external
// locking is required around the compute-and-insert step.
type Cache interface {
	// Get retrieves a pipeline by key.
	Get(key string) (*Pipeline, bool)
	// Add stores a pipeline under key.
	Add(key string, p *Pipeline)
}

// unboundedCache never evicts. The practical spec space is small, so
// unbounded growth is intentional; swap in NewLRUCache when that assumption
// does not hold.
type unboundedCache struct {
	m sync.Map
}

// Compile-time check that unboundedCache implements Cache.
var _ Cache = (*unboundedCache)(nil)

// NewUnboundedCache creates the default, never-evicting pipeline cache.
func NewUnboundedCache() Cache {
	return &unboundedCache{}
}

func (c *unboundedCache) Get(key string) (*Pipeline, bool) {
	v, ok := c.m.Load(key)
	if !ok {
		return nil, false
	}
	return v.(*Pipeline), true
}

func (c *unboundedCache) Add(key string, p *Pipeline) {
	c.m.Store(key, p)
}

// lruCache bounds the number of cached pipelines with LRU eviction.
type lruCache struct {
	cache *lru.Cache[string, *Pipeline]
}

// Compile-time check that lruCache implements Cache.
var _ Cache = (*lruCache)(nil)

// NewLRUCache creates a bounded pipeline cache with the given capacity.
func NewLRUCache(capacity int) (Cache, error) {
	c, err := lru.New[string, *Pipeline](capacity)
	if err != nil {
		return nil, err
	}
	return &lruCache{cache: c}, nil
}

func (c *lruCache) Get(key string) (*Pipeline, bool) {
	return c.cache.Get(key)
}

func (c *lruCache) Add(key string, p *Pipeline) {
	c.cache.Add(key, p)
}
