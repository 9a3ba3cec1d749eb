package commentapi

import (
	"fmt"

	"github.com/gregjones/httpcache"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheEntries bounds how many thread listings a Client keeps for
// ETag revalidation.
const DefaultCacheEntries = 512

var _ httpcache.Cache = (*Cache)(nil)

// Cache is an httpcache.Cache holding at most a fixed number of responses.
// The least recently used response is evicted first.
type Cache struct {
	entries *lru.Cache[string, []byte]
}

// NewCache returns a Cache that keeps up to size responses.
func NewCache(size int) (*Cache, error) {
	entries, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, fmt.Errorf("creating response cache of size %d: %w", size, err)
	}
	return &Cache{entries: entries}, nil
}

// Get returns the cached response bytes for key.
func (c *Cache) Get(key string) ([]byte, bool) {
	return c.entries.Get(key)
}

// Set stores response bytes under key, evicting the oldest entry when full.
func (c *Cache) Set(key string, responseBytes []byte) {
	c.entries.Add(key, responseBytes)
}

// Delete drops key from the cache.
func (c *Cache) Delete(key string) {
	c.entries.Remove(key)
}

// Len reports how many responses are cached.
func (c *Cache) Len() int {
	return c.entries.Len()
}
