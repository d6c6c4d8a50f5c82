package db

import (
	"sync"

	"github.com/golang/groupcache/lru"
	"github.com/nickyhof/MyDB/sql"
)

// DefaultStatementCacheSize is the number of prepared statements an engine
// keeps by default.
const DefaultStatementCacheSize = 128

// statementCache keeps recently prepared statements keyed by their SQL text.
// lru.Cache is not safe for concurrent use, so access goes through mu.
type statementCache struct {
	mu    sync.Mutex
	cache *lru.Cache
}

// newStatementCache returns nil when size is not positive; a nil cache
// stores nothing.
func newStatementCache(size int) *statementCache {
	if size <= 0 {
		return nil
	}
	return &statementCache{cache: lru.New(size)}
}

func (c *statementCache) get(query string) (sql.Prepared, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	value, ok := c.cache.Get(query)
	if !ok {
		return nil, false
	}
	return value.(sql.Prepared), true
}

func (c *statementCache) add(query string, prepared sql.Prepared) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Add(query, prepared)
}

func (c *statementCache) len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cache.Len()
}
