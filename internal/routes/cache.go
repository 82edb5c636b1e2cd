package routes

import (
	"sync"
	"time"

	"github.com/ukydev/eco-routes/internal/models"
)

// DefaultSearchTTL is how long a search stays startable.
const DefaultSearchTTL = 30 * time.Minute

type cachedSearch struct {
	options []models.RouteOption
	at      time.Time
}

// SearchCache remembers each user's most recent search so a selected
// option can be started by id. A new search replaces the previous one;
// searches older than the TTL are dropped.
type SearchCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	results map[string]cachedSearch
}

// NewSearchCache creates an empty cache with DefaultSearchTTL.
func NewSearchCache() *SearchCache {
	return NewSearchCacheWithTTL(DefaultSearchTTL)
}

// NewSearchCacheWithTTL creates an empty cache whose entries expire after ttl.
func NewSearchCacheWithTTL(ttl time.Duration) *SearchCache {
	return &SearchCache{ttl: ttl, now: time.Now, results: make(map[string]cachedSearch)}
}

// Put stores the options of the user's latest search and evicts expired
// searches of other users.
func (c *SearchCache) Put(userID string, options []models.RouteOption) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for id, s := range c.results {
		if now.Sub(s.at) > c.ttl {
			delete(c.results, id)
		}
	}
	c.results[userID] = cachedSearch{options: options, at: now}
}

// Option looks up an option from the user's latest search.
func (c *SearchCache) Option(userID, routeID string) (models.RouteOption, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.results[userID]
	if !ok || c.now().Sub(s.at) > c.ttl {
		return models.RouteOption{}, false
	}
	for _, opt := range s.options {
		if opt.ID == routeID {
			return opt, true
		}
	}
	return models.RouteOption{}, false
}

// Forget drops the user's cached search.
func (c *SearchCache) Forget(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.results, userID)
}

// Len reports the number of cached searches.
func (c *SearchCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.results)
}
