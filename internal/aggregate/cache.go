package aggregate

import "PortfolioDesk/internal/model"

// Cache memoizes aggregate views by filter key for one position set.
// It is not safe for concurrent use; the owner serializes access and must
// call Invalidate in the same critical section that replaces the set.
type Cache struct {
	views  map[string]*model.AggregateView
	hits   int
	misses int
}

func NewCache() *Cache {
	return &Cache{views: make(map[string]*model.AggregateView)}
}

// Get returns the memoized view for filter, computing it on first use.
func (c *Cache) Get(positions []model.Position, filter string) *model.AggregateView {
	if v, ok := c.views[filter]; ok {
		c.hits++
		return v
	}
	c.misses++
	v := Aggregate(positions, filter)
	c.views[filter] = v
	return v
}

// Invalidate drops every memoized view.
func (c *Cache) Invalidate() {
	clear(c.views)
}

// Stats returns the hit and miss counts since creation.
func (c *Cache) Stats() (hits, misses int) {
	return c.hits, c.misses
}

// Len is the number of memoized views.
func (c *Cache) Len() int { return len(c.views) }
