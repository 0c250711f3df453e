package learner

import (
	"sync"

	"github.com/cailot/cool-runnings/internal/model"
)

// Cache memoizes the bootstrap result for the life of the process. The
// computation is expensive, so concurrent first callers must not trigger it
// twice; after initialization the vector is shared immutably.
type Cache struct {
	mu sync.Mutex
	w  *model.WeightVector
}

// GetOrCompute returns the cached vector, running compute at most once.
func (c *Cache) GetOrCompute(compute func() model.WeightVector) model.WeightVector {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.w == nil {
		w := compute()
		c.w = &w
	}
	return *c.w
}

// Invalidate clears the cached vector so the next GetOrCompute recomputes.
// Used after new draws arrive.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.w = nil
	c.mu.Unlock()
}
