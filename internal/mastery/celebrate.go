package mastery

import "sync"

// Celebrations remembers which terms already triggered the "mastered"
// signal during this process.
type Celebrations struct {
	mu    sync.Mutex
	fired map[string]bool
}

// NewCelebrations returns an empty tracker.
func NewCelebrations() *Celebrations {
	return &Celebrations{fired: make(map[string]bool)}
}

// Fire returns true the first time it is called for term.
func (c *Celebrations) Fire(term string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fired[term] {
		return false
	}
	c.fired[term] = true
	return true
}
