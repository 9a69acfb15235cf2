// Package idgen issues strictly increasing integer ids derived from the
// wall clock (milliseconds since the Unix epoch).
package idgen

import (
	"sync"
	"time"
)

// Generator hands out ids that never repeat within a process, even when
// called several times in the same millisecond or when the clock steps back.
type Generator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func New() *Generator {
	return &Generator{now: time.Now}
}

// NewWithClock is New with an injected clock, for tests.
func NewWithClock(now func() time.Time) *Generator {
	return &Generator{now: now}
}

// Next returns max(now in ms, previous+1).
func (g *Generator) Next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}

// Observe makes sure future ids are greater than id. Used after loading
// persisted data that may contain ids from a clock ahead of ours.
func (g *Generator) Observe(id int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if id > g.last {
		g.last = id
	}
}
