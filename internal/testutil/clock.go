// Package testutil provides deterministic clocks and id generators for
// tests. Engine behavior depends on wall time (timestamps, invoice years,
// expiry sweeps); pinning it makes assertions exact and reusable.
package testutil

import (
	"fmt"
	"sync"
	"time"
)

// Clock is a deterministic wall clock. Every call to Now advances it by a
// fixed step, so successive timestamps are distinct but reproducible.
//
// Thread-safe via internal mutex, though most tests drive the engine from
// one goroutine.
type Clock struct {
	mu   sync.Mutex
	at   time.Time
	step time.Duration
}

// NewClock creates a clock starting at the given instant, advancing one
// second per Now call.
func NewClock(start time.Time) *Clock {
	return &Clock{at: start, step: time.Second}
}

// Now returns the current instant and advances the clock.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.at
	c.at = c.at.Add(c.step)
	return t
}

// Set repositions the clock. Used to simulate the passage of days in
// expiry tests.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.at = t
}

// IDSeq is a deterministic id generator: prefix-1, prefix-2, ...
type IDSeq struct {
	mu  sync.Mutex
	seq map[string]int
}

// NewIDSeq creates an empty id sequence.
func NewIDSeq() *IDSeq {
	return &IDSeq{seq: make(map[string]int)}
}

// Next returns the next id for a prefix.
func (g *IDSeq) Next(prefix string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq[prefix]++
	return fmt.Sprintf("%s-%d", prefix, g.seq[prefix])
}
