// Package seq provides shared monotonic id counters. A run seeds one counter
// per id space from the highest id already persisted, then every worker draws
// from the same counter, so ids stay unique without re-reading storage.
package seq

import "sync/atomic"

// Counter hands out int64 ids, starting at seed+1.
type Counter struct {
	last atomic.Int64
}

// New returns a counter whose first Next is seed+1.
func New(seed int64) *Counter {
	c := &Counter{}
	c.last.Store(seed)
	return c
}

// Next returns the next id. Safe for concurrent use.
func (c *Counter) Next() int64 {
	return c.last.Add(1)
}
