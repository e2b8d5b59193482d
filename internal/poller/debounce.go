// Package poller holds the client-side refresh and delivery state shared by
// the dashboard.
package poller

import (
	"sync"
	"time"
)

// Debouncer refuses refetches closer together than a minimum interval.
type Debouncer struct {
	min time.Duration
	now func() time.Time

	mu   sync.Mutex
	last time.Time
}

// NewDebouncer builds a Debouncer. A nil now uses time.Now.
func NewDebouncer(min time.Duration, now func() time.Time) *Debouncer {
	if now == nil {
		now = time.Now
	}
	return &Debouncer{min: min, now: now}
}

// Allow reports whether a fetch may start now and, if so, records it.
func (d *Debouncer) Allow() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	if !d.last.IsZero() && now.Sub(d.last) < d.min {
		return false
	}
	d.last = now
	return true
}
