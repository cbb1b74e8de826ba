package scans

import (
	"slices"
	"sync"
	"time"

	"github.com/dtroode/scanportal-client/internal/model"
)

type cacheKey struct {
	version uint64
	minute  int64
}

// Aggregator memoizes Aggregate per collection version and minute.
type Aggregator struct {
	mu     sync.Mutex
	key    cacheKey
	view   model.AggregateView
	valid  bool
	builds int
}

// NewAggregator creates an empty memo.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// View returns the aggregate of c as of now, rebuilding it only when the
// collection version or the minute of now changed.
func (a *Aggregator) View(c model.ScanCollection, now time.Time) model.AggregateView {
	key := cacheKey{version: c.Version, minute: now.Truncate(time.Minute).Unix()}

	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.valid || a.key != key {
		a.view = Aggregate(c.Records, now)
		a.key = key
		a.valid = true
		a.builds++
	}

	out := a.view
	out.RecentFive = slices.Clone(a.view.RecentFive)
	return out
}

// Reset drops the memoized view.
func (a *Aggregator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.valid = false
	a.view = model.AggregateView{}
}
