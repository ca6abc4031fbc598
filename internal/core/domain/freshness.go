package domain

import "time"

// Freshness windows. A stored record younger than its window is returned
// as-is instead of redoing the expensive upstream operation.
const (
	// ProductTTL is how long a scraped product stays fresh.
	ProductTTL = 24 * time.Hour

	// OptimizationTTL is how long a generated optimization stays fresh.
	// Regenerating inside this window would duplicate billed calls.
	OptimizationTTL = time.Hour
)

// Fresh reports whether a record last touched at t is still inside ttl as of now.
// It performs no I/O; the caller supplies both timestamps.
func Fresh(t time.Time, ttl time.Duration, now time.Time) bool {
	if t.IsZero() {
		return false
	}

	return now.Sub(t) < ttl
}
