package staging

import (
	"time"

	"burnish/internal/catalog"
)

// StagedResult is one reviewable proposed change. Both snapshots are stored
// in full so the review surface can render a before/after diff and publish
// can revert individual fields to the original.
type StagedResult struct {
	Tenant    string
	ItemID    string
	Original  catalog.Snapshot
	Proposed  catalog.Snapshot
	CreatedAt time.Time
}

// Age returns how long the entry has been staged.
func (r StagedResult) Age(now time.Time) time.Duration {
	return now.Sub(r.CreatedAt)
}

// Expired reports whether the entry is older than maxAge.
func (r StagedResult) Expired(now time.Time, maxAge time.Duration) bool {
	if maxAge <= 0 {
		return false
	}
	return r.Age(now) > maxAge
}
