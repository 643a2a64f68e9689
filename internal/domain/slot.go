package domain

import "time"

// Slot represents a candidate start time in the availability grid
type Slot struct {
	Start     time.Time
	Available bool
}

// BlockedInterval represents a time range that cannot accept a new visit
type BlockedInterval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether the half-open interval [start, end) intersects i.
// Touching endpoints do not count as an overlap.
func (i BlockedInterval) Overlaps(start, end time.Time) bool {
	return start.Before(i.End) && end.After(i.Start)
}
