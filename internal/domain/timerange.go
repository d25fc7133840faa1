package domain

import "time"

// TimeRange is a half-open interval [Start, End). An event ending exactly
// when another begins does not overlap it.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether r and other share any instant.
func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

// Clip truncates r to the bounds of window. The zero TimeRange is returned
// when r lies entirely outside the window.
func (r TimeRange) Clip(window TimeRange) TimeRange {
	start, end := r.Start, r.End
	if start.Before(window.Start) {
		start = window.Start
	}
	if end.After(window.End) {
		end = window.End
	}
	if !start.Before(end) {
		return TimeRange{}
	}
	return TimeRange{Start: start, End: end}
}

// IsZero reports whether r is the empty range.
func (r TimeRange) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// Duration returns the length of the range.
func (r TimeRange) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// DayWindow returns the half-open calendar day containing t, in t's location.
func DayWindow(t time.Time) TimeRange {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return TimeRange{Start: start, End: start.AddDate(0, 0, 1)}
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
