package scheduler

import "eventbook/internal/domain"

// CheckConflict compares the candidate's time span against the existing
// collection and, on overlap, suggests the free slots remaining on the
// candidate's day. The comparison scope is the candidate's calendar day:
// only events starting on the same day are considered. An existing event
// with the candidate's ID is the candidate's own prior version and is
// excluded, so editing an event never conflicts with itself.
//
// This is a pure query; the caller decides how to surface the result and
// must abort the write on conflict.
func CheckConflict(candidate *domain.Event, existing []*domain.Event) domain.ConflictResult {
	sameDay := make([]*domain.Event, 0, len(existing))
	for _, e := range existing {
		if e.ID != "" && e.ID == candidate.ID {
			continue
		}
		if domain.SameDay(e.Start, candidate.Start) {
			sameDay = append(sameDay, e)
		}
	}

	conflict := false
	for _, e := range sameDay {
		if candidate.Range().Overlaps(e.Range()) {
			conflict = true
			break
		}
	}
	if !conflict {
		return domain.ConflictResult{}
	}

	// Suggestions cover the whole day, with the candidate's own requested
	// interval treated as busy so no suggested slot contains it.
	busy := make([]domain.TimeRange, 0, len(sameDay)+1)
	for _, e := range sameDay {
		busy = append(busy, e.Range())
	}
	busy = append(busy, candidate.Range())

	return domain.ConflictResult{
		Conflict:    true,
		Suggestions: FreeSlots(domain.DayWindow(candidate.Start), busy),
	}
}
