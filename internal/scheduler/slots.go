// Package scheduler computes free time slots and detects conflicts between
// a candidate event and the existing collection.
package scheduler

import (
	"sort"

	"eventbook/internal/domain"
)

// FreeSlots returns the free intervals inside window left by the busy
// intervals. Busy intervals are clipped to the window; overlapping busy
// intervals merge implicitly during the sweep. With no busy intervals the
// whole window is one slot; a fully covered window yields none.
func FreeSlots(window domain.TimeRange, busy []domain.TimeRange) []domain.Slot {
	clipped := make([]domain.TimeRange, 0, len(busy))
	for _, b := range busy {
		if c := b.Clip(window); !c.IsZero() {
			clipped = append(clipped, c)
		}
	}
	sort.Slice(clipped, func(i, j int) bool {
		return clipped[i].Start.Before(clipped[j].Start)
	})

	slots := make([]domain.Slot, 0, len(clipped)+1)
	cursor := window.Start
	for _, b := range clipped {
		if b.Start.After(cursor) {
			slots = append(slots, domain.NewSlot(domain.TimeRange{Start: cursor, End: b.Start}))
		}
		if b.End.After(cursor) {
			cursor = b.End
		}
	}
	if cursor.Before(window.End) {
		slots = append(slots, domain.NewSlot(domain.TimeRange{Start: cursor, End: window.End}))
	}
	return slots
}

// FreeSlotsByDay runs the single-day sweep independently for every calendar
// day the window touches, considering only busy intervals that intersect
// that day, and tags each slot with its date.
func FreeSlotsByDay(window domain.TimeRange, busy []domain.TimeRange) []domain.Slot {
	var slots []domain.Slot
	for day := domain.DayWindow(window.Start); day.Start.Before(window.End); day = domain.DayWindow(day.End) {
		dayWindow := day.Clip(window)
		if dayWindow.IsZero() {
			continue
		}
		var dayBusy []domain.TimeRange
		for _, b := range busy {
			if b.Overlaps(day) {
				dayBusy = append(dayBusy, b)
			}
		}
		for _, s := range FreeSlots(dayWindow, dayBusy) {
			slots = append(slots, s.WithDate(day))
		}
	}
	return slots
}
