package domain

import "fmt"

// Time and date layouts used when rendering slots for the user,
// matching the 12-hour clock the UI displays.
const (
	ClockLayout = "03:04 PM"
	DateLayout  = "2006-01-02"
)

// Slot is a contiguous free interval within a window, bounded by adjacent
// busy intervals or the window edges. Date is set by the multi-day finder.
type Slot struct {
	Date  string    `json:"date,omitempty"`
	Range TimeRange `json:"-"`
	From  string    `json:"from"`
	To    string    `json:"to"`
}

// NewSlot builds a Slot for the given free range, rendering the clock times.
func NewSlot(r TimeRange) Slot {
	return Slot{
		Range: r,
		From:  r.Start.Format(ClockLayout),
		To:    r.End.Format(ClockLayout),
	}
}

// WithDate returns a copy of s tagged with the calendar day it belongs to.
func (s Slot) WithDate(day TimeRange) Slot {
	s.Date = day.Start.Format(DateLayout)
	return s
}

func (s Slot) String() string {
	if s.Date != "" {
		return fmt.Sprintf("%s %s - %s", s.Date, s.From, s.To)
	}
	return fmt.Sprintf("%s - %s", s.From, s.To)
}
