// Package query derives the filtered, sorted, paginated view of the event
// collection for display. Every function is pure: callers pass a snapshot
// and get a new result, nothing is mutated or persisted, and identical
// inputs always yield identical output.
package query

import (
	"sort"
	"strings"
	"time"

	"eventbook/internal/domain"
)

// Default pagination bounds for list views.
const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Result is the page of rows to display plus the post-filter, pre-pagination
// total, so the host can compute page counts.
type Result struct {
	Rows  []*domain.Event
	Total int
}

// Events applies the filters conjunctively, sorts by the single active sort
// key, and slices out the requested page.
func Events(events []*domain.Event, f domain.Filters, page domain.PaginationParams) Result {
	filtered := make([]*domain.Event, 0, len(events))
	for _, e := range events {
		if matches(e, f) {
			filtered = append(filtered, e)
		}
	}

	if !f.Sort.IsZero() {
		sortEvents(filtered, f.Sort)
	}

	total := len(filtered)
	if page.PageSize <= 0 {
		page.PageSize = DefaultPageSize
	}
	start := page.Offset()
	if start > total {
		start = total
	}
	end := start + page.PageSize
	if end > total {
		end = total
	}
	return Result{Rows: filtered[start:end], Total: total}
}

func matches(e *domain.Event, f domain.Filters) bool {
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(e.Title), needle) &&
			!strings.Contains(strings.ToLower(e.Description), needle) {
			return false
		}
	}
	if f.EventType != "" && e.EventType != f.EventType {
		return false
	}
	if f.Category != "" && e.Category != f.Category {
		return false
	}

	// Date bounds are day-granular and inclusive: the event's span must
	// overlap [start of DateFrom's day, end of DateTo's day).
	if f.DateFrom != nil {
		from := domain.DayWindow(*f.DateFrom).Start
		if !e.End.After(from) {
			return false
		}
	}
	if f.DateTo != nil {
		to := domain.DayWindow(*f.DateTo).End
		if !e.Start.Before(to) {
			return false
		}
	}
	return true
}

// dateKeys are the sort keys compared by parsed instant rather than text.
var dateKeys = map[string]bool{
	"startDateTime": true,
	"endDateTime":   true,
}

func sortEvents(events []*domain.Event, spec domain.SortSpec) {
	desc := spec.Dir == domain.SortDesc
	if dateKeys[spec.Key] {
		sort.SliceStable(events, func(i, j int) bool {
			a, b := dateValue(events[i], spec.Key), dateValue(events[j], spec.Key)
			if desc {
				return b.Before(a)
			}
			return a.Before(b)
		})
		return
	}
	sort.SliceStable(events, func(i, j int) bool {
		a := strings.ToLower(textValue(events[i], spec.Key))
		b := strings.ToLower(textValue(events[j], spec.Key))
		if desc {
			return b < a
		}
		return a < b
	})
}

func dateValue(e *domain.Event, key string) time.Time {
	if key == "endDateTime" {
		return e.End
	}
	return e.Start
}

func textValue(e *domain.Event, key string) string {
	switch key {
	case "title":
		return e.Title
	case "description":
		return e.Description
	case "category":
		return string(e.Category)
	case "eventType":
		return string(e.EventType)
	case "location":
		return e.Location
	case "eventLink":
		return e.EventLink
	case "organizer":
		return e.Organizer.UserName
	default:
		return ""
	}
}

// PageMeta is the pagination metadata for a list view.
type PageMeta struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPageMeta builds PageMeta from the current page, page size, and total
// count. TotalPages is ceiling(total / pageSize); 0 when pageSize is 0.
func NewPageMeta(page, pageSize, total int) PageMeta {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	return PageMeta{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}
