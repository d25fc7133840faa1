package domain

import (
	"fmt"
	"net/url"
	"time"
)

// SortDir is the direction of an active sort.
type SortDir string

const (
	SortDesc SortDir = "desc"
	SortAsc  SortDir = "asc"
)

// SortSpec names the single active sort column and direction.
// The zero value means unsorted.
type SortSpec struct {
	Key string
	Dir SortDir
}

// IsZero reports whether no sort is active.
func (s SortSpec) IsZero() bool {
	return s.Key == ""
}

// NextSort cycles the sort state for a click on key: a new column starts
// descending, a second click on the same column flips to ascending, and a
// third clears the sort.
func NextSort(current SortSpec, key string) SortSpec {
	if current.Key != key {
		return SortSpec{Key: key, Dir: SortDesc}
	}
	if current.Dir == SortDesc {
		return SortSpec{Key: key, Dir: SortAsc}
	}
	return SortSpec{}
}

// Filters is the ephemeral query state mirrored into the host's navigable
// parameters. Nil date bounds mean an open-ended range.
type Filters struct {
	Search    string
	EventType EventType
	Category  Category
	Sort      SortSpec
	DateFrom  *time.Time
	DateTo    *time.Time
}

// Encode serializes f to a flat string-keyed mapping suitable for a query
// string. Zero-valued fields are omitted so the round trip is exact.
func (f Filters) Encode() url.Values {
	v := url.Values{}
	if f.Search != "" {
		v.Set("search", f.Search)
	}
	if f.EventType != "" {
		v.Set("eventType", string(f.EventType))
	}
	if f.Category != "" {
		v.Set("category", string(f.Category))
	}
	if !f.Sort.IsZero() {
		v.Set("sortKey", f.Sort.Key)
		v.Set("sortDir", string(f.Sort.Dir))
	}
	if f.DateFrom != nil {
		v.Set("startDate", f.DateFrom.Format(DateLayout))
	}
	if f.DateTo != nil {
		v.Set("endDate", f.DateTo.Format(DateLayout))
	}
	return v
}

// DecodeFilters parses the flat mapping produced by Encode. Date bounds are
// day-granular; a malformed date is an error rather than a silent drop.
func DecodeFilters(v url.Values) (Filters, error) {
	f := Filters{
		Search:    v.Get("search"),
		EventType: EventType(v.Get("eventType")),
		Category:  Category(v.Get("category")),
	}
	if key := v.Get("sortKey"); key != "" {
		dir := SortDir(v.Get("sortDir"))
		if dir != SortAsc && dir != SortDesc {
			dir = SortDesc
		}
		f.Sort = SortSpec{Key: key, Dir: dir}
	}
	if s := v.Get("startDate"); s != "" {
		t, err := time.ParseInLocation(DateLayout, s, time.Local)
		if err != nil {
			return Filters{}, fmt.Errorf("invalid startDate %q: %w", s, err)
		}
		f.DateFrom = &t
	}
	if s := v.Get("endDate"); s != "" {
		t, err := time.ParseInLocation(DateLayout, s, time.Local)
		if err != nil {
			return Filters{}, fmt.Errorf("invalid endDate %q: %w", s, err)
		}
		f.DateTo = &t
	}
	return f, nil
}
