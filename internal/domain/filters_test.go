package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilters_EncodeDecode_roundTrip(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.Local)

	tests := []struct {
		name    string
		filters Filters
	}{
		{"empty", Filters{}},
		{"search only", Filters{Search: "standup"}},
		{"all fields", Filters{
			Search:    "design review",
			EventType: EventTypeInPerson,
			Category:  CategoryDesign,
			Sort:      SortSpec{Key: "startDateTime", Dir: SortAsc},
			DateFrom:  &from,
			DateTo:    &to,
		}},
		{"open-ended range", Filters{DateFrom: &from}},
		{"sort only", Filters{Sort: SortSpec{Key: "title", Dir: SortDesc}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, err := DecodeFilters(tt.filters.Encode())
			require.NoError(t, err)
			assert.Equal(t, tt.filters, decoded)
		})
	}
}

func TestDecodeFilters_badDate(t *testing.T) {
	v := Filters{Search: "x"}.Encode()
	v.Set("startDate", "not-a-date")
	_, err := DecodeFilters(v)
	require.Error(t, err)
}

func TestDecodeFilters_defaultsSortDir(t *testing.T) {
	v := Filters{}.Encode()
	v.Set("sortKey", "title")
	f, err := DecodeFilters(v)
	require.NoError(t, err)
	assert.Equal(t, SortSpec{Key: "title", Dir: SortDesc}, f.Sort)
}

func TestNextSort_cycle(t *testing.T) {
	// Repeated clicks on one column cycle descending, ascending, cleared.
	s := NextSort(SortSpec{}, "title")
	assert.Equal(t, SortSpec{Key: "title", Dir: SortDesc}, s)

	s = NextSort(s, "title")
	assert.Equal(t, SortSpec{Key: "title", Dir: SortAsc}, s)

	s = NextSort(s, "title")
	assert.True(t, s.IsZero())
}

func TestNextSort_differentKeyResets(t *testing.T) {
	s := NextSort(SortSpec{Key: "title", Dir: SortAsc}, "startDateTime")
	assert.Equal(t, SortSpec{Key: "startDateTime", Dir: SortDesc}, s)
}
