package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEvent() *Event {
	return &Event{
		ID:          "ev-1",
		Title:       "Sprint planning",
		Description: "Plan the next sprint",
		EventType:   EventTypeOnline,
		EventLink:   "https://meet.example.com/sprint",
		Start:       at(14, 0),
		End:         at(15, 0),
		Category:    CategoryTech,
		Organizer:   Organizer{UserName: "dana", Email: "dana@example.com"},
	}
}

func TestEvent_Validate_valid(t *testing.T) {
	require.NoError(t, validEvent().Validate())

	inPerson := validEvent()
	inPerson.EventType = EventTypeInPerson
	inPerson.EventLink = ""
	inPerson.Location = "Room 4"
	require.NoError(t, inPerson.Validate())
}

func TestEvent_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Event)
		wantField string
	}{
		{"empty title", func(e *Event) { e.Title = "  " }, "title"},
		{"empty description", func(e *Event) { e.Description = "" }, "description"},
		{"unknown type", func(e *Event) { e.EventType = "hybrid" }, "eventType"},
		{"unknown category", func(e *Event) { e.Category = "sports" }, "category"},
		{"online without link", func(e *Event) { e.EventLink = "" }, "eventLink"},
		{"in person without location", func(e *Event) {
			e.EventType = EventTypeInPerson
			e.Location = ""
		}, "location"},
		{"end equals start", func(e *Event) { e.End = e.Start }, "endDateTime"},
		{"end before start", func(e *Event) { e.End = e.Start.Add(-time.Hour) }, "endDateTime"},
		{"missing start", func(e *Event) { e.Start = time.Time{} }, "startDateTime"},
		{"missing organizer", func(e *Event) { e.Organizer.UserName = "" }, "organizer"},
		{"bad organizer email", func(e *Event) { e.Organizer.Email = "not-an-email" }, "organizer.email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validEvent()
			tt.mutate(e)
			err := e.Validate()
			require.Error(t, err)
			ve, ok := AsValidationError(err)
			require.True(t, ok)
			assert.Contains(t, ve.Fields, tt.wantField)
		})
	}
}

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("dana@example.com"))
	assert.True(t, ValidEmail("dana+tag@sub.example.co"))
	assert.False(t, ValidEmail("not-an-email"))
	assert.False(t, ValidEmail("dana@localhost"))
	assert.False(t, ValidEmail("@example.com"))
}

func TestEvent_Validate_collectsAllFields(t *testing.T) {
	e := validEvent()
	e.Title = ""
	e.EventLink = ""
	err := e.Validate()
	require.Error(t, err)
	ve, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Len(t, ve.Fields, 2)
	assert.Contains(t, err.Error(), "title")
	assert.Contains(t, err.Error(), "eventLink")
}
