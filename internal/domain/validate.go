package domain

import (
	"regexp"
	"strings"
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidEmail reports whether s looks like an email address. It is the single
// format check shared by event validation and account signup.
func ValidEmail(s string) bool {
	return emailRegexp.MatchString(s)
}

// Validate checks the event's field-level and cross-field invariants.
// It returns a *ValidationError naming every failing field, or nil.
// A valid event is a precondition for reaching the store; callers must not
// persist an event that fails validation.
func (e *Event) Validate() error {
	ve := NewValidationError()

	if strings.TrimSpace(e.Title) == "" {
		ve.Add("title", "title is required")
	}
	if strings.TrimSpace(e.Description) == "" {
		ve.Add("description", "description is required")
	}
	if !e.EventType.Valid() {
		ve.Add("eventType", "event type must be online or in_person")
	}
	if !e.Category.Valid() {
		ve.Add("category", "category must be one of tech, business, design, other")
	}

	// Conditional requirements depend on the event type.
	if e.EventType == EventTypeInPerson && strings.TrimSpace(e.Location) == "" {
		ve.Add("location", "location is required for in person events")
	}
	if e.EventType == EventTypeOnline && strings.TrimSpace(e.EventLink) == "" {
		ve.Add("eventLink", "event link is required for online events")
	}

	switch {
	case e.Start.IsZero():
		ve.Add("startDateTime", "start date/time is required")
	case e.End.IsZero():
		ve.Add("endDateTime", "end date/time is required")
	case !e.End.After(e.Start):
		ve.Add("endDateTime", "end date/time must be after start date/time")
	}

	if strings.TrimSpace(e.Organizer.UserName) == "" {
		ve.Add("organizer", "organizer is required")
	}
	if !ValidEmail(e.Organizer.Email) {
		ve.Add("organizer.email", "organizer email is invalid")
	}

	if ve.HasErrors() {
		return ve
	}
	return nil
}
