package domain

import (
	"context"
	"time"
)

// EventType distinguishes where an event takes place.
type EventType string

const (
	EventTypeOnline   EventType = "online"
	EventTypeInPerson EventType = "in_person"
)

// Valid reports whether t is one of the known event types.
func (t EventType) Valid() bool {
	return t == EventTypeOnline || t == EventTypeInPerson
}

// Category is the closed set of event categories.
type Category string

const (
	CategoryTech     Category = "tech"
	CategoryBusiness Category = "business"
	CategoryDesign   Category = "design"
	CategoryOther    Category = "other"
)

// Categories lists every valid category, in display order.
var Categories = []Category{CategoryTech, CategoryBusiness, CategoryDesign, CategoryOther}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Organizer is the identity snapshot stamped on an event at creation time.
// It is immutable afterwards, even if the user's profile changes.
type Organizer struct {
	UserName string `json:"user_name"`
	Email    string `json:"email"`
}

// Event represents a scheduled occurrence owned by the local user.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	EventType   EventType `json:"eventType"`
	Location    string    `json:"location,omitempty"`
	EventLink   string    `json:"eventLink,omitempty"`
	Start       time.Time `json:"startDateTime"`
	End         time.Time `json:"endDateTime"`
	Category    Category  `json:"category"`
	Organizer   Organizer `json:"organizer"`
}

// Range returns the event's time span as a half-open interval.
func (e *Event) Range() TimeRange {
	return TimeRange{Start: e.Start, End: e.End}
}

// EventRepository is the authoritative event collection. Mutations persist
// synchronously; Events returns a snapshot in insertion order.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	Update(ctx context.Context, event *Event) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Event, error)
	BulkImport(ctx context.Context, events []*Event) error
	Clear(ctx context.Context) error
	Events(ctx context.Context) ([]*Event, error)
	Reload(ctx context.Context) error
}

// ConflictResult is the outcome of a conflict check. When Conflict is true,
// Suggestions holds the free slots around the colliding events.
type ConflictResult struct {
	Conflict    bool
	Suggestions []Slot
}

// EventService defines the business logic for managing events.
// CreateEvent and UpdateEvent validate the candidate and run the conflict
// check before any write; a conflicting candidate is never persisted.
type EventService interface {
	CreateEvent(ctx context.Context, event *Event) (*ConflictResult, error)
	UpdateEvent(ctx context.Context, event *Event) (*ConflictResult, error)
	DeleteEvent(ctx context.Context, id string) error
	GetEvent(ctx context.Context, id string) (*Event, error)
	ListEvents(ctx context.Context) ([]*Event, error)
	ImportEvents(ctx context.Context, events []*Event) (int, error)
}
