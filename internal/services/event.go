package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"eventbook/internal/domain"
	"eventbook/internal/scheduler"
)

type eventService struct {
	repo domain.EventRepository
	auth domain.AuthService
}

// NewEventService wires the event business logic over the given repository
// and auth collaborator.
func NewEventService(repo domain.EventRepository, auth domain.AuthService) domain.EventService {
	return &eventService{repo: repo, auth: auth}
}

// CreateEvent stamps the current organizer on the candidate, validates it,
// and runs the conflict check against the current collection. On conflict
// the candidate is not persisted and the result carries slot suggestions.
func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event) (*domain.ConflictResult, error) {
	organizer, err := s.auth.CurrentOrganizer(ctx)
	if err != nil {
		return nil, err
	}
	event.Organizer = *organizer
	if event.ID == "" {
		event.ID = uuid.NewString()
	}

	if err := event.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.Events(ctx)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	result := scheduler.CheckConflict(event, existing)
	if result.Conflict {
		return &result, nil
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return &result, nil
}

// UpdateEvent replaces the stored event with the same ID wholesale, keeping
// the original organizer snapshot. The prior version is excluded from the
// conflict comparison, so an event may overlap its own old slot.
func (s *eventService) UpdateEvent(ctx context.Context, event *domain.Event) (*domain.ConflictResult, error) {
	prior, err := s.repo.GetByID(ctx, event.ID)
	if err != nil {
		return nil, err
	}
	event.Organizer = prior.Organizer

	if err := event.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.Events(ctx)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	result := scheduler.CheckConflict(event, existing)
	if result.Conflict {
		return &result, nil
	}

	if err := s.repo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return &result, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *eventService) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *eventService) ListEvents(ctx context.Context) ([]*domain.Event, error) {
	return s.repo.Events(ctx)
}

// ImportEvents appends the given events in argument order, stamping the
// current organizer and generating IDs where missing. An event whose ID is
// already in the collection, or earlier in the batch, is the same event seen
// again and is skipped, so re-importing a file never duplicates it. Invalid
// events abort the import before anything is written. The returned count is
// the number of events actually added.
func (s *eventService) ImportEvents(ctx context.Context, events []*domain.Event) (int, error) {
	organizer, err := s.auth.CurrentOrganizer(ctx)
	if err != nil {
		return 0, err
	}
	existing, err := s.repo.Events(ctx)
	if err != nil {
		return 0, fmt.Errorf("load events: %w", err)
	}
	seen := make(map[string]bool, len(existing))
	for _, e := range existing {
		seen[e.ID] = true
	}

	batch := make([]*domain.Event, 0, len(events))
	for _, event := range events {
		if event.ID == "" {
			event.ID = uuid.NewString()
		}
		if seen[event.ID] {
			continue
		}
		seen[event.ID] = true
		if event.Organizer.UserName == "" {
			event.Organizer = *organizer
		}
		if err := event.Validate(); err != nil {
			return 0, fmt.Errorf("event %q: %w", event.Title, err)
		}
		batch = append(batch, event)
	}
	if len(batch) == 0 {
		return 0, nil
	}
	if err := s.repo.BulkImport(ctx, batch); err != nil {
		return 0, fmt.Errorf("import events: %w", err)
	}
	return len(batch), nil
}
