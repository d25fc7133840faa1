package kvstore

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"eventbook/internal/domain"
)

// EventStore is the authoritative event collection. It keeps the events in
// memory in insertion order and writes the full collection as a JSON array
// under EventsKey on every mutation. A failed write degrades the store to
// memory-only for that operation: the in-memory state is kept and a warning
// is logged, the engine never crashes on storage trouble.
//
// The store itself assumes valid, conflict-cleared events; validation and
// conflict checking happen upstream in the event service.
type eventStore struct {
	kv     KV
	logger *slog.Logger

	mu     sync.Mutex
	events []*domain.Event
}

// NewEventStore loads the persisted collection (absent or corrupt records
// load as empty) and returns the store.
func NewEventStore(ctx context.Context, kv KV, logger *slog.Logger) domain.EventRepository {
	s := &eventStore{kv: kv, logger: logger}
	s.events = s.load(ctx)
	return s
}

func (s *eventStore) load(ctx context.Context) []*domain.Event {
	raw, ok, err := s.kv.Get(ctx, EventsKey)
	if err != nil {
		s.logger.Warn("reading events from storage failed, starting empty", "error", err)
		return nil
	}
	if !ok {
		return nil
	}
	var events []*domain.Event
	if err := json.Unmarshal([]byte(raw), &events); err != nil {
		// A corrupt record is treated as an empty collection, not a fatal error.
		s.logger.Warn("stored events record is corrupt, starting empty", "error", err)
		return nil
	}
	return events
}

// persist writes the whole collection. Must be called with mu held.
func (s *eventStore) persist(ctx context.Context) {
	raw, err := json.Marshal(s.events)
	if err != nil {
		s.logger.Warn("encoding events failed, keeping in-memory state", "error", err)
		return
	}
	if err := s.kv.Put(ctx, EventsKey, string(raw)); err != nil {
		s.logger.Warn("persisting events failed, keeping in-memory state", "error", err)
	}
}

func (s *eventStore) Create(ctx context.Context, event *domain.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := *event
	s.events = append(s.events, &e)
	s.persist(ctx)
	return nil
}

func (s *eventStore) Update(ctx context.Context, event *domain.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.events {
		if existing.ID == event.ID {
			e := *event
			s.events[i] = &e
			s.persist(ctx)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (s *eventStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.events {
		if existing.ID == id {
			s.events = append(s.events[:i], s.events[i+1:]...)
			s.persist(ctx)
			return nil
		}
	}
	// Absent id leaves the collection and storage untouched.
	return domain.ErrNotFound
}

func (s *eventStore) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.events {
		if existing.ID == id {
			e := *existing
			return &e, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *eventStore) BulkImport(ctx context.Context, events []*domain.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, event := range events {
		e := *event
		s.events = append(s.events, &e)
	}
	s.persist(ctx)
	return nil
}

func (s *eventStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
	if err := s.kv.Delete(ctx, EventsKey); err != nil {
		s.logger.Warn("removing events record failed", "error", err)
	}
	return nil
}

func (s *eventStore) Events(ctx context.Context) ([]*domain.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := make([]*domain.Event, len(s.events))
	for i, existing := range s.events {
		e := *existing
		snapshot[i] = &e
	}
	return snapshot, nil
}

// Reload replaces the in-memory collection with whatever is persisted.
// The host calls it when it detects an external write to the same storage;
// the last persisted write wins, there is no merge.
func (s *eventStore) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = s.load(ctx)
	return nil
}
