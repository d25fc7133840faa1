package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"eventbook/internal/domain"
)

// userStore keeps the registered-identities list under UsersKey and the
// authenticated-identity snapshot under SessionKey, both as plain JSON.
type userStore struct {
	kv KV
}

// NewUserStore returns a UserRepository over the given key-value store.
func NewUserStore(kv KV) domain.UserRepository {
	return &userStore{kv: kv}
}

func (s *userStore) loadUsers(ctx context.Context) ([]*domain.User, error) {
	raw, ok, err := s.kv.Get(ctx, UsersKey)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var users []*domain.User
	if err := json.Unmarshal([]byte(raw), &users); err != nil {
		// Corrupt record reads as an empty list.
		return nil, nil
	}
	return users, nil
}

func (s *userStore) saveUsers(ctx context.Context, users []*domain.User) error {
	raw, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}
	if err := s.kv.Put(ctx, UsersKey, string(raw)); err != nil {
		return fmt.Errorf("save users: %w", err)
	}
	return nil
}

func (s *userStore) CreateUser(ctx context.Context, user *domain.User) error {
	users, err := s.loadUsers(ctx)
	if err != nil {
		return err
	}
	for _, existing := range users {
		if strings.EqualFold(existing.Email, user.Email) {
			return domain.ErrDuplicateEmail
		}
	}
	u := *user
	return s.saveUsers(ctx, append(users, &u))
}

func (s *userStore) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	users, err := s.loadUsers(ctx)
	if err != nil {
		return nil, err
	}
	for _, existing := range users {
		if strings.EqualFold(existing.Email, email) {
			u := *existing
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *userStore) SaveSession(ctx context.Context, session *domain.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.kv.Put(ctx, SessionKey, string(raw)); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *userStore) LoadSession(ctx context.Context) (*domain.Session, error) {
	raw, ok, err := s.kv.Get(ctx, SessionKey)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !ok {
		return nil, domain.ErrNotAuthenticated
	}
	var session domain.Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, domain.ErrNotAuthenticated
	}
	return &session, nil
}

func (s *userStore) ClearSession(ctx context.Context) error {
	if err := s.kv.Delete(ctx, SessionKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
