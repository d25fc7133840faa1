package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"eventbook/internal/domain"
)

const minPasswordLen = 8

type authService struct {
	users      domain.UserRepository
	events     domain.EventRepository
	hasher     domain.PasswordHasher
	tokens     domain.TokenCodec
	sessionTTL time.Duration
}

// NewAuthService creates an AuthService over locally stored identities.
// Logout clears the event collection along with the session, matching the
// single-user lifecycle of the local store.
func NewAuthService(users domain.UserRepository, events domain.EventRepository,
	hasher domain.PasswordHasher, tokens domain.TokenCodec, sessionTTL time.Duration,
) domain.AuthService {
	return &authService{
		users:      users,
		events:     events,
		hasher:     hasher,
		tokens:     tokens,
		sessionTTL: sessionTTL,
	}
}

func (s *authService) SignUp(ctx context.Context, userName, email, password string) (*domain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if !domain.ValidEmail(email) {
		return nil, fmt.Errorf("invalid email format")
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}
	userName = strings.TrimSpace(userName)
	if userName == "" {
		return nil, fmt.Errorf("user name is required")
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	hash, err := s.hasher.Hash(salt, password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		UserName:     userName,
		Email:        email,
		PasswordHash: hash,
		Salt:         salt,
		CreatedAt:    time.Now(),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	user, err := s.users.GetUserByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if err := s.hasher.Compare(user.PasswordHash, user.Salt, password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Email, user.UserName, s.sessionTTL)
	if err != nil {
		return nil, fmt.Errorf("sign session: %w", err)
	}
	session := &domain.Session{
		User:  domain.Organizer{UserName: user.UserName, Email: user.Email},
		Token: token,
	}
	if err := s.users.SaveSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *authService) Logout(ctx context.Context) error {
	if err := s.users.ClearSession(ctx); err != nil {
		return err
	}
	return s.events.Clear(ctx)
}

// CurrentOrganizer returns the identity snapshot of the logged-in user.
// A missing, tampered, or expired session record reads as logged-out.
func (s *authService) CurrentOrganizer(ctx context.Context) (*domain.Organizer, error) {
	session, err := s.users.LoadSession(ctx)
	if err != nil {
		return nil, domain.ErrNotAuthenticated
	}
	if _, err := s.tokens.Verify(session.Token); err != nil {
		return nil, domain.ErrNotAuthenticated
	}
	organizer := session.User
	return &organizer, nil
}
