package domain

import (
	"context"
	"time"
)

// User is a registered local identity.
type User struct {
	UserName     string    `json:"user_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	Salt         string    `json:"salt"`
	CreatedAt    time.Time `json:"created_at"`
}

// Session is the persisted authenticated-identity snapshot. Token is a
// signed record; a snapshot whose token fails verification reads as
// logged-out.
type Session struct {
	User  Organizer `json:"user"`
	Token string    `json:"token"`
}

// PasswordHasher handles salt generation, hashing, and verification.
// Implementations may use bcrypt, argon2, etc.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenCodec signs and verifies the session record.
type TokenCodec interface {
	Issue(email, userName string, expiry time.Duration) (string, error)
	Verify(token string) (email string, err error)
}

// UserRepository stores the registered-identities list and the session
// snapshot in durable storage.
type UserRepository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	SaveSession(ctx context.Context, session *Session) error
	LoadSession(ctx context.Context) (*Session, error)
	ClearSession(ctx context.Context) error
}

// AuthService defines signup, login, and logout over locally stored
// identities. CurrentOrganizer supplies the snapshot stamped on new events.
type AuthService interface {
	SignUp(ctx context.Context, userName, email, password string) (*User, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	Logout(ctx context.Context) error
	CurrentOrganizer(ctx context.Context) (*Organizer, error)
}
