// Package session defines the server-side session of a dashboard user and the stores keeping it.
// The browser only holds the session ID; the API token never leaves the server.
package session

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-dashboard/core"
	"github.com/trezcool/masomo-dashboard/core/school"
)

var (
	ErrNotFound = errors.New("session not found")
	ErrExpired  = errors.New("session expired")
)

type Session struct {
	ID        string      `json:"id" db:"id"`
	Token     string      `json:"token" db:"token"`
	UserID    string      `json:"user_id" db:"user_id"`
	Name      string      `json:"name" db:"name"`
	Email     string      `json:"email" db:"email"`
	Role      school.Role `json:"role" db:"role"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
	ExpiresAt time.Time   `json:"expires_at" db:"expires_at"`
}

// New starts a session with a random ID. It expires at expiresAt, or after ttl when expiresAt is zero.
func New(token string, now, expiresAt time.Time, ttl time.Duration) Session {
	if expiresAt.IsZero() {
		expiresAt = now.Add(ttl)
	}
	return Session{
		ID:        uuid.NewString(),
		Token:     token,
		CreatedAt: now.UTC(),
		ExpiresAt: expiresAt.UTC(),
	}
}

func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Validate checks the session can be stored.
func (s Session) Validate(now time.Time) error {
	if s.ID == "" {
		return errors.New("session has no ID")
	}
	if s.Token == "" {
		return errors.New("session has no token")
	}
	if s.Expired(now) {
		return ErrExpired
	}
	return nil
}

// Person is the session user, as attached to log entries.
func (s Session) Person() core.Person {
	return core.Person{ID: s.UserID, Username: s.Name, Email: s.Email}
}

type Store interface {
	// Get returns ErrNotFound for unknown and expired sessions.
	Get(ctx context.Context, id string) (Session, error)
	Save(ctx context.Context, s Session) error
	Delete(ctx context.Context, id string) error
}

// Reaper is implemented by the stores that must purge expired sessions themselves.
type Reaper interface {
	DeleteExpired(ctx context.Context) (int64, error)
}
