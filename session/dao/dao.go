// Package dao provides data access objects for persisting mathscript
// sessions, mirroring the teacher's server/dao: a Store aggregate handing
// out narrow per-resource repositories, rather than one God object with
// every method on it.
package dao

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("the requested session was not found")
	ErrDecodingFailure = errors.New("session history could not be decoded from storage format")
)

// Store holds all the repositories a mathscript server needs.
type Store interface {
	Sessions() SessionRepository
	Close() error
}

// Session is the persisted record for one session package Session: its
// identity and the ordered history of statements it has evaluated. The
// scope itself is not stored; it is rederived by replaying History (see
// session.Restore).
type Session struct {
	ID      uuid.UUID
	Created time.Time
	History []string
}

type SessionRepository interface {
	Create(ctx context.Context, s Session) (Session, error)
	GetByID(ctx context.Context, id uuid.UUID) (Session, error)
	GetAll(ctx context.Context) ([]Session, error)

	// AppendHistory records one more evaluated statement onto an existing
	// session without requiring the caller to round-trip the full history.
	AppendHistory(ctx context.Context, id uuid.UUID, statement string) (Session, error)

	Delete(ctx context.Context, id uuid.UUID) error
	Close() error
}
