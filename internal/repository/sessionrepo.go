package repository

import (
	"context"
	"time"

	"github.com/and161185/nhh/internal/model"
	"github.com/gofrs/uuid/v5"
)

// SessionRepository stores refresh-token sessions.
type SessionRepository interface {
	// Create inserts a session row.
	Create(ctx context.Context, s *model.Session) error
	// ListRecentByUser returns at most limit sessions of a user, newest first.
	ListRecentByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.Session, error)
	// DeleteByID removes one session; errs.ErrNotFound when no row was deleted.
	DeleteByID(ctx context.Context, id uuid.UUID) error
	// DeleteExpired removes sessions with expires_at before now and reports how many.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
