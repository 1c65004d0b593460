package postgres

import (
	"context"
	"time"

	"github.com/and161185/nhh/internal/errs"
	"github.com/and161185/nhh/internal/model"
	"github.com/gofrs/uuid/v5"
)

// SessionRepo implements SessionRepository using PostgreSQL.
type SessionRepo struct{ db *DB }

// NewSessionRepo constructs a session repository.
func NewSessionRepo(db *DB) *SessionRepo { return &SessionRepo{db: db} }

// Create inserts a session row.
func (r *SessionRepo) Create(ctx context.Context, s *model.Session) error {
	const q = `
INSERT INTO sessions (id, user_id, token_hash, expires_at, ip, ua)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING created_at`
	return r.db.Pool.QueryRow(ctx, q, s.ID, s.UserID, s.TokenHash, s.ExpiresAt, s.IP, s.UserAgent).
		Scan(&s.CreatedAt)
}

// ListRecentByUser returns the user's unexpired sessions, newest first, capped at limit.
func (r *SessionRepo) ListRecentByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.Session, error) {
	const q = `
SELECT id, user_id, token_hash, expires_at, ip, ua, created_at
FROM sessions
WHERE user_id=$1 AND expires_at > now()
ORDER BY created_at DESC
LIMIT $2`
	rows, err := r.db.Pool.Query(ctx, q, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Session
	for rows.Next() {
		var s model.Session
		if err = rows.Scan(&s.ID, &s.UserID, &s.TokenHash, &s.ExpiresAt, &s.IP, &s.UserAgent, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// DeleteByID removes one session. A missing row is reported as errs.ErrNotFound,
// which lets concurrent consumers of the same session detect who lost.
func (r *SessionRepo) DeleteByID(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM sessions WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// DeleteExpired removes sessions whose expiry is before now.
func (r *SessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at < $1`, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
