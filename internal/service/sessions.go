// Package service contains the application services: authentication, sessions and
// the listing, interest and transfer workflows.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/and161185/nhh/internal/crypto"
	"github.com/and161185/nhh/internal/errs"
	"github.com/and161185/nhh/internal/model"
	"github.com/and161185/nhh/internal/repository"
)

// Scan limits for refresh-token lookup. Sessions store salted hashes, so a lookup
// trial-verifies the newest sessions of the user one by one.
const (
	RefreshScanLimit  = 20
	StrategyScanLimit = 10
)

// SessionStore manages refresh-token sessions.
type SessionStore interface {
	// CreateSession stores tokenHash with expiry now+ttlSeconds.
	CreateSession(ctx context.Context, userID uuid.UUID, tokenHash string, ttlSeconds int64, meta *model.ClientMeta) (*model.Session, error)
	// RemoveSessionByID deletes a session; a missing one is not an error.
	RemoveSessionByID(ctx context.Context, id uuid.UUID) error
	// ConsumeSession deletes a session that must still exist; errs.ErrRevokedToken otherwise.
	ConsumeSession(ctx context.Context, id uuid.UUID) error
	// FindValidSession returns the newest of the user's last limit sessions whose hash matches candidate.
	FindValidSession(ctx context.Context, userID uuid.UUID, candidate string, limit int) (uuid.UUID, bool, error)
	// PurgeExpiredSessions deletes every expired session.
	PurgeExpiredSessions(ctx context.Context) (int64, error)
}

type SessionStoreImpl struct {
	repo   repository.SessionRepository
	hasher crypto.Hasher
	log    *zap.Logger
	now    func() time.Time
}

// NewSessionStore constructs a SessionStore.
func NewSessionStore(repo repository.SessionRepository, hasher crypto.Hasher, log *zap.Logger) *SessionStoreImpl {
	if log == nil {
		log = zap.NewNop()
	}
	return &SessionStoreImpl{repo: repo, hasher: hasher, log: log, now: time.Now}
}

func (s *SessionStoreImpl) CreateSession(ctx context.Context, userID uuid.UUID, tokenHash string, ttlSeconds int64, meta *model.ClientMeta) (*model.Session, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	sess := &model.Session{
		ID:        id,
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: s.now().Add(time.Duration(ttlSeconds) * time.Second),
	}
	if meta != nil {
		if meta.IP != "" {
			ip := meta.IP
			sess.IP = &ip
		}
		if meta.UserAgent != "" {
			ua := meta.UserAgent
			sess.UserAgent = &ua
		}
	}
	if err := s.repo.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return sess, nil
}

func (s *SessionStoreImpl) RemoveSessionByID(ctx context.Context, id uuid.UUID) error {
	err := s.repo.DeleteByID(ctx, id)
	if errors.Is(err, errs.ErrNotFound) {
		s.log.Debug("session already gone", zap.String("session_id", id.String()))
		return nil
	}
	return err
}

func (s *SessionStoreImpl) ConsumeSession(ctx context.Context, id uuid.UUID) error {
	err := s.repo.DeleteByID(ctx, id)
	if errors.Is(err, errs.ErrNotFound) {
		return errs.ErrRevokedToken
	}
	return err
}

func (s *SessionStoreImpl) FindValidSession(ctx context.Context, userID uuid.UUID, candidate string, limit int) (uuid.UUID, bool, error) {
	list, err := s.repo.ListRecentByUser(ctx, userID, limit)
	if err != nil {
		return uuid.Nil, false, err
	}
	for _, sess := range list {
		ok, err := s.hasher.Verify(sess.TokenHash, candidate)
		if err != nil {
			s.log.Debug("skipping session with malformed hash", zap.String("session_id", sess.ID.String()))
			continue
		}
		if ok {
			return sess.ID, true, nil
		}
	}
	return uuid.Nil, false, nil
}

func (s *SessionStoreImpl) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpired(ctx, s.now())
}
