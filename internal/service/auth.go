package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/and161185/nhh/internal/crypto"
	"github.com/and161185/nhh/internal/errs"
	"github.com/and161185/nhh/internal/limiter"
	"github.com/and161185/nhh/internal/model"
	"github.com/and161185/nhh/internal/repository"
	"github.com/and161185/nhh/internal/validation"
)

// RegisterInput is the self-registration payload.
type RegisterInput struct {
	OfficialEmail string  `json:"official_email" validate:"required,navymail"`
	ServiceNumber string  `json:"service_number" validate:"required,notblank"`
	FullName      string  `json:"full_name" validate:"required,notblank"`
	Rank          string  `json:"rank" validate:"required,notblank"`
	Station       string  `json:"station" validate:"required,notblank"`
	Phone         *string `json:"phone"`
}

// Credentials identify an officer by e-mail and service number.
type Credentials struct {
	OfficialEmail string
	ServiceNumber string
}

// AuthService defines identity, token and session operations.
type AuthService interface {
	// Register creates an OFFICER identity and signs it in.
	Register(ctx context.Context, in RegisterInput, meta *model.ClientMeta) (model.PublicOfficer, model.TokenPair, error)
	// Login authenticates credentials and issues a token pair.
	Login(ctx context.Context, c Credentials, meta *model.ClientMeta) (model.PublicOfficer, model.TokenPair, error)
	// Refresh consumes a refresh token and issues a new pair to its officer.
	Refresh(ctx context.Context, refreshToken string, meta *model.ClientMeta) (model.PublicOfficer, model.TokenPair, error)
	// Verify checks credentials without side effects on sessions.
	Verify(ctx context.Context, c Credentials, meta *model.ClientMeta) (model.Verification, error)
	// Authenticate resolves an access token to the current viewer.
	Authenticate(ctx context.Context, accessToken string) (*model.Viewer, error)
	// ValidateRefreshStrategy checks that a refresh token still has a live session.
	ValidateRefreshStrategy(ctx context.Context, refreshToken string) (*model.Claims, error)
	// Logout revokes the session behind a refresh token.
	Logout(ctx context.Context, refreshToken string) error
}

type AuthServiceImpl struct {
	officers repository.OfficerRepository
	sessions SessionStore
	tokens   TokenIssuer
	hasher   crypto.Hasher
	lim      limiter.Limiter
	log      *zap.Logger
}

// NewAuthService constructs AuthService. lim may be nil to disable login lockout.
func NewAuthService(officers repository.OfficerRepository, sessions SessionStore, tokens TokenIssuer,
	hasher crypto.Hasher, lim limiter.Limiter, log *zap.Logger) *AuthServiceImpl {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthServiceImpl{officers: officers, sessions: sessions, tokens: tokens, hasher: hasher, lim: lim, log: log}
}

// NormalizeEmail trims and lower-cases an e-mail address.
func NormalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func (s *AuthServiceImpl) Register(ctx context.Context, in RegisterInput, meta *model.ClientMeta) (model.PublicOfficer, model.TokenPair, error) {
	if err := validation.Struct(in); err != nil {
		return model.PublicOfficer{}, model.TokenPair{}, err
	}
	email := NormalizeEmail(in.OfficialEmail)
	_, err := s.officers.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return model.PublicOfficer{}, model.TokenPair{}, errs.ErrDuplicateIdentity
	case !errors.Is(err, errs.ErrNotFound):
		return model.PublicOfficer{}, model.TokenPair{}, err
	}

	hash, err := s.hasher.Hash(in.ServiceNumber)
	if err != nil {
		return model.PublicOfficer{}, model.TokenPair{}, err
	}
	id, err := uuid.NewV4()
	if err != nil {
		return model.PublicOfficer{}, model.TokenPair{}, err
	}
	o := &model.Officer{
		ID:                id,
		OfficialEmail:     email,
		ServiceNumberHash: hash,
		FullName:          strings.TrimSpace(in.FullName),
		Rank:              strings.TrimSpace(in.Rank),
		Station:           strings.TrimSpace(in.Station),
		Role:              model.RoleOfficer,
		Phone:             in.Phone,
	}
	// the unique index closes the gap between the lookup above and this insert
	if err := s.officers.Create(ctx, o); err != nil {
		return model.PublicOfficer{}, model.TokenPair{}, err
	}
	pair, err := s.tokens.Issue(ctx, o, meta)
	if err != nil {
		return model.PublicOfficer{}, model.TokenPair{}, err
	}
	s.log.Info("officer registered", zap.String("officer_id", o.ID.String()))
	return o.Public(), pair, nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, c Credentials, meta *model.ClientMeta) (model.PublicOfficer, model.TokenPair, error) {
	o, err := s.checkCredentials(ctx, c, meta, errs.ErrInvalidCredentials)
	if err != nil {
		return model.PublicOfficer{}, model.TokenPair{}, err
	}
	pair, err := s.tokens.Issue(ctx, o, meta)
	if err != nil {
		return model.PublicOfficer{}, model.TokenPair{}, err
	}
	return o.Public(), pair, nil
}

func (s *AuthServiceImpl) Verify(ctx context.Context, c Credentials, meta *model.ClientMeta) (model.Verification, error) {
	o, err := s.checkCredentials(ctx, c, meta, errs.ErrVerificationFailed)
	if err != nil {
		return model.Verification{}, err
	}
	return model.Verification{Status: "verified", OfficerID: o.ID}, nil
}

// checkCredentials returns failure for an unknown e-mail, a wrong service number
// and a malformed stored hash alike.
func (s *AuthServiceImpl) checkCredentials(ctx context.Context, c Credentials, meta *model.ClientMeta, failure error) (*model.Officer, error) {
	email := NormalizeEmail(c.OfficialEmail)
	ip := ""
	if meta != nil {
		ip = meta.IP
	}
	if s.lim != nil {
		ok, wait, err := s.lim.Allow(ctx, email, ip)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: retry in %s", errs.ErrRateLimited, wait.Round(time.Second))
		}
	}

	o, err := s.officers.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}
	match := false
	if o != nil {
		var verr error
		match, verr = s.hasher.Verify(o.ServiceNumberHash, c.ServiceNumber)
		if verr != nil {
			s.log.Warn("stored service number hash is malformed", zap.String("officer_id", o.ID.String()))
			match = false
		}
	}
	if !match {
		if s.lim != nil {
			blocked, _, ferr := s.lim.Failure(ctx, email, ip)
			if ferr != nil {
				s.log.Warn("limiter failure not recorded", zap.Error(ferr))
			} else if blocked {
				return nil, errs.ErrRateLimited
			}
		}
		return nil, failure
	}
	if s.lim != nil {
		if err := s.lim.Success(ctx, email, ip); err != nil {
			s.log.Debug("limiter reset failed", zap.Error(err))
		}
	}
	return o, nil
}

func (s *AuthServiceImpl) Refresh(ctx context.Context, refreshToken string, meta *model.ClientMeta) (model.PublicOfficer, model.TokenPair, error) {
	o, sessionID, err := s.resolveRefresh(ctx, refreshToken, RefreshScanLimit)
	if err != nil {
		return model.PublicOfficer{}, model.TokenPair{}, err
	}
	if err := s.sessions.ConsumeSession(ctx, sessionID); err != nil {
		return model.PublicOfficer{}, model.TokenPair{}, err
	}
	pair, err := s.tokens.Issue(ctx, o, meta)
	if err != nil {
		return model.PublicOfficer{}, model.TokenPair{}, err
	}
	return o.Public(), pair, nil
}

func (s *AuthServiceImpl) ValidateRefreshStrategy(ctx context.Context, refreshToken string) (*model.Claims, error) {
	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, err
	}
	_, ok, err := s.sessions.FindValidSession(ctx, claims.Subject, refreshToken, StrategyScanLimit)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errs.ErrRevokedToken
	}
	return claims, nil
}

func (s *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	_, sessionID, err := s.resolveRefresh(ctx, refreshToken, RefreshScanLimit)
	if errors.Is(err, errs.ErrRevokedToken) {
		return nil
	}
	if err != nil {
		return err
	}
	return s.sessions.RemoveSessionByID(ctx, sessionID)
}

// resolveRefresh verifies a refresh token and finds the session it belongs to.
func (s *AuthServiceImpl) resolveRefresh(ctx context.Context, token string, limit int) (*model.Officer, uuid.UUID, error) {
	claims, err := s.tokens.VerifyRefresh(token)
	if err != nil {
		return nil, uuid.Nil, err
	}
	o, err := s.officers.GetByID(ctx, claims.Subject)
	if errors.Is(err, errs.ErrNotFound) {
		return nil, uuid.Nil, errs.ErrInvalidToken
	}
	if err != nil {
		return nil, uuid.Nil, err
	}
	id, ok, err := s.sessions.FindValidSession(ctx, o.ID, token, limit)
	if err != nil {
		return nil, uuid.Nil, err
	}
	if !ok {
		return nil, uuid.Nil, errs.ErrRevokedToken
	}
	return o, id, nil
}

func (s *AuthServiceImpl) Authenticate(ctx context.Context, accessToken string) (*model.Viewer, error) {
	if accessToken == "" {
		return nil, errs.ErrUnauthenticated
	}
	claims, err := s.tokens.VerifyAccess(accessToken)
	if err != nil {
		return nil, err
	}
	o, err := s.officers.GetByID(ctx, claims.Subject)
	if errors.Is(err, errs.ErrNotFound) {
		return nil, errs.ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}
	// role comes from the store so a demotion takes effect before the token expires
	return &model.Viewer{ID: o.ID, Role: o.Role}, nil
}
