package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/and161185/nhh/internal/crypto"
	"github.com/and161185/nhh/internal/errs"
	"github.com/and161185/nhh/internal/model"
)

const (
	typAccess  = "access"
	typRefresh = "refresh"
)

// TokenIssuer signs and verifies access/refresh tokens.
type TokenIssuer interface {
	// Issue signs a new pair for o and records a session for the refresh token.
	Issue(ctx context.Context, o *model.Officer, meta *model.ClientMeta) (model.TokenPair, error)
	// VerifyAccess validates an access token.
	VerifyAccess(token string) (*model.Claims, error)
	// VerifyRefresh validates a refresh token; expiry yields errs.ErrTokenExpired.
	VerifyRefresh(token string) (*model.Claims, error)
}

type tokenClaims struct {
	Role          string `json:"role"`
	OfficialEmail string `json:"official_email"`
	Typ           string `json:"typ"`
	jwt.RegisteredClaims
}

// TokenConfig holds the signing secrets and lifetimes.
type TokenConfig struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// JWTIssuer issues HS256 tokens. Access and refresh tokens use different secrets.
type JWTIssuer struct {
	cfg      TokenConfig
	sessions SessionStore
	hasher   crypto.Hasher
	now      func() time.Time
}

// NewJWTIssuer constructs a JWTIssuer.
func NewJWTIssuer(cfg TokenConfig, sessions SessionStore, hasher crypto.Hasher) *JWTIssuer {
	return &JWTIssuer{cfg: cfg, sessions: sessions, hasher: hasher, now: time.Now}
}

func (i *JWTIssuer) Issue(ctx context.Context, o *model.Officer, meta *model.ClientMeta) (model.TokenPair, error) {
	now := i.now()
	access, err := i.sign(o, typAccess, i.cfg.AccessSecret, now, i.cfg.AccessTTL)
	if err != nil {
		return model.TokenPair{}, err
	}
	refresh, err := i.sign(o, typRefresh, i.cfg.RefreshSecret, now, i.cfg.RefreshTTL)
	if err != nil {
		return model.TokenPair{}, err
	}
	hash, err := i.hasher.Hash(refresh)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("hash refresh token: %w", err)
	}
	refreshSecs := int64(i.cfg.RefreshTTL / time.Second)
	if _, err := i.sessions.CreateSession(ctx, o.ID, hash, refreshSecs, meta); err != nil {
		return model.TokenPair{}, err
	}
	return model.TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		ExpiresIn:        int64(i.cfg.AccessTTL / time.Second),
		RefreshExpiresIn: refreshSecs,
	}, nil
}

// sign creates a token with a random jti, so two tokens minted in the same second differ.
func (i *JWTIssuer) sign(o *model.Officer, typ string, secret []byte, now time.Time, ttl time.Duration) (string, error) {
	jti, err := uuid.NewV4()
	if err != nil {
		return "", err
	}
	claims := tokenClaims{
		Role:          string(o.Role),
		OfficialEmail: o.OfficialEmail,
		Typ:           typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   o.ID.String(),
			ID:        jti.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (i *JWTIssuer) VerifyAccess(token string) (*model.Claims, error) {
	c, err := i.parse(token, typAccess, i.cfg.AccessSecret)
	if err != nil {
		return nil, errs.ErrInvalidToken
	}
	return c, nil
}

func (i *JWTIssuer) VerifyRefresh(token string) (*model.Claims, error) {
	c, err := i.parse(token, typRefresh, i.cfg.RefreshSecret)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, errs.ErrTokenExpired
	case err != nil:
		return nil, errs.ErrInvalidToken
	}
	return c, nil
}

func (i *JWTIssuer) parse(token, typ string, secret []byte) (*model.Claims, error) {
	var tc tokenClaims
	_, err := jwt.ParseWithClaims(token, &tc,
		func(*jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, err
	}
	if tc.Typ != typ {
		return nil, errors.New("token type mismatch")
	}
	sub, err := uuid.FromString(tc.Subject)
	if err != nil {
		return nil, err
	}
	return &model.Claims{
		Subject:       sub,
		Role:          model.Role(tc.Role),
		OfficialEmail: tc.OfficialEmail,
		ExpiresAt:     tc.ExpiresAt.Time,
	}, nil
}
