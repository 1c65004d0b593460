// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import (
	"errors"
	"fmt"
)

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateIdentity indicates an officer with the same official e-mail already exists.
	ErrDuplicateIdentity = errors.New("an officer already exists with this official e-mail")

	// ErrInvalidCredentials is returned by login for unknown e-mail and wrong service number alike.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrVerificationFailed is the Verify counterpart of ErrInvalidCredentials.
	ErrVerificationFailed = errors.New("unable to verify officer")

	// ErrInvalidToken indicates a token with a bad signature, wrong kind, or bad claims.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired indicates an otherwise well-formed token past its expiry.
	// It wraps ErrInvalidToken, so errors.Is(err, ErrInvalidToken) holds as well.
	ErrTokenExpired = fmt.Errorf("%w: expired", ErrInvalidToken)

	// ErrRevokedToken indicates a structurally valid refresh token with no live session.
	ErrRevokedToken = errors.New("refresh token revoked")

	// ErrUnauthenticated indicates a missing or unusable bearer credential.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden indicates an authenticated caller without the required clearance.
	ErrForbidden = errors.New("clearance denied")

	// ErrDecryption indicates a protected field could not be opened (wrong key, tampering, garbage).
	ErrDecryption = errors.New("decryption failed")

	// ErrInvalidHash indicates a stored hash that cannot be parsed.
	ErrInvalidHash = errors.New("invalid hash")

	// ErrUnsupportedDuration indicates a duration string outside ^\d+[smhdw]$.
	ErrUnsupportedDuration = errors.New("unsupported duration format")

	// ErrValidation indicates malformed caller input.
	ErrValidation = errors.New("validation")

	// ErrRateLimited indicates temporary login lock due to repeated failures.
	ErrRateLimited = errors.New("rate limited")
)
