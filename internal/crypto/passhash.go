// Package crypto implements server-side secret hashing and field encryption.
package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/and161185/nhh/internal/errs"
)

// Argon2id parameters (tuned for server-side hashing).
const (
	argonTime    uint32 = 3         // iterations
	argonMemory  uint32 = 64 * 1024 // 64 MB
	argonThreads uint8  = 1
	argonKeyLen  uint32 = 32
	argonSaltLen        = 16

	argonVersion = 19
)

// Params controls the Argon2id work factor.
type Params struct {
	Time    uint32
	Memory  uint32 // KiB
	Threads uint8
	KeyLen  uint32
	SaltLen int
}

// DefaultParams are used in production.
var DefaultParams = Params{
	Time:    argonTime,
	Memory:  argonMemory,
	Threads: argonThreads,
	KeyLen:  argonKeyLen,
	SaltLen: argonSaltLen,
}

// Hasher hashes secrets one-way and verifies candidates against stored hashes.
type Hasher interface {
	// Hash returns a salted, self-describing hash; two calls on the same secret differ.
	Hash(secret string) (string, error)
	// Verify reports whether candidate matches encoded. It fails only on a malformed hash.
	Verify(encoded, candidate string) (bool, error)
}

// Argon2Hasher is a Hasher producing PHC strings:
// $argon2id$v=19$m=<mem>,t=<iter>,p=<par>$<salt_b64>$<hash_b64>
type Argon2Hasher struct{ P Params }

// NewArgon2Hasher returns a hasher with the given parameters.
func NewArgon2Hasher(p Params) *Argon2Hasher { return &Argon2Hasher{P: p} }

// RandBytes returns n cryptographically secure random bytes.
func RandBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	return b, err
}

// HashSecret hashes secret with DefaultParams.
func HashSecret(secret string) (string, error) {
	return NewArgon2Hasher(DefaultParams).Hash(secret)
}

// VerifySecret verifies candidate against an encoded hash produced by any Argon2Hasher.
func VerifySecret(encoded, candidate string) (bool, error) {
	return NewArgon2Hasher(DefaultParams).Verify(encoded, candidate)
}

// Hash returns the PHC-encoded Argon2id hash of secret under a fresh random salt.
func (h *Argon2Hasher) Hash(secret string) (string, error) {
	salt, err := RandBytes(h.P.SaltLen)
	if err != nil {
		return "", fmt.Errorf("salt: %w", err)
	}
	key := argon2.IDKey([]byte(secret), salt, h.P.Time, h.P.Memory, h.P.Threads, h.P.KeyLen)

	b64 := base64.RawStdEncoding
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argonVersion, h.P.Memory, h.P.Time, h.P.Threads,
		b64.EncodeToString(salt), b64.EncodeToString(key),
	), nil
}

// Verify recomputes the hash with the parameters stored in encoded and compares in constant time.
// Mismatch yields (false, nil); a malformed or out-of-bounds hash yields errs.ErrInvalidHash.
func (h *Argon2Hasher) Verify(encoded, candidate string) (bool, error) {
	p, salt, want, err := decodePHC(encoded)
	if err != nil {
		return false, err
	}
	// refuse attacker-inflated parameters
	if p.Memory > 2*max(h.P.Memory, argonMemory) || p.Time > 2*max(h.P.Time, argonTime) {
		return false, errs.ErrInvalidHash
	}
	got := argon2.IDKey([]byte(candidate), salt, p.Time, p.Memory, p.Threads, uint32(len(want))) // #nosec G115 -- bounded by decodePHC
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

func decodePHC(encoded string) (Params, []byte, []byte, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return Params{}, nil, nil, errs.ErrInvalidHash
	}
	if parts[2] != fmt.Sprintf("v=%d", argonVersion) {
		return Params{}, nil, nil, errs.ErrInvalidHash
	}
	var mem, it, par uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &it, &par); err != nil {
		return Params{}, nil, nil, errs.ErrInvalidHash
	}
	if mem == 0 || it == 0 || par == 0 || par > 255 {
		return Params{}, nil, nil, errs.ErrInvalidHash
	}
	b64 := base64.RawStdEncoding
	salt, err := b64.DecodeString(parts[4])
	if err != nil || len(salt) < 8 || len(salt) > 64 {
		return Params{}, nil, nil, errs.ErrInvalidHash
	}
	key, err := b64.DecodeString(parts[5])
	if err != nil || len(key) < 16 || len(key) > 128 {
		return Params{}, nil, nil, errs.ErrInvalidHash
	}
	return Params{Time: it, Memory: mem, Threads: uint8(par), KeyLen: uint32(len(key)), SaltLen: len(salt)}, salt, key, nil
}
