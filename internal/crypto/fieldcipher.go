package crypto

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"

	"github.com/and161185/nhh/internal/errs"
)

const (
	fieldKeyInfo = "nhh field cipher v1"
	tagSize      = chacha20poly1305.Overhead
)

// deriveFieldKey stretches a configured secret string into an XChaCha20-Poly1305 key.
func deriveFieldKey(secret string) ([]byte, error) {
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte(fieldKeyInfo))
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, err
	}
	return key, nil
}

// Seal encrypts plaintext under secret with a fresh random nonce.
// The result is base64(nonce || tag || ciphertext) and is self-describing given the secret.
func Seal(plaintext, secret string) (string, error) {
	key, err := deriveFieldKey(secret)
	if err != nil {
		return "", err
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return "", err
	}
	nonce, err := RandBytes(chacha20poly1305.NonceSizeX)
	if err != nil {
		return "", err
	}
	// Seal appends the tag after the ciphertext; move it in front.
	sealed := aead.Seal(nil, nonce, []byte(plaintext), nil)
	ct, tag := sealed[:len(sealed)-tagSize], sealed[len(sealed)-tagSize:]

	out := make([]byte, 0, len(nonce)+len(sealed))
	out = append(out, nonce...)
	out = append(out, tag...)
	out = append(out, ct...)
	return base64.StdEncoding.EncodeToString(out), nil
}

// Open reverses Seal. Any failure (encoding, length, key, integrity) wraps errs.ErrDecryption.
func Open(blob, secret string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return "", fmt.Errorf("%w: bad encoding", errs.ErrDecryption)
	}
	if len(data) < chacha20poly1305.NonceSizeX+tagSize {
		return "", fmt.Errorf("%w: blob too short", errs.ErrDecryption)
	}
	key, err := deriveFieldKey(secret)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errs.ErrDecryption, err)
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errs.ErrDecryption, err)
	}
	nonce := data[:chacha20poly1305.NonceSizeX]
	tag := data[chacha20poly1305.NonceSizeX : chacha20poly1305.NonceSizeX+tagSize]
	ct := data[chacha20poly1305.NonceSizeX+tagSize:]

	sealed := make([]byte, 0, len(ct)+tagSize)
	sealed = append(sealed, ct...)
	sealed = append(sealed, tag...)
	pt, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("%w: authentication failed", errs.ErrDecryption)
	}
	return string(pt), nil
}

// FieldCipher binds Seal/Open to a server secret.
type FieldCipher struct{ secret string }

// NewFieldCipher returns a cipher keyed by secret.
func NewFieldCipher(secret string) *FieldCipher { return &FieldCipher{secret: secret} }

// Seal encrypts plaintext with the bound secret.
func (c *FieldCipher) Seal(plaintext string) (string, error) { return Seal(plaintext, c.secret) }

// Open decrypts blob with the bound secret.
func (c *FieldCipher) Open(blob string) (string, error) { return Open(blob, c.secret) }
