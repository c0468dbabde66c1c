// Package refcodec turns internal numeric IDs into opaque URL-safe tokens
// and back. Tokens hide raw IDs from clients; they are not an authorization
// mechanism, every decoded ID still has to pass the ownership checks.
package refcodec

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// ErrBadReference is returned for tokens that were not produced by Encode
// with the same key: malformed, truncated, tampered or foreign.
var ErrBadReference = errors.New("bad reference")

// ErrEmptySecret is returned by New when no secret is configured.
var ErrEmptySecret = errors.New("refcodec: empty secret")

const (
	idSize   = 8
	hkdfInfo = "go-marketplace-toko/refcodec/v1"
)

// Codec encodes and decodes opaque references.
type Codec interface {
	Encode(id uint) (string, error)
	Decode(token string) (uint, error)
}

// AEADCodec seals IDs with XChaCha20-Poly1305 under a random nonce, so the
// same ID yields a different token on every call.
type AEADCodec struct {
	aead cipher.AEAD
}

// New derives the codec key from secret via HKDF-SHA256.
func New(secret string) (*AEADCodec, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}

	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(hkdfInfo)), key); err != nil {
		return nil, err
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	return &AEADCodec{aead: aead}, nil
}

func (c *AEADCodec) Encode(id uint) (string, error) {
	nonce := make([]byte, c.aead.NonceSize(), c.aead.NonceSize()+idSize+c.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	plain := make([]byte, idSize)
	binary.BigEndian.PutUint64(plain, uint64(id))

	sealed := c.aead.Seal(nonce, nonce, plain, nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

func (c *AEADCodec) Decode(token string) (uint, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return 0, ErrBadReference
	}
	if len(raw) != c.aead.NonceSize()+idSize+c.aead.Overhead() {
		return 0, ErrBadReference
	}

	nonce, sealed := raw[:c.aead.NonceSize()], raw[c.aead.NonceSize():]
	plain, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return 0, ErrBadReference
	}

	id := binary.BigEndian.Uint64(plain)
	if id == 0 || uint64(uint(id)) != id {
		return 0, ErrBadReference
	}
	return uint(id), nil
}
