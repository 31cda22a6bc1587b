package storage

import (
	"context"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"github.com/boddenberg/sarathi-client-go/internal/port"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

var hkdfSalt = []byte("sarathi-kv-v1")

// ErrSealedValue is returned when a stored value fails authentication,
// usually because the storage secret changed.
var ErrSealedValue = errors.New("sealed value could not be opened")

// Sealed encrypts values at rest with XChaCha20-Poly1305. The entry key is
// bound as additional data so values cannot be swapped between keys.
type Sealed struct {
	inner port.KVStore
	aead  cipher.AEAD
}

// NewSealed wraps inner, deriving the cipher key from secret with HKDF-SHA256.
func NewSealed(inner port.KVStore, secret string) (*Sealed, error) {
	if secret == "" {
		return nil, errors.New("storage secret is empty")
	}

	key := make([]byte, chacha20poly1305.KeySize)
	kdf := hkdf.New(sha256.New, []byte(secret), hkdfSalt, []byte("kv-encryption"))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}

	return &Sealed{inner: inner, aead: aead}, nil
}

func (s *Sealed) Get(ctx context.Context, key string) ([]byte, error) {
	raw, err := s.inner.Get(ctx, key)
	if err != nil || raw == nil {
		return raw, err
	}

	ns := s.aead.NonceSize()
	if len(raw) < ns+s.aead.Overhead() {
		return nil, fmt.Errorf("kv[%s]: %w", key, ErrSealedValue)
	}

	plain, err := s.aead.Open(nil, raw[:ns], raw[ns:], []byte(key))
	if err != nil {
		return nil, fmt.Errorf("kv[%s]: %w", key, ErrSealedValue)
	}
	return plain, nil
}

func (s *Sealed) Set(ctx context.Context, key string, value []byte) error {
	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(value)+s.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("generate nonce: %w", err)
	}
	return s.inner.Set(ctx, key, s.aead.Seal(nonce, nonce, value, []byte(key)))
}

func (s *Sealed) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, key)
}

func (s *Sealed) Ping(ctx context.Context) error {
	return s.inner.Ping(ctx)
}

func (s *Sealed) Close() error {
	return s.inner.Close()
}
