package sealer

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
)

const randomBytes = 32

var ErrInvalidToken = errors.New("invalid token format")

// Sealer turns a subject into an opaque, URL-safe token with AES-GCM and
// recovers the subject from it.
type Sealer struct {
	aead cipher.AEAD
}

// New builds a Sealer from a base64 encoded AES key of 16, 24 or 32 bytes.
func New(encodedKey string) (*Sealer, error) {
	key, err := base64.StdEncoding.DecodeString(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("decode sealing key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}

	return &Sealer{aead: aead}, nil
}

// CreateOpaqueToken seals "subject:random". Two calls with the same subject
// never return the same token.
func (s *Sealer) CreateOpaqueToken(subject string) (string, error) {
	random := make([]byte, randomBytes)
	if _, err := io.ReadFull(rand.Reader, random); err != nil {
		return "", err
	}
	plaintext := []byte(subject + ":" + base64.RawURLEncoding.EncodeToString(random))

	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	ct := s.aead.Seal(nonce, nonce, plaintext, nil)
	return base64.RawURLEncoding.EncodeToString(ct), nil
}

// ParseOpaqueToken returns the subject sealed into token.
func (s *Sealer) ParseOpaqueToken(token string) (string, error) {
	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", ErrInvalidToken
	}

	nonceSize := s.aead.NonceSize()
	if len(data) < nonceSize {
		return "", ErrInvalidToken
	}
	nonce, ciphertext := data[:nonceSize], data[nonceSize:]

	pt, err := s.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrInvalidToken
	}

	i := strings.LastIndex(string(pt), ":")
	if i <= 0 {
		return "", ErrInvalidToken
	}

	return string(pt[:i]), nil
}
