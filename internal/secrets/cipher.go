// Package secrets encrypts provider credentials at rest.
package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// keySalt binds the derived key to the credential vault even when the
	// master secret is shared with other deployments.
	keySalt       = "taskdeck-credential-vault-v1"
	keyIterations = 120_000
	keyLength     = 32
	tagLength     = 16
	segmentCount  = 3
	delimiter     = ":"
)

// ErrInvalidCredentialFormat is returned when a stored blob has the wrong
// segment count, bad base64, or fails tag verification.
var ErrInvalidCredentialFormat = errors.New("invalid credential format")

// Cipher performs authenticated encryption of credential strings with a key
// derived from the process-wide master secret.
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher derives the AEAD key from masterSecret. An empty master secret is
// a startup misconfiguration, not a per-call condition.
func NewCipher(masterSecret string) (*Cipher, error) {
	if strings.TrimSpace(masterSecret) == "" {
		return nil, errors.New("master secret is required")
	}

	key := pbkdf2.Key([]byte(masterSecret), []byte(keySalt), keyIterations, keyLength, sha256.New)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("init gcm: %w", err)
	}
	return &Cipher{aead: aead}, nil
}

// Encrypt seals plaintext with a fresh random nonce and returns the blob as
// base64 segments nonce:tag:ciphertext, safe to store as text.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	sealed := c.aead.Seal(nil, nonce, []byte(plaintext), nil)
	ciphertext := sealed[:len(sealed)-tagLength]
	tag := sealed[len(sealed)-tagLength:]

	segments := []string{
		base64.StdEncoding.EncodeToString(nonce),
		base64.StdEncoding.EncodeToString(tag),
		base64.StdEncoding.EncodeToString(ciphertext),
	}
	return strings.Join(segments, delimiter), nil
}

// Decrypt opens a blob produced by Encrypt. A wrong segment count or a tag
// that does not verify yields ErrInvalidCredentialFormat; corrupted data is
// never returned as plaintext.
func (c *Cipher) Decrypt(blob string) (string, error) {
	segments := strings.Split(blob, delimiter)
	if len(segments) != segmentCount {
		return "", ErrInvalidCredentialFormat
	}

	nonce, err := base64.StdEncoding.DecodeString(segments[0])
	if err != nil || len(nonce) != c.aead.NonceSize() {
		return "", ErrInvalidCredentialFormat
	}
	tag, err := base64.StdEncoding.DecodeString(segments[1])
	if err != nil || len(tag) != tagLength {
		return "", ErrInvalidCredentialFormat
	}
	ciphertext, err := base64.StdEncoding.DecodeString(segments[2])
	if err != nil {
		return "", ErrInvalidCredentialFormat
	}

	plaintext, err := c.aead.Open(nil, nonce, append(ciphertext, tag...), nil)
	if err != nil {
		return "", ErrInvalidCredentialFormat
	}
	return string(plaintext), nil
}

// Mask returns a display-only form of a credential: short secrets keep the
// first and last 2 characters, longer ones the first 4 and last 6. Nil means
// no credential is stored.
func Mask(plaintext *string) *string {
	if plaintext == nil {
		return nil
	}
	s := *plaintext
	var masked string
	switch {
	case len(s) <= 4:
		masked = "****"
	case len(s) <= 8:
		masked = s[:2] + "****" + s[len(s)-2:]
	default:
		masked = s[:4] + "****" + s[len(s)-6:]
	}
	return &masked
}
