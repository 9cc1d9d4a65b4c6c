package repository

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"

	"github.com/scidepot/depot/errors"
)

// NewSessionToken returns a cryptographically random bearer token, 64 bytes
// rendered as 128 hex characters.
func NewSessionToken() (string, error) {
	buffer := make([]byte, 64)
	if _, err := rand.Read(buffer); err != nil {
		return "", errors.WrapFatal(err, component, "NewSessionToken", "reading random bytes failed")
	}
	return hex.EncodeToString(buffer), nil
}

// NewPrivateLinkID returns a random URL-safe identifier for a private link.
func NewPrivateLinkID() (string, error) {
	buffer := make([]byte, 24)
	if _, err := rand.Read(buffer); err != nil {
		return "", errors.WrapFatal(err, component, "NewPrivateLinkID", "reading random bytes failed")
	}
	return base64.RawURLEncoding.EncodeToString(buffer), nil
}
