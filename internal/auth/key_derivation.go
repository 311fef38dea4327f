package auth

import (
	"crypto/sha256"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	// DerivedKeyLength is the length of derived keys in bytes (32 bytes = 256 bits for HMAC-SHA256)
	DerivedKeyLength = 32

	// Key derivation purpose strings for HKDF
	purposeProfileToken = "campus-events-profile-jwt-v1"
	purposeCSRF         = "campus-events-csrf-v1"
)

// ErrInvalidMasterSecret is returned when the master secret is invalid
var ErrInvalidMasterSecret = errors.New("master secret cannot be empty")

// DeriveKey derives a 32-byte key from masterSecret using HKDF-SHA256.
// Keys derived with different purpose strings are independent.
func DeriveKey(masterSecret []byte, purpose string) ([]byte, error) {
	if len(masterSecret) == 0 {
		return nil, ErrInvalidMasterSecret
	}

	// salt=nil is acceptable per RFC 5869 (defaults to zeros)
	reader := hkdf.New(sha256.New, masterSecret, nil, []byte(purpose))

	derivedKey := make([]byte, DerivedKeyLength)
	if _, err := io.ReadFull(reader, derivedKey); err != nil {
		return nil, err
	}
	return derivedKey, nil
}

// DeriveProfileKey derives the HMAC key that signs profile cookies.
func DeriveProfileKey(secret []byte) ([]byte, error) {
	return DeriveKey(secret, purposeProfileToken)
}

// DeriveCSRFKey derives the 32-byte authentication key for CSRF tokens
// from a configured secret of any length.
func DeriveCSRFKey(secret []byte) ([]byte, error) {
	return DeriveKey(secret, purposeCSRF)
}
