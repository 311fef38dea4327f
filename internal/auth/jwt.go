package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/Togather-Foundation/campus-events/internal/domain/ids"
	"github.com/golang-jwt/jwt/v5"
)

// Claims identify a visitor profile. The subject is the profile ULID.
type Claims struct {
	jwt.RegisteredClaims
}

// ProfileTokens signs and verifies the profile cookie value.
type ProfileTokens struct {
	secret []byte
	expiry time.Duration
	issuer string
	now    func() time.Time
}

var (
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
)

func NewProfileTokens(secret string, expiry time.Duration, issuer string) *ProfileTokens {
	return &ProfileTokens{
		secret: []byte(secret),
		expiry: expiry,
		issuer: issuer,
		now:    time.Now,
	}
}

// Expiry is the lifetime of issued tokens.
func (m *ProfileTokens) Expiry() time.Duration {
	return m.expiry
}

// Generate signs a token for profileID.
func (m *ProfileTokens) Generate(profileID string) (string, error) {
	if !ids.IsULID(profileID) {
		return "", ErrInvalidToken
	}

	now := m.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   profileID,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Validate verifies tokenString and returns the profile id it names.
func (m *ProfileTokens) Validate(tokenString string) (string, error) {
	if strings.TrimSpace(tokenString) == "" {
		return "", ErrMissingToken
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	},
		jwt.WithIssuer(m.issuer),
		jwt.WithTimeFunc(m.now),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return "", ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || !ids.IsULID(claims.Subject) {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
