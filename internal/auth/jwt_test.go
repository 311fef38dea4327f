package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/Togather-Foundation/campus-events/internal/domain/ids"
)

func newProfileID(t *testing.T) string {
	t.Helper()
	id, err := ids.NewULID()
	if err != nil {
		t.Fatalf("new ulid: %v", err)
	}
	return id
}

func TestProfileTokenGenerateValidate(t *testing.T) {
	manager := NewProfileTokens("secret", time.Hour, "campus-events")
	profileID := newProfileID(t)

	token, err := manager.Generate(profileID)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	got, err := manager.Validate(token)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}
	if got != profileID {
		t.Fatalf("expected %s, got %s", profileID, got)
	}
}

func TestProfileTokenGenerateInvalid(t *testing.T) {
	manager := NewProfileTokens("secret", time.Hour, "campus-events")
	if _, err := manager.Generate("not-a-ulid"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token error, got %v", err)
	}
}

func TestProfileTokenValidateMissing(t *testing.T) {
	manager := NewProfileTokens("secret", time.Hour, "campus-events")
	if _, err := manager.Validate(" "); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected missing token error, got %v", err)
	}
}

func TestProfileTokenWrongSecret(t *testing.T) {
	token, err := NewProfileTokens("secret-a", time.Hour, "campus-events").Generate(newProfileID(t))
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if _, err := NewProfileTokens("secret-b", time.Hour, "campus-events").Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token error, got %v", err)
	}
}

func TestProfileTokenWrongIssuer(t *testing.T) {
	token, err := NewProfileTokens("secret", time.Hour, "other").Generate(newProfileID(t))
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if _, err := NewProfileTokens("secret", time.Hour, "campus-events").Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token error, got %v", err)
	}
}

func TestProfileTokenExpired(t *testing.T) {
	manager := NewProfileTokens("secret", time.Minute, "campus-events")
	issued := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	manager.now = func() time.Time { return issued }

	token, err := manager.Generate(newProfileID(t))
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	manager.now = func() time.Time { return issued.Add(2 * time.Minute) }
	if _, err := manager.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expired token to be invalid, got %v", err)
	}
}
