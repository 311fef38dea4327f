// Package accounts owns the user account list and the per-profile session
// records derived from it.
package accounts

import (
	"errors"
	"slices"
	"time"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrAlreadyRegistered  = errors.New("already registered for event")
	ErrAccountNotFound    = errors.New("account not found")
)

// Account is a registered user. The list of accounts is stored under the
// global users key.
type Account struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"passwordHash"`
	RegisteredEvents []int64   `json:"registeredEvents"`
	CreatedAt        time.Time `json:"createdAt"`
}

// IsRegistered reports whether eventID is already in the account's registrations.
func (a Account) IsRegistered(eventID int64) bool {
	return slices.Contains(a.RegisteredEvents, eventID)
}

// Summary is an account without its password hash.
type Summary struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	RegisteredEvents []int64   `json:"registeredEvents"`
	CreatedAt        time.Time `json:"createdAt"`
}

func (a Account) Summary() Summary {
	return Summary{
		ID:               a.ID,
		Name:             a.Name,
		Email:            a.Email,
		RegisteredEvents: slices.Clone(a.RegisteredEvents),
		CreatedAt:        a.CreatedAt,
	}
}

// Session marks a profile as logged in as an account.
type Session struct {
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	LoginTime time.Time `json:"loginTime"`
}

// UserInfo is the dashboard view of the session's account.
type UserInfo struct {
	Name             string  `json:"name"`
	Email            string  `json:"email"`
	RegisteredEvents []int64 `json:"registeredEvents"`
}

func findByEmail(users []Account, email string) int {
	return slices.IndexFunc(users, func(a Account) bool { return a.Email == email })
}
