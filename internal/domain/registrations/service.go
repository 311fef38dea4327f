// Package registrations implements signing up the logged-in user for a
// catalog event.
package registrations

import (
	"context"
	"errors"
	"fmt"

	"github.com/Togather-Foundation/campus-events/internal/domain/accounts"
	"github.com/Togather-Foundation/campus-events/internal/domain/catalog"
	"github.com/Togather-Foundation/campus-events/internal/metrics"
	"github.com/rs/zerolog"
)

var (
	ErrEventNotFound = errors.New("event not found")
	ErrAuthRequired  = errors.New("login required")
)

// Catalog is the source of events; every call reads it fresh.
type Catalog interface {
	Load(ctx context.Context) ([]catalog.Event, error)
}

// Sessions is the slice of the account manager registration needs.
type Sessions interface {
	IsAuthenticated(ctx context.Context, profileID string) bool
	CurrentUser(ctx context.Context, profileID string) (accounts.Session, bool)
	AddRegistration(ctx context.Context, email string, eventID int64) error
}

type Service struct {
	catalog  Catalog
	sessions Sessions
	logger   zerolog.Logger
}

func NewService(catalog Catalog, sessions Sessions, logger zerolog.Logger) *Service {
	return &Service{
		catalog:  catalog,
		sessions: sessions,
		logger:   logger.With().Str("component", "registrations").Logger(),
	}
}

// Register adds eventID to the account behind profileID's session and
// returns the event. Errors, in the order they are checked:
//   - catalog.ErrFetch / catalog.ErrDecode when the catalog cannot be loaded
//   - ErrEventNotFound when no event has that id
//   - ErrAuthRequired when the profile has no usable session
//   - accounts.ErrAlreadyRegistered when the event is already registered
func (s *Service) Register(ctx context.Context, profileID string, eventID int64) (catalog.Event, error) {
	events, err := s.catalog.Load(ctx)
	if err != nil {
		metrics.EventRegistrations.WithLabelValues("error").Inc()
		return catalog.Event{}, err
	}
	event, ok := catalog.Find(events, eventID)
	if !ok {
		metrics.EventRegistrations.WithLabelValues("not_found").Inc()
		return catalog.Event{}, ErrEventNotFound
	}

	if !s.sessions.IsAuthenticated(ctx, profileID) {
		metrics.EventRegistrations.WithLabelValues("unauthenticated").Inc()
		return event, ErrAuthRequired
	}
	session, ok := s.sessions.CurrentUser(ctx, profileID)
	if !ok {
		s.logger.Warn().Str("profile_id", profileID).Msg("authenticated flag without session record")
		metrics.EventRegistrations.WithLabelValues("unauthenticated").Inc()
		return event, ErrAuthRequired
	}

	err = s.sessions.AddRegistration(ctx, session.Email, eventID)
	switch {
	case err == nil:
		metrics.EventRegistrations.WithLabelValues("success").Inc()
		s.logger.Info().Int64("event_id", eventID).Str("profile_id", profileID).Msg("registered for event")
		return event, nil
	case errors.Is(err, accounts.ErrAlreadyRegistered):
		metrics.EventRegistrations.WithLabelValues("duplicate").Inc()
		return event, err
	case errors.Is(err, accounts.ErrAccountNotFound):
		s.logger.Warn().Str("profile_id", profileID).Msg("session account no longer exists")
		metrics.EventRegistrations.WithLabelValues("unauthenticated").Inc()
		return event, ErrAuthRequired
	default:
		metrics.EventRegistrations.WithLabelValues("error").Inc()
		return event, fmt.Errorf("register for event %d: %w", eventID, err)
	}
}
