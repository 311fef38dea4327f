// Package contact accepts messages from the home page contact form.
package contact

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Togather-Foundation/campus-events/internal/email"
	"github.com/Togather-Foundation/campus-events/internal/metrics"
	"github.com/Togather-Foundation/campus-events/internal/sanitize"
	"github.com/Togather-Foundation/campus-events/internal/storage"
	"github.com/Togather-Foundation/campus-events/internal/validation"
	"github.com/rs/zerolog"
)

const notifyTimeout = 10 * time.Second

// Submission is one stored contact message.
type Submission struct {
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Notifier is told about each accepted submission.
type Notifier interface {
	NotifyContact(ctx context.Context, data email.ContactData) error
}

// Service appends contact submissions to the global contactSubmissions list.
type Service struct {
	store    *storage.Adapter
	notifier Notifier
	now      func() time.Time
	logger   zerolog.Logger

	mu sync.Mutex
}

// NewService creates the contact service. notifier may be nil.
func NewService(store *storage.Adapter, notifier Notifier, logger zerolog.Logger) *Service {
	return &Service{
		store:    store,
		notifier: notifier,
		now:      time.Now,
		logger:   logger.With().Str("component", "contact").Logger(),
	}
}

// Submit validates and stores a message. HTML is stripped from every field
// before validation. A validation.Errors lists each failing field.
func (s *Service) Submit(ctx context.Context, name, emailAddr, message string) (Submission, error) {
	form := validation.ContactForm{
		Name:    sanitize.Text(name),
		Email:   sanitize.Text(emailAddr),
		Message: sanitize.Text(message),
	}
	form.Normalize()
	if err := validation.Struct(form); err != nil {
		return Submission{}, err
	}

	sub := Submission{
		Name:      form.Name,
		Email:     form.Email,
		Message:   form.Message,
		Timestamp: s.now().UTC(),
	}
	if err := s.append(ctx, sub); err != nil {
		return Submission{}, err
	}
	metrics.ContactSubmissions.WithLabelValues("stored").Inc()

	s.notify(ctx, sub)
	return sub, nil
}

func (s *Service) append(ctx context.Context, sub Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var list []Submission
	if _, err := s.store.Global().Lookup(ctx, storage.KeyContactSubmissions, &list); err != nil {
		return fmt.Errorf("load contact submissions: %w", err)
	}
	list = append(list, sub)
	if err := s.store.Global().Set(ctx, storage.KeyContactSubmissions, list); err != nil {
		return fmt.Errorf("save contact submission: %w", err)
	}
	return nil
}

// notify delivers the email notification; failures are logged only.
func (s *Service) notify(ctx context.Context, sub Submission) {
	if s.notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	err := s.notifier.NotifyContact(ctx, email.ContactData{
		Name:      sub.Name,
		Email:     sub.Email,
		Message:   sub.Message,
		Timestamp: sub.Timestamp,
	})
	if err != nil {
		metrics.ContactSubmissions.WithLabelValues("notify_failed").Inc()
		s.logger.Error().Err(err).Msg("contact notification failed")
		return
	}
	metrics.ContactSubmissions.WithLabelValues("notified").Inc()
}

// List returns every stored submission, oldest first.
func (s *Service) List(ctx context.Context) ([]Submission, error) {
	var list []Submission
	if _, err := s.store.Global().Lookup(ctx, storage.KeyContactSubmissions, &list); err != nil {
		return nil, fmt.Errorf("load contact submissions: %w", err)
	}
	return list, nil
}
