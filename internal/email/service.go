package email

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/mail"
	"strings"
	"time"

	"github.com/Togather-Foundation/campus-events/internal/config"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Sender is the part of the Resend client used to deliver mail.
type Sender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// Service sends notification emails through Resend.
type Service struct {
	config    config.EmailConfig
	sender    Sender
	templates *template.Template
	logger    zerolog.Logger
}

// ContactData holds data for rendering the contact notification template.
type ContactData struct {
	Name      string
	Email     string
	Message   string
	Timestamp time.Time
}

// NewService builds the service from config. When email is disabled no
// Resend client is created and sends are logged and skipped.
func NewService(cfg config.EmailConfig, logger zerolog.Logger) (*Service, error) {
	var sender Sender
	if cfg.Enabled {
		if err := validateEmailAddress(cfg.From); err != nil {
			return nil, fmt.Errorf("invalid sender email in config: %w", err)
		}
		if err := validateEmailAddress(cfg.ContactInbox); err != nil {
			return nil, fmt.Errorf("invalid contact inbox in config: %w", err)
		}
		sender = resend.NewClient(cfg.ResendAPIKey).Emails
	}
	return NewServiceWithSender(cfg, sender, logger)
}

// NewServiceWithSender is NewService with an explicit transport.
func NewServiceWithSender(cfg config.EmailConfig, sender Sender, logger zerolog.Logger) (*Service, error) {
	templates, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}
	return &Service{
		config:    cfg,
		sender:    sender,
		templates: templates,
		logger:    logger.With().Str("component", "email").Logger(),
	}, nil
}

// Enabled reports whether emails are actually delivered.
func (s *Service) Enabled() bool {
	return s.config.Enabled && s.sender != nil
}

// NotifyContact emails the contact inbox about a new submission.
func (s *Service) NotifyContact(ctx context.Context, data ContactData) error {
	if !s.Enabled() {
		s.logger.Debug().Msg("email service disabled, skipping contact notification")
		return nil
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "contact.html", data); err != nil {
		return fmt.Errorf("failed to render contact template: %w", err)
	}

	subject := "New contact message from " + strings.Join(strings.Fields(data.Name), " ")
	params := &resend.SendEmailRequest{
		From:    s.config.From,
		To:      []string{s.config.ContactInbox},
		Subject: subject,
		Html:    body.String(),
	}
	if validateEmailAddress(data.Email) == nil {
		params.ReplyTo = data.Email
	}
	return s.send(ctx, params)
}

// send hands the message to Resend. Rate limit errors are reported, not retried.
func (s *Service) send(ctx context.Context, params *resend.SendEmailRequest) error {
	sent, err := s.sender.SendWithContext(ctx, params)
	if err != nil {
		var rateLimitErr *resend.RateLimitError
		if errors.As(err, &rateLimitErr) {
			s.logger.Warn().
				Str("limit", rateLimitErr.Limit).
				Str("remaining", rateLimitErr.Remaining).
				Str("reset", rateLimitErr.Reset).
				Msg("resend rate limit exceeded")
			return fmt.Errorf("email rate limit exceeded (limit: %s, resets in: %s seconds): %w",
				rateLimitErr.Limit, rateLimitErr.Reset, err)
		}
		return fmt.Errorf("resend API error: %w", err)
	}

	s.logger.Info().
		Str("email_id", sent.Id).
		Strs("to", params.To).
		Msg("email sent via Resend")
	return nil
}

// validateEmailAddress rejects malformed addresses and header injection.
func validateEmailAddress(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return fmt.Errorf("invalid email format: %w", err)
	}
	if strings.ContainsAny(addr.Address, "\r\n") {
		return fmt.Errorf("invalid email address: contains newline characters")
	}
	return nil
}
