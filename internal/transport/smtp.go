package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/wneessen/go-mail"

	"github.com/MartyrMind/email-cli-app/internal/config"
	"github.com/MartyrMind/email-cli-app/internal/message"
	"github.com/MartyrMind/email-cli-app/internal/task"
)

// Configuration errors. Both fail the attempt before any network I/O.
var (
	ErrUnknownProfile = errors.New("unknown server profile")
	ErrNotConfigured  = errors.New("server profile credentials not configured")
)

// SMTP is the real transport: it resolves the task's server profile and
// transmits the built message over an authenticated TLS session.
type SMTP struct {
	profiles *config.ProfileRegistry
	logger   *slog.Logger
}

// NewSMTP creates the SMTP transport backed by the given profile registry.
func NewSMTP(profiles *config.ProfileRegistry, logger *slog.Logger) *SMTP {
	return &SMTP{profiles: profiles, logger: logger}
}

// Name returns the transport identifier.
func (s *SMTP) Name() string { return "smtp" }

// Send transmits msg to recipient through the task's named profile. Unknown
// or unconfigured profiles fail immediately without a connection attempt.
// The session is dialed exactly once; any protocol failure is returned as a
// plain error for the dispatcher to report.
func (s *SMTP) Send(ctx context.Context, t task.EmailTask, msg *message.Message, recipient string) error {
	profile, ok := s.profiles.Get(t.Profile)
	if !ok {
		s.logger.Error("unknown server profile",
			"task_id", t.ID, "profile", t.Profile, "available", s.profiles.Names())
		return fmt.Errorf("%w: %q", ErrUnknownProfile, t.Profile)
	}

	if !profile.Configured() {
		missing := "password"
		if profile.Address == "" {
			missing = "address"
		}
		s.logger.Error("server profile not configured",
			"task_id", t.ID, "profile", t.Profile, "missing", missing)
		return fmt.Errorf("%w: profile %q is missing %s", ErrNotConfigured, t.Profile, missing)
	}

	m, err := s.assemble(profile, msg, recipient)
	if err != nil {
		return err
	}

	client, err := s.newClient(profile)
	if err != nil {
		return fmt.Errorf("creating mail client for %q: %w", t.Profile, err)
	}

	s.logger.Info("sending via smtp",
		"task_id", t.ID, "recipient", recipient,
		"profile", t.Profile, "host", profile.Host, "port", profile.Port)

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("sending via %s:%d: %w", profile.Host, profile.Port, err)
	}
	return nil
}

// assemble builds the wire message for one recipient: plain text first as the
// fallback, HTML as the richer alternative, then the attachments.
func (s *SMTP) assemble(profile config.ServerProfile, msg *message.Message, recipient string) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(profile.Address); err != nil {
		return nil, fmt.Errorf("invalid sender address %q: %w", profile.Address, err)
	}
	if err := m.To(recipient); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", recipient, err)
	}

	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Text)
	m.AddAlternativeString(mail.TypeTextHTML, msg.HTML)

	for _, att := range msg.Attachments {
		err := m.AttachReader(att.Filename, bytes.NewReader(att.Content),
			mail.WithFileContentType(mail.ContentType(att.ContentType)))
		if err != nil {
			return nil, fmt.Errorf("attaching %q: %w", att.Filename, err)
		}
	}

	return m, nil
}

// newClient builds a go-mail client honoring the profile's TLS discipline:
// implicit TLS opens an SSL session on connect (port 465 style), STARTTLS
// connects in plaintext and requires the upgrade (port 587 style).
func (s *SMTP) newClient(profile config.ServerProfile) (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithPort(profile.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(profile.Address),
		mail.WithPassword(profile.Password),
	}
	if profile.TLS == config.TLSImplicit {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	}
	return mail.NewClient(profile.Host, opts...)
}
