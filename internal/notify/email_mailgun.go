package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/leoman8109754gmailcom/mcm-cleaning/pkg/logging"
	"github.com/mailgun/mailgun-go/v4"
	"go.opentelemetry.io/otel/attribute"
)

// MailgunConfig holds configuration for Mailgun.
type MailgunConfig struct {
	APIKey    string
	Domain    string
	FromEmail string
	// APIBase overrides the API endpoint, e.g. https://api.eu.mailgun.net/v3.
	APIBase string
}

// MailgunSender sends emails through the Mailgun messages API.
type MailgunSender struct {
	client    *mailgun.MailgunImpl
	fromEmail string
	logger    *logging.Logger
}

// NewMailgunSender creates a Mailgun sender. It returns nil without an API key
// or sending domain.
func NewMailgunSender(cfg MailgunConfig, logger *logging.Logger) *MailgunSender {
	if strings.TrimSpace(cfg.APIKey) == "" || strings.TrimSpace(cfg.Domain) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	client := mailgun.NewMailgun(cfg.Domain, cfg.APIKey)
	if base := strings.TrimSpace(cfg.APIBase); base != "" {
		client.SetAPIBase(strings.TrimRight(base, "/"))
	}
	return &MailgunSender{
		client:    client,
		fromEmail: cfg.FromEmail,
		logger:    logger,
	}
}

func (s *MailgunSender) Name() string { return "mailgun" }

// Send sends one message. Template messages carry their data in the
// X-Mailgun-Variables header.
func (s *MailgunSender) Send(ctx context.Context, msg EmailMessage) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("%w: mailgun client missing", ErrNotConfigured)
	}

	ctx, span := sendTracer.Start(ctx, "notify.mailgun.send")
	defer span.End()
	span.SetAttributes(
		attribute.Bool("mcm.template", msg.UsesTemplate()),
		attribute.String("mcm.mailgun_domain", s.client.Domain()),
	)

	from := msg.From
	if from == "" {
		from = s.fromEmail
	}

	var message *mailgun.Message
	if msg.UsesTemplate() {
		message = s.client.NewMessage(from, msg.Subject, "", msg.To)
		message.SetTemplate(msg.Template)
		if msg.Variables != "" {
			message.AddHeader("X-Mailgun-Variables", msg.Variables)
		}
	} else {
		message = s.client.NewMessage(from, msg.Subject, msg.Body, msg.To)
		if msg.HTML != "" {
			message.SetHtml(msg.HTML)
		}
	}

	status, id, err := s.client.Send(ctx, message)
	if err != nil {
		span.RecordError(err)
		s.logger.Error("mailgun send failed", "error", err, "to", msg.To, "domain", s.client.Domain())
		return fmt.Errorf("notify: mailgun send failed: %w", err)
	}

	s.logger.Info("email sent via mailgun", "to", msg.To, "subject", msg.Subject, "message_id", id, "status", status)
	return nil
}

var _ EmailSender = (*MailgunSender)(nil)
