package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	netmail "net/mail"
	"strings"

	"github.com/leoman8109754gmailcom/mcm-cleaning/pkg/logging"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var sendTracer = otel.Tracer("mcm.internal.notify")

// ErrNotConfigured is returned by senders built without their client.
var ErrNotConfigured = errors.New("notify: sender not configured")

// EmailSender defines the interface for sending emails.
// Implementations can be swapped (Mailgun, SendGrid, SES) without changing callers.
type EmailSender interface {
	Name() string
	Send(ctx context.Context, msg EmailMessage) error
}

// EmailMessage represents an email to be sent.
type EmailMessage struct {
	From    string
	To      string
	ToName  string
	Subject string
	Body    string // Plain text body
	HTML    string // Optional HTML body

	// Template names a provider-side template. When set, Variables carries
	// the template data as a JSON object and Body/HTML are ignored.
	Template  string
	Variables string
}

// UsesTemplate reports whether the message is rendered provider-side.
func (m EmailMessage) UsesTemplate() bool {
	return m.Template != ""
}

// TemplateData decodes Variables into a map.
func (m EmailMessage) TemplateData() (map[string]any, error) {
	data := map[string]any{}
	if m.Variables == "" {
		return data, nil
	}
	if err := json.Unmarshal([]byte(m.Variables), &data); err != nil {
		return nil, fmt.Errorf("notify: template variables: %w", err)
	}
	return data, nil
}

// SendGridSender sends emails via SendGrid API.
type SendGridSender struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
	logger    *logging.Logger
}

// SendGridConfig holds configuration for SendGrid.
type SendGridConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
}

// NewSendGridSender creates a new SendGrid email sender.
func NewSendGridSender(cfg SendGridConfig, logger *logging.Logger) *SendGridSender {
	if cfg.APIKey == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.FromName == "" {
		cfg.FromName = DefaultFromName
	}
	return &SendGridSender{
		client:    sendgrid.NewSendClient(cfg.APIKey),
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		logger:    logger,
	}
}

func (s *SendGridSender) Name() string { return "sendgrid" }

// Send sends an email via SendGrid.
func (s *SendGridSender) Send(ctx context.Context, msg EmailMessage) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("%w: sendgrid client missing", ErrNotConfigured)
	}

	ctx, span := sendTracer.Start(ctx, "notify.sendgrid.send")
	defer span.End()
	span.SetAttributes(attribute.Bool("mcm.template", msg.UsesTemplate()))

	fromName, fromEmail := s.fromName, s.fromEmail
	if msg.From != "" {
		name, addr := splitAddress(msg.From)
		fromEmail = addr
		if name != "" {
			fromName = name
		}
	}
	from := mail.NewEmail(fromName, fromEmail)
	to := mail.NewEmail(msg.ToName, msg.To)

	var message *mail.SGMailV3
	switch {
	case msg.UsesTemplate():
		data, err := msg.TemplateData()
		if err != nil {
			return err
		}
		message = mail.NewV3Mail()
		message.SetFrom(from)
		message.SetTemplateID(msg.Template)
		p := mail.NewPersonalization()
		p.AddTos(to)
		p.Subject = msg.Subject
		for k, v := range data {
			p.SetDynamicTemplateData(k, v)
		}
		message.AddPersonalizations(p)
	case msg.HTML != "":
		message = mail.NewSingleEmail(from, msg.Subject, to, msg.Body, msg.HTML)
	default:
		message = mail.NewSingleEmail(from, msg.Subject, to, msg.Body, msg.Body)
	}

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		span.RecordError(err)
		s.logger.Error("sendgrid send failed", "error", err, "to", msg.To)
		return fmt.Errorf("notify: sendgrid send failed: %w", err)
	}

	if response.StatusCode >= 400 {
		s.logger.Error("sendgrid returned error status", "status", response.StatusCode, "body", response.Body, "to", msg.To)
		return fmt.Errorf("notify: sendgrid returned status %d", response.StatusCode)
	}

	s.logger.Info("email sent via sendgrid", "to", msg.To, "subject", msg.Subject, "status", response.StatusCode)
	return nil
}

// StubEmailSender is a no-op sender for local development.
type StubEmailSender struct {
	logger *logging.Logger
}

// NewStubEmailSender creates a stub email sender that logs but doesn't send.
func NewStubEmailSender(logger *logging.Logger) *StubEmailSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &StubEmailSender{logger: logger}
}

func (s *StubEmailSender) Name() string { return "stub" }

// Send logs the email but doesn't actually send it.
func (s *StubEmailSender) Send(ctx context.Context, msg EmailMessage) error {
	s.logger.Info("stub email sender: would send email",
		"to", msg.To,
		"subject", msg.Subject,
		"template", msg.Template,
	)
	return nil
}

// splitAddress reads "Name <addr>" or a bare address.
func splitAddress(raw string) (name, addr string) {
	parsed, err := netmail.ParseAddress(raw)
	if err != nil {
		return "", strings.TrimSpace(raw)
	}
	return parsed.Name, parsed.Address
}

// DefaultFromName is the display name used when a provider needs one.
const DefaultFromName = "McKenna's Cleaning Services"

var (
	_ EmailSender = (*SendGridSender)(nil)
	_ EmailSender = (*StubEmailSender)(nil)
)
