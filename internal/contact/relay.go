package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/leoman8109754gmailcom/mcm-cleaning/internal/notify"
	"github.com/leoman8109754gmailcom/mcm-cleaning/internal/observability/metrics"
	"github.com/leoman8109754gmailcom/mcm-cleaning/pkg/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var relayTracer = otel.Tracer("mcm.internal.contact")

// Messages returned to the browser.
const (
	MsgMethodNotAllowed = "Method Not Allowed"
	MsgInvalidJSON      = "Invalid JSON in request body"
	MsgInvalidEmail     = "Invalid email address"
	MsgSent             = "Email sent successfully"
	MsgMisconfigured    = "Missing required email configuration. Please contact us directly."
	MsgSendFailed       = "Failed to send email. Please try again or contact us directly."
)

// Outcome labels used for metrics and logs.
const (
	OutcomeAccepted       = "accepted"
	OutcomeRejectedMethod = "rejected_method"
	OutcomeInvalidJSON    = "invalid_json"
	OutcomeMissingFields  = "missing_fields"
	OutcomeInvalidEmail   = "invalid_email"
	OutcomeMisconfigured  = "misconfigured"
	OutcomeSendFailed     = "send_failed"
)

// SuccessBody is the 200 response.
type SuccessBody struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

// ErrorBody is every non-200 response.
type ErrorBody struct {
	Error string `json:"error"`
}

// Response is a transport-neutral relay reply; HTTP and Lambda adapters copy
// it onto their own response types.
type Response struct {
	StatusCode int
	Body       any
}

// JSON encodes the body.
func (r Response) JSON() []byte {
	data, err := json.Marshal(r.Body)
	if err != nil {
		return []byte(`{"error":"internal error"}`)
	}
	return data
}

// Relay validates contact submissions and forwards each as one email.
// It holds no per-request state; concurrent invocations are independent.
type Relay struct {
	cfg      Config
	cfgErr   error
	sender   notify.EmailSender
	composer *Composer
	metrics  *metrics.ContactMetrics
	logger   *logging.Logger
}

// NewRelay creates a relay. Configuration is validated here and the result is
// applied to every request: an invalid config rejects all submissions before
// the provider is touched. A nil sender counts as missing configuration.
func NewRelay(cfg Config, sender notify.EmailSender, m *metrics.ContactMetrics, logger *logging.Logger) *Relay {
	if logger == nil {
		logger = logging.Default()
	}
	cfgErr := cfg.Validate()
	if cfgErr == nil && sender == nil {
		cfgErr = &ConfigError{Missing: []string{"EMAIL_PROVIDER"}}
	}
	if cfgErr != nil {
		logger.Error("contact relay misconfigured; submissions will be rejected", "error", cfgErr)
	}
	return &Relay{
		cfg:      cfg,
		cfgErr:   cfgErr,
		sender:   sender,
		composer: NewComposer(cfg),
		metrics:  m,
		logger:   logger,
	}
}

// Handle runs the full relay contract for one inbound request.
func (r *Relay) Handle(ctx context.Context, method string, body []byte) Response {
	if method != http.MethodPost {
		return r.reject(OutcomeRejectedMethod, http.StatusMethodNotAllowed, MsgMethodNotAllowed)
	}

	sub, err := DecodeSubmission(body)
	if err != nil {
		r.logger.Warn("contact submission rejected", "reason", OutcomeInvalidJSON, "error", err)
		return r.reject(OutcomeInvalidJSON, http.StatusBadRequest, MsgInvalidJSON)
	}

	if err := sub.Validate(); err != nil {
		var missing *MissingFieldsError
		if errors.As(err, &missing) {
			return r.reject(OutcomeMissingFields, http.StatusBadRequest, missing.Error())
		}
		return r.reject(OutcomeInvalidEmail, http.StatusBadRequest, MsgInvalidEmail)
	}

	if err := r.Dispatch(ctx, sub); err != nil {
		if errors.Is(err, ErrMissingConfiguration) {
			return r.reject(OutcomeMisconfigured, http.StatusInternalServerError, MsgMisconfigured)
		}
		return r.reject(OutcomeSendFailed, http.StatusInternalServerError, MsgSendFailed)
	}

	r.metrics.ObserveSubmission(OutcomeAccepted)
	return Response{
		StatusCode: http.StatusOK,
		Body:       SuccessBody{Message: MsgSent, Success: true},
	}
}

// Dispatch composes and sends a submission that already passed validation.
// The provider is called exactly once; there is no retry.
func (r *Relay) Dispatch(ctx context.Context, sub Submission) error {
	submissionID := uuid.NewString()
	logger := r.logger.With("submission_id", submissionID)

	if r.cfgErr != nil {
		logger.Error("contact relay configuration incomplete", "error", r.cfgErr)
		return r.cfgErr
	}

	ctx, span := relayTracer.Start(ctx, "contact.relay.dispatch")
	defer span.End()
	span.SetAttributes(
		attribute.String("mcm.submission_id", submissionID),
		attribute.String("mcm.provider", r.sender.Name()),
		attribute.Bool("mcm.template", r.cfg.Template != ""),
	)

	msg, err := r.composer.Compose(sub.Normalized())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "compose failed")
		logger.Error("failed to compose contact email", "error", err)
		return fmt.Errorf("%w: %v", ErrDispatchFailed, err)
	}

	if err := r.sender.Send(ctx, msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "send failed")
		logger.Error("mail provider send failed",
			"provider", r.sender.Name(),
			"error", err,
		)
		return fmt.Errorf("%w: %v", ErrDispatchFailed, err)
	}

	logger.Info("contact submission forwarded",
		"provider", r.sender.Name(),
		"service", sub.Service,
		"has_preferred_datetime", sub.PreferredDatetime != "",
		"has_message", sub.Message != "",
	)
	return nil
}

func (r *Relay) reject(outcome string, status int, message string) Response {
	r.metrics.ObserveSubmission(outcome)
	return Response{StatusCode: status, Body: ErrorBody{Error: message}}
}

// DecodeSubmission parses a request body that must be a single JSON object.
// A literal null decodes to an empty submission so it fails on missing fields.
func DecodeSubmission(body []byte) (Submission, error) {
	trimmed := bytes.TrimSpace(body)
	if bytes.Equal(trimmed, []byte("null")) {
		return Submission{}, nil
	}
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Submission{}, ErrInvalidJSON
	}
	var sub Submission
	if err := json.Unmarshal(trimmed, &sub); err != nil {
		return Submission{}, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return sub, nil
}
