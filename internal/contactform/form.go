package contactform

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/leoman8109754gmailcom/mcm-cleaning/pkg/logging"
)

// Notification texts used when the relay does not supply one.
const (
	DefaultSuccessMessage = "Thank you! We'll be in touch within 24 hours."
	GenericErrorMessage   = "Something went wrong sending your message. Please try again or contact us directly."
)

var (
	// ErrFormDisabled is returned when inputs change while a submission is in flight.
	ErrFormDisabled = errors.New("contactform: form is disabled while submitting")

	// ErrSubmissionInFlight is returned for a second submit before the first resolves.
	ErrSubmissionInFlight = errors.New("contactform: submission already in progress")

	// ErrClosed is returned after the form has been torn down.
	ErrClosed = errors.New("contactform: form closed")
)

// Phase is the form lifecycle position.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseSubmitting Phase = "submitting"
)

// Outcome is the result of one Submit call.
type Outcome string

const (
	OutcomeInvalid Outcome = "invalid"
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// Form runs Idle → Submitting → (Success|Failure) → Idle for one page view.
type Form struct {
	mu          sync.Mutex
	state       State
	fieldErrors FieldErrors
	phase       Phase
	closed      bool

	transport Transport
	notifier  *Notifier
	logger    *logging.Logger
}

// NewForm creates an empty form.
func NewForm(transport Transport, notifier *Notifier, logger *logging.Logger) *Form {
	if notifier == nil {
		notifier = NewNotifier(nil, nil)
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Form{
		transport: transport,
		notifier:  notifier,
		logger:    logger,
		phase:     PhaseIdle,
	}
}

// Set updates one input. Inputs are disabled while submitting.
func (f *Form) Set(field Field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}
	if f.phase == PhaseSubmitting {
		return ErrFormDisabled
	}
	f.state.Set(field, value)
	delete(f.fieldErrors, field)
	return nil
}

// State returns a copy of the current inputs.
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.Clone()
}

// FieldErrors returns the inline errors from the last submit attempt.
func (f *Form) FieldErrors() FieldErrors {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(FieldErrors, len(f.fieldErrors))
	for k, v := range f.fieldErrors {
		out[k] = v
	}
	return out
}

// Phase reports whether a submission is in flight.
func (f *Form) Phase() Phase {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.phase
}

// Notification returns the banner currently shown.
func (f *Form) Notification() Notification {
	return f.notifier.Current()
}

// Submit validates and sends the form once. Client validation failures return
// OutcomeInvalid without contacting the relay. A relay or transport failure
// returns OutcomeFailure with the error and leaves the inputs untouched.
func (f *Form) Submit(ctx context.Context) (Outcome, error) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return "", ErrClosed
	}
	if f.phase == PhaseSubmitting {
		f.mu.Unlock()
		return "", ErrSubmissionInFlight
	}
	if errs := Validate(f.state); !errs.Valid() {
		f.fieldErrors = errs
		f.mu.Unlock()
		return OutcomeInvalid, nil
	}
	f.fieldErrors = nil
	f.phase = PhaseSubmitting
	sub := f.state.Submission()
	f.mu.Unlock()

	confirmation, err := f.transport.Submit(ctx, sub)

	f.mu.Lock()
	f.phase = PhaseIdle
	if err == nil {
		f.state.Reset()
	}
	closed := f.closed
	f.mu.Unlock()

	if err != nil {
		f.logger.Warn("contact submission failed", "error", err)
		if !closed {
			f.notifier.Show(KindError, failureMessage(err))
		}
		return OutcomeFailure, err
	}

	if strings.TrimSpace(confirmation) == "" {
		confirmation = DefaultSuccessMessage
	}
	if !closed {
		f.notifier.Show(KindSuccess, confirmation)
	}
	return OutcomeSuccess, nil
}

// Close tears down the notification timer. The form rejects further input.
func (f *Form) Close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	f.notifier.Close()
}

func failureMessage(err error) string {
	var rejection *RelayError
	if errors.As(err, &rejection) && rejection.Message != "" {
		return rejection.Message
	}
	return GenericErrorMessage
}
