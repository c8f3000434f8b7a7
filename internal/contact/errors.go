package contact

import (
	"errors"
	"strings"
)

var (
	// ErrMethodNotAllowed is returned for anything other than POST.
	ErrMethodNotAllowed = errors.New("contact: method not allowed")

	// ErrInvalidJSON is returned when the body is not a JSON object.
	ErrInvalidJSON = errors.New("contact: invalid JSON in request body")

	// ErrInvalidEmail is returned when the email fails the shape check.
	ErrInvalidEmail = errors.New("contact: invalid email address")

	// ErrMissingConfiguration is returned when the relay cannot reach a provider
	// because required settings are absent.
	ErrMissingConfiguration = errors.New("contact: missing required configuration")

	// ErrDispatchFailed is returned when the mail provider rejects or fails the send.
	ErrDispatchFailed = errors.New("contact: failed to send email")
)

// MissingFieldsError lists required fields that were absent or empty, in
// declaration order.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "Missing required fields: " + strings.Join(e.Fields, ", ")
}

// ConfigError enumerates every missing configuration key.
type ConfigError struct {
	Missing []string
}

func (e *ConfigError) Error() string {
	return ErrMissingConfiguration.Error() + ": " + strings.Join(e.Missing, ", ")
}

func (e *ConfigError) Unwrap() error {
	return ErrMissingConfiguration
}
