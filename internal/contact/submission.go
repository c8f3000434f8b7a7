package contact

import (
	"regexp"
	"strings"
)

// Field names as they appear on the wire.
const (
	FieldName              = "name"
	FieldEmail             = "email"
	FieldPhone             = "phone"
	FieldService           = "service"
	FieldPreferredDatetime = "preferredDatetime"
	FieldMessage           = "message"
)

// RequiredFields in declaration order. Missing-field errors follow this order.
var RequiredFields = []string{FieldName, FieldEmail, FieldPhone, FieldService}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether s has the basic local@domain.tld shape shared by
// the form and the relay.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// Submission is one contact-form request.
type Submission struct {
	Name              string `json:"name"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	Service           string `json:"service"`
	PreferredDatetime string `json:"preferredDatetime,omitempty"`
	Message           string `json:"message,omitempty"`
}

// Normalized returns a copy with surrounding whitespace removed from every field.
func (s Submission) Normalized() Submission {
	return Submission{
		Name:              strings.TrimSpace(s.Name),
		Email:             strings.TrimSpace(s.Email),
		Phone:             strings.TrimSpace(s.Phone),
		Service:           strings.TrimSpace(s.Service),
		PreferredDatetime: strings.TrimSpace(s.PreferredDatetime),
		Message:           strings.TrimSpace(s.Message),
	}
}

// Value returns the field by wire name.
func (s Submission) Value(field string) string {
	switch field {
	case FieldName:
		return s.Name
	case FieldEmail:
		return s.Email
	case FieldPhone:
		return s.Phone
	case FieldService:
		return s.Service
	case FieldPreferredDatetime:
		return s.PreferredDatetime
	case FieldMessage:
		return s.Message
	default:
		return ""
	}
}

// MissingFields returns the required fields that are blank.
func (s Submission) MissingFields() []string {
	var missing []string
	for _, f := range RequiredFields {
		if strings.TrimSpace(s.Value(f)) == "" {
			missing = append(missing, f)
		}
	}
	return missing
}

// Validate checks required fields first, then the email shape.
func (s Submission) Validate() error {
	if missing := s.MissingFields(); len(missing) > 0 {
		return &MissingFieldsError{Fields: missing}
	}
	if !ValidEmail(strings.TrimSpace(s.Email)) {
		return ErrInvalidEmail
	}
	return nil
}
