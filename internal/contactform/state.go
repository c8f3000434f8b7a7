// Package contactform drives the browser side of the contact form: field
// state, client validation, submission to the relay and the transient
// outcome banner.
package contactform

import (
	"strings"

	"github.com/leoman8109754gmailcom/mcm-cleaning/internal/contact"
)

// Field names a form input.
type Field string

const (
	FieldName              Field = contact.FieldName
	FieldEmail             Field = contact.FieldEmail
	FieldPhone             Field = contact.FieldPhone
	FieldService           Field = contact.FieldService
	FieldPreferredDatetime Field = contact.FieldPreferredDatetime
	FieldMessage           Field = contact.FieldMessage
)

// Fields lists every input in display order.
var Fields = []Field{
	FieldName,
	FieldEmail,
	FieldPhone,
	FieldService,
	FieldPreferredDatetime,
	FieldMessage,
}

// Known reports whether f is one of Fields.
func (f Field) Known() bool {
	for _, k := range Fields {
		if k == f {
			return true
		}
	}
	return false
}

// State holds the values the user has typed. The zero value is an empty form.
type State struct {
	values map[Field]string
}

// Set stores a field value. Unknown fields are ignored.
func (s *State) Set(f Field, value string) {
	if !f.Known() {
		return
	}
	if s.values == nil {
		s.values = make(map[Field]string, len(Fields))
	}
	s.values[f] = value
}

// Get returns a field value.
func (s State) Get(f Field) string {
	return s.values[f]
}

// Clone returns an independent copy.
func (s State) Clone() State {
	out := State{}
	for f, v := range s.values {
		out.Set(f, v)
	}
	return out
}

// IsEmpty reports whether every field is blank.
func (s State) IsEmpty() bool {
	for _, v := range s.values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Reset clears every field.
func (s *State) Reset() {
	s.values = nil
}

// Submission is the wire payload for the relay.
func (s State) Submission() contact.Submission {
	return contact.Submission{
		Name:              s.Get(FieldName),
		Email:             s.Get(FieldEmail),
		Phone:             s.Get(FieldPhone),
		Service:           s.Get(FieldService),
		PreferredDatetime: s.Get(FieldPreferredDatetime),
		Message:           s.Get(FieldMessage),
	}
}
