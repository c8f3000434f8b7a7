package contactform

import (
	"sort"
	"strings"

	"github.com/leoman8109754gmailcom/mcm-cleaning/internal/contact"
)

// Inline messages shown next to an input.
const (
	MsgRequired     = "This field is required"
	MsgInvalidEmail = "Please enter a valid email address"
)

// FieldErrors maps an input to its inline message. Empty means valid.
type FieldErrors map[Field]string

// Valid reports whether no field failed.
func (e FieldErrors) Valid() bool {
	return len(e) == 0
}

// Fields returns the failing inputs in display order.
func (e FieldErrors) Fields() []Field {
	out := make([]Field, 0, len(e))
	for f := range e {
		out = append(out, f)
	}
	order := make(map[Field]int, len(Fields))
	for i, f := range Fields {
		order[f] = i
	}
	sort.Slice(out, func(i, j int) bool { return order[out[i]] < order[out[j]] })
	return out
}

// Validate applies the same rules as the relay: the four required fields must
// be non-blank and the email must look like local@domain.tld.
func Validate(s State) FieldErrors {
	errs := FieldErrors{}
	for _, name := range contact.RequiredFields {
		f := Field(name)
		if strings.TrimSpace(s.Get(f)) == "" {
			errs[f] = MsgRequired
		}
	}
	if _, blank := errs[FieldEmail]; !blank && !contact.ValidEmail(strings.TrimSpace(s.Get(FieldEmail))) {
		errs[FieldEmail] = MsgInvalidEmail
	}
	return errs
}
