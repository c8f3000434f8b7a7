package contact

import (
	"bytes"
	"encoding/json"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/leoman8109754gmailcom/mcm-cleaning/internal/notify"
)

const (
	businessName    = "McKenna's Cleaning Services"
	submittedLayout = "1/2/2006, 3:04:05 PM"
)

var htmlBody = htmltemplate.Must(htmltemplate.New("contact.html").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f9f9f9;">
  <div style="background-color: #17616E; color: white; padding: 20px; border-radius: 8px 8px 0 0;">
    <h2 style="margin: 0;">New Contact Form Submission</h2>
    <p style="margin: 5px 0 0 0; opacity: 0.9;">{{.Business}}</p>
  </div>
  <div style="background-color: white; padding: 30px; border-radius: 0 0 8px 8px;">
    {{template "section" "Contact Information"}}
    <div style="background-color: #f5f5f5; padding: 15px; border-radius: 6px; margin-top: 10px;">
      <p style="margin: 8px 0;"><strong>Name:</strong> {{.S.Name}}</p>
      <p style="margin: 8px 0;"><strong>Email:</strong> <a href="mailto:{{.S.Email}}" style="color: #17616E;">{{.S.Email}}</a></p>
      <p style="margin: 8px 0;"><strong>Phone:</strong> <a href="tel:{{.S.Phone}}" style="color: #17616E;">{{.S.Phone}}</a></p>
    </div>
    {{template "section" "Service Request"}}
    <div style="background-color: #f5f5f5; padding: 15px; border-radius: 6px; margin-top: 10px;">
      <p style="margin: 0; white-space: pre-wrap;">{{.S.Service}}</p>
    </div>
    {{- if .S.PreferredDatetime}}
    {{template "section" "Preferred Date/Time"}}
    <div style="background-color: #f5f5f5; padding: 15px; border-radius: 6px; margin-top: 10px;">
      <p style="margin: 0;">{{.S.PreferredDatetime}}</p>
    </div>
    {{- end}}
    {{- if .S.Message}}
    {{template "section" "Additional Message"}}
    <div style="background-color: #f5f5f5; padding: 15px; border-radius: 6px; margin-top: 10px;">
      <p style="margin: 0; white-space: pre-wrap;">{{.S.Message}}</p>
    </div>
    {{- end}}
    <div style="margin-top: 30px; padding-top: 20px; border-top: 2px solid #f0f0f0; text-align: center; color: #999; font-size: 12px;">
      <p>This email was sent from the {{.Business}} contact form</p>
      <p>Submitted on {{.Submitted}}</p>
    </div>
  </div>
</div>
{{define "section"}}<h3 style="color: #17616E; margin: 20px 0 5px 0; font-size: 14px; text-transform: uppercase; letter-spacing: 0.5px;">{{.}}</h3>{{end}}`))

var textBody = texttemplate.Must(texttemplate.New("contact.txt").Parse(`New Contact Form Submission - {{.Business}}

CONTACT INFORMATION:
Name: {{.S.Name}}
Email: {{.S.Email}}
Phone: {{.S.Phone}}

SERVICE REQUEST:
{{.S.Service}}

{{if .S.PreferredDatetime}}PREFERRED DATE/TIME:
{{.S.PreferredDatetime}}

{{end}}{{if .S.Message}}ADDITIONAL MESSAGE:
{{.S.Message}}

{{end}}---
Submitted on {{.Submitted}}
`))

type bodyData struct {
	Business  string
	Submitted string
	S         Submission
}

// Composer turns a submission into the message sent to the business inbox.
type Composer struct {
	from     string
	to       string
	template string
	loc      *time.Location
	now      func() time.Time
}

// NewComposer builds a composer from relay configuration.
func NewComposer(cfg Config) *Composer {
	return &Composer{
		from:     strings.TrimSpace(cfg.From),
		to:       strings.TrimSpace(cfg.To),
		template: strings.TrimSpace(cfg.Template),
		loc:      cfg.Location(),
		now:      time.Now,
	}
}

// Compose renders s. With a template configured the provider renders the body
// from the submission's JSON; otherwise HTML and plaintext are rendered here.
// Optional fields appear only when present.
func (c *Composer) Compose(s Submission) (notify.EmailMessage, error) {
	msg := notify.EmailMessage{
		From: c.from,
		To:   c.to,
	}

	if c.template != "" {
		vars, err := json.Marshal(s)
		if err != nil {
			return notify.EmailMessage{}, fmt.Errorf("contact: encode template variables: %w", err)
		}
		msg.Subject = "New contact form submission from " + s.Name
		msg.Template = c.template
		msg.Variables = string(vars)
		return msg, nil
	}

	data := bodyData{
		Business:  businessName,
		Submitted: c.now().In(c.loc).Format(submittedLayout),
		S:         s,
	}

	var html, text bytes.Buffer
	if err := htmlBody.Execute(&html, data); err != nil {
		return notify.EmailMessage{}, fmt.Errorf("contact: render html body: %w", err)
	}
	if err := textBody.Execute(&text, data); err != nil {
		return notify.EmailMessage{}, fmt.Errorf("contact: render text body: %w", err)
	}

	msg.Subject = "New Contact Request from " + s.Name
	msg.HTML = html.String()
	msg.Body = text.String()
	return msg, nil
}
