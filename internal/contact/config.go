package contact

import (
	"strings"
	"time"
)

// Supported mail providers.
const (
	ProviderMailgun  = "mailgun"
	ProviderSendGrid = "sendgrid"
	ProviderSES      = "ses"
	ProviderStub     = "stub"
)

// DefaultTimezone is used for the "Submitted on" footer.
const DefaultTimezone = "America/New_York"

// Config is everything the relay needs to compose and route a message.
type Config struct {
	Provider string
	From     string
	To       string
	APIKey   string
	Domain   string
	APIBase  string
	Region   string
	// Template is optional; when set the provider renders the message.
	Template string
	Timezone string
}

// Validate reports every missing key at once, named by the environment
// variable an operator has to set.
func (c Config) Validate() error {
	var missing []string
	require := func(value, key string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, key)
		}
	}

	switch c.ProviderName() {
	case ProviderMailgun:
		require(c.APIKey, "MG_KEY")
		require(c.Domain, "MG_DOMAIN")
	case ProviderSendGrid:
		require(c.APIKey, "SENDGRID_API_KEY")
	case ProviderSES:
		require(c.Region, "AWS_REGION")
	case ProviderStub:
	default:
		missing = append(missing, "EMAIL_PROVIDER")
	}
	require(c.From, "MG_FROM")
	require(c.To, "MG_TO")

	if len(missing) > 0 {
		return &ConfigError{Missing: missing}
	}
	return nil
}

// ProviderName is the lower-cased provider, defaulting to Mailgun.
func (c Config) ProviderName() string {
	p := strings.ToLower(strings.TrimSpace(c.Provider))
	if p == "" {
		return ProviderMailgun
	}
	return p
}

// Location resolves Timezone, falling back to UTC when tzdata is unavailable.
func (c Config) Location() *time.Location {
	name := strings.TrimSpace(c.Timezone)
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}
