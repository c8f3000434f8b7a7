package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/leoman8109754gmailcom/mcm-cleaning/internal/contact"
)

// Config holds application configuration
type Config struct {
	Port               string
	Env                string
	LogLevel           string
	CORSAllowedOrigins []string

	// Contact relay
	EmailProvider  string
	MailFrom       string
	MailTo         string
	MailgunKey     string
	MailgunDomain  string
	MailTemplate   string
	MailgunAPIBase string
	SendGridAPIKey string
	Timezone       string

	// AWS (SES provider)
	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string

	// Content
	SanityProjectID  string
	SanityDataset    string
	SanityAPIVersion string
	SanityUseCDN     bool
	SanityAuthToken  string
	ContentCacheTTL  time.Duration
	RedisAddr        string
	RedisPassword    string
	RedisTLS         bool
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS"),

		EmailProvider:  strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", contact.ProviderMailgun))),
		MailFrom:       getEnv("MG_FROM", ""),
		MailTo:         getEnv("MG_TO", ""),
		MailgunKey:     getEnv("MG_KEY", ""),
		MailgunDomain:  getEnv("MG_DOMAIN", ""),
		MailTemplate:   getEnv("MG_TEMPLATE", ""),
		MailgunAPIBase: getEnv("MG_API_BASE", ""),
		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		Timezone:       getEnv("SUBMISSION_TIMEZONE", contact.DefaultTimezone),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),

		SanityProjectID:  getEnv("SANITY_PROJECT_ID", ""),
		SanityDataset:    getEnv("SANITY_DATASET", "production"),
		SanityAPIVersion: getEnv("SANITY_API_VERSION", "2024-01-01"),
		SanityUseCDN:     getEnvAsBool("SANITY_USE_CDN", true),
		SanityAuthToken:  getEnv("SANITY_AUTH_TOKEN", ""),
		ContentCacheTTL:  getEnvAsDuration("CONTENT_CACHE_TTL", 5*time.Minute),
		RedisAddr:        getEnv("REDIS_ADDR", ""),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RedisTLS:         getEnvAsBool("REDIS_TLS", false),
	}
}

// Contact returns the relay settings. The API key is picked for the
// configured provider.
func (c *Config) Contact() contact.Config {
	key := c.MailgunKey
	if c.EmailProvider == contact.ProviderSendGrid {
		key = c.SendGridAPIKey
	}
	return contact.Config{
		Provider: c.EmailProvider,
		From:     c.MailFrom,
		To:       c.MailTo,
		APIKey:   key,
		Domain:   c.MailgunDomain,
		APIBase:  c.MailgunAPIBase,
		Region:   c.AWSRegion,
		Template: c.MailTemplate,
		Timezone: c.Timezone,
	}
}

// ContentEnabled reports whether a CMS project is configured.
func (c *Config) ContentEnabled() bool {
	return strings.TrimSpace(c.SanityProjectID) != ""
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated variable, dropping blanks.
func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
