package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/leoman8109754gmailcom/mcm-cleaning/pkg/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var fetchTracer = otel.Tracer("mcm.internal.content")

const (
	defaultDataset    = "production"
	defaultAPIVersion = "2024-01-01"
	defaultUserAgent  = "mcm-cleaning-content/1.0"
	pingQuery         = `*[_type == "sanity.imageAsset"][0]{_id}`
)

// SanityConfig controls how the CMS client behaves.
type SanityConfig struct {
	ProjectID  string
	Dataset    string
	APIVersion string
	UseCDN     bool
	// Token is only needed for private datasets; the site reads published content.
	Token      string
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *logging.Logger
}

// SanityClient runs read-only GROQ queries against the Sanity HTTP API.
type SanityClient struct {
	baseURL    string
	dataset    string
	token      string
	httpClient *http.Client
	logger     *logging.Logger
}

// APIError is a non-2xx reply from the CMS.
type APIError struct {
	Status      int
	Description string
}

func (e *APIError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("content: sanity returned %d", e.Status)
	}
	return fmt.Sprintf("content: sanity returned %d: %s", e.Status, e.Description)
}

// NewSanityClient creates a configured client.
func NewSanityClient(cfg SanityConfig) (*SanityClient, error) {
	projectID := strings.TrimSpace(cfg.ProjectID)
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		if projectID == "" {
			return nil, errors.New("content: sanity project id is required")
		}
		host := "api.sanity.io"
		if cfg.UseCDN && strings.TrimSpace(cfg.Token) == "" {
			host = "apicdn.sanity.io"
		}
		baseURL = "https://" + projectID + "." + host
	}
	apiVersion := strings.TrimPrefix(strings.TrimSpace(cfg.APIVersion), "v")
	if apiVersion == "" {
		apiVersion = defaultAPIVersion
	}
	dataset := strings.TrimSpace(cfg.Dataset)
	if dataset == "" {
		dataset = defaultDataset
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &SanityClient{
		baseURL:    baseURL + "/v" + apiVersion,
		dataset:    dataset,
		token:      strings.TrimSpace(cfg.Token),
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// Query runs a GROQ query and returns the raw "result" member.
func (c *SanityClient) Query(ctx context.Context, groq string) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("query", groq)
	fullURL := c.baseURL + "/data/query/" + url.PathEscape(c.dataset) + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("content: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", defaultUserAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("content: http error: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("content: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeAPIError(resp.StatusCode, data)
	}

	var envelope struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("content: decode response: %w", err)
	}
	return envelope.Result, nil
}

// Document fetches and reformats one named document, returning the API JSON.
func (c *SanityClient) Document(ctx context.Context, name string) (json.RawMessage, error) {
	q, ok := queries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDocument, name)
	}

	ctx, span := fetchTracer.Start(ctx, "content.sanity.document")
	defer span.End()
	span.SetAttributes(attribute.String("mcm.document", name))

	raw, err := c.Query(ctx, q.groq)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		c.logger.Error("sanity query failed", "document", name, "error", err)
		return nil, err
	}
	value, err := q.reformat(raw)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			span.RecordError(err)
			c.logger.Error("sanity document malformed", "document", name, "error", err)
		}
		return nil, err
	}
	out, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("content: encode %s: %w", name, err)
	}
	return out, nil
}

// Ping verifies the CMS is reachable.
func (c *SanityClient) Ping(ctx context.Context) error {
	_, err := c.Query(ctx, pingQuery)
	return err
}

func decodeAPIError(status int, body []byte) error {
	var payload struct {
		Error struct {
			Description string `json:"description"`
		} `json:"error"`
		Message string `json:"message"`
	}
	apiErr := &APIError{Status: status}
	if err := json.Unmarshal(body, &payload); err == nil {
		apiErr.Description = payload.Error.Description
		if apiErr.Description == "" {
			apiErr.Description = payload.Message
		}
	}
	return apiErr
}
