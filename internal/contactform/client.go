package contactform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/leoman8109754gmailcom/mcm-cleaning/internal/contact"
)

// ErrTransport is returned when the relay could not be reached or its reply
// could not be read.
var ErrTransport = errors.New("contactform: relay unreachable")

// RelayError is a rejection reported by the relay. Message is empty when the
// reply carried no error text.
type RelayError struct {
	Status  int
	Message string
}

func (e *RelayError) Error() string {
	return fmt.Sprintf("contactform: relay rejected submission (%d): %s", e.Status, e.Message)
}

// Transport delivers one submission and returns the relay's confirmation text.
type Transport interface {
	Submit(ctx context.Context, sub contact.Submission) (string, error)
}

// RelayClient posts submissions to the relay endpoint.
type RelayClient struct {
	endpoint   string
	httpClient *http.Client
}

// RelayClientConfig configures a RelayClient.
type RelayClientConfig struct {
	Endpoint   string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// NewRelayClient creates a client for the relay at cfg.Endpoint.
func NewRelayClient(cfg RelayClientConfig) *RelayClient {
	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &RelayClient{
		endpoint:   strings.TrimSpace(cfg.Endpoint),
		httpClient: client,
	}
}

type relayReply struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Submit sends sub once. A non-2xx reply becomes a *RelayError carrying the
// relay's error text; anything that prevents reading a reply wraps ErrTransport.
func (c *RelayClient) Submit(ctx context.Context, sub contact.Submission) (string, error) {
	payload, err := json.Marshal(sub)
	if err != nil {
		return "", fmt.Errorf("contactform: encode submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "", fmt.Errorf("%w: read reply: %v", ErrTransport, err)
	}

	var reply relayReply
	decodeErr := json.Unmarshal(raw, &reply)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rejection := &RelayError{Status: resp.StatusCode}
		if decodeErr == nil {
			rejection.Message = strings.TrimSpace(reply.Error)
		}
		return "", rejection
	}
	if decodeErr != nil {
		return "", fmt.Errorf("%w: malformed reply: %v", ErrTransport, decodeErr)
	}
	return strings.TrimSpace(reply.Message), nil
}
