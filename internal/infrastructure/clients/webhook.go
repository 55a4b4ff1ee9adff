package clients

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"github.com/Faheem-Musthafa/sip-n-sync/internal/observability"
	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/sony/gobreaker"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"
)

const maxUpstreamBody = 64 * 1024

// ErrWebhookUnavailable means the breaker for a webhook is open and the call
// was not attempted.
var ErrWebhookUnavailable = errors.New("webhook unavailable")

// UpstreamError is a webhook that answered with a non-2xx status.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("upstream responded with status %d", e.StatusCode)
	}
	return fmt.Sprintf("upstream responded with status %d: %s", e.StatusCode, e.Body)
}

// MessageOr is the upstream body when there is one, otherwise fallback.
func (e *UpstreamError) MessageOr(fallback string) string {
	if e.Body != "" {
		return e.Body
	}
	return fallback
}

// WebhookClient posts JSON documents to webhook URLs, each URL behind its own
// circuit breaker.
type WebhookClient struct {
	name       string
	httpClient *http.Client

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker
}

func NewWebhookClient(name string, timeout time.Duration) *WebhookClient {
	return &WebhookClient{
		name:       name,
		httpClient: &http.Client{Timeout: timeout},
		breakers:   map[string]*gobreaker.CircuitBreaker{},
	}
}

// PostJSON returns the response body of a 2xx answer.
func (c *WebhookClient) PostJSON(ctx context.Context, target, url string, body []byte) ([]byte, error) {
	result, err := c.breaker(url).Execute(func() (interface{}, error) {
		return c.post(ctx, url, body)
	})

	status := "ok"
	var upstreamErr *UpstreamError
	switch {
	case errors.As(err, &upstreamErr):
		status = strconv.Itoa(upstreamErr.StatusCode)
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		status = "breaker_open"
	case err != nil:
		status = "error"
	}
	observability.WebhookRequestsTotal.WithLabelValues(c.name, target, status).Inc()

	if status == "breaker_open" {
		return nil, fmt.Errorf("%w: %s: %v", ErrWebhookUnavailable, c.name, err)
	}
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}

func (c *WebhookClient) post(ctx context.Context, url string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building %s webhook request: %w", c.name, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if correlationID := log.CorrelationIDFromContext(ctx); correlationID != "" {
		req.Header.Set("Correlation-ID", correlationID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling %s webhook: %w", c.name, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxUpstreamBody))
	if err != nil {
		return nil, fmt.Errorf("reading %s webhook response: %w", c.name, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{
			StatusCode: resp.StatusCode,
			Body:       string(bytes.TrimSpace(respBody)),
		}
	}

	return respBody, nil
}

func (c *WebhookClient) breaker(url string) *gobreaker.CircuitBreaker {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cb, ok := c.breakers[url]; ok {
		return cb
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    c.name + " " + url,
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// a webhook rejecting one payload says nothing about its health
		IsSuccessful: func(err error) bool {
			var upstreamErr *UpstreamError
			if errors.As(err, &upstreamErr) {
				return upstreamErr.StatusCode < 500
			}
			return err == nil
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.FromContext(context.Background()).
				WithField("breaker", name).
				WithField("from", from.String()).
				WithField("to", to.String()).
				Warn("Circuit breaker state changed")
		},
	})
	c.breakers[url] = cb

	return cb
}
