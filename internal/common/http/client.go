// internal/common/http/client.go
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"credit-risk-workers/internal/common/metrics"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// Client is the outbound HTTP client shared by the scoring integration.
// Every request carries the caller's trace context and is counted by host,
// method and status class.
type Client struct {
	httpClient *http.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	otel.GetTextMapPropagator().Inject(req.Context(), propagation.HeaderCarrier(req.Header))
	resp, err := c.httpClient.Do(req)
	record(req, resp, err)
	return resp, err
}

func (c *Client) DoWithContext(ctx context.Context, req *http.Request) (*http.Response, error) {
	return c.Do(req.WithContext(ctx))
}

// Timeout returns the configured per-request timeout.
func (c *Client) Timeout() time.Duration {
	return c.httpClient.Timeout
}

func record(req *http.Request, resp *http.Response, err error) {
	status := "error"
	if err == nil && resp != nil {
		status = statusClass(resp.StatusCode)
	}
	metrics.HTTPClientRequests.WithLabelValues(req.URL.Host, req.Method, status).Inc()
}

func statusClass(code int) string {
	return fmt.Sprintf("%dxx", code/100)
}
