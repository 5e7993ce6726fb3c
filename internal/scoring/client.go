// Package scoring talks to the remote credit-risk scoring service.
package scoring

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

	commonhttp "credit-risk-workers/internal/common/http"
	"credit-risk-workers/internal/common/logger"
	"credit-risk-workers/internal/common/metrics"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	PredictPath = "/api/predict"
	HealthPath  = "/api/health"

	// maxBodyBytes bounds how much of a response is read.
	maxBodyBytes = 1 << 20

	tracerName = "credit-risk-workers/scoring"
)

// ErrBaseURLRequired is returned by NewClient when Config.BaseURL is blank.
var ErrBaseURLRequired = errors.New("scoring: base URL is required")

type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client is safe for concurrent use.
type Client struct {
	baseURL string
	http    *commonhttp.Client
	logger  logger.Logger
	tracer  trace.Tracer
}

func NewClient(cfg Config, log logger.Logger) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, ErrBaseURLRequired
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &Client{
		baseURL: base,
		http:    commonhttp.NewClient(cfg.Timeout),
		logger:  log.WithFields(map[string]interface{}{"component": "scoring-client"}),
		tracer:  otel.Tracer(tracerName),
	}, nil
}

var knownRatings = map[string]bool{
	"Poor":      true,
	"Average":   true,
	"Good":      true,
	"Excellent": true,
}

// ratingLabel keeps the rating metric bounded to the four bands plus "other".
func ratingLabel(rating string) string {
	if knownRatings[rating] {
		return rating
	}
	return "other"
}

// BaseURL returns the normalized service root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Predict submits req and returns the scored result. Every failure is a
// *PredictionError.
func (c *Client) Predict(ctx context.Context, req *PredictionRequest) (*PredictionResponse, error) {
	ctx, span := c.tracer.Start(ctx, "scoring.predict", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	start := time.Now()
	resp, err := c.predict(ctx, req)
	metrics.ScoringRequestDuration.WithLabelValues("predict").Observe(time.Since(start).Seconds())

	if err != nil {
		var perr *PredictionError
		errors.As(err, &perr)
		metrics.ScoringRequests.WithLabelValues("predict", string(perr.Kind)).Inc()
		span.SetAttributes(attribute.String("scoring.error_kind", string(perr.Kind)))
		span.SetStatus(codes.Error, perr.Message)
		return nil, err
	}

	metrics.ScoringRequests.WithLabelValues("predict", "success").Inc()
	metrics.PredictionsByRating.WithLabelValues(ratingLabel(resp.Rating)).Inc()
	span.SetAttributes(
		attribute.Float64("scoring.credit_score", resp.CreditScore),
		attribute.String("scoring.rating", resp.Rating),
	)
	return resp, nil
}

func (c *Client) predict(ctx context.Context, req *PredictionRequest) (*PredictionResponse, error) {
	if req == nil {
		return nil, &PredictionError{Kind: KindValidation, Message: "request: missing prediction input"}
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, &PredictionError{Kind: KindValidation, Message: MessageFailed, Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+PredictPath, bytes.NewReader(payload))
	if err != nil {
		return nil, &PredictionError{Kind: KindTransport, Message: MessageTransport, Err: err}
	}
	requestID := uuid.NewString()
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)

	log := c.logger.WithFields(map[string]interface{}{
		"requestId": requestID,
		"url":       httpReq.URL.String(),
	})

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		log.Error("prediction request failed", map[string]interface{}{"error": err})
		return nil, &PredictionError{Kind: KindTransport, Message: MessageTransport, Err: err}
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxBodyBytes))
	if err != nil {
		log.Error("reading prediction response failed", map[string]interface{}{"error": err, "status": httpResp.StatusCode})
		return nil, &PredictionError{Kind: KindTransport, Message: MessageTransport, StatusCode: httpResp.StatusCode, Err: err}
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		msg, isList := NormalizeDetail(body)
		kind := KindServer
		if isList {
			kind = KindValidation
		}
		log.Warn("prediction rejected", map[string]interface{}{
			"status": httpResp.StatusCode,
			"kind":   string(kind),
			"detail": msg,
		})
		return nil, &PredictionError{
			Kind:       kind,
			Message:    msg,
			StatusCode: httpResp.StatusCode,
			Err:        fmt.Errorf("scoring service returned status %d", httpResp.StatusCode),
		}
	}

	if err := validateResponse(body); err != nil {
		log.Error("malformed prediction response", map[string]interface{}{"error": err, "status": httpResp.StatusCode})
		return nil, &PredictionError{Kind: KindMalformed, Message: MessageMalformed, StatusCode: httpResp.StatusCode, Err: err}
	}

	var out PredictionResponse
	if err := json.Unmarshal(body, &out); err != nil {
		log.Error("decoding prediction response failed", map[string]interface{}{"error": err})
		return nil, &PredictionError{Kind: KindMalformed, Message: MessageMalformed, StatusCode: httpResp.StatusCode, Err: err}
	}

	log.Info("prediction received", map[string]interface{}{
		"creditScore": out.CreditScore,
		"rating":      out.Rating,
	})
	return &out, nil
}

// CheckHealth queries /api/health. It never fails: any transport or decode
// problem is reported as Status "error".
func (c *Client) CheckHealth(ctx context.Context) HealthStatus {
	ctx, span := c.tracer.Start(ctx, "scoring.health", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	start := time.Now()
	status, err := c.checkHealth(ctx)
	metrics.ScoringRequestDuration.WithLabelValues("health").Observe(time.Since(start).Seconds())

	if err != nil {
		c.logger.Warn("health check failed", map[string]interface{}{"error": err})
		span.SetStatus(codes.Error, err.Error())
	}

	outcome := "success"
	switch {
	case status.Healthy():
		metrics.ScoringBackendUp.Set(1)
	case status.Status == HealthStatusError:
		outcome = HealthStatusError
		metrics.ScoringBackendUp.Set(0)
	default:
		outcome = "unhealthy"
		metrics.ScoringBackendUp.Set(0)
	}
	metrics.ScoringRequests.WithLabelValues("health", outcome).Inc()
	span.SetAttributes(attribute.String("scoring.health", status.Status))

	return status
}

func (c *Client) checkHealth(ctx context.Context) (HealthStatus, error) {
	failed := HealthStatus{Status: HealthStatusError}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+HealthPath, nil)
	if err != nil {
		return failed, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return failed, err
	}
	defer resp.Body.Close()

	var status HealthStatus
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&status); err != nil {
		return failed, fmt.Errorf("decode health response (status %d): %w", resp.StatusCode, err)
	}
	if status.Status == "" {
		return failed, fmt.Errorf("health response (status %d) has no status", resp.StatusCode)
	}
	return status, nil
}
