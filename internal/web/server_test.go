package web

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"credit-risk-workers/internal/common/logger"
	"credit-risk-workers/internal/preferences"
	"credit-risk-workers/internal/scoring"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScorer struct {
	resp   *scoring.PredictionResponse
	err    error
	health scoring.HealthStatus
	got    *scoring.PredictionRequest
}

func (f *fakeScorer) Predict(_ context.Context, req *scoring.PredictionRequest) (*scoring.PredictionResponse, error) {
	f.got = req
	return f.resp, f.err
}

func (f *fakeScorer) CheckHealth(context.Context) scoring.HealthStatus {
	return f.health
}

func newTestServer(t *testing.T, scorer *fakeScorer, ready map[string]ReadinessCheck) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.NewTestLogger(t)
	s, err := NewServer(Options{
		Scorer: scorer,
		Themes: preferences.NewThemes(preferences.NewMemoryStore(), log),
		Logger: log,
		Ready:  ready,
	})
	require.NoError(t, err)
	return s
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func goodResponse() *scoring.PredictionResponse {
	return &scoring.PredictionResponse{
		CreditScore:                  812,
		Rating:                       "Excellent",
		DefaultProbabilityPercentage: "1.25%",
		LoanToIncomeRatio:            2.13,
	}
}

func TestNewServer_RequiresScorer(t *testing.T) {
	_, err := NewServer(Options{})
	assert.Error(t, err)
}

func TestIndex(t *testing.T) {
	tests := []struct {
		name   string
		health scoring.HealthStatus
		want   string
	}{
		{"online", scoring.HealthStatus{Status: "healthy"}, "scoring service: online"},
		{"unreachable", scoring.HealthStatus{Status: scoring.HealthStatusError}, "scoring service: unreachable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, &fakeScorer{health: tt.health}, nil)
			w := serve(s, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, http.StatusOK, w.Code)
			body := w.Body.String()
			assert.Contains(t, body, tt.want)
			assert.Contains(t, body, `<html lang="en" class="dark">`)
			assert.Contains(t, body, `<option value="Owned" selected>`)
			assert.NotContains(t, body, "results-container")
	assert.Contains(t, body, `<button type="submit" id="submit">Analyze Risk</button>`)

			cookies := w.Result().Cookies()
			require.Len(t, cookies, 1)
			assert.Equal(t, visitorCookie, cookies[0].Name)
			assert.True(t, cookies[0].HttpOnly)
		})
	}
}

func TestAssess_Success(t *testing.T) {
	scorer := &fakeScorer{resp: goodResponse()}
	s := newTestServer(t, scorer, nil)

	form := url.Values{
		"age":         {"41"},
		"income":      {"1500000"},
		"loan_amount": {"3200000"},
		"loan_type":   {"Unsecured"},
	}
	req := httptest.NewRequest(http.MethodPost, "/assess", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := serve(s, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "TIER 1 LOW RISK")
	assert.Contains(t, body, "98th percentile of reliable borrowers")
	assert.Contains(t, body, ">812<")
	assert.Contains(t, body, "1.25%")
	assert.Contains(t, body, "2.13x")
	assert.Contains(t, body, "scoring service: online")
	assert.Contains(t, body, `value="41"`)
	assert.Contains(t, body, `<button type="submit" id="submit">Analyze Risk</button>`)

	require.NotNil(t, scorer.got)
	assert.Equal(t, 41.0, scorer.got.Age)
	assert.Equal(t, 36.0, scorer.got.LoanTenureMonths)
	assert.Equal(t, "Unsecured", scorer.got.LoanType)
	assert.Equal(t, "Owned", scorer.got.ResidenceType)
}

func TestAssess_Failure(t *testing.T) {
	scorer := &fakeScorer{err: &scoring.PredictionError{
		Kind:    scoring.KindTransport,
		Message: scoring.MessageTransport,
	}}
	s := newTestServer(t, scorer, nil)

	req := httptest.NewRequest(http.MethodPost, "/assess", strings.NewReader(""))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := serve(s, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, scoring.MessageTransport)
	assert.Contains(t, body, "scoring service: unreachable")
	assert.NotContains(t, body, "results-container")
}

func TestPreview(t *testing.T) {
	s := newTestServer(t, &fakeScorer{}, nil)

	tests := []struct {
		query string
		want  string
	}{
		{"loan_amount=2560000&income=1200000", "2.13"},
		{"loan_amount=500&income=0", "0.00"},
		{"loan_amount=500", "0.00"},
		{"loan_amount=1000&income=abc", "0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := serve(s, httptest.NewRequest(http.MethodGet, "/api/preview?"+tt.query, nil))
			require.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, `{"ratio":"`+tt.want+`"}`, w.Body.String())
		})
	}
}

func TestAPIAssess(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		scorer := &fakeScorer{resp: goodResponse()}
		s := newTestServer(t, scorer, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/assess", strings.NewReader(`{"age": 30, "income": "900000"}`))
		req.Header.Set("Content-Type", "application/json")
		w := serve(s, req)

		require.Equal(t, http.StatusOK, w.Code)
		var body struct {
			Result map[string]interface{} `json:"result"`
			View   apiView                `json:"view"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, 812.0, body.Result["credit_score"])
		assert.Equal(t, "1.25%", body.Result["default_probability_percentage"])
		assert.Equal(t, "TIER 1 LOW RISK", body.View.Label)
		assert.Equal(t, 85, body.View.ConfidencePercent)
		assert.Equal(t, 900000.0, scorer.got.Income)
	})

	t.Run("backend failure", func(t *testing.T) {
		scorer := &fakeScorer{err: &scoring.PredictionError{
			Kind:       scoring.KindValidation,
			Message:    "age: Input should be greater than 0",
			StatusCode: http.StatusUnprocessableEntity,
		}}
		s := newTestServer(t, scorer, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/assess", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		w := serve(s, req)

		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.JSONEq(t, `{"error":"age: Input should be greater than 0","kind":"validation"}`, w.Body.String())
	})

	t.Run("not an object", func(t *testing.T) {
		s := newTestServer(t, &fakeScorer{}, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/assess", strings.NewReader(`[1,2]`))
		req.Header.Set("Content-Type", "application/json")
		w := serve(s, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("wrong field type", func(t *testing.T) {
		s := newTestServer(t, &fakeScorer{}, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/assess", strings.NewReader(`{"loan_type": true}`))
		req.Header.Set("Content-Type", "application/json")
		w := serve(s, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "loan_type")
	})
}

func TestToggleTheme(t *testing.T) {
	s := newTestServer(t, &fakeScorer{health: scoring.HealthStatus{Status: "healthy"}}, nil)

	first := serve(s, httptest.NewRequest(http.MethodGet, "/", nil))
	cookies := first.Result().Cookies()
	require.Len(t, cookies, 1)
	visitor := cookies[0]

	req := httptest.NewRequest(http.MethodPost, "/theme", nil)
	req.AddCookie(visitor)
	req.Header.Set("Accept", "application/json")
	w := serve(s, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"theme":"light","persisted":true}`, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(visitor)
	w = serve(s, req)
	assert.Contains(t, w.Body.String(), `<html lang="en" class="light">`)
	assert.Empty(t, w.Result().Cookies())

	req = httptest.NewRequest(http.MethodPost, "/theme", nil)
	req.AddCookie(visitor)
	w = serve(s, req)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestHealthAndReadiness(t *testing.T) {
	var redisErr error
	s := newTestServer(t, &fakeScorer{}, map[string]ReadinessCheck{
		"redis": func(context.Context) error { return redisErr },
	})

	w := serve(s, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = serve(s, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ready","checks":{"redis":"ok"}}`, w.Body.String())

	redisErr = stderrors.New("dial tcp: connection refused")
	w = serve(s, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "connection refused")
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, &fakeScorer{}, nil)
	serve(s, httptest.NewRequest(http.MethodGet, "/health", nil))

	w := serve(s, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "console_requests_total")
}
