package scoring

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"credit-risk-workers/internal/common/logger"
	"credit-risk-workers/internal/common/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRequest() *PredictionRequest {
	return &PredictionRequest{
		Age:                    28,
		Income:                 1200000,
		LoanAmount:             2560000,
		LoanTenureMonths:       36,
		AvgDPDPerDelinquency:   20,
		DelinquencyRatio:       30,
		CreditUtilizationRatio: 30,
		NumOpenAccounts:        2,
		ResidenceType:          "Owned",
		LoanPurpose:            "Home",
		LoanType:               "Secured",
	}
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := NewClient(Config{BaseURL: baseURL, Timeout: 2 * time.Second}, logger.NewTestLogger(t))
	require.NoError(t, err)
	return c
}

func TestNewClient(t *testing.T) {
	_, err := NewClient(Config{BaseURL: "  "}, logger.NewNoOpLogger())
	assert.ErrorIs(t, err, ErrBaseURLRequired)

	c, err := NewClient(Config{BaseURL: "http://scoring:8000//"}, logger.NewNoOpLogger())
	require.NoError(t, err)
	assert.Equal(t, "http://scoring:8000", c.BaseURL())
}

func TestPredict_Success(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/predict", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"credit_score":742,"rating":"Good","default_probability_percentage":"3.10%","loan_to_income_ratio":2.13,"default_probability":0.031}`)
	}))
	defer srv.Close()

	before := testutil.ToFloat64(metrics.ScoringRequests.WithLabelValues("predict", "success"))

	resp, err := newTestClient(t, srv.URL+"/").Predict(context.Background(), sampleRequest())
	require.NoError(t, err)

	assert.Equal(t, 742.0, resp.CreditScore)
	assert.Equal(t, "Good", resp.Rating)
	assert.Equal(t, Percentage("3.10%"), resp.DefaultProbabilityPercentage)
	assert.Equal(t, 2.13, resp.LoanToIncomeRatio)
	require.NotNil(t, resp.DefaultProbability)
	assert.InDelta(t, 0.031, *resp.DefaultProbability, 1e-9)

	// all eleven fields travel as snake_case JSON with numbers as numbers
	assert.Len(t, got, 11)
	assert.Equal(t, 28.0, got["age"])
	assert.Equal(t, 2560000.0, got["loan_amount"])
	assert.Equal(t, "Owned", got["residence_type"])
	assert.Equal(t, "Secured", got["loan_type"])

	assert.Equal(t, before+1, testutil.ToFloat64(metrics.ScoringRequests.WithLabelValues("predict", "success")))
}

func TestPredict_NumericPercentage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"credit_score":610,"rating":"Average","default_probability_percentage":5.2,"loan_to_income_ratio":1}`)
	}))
	defer srv.Close()

	resp, err := newTestClient(t, srv.URL).Predict(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, Percentage("5.20%"), resp.DefaultProbabilityPercentage)
	assert.Nil(t, resp.DefaultProbability)
}

func TestPredict_RatingMetricLabels(t *testing.T) {
	predictWithRating := func(rating string) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"credit_score":700,"rating":"`+rating+`","default_probability_percentage":"4%","loan_to_income_ratio":1}`)
		}))
		defer srv.Close()

		resp, err := newTestClient(t, srv.URL).Predict(context.Background(), sampleRequest())
		require.NoError(t, err)
		assert.Equal(t, rating, resp.Rating)
	}

	goodBefore := testutil.ToFloat64(metrics.PredictionsByRating.WithLabelValues("Good"))
	otherBefore := testutil.ToFloat64(metrics.PredictionsByRating.WithLabelValues("other"))

	predictWithRating("Good")
	for _, r := range []string{"Stellar", "good", "AAA"} {
		predictWithRating(r)
	}

	assert.Equal(t, goodBefore+1, testutil.ToFloat64(metrics.PredictionsByRating.WithLabelValues("Good")))
	assert.Equal(t, otherBefore+3, testutil.ToFloat64(metrics.PredictionsByRating.WithLabelValues("other")))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.PredictionsByRating.WithLabelValues("Stellar")))
}

func TestPredict_Failures(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantKind   Kind
		wantMsg    string
		wantStatus int
	}{
		{
			name:       "validation list",
			status:     http.StatusUnprocessableEntity,
			body:       `{"detail":[{"loc":["body","age"],"msg":"too small"},{"loc":["body","income"],"msg":"required"}]}`,
			wantKind:   KindValidation,
			wantMsg:    "age: too small; income: required",
			wantStatus: 422,
		},
		{
			name:       "string detail",
			status:     http.StatusInternalServerError,
			body:       `{"detail":"Model not loaded"}`,
			wantKind:   KindServer,
			wantMsg:    "Model not loaded",
			wantStatus: 500,
		},
		{
			name:       "no detail",
			status:     http.StatusBadGateway,
			body:       `upstream down`,
			wantKind:   KindServer,
			wantMsg:    "Prediction failed",
			wantStatus: 502,
		},
		{
			name:       "success missing rating",
			status:     http.StatusOK,
			body:       `{"credit_score":742,"default_probability_percentage":"3.10%","loan_to_income_ratio":2.13}`,
			wantKind:   KindMalformed,
			wantMsg:    MessageMalformed,
			wantStatus: 200,
		},
		{
			name:       "success not JSON",
			status:     http.StatusOK,
			body:       `OK`,
			wantKind:   KindMalformed,
			wantMsg:    MessageMalformed,
			wantStatus: 200,
		},
		{
			name:       "success with wrong types",
			status:     http.StatusOK,
			body:       `{"credit_score":"high","rating":"Good","default_probability_percentage":"3%","loan_to_income_ratio":2}`,
			wantKind:   KindMalformed,
			wantMsg:    MessageMalformed,
			wantStatus: 200,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			resp, err := newTestClient(t, srv.URL).Predict(context.Background(), sampleRequest())
			assert.Nil(t, resp)
			require.Error(t, err)

			var perr *PredictionError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.wantKind, perr.Kind)
			assert.Equal(t, tt.wantMsg, err.Error())
			assert.Equal(t, tt.wantStatus, perr.StatusCode)
		})
	}
}

func TestPredict_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newTestClient(t, url).Predict(context.Background(), sampleRequest())
	require.Error(t, err)

	var perr *PredictionError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, KindTransport, perr.Kind)
	assert.Equal(t, MessageTransport, err.Error())
	assert.NotNil(t, errors.Unwrap(err))
}

func TestPredict_ContextCancelled(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newTestClient(t, srv.URL).Predict(ctx, sampleRequest())
	var perr *PredictionError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, KindTransport, perr.Kind)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPredict_NilRequest(t *testing.T) {
	_, err := newTestClient(t, "http://127.0.0.1:1").Predict(context.Background(), nil)
	var perr *PredictionError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, KindValidation, perr.Kind)
}

func TestCheckHealth(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/health", r.URL.Path)
			_, _ = io.WriteString(w, `{"status":"healthy","service":"credit-risk-api","model_loaded":true}`)
		}))
		defer srv.Close()

		status := newTestClient(t, srv.URL).CheckHealth(context.Background())
		assert.True(t, status.Healthy())
		assert.Equal(t, "credit-risk-api", status.Service)
		require.NotNil(t, status.ModelLoaded)
		assert.True(t, *status.ModelLoaded)
		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ScoringBackendUp))
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := srv.URL
		srv.Close()

		status := newTestClient(t, url).CheckHealth(context.Background())
		assert.Equal(t, HealthStatus{Status: "error"}, status)
		assert.False(t, status.Healthy())
		assert.Equal(t, 0.0, testutil.ToFloat64(metrics.ScoringBackendUp))
	})

	t.Run("unreadable body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"detail":"Not Found"}`)
		}))
		defer srv.Close()

		status := newTestClient(t, srv.URL).CheckHealth(context.Background())
		assert.Equal(t, "error", status.Status)
	})

	t.Run("degraded status is passed through", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"status":"degraded","model_loaded":false}`)
		}))
		defer srv.Close()

		status := newTestClient(t, srv.URL).CheckHealth(context.Background())
		assert.Equal(t, "degraded", status.Status)
		assert.False(t, status.Healthy())
	})
}
