package scoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// PredictionRequest is the body POSTed to /api/predict.
type PredictionRequest struct {
	Age                    float64 `json:"age"`
	Income                 float64 `json:"income"`
	LoanAmount             float64 `json:"loan_amount"`
	LoanTenureMonths       float64 `json:"loan_tenure_months"`
	AvgDPDPerDelinquency   float64 `json:"avg_dpd_per_delinquency"`
	DelinquencyRatio       float64 `json:"delinquency_ratio"`
	CreditUtilizationRatio float64 `json:"credit_utilization_ratio"`
	NumOpenAccounts        float64 `json:"num_open_accounts"`
	ResidenceType          string  `json:"residence_type"`
	LoanPurpose            string  `json:"loan_purpose"`
	LoanType               string  `json:"loan_type"`
}

// PredictionResponse is a successful reply from /api/predict.
type PredictionResponse struct {
	CreditScore                  float64    `json:"credit_score"`
	Rating                       string     `json:"rating"`
	DefaultProbabilityPercentage Percentage `json:"default_probability_percentage"`
	LoanToIncomeRatio            float64    `json:"loan_to_income_ratio"`
	DefaultProbability           *float64   `json:"default_probability,omitempty"`
}

// Percentage holds default_probability_percentage. The backend sends a
// preformatted string such as "5.23%", but a bare number is accepted and
// formatted with two decimals.
type Percentage string

func (p *Percentage) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*p = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = Percentage(s)
		return nil
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("default_probability_percentage: %w", err)
	}
	*p = FormatPercentage(f)
	return nil
}

func (p Percentage) String() string {
	return string(p)
}

// FormatPercentage renders f as "12.34%".
func FormatPercentage(f float64) Percentage {
	return Percentage(strconv.FormatFloat(f, 'f', 2, 64) + "%")
}

// HealthStatus is the reply from /api/health. Status is "error" when the
// service could not be reached or answered with something unreadable.
type HealthStatus struct {
	Status      string `json:"status"`
	Service     string `json:"service,omitempty"`
	ModelLoaded *bool  `json:"model_loaded,omitempty"`
}

const (
	HealthStatusHealthy = "healthy"
	HealthStatusError   = "error"
)

// Healthy reports whether the service declared itself healthy.
func (h HealthStatus) Healthy() bool {
	return h.Status == HealthStatusHealthy
}

// ValidationIssue is one entry of a list-shaped "detail" error body.
type ValidationIssue struct {
	Loc  []interface{} `json:"loc"`
	Msg  string        `json:"msg"`
	Type string        `json:"type,omitempty"`
}
