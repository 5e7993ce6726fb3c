package predictcreditrisk

import (
	"context"

	"credit-risk-workers/internal/applicant"
	"credit-risk-workers/internal/common/logger"
	"credit-risk-workers/internal/common/observability"
	"credit-risk-workers/internal/scoring"
)

// Input is the applicant form as read from the job variables.
type Input struct {
	ApplicationID string
	Form          *applicant.Form
}

// Output is merged into the process instance variables.
type Output struct {
	ApplicationID                string                     `json:"applicationId,omitempty"`
	CreditScore                  float64                    `json:"creditScore"`
	Rating                       string                     `json:"rating"`
	DefaultProbabilityPercentage string                     `json:"defaultProbabilityPercentage"`
	DefaultProbability           *float64                   `json:"defaultProbability,omitempty"`
	LoanToIncomeRatio            float64                    `json:"loanToIncomeRatio"`
	RiskBand                     RiskBand                   `json:"riskBand"`
	GaugeFill                    float64                    `json:"gaugeFill"`
	ConfidencePercent            int                        `json:"confidencePercent"`
	ScoringRequest               *scoring.PredictionRequest `json:"scoringRequest"`
	Advisories                   []string                   `json:"advisories,omitempty"`
}

type RiskBand struct {
	Label       string `json:"label"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

// Predictor is the part of the scoring client this worker needs.
type Predictor interface {
	Predict(ctx context.Context, req *scoring.PredictionRequest) (*scoring.PredictionResponse, error)
}

type ServiceDependencies struct {
	Predictor     Predictor
	Logger        logger.Logger
	Observability *observability.Observability
}
