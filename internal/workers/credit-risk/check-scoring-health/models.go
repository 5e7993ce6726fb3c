package checkscoringhealth

import (
	"context"

	"credit-risk-workers/internal/scoring"
)

// Output is merged into the process instance variables.
type Output struct {
	ScoringStatus  string `json:"scoringStatus"`
	ScoringHealthy bool   `json:"scoringHealthy"`
	ScoringService string `json:"scoringService,omitempty"`
	ModelLoaded    *bool  `json:"modelLoaded,omitempty"`
}

type HealthChecker interface {
	CheckHealth(ctx context.Context) scoring.HealthStatus
}
