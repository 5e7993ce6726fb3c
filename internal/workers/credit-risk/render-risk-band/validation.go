package renderriskband

import "credit-risk-workers/internal/common/validation"

// GetInputSchema covers only the variables this worker reads; the rest of
// the process scope is ignored.
func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"creditScore"},
		Properties: map[string]validation.Property{
			"creditScore": {
				Type:        "number",
				Description: "Credit score on the 300-900 scale",
			},
			"rating": {
				Type:        "string",
				Description: "Rating returned by the scoring service",
				MaxLength:   intPtr(50),
			},
			"loanToIncomeRatio": {
				Type:        "number",
				Description: "Loan amount divided by income",
			},
		},
		AdditionalProperties: true,
	}
}

func intPtr(i int) *int { return &i }
