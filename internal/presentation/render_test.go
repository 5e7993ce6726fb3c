package presentation

import (
	"math"
	"testing"

	"credit-risk-workers/internal/scoring"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBandFor(t *testing.T) {
	tests := []struct {
		rating string
		color  string
		label  string
		icon   string
	}{
		{"Poor", "#ef4444", "HIGH RISK", "gpp_bad"},
		{"Average", "#f59e0b", "MODERATE RISK", "shield"},
		{"Good", "#10b981", "TIER 2 LOW RISK", "verified"},
		{"Excellent", "#06b6d4", "TIER 1 LOW RISK", "verified_user"},
		{"Undefined", "#10b981", "UNDEFINED", "verified_user"},
		{"good", "#10b981", "GOOD", "verified_user"},
		{"", "#10b981", "N/A", "verified_user"},
	}

	for _, tt := range tests {
		t.Run(tt.rating, func(t *testing.T) {
			band := BandFor(tt.rating)
			assert.Equal(t, tt.color, band.Color)
			assert.Equal(t, tt.label, band.Label)
			assert.Equal(t, tt.icon, band.Icon)
			assert.NotEmpty(t, band.Description)
			assert.NotEmpty(t, band.BadgeClass)
		})
	}
}

func TestBandFor_Descriptions(t *testing.T) {
	assert.Equal(t, "The applicant shows elevated risk patterns. Additional review and collateral may be required before proceeding.", BandFor("Poor").Description)
	assert.Equal(t, "The applicant shows moderate financial patterns. Standard lending terms recommended with periodic review.", BandFor("Average").Description)
	assert.Equal(t, "The applicant demonstrates solid financial reliability with manageable risk based on historical modeling.", BandFor("Good").Description)
	assert.Equal(t, "Based on historical neural mapping, this applicant sits in the 98th percentile of reliable borrowers. Liquidity ratios exceed baseline by 4.2x.", BandFor("Excellent").Description)
}

func TestBandFor_DefaultDescription(t *testing.T) {
	assert.Equal(t, defaultDescription, BandFor("Unknown").Description)
	assert.NotEqual(t, defaultDescription, BandFor("Poor").Description)
}

func TestKnownRatingsHaveBands(t *testing.T) {
	for _, r := range KnownRatings() {
		assert.Equal(t, r, BandFor(r).Rating)
		assert.NotEqual(t, "badge badge-default", BandFor(r).BadgeClass)
	}
}

func TestGaugeFill(t *testing.T) {
	tests := []struct {
		score float64
		want  float64
	}{
		{300, 0},
		{600, 0.5},
		{900, 1},
		{200, 0},
		{0, 0},
		{1000, 1},
		{-50, 0},
		{750, 0.75},
		{math.NaN(), 0},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, GaugeFill(tt.score), 1e-9, "score %v", tt.score)
	}
}

func TestRender(t *testing.T) {
	view := Render(&scoring.PredictionResponse{
		CreditScore:                  750,
		Rating:                       "Good",
		DefaultProbabilityPercentage: "3.10%",
		LoanToIncomeRatio:            2.13,
	})
	require.NotNil(t, view)

	assert.Equal(t, "750", view.Score)
	assert.Equal(t, "TIER 2 LOW RISK", view.Band.Label)
	assert.InDelta(t, 0.75, view.Fill, 1e-9)
	assert.Equal(t, 75, view.ConfidencePercent)
	assert.InDelta(t, 2*math.Pi*44, view.Circumference, 1e-9)
	assert.InDelta(t, 2*math.Pi*44*0.25, view.DashOffset, 1e-9)
	assert.Equal(t, "3.10%", view.DefaultProbability)
	assert.Equal(t, "2.13x", view.IncomeMultiple)
}

func TestRender_ClampsAndDefaults(t *testing.T) {
	view := Render(&scoring.PredictionResponse{
		CreditScore:                  950,
		Rating:                       "Undefined",
		DefaultProbabilityPercentage: scoring.FormatPercentage(5.2),
		LoanToIncomeRatio:            2,
	})
	require.NotNil(t, view)

	assert.Equal(t, 1.0, view.Fill)
	assert.Equal(t, 100, view.ConfidencePercent)
	assert.InDelta(t, 0, view.DashOffset, 1e-9)
	assert.Equal(t, "UNDEFINED", view.Band.Label)
	assert.Equal(t, "5.20%", view.DefaultProbability)
	assert.Equal(t, "2x", view.IncomeMultiple)
}

func TestRender_Nil(t *testing.T) {
	assert.Nil(t, Render(nil))
}
