package presentation

import (
	"math"
	"strconv"

	"credit-risk-workers/internal/scoring"
)

const (
	MinScore = 300
	MaxScore = 900

	// GaugeRadius is the radius of the SVG gauge arc in viewBox units.
	GaugeRadius = 44
)

// GaugeCircumference is the stroke-dasharray of the gauge arc.
var GaugeCircumference = 2 * math.Pi * GaugeRadius

// GaugeFill maps a score onto [0, 1] over the 300-900 range.
func GaugeFill(score float64) float64 {
	if math.IsNaN(score) {
		return 0
	}
	fill := (score - MinScore) / (MaxScore - MinScore)
	return math.Min(math.Max(fill, 0), 1)
}

// ResultView is everything the results panel needs.
type ResultView struct {
	Score              string
	CreditScore        float64
	Band               Band
	Fill               float64
	ConfidencePercent  int
	Circumference      float64
	DashOffset         float64
	DefaultProbability string
	IncomeMultiple     string
}

// Render builds the view for resp. A nil response renders nothing.
func Render(resp *scoring.PredictionResponse) *ResultView {
	if resp == nil {
		return nil
	}

	fill := GaugeFill(resp.CreditScore)
	return &ResultView{
		Score:              strconv.FormatFloat(resp.CreditScore, 'f', -1, 64),
		CreditScore:        resp.CreditScore,
		Band:               BandFor(resp.Rating),
		Fill:               fill,
		ConfidencePercent:  int(math.Round(fill * 100)),
		Circumference:      GaugeCircumference,
		DashOffset:         GaugeCircumference * (1 - fill),
		DefaultProbability: resp.DefaultProbabilityPercentage.String(),
		IncomeMultiple:     strconv.FormatFloat(resp.LoanToIncomeRatio, 'f', -1, 64) + "x",
	}
}
