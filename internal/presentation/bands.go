// Package presentation maps scoring results to what the console shows.
// Everything here is pure and safe for concurrent use.
package presentation

import "strings"

// Band is the display treatment for one rating.
type Band struct {
	Rating      string
	Color       string
	Label       string
	Icon        string
	Description string
	BadgeClass  string
}

const (
	colorPoor      = "#ef4444"
	colorAverage   = "#f59e0b"
	colorGood      = "#10b981"
	colorExcellent = "#06b6d4"
)

const defaultDescription = "Assessment complete. Review the detailed metrics for comprehensive analysis."

var bands = map[string]Band{
	"Poor": {
		Rating:      "Poor",
		Color:       colorPoor,
		Label:       "HIGH RISK",
		Icon:        "gpp_bad",
		Description: "The applicant shows elevated risk patterns. Additional review and collateral may be required before proceeding.",
		BadgeClass:  "badge badge-poor",
	},
	"Average": {
		Rating:      "Average",
		Color:       colorAverage,
		Label:       "MODERATE RISK",
		Icon:        "shield",
		Description: "The applicant shows moderate financial patterns. Standard lending terms recommended with periodic review.",
		BadgeClass:  "badge badge-average",
	},
	"Good": {
		Rating:      "Good",
		Color:       colorGood,
		Label:       "TIER 2 LOW RISK",
		Icon:        "verified",
		Description: "The applicant demonstrates solid financial reliability with manageable risk based on historical modeling.",
		BadgeClass:  "badge badge-good",
	},
	"Excellent": {
		Rating:      "Excellent",
		Color:       colorExcellent,
		Label:       "TIER 1 LOW RISK",
		Icon:        "verified_user",
		Description: "Based on historical neural mapping, this applicant sits in the 98th percentile of reliable borrowers. Liquidity ratios exceed baseline by 4.2x.",
		BadgeClass:  "badge badge-excellent",
	},
}

// BandFor returns the band for rating. Matching is exact; any other value,
// including "Undefined" and the empty string, gets the default band labelled
// with the upper-cased rating or "N/A".
func BandFor(rating string) Band {
	if b, ok := bands[rating]; ok {
		return b
	}

	label := strings.ToUpper(rating)
	if label == "" {
		label = "N/A"
	}
	return Band{
		Rating:      rating,
		Color:       colorGood,
		Label:       label,
		Icon:        "verified_user",
		Description: defaultDescription,
		BadgeClass:  "badge badge-default",
	}
}

// KnownRatings lists the ratings with a dedicated band, worst first.
func KnownRatings() []string {
	return []string{"Poor", "Average", "Good", "Excellent"}
}
