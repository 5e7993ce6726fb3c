package renderriskband

// Input is a prediction already stored in the process, for example by an
// external scoring task.
type Input struct {
	CreditScore       float64
	Rating            string
	LoanToIncomeRatio *float64
}

// Output is merged into the process instance variables.
type Output struct {
	RiskLabel         string  `json:"riskLabel"`
	RiskColor         string  `json:"riskColor"`
	RiskIcon          string  `json:"riskIcon"`
	RiskDescription   string  `json:"riskDescription"`
	GaugeFill         float64 `json:"gaugeFill"`
	ConfidencePercent int     `json:"confidencePercent"`
	IncomeMultiple    string  `json:"incomeMultiple,omitempty"`
}
