package applicant

import (
	"credit-risk-workers/internal/common/validation"
	"credit-risk-workers/internal/scoring"
)

// requestSchema mirrors the input constraints shown next to each field.
var requestSchema = buildRequestSchema()

func buildRequestSchema() validation.JSONSchema {
	props := make(map[string]validation.Property, len(numericFields)+len(enumFields))
	required := make([]string, 0, len(numericFields)+len(enumFields))

	for _, nf := range numericFields {
		props[nf.Name] = validation.Property{
			Type:        "number",
			Description: nf.Label,
			Default:     nf.Default,
			Minimum:     nf.Min,
			Maximum:     nf.Max,
		}
		required = append(required, nf.Name)
	}
	for _, ef := range enumFields {
		props[ef.Name] = validation.Property{
			Type:        "string",
			Description: ef.Label,
			Default:     ef.Default,
			Enum:        ef.Options,
		}
		required = append(required, ef.Name)
	}

	return validation.JSONSchema{
		Type:       "object",
		Properties: props,
		Required:   required,
	}
}

// Advisories evaluates the field constraints against the built request and
// returns human-readable notes. They are informational; nothing is blocked.
func (f *Form) Advisories() []string {
	return RequestAdvisories(f.Build())
}

// RequestAdvisories is Advisories for an already built request.
func RequestAdvisories(req *scoring.PredictionRequest) []string {
	result := validation.ValidateInput(requestValues(req), requestSchema)
	if result.Valid {
		return nil
	}
	return result.GetErrorMessages()
}

func requestValues(req *scoring.PredictionRequest) map[string]interface{} {
	return map[string]interface{}{
		FieldAge:                    req.Age,
		FieldIncome:                 req.Income,
		FieldLoanAmount:             req.LoanAmount,
		FieldLoanTenureMonths:       req.LoanTenureMonths,
		FieldAvgDPDPerDelinquency:   req.AvgDPDPerDelinquency,
		FieldDelinquencyRatio:       req.DelinquencyRatio,
		FieldCreditUtilizationRatio: req.CreditUtilizationRatio,
		FieldNumOpenAccounts:        req.NumOpenAccounts,
		FieldResidenceType:          req.ResidenceType,
		FieldLoanPurpose:            req.LoanPurpose,
		FieldLoanType:               req.LoanType,
	}
}

// NumericInput describes one numeric input for rendering.
type NumericInput struct {
	Name  string
	Label string
	Min   *float64
	Max   *float64
	Step  string
	Value string
}

// EnumInput describes one select input for rendering.
type EnumInput struct {
	Name     string
	Label    string
	Options  []string
	Selected string
}

// NumericInputs lists the numeric inputs with the form's current values.
func (f *Form) NumericInputs() []NumericInput {
	out := make([]NumericInput, 0, len(numericFields))
	for _, nf := range numericFields {
		out = append(out, NumericInput{
			Name:  nf.Name,
			Label: nf.Label,
			Min:   nf.Min,
			Max:   nf.Max,
			Step:  nf.Step,
			Value: f.Display(nf.Name),
		})
	}
	return out
}

// EnumInputs lists the select inputs with the form's current choices.
func (f *Form) EnumInputs() []EnumInput {
	out := make([]EnumInput, 0, len(enumFields))
	for _, ef := range enumFields {
		out = append(out, EnumInput{
			Name:     ef.Name,
			Label:    ef.Label,
			Options:  ef.Options,
			Selected: f.Display(ef.Name),
		})
	}
	return out
}
