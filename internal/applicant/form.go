// Package applicant collects loan-applicant input and turns it into a
// scoring request.
package applicant

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"credit-risk-workers/internal/scoring"
)

// Form holds the applicant's current input. A nil numeric field is blank;
// blank and zero values are replaced by defaults in Build, never earlier.
type Form struct {
	Age                    *float64
	Income                 *float64
	LoanAmount             *float64
	LoanTenureMonths       *float64
	AvgDPDPerDelinquency   *float64
	DelinquencyRatio       *float64
	CreditUtilizationRatio *float64
	NumOpenAccounts        *float64

	ResidenceType string
	LoanPurpose   string
	LoanType      string
}

// NewForm returns a form with blank numerics and the default enum choices.
func NewForm() *Form {
	return &Form{
		ResidenceType: DefaultResidenceType,
		LoanPurpose:   DefaultLoanPurpose,
		LoanType:      DefaultLoanType,
	}
}

// UnknownFieldError is returned for field names outside the request shape.
type UnknownFieldError struct {
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown field %q", e.Field)
}

// Set records raw input for field. Blank numeric input clears the field and
// input that is not a number becomes an explicit 0. Enum input is stored
// as given.
func (f *Form) Set(field, raw string) error {
	if nf, ok := lookupNumeric(field); ok {
		*nf.ptr(f) = parseNumber(raw)
		return nil
	}
	if ef, ok := lookupEnum(field); ok {
		*ef.ptr(f) = raw
		return nil
	}
	return &UnknownFieldError{Field: field}
}

// SetNumber records a numeric value directly.
func (f *Form) SetNumber(field string, v float64) error {
	nf, ok := lookupNumeric(field)
	if !ok {
		return &UnknownFieldError{Field: field}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	*nf.ptr(f) = &v
	return nil
}

// Display returns the value as it should be echoed back into an input box.
func (f *Form) Display(field string) string {
	if nf, ok := lookupNumeric(field); ok {
		v := *nf.ptr(f)
		if v == nil {
			return ""
		}
		return strconv.FormatFloat(*v, 'f', -1, 64)
	}
	if ef, ok := lookupEnum(field); ok {
		return *ef.ptr(f)
	}
	return ""
}

// FromValues builds a form from an HTML form post. Unknown keys are ignored.
func FromValues(values url.Values) *Form {
	f := NewForm()
	for _, nf := range numericFields {
		if _, ok := values[nf.Name]; ok {
			_ = f.Set(nf.Name, values.Get(nf.Name))
		}
	}
	for _, ef := range enumFields {
		if _, ok := values[ef.Name]; ok {
			_ = f.Set(ef.Name, values.Get(ef.Name))
		}
	}
	return f
}

// FromVariables builds a form from decoded JSON, such as Zeebe job
// variables. Numbers may arrive as JSON numbers or strings.
func FromVariables(vars map[string]interface{}) (*Form, error) {
	f := NewForm()
	for _, nf := range numericFields {
		v, ok := vars[nf.Name]
		if !ok || v == nil {
			continue
		}
		switch n := v.(type) {
		case float64:
			_ = f.SetNumber(nf.Name, n)
		case int:
			_ = f.SetNumber(nf.Name, float64(n))
		case int64:
			_ = f.SetNumber(nf.Name, float64(n))
		case json.Number:
			_ = f.Set(nf.Name, n.String())
		case string:
			_ = f.Set(nf.Name, n)
		default:
			return nil, fmt.Errorf("%s: expected number, got %T", nf.Name, v)
		}
	}
	for _, ef := range enumFields {
		v, ok := vars[ef.Name]
		if !ok || v == nil {
			continue
		}
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%s: expected string, got %T", ef.Name, v)
		}
		_ = f.Set(ef.Name, s)
	}
	return f, nil
}

// Build produces the request sent to the scoring service. Blank or zero
// numerics take their defaults, as do blank enums. It never rejects input;
// see Advisories for constraint notes.
func (f *Form) Build() *scoring.PredictionRequest {
	val := func(field string) float64 {
		nf, _ := lookupNumeric(field)
		v := *nf.ptr(f)
		if v == nil || *v == 0 {
			return nf.Default
		}
		return *v
	}
	enum := func(field string) string {
		ef, _ := lookupEnum(field)
		if s := strings.TrimSpace(*ef.ptr(f)); s != "" {
			return s
		}
		return ef.Default
	}

	return &scoring.PredictionRequest{
		Age:                    val(FieldAge),
		Income:                 val(FieldIncome),
		LoanAmount:             val(FieldLoanAmount),
		LoanTenureMonths:       val(FieldLoanTenureMonths),
		AvgDPDPerDelinquency:   val(FieldAvgDPDPerDelinquency),
		DelinquencyRatio:       val(FieldDelinquencyRatio),
		CreditUtilizationRatio: val(FieldCreditUtilizationRatio),
		NumOpenAccounts:        val(FieldNumOpenAccounts),
		ResidenceType:          enum(FieldResidenceType),
		LoanPurpose:            enum(FieldLoanPurpose),
		LoanType:               enum(FieldLoanType),
	}
}

// Preview is the loan-to-income ratio of the values as currently entered,
// before any defaults.
func (f *Form) Preview() string {
	return LoanToIncomePreview(deref(f.LoanAmount), deref(f.Income))
}

// LoanToIncomePreview formats loanAmount/income with two decimals, or "0.00"
// when income is not positive.
func LoanToIncomePreview(loanAmount, income float64) string {
	if income <= 0 {
		return "0.00"
	}
	return strconv.FormatFloat(loanAmount/income, 'f', 2, 64)
}

// PreviewFromStrings applies LoanToIncomePreview to raw input.
func PreviewFromStrings(loanAmount, income string) string {
	return LoanToIncomePreview(deref(parseNumber(loanAmount)), deref(parseNumber(income)))
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// parseNumber returns nil for blank input. Otherwise it reads the longest
// numeric prefix, falling back to 0.
func parseNumber(raw string) *float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		v = 0
		if m := leadingNumber.FindString(s); m != "" {
			if p, perr := strconv.ParseFloat(m, 64); perr == nil {
				v = p
			}
		}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	return &v
}
