package applicant

// Field names as they appear in form posts, job variables and the scoring
// request body.
const (
	FieldAge                    = "age"
	FieldIncome                 = "income"
	FieldLoanAmount             = "loan_amount"
	FieldLoanTenureMonths       = "loan_tenure_months"
	FieldAvgDPDPerDelinquency   = "avg_dpd_per_delinquency"
	FieldDelinquencyRatio       = "delinquency_ratio"
	FieldCreditUtilizationRatio = "credit_utilization_ratio"
	FieldNumOpenAccounts        = "num_open_accounts"
	FieldResidenceType          = "residence_type"
	FieldLoanPurpose            = "loan_purpose"
	FieldLoanType               = "loan_type"
)

// Defaults substituted at submit time for blank or zero numeric input.
const (
	DefaultAge                    = 28
	DefaultIncome                 = 1200000
	DefaultLoanAmount             = 2560000
	DefaultLoanTenureMonths       = 36
	DefaultAvgDPDPerDelinquency   = 20
	DefaultDelinquencyRatio       = 30
	DefaultCreditUtilizationRatio = 30
	DefaultNumOpenAccounts        = 2

	DefaultResidenceType = "Owned"
	DefaultLoanPurpose   = "Home"
	DefaultLoanType      = "Secured"
)

var (
	ResidenceTypes = []string{"Owned", "Rented", "Mortgage"}
	LoanPurposes   = []string{"Education", "Home", "Auto", "Personal"}
	LoanTypes      = []string{"Secured", "Unsecured"}
)

type numericField struct {
	Name    string
	Label   string
	Default float64
	Min     *float64
	Max     *float64
	Step    string
	ptr     func(*Form) **float64
}

type enumField struct {
	Name    string
	Label   string
	Default string
	Options []string
	ptr     func(*Form) *string
}

func bound(v float64) *float64 { return &v }

var numericFields = []numericField{
	{FieldAge, "Age", DefaultAge, bound(18), bound(100), "1", func(f *Form) **float64 { return &f.Age }},
	{FieldIncome, "Annual Income", DefaultIncome, bound(0), nil, "1", func(f *Form) **float64 { return &f.Income }},
	{FieldLoanAmount, "Loan Amount", DefaultLoanAmount, bound(0), nil, "1", func(f *Form) **float64 { return &f.LoanAmount }},
	{FieldLoanTenureMonths, "Loan Tenure (months)", DefaultLoanTenureMonths, bound(1), bound(360), "1", func(f *Form) **float64 { return &f.LoanTenureMonths }},
	{FieldAvgDPDPerDelinquency, "Avg DPD per Delinquency", DefaultAvgDPDPerDelinquency, bound(0), nil, "any", func(f *Form) **float64 { return &f.AvgDPDPerDelinquency }},
	{FieldDelinquencyRatio, "Delinquency Ratio (%)", DefaultDelinquencyRatio, bound(0), bound(100), "any", func(f *Form) **float64 { return &f.DelinquencyRatio }},
	{FieldCreditUtilizationRatio, "Credit Utilization Ratio (%)", DefaultCreditUtilizationRatio, bound(0), bound(100), "any", func(f *Form) **float64 { return &f.CreditUtilizationRatio }},
	{FieldNumOpenAccounts, "Open Loan Accounts", DefaultNumOpenAccounts, bound(1), bound(10), "1", func(f *Form) **float64 { return &f.NumOpenAccounts }},
}

var enumFields = []enumField{
	{FieldResidenceType, "Residence Type", DefaultResidenceType, ResidenceTypes, func(f *Form) *string { return &f.ResidenceType }},
	{FieldLoanPurpose, "Loan Purpose", DefaultLoanPurpose, LoanPurposes, func(f *Form) *string { return &f.LoanPurpose }},
	{FieldLoanType, "Loan Type", DefaultLoanType, LoanTypes, func(f *Form) *string { return &f.LoanType }},
}

func lookupNumeric(name string) (numericField, bool) {
	for _, f := range numericFields {
		if f.Name == name {
			return f, true
		}
	}
	return numericField{}, false
}

func lookupEnum(name string) (enumField, bool) {
	for _, f := range enumFields {
		if f.Name == name {
			return f, true
		}
	}
	return enumField{}, false
}
