package web

import (
	"credit-risk-workers/internal/applicant"
	"credit-risk-workers/internal/preferences"
	"credit-risk-workers/internal/presentation"
	"credit-risk-workers/internal/scoring"
)

// Backend status shown in the console header.
const (
	BackendUnknown     = "unknown"
	BackendOnline      = "online"
	BackendUnreachable = "unreachable"
)

// PageState is everything the console page renders for one request.
type PageState struct {
	Theme      preferences.Theme
	Numeric    []applicant.NumericInput
	Enums      []applicant.EnumInput
	Preview    string
	Advisories []string
	Error      string
	Result     *presentation.ResultView
	Backend    string
	Health     scoring.HealthStatus
}

func newPageState(form *applicant.Form, theme preferences.Theme) *PageState {
	return &PageState{
		Theme:   theme,
		Numeric: form.NumericInputs(),
		Enums:   form.EnumInputs(),
		Preview: form.Preview(),
		Backend: BackendUnknown,
	}
}

// setHealth records a health check result. Only a healthy reply marks the
// backend online.
func (p *PageState) setHealth(h scoring.HealthStatus) {
	p.Health = h
	if h.Healthy() {
		p.Backend = BackendOnline
	} else {
		p.Backend = BackendUnreachable
	}
}

// setOutcome records a submission. A failure clears any previous result.
func (p *PageState) setOutcome(resp *scoring.PredictionResponse, err error) {
	if err != nil {
		p.Error = err.Error()
		p.Result = nil
		p.Backend = BackendUnreachable
		return
	}
	p.Error = ""
	p.Result = presentation.Render(resp)
	p.Backend = BackendOnline
}
