package web

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"
	"time"

	"credit-risk-workers/internal/applicant"
	"credit-risk-workers/internal/presentation"
	"credit-risk-workers/internal/scoring"

	"github.com/gin-gonic/gin"
)

const healthCheckTimeout = 5 * time.Second

func (s *Server) index(c *gin.Context) {
	page := newPageState(applicant.NewForm(), s.themes.Get(c.Request.Context(), visitorID(c)))

	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()
	page.setHealth(s.scorer.CheckHealth(ctx))

	c.HTML(http.StatusOK, "index.html", page)
}

func (s *Server) assess(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		c.String(http.StatusBadRequest, "invalid form")
		return
	}

	ctx := c.Request.Context()
	form := applicant.FromValues(c.Request.PostForm)
	page := newPageState(form, s.themes.Get(ctx, visitorID(c)))

	resp, err := s.predict(ctx, form, page)
	page.setOutcome(resp, err)

	c.HTML(http.StatusOK, "index.html", page)
}

// predict builds the request, records advisories on page and calls the
// scoring service.
func (s *Server) predict(ctx context.Context, form *applicant.Form, page *PageState) (*scoring.PredictionResponse, error) {
	req := form.Build()
	page.Advisories = applicant.RequestAdvisories(req)
	if len(page.Advisories) > 0 {
		s.logger.Warn("submitted values outside advisory ranges", map[string]interface{}{
			"advisories": page.Advisories,
		})
	}

	resp, err := s.scorer.Predict(ctx, req)
	if err != nil {
		s.obs.RecordAssessment(ctx, "console", failureKind(err))
		return nil, err
	}
	s.obs.RecordAssessment(ctx, "console", resp.Rating)
	return resp, nil
}

func (s *Server) preview(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ratio": applicant.PreviewFromStrings(c.Query(applicant.FieldLoanAmount), c.Query(applicant.FieldIncome)),
	})
}

type apiView struct {
	Score              string  `json:"score"`
	Label              string  `json:"label"`
	Color              string  `json:"color"`
	Icon               string  `json:"icon"`
	Description        string  `json:"description"`
	BadgeClass         string  `json:"badgeClass"`
	Fill               float64 `json:"fill"`
	ConfidencePercent  int     `json:"confidencePercent"`
	DashOffset         float64 `json:"dashOffset"`
	DefaultProbability string  `json:"defaultProbability"`
	IncomeMultiple     string  `json:"incomeMultiple"`
}

func toAPIView(v *presentation.ResultView) apiView {
	return apiView{
		Score:              v.Score,
		Label:              v.Band.Label,
		Color:              v.Band.Color,
		Icon:               v.Band.Icon,
		Description:        v.Band.Description,
		BadgeClass:         v.Band.BadgeClass,
		Fill:               v.Fill,
		ConfidencePercent:  v.ConfidencePercent,
		DashOffset:         v.DashOffset,
		DefaultProbability: v.DefaultProbability,
		IncomeMultiple:     v.IncomeMultiple,
	}
}

func (s *Server) apiAssess(c *gin.Context) {
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be a JSON object"})
		return
	}

	form, err := applicant.FromVariables(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page := newPageState(form, "")
	resp, err := s.predict(c.Request.Context(), form, page)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "kind": failureKind(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result":     resp,
		"view":       toAPIView(presentation.Render(resp)),
		"advisories": page.Advisories,
	})
}

func (s *Server) toggleTheme(c *gin.Context) {
	next, err := s.themes.Toggle(c.Request.Context(), visitorID(c))
	if err != nil {
		s.logger.Warn("theme not persisted", map[string]interface{}{"error": err})
	}

	if strings.Contains(c.GetHeader("Accept"), "application/json") {
		c.JSON(http.StatusOK, gin.H{"theme": next, "persisted": err == nil})
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	checks := make(map[string]string, len(s.ready))
	ready := true
	for name, check := range s.ready {
		if err := check(ctx); err != nil {
			checks[name] = err.Error()
			ready = false
			continue
		}
		checks[name] = "ok"
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "checks": checks})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "checks": checks})
}

func failureKind(err error) string {
	var predErr *scoring.PredictionError
	if stderrors.As(err, &predErr) {
		return string(predErr.Kind)
	}
	return "unknown"
}
