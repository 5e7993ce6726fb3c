package predictcreditrisk

import (
	"context"
	stderrors "errors"

	"credit-risk-workers/internal/applicant"
	"credit-risk-workers/internal/common/errors"
	"credit-risk-workers/internal/common/logger"
	"credit-risk-workers/internal/common/observability"
	"credit-risk-workers/internal/presentation"
	"credit-risk-workers/internal/scoring"

	"go.opentelemetry.io/otel/attribute"
)

type Service struct {
	predictor Predictor
	logger    logger.Logger
	obs       *observability.Observability
	config    *Config
}

func NewService(deps ServiceDependencies, cfg *Config) *Service {
	obs := deps.Observability
	if obs == nil {
		obs = &observability.Observability{}
	}
	return &Service{
		predictor: deps.Predictor,
		logger:    deps.Logger,
		obs:       obs,
		config:    cfg,
	}
}

// Execute scores the applicant and attaches the display band.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	ctx, span := s.obs.StartSpan(ctx, "predict-credit-risk.execute",
		attribute.String("application.id", input.ApplicationID))
	defer span.End()

	req := input.Form.Build()
	advisories := applicant.RequestAdvisories(req)
	if len(advisories) > 0 {
		s.logger.Warn("Applicant values outside advisory ranges", map[string]interface{}{
			"applicationId": input.ApplicationID,
			"advisories":    advisories,
		})
	}

	resp, err := s.predictor.Predict(ctx, req)
	if err != nil {
		stdErr := toStandardError(err)
		span.RecordError(stdErr)
		s.obs.RecordAssessment(ctx, "worker", string(stdErr.Code))
		return nil, stdErr
	}
	s.obs.RecordAssessment(ctx, "worker", resp.Rating)

	view := presentation.Render(resp)
	s.logger.Info("Credit risk predicted", map[string]interface{}{
		"applicationId": input.ApplicationID,
		"creditScore":   resp.CreditScore,
		"rating":        resp.Rating,
	})

	return &Output{
		ApplicationID:                input.ApplicationID,
		CreditScore:                  resp.CreditScore,
		Rating:                       resp.Rating,
		DefaultProbabilityPercentage: resp.DefaultProbabilityPercentage.String(),
		DefaultProbability:           resp.DefaultProbability,
		LoanToIncomeRatio:            resp.LoanToIncomeRatio,
		RiskBand: RiskBand{
			Label:       view.Band.Label,
			Color:       view.Band.Color,
			Icon:        view.Band.Icon,
			Description: view.Band.Description,
		},
		GaugeFill:         view.Fill,
		ConfidencePercent: view.ConfidencePercent,
		ScoringRequest:    req,
		Advisories:        advisories,
	}, nil
}

// toStandardError keeps the applicant-facing message as the error message.
func toStandardError(err error) *errors.StandardError {
	var predErr *scoring.PredictionError
	if !stderrors.As(err, &predErr) {
		return errors.Normalize(err)
	}

	switch predErr.Kind {
	case scoring.KindTransport:
		return errors.NewScoringUnavailableError(predErr.Message, predErr.Err)
	case scoring.KindValidation:
		return errors.NewPredictionRejectedError(predErr.Message, predErr.StatusCode)
	case scoring.KindMalformed:
		return errors.NewMalformedPredictionError(predErr.Message, predErr.Err)
	default:
		return errors.NewPredictionFailedError(predErr.Message, predErr.StatusCode)
	}
}
