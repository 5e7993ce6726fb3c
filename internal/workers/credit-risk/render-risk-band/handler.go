package renderriskband

import (
	"context"
	"fmt"
	"time"

	"credit-risk-workers/internal/common/config"
	"credit-risk-workers/internal/common/errors"
	"credit-risk-workers/internal/common/logger"
	"credit-risk-workers/internal/common/metrics"
	"credit-risk-workers/internal/common/validation"
	"credit-risk-workers/internal/presentation"
	"credit-risk-workers/internal/scoring"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "credit-risk.render-band"

type Handler struct {
	config       *Config
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
}

type HandlerOptions struct {
	AppConfig    *config.Config
	CustomConfig *Config
	Logger       logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	workerConfig := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)

	if err := workerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", WorkerName, err)
	}

	loggerInstance := opts.Logger
	if loggerInstance == nil {
		loggerInstance = logger.NewStructured("info", "json")
	}

	return &Handler{
		config:       workerConfig,
		logger:       loggerInstance,
		errorHandler: errors.NewErrorHandler(loggerInstance),
	}, nil
}

func (h *Handler) Config() *Config {
	return h.config
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	input, err := h.parseInput(job)
	if err != nil {
		h.fail(ctx, client, job, err)
		return
	}

	output := h.Execute(input)

	request, err := client.NewCompleteJobCommand().JobKey(job.GetKey()).VariablesFromObject(output)
	if err == nil {
		_, err = request.Send(ctx)
	}
	if err != nil {
		h.fail(ctx, client, job, errors.NewJobCompletionFailedError(err))
		return
	}

	h.logger.Info("Risk band rendered", map[string]interface{}{
		"jobKey":      job.GetKey(),
		"creditScore": input.CreditScore,
		"label":       output.RiskLabel,
		"worker":      TaskType,
	})
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
}

// Execute maps a stored prediction to its band and gauge values.
func (h *Handler) Execute(input *Input) *Output {
	resp := &scoring.PredictionResponse{
		CreditScore: input.CreditScore,
		Rating:      input.Rating,
	}
	if input.LoanToIncomeRatio != nil {
		resp.LoanToIncomeRatio = *input.LoanToIncomeRatio
	}
	view := presentation.Render(resp)

	out := &Output{
		RiskLabel:         view.Band.Label,
		RiskColor:         view.Band.Color,
		RiskIcon:          view.Band.Icon,
		RiskDescription:   view.Band.Description,
		GaugeFill:         view.Fill,
		ConfidencePercent: view.ConfidencePercent,
	}
	if input.LoanToIncomeRatio != nil {
		out.IncomeMultiple = view.IncomeMultiple
	}
	return out
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	variables, err := job.GetVariablesAsMap()
	if err != nil {
		return nil, errors.NewInputParsingFailedError(err)
	}

	subset := make(map[string]interface{}, 3)
	for _, key := range []string{"creditScore", "rating", "loanToIncomeRatio"} {
		if v, ok := variables[key]; ok && v != nil {
			subset[key] = v
		}
	}

	result := validation.ValidateInput(subset, GetInputSchema())
	if !result.Valid {
		return nil, errors.NewValidationFailedError(result.GetErrorMessages())
	}

	input := &Input{CreditScore: toFloat(subset["creditScore"])}
	if rating, ok := subset["rating"].(string); ok {
		input.Rating = rating
	}
	if v, ok := subset["loanToIncomeRatio"]; ok {
		ratio := toFloat(v)
		input.LoanToIncomeRatio = &ratio
	}
	return input, nil
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.Normalize(err).Code)).Inc()
	h.errorHandler.HandleJobError(ctx, client, job, err)
}

func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}
