package checkscoringhealth

import (
	"context"
	"fmt"
	"time"

	"credit-risk-workers/internal/common/config"
	"credit-risk-workers/internal/common/errors"
	"credit-risk-workers/internal/common/logger"
	"credit-risk-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "credit-risk.health-check"

// Handler reports scoring-service health into the process so a model can
// gate on it. An unreachable service is a result, not a job failure.
type Handler struct {
	config       *Config
	logger       logger.Logger
	checker      HealthChecker
	errorHandler *errors.ErrorHandler
}

type HandlerOptions struct {
	AppConfig    *config.Config
	CustomConfig *Config
	Checker      HealthChecker
	Logger       logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	workerConfig := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)

	if err := workerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", WorkerName, err)
	}
	if opts.Checker == nil {
		return nil, fmt.Errorf("%s requires a scoring client", WorkerName)
	}

	loggerInstance := opts.Logger
	if loggerInstance == nil {
		loggerInstance = logger.NewStructured("info", "json")
	}

	return &Handler{
		config:       workerConfig,
		logger:       loggerInstance,
		checker:      opts.Checker,
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

	output := h.Execute(ctx)

	request, err := client.NewCompleteJobCommand().JobKey(job.GetKey()).VariablesFromObject(output)
	if err == nil {
		_, err = request.Send(ctx)
	}
	if err != nil {
		stdErr := errors.NewJobCompletionFailedError(err)
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
		h.errorHandler.HandleJobError(ctx, client, job, stdErr)
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
}

// Execute queries the scoring service once.
func (h *Handler) Execute(ctx context.Context) *Output {
	status := h.checker.CheckHealth(ctx)

	out := &Output{
		ScoringStatus:  status.Status,
		ScoringHealthy: status.Healthy(),
		ScoringService: status.Service,
		ModelLoaded:    status.ModelLoaded,
	}

	h.logger.Info("Scoring service health checked", map[string]interface{}{
		"status":  out.ScoringStatus,
		"healthy": out.ScoringHealthy,
		"worker":  TaskType,
	})
	return out
}
