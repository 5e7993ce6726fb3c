// cmd/worker-manager/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.uber.org/zap"

	"credit-risk-workers/internal/common/camunda"
	"credit-risk-workers/internal/common/config"
	"credit-risk-workers/internal/common/database"
	"credit-risk-workers/internal/common/logger"
	"credit-risk-workers/internal/common/observability"
	"credit-risk-workers/internal/preferences"
	"credit-risk-workers/internal/scoring"
	"credit-risk-workers/internal/web"
	"credit-risk-workers/pkg/registry"

	csh "credit-risk-workers/internal/workers/credit-risk/check-scoring-health"
	pcr "credit-risk-workers/internal/workers/credit-risk/predict-credit-risk"
	rrb "credit-risk-workers/internal/workers/credit-risk/render-risk-band"
)

var version = "dev"

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	bootLog := logger.New("info", "console")

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.NewWithOutput(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting credit risk service",
		zap.String("environment", cfg.App.Environment),
		zap.String("scoringBaseURL", cfg.Scoring.BaseURL),
		zap.Bool("workersEnabled", cfg.WorkersEnabled()),
	)

	obs, err := observability.New(observability.Options{
		ServiceName:    cfg.Observability.ServiceName,
		ServiceVersion: version,
		JaegerEndpoint: cfg.Observability.JaegerEndpoint,
	})
	if err != nil {
		zapLog.Warn("observability partially initialized", zap.Error(err))
	}
	defer obs.Shutdown()

	scoringClient, err := scoring.NewClient(scoring.Config{
		BaseURL: cfg.Scoring.BaseURL,
		Timeout: config.GetDuration(cfg.Scoring.Timeout),
	}, log)
	if err != nil {
		zapLog.Fatal("scoring client init failed", zap.Error(err))
	}

	ready := map[string]web.ReadinessCheck{}

	// --- Preference store: Redis when configured, in-process otherwise ---
	var store preferences.Store = preferences.NewMemoryStore()
	if cfg.Database.Redis.Address != "" {
		rdb, err := connectRedis(cfg.Database.Redis, zapLog)
		if err != nil {
			zapLog.Warn("redis unavailable, preferences kept in memory", zap.Error(err))
		} else {
			defer rdb.Close()
			store = preferences.NewRedisStore(rdb.GetClient(), cfg.Preferences.KeyPrefix,
				time.Duration(cfg.Preferences.TTL)*time.Second)
			ready["redis"] = rdb.Ping
			zapLog.Info("Redis connected successfully")
		}
	}
	themes := preferences.NewThemes(store, log)

	// --- Zeebe workers ---
	var workers []*camunda.CamundaWorker
	if cfg.WorkersEnabled() {
		var camundaClient *camunda.Client
		err = retryWithBackoff(func() error {
			var err error
			camundaClient, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
				GatewayAddress:         cfg.Camunda.BrokerAddress,
				UsePlaintextConnection: true,
				RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
			})
			return err
		}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}
		defer camundaClient.Close()
		ready["zeebe"] = camundaClient.HealthCheck
		zapLog.Info("Zeebe client connected successfully")

		workers, err = startWorkers(cfg, camundaClient.GetClient(), scoringClient, obs, log)
		if err != nil {
			zapLog.Fatal("worker registration failed", zap.Error(err))
		}
		checkRegistry(cfg.App.RegistryPath, workers, zapLog)
	} else {
		zapLog.Info("camunda.broker_address not set, running console only")
	}

	// --- Console ---
	server, err := web.NewServer(web.Options{
		Scorer:        scoringClient,
		Themes:        themes,
		Logger:        log,
		Observability: obs,
		CookieSecure:  cfg.Web.CookieSecure,
		ServiceName:   cfg.Observability.ServiceName,
		Ready:         ready,
	})
	if err != nil {
		zapLog.Fatal("console init failed", zap.Error(err))
	}

	srv := server.HTTPServer(cfg.Web.Address,
		config.GetDuration(cfg.Web.ReadTimeout),
		config.GetDuration(cfg.Web.WriteTimeout))

	go func() {
		zapLog.Info("console listening", zap.String("address", cfg.Web.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("console server failed", zap.Error(err))
		}
	}()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		status := scoringClient.CheckHealth(ctx)
		zapLog.Info("scoring service status", zap.String("status", status.Status))
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	zapLog.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zapLog.Error("console shutdown failed", zap.Error(err))
	}

	for _, w := range workers {
		w.Stop()
	}

	zapLog.Info("Shutdown complete")
}

func connectRedis(cfg config.RedisConfig, log *zap.Logger) (*database.RedisClient, error) {
	rdb, err := database.NewRedis(cfg)
	if err != nil {
		return nil, err
	}
	err = retryWithBackoff(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		return rdb.Ping(ctx)
	}, 5, time.Second, log, "Redis connection")
	if err != nil {
		rdb.Close()
		return nil, err
	}
	return rdb, nil
}

// checkRegistry warns about started task types that the activity catalogue
// does not describe. A missing catalogue is not fatal.
func checkRegistry(path string, workers []*camunda.CamundaWorker, log *zap.Logger) {
	if path == "" {
		return
	}
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		log.Warn("activity registry not loaded", zap.String("path", path), zap.Error(err))
		return
	}
	if err := reg.Validate(); err != nil {
		log.Warn("activity registry invalid", zap.String("path", path), zap.Error(err))
		return
	}

	taskTypes := make([]string, 0, len(workers))
	for _, w := range workers {
		taskTypes = append(taskTypes, w.TaskType())
	}
	if missing := reg.Missing(taskTypes...); len(missing) > 0 {
		log.Warn("workers started for unregistered task types", zap.Strings("taskTypes", missing))
		return
	}
	log.Info("activity registry checked",
		zap.String("version", reg.Version),
		zap.Int("activities", len(reg.Activities)))
}

func startWorkers(cfg *config.Config, client zbc.Client, scoringClient *scoring.Client, obs *observability.Observability, log logger.Logger) ([]*camunda.CamundaWorker, error) {
	var workers []*camunda.CamundaWorker

	predict, err := pcr.NewHandler(pcr.HandlerOptions{
		AppConfig:     cfg,
		Predictor:     scoringClient,
		Observability: obs,
		Logger:        log,
	})
	if err != nil {
		return nil, err
	}
	if predict.Config().Enabled {
		workers = append(workers, camunda.NewWorker(client, camunda.WorkerOptions{
			TaskType:      pcr.TaskType,
			MaxJobsActive: predict.Config().MaxJobsActive,
			Timeout:       predict.Config().Timeout,
		}, predict, log))
	}

	health, err := csh.NewHandler(csh.HandlerOptions{
		AppConfig: cfg,
		Checker:   scoringClient,
		Logger:    log,
	})
	if err != nil {
		return nil, err
	}
	if health.Config().Enabled {
		workers = append(workers, camunda.NewWorker(client, camunda.WorkerOptions{
			TaskType:      csh.TaskType,
			MaxJobsActive: health.Config().MaxJobsActive,
			Timeout:       health.Config().Timeout,
		}, health, log))
	}

	band, err := rrb.NewHandler(rrb.HandlerOptions{
		AppConfig: cfg,
		Logger:    log,
	})
	if err != nil {
		return nil, err
	}
	if band.Config().Enabled {
		workers = append(workers, camunda.NewWorker(client, camunda.WorkerOptions{
			TaskType:      rrb.TaskType,
			MaxJobsActive: band.Config().MaxJobsActive,
			Timeout:       band.Config().Timeout,
		}, band, log))
	}

	return workers, nil
}
