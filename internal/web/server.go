// Package web serves the assessment console: the applicant form, the
// results panel and the operational endpoints.
package web

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"credit-risk-workers/internal/common/logger"
	"credit-risk-workers/internal/common/observability"
	"credit-risk-workers/internal/preferences"
	"credit-risk-workers/internal/scoring"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const defaultServiceName = "credit-risk-console"

//go:embed templates/*.html
var templateFS embed.FS

// Scorer is the part of the scoring client the console uses.
type Scorer interface {
	Predict(ctx context.Context, req *scoring.PredictionRequest) (*scoring.PredictionResponse, error)
	CheckHealth(ctx context.Context) scoring.HealthStatus
}

// ReadinessCheck reports whether a dependency is usable.
type ReadinessCheck func(ctx context.Context) error

type Options struct {
	Scorer        Scorer
	Themes        *preferences.Themes
	Logger        logger.Logger
	Observability *observability.Observability
	CookieSecure  bool
	// ServiceName names the server spans; defaults to credit-risk-console.
	ServiceName string
	// Ready checks run on GET /ready, keyed by dependency name.
	Ready map[string]ReadinessCheck
}

type Server struct {
	scorer       Scorer
	themes       *preferences.Themes
	logger       logger.Logger
	obs          *observability.Observability
	cookieSecure bool
	ready        map[string]ReadinessCheck
	router       *gin.Engine
}

func NewServer(opts Options) (*Server, error) {
	if opts.Scorer == nil {
		return nil, fmt.Errorf("web: scorer is required")
	}

	s := &Server{
		scorer:       opts.Scorer,
		themes:       opts.Themes,
		logger:       opts.Logger,
		obs:          opts.Observability,
		cookieSecure: opts.CookieSecure,
		ready:        opts.Ready,
	}
	if s.logger == nil {
		s.logger = logger.NewNoOpLogger()
	}
	if s.themes == nil {
		s.themes = preferences.NewThemes(preferences.NewMemoryStore(), s.logger)
	}
	if s.obs == nil {
		s.obs = &observability.Observability{}
	}

	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("web: parse templates: %w", err)
	}

	serviceName := opts.ServiceName
	if serviceName == "" {
		serviceName = defaultServiceName
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))
	router.Use(s.requestMetrics())
	router.Use(s.visitor())
	router.SetHTMLTemplate(tmpl)

	router.GET("/", s.index)
	router.POST("/assess", s.assess)
	router.POST("/theme", s.toggleTheme)

	api := router.Group("/api")
	{
		api.GET("/preview", s.preview)
		api.POST("/assess", s.apiAssess)
	}

	router.GET("/health", s.health)
	router.GET("/ready", s.readiness)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router = router
	return s, nil
}

// Handler returns the routed engine.
func (s *Server) Handler() http.Handler {
	return s.router
}

// HTTPServer wraps the router in an http.Server with the given timeouts.
func (s *Server) HTTPServer(addr string, readTimeout, writeTimeout time.Duration) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readTimeout,
		WriteTimeout:      writeTimeout,
	}
}

var templateFuncs = template.FuncMap{
	"deref": func(v *float64) float64 {
		if v == nil {
			return 0
		}
		return *v
	},
}
