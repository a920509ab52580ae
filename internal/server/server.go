package server

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/spacesedan/sentidash/config"
	"github.com/spacesedan/sentidash/internal/monitoring"
	"github.com/spacesedan/sentidash/internal/pipeline"
)

//go:embed templates/*.html
var templateFiles embed.FS

// Analyzer is the inference pipeline as seen by the HTTP layer.
type Analyzer interface {
	Analyze(text string, triggers int) pipeline.Outcome
	ClassifierNames() []string
}

type Server struct {
	echo   *echo.Echo
	config *config.Config

	analyzer    Analyzer
	predictions *monitoring.PredictionMetrics
	httpMetrics *monitoring.HTTPMetrics
	registry    *prometheus.Registry

	templates    *template.Template
	healthChecks []HealthCheck
	startTime    time.Time
}

func NewServer(cfg *config.Config, analyzer Analyzer, reg *prometheus.Registry) (*Server, error) {
	if analyzer == nil {
		return nil, fmt.Errorf("server needs a loaded pipeline")
	}

	templates, err := template.ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	srv := &Server{
		echo:        e,
		config:      cfg,
		analyzer:    analyzer,
		predictions: monitoring.NewPredictionMetrics(reg),
		httpMetrics: monitoring.NewHTTPMetrics(reg),
		registry:    reg,
		templates:   templates,
		startTime:   time.Now(),
	}
	srv.healthChecks = []HealthCheck{
		{Name: "models", Check: srv.checkModels},
	}

	srv.registerRoutes()

	return srv, nil
}

func (s *Server) Start() error {
	slog.Info("[Server] Starting server", slog.String("port", s.config.Port))
	if err := s.echo.Start(":" + s.config.Port); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

// ServeHTTP lets tests and embedders drive the router directly.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// analyze runs the pipeline and records metrics for the outcome.
func (s *Server) analyze(text string, triggers int) pipeline.Outcome {
	start := time.Now()
	out := s.analyzer.Analyze(text, triggers)
	s.predictions.Observe(out, time.Since(start))

	if out.Err != nil {
		slog.Warn("[Server] Analysis failed",
			slog.String("error", out.Err.Error()))
	}
	return out
}

func (s *Server) renderTemplate(c echo.Context, name string, data any) error {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("[Server] Template execution failed",
			slog.String("path", c.Request().URL.Path),
			slog.String("error", err.Error()))
		if err := c.String(http.StatusInternalServerError, "Failed to render page"); err != nil {
			return fmt.Errorf("failed to send error response: %w", err)
		}
		return nil
	}
	if err := c.HTMLBlob(http.StatusOK, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to send HTML response: %w", err)
	}
	return nil
}
