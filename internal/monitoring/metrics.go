package monitoring

import (
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/spacesedan/sentidash/internal/pipeline"
)

const namespace = "sentidash"

// PredictionMetrics counts what the pipeline produced. They live outside the
// pipeline so Analyze stays free of side effects.
type PredictionMetrics struct {
	PredictionsTotal *prometheus.CounterVec
	FailuresTotal    prometheus.Counter
	IdleTotal        prometheus.Counter
	Duration         prometheus.Histogram
}

func NewPredictionMetrics(reg prometheus.Registerer) *PredictionMetrics {
	m := &PredictionMetrics{
		PredictionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "predictions_total",
			Help:      "Predictions made, by classifier and label.",
		}, []string{"classifier", "label"}),
		FailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "failures_total",
			Help:      "Requests whose vectorize or classify step failed.",
		}),
		IdleTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "idle_total",
			Help:      "Requests rendered without running the models.",
		}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "duration_seconds",
			Help:      "Time spent in the inference pipeline.",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1},
		}),
	}

	reg.MustRegister(m.PredictionsTotal, m.FailuresTotal, m.IdleTotal, m.Duration)
	return m
}

func (m *PredictionMetrics) Observe(out pipeline.Outcome, elapsed time.Duration) {
	switch {
	case out.Idle():
		m.IdleTotal.Inc()
		return
	case out.Err != nil:
		m.FailuresTotal.Inc()
	default:
		for _, p := range out.Predictions {
			m.PredictionsTotal.WithLabelValues(p.Classifier, p.LabelName).Inc()
		}
	}
	m.Duration.Observe(elapsed.Seconds())
}

// HTTPMetrics holds Prometheus metrics for HTTP request tracking.
type HTTPMetrics struct {
	RequestDuration *prometheus.HistogramVec
	RequestsTotal   *prometheus.CounterVec
}

func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	m := &HTTPMetrics{
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status_code"}),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "route", "status_code"}),
	}

	reg.MustRegister(m.RequestDuration, m.RequestsTotal)
	return m
}

// Middleware records request metrics. It skips /metrics and /health/*.
func (m *HTTPMetrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Path()
			if path == "/metrics" || strings.HasPrefix(path, "/health/") {
				return next(c)
			}

			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}
			code := strconv.Itoa(status)
			m.RequestDuration.WithLabelValues(c.Request().Method, path, code).Observe(time.Since(start).Seconds())
			m.RequestsTotal.WithLabelValues(c.Request().Method, path, code).Inc()
			return err
		}
	}
}
