package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	AttemptsSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_attempts_submitted_total",
			Help: "Quiz attempts submitted, by difficulty and whether the timer forced the submission",
		},
		[]string{"difficulty", "forced"},
	)

	AttemptSaveFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "quiz_attempt_save_failures_total",
			Help: "Attempt records that could not be persisted",
		},
	)

	QuestionFallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_question_fallbacks_total",
			Help: "Question sets served from the local fallback generator",
		},
		[]string{"difficulty"},
	)

	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "quiz_active_sessions",
			Help: "Quiz sessions currently in progress or paused",
		},
	)
)

var registerOnce sync.Once

func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(RequestCounter)
		prometheus.MustRegister(RequestDuration)
		prometheus.MustRegister(AttemptsSubmitted)
		prometheus.MustRegister(AttemptSaveFailures)
		prometheus.MustRegister(QuestionFallbacks)
		prometheus.MustRegister(ActiveSessions)
	})
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
