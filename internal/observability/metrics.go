package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce         sync.Once
	httpRequestsTotal    *prometheus.CounterVec
	httpLatencySeconds   *prometheus.HistogramVec
	httpErrorsTotal      *prometheus.CounterVec
	interviewsStarted    *prometheus.CounterVec
	interviewsCompleted  *prometheus.CounterVec
	interviewFinalScores prometheus.Histogram
	noteUploadsTotal     *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors shared by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "campusprep",
			Name:      "http_requests_total",
			Help:      "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "campusprep",
			Name:      "http_latency_seconds",
			Help:      "Latency distribution for API requests.",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "campusprep",
			Name:      "http_errors_total",
			Help:      "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		interviewsStarted = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "campusprep",
			Subsystem: "interview",
			Name:      "started_total",
			Help:      "Mock interviews started, by kind and difficulty.",
		}, []string{"kind", "difficulty"})

		interviewsCompleted = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "campusprep",
			Subsystem: "interview",
			Name:      "completed_total",
			Help:      "Mock interviews completed, by kind and difficulty.",
		}, []string{"kind", "difficulty"})

		interviewFinalScores = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "campusprep",
			Subsystem: "interview",
			Name:      "final_score",
			Help:      "Distribution of final interview scores.",
			Buckets:   prometheus.LinearBuckets(0, 1, 11),
		})

		noteUploadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "campusprep",
			Subsystem: "notes",
			Name:      "uploads_total",
			Help:      "Note uploads by outcome.",
		}, []string{"result"})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			httpErrorsTotal,
			interviewsStarted,
			interviewsCompleted,
			interviewFinalScores,
			noteUploadsTotal,
		)
	})
}

// HTTPRequests exposes the request counter.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the request latency histogram.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the counter for error responses.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// RecordInterviewStarted counts a newly created attempt.
func RecordInterviewStarted(kind, difficulty string) {
	RegisterMetrics()
	interviewsStarted.WithLabelValues(kind, difficulty).Inc()
}

// RecordInterviewCompleted counts a completed attempt and observes its final score.
func RecordInterviewCompleted(kind, difficulty string, score float64) {
	RegisterMetrics()
	interviewsCompleted.WithLabelValues(kind, difficulty).Inc()
	interviewFinalScores.Observe(score)
}

// RecordNoteUpload counts an upload attempt by outcome ("accepted" or a rejection reason).
func RecordNoteUpload(result string) {
	RegisterMetrics()
	noteUploadsTotal.WithLabelValues(result).Inc()
}
