package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "Total number of requests labelled by path and status",
}, []string{"path", "status"})

var countJobsInQueue = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "count_jobs_in_queue",
	Help: "Number of jobs in queue",
})

var dispatcherSignalCount = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "dispatcher_signal_count",
	Help: "How often the dispatcher has signaled to start worker",
})

var activeWorkerCount = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "active_worker_count",
	Help: "Number of active workers",
})

var questionRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "study_question_requests_total",
	Help: "Question set requests labelled by where the answer came from",
}, []string{"source", "origin"})

var generationAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "study_generation_attempts_total",
	Help: "Backend generation attempts labelled by provider and outcome",
}, []string{"provider", "outcome"})

var fallbackTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "study_generation_fallback_total",
	Help: "Question sets served from the canned fallback library",
})

var registryCourses = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "study_registry_courses",
	Help: "Courses in the published registry snapshot",
})

var registryBuilds = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "study_registry_builds_total",
	Help: "Registry builds labelled by result",
}, []string{"result"})

var cacheErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "study_cache_errors_total",
	Help: "Question cache failures labelled by operation",
}, []string{"op"})

type HttpStatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *HttpStatusRecorder) WriteHeader(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}

func IncrementJobsInQueue() {
	countJobsInQueue.Inc()
}

func DecrementJobsInQueue() {
	countJobsInQueue.Dec()
}

func StartDispatcherSignalCount() {
	dispatcherSignalCount.Inc()
}

func IncrementActiveWorkerCount() {
	activeWorkerCount.Inc()
}
func DecrementActiveWorkerCount() {
	activeWorkerCount.Dec()
}

func RecordQuestionRequest(source string, origin string) {
	questionRequests.WithLabelValues(source, origin).Inc()
}

func RecordGenerationAttempt(provider string, outcome string) {
	generationAttempts.WithLabelValues(provider, outcome).Inc()
}

func RecordFallback() {
	fallbackTotal.Inc()
}

func SetRegistryCourses(n int) {
	registryCourses.Set(float64(n))
}

func RecordRegistryBuild(result string) {
	registryBuilds.WithLabelValues(result).Inc()
}

func RecordCacheError(op string) {
	cacheErrors.WithLabelValues(op).Inc()
}

var requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "process_request_duration_seconds",
	Help:    "Total time spent processing a background job.",
	Buckets: []float64{.1, .5, 1, 2, 5, 10, 30, 60},
}, []string{"status"})

var dependencyLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "dependency_latency_seconds",
	Help:    "Latency of external service calls.",
	Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10},
}, []string{"service"})

func CaptureExecutionMetrics(label string, timeElapsed time.Duration) {
	dependencyLatency.WithLabelValues(label).Observe(timeElapsed.Seconds())
}

func CaptureJobMetrics(label string, timeElapsed time.Duration) {
	requestDuration.WithLabelValues(label).Observe(timeElapsed.Seconds())
}
