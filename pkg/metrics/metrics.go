package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the custom registry exposed on /api/metrics
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	// Custom histogram buckets for API response times ranging from milliseconds to tens of seconds
	CustomAPIBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 8, 13, 21, 34, 55}

	// HTTP Metrics
	HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_server_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	HTTPRequestTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_server_request_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	ActiveRequests = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_server_active_requests",
			Help: "Number of active HTTP requests",
		},
		[]string{"http_request_method"},
	)

	// Document store client metrics
	StoreRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "docstore_operation_duration_seconds",
			Help:    "Document store operation duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"collection", "operation", "status"},
	)

	StoreRequestTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docstore_operation_total",
			Help: "Total number of document store operations",
		},
		[]string{"collection", "operation", "status"},
	)

	// Cache Metrics
	CacheHits = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_name"},
	)

	CacheMisses = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_name"},
	)

	// Object storage client metrics
	ObjectStorageRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storage_client_operation_duration_seconds",
			Help:    "Storage client operation duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"operation", "status"},
	)

	ObjectStorageRequestTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storage_client_operation_total",
			Help: "Total number of storage client operations",
		},
		[]string{"operation", "status"},
	)

	// Business Metrics
	LoginAttempts = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ahlulathar_login_attempts_total",
			Help: "Total login attempts by outcome",
		},
		[]string{"status"},
	)

	LoginDuration = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ahlulathar_login_duration_seconds",
			Help:    "Login flow duration in seconds",
			Buckets: CustomAPIBuckets,
		},
	)

	LanguageSwitches = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ahlulathar_language_switches_total",
			Help: "Total language switches by target language",
		},
		[]string{"language"},
	)

	AvatarUploads = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ahlulathar_avatar_uploads_total",
			Help: "Total avatar upload attempts",
		},
		[]string{"status"},
	)

	ToastsActive = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "ahlulathar_toasts_active",
			Help: "Number of toast notifications currently pending",
		},
	)

	TranslationErrors = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ahlulathar_translation_errors_total",
			Help: "Total translation resolution failures",
		},
		[]string{"language"},
	)

	// Infrastructure Metrics
	GoRoutines = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_goroutines",
			Help: "Number of goroutines",
		},
	)

	HeapAlloc = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_mem_heap_alloc_bytes",
			Help: "Heap allocated bytes",
		},
	)
)

// Init registers the standard Go runtime collectors on the custom registry
func Init() {
	Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	Registry.MustRegister(collectors.NewGoCollector())
}

// RecordInfrastructureMetrics collects infrastructure metrics periodically
func RecordInfrastructureMetrics() {
	ticker := time.NewTicker(15 * time.Second)
	go func() {
		for range ticker.C {
			var m runtime.MemStats
			runtime.ReadMemStats(&m)

			GoRoutines.Set(float64(runtime.NumGoroutine()))
			HeapAlloc.Set(float64(m.HeapAlloc))
		}
	}()
}

// MeasureDuration measures the duration of an operation
func MeasureDuration(start time.Time) float64 {
	return time.Since(start).Seconds()
}
