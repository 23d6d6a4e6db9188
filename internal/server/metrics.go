package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// YAML parse outcomes for the yaml_parse_total counter.
const (
	parseSuccess      = "success"
	parseErrorParse   = "error_parse"
	parseErrorSize    = "error_size"
	parseErrorMarshal = "error_marshal"
)

type metrics struct {
	requestDuration  *prometheus.HistogramVec
	requestsTotal    *prometheus.CounterVec
	requestsInFlight prometheus.Gauge
	yamlParseTotal   *prometheus.CounterVec
	yamlParseSeconds prometheus.Histogram
	yamlSizeBytes    prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	return &metrics{
		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "endpoint", "status"}),
		requestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "endpoint", "status"}),
		requestsInFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being served.",
		}),
		yamlParseTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "yaml_parse_total",
			Help: "Total number of YAML conversions by outcome.",
		}, []string{"status"}),
		yamlParseSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "yaml_parse_duration_seconds",
			Help:    "Duration of YAML parsing and generation in seconds.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		}),
		yamlSizeBytes: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "yaml_size_bytes",
			Help:    "Size of YAML documents processed in bytes.",
			Buckets: []float64{1024, 10240, 102400, 1024000, 10240000, 102400000},
		}),
	}
}

// observeYAML records one conversion outcome. size is only recorded for
// documents that were actually handled.
func (m *metrics) observeYAML(status string, started time.Time, size int) {
	m.yamlParseTotal.WithLabelValues(status).Inc()
	if status == parseErrorSize {
		return
	}
	m.yamlParseSeconds.Observe(time.Since(started).Seconds())
	m.yamlSizeBytes.Observe(float64(size))
}

// middleware records request count, duration and in-flight gauge. label maps
// the request to a bounded endpoint name.
func (m *metrics) middleware(label func(*http.Request) string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.requestsInFlight.Inc()
		defer m.requestsInFlight.Dec()

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		lv := []string{r.Method, label(r), strconv.Itoa(rec.status)}
		m.requestDuration.WithLabelValues(lv...).Observe(time.Since(start).Seconds())
		m.requestsTotal.WithLabelValues(lv...).Inc()
	})
}

// statusRecorder captures the status code written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if !r.wroteHeader {
		r.status = code
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	r.wroteHeader = true
	return r.ResponseWriter.Write(b)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}
