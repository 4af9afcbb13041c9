package httpserve

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// metrics holds the handler's Prometheus collectors.
type metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	responseBytes   prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "s3get_requests_total",
				Help: "Total number of object requests by response status",
			},
			[]string{"status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "s3get_request_duration_seconds",
				Help:    "Object request duration in seconds by response status",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"status"},
		),
		responseBytes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "s3get_response_bytes_total",
				Help: "Total number of body bytes written to clients",
			},
		),
	}

	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.requestsTotal, m.requestDuration, m.responseBytes} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *metrics) observe(status int, start time.Time, written int64) {
	label := strconv.Itoa(status)
	m.requestsTotal.WithLabelValues(label).Inc()
	m.requestDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())
	m.responseBytes.Add(float64(written))
}

// responseWriter wraps http.ResponseWriter to capture the status code and body size.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int64
	wroteHead  bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHead {
		rw.statusCode = code
		rw.wroteHead = true
		rw.ResponseWriter.WriteHeader(code)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.wroteHead {
		rw.WriteHeader(http.StatusOK)
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
