package observability

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "hotel_ops", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hotel_ops", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	StoreOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "hotel_ops", Name: "store_ops_total", Help: "Storage gateway operations."},
		[]string{"op", "result"}, // result: ok|fault
	)
	StoreLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hotel_ops", Name: "store_op_duration_seconds",
			Help:    "Storage gateway operation duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)
	BookingOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "hotel_ops", Name: "booking_attempts_total", Help: "Reserve attempts by outcome."},
		[]string{"outcome"}, // confirmed|rejected|fault
	)
	AuthDenials = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "hotel_ops", Name: "permission_denied_total", Help: "Guard rejections."},
		[]string{"operation"},
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "hotel_ops", Name: "cache_events_total", Help: "Cache hits/misses/sets/dels."},
		[]string{"cache", "event"}, // event: hit|miss|set|del|decode_error
	)
)

// Serve exposes the default registry on addr in the background. An empty
// addr disables it.
func Serve(addr string) {
	if addr == "" {
		return // disabled
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		srv := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}

func init() {
	prometheus.MustRegister(HTTPRequests, HTTPLatency, StoreOps, StoreLatency, BookingOutcomes, AuthDenials, CacheEvents)
}

// InitRegistry returns a fresh registry holding the same collectors, for
// handlers that should not expose Go runtime metrics.
func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, StoreOps, StoreLatency, BookingOutcomes, AuthDenials, CacheEvents)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveStore(op string, err error, dur time.Duration) {
	StoreOps.WithLabelValues(op, LabelErr(err)).Inc()
	StoreLatency.WithLabelValues(op).Observe(dur.Seconds())
}

func ObserveBooking(outcome string) { BookingOutcomes.WithLabelValues(outcome).Inc() }

func ObserveDenied(operation string) { AuthDenials.WithLabelValues(operation).Inc() }

func ObserveCache(cache, event string) { // event: hit|miss|set|del|decode_error
	CacheEvents.WithLabelValues(cache, event).Inc()
}

// LabelErr collapses an error into a low-cardinality label.
func LabelErr(err error) string {
	if err == nil {
		return "ok"
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "canceled"
	}
	return "fault"
}
