package metrics

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Generation outcomes
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

var (
	skillRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storyland_requests_total",
		Help: "Skill requests by handling route",
	}, []string{"route"})
	generations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storyland_generations_total",
		Help: "Story generation calls by outcome",
	}, []string{"outcome"})
	generationLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "storyland_generation_seconds",
		Help:    "Story generation latency",
		Buckets: []float64{0.25, 0.5, 1, 2, 3, 5, 7, 10},
	})
	breakerState = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "storyland_breaker_open",
		Help: "1 while the generation circuit breaker is open",
	})
	wsClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "storyland_websocket_clients",
		Help: "Connected websocket clients",
	})
)

func init() {
	prometheus.MustRegister(skillRequests, generations, generationLatency, breakerState, wsClients)
}

// Handler serves the Prometheus exposition format
func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}

// IncRequest counts one dispatched request for route
func IncRequest(route string) { skillRequests.WithLabelValues(route).Inc() }

// ObserveGeneration records the outcome and latency of one generation call
func ObserveGeneration(outcome string, elapsed time.Duration) {
	generations.WithLabelValues(outcome).Inc()
	generationLatency.Observe(elapsed.Seconds())
}

// SetBreakerOpen reports whether the generation breaker is open
func SetBreakerOpen(open bool) {
	if open {
		breakerState.Set(1)
		return
	}
	breakerState.Set(0)
}

// SetWebsocketClients reports the number of connected websocket clients
func SetWebsocketClients(n int) { wsClients.Set(float64(n)) }
