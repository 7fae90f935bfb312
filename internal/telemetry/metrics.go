package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTPRequestDuration tracks every HTTP-facing request across transports
// (REST, MCP-over-HTTP, A2A) by route, method and status code.
var HTTPRequestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "pierre",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request duration in seconds.",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	},
	[]string{"route", "method", "status"},
)

// ToolInvocationsTotal counts executor tool calls by name and outcome.
var ToolInvocationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "pierre",
		Subsystem: "tool",
		Name:      "invocations_total",
		Help:      "Total number of universal tool executor invocations.",
	},
	[]string{"tool", "outcome"},
)

// ToolDuration tracks how long each tool call takes end to end.
var ToolDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "pierre",
		Subsystem: "tool",
		Name:      "duration_seconds",
		Help:      "Tool invocation duration in seconds.",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	},
	[]string{"tool"},
)

// ProviderCallsTotal counts outbound calls to upstream fitness providers.
var ProviderCallsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "pierre",
		Subsystem: "provider",
		Name:      "calls_total",
		Help:      "Total number of outbound calls to upstream fitness providers.",
	},
	[]string{"provider", "operation", "outcome"},
)

// OAuthRefreshTotal counts background token-refresh sweep outcomes.
var OAuthRefreshTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "pierre",
		Subsystem: "oauth",
		Name:      "refresh_total",
		Help:      "Total number of tenant OAuth token refreshes attempted by the sweeper.",
	},
	[]string{"provider", "outcome"},
)

// RateLimitRejectionsTotal counts requests rejected by the rate limiter.
var RateLimitRejectionsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "pierre",
		Subsystem: "ratelimit",
		Name:      "rejections_total",
		Help:      "Total number of requests rejected for exceeding a rate limit.",
	},
	[]string{"scope"},
)

// All returns every service-specific collector, for registration alongside
// the standard Go/process collectors.
func All() []prometheus.Collector {
	return []prometheus.Collector{
		HTTPRequestDuration,
		ToolInvocationsTotal,
		ToolDuration,
		ProviderCallsTotal,
		OAuthRefreshTotal,
		RateLimitRejectionsTotal,
	}
}

// NewRegistry builds a Prometheus registry carrying the standard Go runtime
// and process collectors plus every collector passed in extra.
func NewRegistry(extra ...prometheus.Collector) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	for _, c := range extra {
		reg.MustRegister(c)
	}
	return reg
}
