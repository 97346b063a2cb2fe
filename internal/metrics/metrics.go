// Package metrics provides Prometheus metrics for authentication and the
// identity cache.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors. When disabled every method is a
// no-op so call sites never need to branch.
type Metrics struct {
	enabled bool

	authRequestsTotal prometheus.Counter
	authFailuresTotal *prometheus.CounterVec

	cacheHitsTotal   prometheus.Counter
	cacheMissesTotal prometheus.Counter
}

// New creates and registers the collectors. If enabled is false, returns a
// no-op Metrics instance.
func New(enabled bool) *Metrics {
	m := &Metrics{enabled: enabled}

	if !enabled {
		return m
	}

	m.authRequestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "loja_auth_requests_total",
		Help: "Total authentication attempts through the access middleware",
	})

	m.authFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "loja_auth_failures_total",
		Help: "Total authentication rejections by rejection code",
	}, []string{"code"})

	m.cacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "loja_user_cache_hits_total",
		Help: "Identity cache hits",
	})

	m.cacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "loja_user_cache_misses_total",
		Help: "Identity cache misses",
	})

	return m
}

// AuthRequest counts one authentication attempt.
func (m *Metrics) AuthRequest() {
	if m.enabled {
		m.authRequestsTotal.Inc()
	}
}

// AuthFailure counts one rejection with its stable code.
func (m *Metrics) AuthFailure(code string) {
	if m.enabled {
		m.authFailuresTotal.WithLabelValues(code).Inc()
	}
}

// CacheHit counts one identity cache hit.
func (m *Metrics) CacheHit() {
	if m.enabled {
		m.cacheHitsTotal.Inc()
	}
}

// CacheMiss counts one identity cache miss.
func (m *Metrics) CacheMiss() {
	if m.enabled {
		m.cacheMissesTotal.Inc()
	}
}

// Handler exposes the Prometheus scrape endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.Handler()
}
