// Package metrics holds the Prometheus instruments shared by the tenant
// cache, the content router, and the prerender pipeline.  All collectors
// are registered with the global registry, so importing this package in
// main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	TenantCacheEntries = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "tenant_cache_entries",
			Help: "Number of resolved tenants currently cached.",
		})

	// TenantLookupTotal is labelled by result: hit, loaded, not_found, error.
	TenantLookupTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tenant_lookup_total",
			Help: "Tenant lookups by result.",
		}, []string{"result"})

	TenantEvictTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tenant_evict_total",
			Help: "Cumulative number of tenants evicted from the cache.",
		})

	// PrerenderRequestsTotal counts gate decisions.  agent is "bot" or
	// "human"; outcome is serve, shell, redirect, proxy, or not_found.
	PrerenderRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prerender_requests_total",
			Help: "Requests seen by the crawler gate, by agent class and outcome.",
		}, []string{"agent", "outcome"})

	PrerenderSourceTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prerender_source_total",
			Help: "Synthesised documents by metadata source tier.",
		}, []string{"source"})

	BackendLookupErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backend_lookup_errors_total",
			Help: "Content store failures absorbed by a fallback tier.",
		}, []string{"op"})

	RouteRuleTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "route_rule_total",
			Help: "Content router selections by rule.",
		}, []string{"rule"})

	PrerenderResolveSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "prerender_resolve_seconds",
			Help:    "Time spent resolving tenant, route, and metadata for one request.",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1},
		})
)

func init() {
	prometheus.MustRegister(
		TenantCacheEntries,
		TenantLookupTotal,
		TenantEvictTotal,
		PrerenderRequestsTotal,
		PrerenderSourceTotal,
		BackendLookupErrorsTotal,
		RouteRuleTotal,
		PrerenderResolveSeconds,
	)
}
