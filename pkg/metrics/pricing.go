package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "purchasables"

// Lookup outcomes reported by the pricing collectors.
const (
	OutcomeHit   = "hit"
	OutcomeMiss  = "miss"
	OutcomeError = "error"
)

// PricingMetrics records catalog and sales lookups made while resolving prices.
type PricingMetrics struct {
	catalogLookups *prometheus.CounterVec
	cacheResults   *prometheus.CounterVec
	saleLookups    *prometheus.CounterVec
	resolveErrors  *prometheus.CounterVec
}

// NewPricingMetrics registers the pricing collectors on the provided registerer.
func NewPricingMetrics(reg prometheus.Registerer) *PricingMetrics {
	if reg == nil {
		return &PricingMetrics{}
	}
	catalogLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_lookups_total",
		Help:      "Catalog price lookups by promotional flag and outcome.",
	}, []string{"promotional", "outcome"})
	cacheResults := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_cache_results_total",
		Help:      "Shared catalog cache reads by outcome.",
	}, []string{"outcome"})
	saleLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sale_lookups_total",
		Help:      "Sale price computations by outcome.",
	}, []string{"outcome"})
	resolveErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "price_resolution_errors_total",
		Help:      "Price resolutions aborted by configuration errors.",
	}, []string{"operation"})
	reg.MustRegister(catalogLookups, cacheResults, saleLookups, resolveErrors)
	return &PricingMetrics{
		catalogLookups: catalogLookups,
		cacheResults:   cacheResults,
		saleLookups:    saleLookups,
		resolveErrors:  resolveErrors,
	}
}

// ObserveCatalogLookup counts a catalog service call.
func (p *PricingMetrics) ObserveCatalogLookup(promotional bool, outcome string) {
	if p == nil || p.catalogLookups == nil {
		return
	}
	p.catalogLookups.WithLabelValues(strconv.FormatBool(promotional), normalizeLabel(outcome)).Inc()
}

// ObserveCacheResult counts a shared cache read.
func (p *PricingMetrics) ObserveCacheResult(outcome string) {
	if p == nil || p.cacheResults == nil {
		return
	}
	p.cacheResults.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// ObserveSaleLookup counts a sales service computation.
func (p *PricingMetrics) ObserveSaleLookup(outcome string) {
	if p == nil || p.saleLookups == nil {
		return
	}
	p.saleLookups.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncResolveError counts a resolution that surfaced an error to the caller.
func (p *PricingMetrics) IncResolveError(operation string) {
	if p == nil || p.resolveErrors == nil {
		return
	}
	p.resolveErrors.WithLabelValues(normalizeLabel(operation)).Inc()
}
