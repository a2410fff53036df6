package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestPricingMetricsCountsLookups(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewPricingMetrics(reg)

	metrics.ObserveCatalogLookup(false, OutcomeHit)
	metrics.ObserveCatalogLookup(false, OutcomeHit)
	metrics.ObserveCatalogLookup(true, OutcomeMiss)
	metrics.ObserveCacheResult(OutcomeHit)
	metrics.ObserveSaleLookup(OutcomeError)
	metrics.IncResolveError("base_price")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	mf := findMetricFamily(mfs, "purchasables_catalog_lookups_total")
	if mf == nil {
		t.Fatal("catalog lookups metric not found")
	}
	if got := counterWithLabels(mf, map[string]string{"promotional": "false", "outcome": OutcomeHit}); got != 2 {
		t.Fatalf("expected 2 regular hits, got %f", got)
	}
	if got := counterWithLabels(mf, map[string]string{"promotional": "true", "outcome": OutcomeMiss}); got != 1 {
		t.Fatalf("expected 1 promotional miss, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "purchasables_sale_lookups_total", "outcome", OutcomeError); err != nil {
		t.Fatalf("fetch sale lookups: %v", err)
	} else if got != 1 {
		t.Fatalf("expected 1 sale error, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "purchasables_price_resolution_errors_total", "operation", "base_price"); err != nil {
		t.Fatalf("fetch resolve errors: %v", err)
	} else if got != 1 {
		t.Fatalf("expected 1 resolve error, got %f", got)
	}
}

func counterWithLabels(mf *dto.MetricFamily, want map[string]string) float64 {
	for _, metric := range mf.GetMetric() {
		matched := 0
		for _, label := range metric.GetLabel() {
			if want[label.GetName()] == label.GetValue() {
				matched++
			}
		}
		if matched == len(want) {
			return metric.GetCounter().GetValue()
		}
	}
	return 0
}
