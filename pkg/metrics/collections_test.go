package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestCollectionMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewCollectionMetrics(reg)
	metrics.IncOp("cart", "add", "ok")
	metrics.IncOp("cart", "add", "ok")
	metrics.IncOp("likes", "add", "error")
	metrics.ObserveLoad("cart", "remote", 120*time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "collection_ops_total", "kind", "cart"); err != nil {
		t.Fatalf("fetch cart ops: %v", err)
	} else if got != 2 {
		t.Fatalf("expected cart add ok=2, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "collection_ops_total", "outcome", "error"); err != nil {
		t.Fatalf("fetch likes ops: %v", err)
	} else if got != 1 {
		t.Fatalf("expected likes add error=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "collection_load_seconds", "backend", "remote"); err != nil {
		t.Fatalf("fetch load duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected load duration sum > 0, got %f", got)
	}
}

func TestCollectionMetricsNilRegistererIsNoop(t *testing.T) {
	metrics := NewCollectionMetrics(nil)
	metrics.IncOp("cart", "add", "ok")
	metrics.ObserveLoad("cart", "guest", time.Millisecond)
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("no series of %q with %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("no series of %q with %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
