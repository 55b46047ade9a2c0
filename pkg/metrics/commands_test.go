package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestCommandMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewCommandMetrics(reg)

	metrics.IncCommand("ADD", "ok")
	metrics.IncClassifier("initial", "parse_error")
	metrics.ObserveClassifierDuration("initial", 250*time.Millisecond)
	metrics.IncLedgerFailure()

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "inventory_commands_total", "action", "ADD"); err != nil {
		t.Fatalf("fetch commands: %v", err)
	} else if got != 1 {
		t.Fatalf("expected commands=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "classifier_requests_total", "stage", "initial"); err != nil {
		t.Fatalf("fetch classifier: %v", err)
	} else if got != 1 {
		t.Fatalf("expected classifier=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "classifier_request_duration_seconds", "stage", "initial"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}

	mf := findMetricFamily(mfs, "ledger_failures_total")
	if mf == nil || len(mf.GetMetric()) == 0 {
		t.Fatal("expected ledger failure counter to be exported")
	}
	if got := mf.GetMetric()[0].GetCounter().GetValue(); got != 1 {
		t.Fatalf("expected ledger failures=1, got %f", got)
	}
}

func TestCommandMetricsNilSafe(t *testing.T) {
	var metrics *CommandMetrics
	metrics.IncCommand("ADD", "ok")
	metrics.IncLedgerFailure()

	empty := NewCommandMetrics(nil)
	empty.IncCommand("ADD", "ok")
	empty.ObserveClassifierDuration("initial", time.Second)
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
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
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
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
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
