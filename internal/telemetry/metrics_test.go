package telemetry

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_ObserveCall(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := MustNewMetrics(reg)

	m.ObserveCall("submit_questionnaire", "ok", 120*time.Millisecond)
	m.ObserveCall("submit_questionnaire", "server_error", 80*time.Millisecond)
	m.ObserveCall("submit_questionnaire", "ok", 40*time.Millisecond)

	if got := testutil.ToFloat64(m.calls.WithLabelValues("submit_questionnaire", "ok")); got != 2 {
		t.Fatalf("ok calls = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.calls.WithLabelValues("submit_questionnaire", "server_error")); got != 1 {
		t.Fatalf("server_error calls = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(m.callLatency); got != 1 {
		t.Fatalf("latency series = %d, want 1", got)
	}
}

func TestMetrics_RefusalsAndTokens(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := MustNewMetrics(reg)

	m.IncStepRefusal("chronotype")
	m.IncStepRefusal("chronotype")
	m.AddLLMTokens("mock", 100, 40)

	if got := testutil.ToFloat64(m.refusals.WithLabelValues("chronotype")); got != 2 {
		t.Fatalf("refusals = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.llmTokens.WithLabelValues("mock", "output")); got != 40 {
		t.Fatalf("output tokens = %v, want 40", got)
	}
}

func TestMustNewMetrics_ReusesRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()
	first := MustNewMetrics(reg)
	second := MustNewMetrics(reg)

	first.IncStepRefusal("habit_count")
	if got := testutil.ToFloat64(second.refusals.WithLabelValues("habit_count")); got != 1 {
		t.Fatalf("second instance sees %v refusals, want 1", got)
	}
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveCall("generate_plan", "ok", time.Second)
	m.IncStepRefusal("x")
	m.AddLLMTokens("mock", 1, 1)
}
