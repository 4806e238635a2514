package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/framehold/internal/policy"
	"github.com/san-kum/framehold/internal/sim"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

func samples(drifts []float64, working []bool) []sim.Sample {
	out := make([]sim.Sample, len(drifts))
	for i := range drifts {
		out[i] = sim.Sample{Tick: i, Hold: true, DriftDeg: drifts[i], Working: working[i]}
	}
	return out
}

func observeAll(m sim.Metric, ss []sim.Sample) float64 {
	for _, s := range ss {
		m.Observe(s)
	}
	return m.Value()
}

func TestDriftMetrics(t *testing.T) {
	ss := samples([]float64{0, 0.5, 2.0, 1.0}, []bool{false, true, true, true})

	tests := []struct {
		metric   sim.Metric
		expected float64
	}{
		{NewMaxDrift(), 2.0},
		{NewFinalDrift(), 1.0},
		{NewMeanDrift(), 0.875},
		{NewCorrectionRatio(), 0.75},
		{NewPressedChanges(), 1},
	}

	for _, tt := range tests {
		t.Run(tt.metric.Name(), func(t *testing.T) {
			if got := observeAll(tt.metric, ss); math.Abs(got-tt.expected) > 1e-12 {
				t.Errorf("expected %f, got %f", tt.expected, got)
			}
			tt.metric.Reset()
			if tt.metric.Value() != 0 {
				t.Errorf("expected zero after reset, got %f", tt.metric.Value())
			}
		})
	}
}

func TestMeanDriftIgnoresReleasedHold(t *testing.T) {
	m := NewMeanDrift()
	m.Observe(sim.Sample{Hold: true, DriftDeg: 1})
	m.Observe(sim.Sample{Hold: false, DriftDeg: 0})
	if m.Value() != 1 {
		t.Errorf("expected 1, got %f", m.Value())
	}
}

func TestPressedChangesCountsEveryFlip(t *testing.T) {
	ss := samples(make([]float64, 6), []bool{false, true, false, true, true, false})
	if got := observeAll(NewPressedChanges(), ss); got != 4 {
		t.Errorf("expected 4 changes, got %f", got)
	}
}

func TestEmptyMetrics(t *testing.T) {
	for _, m := range Default() {
		if m.Value() != 0 {
			t.Errorf("%s: expected 0 before any sample, got %f", m.Name(), m.Value())
		}
	}
}

func TestDefaultNamesUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, m := range Default() {
		if seen[m.Name()] {
			t.Errorf("duplicate metric name %s", m.Name())
		}
		seen[m.Name()] = true
	}
}

func TestTelemetry(t *testing.T) {
	for name, m := range map[string]sim.Observer{
		"noop":   mustTelemetry(t, noop.NewMeterProvider().Meter("test")),
		"global": mustTelemetry(t, Meter()),
	} {
		t.Run(name, func(t *testing.T) {
			m.OnTick(sim.Sample{Icon: policy.IconAuto, Situation: policy.Flying, Hold: true, Working: true, DriftDeg: 0.1})
			m.OnTick(sim.Sample{Icon: policy.IconOff, Situation: policy.Landed})
		})
	}
}

func mustTelemetry(t *testing.T, m metric.Meter) *Telemetry {
	t.Helper()
	tel, err := NewTelemetry(m, "test")
	if err != nil {
		t.Fatalf("NewTelemetry: %v", err)
	}
	return tel
}
