package metrics

import (
	"context"
	"fmt"

	"github.com/san-kum/framehold/internal/sim"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/san-kum/framehold/internal/metrics"

// Meter returns the meter from the global OTel provider, which is a no-op
// until one is installed.
func Meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// Telemetry is a sim.Observer that exports per-tick counters and the drift
// distribution through OpenTelemetry.
type Telemetry struct {
	ticks       metric.Int64Counter
	corrections metric.Int64Counter
	drift       metric.Float64Histogram
	scenario    attribute.KeyValue
}

func NewTelemetry(m metric.Meter, scenario string) (*Telemetry, error) {
	t := &Telemetry{scenario: attribute.String("scenario", scenario)}

	var err error

	t.ticks, err = m.Int64Counter(
		"framehold.ticks",
		metric.WithDescription("Fixed updates observed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating ticks counter: %w", err)
	}

	t.corrections, err = m.Int64Counter(
		"framehold.corrections",
		metric.WithDescription("Fixed updates on which the held attitude was corrected"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating corrections counter: %w", err)
	}

	t.drift, err = m.Float64Histogram(
		"framehold.drift",
		metric.WithDescription("Angle between the held attitude and a surface-locked one"),
		metric.WithUnit("deg"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating drift histogram: %w", err)
	}

	return t, nil
}

func (t *Telemetry) OnTick(s sim.Sample) {
	ctx := context.Background()
	attrs := metric.WithAttributes(
		t.scenario,
		attribute.String("mode", string(s.Icon)),
		attribute.String("situation", s.Situation.String()),
	)

	t.ticks.Add(ctx, 1, attrs)
	if s.Working {
		t.corrections.Add(ctx, 1, attrs)
	}
	if s.Hold {
		t.drift.Record(ctx, s.DriftDeg, attrs)
	}
}
