package metrics

import (
	"math"

	"github.com/san-kum/framehold/internal/sim"
)

// MaxDrift is the largest angle, in degrees, between the held attitude and
// one locked to the surface.
type MaxDrift struct {
	name string
	max  float64
}

func NewMaxDrift() *MaxDrift {
	return &MaxDrift{name: "max_drift_deg"}
}

func (m *MaxDrift) Name() string { return m.name }

func (m *MaxDrift) Observe(s sim.Sample) {
	m.max = math.Max(m.max, s.DriftDeg)
}

func (m *MaxDrift) Value() float64 { return m.max }
func (m *MaxDrift) Reset()         { m.max = 0 }

type FinalDrift struct {
	name string
	last float64
}

func NewFinalDrift() *FinalDrift {
	return &FinalDrift{name: "final_drift_deg"}
}

func (f *FinalDrift) Name() string         { return f.name }
func (f *FinalDrift) Observe(s sim.Sample) { f.last = s.DriftDeg }
func (f *FinalDrift) Value() float64       { return f.last }
func (f *FinalDrift) Reset()               { f.last = 0 }

// MeanDrift averages drift over the ticks where hold was engaged.
type MeanDrift struct {
	name    string
	sum     float64
	samples int
}

func NewMeanDrift() *MeanDrift {
	return &MeanDrift{name: "mean_drift_deg"}
}

func (m *MeanDrift) Name() string {
	return m.name
}

func (m *MeanDrift) Observe(s sim.Sample) {
	if !s.Hold {
		return
	}
	m.sum += s.DriftDeg
	m.samples++
}

func (m *MeanDrift) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanDrift) Reset() {
	m.sum = 0
	m.samples = 0
}
