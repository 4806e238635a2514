package metrics

import "github.com/san-kum/framehold/internal/sim"

// CorrectionRatio is the fraction of ticks on which the engine corrected.
type CorrectionRatio struct {
	name    string
	working int
	samples int
}

func NewCorrectionRatio() *CorrectionRatio {
	return &CorrectionRatio{name: "correction_ratio"}
}

func (c *CorrectionRatio) Name() string {
	return c.name
}

func (c *CorrectionRatio) Observe(s sim.Sample) {
	if s.Working {
		c.working++
	}
	c.samples++
}

func (c *CorrectionRatio) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return float64(c.working) / float64(c.samples)
}

func (c *CorrectionRatio) Reset() {
	c.working = 0
	c.samples = 0
}

// PressedChanges counts how often the toggle button flipped between pressed
// and released.
type PressedChanges struct {
	name    string
	prev    bool
	changes int
}

func NewPressedChanges() *PressedChanges {
	return &PressedChanges{name: "pressed_changes"}
}

func (p *PressedChanges) Name() string { return p.name }

func (p *PressedChanges) Observe(s sim.Sample) {
	if s.Working != p.prev {
		p.changes++
	}
	p.prev = s.Working
}

func (p *PressedChanges) Value() float64 { return float64(p.changes) }

func (p *PressedChanges) Reset() {
	p.prev = false
	p.changes = 0
}

// Default is the metric set attached to every run.
func Default() []sim.Metric {
	return []sim.Metric{
		NewMaxDrift(),
		NewFinalDrift(),
		NewMeanDrift(),
		NewCorrectionRatio(),
		NewPressedChanges(),
	}
}
