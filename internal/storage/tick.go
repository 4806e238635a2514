package storage

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/framehold/internal/hold"
	"github.com/san-kum/framehold/internal/policy"
	"github.com/san-kum/framehold/internal/sim"
)

// Tick is one stored sim.Sample.
type Tick struct {
	ID        uint `gorm:"primaryKey"`
	RunID     uint `gorm:"index"`
	Tick      int
	Time      float64
	Vessel    uint64
	Body      uint64
	Situation string
	Icon      string
	Hold      bool
	Packed    bool
	Working   bool
	RelX      float64
	RelY      float64
	RelZ      float64
	HeldW     float64
	HeldX     float64
	HeldY     float64
	HeldZ     float64
	DriftDeg  float64
}

func NewTick(runID uint, s sim.Sample) Tick {
	return Tick{
		RunID:     runID,
		Tick:      s.Tick,
		Time:      s.Time,
		Vessel:    uint64(s.Vessel),
		Body:      uint64(s.Body),
		Situation: s.Situation.String(),
		Icon:      string(s.Icon),
		Hold:      s.Hold,
		Packed:    s.Packed,
		Working:   s.Working,
		RelX:      s.Relative.X(),
		RelY:      s.Relative.Y(),
		RelZ:      s.Relative.Z(),
		HeldW:     s.Held.W,
		HeldX:     s.Held.V.X(),
		HeldY:     s.Held.V.Y(),
		HeldZ:     s.Held.V.Z(),
		DriftDeg:  s.DriftDeg,
	}
}

func (t Tick) Sample() sim.Sample {
	situation, err := policy.ParseSituation(t.Situation)
	if err != nil {
		situation = policy.Other
	}
	return sim.Sample{
		Tick:      t.Tick,
		Time:      t.Time,
		Vessel:    hold.ObjectID(t.Vessel),
		Body:      hold.BodyID(t.Body),
		Situation: situation,
		Icon:      policy.Icon(t.Icon),
		Hold:      t.Hold,
		Packed:    t.Packed,
		Working:   t.Working,
		Relative:  mgl64.Vec3{t.RelX, t.RelY, t.RelZ},
		Held:      mgl64.Quat{W: t.HeldW, V: mgl64.Vec3{t.HeldX, t.HeldY, t.HeldZ}},
		DriftDeg:  t.DriftDeg,
	}
}
