package sim

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/framehold/internal/hold"
	"github.com/san-kum/framehold/internal/policy"
)

var (
	ErrUnknownVessel = errors.New("sim: unknown vessel")
	ErrUnknownBody   = errors.New("sim: unknown body")
	ErrNoActive      = errors.New("sim: no active vessel")
	ErrNoButton      = errors.New("sim: toggle button not registered")
)

// Sample is what the host observed after one fixed update.
type Sample struct {
	Tick      int
	Time      float64
	Vessel    hold.ObjectID
	Body      hold.BodyID
	Situation policy.Situation
	Icon      policy.Icon
	Hold      bool
	Packed    bool
	Working   bool
	Relative  mgl64.Vec3
	Held      mgl64.Quat
	DriftDeg  float64
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

type Observer interface {
	OnTick(s Sample)
}

type Config struct {
	Dt       float64
	Duration float64
}

func (c Config) Ticks() int {
	return int(c.Duration/c.Dt + 0.5)
}

type Result struct {
	Samples []Sample
	Metrics map[string]float64
	Ticks   int
	Errors  []error
}

// TickError reports an event that could not be applied.
type TickError struct {
	Tick    int
	Time    float64
	Action  string
	Wrapped error
}

func (e *TickError) Error() string {
	return fmt.Sprintf("tick %d (t=%.4f): %s: %v", e.Tick, e.Time, e.Action, e.Wrapped)
}

func (e *TickError) Unwrap() error {
	return e.Wrapped
}
