package sim

import (
	"github.com/rs/zerolog"
	"github.com/san-kum/framehold/internal/config"
	"github.com/san-kum/framehold/internal/hold"
	"github.com/san-kum/framehold/internal/policy"
)

// Scenario is a simulator with an engine registered on it.
type Scenario struct {
	Sim        *Simulator
	Controller *hold.Controller
	Config     Config
}

// Build assembles a world, a simulator and a hold controller from cfg. The
// engine starts in the mode named by cfg.
func Build(cfg *config.Config, log zerolog.Logger) (*Scenario, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	mode, err := policy.ParseMode(cfg.Mode)
	if err != nil {
		return nil, err
	}
	world, err := NewWorld(cfg)
	if err != nil {
		return nil, err
	}

	s := New(world, log)
	s.Schedule(cfg.Events)

	engine := hold.NewEngine(log)
	engine.SetMode(mode)
	ctrl := hold.NewController(s, s, engine, log)

	return &Scenario{
		Sim:        s,
		Controller: ctrl,
		Config:     Config{Dt: cfg.Dt, Duration: cfg.Duration},
	}, nil
}

func (sc *Scenario) Engine() *hold.Engine { return sc.Controller.Engine() }

// Close unregisters the controller from the simulator.
func (sc *Scenario) Close() { sc.Controller.Close() }
