// Package config loads scenario files describing bodies, vessels and scripted
// events for a simulation run.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/san-kum/framehold/internal/policy"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt       = 0.02
	DefaultDuration = 120.0
	DefaultMode     = "auto"
	DefaultLogLevel = "info"
	DefaultDataDir  = ".framehold"

	// Kerbin-like defaults.
	DefaultRadius     = 600000.0
	DefaultSpinPeriod = 21549.425
)

const EnvPrefix = "FRAMEHOLD"

type Config struct {
	Scenario     string         `yaml:"scenario" mapstructure:"scenario"`
	Dt           float64        `yaml:"dt" mapstructure:"dt"`
	Duration     float64        `yaml:"duration" mapstructure:"duration"`
	Mode         string         `yaml:"mode" mapstructure:"mode"`
	LogLevel     string         `yaml:"log_level" mapstructure:"log_level"`
	DataDir      string         `yaml:"data_dir" mapstructure:"data_dir"`
	ActiveVessel uint64         `yaml:"active_vessel" mapstructure:"active_vessel"`
	Bodies       []BodyConfig   `yaml:"bodies" mapstructure:"bodies"`
	Vessels      []VesselConfig `yaml:"vessels" mapstructure:"vessels"`
	Events       []EventConfig  `yaml:"events,omitempty" mapstructure:"events"`
}

type BodyConfig struct {
	ID         uint64    `yaml:"id" mapstructure:"id"`
	Name       string    `yaml:"name" mapstructure:"name"`
	Position   []float64 `yaml:"position,flow,omitempty" mapstructure:"position"`
	Velocity   []float64 `yaml:"velocity,flow,omitempty" mapstructure:"velocity"`
	Radius     float64   `yaml:"radius" mapstructure:"radius"`
	SpinPeriod float64   `yaml:"spin_period" mapstructure:"spin_period"`
	Atmosphere bool      `yaml:"atmosphere" mapstructure:"atmosphere"`
}

// VesselConfig places a vessel on the body's equatorial plane. Angular rate
// about the body axis is 2π/OrbitalPeriod when set, otherwise the body's spin
// plus GroundSpeed over the orbital radius.
type VesselConfig struct {
	ID            uint64    `yaml:"id" mapstructure:"id"`
	Name          string    `yaml:"name" mapstructure:"name"`
	Body          uint64    `yaml:"body" mapstructure:"body"`
	Basis         uint64    `yaml:"basis" mapstructure:"basis"`
	Situation     string    `yaml:"situation" mapstructure:"situation"`
	Altitude      float64   `yaml:"altitude" mapstructure:"altitude"`
	Longitude     float64   `yaml:"longitude" mapstructure:"longitude"`
	GroundSpeed   float64   `yaml:"ground_speed" mapstructure:"ground_speed"`
	OrbitalPeriod float64   `yaml:"orbital_period,omitempty" mapstructure:"orbital_period"`
	Hold          bool      `yaml:"hold" mapstructure:"hold"`
	Packed        bool      `yaml:"packed" mapstructure:"packed"`
	Attitude      []float64 `yaml:"attitude,flow,omitempty" mapstructure:"attitude"`
}

// EventConfig is applied before the fixed update of tick Tick.
type EventConfig struct {
	Tick      int    `yaml:"tick" mapstructure:"tick"`
	Action    string `yaml:"action" mapstructure:"action"`
	Target    uint64 `yaml:"target,omitempty" mapstructure:"target"`
	Situation string `yaml:"situation,omitempty" mapstructure:"situation"`
}

const (
	ActionHoldOn       = "hold_on"
	ActionHoldOff      = "hold_off"
	ActionPack         = "pack"
	ActionUnpack       = "unpack"
	ActionToggleMode   = "toggle_mode"
	ActionSwitchVessel = "switch_vessel"
	ActionSwitchBody   = "switch_body"
	ActionSwitchBasis  = "switch_basis"
	ActionSituation    = "situation"
)

var actions = []string{
	ActionHoldOn, ActionHoldOff, ActionPack, ActionUnpack, ActionToggleMode,
	ActionSwitchVessel, ActionSwitchBody, ActionSwitchBasis, ActionSituation,
}

func DefaultConfig() *Config {
	return &Config{
		Scenario:     "default",
		Dt:           DefaultDt,
		Duration:     DefaultDuration,
		Mode:         DefaultMode,
		LogLevel:     DefaultLogLevel,
		DataDir:      DefaultDataDir,
		ActiveVessel: 1,
		Bodies: []BodyConfig{
			{ID: 1, Name: "kerbin", Radius: DefaultRadius, SpinPeriod: DefaultSpinPeriod, Atmosphere: true},
		},
		Vessels: []VesselConfig{
			{ID: 1, Name: "vessel", Body: 1, Basis: 1, Situation: "landed", Hold: true},
		},
	}
}

// Load reads a YAML scenario on top of the defaults. Scalar settings may be
// overridden with FRAMEHOLD_* environment variables.
func Load(path string) (*Config, error) {
	def := DefaultConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("scenario", def.Scenario)
	v.SetDefault("dt", def.Dt)
	v.SetDefault("duration", def.Duration)
	v.SetDefault("mode", def.Mode)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("data_dir", def.DataDir)
	v.SetDefault("active_vessel", def.ActiveVessel)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := def
	if v.IsSet("bodies") {
		cfg.Bodies = nil
	}
	if v.IsSet("vessels") {
		cfg.Vessels = nil
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalid, c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %f", ErrInvalid, c.Duration)
	}
	if _, err := policy.ParseMode(c.Mode); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if len(c.Bodies) == 0 {
		return fmt.Errorf("%w: at least one body is required", ErrInvalid)
	}

	bodies := make(map[uint64]bool, len(c.Bodies))
	for _, b := range c.Bodies {
		if bodies[b.ID] {
			return fmt.Errorf("%w: duplicate body id %d", ErrInvalid, b.ID)
		}
		if b.Radius <= 0 {
			return fmt.Errorf("%w: body %d radius must be positive", ErrInvalid, b.ID)
		}
		if len(b.Position) != 0 && len(b.Position) != 3 {
			return fmt.Errorf("%w: body %d position needs 3 components", ErrInvalid, b.ID)
		}
		if len(b.Velocity) != 0 && len(b.Velocity) != 3 {
			return fmt.Errorf("%w: body %d velocity needs 3 components", ErrInvalid, b.ID)
		}
		bodies[b.ID] = true
	}

	vessels := make(map[uint64]bool, len(c.Vessels))
	for _, v := range c.Vessels {
		if vessels[v.ID] {
			return fmt.Errorf("%w: duplicate vessel id %d", ErrInvalid, v.ID)
		}
		if !bodies[v.Body] {
			return fmt.Errorf("%w: vessel %d references unknown body %d", ErrInvalid, v.ID, v.Body)
		}
		if _, err := policy.ParseSituation(v.Situation); err != nil {
			return fmt.Errorf("%w: vessel %d: %v", ErrInvalid, v.ID, err)
		}
		if len(v.Attitude) != 0 && len(v.Attitude) != 4 {
			return fmt.Errorf("%w: vessel %d attitude needs 4 components (w, x, y, z)", ErrInvalid, v.ID)
		}
		vessels[v.ID] = true
	}
	if c.ActiveVessel != 0 && !vessels[c.ActiveVessel] {
		return fmt.Errorf("%w: active vessel %d not defined", ErrInvalid, c.ActiveVessel)
	}

	for _, ev := range c.Events {
		if err := ev.validate(bodies, vessels); err != nil {
			return err
		}
	}
	return nil
}

func (e EventConfig) validate(bodies, vessels map[uint64]bool) error {
	if e.Tick < 0 {
		return fmt.Errorf("%w: event tick must not be negative", ErrInvalid)
	}
	switch e.Action {
	case ActionSwitchVessel:
		if e.Target != 0 && !vessels[e.Target] {
			return fmt.Errorf("%w: tick %d switches to unknown vessel %d", ErrInvalid, e.Tick, e.Target)
		}
	case ActionSwitchBody:
		if !bodies[e.Target] {
			return fmt.Errorf("%w: tick %d switches to unknown body %d", ErrInvalid, e.Tick, e.Target)
		}
	case ActionSituation:
		if _, err := policy.ParseSituation(e.Situation); err != nil {
			return fmt.Errorf("%w: tick %d: %v", ErrInvalid, e.Tick, err)
		}
	case ActionHoldOn, ActionHoldOff, ActionPack, ActionUnpack, ActionToggleMode, ActionSwitchBasis:
	default:
		return fmt.Errorf("%w: %q at tick %d", ErrUnknownAction, e.Action, e.Tick)
	}
	return nil
}

// Actions lists the event actions a scenario may schedule.
func Actions() []string {
	out := make([]string, len(actions))
	copy(out, actions)
	return out
}

// Ticks is the number of fixed steps the scenario runs for.
func (c *Config) Ticks() int {
	return int(c.Duration/c.Dt + 0.5)
}

func (c *Config) Clone() *Config {
	out := *c
	out.Bodies = make([]BodyConfig, len(c.Bodies))
	for i, b := range c.Bodies {
		b.Position = append([]float64(nil), b.Position...)
		b.Velocity = append([]float64(nil), b.Velocity...)
		out.Bodies[i] = b
	}
	out.Vessels = make([]VesselConfig, len(c.Vessels))
	for i, v := range c.Vessels {
		v.Attitude = append([]float64(nil), v.Attitude...)
		out.Vessels[i] = v
	}
	out.Events = append([]EventConfig(nil), c.Events...)
	return &out
}
