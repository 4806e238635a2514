package config

import "sort"

var kerbin = BodyConfig{ID: 1, Name: "kerbin", Radius: DefaultRadius, SpinPeriod: DefaultSpinPeriod, Atmosphere: true}
var mun = BodyConfig{ID: 2, Name: "mun", Radius: 200000, SpinPeriod: 138984.38, Atmosphere: false}

var Presets = map[string]*Config{
	"landed-atmo": {
		Scenario: "landed-atmo", Dt: DefaultDt, Duration: 300, Mode: "auto", ActiveVessel: 1,
		Bodies:  []BodyConfig{kerbin},
		Vessels: []VesselConfig{{ID: 1, Name: "rover", Body: 1, Basis: 1, Situation: "landed", Hold: true}},
	},
	"landed-vacuum": {
		Scenario: "landed-vacuum", Dt: DefaultDt, Duration: 300, Mode: "auto", ActiveVessel: 1,
		Bodies:  []BodyConfig{mun},
		Vessels: []VesselConfig{{ID: 1, Name: "lander", Body: 2, Basis: 1, Situation: "landed", Hold: true}},
	},
	"flying": {
		Scenario: "flying", Dt: DefaultDt, Duration: 120, Mode: "auto", ActiveVessel: 1,
		Bodies: []BodyConfig{kerbin},
		Vessels: []VesselConfig{{
			ID: 1, Name: "plane", Body: 1, Basis: 1, Situation: "flying",
			Altitude: 5000, GroundSpeed: 220, Hold: true,
		}},
	},
	"orbit": {
		Scenario: "orbit", Dt: DefaultDt, Duration: 300, Mode: "on", ActiveVessel: 1,
		Bodies: []BodyConfig{kerbin},
		Vessels: []VesselConfig{{
			ID: 1, Name: "station", Body: 1, Basis: 1, Situation: "orbiting",
			Altitude: 80000, OrbitalPeriod: 1858.8, Hold: true,
		}},
	},
	"hold-toggle": {
		Scenario: "hold-toggle", Dt: DefaultDt, Duration: 60, Mode: "auto", ActiveVessel: 1,
		Bodies: []BodyConfig{kerbin},
		Vessels: []VesselConfig{{
			ID: 1, Name: "plane", Body: 1, Basis: 1, Situation: "flying",
			Altitude: 3000, GroundSpeed: 150, Hold: true,
		}},
		Events: []EventConfig{
			{Tick: 1000, Action: ActionHoldOff},
			{Tick: 1500, Action: ActionHoldOn},
			{Tick: 2000, Action: ActionToggleMode},
			{Tick: 2500, Action: ActionToggleMode},
		},
	},
	"vessel-switch": {
		Scenario: "vessel-switch", Dt: DefaultDt, Duration: 60, Mode: "on", ActiveVessel: 1,
		Bodies: []BodyConfig{kerbin},
		Vessels: []VesselConfig{
			{ID: 1, Name: "plane", Body: 1, Basis: 1, Situation: "flying", Altitude: 3000, GroundSpeed: 150, Hold: true},
			{ID: 2, Name: "rover", Body: 1, Basis: 2, Situation: "landed", Longitude: 12, Hold: true},
		},
		Events: []EventConfig{
			{Tick: 1000, Action: ActionSwitchVessel, Target: 2},
			{Tick: 2000, Action: ActionSwitchVessel, Target: 1},
		},
	},
}

// GetPreset returns a copy of the named preset with ambient defaults filled
// in, or nil when it does not exist.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := p.Clone()
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.DataDir == "" {
		cfg.DataDir = DefaultDataDir
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
