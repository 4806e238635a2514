// Package sim is a fixed-timestep host for the hold engine: it moves bodies
// and vessels, fires fixed-update subscribers and records what happened.
package sim

import (
	"context"
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
	"github.com/san-kum/framehold/internal/config"
	"github.com/san-kum/framehold/internal/frame"
	"github.com/san-kum/framehold/internal/hold"
	"github.com/san-kum/framehold/internal/policy"
)

type subscribers struct {
	next int
	fns  map[int]func()
}

func (s *subscribers) add(fn func()) func() {
	if s.fns == nil {
		s.fns = make(map[int]func())
	}
	s.next++
	id := s.next
	s.fns[id] = fn
	return func() { delete(s.fns, id) }
}

// fire calls subscribers in registration order.
func (s *subscribers) fire() {
	ids := make([]int, 0, len(s.fns))
	for id := range s.fns {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if fn, ok := s.fns[id]; ok {
			fn()
		}
	}
}

// surfaceLock is the attitude a perfectly surface-locked hold would have,
// anchored when hold was engaged.
type surfaceLock struct {
	valid  bool
	vessel hold.ObjectID
	body   hold.BodyID
	held   mgl64.Quat
	lon    float64
}

type Simulator struct {
	world     *World
	fixed     subscribers
	uiReady   subscribers
	uiFired   bool
	button    *Button
	events    map[int][]config.EventConfig
	metrics   []Metric
	observers []Observer
	tick      int
	lock      surfaceLock
	errs      []error
	log       zerolog.Logger
}

func New(world *World, log zerolog.Logger) *Simulator {
	return &Simulator{
		world:     world,
		events:    make(map[int][]config.EventConfig),
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		log:       log.With().Str("component", "sim").Logger(),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }
func (s *Simulator) World() *World          { return s.world }
func (s *Simulator) Tick() int              { return s.tick }

func (s *Simulator) OnFixedUpdate(fn func()) func() { return s.fixed.add(fn) }
func (s *Simulator) OnUIReady(fn func()) func()     { return s.uiReady.add(fn) }

// ActiveVessel returns nil (not a typed nil) when nothing is focused.
func (s *Simulator) ActiveVessel() hold.Vessel {
	if v := s.world.Active(); v != nil {
		return v
	}
	return nil
}

// UIReady notifies UI-ready subscribers once.
func (s *Simulator) UIReady() {
	if s.uiFired {
		return
	}
	s.uiFired = true
	s.uiReady.fire()
}

// Schedule queues events by tick.
func (s *Simulator) Schedule(events []config.EventConfig) {
	for _, ev := range events {
		s.events[ev.Tick] = append(s.events[ev.Tick], ev)
	}
}

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := cfg.Ticks()
	result := &Result{
		Samples: make([]Sample, 0, steps),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	s.UIReady()
	s.log.Debug().Int("ticks", steps).Float64("dt", cfg.Dt).Msg("run started")

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			result.Errors = append(result.Errors, s.drainErrors()...)
			return result, ctx.Err()
		default:
		}

		result.Samples = append(result.Samples, s.Step(cfg.Dt))
		result.Ticks++
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	result.Errors = append(result.Errors, s.drainErrors()...)

	s.log.Debug().Int("ticks", result.Ticks).Int("errors", len(result.Errors)).Msg("run finished")
	return result, nil
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	return nil
}

// Step applies this tick's events, advances the world by dt, fires the
// fixed update and returns the resulting sample.
func (s *Simulator) Step(dt float64) Sample {
	t := float64(s.tick) * dt

	for _, ev := range s.events[s.tick] {
		if err := s.apply(ev); err != nil {
			terr := &TickError{Tick: s.tick, Time: t, Action: ev.Action, Wrapped: err}
			s.log.Warn().Err(terr).Msg("event skipped")
			s.errs = append(s.errs, terr)
		}
	}

	s.world.Advance(t)
	s.fixed.fire()

	sample := s.sample(t)
	for _, m := range s.metrics {
		m.Observe(sample)
	}
	for _, obs := range s.observers {
		obs.OnTick(sample)
	}

	s.tick++
	return sample
}

func (s *Simulator) sample(t float64) Sample {
	sample := Sample{Tick: s.tick, Time: t, Held: mgl64.QuatIdent()}
	if s.button != nil {
		sample.Working = s.button.Pressed()
		sample.Icon = s.button.Icon()
	}

	v := s.world.Active()
	if v == nil {
		s.lock.valid = false
		return sample
	}

	sample.Vessel = v.id
	sample.Body = v.body.id
	sample.Situation = v.situation
	sample.Hold = v.hold
	sample.Packed = v.packed
	sample.Held = v.held
	sample.Relative = frame.Relative(v.basis.pos, v.body.pos)
	sample.DriftDeg = s.drift(v)
	return sample
}

// drift measures how far the held attitude has wandered from one that stayed
// fixed to the surface under the vessel since hold was engaged.
func (s *Simulator) drift(v *Vessel) float64 {
	if !v.hold {
		s.lock.valid = false
		return 0
	}
	if !s.lock.valid || s.lock.vessel != v.id || s.lock.body != v.body.id {
		s.lock = surfaceLock{valid: true, vessel: v.id, body: v.body.id, held: v.held, lon: v.lon}
		return 0
	}
	ref := mgl64.QuatRotate(v.lon-s.lock.lon, mgl64.Vec3{0, 0, 1}).Mul(s.lock.held)
	return frame.AngleBetween(v.held, ref)
}

func (s *Simulator) drainErrors() []error {
	errs := s.errs
	s.errs = nil
	return errs
}

func (s *Simulator) apply(ev config.EventConfig) error {
	if ev.Action == config.ActionToggleMode {
		if s.button == nil {
			return ErrNoButton
		}
		s.button.Click()
		return nil
	}
	if ev.Action == config.ActionSwitchVessel {
		return s.world.SetActive(hold.ObjectID(ev.Target))
	}

	v := s.world.Active()
	if ev.Target != 0 && ev.Action != config.ActionSwitchBody && ev.Action != config.ActionSwitchBasis {
		var ok bool
		if v, ok = s.world.Vessel(hold.ObjectID(ev.Target)); !ok {
			return fmt.Errorf("%w %d", ErrUnknownVessel, ev.Target)
		}
	}
	if v == nil {
		return ErrNoActive
	}

	switch ev.Action {
	case config.ActionHoldOn:
		v.hold = true
	case config.ActionHoldOff:
		v.hold = false
	case config.ActionPack:
		v.packed = true
	case config.ActionUnpack:
		v.packed = false
	case config.ActionSwitchBody:
		return s.world.MoveToBody(v, hold.BodyID(ev.Target))
	case config.ActionSwitchBasis:
		v.basis = &Basis{id: hold.BasisID(ev.Target), pos: v.basis.pos}
	case config.ActionSituation:
		sit, err := policy.ParseSituation(ev.Situation)
		if err != nil {
			return err
		}
		v.situation = sit
	default:
		return fmt.Errorf("%w: %q", config.ErrUnknownAction, ev.Action)
	}
	s.log.Debug().Int("tick", s.tick).Str("action", ev.Action).Uint64("vessel", uint64(v.id)).Msg("event applied")
	return nil
}
