package sim

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/framehold/internal/config"
	"github.com/san-kum/framehold/internal/frame"
	"github.com/san-kum/framehold/internal/hold"
	"github.com/san-kum/framehold/internal/policy"
)

// Body is a spinning celestial body moving at constant velocity through the
// non-rotating frame.
type Body struct {
	id         hold.BodyID
	name       string
	origin     mgl64.Vec3
	velocity   mgl64.Vec3
	radius     float64
	spin       float64
	atmosphere bool
	pos        mgl64.Vec3
}

func (b *Body) ID() hold.BodyID      { return b.id }
func (b *Body) Name() string         { return b.name }
func (b *Body) Position() mgl64.Vec3 { return b.pos }
func (b *Body) HasAtmosphere() bool  { return b.atmosphere }
func (b *Body) Radius() float64      { return b.radius }

type Basis struct {
	id  hold.BasisID
	pos mgl64.Vec3
}

func (b *Basis) ID() hold.BasisID     { return b.id }
func (b *Basis) Position() mgl64.Vec3 { return b.pos }

// Vessel circles its body's +Z axis at a fixed radius.
type Vessel struct {
	id        hold.ObjectID
	name      string
	body      *Body
	basis     *Basis
	situation policy.Situation
	altitude  float64
	lon0      float64
	rate      float64
	hold      bool
	packed    bool
	held      mgl64.Quat
	lon       float64
}

func (v *Vessel) ID() hold.ObjectID            { return v.id }
func (v *Vessel) Name() string                 { return v.name }
func (v *Vessel) Situation() policy.Situation  { return v.situation }
func (v *Vessel) Body() hold.Body              { return v.body }
func (v *Vessel) ReferenceBasis() hold.Basis   { return v.basis }
func (v *Vessel) Packed() bool                 { return v.packed }
func (v *Vessel) HoldEngaged() bool            { return v.hold }
func (v *Vessel) HeldAttitude() mgl64.Quat     { return v.held }
func (v *Vessel) SetHeldAttitude(q mgl64.Quat) { v.held = q }
func (v *Vessel) Longitude() float64           { return v.lon }
func (v *Vessel) SetHold(on bool)              { v.hold = on }
func (v *Vessel) SetPacked(on bool)            { v.packed = on }

func (v *Vessel) orbitRadius() float64 {
	return v.body.radius + v.altitude
}

func (v *Vessel) advance(t float64) {
	v.lon = v.lon0 + v.rate*t
	offset := frame.RotateZ(mgl64.Vec3{v.orbitRadius(), 0, 0}, v.lon)
	v.basis.pos = v.body.pos.Add(offset)
}

type World struct {
	bodies  map[hold.BodyID]*Body
	vessels map[hold.ObjectID]*Vessel
	active  hold.ObjectID
	t       float64
}

func NewWorld(cfg *config.Config) (*World, error) {
	w := &World{
		bodies:  make(map[hold.BodyID]*Body, len(cfg.Bodies)),
		vessels: make(map[hold.ObjectID]*Vessel, len(cfg.Vessels)),
		active:  hold.ObjectID(cfg.ActiveVessel),
	}

	for _, bc := range cfg.Bodies {
		b := &Body{
			id:         hold.BodyID(bc.ID),
			name:       bc.Name,
			origin:     vec3(bc.Position),
			velocity:   vec3(bc.Velocity),
			radius:     bc.Radius,
			atmosphere: bc.Atmosphere,
		}
		if bc.SpinPeriod > 0 {
			b.spin = 2 * math.Pi / bc.SpinPeriod
		}
		w.bodies[b.id] = b
	}

	for _, vc := range cfg.Vessels {
		body, ok := w.bodies[hold.BodyID(vc.Body)]
		if !ok {
			return nil, fmt.Errorf("vessel %d: %w %d", vc.ID, ErrUnknownBody, vc.Body)
		}
		situation, err := policy.ParseSituation(vc.Situation)
		if err != nil {
			return nil, fmt.Errorf("vessel %d: %w", vc.ID, err)
		}
		v := &Vessel{
			id:        hold.ObjectID(vc.ID),
			name:      vc.Name,
			body:      body,
			basis:     &Basis{id: hold.BasisID(vc.Basis)},
			situation: situation,
			altitude:  vc.Altitude,
			lon0:      mgl64.DegToRad(vc.Longitude),
			hold:      vc.Hold,
			packed:    vc.Packed,
			held:      attitude(vc.Attitude),
		}
		v.rate = vesselRate(v, vc)
		w.vessels[v.id] = v
	}

	w.Advance(0)
	return w, nil
}

func vesselRate(v *Vessel, vc config.VesselConfig) float64 {
	if vc.OrbitalPeriod > 0 {
		return 2 * math.Pi / vc.OrbitalPeriod
	}
	return v.body.spin + vc.GroundSpeed/v.orbitRadius()
}

func vec3(c []float64) mgl64.Vec3 {
	if len(c) != 3 {
		return mgl64.Vec3{}
	}
	return mgl64.Vec3{c[0], c[1], c[2]}
}

func attitude(c []float64) mgl64.Quat {
	if len(c) != 4 {
		return mgl64.QuatIdent()
	}
	return mgl64.Quat{W: c[0], V: mgl64.Vec3{c[1], c[2], c[3]}}.Normalize()
}

// Advance moves every body and vessel to time t.
func (w *World) Advance(t float64) {
	w.t = t
	for _, b := range w.bodies {
		b.pos = b.origin.Add(b.velocity.Mul(t))
	}
	for _, v := range w.vessels {
		v.advance(t)
	}
}

func (w *World) Time() float64 { return w.t }

// Active returns the focused vessel, or nil when there is none.
func (w *World) Active() *Vessel {
	return w.vessels[w.active]
}

func (w *World) Vessel(id hold.ObjectID) (*Vessel, bool) {
	v, ok := w.vessels[id]
	return v, ok
}

func (w *World) Body(id hold.BodyID) (*Body, bool) {
	b, ok := w.bodies[id]
	return b, ok
}

func (w *World) Vessels() []*Vessel {
	out := make([]*Vessel, 0, len(w.vessels))
	for _, v := range w.vessels {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// SetActive switches focus; id 0 clears it.
func (w *World) SetActive(id hold.ObjectID) error {
	if id != 0 {
		if _, ok := w.vessels[id]; !ok {
			return fmt.Errorf("%w %d", ErrUnknownVessel, id)
		}
	}
	w.active = id
	return nil
}

// MoveToBody reparents a vessel, keeping its altitude and current longitude.
func (w *World) MoveToBody(v *Vessel, id hold.BodyID) error {
	b, ok := w.bodies[id]
	if !ok {
		return fmt.Errorf("%w %d", ErrUnknownBody, id)
	}
	v.lon0 = v.lon - (b.spin-v.body.spin+v.rate)*w.t
	v.rate += b.spin - v.body.spin
	v.body = b
	v.advance(w.t)
	return nil
}
