// Package hold keeps a vessel's held attitude fixed relative to the body it is
// near, nudging the target each tick by the rotation of its position vector.
package hold

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
	"github.com/san-kum/framehold/internal/frame"
	"github.com/san-kum/framehold/internal/policy"
)

// Engine is driven synchronously by a host's fixed update; it is not safe
// for concurrent use.
type Engine struct {
	mode      policy.Mode
	snap      Snapshot
	pressed   bool
	indicator Indicator
	log       zerolog.Logger
}

func NewEngine(log zerolog.Logger) *Engine {
	return &Engine{
		mode: policy.Automatic,
		log:  log.With().Str("component", "hold").Logger(),
	}
}

func (e *Engine) Mode() policy.Mode  { return e.mode }
func (e *Engine) Pressed() bool      { return e.pressed }
func (e *Engine) Snapshot() Snapshot { return e.snap }
func (e *Engine) Detach()            { e.indicator = nil }

func (e *Engine) SetMode(m policy.Mode) {
	e.mode = m
	if e.indicator != nil {
		e.indicator.SetIcon(m.Icon())
	}
}

// Attach binds the toggle surface and syncs it with the current state.
func (e *Engine) Attach(ind Indicator) {
	e.indicator = ind
	if ind == nil {
		return
	}
	ind.SetPressed(e.pressed)
	ind.SetIcon(e.mode.Icon())
}

// Toggle handles a press on the toggle surface. The launcher flips the
// button on click, so the real pressed state is re-asserted first.
func (e *Engine) Toggle() policy.Mode {
	if e.indicator != nil {
		e.indicator.SetPressed(e.pressed)
	}
	e.mode = e.mode.Next()
	if e.indicator != nil {
		e.indicator.SetIcon(e.mode.Icon())
	}
	e.log.Debug().Stringer("mode", e.mode).Msg("mode toggled")
	return e.mode
}

// Tick runs one fixed step for the active vessel, which may be nil.
func (e *Engine) Tick(v Vessel) Report {
	rep := Report{Delta: mgl64.QuatIdent()}
	captured := false

	if v != nil && !v.Packed() {
		body := v.Body()
		basis := v.ReferenceBasis()
		engaged := v.HoldEngaged()

		working := policy.ShouldCorrect(e.mode, v.Situation(), body.HasAtmosphere())

		if e.snap.Active && working && engaged && e.snap.continues(v.ID(), body.ID(), basis.ID()) {
			rel := frame.Relative(basis.Position(), body.Position())
			rep.Delta = frame.FromToRotation(e.snap.Relative, rel)
			v.SetHeldAttitude(rep.Delta.Mul(v.HeldAttitude()))
			rep.Applied = true
		} else {
			working = false
		}

		if engaged {
			e.snap = Snapshot{
				Object:   v.ID(),
				Body:     body.ID(),
				Basis:    basis.ID(),
				Relative: frame.Relative(basis.Position(), body.Position()),
			}
			captured = true
		}
		rep.Working = working
	}

	e.snap.Active = captured
	rep.Captured = captured

	if e.pressed != rep.Working {
		e.setPressed(rep.Working)
	}
	return rep
}

func (e *Engine) setPressed(pressed bool) {
	e.pressed = pressed
	e.log.Debug().Bool("pressed", pressed).Stringer("mode", e.mode).Msg("correction state changed")
	if e.indicator != nil {
		e.indicator.SetPressed(pressed)
	}
}
