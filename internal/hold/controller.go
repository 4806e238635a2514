package hold

import (
	"github.com/rs/zerolog"
	"github.com/san-kum/framehold/internal/policy"
)

// Host is the application that owns the simulation loop. The returned cancel
// funcs release a subscription.
type Host interface {
	OnFixedUpdate(fn func()) (cancel func())
	OnUIReady(fn func()) (cancel func())
	ActiveVessel() Vessel
}

type Button interface {
	Indicator
}

// Launcher is the host's toolbar where the toggle button lives.
type Launcher interface {
	Ready() bool
	AddButton(onClick func(), icon policy.Icon) Button
	RemoveButton(b Button)
}

// Controller wires an Engine into a Host for the lifetime between New and
// Close.
type Controller struct {
	engine   *Engine
	host     Host
	launcher Launcher
	button   Button
	cancels  []func()
	log      zerolog.Logger
}

func NewController(host Host, launcher Launcher, engine *Engine, log zerolog.Logger) *Controller {
	c := &Controller{
		engine:   engine,
		host:     host,
		launcher: launcher,
		log:      log.With().Str("component", "controller").Logger(),
	}
	c.cancels = append(c.cancels,
		host.OnUIReady(c.onUIReady),
		host.OnFixedUpdate(c.fixedUpdate),
	)
	c.log.Debug().Msg("registered with host")
	return c
}

func (c *Controller) Engine() *Engine { return c.engine }

func (c *Controller) fixedUpdate() {
	c.engine.Tick(c.host.ActiveVessel())
}

func (c *Controller) onUIReady() {
	if c.launcher == nil || !c.launcher.Ready() || c.button != nil {
		return
	}
	c.button = c.launcher.AddButton(func() { c.engine.Toggle() }, c.engine.Mode().Icon())
	c.engine.Attach(c.button)
	c.log.Debug().Stringer("mode", c.engine.Mode()).Msg("toggle button added")
}

// Close releases every host subscription and removes the button. It is safe
// to call more than once.
func (c *Controller) Close() {
	for _, cancel := range c.cancels {
		if cancel != nil {
			cancel()
		}
	}
	c.cancels = nil

	if c.button != nil {
		c.engine.Detach()
		c.launcher.RemoveButton(c.button)
		c.button = nil
	}
	c.log.Debug().Msg("unregistered from host")
}
