package sim

import (
	"github.com/san-kum/framehold/internal/hold"
	"github.com/san-kum/framehold/internal/policy"
)

// Button is a headless launcher button. It records what the engine reports
// so samples and views can read it back.
type Button struct {
	onClick func()
	icon    policy.Icon
	pressed bool
	changes int
}

func (b *Button) SetPressed(p bool) {
	if b.pressed != p {
		b.changes++
	}
	b.pressed = p
}

func (b *Button) SetIcon(icon policy.Icon) { b.icon = icon }
func (b *Button) Pressed() bool            { return b.pressed }
func (b *Button) Icon() policy.Icon        { return b.icon }
func (b *Button) Changes() int             { return b.changes }

// Click simulates the user pressing the button.
func (b *Button) Click() {
	if b.onClick != nil {
		b.onClick()
	}
}

func (s *Simulator) Ready() bool { return true }

func (s *Simulator) AddButton(onClick func(), icon policy.Icon) hold.Button {
	s.button = &Button{onClick: onClick, icon: icon}
	return s.button
}

func (s *Simulator) RemoveButton(b hold.Button) {
	if s.button != nil && hold.Button(s.button) == b {
		s.button = nil
	}
}

// Button returns the registered toggle button, or nil.
func (s *Simulator) Button() *Button { return s.button }
