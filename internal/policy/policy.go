// Package policy decides, per tick, whether surface-relative correction should
// run for a vessel given the user-selected mode and the vessel's situation.
package policy

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownMode      = errors.New("policy: unknown mode")
	ErrUnknownSituation = errors.New("policy: unknown situation")
)

type Mode int

const (
	Automatic Mode = iota
	On
	Off
)

// Next returns the mode selected by one toggle press.
func (m Mode) Next() Mode {
	switch m {
	case Automatic:
		return On
	case On:
		return Off
	default:
		return Automatic
	}
}

func (m Mode) String() string {
	switch m {
	case Automatic:
		return "auto"
	case On:
		return "on"
	case Off:
		return "off"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Icon identifies which of the three launcher icons represents m.
func (m Mode) Icon() Icon {
	switch m {
	case On:
		return IconOn
	case Off:
		return IconOff
	default:
		return IconAuto
	}
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto", "automatic":
		return Automatic, nil
	case "on":
		return On, nil
	case "off":
		return Off, nil
	}
	return Automatic, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

type Icon string

const (
	IconAuto Icon = "AUTO"
	IconOn   Icon = "ON"
	IconOff  Icon = "OFF"
)

// Situation is the coarse physical state a host reports for a vessel.
type Situation int

const (
	Other Situation = iota
	Flying
	Landed
	Splashed
	Prelaunch
	SubOrbital
	Orbiting
	Escaping
	Docked
)

var situationNames = map[Situation]string{
	Other:      "other",
	Flying:     "flying",
	Landed:     "landed",
	Splashed:   "splashed",
	Prelaunch:  "prelaunch",
	SubOrbital: "sub_orbital",
	Orbiting:   "orbiting",
	Escaping:   "escaping",
	Docked:     "docked",
}

func (s Situation) String() string {
	if name, ok := situationNames[s]; ok {
		return name
	}
	return fmt.Sprintf("situation(%d)", int(s))
}

func ParseSituation(s string) (Situation, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for sit, name := range situationNames {
		if name == key {
			return sit, nil
		}
	}
	return Other, fmt.Errorf("%w: %q", ErrUnknownSituation, s)
}

// ShouldCorrect reports whether correction is wanted this tick. In Automatic
// mode a vessel at rest only qualifies when its body has an atmosphere.
func ShouldCorrect(m Mode, s Situation, hasAtmosphere bool) bool {
	switch m {
	case Automatic:
		return s == Flying || (hasAtmosphere && (s == Landed || s == Splashed))
	case On:
		return true
	default:
		return false
	}
}
