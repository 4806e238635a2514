package hold

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/framehold/internal/policy"
)

// Stable handles used for continuity checks between ticks.
type (
	ObjectID uint64
	BodyID   uint64
	BasisID  uint64
)

type Body interface {
	ID() BodyID
	Position() mgl64.Vec3
	HasAtmosphere() bool
}

// Basis is the local reference frame attached to a vessel.
type Basis interface {
	ID() BasisID
	Position() mgl64.Vec3
}

// Vessel is the host's view of the controlled object. HeldAttitude is the
// target the vessel's attitude-hold keeps it pointed at.
type Vessel interface {
	ID() ObjectID
	Situation() policy.Situation
	Body() Body
	ReferenceBasis() Basis
	Packed() bool
	HoldEngaged() bool
	HeldAttitude() mgl64.Quat
	SetHeldAttitude(q mgl64.Quat)
}

// Indicator is the toggle surface the engine reports to.
type Indicator interface {
	SetPressed(pressed bool)
	SetIcon(icon policy.Icon)
}

// Snapshot is the engine's memory of the previous tick.
type Snapshot struct {
	Object   ObjectID
	Body     BodyID
	Basis    BasisID
	Relative mgl64.Vec3
	Active   bool
}

func (s Snapshot) continues(obj ObjectID, body BodyID, basis BasisID) bool {
	return s.Object == obj && s.Body == body && s.Basis == basis
}

// Report describes what a single Tick did.
type Report struct {
	Working  bool
	Applied  bool
	Captured bool
	Delta    mgl64.Quat
}
