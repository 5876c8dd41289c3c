package rig

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/travelcam/ecs"
	"github.com/milk9111/travelcam/ecs/component"
)

// Objects creates, deletes and enumerates scene objects. Names handed to
// CreateObject are made unique by the host.
type Objects interface {
	CreateObject(name string, kind component.ObjectKind) (ecs.Entity, error)
	DeleteObject(obj ecs.Entity) error
	Alive(obj ecs.Entity) bool
	Name(obj ecs.Entity) string
	Objects() []ecs.Entity
}

// Hierarchy links objects without inverse compensation and edits local
// transforms.
type Hierarchy interface {
	SetParent(child, parent ecs.Entity) error
	Parent(obj ecs.Entity) (ecs.Entity, bool)
	SetLocation(obj ecs.Entity, loc mgl64.Vec3) error
	SetRotation(obj ecs.Entity, rot mgl64.Quat) error
	SetHidden(obj ecs.Entity, hidden bool) error
	OriginToGeometry(obj ecs.Entity) error
}

// Selector is the user's selection. Select replaces it; Selection keeps
// the order objects were selected in.
type Selector interface {
	Selection() []ecs.Entity
	Select(objs ...ecs.Entity)
	Active() (ecs.Entity, bool)
	SetActive(obj ecs.Entity) error
}

type PropertyStore interface {
	SetProperty(obj ecs.Entity, name string, value any) error
	Property(obj ecs.Entity, name string) (any, bool)
	SetPropertyBounds(obj ecs.Entity, name string, bounds component.Bounds) error
}

// ConstraintStack edits an object's ordered constraints. AddConstraint
// appends and returns the unique name the host gave the constraint.
type ConstraintStack interface {
	AddConstraint(owner ecs.Entity, c component.Constraint) (string, error)
	Constraints(owner ecs.Entity) []component.Constraint
	ClearConstraints(owner ecs.Entity) error
}

type DriverStack interface {
	AddDriver(owner ecs.Entity, d component.Driver) error
	Drivers(owner ecs.Entity) []component.Driver
	ClearDrivers(owner ecs.Entity) error
}

// Animator inserts keyframes on data paths. EaseCurve re-tunes the
// handles of a whole curve so motion eases in and out of every key.
type Animator interface {
	InsertKeyframe(owner ecs.Entity, path string, frame, value float64) error
	EaseCurve(owner ecs.Entity, path string) error
	ClearCurve(owner ecs.Entity, path string) error
	Keyframes(owner ecs.Entity, path string) []component.Keyframe
}

// CameraLens edits camera data: depth-of-field focus and focal length in
// millimetres.
type CameraLens interface {
	SetFocus(camera, target ecs.Entity) error
	SetLens(camera ecs.Entity, mm float64) error
}

// Host is every scene capability the rig consumes.
type Host interface {
	Objects
	Hierarchy
	Selector
	PropertyStore
	ConstraintStack
	DriverStack
	Animator
	CameraLens
}
