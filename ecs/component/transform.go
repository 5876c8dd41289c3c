package component

import "github.com/go-gl/mathgl/mgl64"

// Transform is the local location and rotation of an object relative to its
// parent, or to the world when it has none.
type Transform struct {
	Location mgl64.Vec3
	Rotation mgl64.Quat
}

// IdentityTransform places an object at the origin with no rotation.
func IdentityTransform() Transform {
	return Transform{Rotation: mgl64.QuatIdent()}
}

var TransformComponent = NewComponent[Transform]()

// WorldTransform is written by the evaluator: parent chain and constraint
// stack already applied.
type WorldTransform struct {
	Location mgl64.Vec3
	Rotation mgl64.Quat
}

var WorldTransformComponent = NewComponent[WorldTransform]()
