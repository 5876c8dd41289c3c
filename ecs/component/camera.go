package component

// Camera holds lens data. Focus is the depth-of-field target.
type Camera struct {
	Focus uint64 // ecs.Entity, 0 when unset
	Lens  float64
}

const DefaultLens = 50.0

var CameraComponent = NewComponent[Camera]()
