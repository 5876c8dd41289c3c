package component

// ObjectKind mirrors the object types the host distinguishes.
type ObjectKind string

const (
	KindEmpty  ObjectKind = "empty"
	KindCamera ObjectKind = "camera"
	KindMesh   ObjectKind = "mesh"
)

// Object is the identity every scene entity carries.
type Object struct {
	Name string
	Kind ObjectKind
}

var ObjectComponent = NewComponent[Object]()
