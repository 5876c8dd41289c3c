package component

// DriverVariable binds a name in the driver expression to a data path on
// another object.
type DriverVariable struct {
	Name   string
	Source uint64 // ecs.Entity
	Path   string
}

// Driver recomputes the property at Path from Expression on every
// evaluation pass.
type Driver struct {
	Path       string
	Expression string
	Variables  []DriverVariable
}

type DriverStack struct {
	Items []Driver
}

var DriverStackComponent = NewComponent[DriverStack]()
