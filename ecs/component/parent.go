package component

// Parent links a child to its parent without an inverse matrix, so the
// parent's transform applies to the child's local transform directly.
type Parent struct {
	Entity uint64 // ecs.Entity
}

var ParentComponent = NewComponent[Parent]()
