package component

// ConstraintKind selects which channel a constraint copies from its target.
type ConstraintKind string

const (
	CopyLocation ConstraintKind = "COPY_LOCATION"
	CopyRotation ConstraintKind = "COPY_ROTATION"
)

// DisplayName is the base name the host gives new constraints of kind.
func (k ConstraintKind) DisplayName() string {
	switch k {
	case CopyLocation:
		return "Copy Location"
	case CopyRotation:
		return "Copy Rotation"
	default:
		return string(k)
	}
}

// Constraint pulls its owner's world transform toward Target by Influence.
// Influence is stored raw; evaluation saturates it to [0,1].
type Constraint struct {
	Name      string
	Kind      ConstraintKind
	Target    uint64 // ecs.Entity
	Influence float64
	Expanded  bool
}

// ConstraintStack is evaluated top to bottom; slot order is significant.
type ConstraintStack struct {
	Items []Constraint
}

// Index returns the slot of the constraint called name, or -1.
func (s *ConstraintStack) Index(name string) int {
	if s == nil {
		return -1
	}
	for i := range s.Items {
		if s.Items[i].Name == name {
			return i
		}
	}
	return -1
}

var ConstraintStackComponent = NewComponent[ConstraintStack]()
