package scene

import (
	"fmt"

	"github.com/milk9111/travelcam/ecs"
	"github.com/milk9111/travelcam/ecs/component"
)

func (s *Scene) constraintStack(owner ecs.Entity) (*component.ConstraintStack, error) {
	if _, err := s.object(owner); err != nil {
		return nil, err
	}
	stack, ok := ecs.Get(s.world, owner, component.ConstraintStackComponent.Kind())
	if !ok {
		stack = &component.ConstraintStack{}
		if err := ecs.Add(s.world, owner, component.ConstraintStackComponent.Kind(), stack); err != nil {
			return nil, err
		}
	}
	return stack, nil
}

// AddConstraint appends c to owner's stack. An empty name becomes the
// kind's display name; names are made unique within the stack.
func (s *Scene) AddConstraint(owner ecs.Entity, c component.Constraint) (string, error) {
	stack, err := s.constraintStack(owner)
	if err != nil {
		return "", err
	}
	if c.Kind != component.CopyLocation && c.Kind != component.CopyRotation {
		return "", fmt.Errorf("scene: unsupported constraint kind %q", c.Kind)
	}
	if c.Target != 0 && !s.Alive(ecs.Entity(c.Target)) {
		return "", fmt.Errorf("scene: constraint target: %w", ErrObjectNotFound)
	}
	base := c.Name
	if base == "" {
		base = c.Kind.DisplayName()
	}
	c.Name = base
	for n := 1; stack.Index(c.Name) >= 0; n++ {
		c.Name = fmt.Sprintf("%s.%03d", base, n)
	}
	stack.Items = append(stack.Items, c)
	s.world.Events().Push(ecs.Event{Type: ecs.EventGraphChanged, Data: owner})
	return c.Name, nil
}

// Constraints returns a copy of owner's stack in evaluation order.
func (s *Scene) Constraints(owner ecs.Entity) []component.Constraint {
	stack, ok := ecs.Get(s.world, owner, component.ConstraintStackComponent.Kind())
	if !ok {
		return nil
	}
	return append([]component.Constraint(nil), stack.Items...)
}

func (s *Scene) ClearConstraints(owner ecs.Entity) error {
	if _, err := s.object(owner); err != nil {
		return err
	}
	if ecs.Remove(s.world, owner, component.ConstraintStackComponent.Kind()) {
		s.world.Events().Push(ecs.Event{Type: ecs.EventGraphChanged, Data: owner})
	}
	return nil
}
