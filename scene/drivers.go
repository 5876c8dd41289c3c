package scene

import (
	"fmt"
	"log"

	"github.com/milk9111/travelcam/ecs"
	"github.com/milk9111/travelcam/ecs/component"
	"github.com/milk9111/travelcam/ecs/system"
)

// AddDriver binds d to its path on owner, replacing a driver already on
// that path. The path and every variable must resolve. An expression that
// does not compile is kept and reported; the evaluator skips it.
func (s *Scene) AddDriver(owner ecs.Entity, d component.Driver) error {
	if _, err := s.object(owner); err != nil {
		return err
	}
	if _, err := system.ReadPath(s.world, owner, d.Path); err != nil {
		return fmt.Errorf("scene: driver %s: %w", d.Path, err)
	}
	names := make([]string, 0, len(d.Variables))
	for _, v := range d.Variables {
		if !s.Alive(ecs.Entity(v.Source)) {
			return fmt.Errorf("scene: driver %s variable %s: %w", d.Path, v.Name, ErrObjectNotFound)
		}
		if _, err := component.ParseDataPath(v.Path); err != nil {
			return fmt.Errorf("scene: driver %s variable %s: %w", d.Path, v.Name, err)
		}
		names = append(names, v.Name)
	}
	if err := s.drivers.Validate(d.Expression, names...); err != nil {
		log.Printf("scene: driver %s on %q: invalid expression %q: %v", d.Path, s.Name(owner), d.Expression, err)
	}

	stack, ok := ecs.Get(s.world, owner, component.DriverStackComponent.Kind())
	if !ok {
		stack = &component.DriverStack{}
		if err := ecs.Add(s.world, owner, component.DriverStackComponent.Kind(), stack); err != nil {
			return err
		}
	}
	d.Variables = append([]component.DriverVariable(nil), d.Variables...)
	for i := range stack.Items {
		if stack.Items[i].Path == d.Path {
			stack.Items[i] = d
			return nil
		}
	}
	stack.Items = append(stack.Items, d)
	s.world.Events().Push(ecs.Event{Type: ecs.EventGraphChanged, Data: owner})
	return nil
}

func (s *Scene) Drivers(owner ecs.Entity) []component.Driver {
	stack, ok := ecs.Get(s.world, owner, component.DriverStackComponent.Kind())
	if !ok {
		return nil
	}
	return append([]component.Driver(nil), stack.Items...)
}

func (s *Scene) ClearDrivers(owner ecs.Entity) error {
	if _, err := s.object(owner); err != nil {
		return err
	}
	if ecs.Remove(s.world, owner, component.DriverStackComponent.Kind()) {
		s.world.Events().Push(ecs.Event{Type: ecs.EventGraphChanged, Data: owner})
	}
	return nil
}
