package scene

import (
	"fmt"

	"github.com/milk9111/travelcam/ecs"
	"github.com/milk9111/travelcam/ecs/component"
)

func (s *Scene) properties(obj ecs.Entity) (*component.Properties, error) {
	if _, err := s.object(obj); err != nil {
		return nil, err
	}
	props, ok := ecs.Get(s.world, obj, component.PropertiesComponent.Kind())
	if !ok {
		props = &component.Properties{Values: map[string]any{}}
		if err := ecs.Add(s.world, obj, component.PropertiesComponent.Kind(), props); err != nil {
			return nil, err
		}
	}
	return props, nil
}

// SetProperty stores a custom property. Numbers are kept as float64 and
// clamped to the property's bounds; strings are stored as is.
func (s *Scene) SetProperty(obj ecs.Entity, name string, value any) error {
	props, err := s.properties(obj)
	if err != nil {
		return err
	}
	switch v := value.(type) {
	case float64:
		props.Set(name, v)
	case float32:
		props.Set(name, float64(v))
	case int:
		props.Set(name, float64(v))
	case string:
		props.Set(name, v)
	default:
		return fmt.Errorf("scene: property %q: unsupported type %T", name, value)
	}
	s.world.Events().Push(ecs.Event{Type: ecs.EventGraphChanged, Data: obj})
	return nil
}

func (s *Scene) Property(obj ecs.Entity, name string) (any, bool) {
	props, ok := ecs.Get(s.world, obj, component.PropertiesComponent.Kind())
	if !ok || !s.Alive(obj) {
		return nil, false
	}
	return props.Get(name)
}

// SetPropertyBounds restricts a numeric property and clamps its current
// value.
func (s *Scene) SetPropertyBounds(obj ecs.Entity, name string, bounds component.Bounds) error {
	props, err := s.properties(obj)
	if err != nil {
		return err
	}
	if props.Bounds == nil {
		props.Bounds = map[string]component.Bounds{}
	}
	props.Bounds[name] = bounds
	if v, ok := props.Float(name); ok {
		props.Set(name, v)
	}
	return nil
}
