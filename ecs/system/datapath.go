package system

import (
	"fmt"

	"github.com/milk9111/travelcam/ecs"
	"github.com/milk9111/travelcam/ecs/component"
)

// ReadPath returns the scalar at path on e.
func ReadPath(w *ecs.World, e ecs.Entity, path string) (float64, error) {
	dp, err := component.ParseDataPath(path)
	if err != nil {
		return 0, err
	}
	if dp.Property != "" {
		props, ok := ecs.Get(w, e, component.PropertiesComponent.Kind())
		if !ok {
			return 0, fmt.Errorf("system: entity=%d has no property %q", e, dp.Property)
		}
		v, ok := props.Float(dp.Property)
		if !ok {
			return 0, fmt.Errorf("system: entity=%d property %q is not numeric", e, dp.Property)
		}
		return v, nil
	}
	c, err := constraintAt(w, e, dp.Constraint)
	if err != nil {
		return 0, err
	}
	return c.Influence, nil
}

// WritePath stores v at path on e. Custom property bounds apply.
func WritePath(w *ecs.World, e ecs.Entity, path string, v float64) error {
	dp, err := component.ParseDataPath(path)
	if err != nil {
		return err
	}
	if dp.Property != "" {
		props, ok := ecs.Get(w, e, component.PropertiesComponent.Kind())
		if !ok {
			props = &component.Properties{}
		}
		props.Set(dp.Property, v)
		return ecs.Add(w, e, component.PropertiesComponent.Kind(), props)
	}
	c, err := constraintAt(w, e, dp.Constraint)
	if err != nil {
		return err
	}
	c.Influence = v
	return nil
}

func constraintAt(w *ecs.World, e ecs.Entity, name string) (*component.Constraint, error) {
	stack, ok := ecs.Get(w, e, component.ConstraintStackComponent.Kind())
	if !ok {
		return nil, fmt.Errorf("system: entity=%d has no constraints", e)
	}
	idx := stack.Index(name)
	if idx < 0 {
		return nil, fmt.Errorf("system: entity=%d has no constraint %q", e, name)
	}
	return &stack.Items[idx], nil
}
