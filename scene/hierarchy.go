package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/travelcam/ecs"
	"github.com/milk9111/travelcam/ecs/component"
)

// SetParent links child to parent without inverse: the child's local
// transform is kept and from now on read in parent space. A zero parent
// unlinks.
func (s *Scene) SetParent(child, parent ecs.Entity) error {
	if _, err := s.object(child); err != nil {
		return err
	}
	if parent == 0 {
		ecs.Remove(s.world, child, component.ParentComponent.Kind())
		return nil
	}
	if _, err := s.object(parent); err != nil {
		return err
	}
	for p, ok := parent, true; ok; p, ok = s.Parent(p) {
		if p == child {
			return fmt.Errorf("%w: %q under %q", ErrParentCycle, s.Name(child), s.Name(parent))
		}
	}
	if err := ecs.Add(s.world, child, component.ParentComponent.Kind(), &component.Parent{Entity: uint64(parent)}); err != nil {
		return err
	}
	s.world.Events().Push(ecs.Event{Type: ecs.EventGraphChanged, Data: child})
	return nil
}

func (s *Scene) Parent(obj ecs.Entity) (ecs.Entity, bool) {
	p, ok := ecs.Get(s.world, obj, component.ParentComponent.Kind())
	if !ok {
		return 0, false
	}
	parent := ecs.Entity(p.Entity)
	if !s.Alive(parent) {
		return 0, false
	}
	return parent, true
}

// Children lists the direct children of obj.
func (s *Scene) Children(obj ecs.Entity) []ecs.Entity {
	var out []ecs.Entity
	ecs.ForEach2(s.world, component.ObjectComponent.Kind(), component.ParentComponent.Kind(), func(e ecs.Entity, _ *component.Object, p *component.Parent) {
		if ecs.Entity(p.Entity) == obj {
			out = append(out, e)
		}
	})
	return out
}

// OriginToGeometry moves obj's origin to the median point of its
// vertices. The geometry and the children are shifted back so nothing
// moves in world space. Objects without geometry are left alone.
func (s *Scene) OriginToGeometry(obj ecs.Entity) error {
	tr, err := s.transform(obj)
	if err != nil {
		return err
	}
	g, ok := ecs.Get(s.world, obj, component.GeometryComponent.Kind())
	if !ok {
		return nil
	}
	center, ok := g.Median()
	if !ok || center.ApproxEqual(mgl64.Vec3{}) {
		return nil
	}
	for i := range g.Vertices {
		g.Vertices[i] = g.Vertices[i].Sub(center)
	}
	tr.Location = tr.Location.Add(tr.Rotation.Rotate(center))
	for _, child := range s.Children(obj) {
		ct, err := s.transform(child)
		if err != nil {
			continue
		}
		ct.Location = ct.Location.Sub(center)
	}
	return nil
}
