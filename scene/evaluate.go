package scene

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/travelcam/ecs"
	"github.com/milk9111/travelcam/ecs/component"
)

// Evaluate runs one pass at frame: keyframes, then drivers, then parent
// chains and constraint stacks.
func (s *Scene) Evaluate(frame float64) {
	s.animation.SetFrame(frame)
	s.scheduler.Update(s.world)
}

// Refresh re-evaluates the current frame.
func (s *Scene) Refresh() {
	s.scheduler.Update(s.world)
}

func (s *Scene) Frame() float64 {
	return s.animation.Frame()
}

// WorldTransform is the result of the last evaluation for obj.
func (s *Scene) WorldTransform(obj ecs.Entity) (component.WorldTransform, bool) {
	wt, ok := ecs.Get(s.world, obj, component.WorldTransformComponent.Kind())
	if !ok || !s.Alive(obj) {
		return component.WorldTransform{Rotation: mgl64.QuatIdent()}, false
	}
	return *wt, true
}

func (s *Scene) WorldLocation(obj ecs.Entity) mgl64.Vec3 {
	wt, _ := s.WorldTransform(obj)
	return wt.Location
}
