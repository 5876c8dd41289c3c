package scene

import (
	"fmt"

	"github.com/milk9111/travelcam/ecs"
	"github.com/milk9111/travelcam/ecs/component"
)

func (s *Scene) camera(obj ecs.Entity) (*component.Camera, error) {
	if _, err := s.object(obj); err != nil {
		return nil, err
	}
	cam, ok := ecs.Get(s.world, obj, component.CameraComponent.Kind())
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotCamera, s.Name(obj))
	}
	return cam, nil
}

// SetFocus sets the depth-of-field target of camera.
func (s *Scene) SetFocus(camera, target ecs.Entity) error {
	cam, err := s.camera(camera)
	if err != nil {
		return err
	}
	if _, err := s.object(target); err != nil {
		return err
	}
	cam.Focus = uint64(target)
	return nil
}

func (s *Scene) Focus(camera ecs.Entity) (ecs.Entity, bool) {
	cam, err := s.camera(camera)
	if err != nil || !s.Alive(ecs.Entity(cam.Focus)) {
		return 0, false
	}
	return ecs.Entity(cam.Focus), true
}

func (s *Scene) SetLens(camera ecs.Entity, mm float64) error {
	cam, err := s.camera(camera)
	if err != nil {
		return err
	}
	if mm <= 0 {
		return fmt.Errorf("scene: lens %g must be positive", mm)
	}
	cam.Lens = mm
	return nil
}

func (s *Scene) Lens(camera ecs.Entity) float64 {
	cam, err := s.camera(camera)
	if err != nil {
		return component.DefaultLens
	}
	return cam.Lens
}
