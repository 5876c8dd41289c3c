package scene

import (
	"fmt"

	"github.com/milk9111/travelcam/ecs"
	"github.com/milk9111/travelcam/ecs/component"
	"github.com/milk9111/travelcam/ecs/system"
)

// InsertKeyframe writes value to path on owner and keys it at frame.
func (s *Scene) InsertKeyframe(owner ecs.Entity, path string, frame, value float64) error {
	if _, err := s.object(owner); err != nil {
		return err
	}
	if err := system.WritePath(s.world, owner, path, value); err != nil {
		return fmt.Errorf("scene: keyframe %s: %w", path, err)
	}
	// Bounds may have clamped the written value.
	stored, err := system.ReadPath(s.world, owner, path)
	if err != nil {
		return fmt.Errorf("scene: keyframe %s: %w", path, err)
	}

	anim, ok := ecs.Get(s.world, owner, component.AnimationComponent.Kind())
	if !ok {
		anim = &component.Animation{}
		if err := ecs.Add(s.world, owner, component.AnimationComponent.Kind(), anim); err != nil {
			return err
		}
	}
	anim.Curve(path, true).Insert(frame, stored)
	return nil
}

// EaseCurve gives every keyframe of the curve flat Bezier handles a third
// of the way to its neighbours, so motion leaves and reaches each key with
// zero velocity.
func (s *Scene) EaseCurve(owner ecs.Entity, path string) error {
	anim, ok := ecs.Get(s.world, owner, component.AnimationComponent.Kind())
	if !ok {
		return fmt.Errorf("scene: ease %s: no animation on %q", path, s.Name(owner))
	}
	curve := anim.Curve(path, false)
	if curve == nil {
		return fmt.Errorf("scene: ease %s: no curve on %q", path, s.Name(owner))
	}
	EaseKeyframes(curve.Keyframes)
	return nil
}

// EaseKeyframes applies the ease-in/ease-out handles to sorted keys.
func EaseKeyframes(keys []component.Keyframe) {
	for i := range keys {
		k := &keys[i]
		k.Interpolation = component.InterpolationBezier

		left, right := 0.0, 0.0
		if i > 0 {
			left = (k.Frame - keys[i-1].Frame) / 3
		}
		if i < len(keys)-1 {
			right = (keys[i+1].Frame - k.Frame) / 3
		}
		if left == 0 {
			left = right
		}
		if right == 0 {
			right = left
		}
		k.HandleLeft = component.Handle{Frame: k.Frame - left, Value: k.Value}
		k.HandleRight = component.Handle{Frame: k.Frame + right, Value: k.Value}
	}
}

// ClearCurve drops the curve on path. A missing curve is not an error.
func (s *Scene) ClearCurve(owner ecs.Entity, path string) error {
	if _, err := s.object(owner); err != nil {
		return err
	}
	anim, ok := ecs.Get(s.world, owner, component.AnimationComponent.Kind())
	if !ok {
		return nil
	}
	anim.RemoveCurve(path)
	if len(anim.Curves) == 0 {
		ecs.Remove(s.world, owner, component.AnimationComponent.Kind())
	}
	return nil
}

func (s *Scene) Keyframes(owner ecs.Entity, path string) []component.Keyframe {
	anim, ok := ecs.Get(s.world, owner, component.AnimationComponent.Kind())
	if !ok {
		return nil
	}
	curve := anim.Curve(path, false)
	if curve == nil {
		return nil
	}
	return append([]component.Keyframe(nil), curve.Keyframes...)
}

// FrameRange spans every keyframe in the scene.
func (s *Scene) FrameRange() (float64, float64, bool) {
	first, last, found := 0.0, 0.0, false
	ecs.ForEach(s.world, component.AnimationComponent.Kind(), func(_ ecs.Entity, anim *component.Animation) {
		for _, c := range anim.Curves {
			for _, k := range c.Keyframes {
				if !found || k.Frame < first {
					first = k.Frame
				}
				if !found || k.Frame > last {
					last = k.Frame
				}
				found = true
			}
		}
	})
	return first, last, found
}
