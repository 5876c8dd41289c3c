package system

import (
	"log"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/travelcam/ecs"
	"github.com/milk9111/travelcam/ecs/component"
)

// TransformSystem resolves world transforms: parent chain first, then the
// object's own constraint stack top to bottom. Children see their parent's
// constrained result.
type TransformSystem struct{}

func NewTransformSystem() *TransformSystem {
	return &TransformSystem{}
}

func (ts *TransformSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	resolved := map[ecs.Entity]component.WorldTransform{}
	visiting := map[ecs.Entity]bool{}

	var resolve func(e ecs.Entity) component.WorldTransform
	resolve = func(e ecs.Entity) component.WorldTransform {
		if wt, ok := resolved[e]; ok {
			return wt
		}
		identity := component.WorldTransform{Rotation: mgl64.QuatIdent()}
		if visiting[e] {
			log.Printf("transform: entity=%d: dependency cycle", e)
			return identity
		}
		local, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			return identity
		}
		visiting[e] = true
		defer delete(visiting, e)

		out := component.WorldTransform{Location: local.Location, Rotation: local.Rotation}
		if p, ok := ecs.Get(w, e, component.ParentComponent.Kind()); ok && ecs.IsAlive(w, ecs.Entity(p.Entity)) {
			parent := resolve(ecs.Entity(p.Entity))
			out = compose(parent, out)
		}

		if stack, ok := ecs.Get(w, e, component.ConstraintStackComponent.Kind()); ok {
			for _, c := range stack.Items {
				target := ecs.Entity(c.Target)
				if !ecs.IsAlive(w, target) {
					continue
				}
				influence := Saturate(c.Influence)
				if influence == 0 {
					continue
				}
				tw := resolve(target)
				switch c.Kind {
				case component.CopyLocation:
					out.Location = out.Location.Add(tw.Location.Sub(out.Location).Mul(influence))
				case component.CopyRotation:
					out.Rotation = mgl64.QuatSlerp(out.Rotation, tw.Rotation, influence)
				}
			}
		}

		resolved[e] = out
		return out
	}

	ecs.ForEach(w, component.TransformComponent.Kind(), func(e ecs.Entity, _ *component.Transform) {
		wt := resolve(e)
		if err := ecs.Add(w, e, component.WorldTransformComponent.Kind(), &wt); err != nil {
			log.Printf("transform: entity=%d: %v", e, err)
		}
	})
}

// Saturate clamps a raw influence signal to [0,1].
func Saturate(v float64) float64 {
	return clampF(v, 0, 1)
}

func compose(parent, local component.WorldTransform) component.WorldTransform {
	return component.WorldTransform{
		Location: parent.Location.Add(parent.Rotation.Rotate(local.Location)),
		Rotation: parent.Rotation.Mul(local.Rotation).Normalize(),
	}
}
