package system

import (
	"log"

	"github.com/milk9111/travelcam/ecs"
	"github.com/milk9111/travelcam/ecs/component"
)

// AnimationSystem writes every animated property at the current frame.
type AnimationSystem struct {
	frame float64
}

func NewAnimationSystem() *AnimationSystem {
	return &AnimationSystem{frame: 1}
}

func (a *AnimationSystem) SetFrame(frame float64) {
	if a == nil {
		return
	}
	a.frame = frame
}

func (a *AnimationSystem) Frame() float64 {
	if a == nil {
		return 0
	}
	return a.frame
}

func (a *AnimationSystem) Update(w *ecs.World) {
	if a == nil || w == nil {
		return
	}
	ecs.ForEach(w, component.AnimationComponent.Kind(), func(e ecs.Entity, anim *component.Animation) {
		for i := range anim.Curves {
			curve := &anim.Curves[i]
			if len(curve.Keyframes) == 0 {
				continue
			}
			if err := WritePath(w, e, curve.Path, EvaluateCurve(curve, a.frame)); err != nil {
				log.Printf("animation: entity=%d curve %s: %v", e, curve.Path, err)
			}
		}
	})
}

// EvaluateCurve samples c at frame. Values before the first and after the
// last keyframe hold constant.
func EvaluateCurve(c *component.FCurve, frame float64) float64 {
	if c == nil || len(c.Keyframes) == 0 {
		return 0
	}
	keys := c.Keyframes
	if frame <= keys[0].Frame {
		return keys[0].Value
	}
	last := keys[len(keys)-1]
	if frame >= last.Frame {
		return last.Value
	}

	i := 0
	for i < len(keys)-2 && frame >= keys[i+1].Frame {
		i++
	}
	k0, k1 := keys[i], keys[i+1]

	switch k0.Interpolation {
	case component.InterpolationConstant:
		return k0.Value
	case component.InterpolationLinear:
		t := (frame - k0.Frame) / (k1.Frame - k0.Frame)
		return lerp(k0.Value, k1.Value, t)
	}

	x0, x1, x2, x3 := k0.Frame, clampF(k0.HandleRight.Frame, k0.Frame, k1.Frame), clampF(k1.HandleLeft.Frame, k0.Frame, k1.Frame), k1.Frame
	y0, y1, y2, y3 := k0.Value, k0.HandleRight.Value, k1.HandleLeft.Value, k1.Value

	// x(t) is monotonic once handles are kept inside the segment.
	lo, hi := 0.0, 1.0
	t := 0.5
	for iter := 0; iter < 64; iter++ {
		t = (lo + hi) / 2
		if bezier(x0, x1, x2, x3, t) < frame {
			lo = t
		} else {
			hi = t
		}
	}
	return bezier(y0, y1, y2, y3, t)
}

func bezier(p0, p1, p2, p3, t float64) float64 {
	u := 1 - t
	return u*u*u*p0 + 3*u*u*t*p1 + 3*u*t*t*p2 + t*t*t*p3
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
