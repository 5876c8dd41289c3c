package component

import "sort"

// Interpolation is the segment mode leaving a keyframe.
type Interpolation string

const (
	InterpolationBezier   Interpolation = "BEZIER"
	InterpolationLinear   Interpolation = "LINEAR"
	InterpolationConstant Interpolation = "CONSTANT"
)

// Handle is a Bezier control point in (frame, value) space.
type Handle struct {
	Frame float64
	Value float64
}

type Keyframe struct {
	Frame         float64
	Value         float64
	Interpolation Interpolation
	HandleLeft    Handle
	HandleRight   Handle
}

// FCurve animates the property at Path. Keyframes stay sorted by frame.
type FCurve struct {
	Path      string
	Keyframes []Keyframe
}

// Insert adds a keyframe or replaces the value of one on the same frame.
// New keys get handles on the key itself, which evaluates as linear until
// eased.
func (c *FCurve) Insert(frame, value float64) {
	for i := range c.Keyframes {
		if c.Keyframes[i].Frame == frame {
			c.Keyframes[i].Value = value
			c.Keyframes[i].HandleLeft = Handle{Frame: frame, Value: value}
			c.Keyframes[i].HandleRight = Handle{Frame: frame, Value: value}
			return
		}
	}
	c.Keyframes = append(c.Keyframes, Keyframe{
		Frame:         frame,
		Value:         value,
		Interpolation: InterpolationBezier,
		HandleLeft:    Handle{Frame: frame, Value: value},
		HandleRight:   Handle{Frame: frame, Value: value},
	})
	sort.SliceStable(c.Keyframes, func(i, j int) bool { return c.Keyframes[i].Frame < c.Keyframes[j].Frame })
}

// Animation holds every curve of one object.
type Animation struct {
	Curves []FCurve
}

// Curve returns the curve for path, creating it when create is set.
func (a *Animation) Curve(path string, create bool) *FCurve {
	if a == nil {
		return nil
	}
	for i := range a.Curves {
		if a.Curves[i].Path == path {
			return &a.Curves[i]
		}
	}
	if !create {
		return nil
	}
	a.Curves = append(a.Curves, FCurve{Path: path})
	return &a.Curves[len(a.Curves)-1]
}

// RemoveCurve drops the curve for path.
func (a *Animation) RemoveCurve(path string) bool {
	if a == nil {
		return false
	}
	for i := range a.Curves {
		if a.Curves[i].Path == path {
			a.Curves = append(a.Curves[:i], a.Curves[i+1:]...)
			return true
		}
	}
	return false
}

var AnimationComponent = NewComponent[Animation]()
