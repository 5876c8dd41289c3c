package common

import (
	"image"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
)

// SensorWidth is the film back, in millimetres, lens values refer to.
const SensorWidth = 36.0

// Viewport maps the XY plane of the scene onto a screen rectangle, looking
// down the Z axis. Screen Y grows downwards.
type Viewport struct {
	World  cp.BB
	Screen image.Rectangle
	scale  float64
}

// FitViewport frames points with margin world units around them. An empty
// or degenerate set is framed as a 2x2 square around its centre.
func FitViewport(points []mgl64.Vec3, margin float64, screen image.Rectangle) Viewport {
	bb := cp.BB{L: -1, B: -1, R: 1, T: 1}
	for i, p := range points {
		v := cp.Vector{X: p[0], Y: p[1]}
		if i == 0 {
			bb = cp.BB{L: v.X, B: v.Y, R: v.X, T: v.Y}
			continue
		}
		bb = bb.Expand(v)
	}
	if bb.R-bb.L < 1e-9 && bb.T-bb.B < 1e-9 {
		c := bb.Center()
		bb = cp.BB{L: c.X - 1, B: c.Y - 1, R: c.X + 1, T: c.Y + 1}
	}
	bb = cp.BB{L: bb.L - margin, B: bb.B - margin, R: bb.R + margin, T: bb.T + margin}

	w, h := bb.R-bb.L, bb.T-bb.B
	scale := math.Inf(1)
	if w > 0 {
		scale = float64(screen.Dx()) / w
	}
	if h > 0 {
		scale = math.Min(scale, float64(screen.Dy())/h)
	}
	if math.IsInf(scale, 0) || scale <= 0 {
		scale = 1
	}
	return Viewport{World: bb, Screen: screen, scale: scale}
}

func (v Viewport) Scale() float64 {
	return v.scale
}

// ToScreen maps a world point to pixels. The framed box is centred on the
// screen rectangle.
func (v Viewport) ToScreen(p mgl64.Vec3) (float32, float32) {
	c := v.World.Center()
	sx := float64(v.Screen.Min.X+v.Screen.Max.X)/2 + (p[0]-c.X)*v.scale
	sy := float64(v.Screen.Min.Y+v.Screen.Max.Y)/2 - (p[1]-c.Y)*v.scale
	return float32(sx), float32(sy)
}

// LensCamera projects world points through a camera that looks down its
// local -Z axis with +Y up.
type LensCamera struct {
	Location mgl64.Vec3
	Rotation mgl64.Quat
	Lens     float64
	Screen   image.Rectangle
	view     mgl64.Mat4
	proj     mgl64.Mat4
}

func NewLensCamera(loc mgl64.Vec3, rot mgl64.Quat, lens float64, screen image.Rectangle) LensCamera {
	if lens <= 0 {
		lens = 50
	}
	aspect := float64(screen.Dx()) / math.Max(1, float64(screen.Dy()))
	fovx := 2 * math.Atan(SensorWidth/(2*lens))
	fovy := 2 * math.Atan(math.Tan(fovx/2)/aspect)
	if aspect < 1 {
		fovy = fovx
	}

	view := rot.Normalize().Conjugate().Mat4().Mul4(mgl64.Translate3D(-loc[0], -loc[1], -loc[2]))
	return LensCamera{
		Location: loc,
		Rotation: rot,
		Lens:     lens,
		Screen:   screen,
		view:     view,
		proj:     mgl64.Perspective(fovy, aspect, 0.01, 1000),
	}
}

// Project returns the pixel position of p, or false when p is behind the
// camera.
func (c LensCamera) Project(p mgl64.Vec3) (float32, float32, bool) {
	clip := c.proj.Mul4(c.view).Mul4x1(p.Vec4(1))
	if clip[3] <= 1e-9 {
		return 0, 0, false
	}
	ndc := clip.Vec3().Mul(1 / clip[3])
	w, h := float64(c.Screen.Dx()), float64(c.Screen.Dy())
	sx := float64(c.Screen.Min.X) + (ndc[0]+1)/2*w
	sy := float64(c.Screen.Min.Y) + (1-ndc[1])/2*h
	return float32(sx), float32(sy), true
}

// NearestEdges pairs up vertices that sit at the smallest spacing found in
// the set, which draws a cube as its twelve edges and a column of points
// as a polyline.
func NearestEdges(vertices []mgl64.Vec3) [][2]int {
	best := math.Inf(1)
	for i := range vertices {
		for j := i + 1; j < len(vertices); j++ {
			if d := vertices[i].Sub(vertices[j]).Len(); d > 1e-9 && d < best {
				best = d
			}
		}
	}
	if math.IsInf(best, 1) {
		return nil
	}
	var edges [][2]int
	for i := range vertices {
		for j := i + 1; j < len(vertices); j++ {
			if d := vertices[i].Sub(vertices[j]).Len(); math.Abs(d-best) < 1e-6*math.Max(1, best) {
				edges = append(edges, [2]int{i, j})
			}
		}
	}
	return edges
}
