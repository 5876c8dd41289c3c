package component

import "github.com/go-gl/mathgl/mgl64"

// Geometry is the object-space vertex cloud of a mesh.
type Geometry struct {
	Vertices []mgl64.Vec3
}

// Median returns the mean of the vertices.
func (g *Geometry) Median() (mgl64.Vec3, bool) {
	if g == nil || len(g.Vertices) == 0 {
		return mgl64.Vec3{}, false
	}
	var sum mgl64.Vec3
	for _, v := range g.Vertices {
		sum = sum.Add(v)
	}
	return sum.Mul(1 / float64(len(g.Vertices))), true
}

var GeometryComponent = NewComponent[Geometry]()
