package main

import (
	"fmt"
	"image"
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/travelcam/common"
	"github.com/milk9111/travelcam/ecs"
	"github.com/milk9111/travelcam/ecs/component"
	"golang.org/x/image/colornames"
)

var defaultMeshColor = color.NRGBA{R: 0xb0, G: 0xb0, B: 0xb0, A: 0xff}

func (g *Game) meshColor(obj ecs.Entity) color.Color {
	if c, ok := g.scene.Color(obj); ok {
		return c
	}
	return defaultMeshColor
}

// worldVertices returns the geometry of obj in world space, or its origin
// when it has none.
func (g *Game) worldVertices(obj ecs.Entity) []mgl64.Vec3 {
	wt, _ := g.scene.WorldTransform(obj)
	local := g.scene.Geometry(obj)
	if len(local) == 0 {
		return []mgl64.Vec3{wt.Location}
	}
	out := make([]mgl64.Vec3, len(local))
	for i, v := range local {
		out[i] = wt.Rotation.Rotate(v).Add(wt.Location)
	}
	return out
}

func (g *Game) topViewport() common.Viewport {
	var points []mgl64.Vec3
	for _, obj := range g.scene.Objects() {
		if g.scene.Hidden(obj) {
			continue
		}
		points = append(points, g.worldVertices(obj)...)
	}
	points = append(points, g.path...)
	return common.FitViewport(points, 1, topView.Inset(16))
}

func (g *Game) drawTopView(screen *ebiten.Image) {
	sub := screen.SubImage(topView).(*ebiten.Image)
	sub.Fill(slate)
	vp := g.topViewport()

	selected := map[ecs.Entity]bool{}
	for _, e := range g.scene.Selection() {
		selected[e] = true
	}
	targets := map[ecs.Entity]int{}
	if r := g.session.Rig(); r != nil {
		for i, e := range r.Targets() {
			targets[e] = i
		}
	}

	for i := 1; i < len(g.path); i++ {
		x0, y0 := vp.ToScreen(g.path[i-1])
		x1, y1 := vp.ToScreen(g.path[i])
		vector.StrokeLine(sub, x0, y0, x1, y1, 1, amber, true)
	}

	for _, obj := range g.scene.Objects() {
		if g.scene.Hidden(obj) {
			continue
		}
		switch g.scene.Kind(obj) {
		case component.KindCamera:
			g.drawCameraMarker(sub, vp, obj)
			continue
		case component.KindEmpty:
			x, y := vp.ToScreen(g.scene.WorldLocation(obj))
			vector.StrokeLine(sub, x-4, y, x+4, y, 1, colornames.Lightgrey, true)
			vector.StrokeLine(sub, x, y-4, x, y+4, 1, colornames.Lightgrey, true)
			continue
		}

		clr := g.meshColor(obj)
		verts := g.worldVertices(obj)
		for _, e := range common.NearestEdges(verts) {
			x0, y0 := vp.ToScreen(verts[e[0]])
			x1, y1 := vp.ToScreen(verts[e[1]])
			vector.StrokeLine(sub, x0, y0, x1, y1, 1, clr, true)
		}
		x, y := vp.ToScreen(g.scene.WorldLocation(obj))
		radius := float32(3)
		if selected[obj] {
			radius = 5
			vector.StrokeCircle(sub, x, y, pickRadius, 1, colornames.Yellow, true)
		}
		vector.FillCircle(sub, x, y, radius, clr, true)

		label := g.scene.Name(obj)
		if i, ok := targets[obj]; ok {
			label = fmt.Sprintf("%d %s", i, label)
		}
		ebitenutil.DebugPrintAt(sub, label, int(x)+6, int(y)-16)
	}

	ebitenutil.DebugPrintAt(sub, "top", topView.Min.X+6, topView.Min.Y+4)
}

func (g *Game) drawCameraMarker(dst *ebiten.Image, vp common.Viewport, cam ecs.Entity) {
	wt, _ := g.scene.WorldTransform(cam)
	x, y := vp.ToScreen(wt.Location)
	up := wt.Rotation.Rotate(mgl64.Vec3{0, 1, 0})
	hx, hy := vp.ToScreen(wt.Location.Add(up))
	vector.StrokeLine(dst, x, y, hx, hy, 2, colornames.Deepskyblue, true)
	vector.FillCircle(dst, x, y, 5, colornames.Deepskyblue, true)
	ebitenutil.DebugPrintAt(dst, g.scene.Name(cam), int(x)+6, int(y)+4)
}

func (g *Game) drawCameraView(screen *ebiten.Image) {
	sub := screen.SubImage(cameraView).(*ebiten.Image)
	sub.Fill(slateDeep)
	vector.StrokeLine(sub, float32(cameraView.Min.X), 0, float32(cameraView.Min.X), baseHeight, 1, colornames.Dimgray, false)

	r := g.session.Rig()
	if r == nil || !g.scene.Alive(r.Camera()) {
		ebitenutil.DebugPrintAt(sub, "no target camera", cameraView.Min.X+6, cameraView.Min.Y+4)
		return
	}
	wt, _ := g.scene.WorldTransform(r.Camera())
	frame := image.Rect(cameraView.Min.X+10, cameraView.Min.Y+40, cameraView.Max.X-10, cameraView.Min.Y+40+(cameraView.Dx()-20)*9/16)
	cam := common.NewLensCamera(wt.Location, wt.Rotation, g.scene.Lens(r.Camera()), frame)

	for _, obj := range g.scene.Objects() {
		if g.scene.Hidden(obj) || g.scene.Kind(obj) != component.KindMesh {
			continue
		}
		clr := g.meshColor(obj)
		verts := g.worldVertices(obj)
		for _, e := range common.NearestEdges(verts) {
			x0, y0, ok0 := cam.Project(verts[e[0]])
			x1, y1, ok1 := cam.Project(verts[e[1]])
			if ok0 && ok1 {
				vector.StrokeLine(sub, x0, y0, x1, y1, 1, clr, true)
			}
		}
	}
	vector.StrokeRect(sub, float32(frame.Min.X), float32(frame.Min.Y), float32(frame.Dx()), float32(frame.Dy()), 1, colornames.Dimgray, false)

	ebitenutil.DebugPrintAt(sub, fmt.Sprintf("%s  %gmm", g.scene.Name(r.Camera()), cam.Lens), cameraView.Min.X+6, cameraView.Min.Y+4)
	ebitenutil.DebugPrintAt(sub, fmt.Sprintf("frame %.1f", g.frame), cameraView.Min.X+6, cameraView.Min.Y+20)
	g.drawTravelBar(sub, r.Travel(), len(r.Targets()), frame.Max.Y+20)
}

// drawTravelBar marks each target's keyframe along a bar and the current
// travel value between them.
func (g *Game) drawTravelBar(dst *ebiten.Image, travel float64, n, y int) {
	if n == 0 {
		return
	}
	left, right := float64(cameraView.Min.X+20), float64(cameraView.Max.X-20)
	fy := float32(y)
	vector.StrokeLine(dst, float32(left), fy, float32(right), fy, 2, colornames.Dimgray, false)
	pos := func(v float64) float32 {
		if n == 1 {
			return float32(left)
		}
		return float32(common.Lerp(left, right, (v-1)/float64(n-1)))
	}
	for i := 0; i < n; i++ {
		x := pos(float64(i + 1))
		vector.StrokeLine(dst, x, fy-6, x, fy+6, 1, colornames.Lightgrey, false)
		ebitenutil.DebugPrintAt(dst, fmt.Sprint(i), int(x)-3, y+8)
	}
	t := common.Clamp(travel, 1, float64(max(n, 1)))
	vector.FillCircle(dst, pos(t), fy, 5, colornames.Darkorange, true)
}
