package main

import (
	"fmt"
	"image"
	"log"
	"math"
	"os"

	"github.com/ebitenui/ebitenui"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/travelcam/common"
	"github.com/milk9111/travelcam/ecs"
	"github.com/milk9111/travelcam/ecs/component"
	"github.com/milk9111/travelcam/prefabs"
	"github.com/milk9111/travelcam/rig"
	"github.com/milk9111/travelcam/scene"
	"golang.design/x/clipboard"
)

const (
	baseWidth  = 1280
	baseHeight = 720
	panelWidth = 300
	pickRadius = 12
)

var (
	topView    = image.Rect(0, 0, 490, baseHeight)
	cameraView = image.Rect(490, 0, baseWidth-panelWidth, baseHeight)
)

type Game struct {
	sceneName string
	onDisk    bool
	specName  string
	cfg       rig.Config

	scene   *scene.Scene
	session *rig.Session
	path    []mgl64.Vec3

	frame   float64
	playing bool
	fps     int

	ui        *ebitenui.UI
	panel     *TargetPanel
	watcher   *prefabs.Watcher
	clipboard bool
	status    string
}

func NewGame(sceneName string, cfg rig.Config, fps int, watch bool) (*Game, error) {
	if fps <= 0 {
		fps = 24
	}
	g := &Game{sceneName: sceneName, cfg: cfg, fps: fps, frame: 1}
	if err := g.load(); err != nil {
		return nil, err
	}

	if err := clipboard.Init(); err != nil {
		log.Printf("clipboard unavailable: %v", err)
	} else {
		g.clipboard = true
	}

	if watch {
		if !g.onDisk {
			log.Printf("watch: %s is embedded, nothing to watch", sceneName)
		} else if w, err := prefabs.NewWatcher(sceneName); err != nil {
			log.Printf("watch %s: %v", sceneName, err)
		} else {
			g.watcher = w
		}
	}

	g.ui, g.panel = BuildPanelUI(PanelActions{
		OnCommand:    g.run,
		OnCopyReport: g.copyReport,
		OnSave:       g.save,
	})
	g.refresh()
	return g, nil
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

// load (re)builds the scene and the rig session from sceneName.
func (g *Game) load() error {
	var (
		spec *prefabs.SceneSpec
		err  error
	)
	if _, statErr := os.Stat(g.sceneName); statErr == nil {
		g.onDisk = true
		spec, err = prefabs.ReadSceneFile(g.sceneName)
	} else {
		spec, err = prefabs.LoadSceneSpec(g.sceneName)
	}
	if err != nil {
		return err
	}
	s, err := scene.FromSpec(spec)
	if err != nil {
		return fmt.Errorf("%s: %w", g.sceneName, err)
	}
	session, err := rig.NewSession(s, g.cfg)
	if err != nil {
		return fmt.Errorf("%s: %w", g.sceneName, err)
	}
	g.scene, g.session, g.specName = s, session, spec.Name
	if spec.Frame != 0 {
		g.frame = spec.Frame
	}
	return nil
}

func (g *Game) run(cmd rig.Command) {
	if err := g.session.Execute(cmd); err != nil {
		g.status = err.Error()
		log.Printf("%s: %v", cmd, err)
	} else {
		g.status = cmd.String()
	}
}

// refresh re-evaluates the scene, resamples the camera path and pushes the
// rig state into the panel. Update calls it whenever the scene reports an
// edit.
func (g *Game) refresh() {
	g.path = g.path[:0]
	if r := g.session.Rig(); r != nil {
		if first, last, ok := r.Schedule().FrameRange(); ok {
			for f := math.Floor(first); f <= math.Ceil(last); f++ {
				g.scene.Evaluate(f)
				g.path = append(g.path, g.scene.WorldLocation(r.Camera()))
			}
		}
	}
	g.scene.Evaluate(g.frame)
	if g.panel != nil {
		g.panel.SetSummary(g.session.Summary())
	}
}

func (g *Game) copyReport() {
	report := g.session.Summary().Report()
	if !g.clipboard {
		g.status = "clipboard unavailable"
		fmt.Print(report)
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(report))
	g.status = "report copied"
}

func (g *Game) save() {
	if !g.onDisk {
		g.status = "embedded scene, run with a scene file to save"
		return
	}
	if err := g.scene.Save(g.sceneName, g.specName); err != nil {
		g.status = err.Error()
		return
	}
	g.status = "saved " + g.sceneName
}

func (g *Game) Update() error {
	g.pollWatcher()
	g.ui.Update()
	g.handleInput()
	if g.scene.Changed() {
		g.refresh()
	}

	if g.playing {
		g.frame += float64(g.fps) / float64(ebiten.TPS())
		if r := g.session.Rig(); r != nil {
			if first, last, ok := r.Schedule().FrameRange(); ok && g.frame > last {
				g.frame = first
			}
		}
		g.scene.Evaluate(g.frame)
	}
	g.panel.SetStatus(g.frame, g.travel(), g.playing, g.status)
	return nil
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	select {
	case changed, ok := <-g.watcher.Events:
		if !ok {
			g.watcher = nil
			return
		}
		if err := g.load(); err != nil {
			g.status = err.Error()
			log.Printf("reload %s: %v", changed, err)
			return
		}
		g.status = "reloaded " + changed
		g.refresh()
	case err, ok := <-g.watcher.Errors:
		if ok {
			log.Printf("watch: %v", err)
		}
	default:
	}
}

func (g *Game) handleInput() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.playing = !g.playing
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowRight):
		g.step(1)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft):
		g.step(-1)
	case inpututil.IsKeyJustPressed(ebiten.KeyHome):
		g.frame = 1
		if r := g.session.Rig(); r != nil {
			if first, _, ok := r.Schedule().FrameRange(); ok {
				g.frame = first
			}
		}
		g.scene.Evaluate(g.frame)
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		g.copyReport()
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		if image.Pt(x, y).In(topView) {
			additive := ebiten.IsKeyPressed(ebiten.KeyShift)
			g.pick(float32(x), float32(y), additive)
		}
	}
}

func (g *Game) step(frames float64) {
	g.playing = false
	g.frame = math.Round(g.frame) + frames
	if r := g.session.Rig(); r != nil {
		if first, last, ok := r.Schedule().FrameRange(); ok {
			g.frame = common.Clamp(g.frame, first, last)
		}
	}
	g.scene.Evaluate(g.frame)
}

// pick selects the visible object nearest the cursor in the top view.
// Shift adds to the selection in click order.
func (g *Game) pick(x, y float32, additive bool) {
	vp := g.topViewport()
	best, bestDist := ecs.Entity(0), float32(pickRadius)
	for _, obj := range g.scene.Objects() {
		if !g.pickable(obj) {
			continue
		}
		sx, sy := vp.ToScreen(g.scene.WorldLocation(obj))
		if d := float32(math.Hypot(float64(sx-x), float64(sy-y))); d < bestDist {
			best, bestDist = obj, d
		}
	}
	if best == 0 {
		if !additive {
			g.scene.Select()
		}
		return
	}
	sel := []ecs.Entity{best}
	if additive {
		sel = append(g.scene.Selection(), best)
	}
	g.scene.Select(sel...)
	if err := g.scene.SetActive(best); err != nil {
		log.Printf("pick: %v", err)
	}
	g.status = "selected " + g.scene.Name(best)
}

func (g *Game) pickable(obj ecs.Entity) bool {
	return !g.scene.Hidden(obj) && g.scene.Kind(obj) != component.KindCamera
}

func (g *Game) travel() float64 {
	if r := g.session.Rig(); r != nil {
		return r.Travel()
	}
	return 0
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.drawTopView(screen)
	g.drawCameraView(screen)
	g.ui.Draw(screen)
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
