package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/travelcam/config"
	"github.com/milk9111/travelcam/rig"
)

func main() {
	env, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	sceneName := flag.String("scene", env.Scene, "scene file, or an embedded scene such as scenes/three_targets.yaml")
	watch := flag.Bool("watch", env.Watch, "reload the scene file when it changes on disk")
	fps := flag.Int("fps", env.FPS, "playback frames per second")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	base, err := rig.LoadConfig()
	if err != nil {
		log.Printf("rig.yaml: %v (using defaults)", err)
	}

	game, err := NewGame(*sceneName, env.ApplyRig(base), *fps, *watch)
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("travelcam")

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
