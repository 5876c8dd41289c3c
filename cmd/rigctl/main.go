// Command rigctl runs travel-rig commands against a scene file.
//
//	rigctl -scene shot.yaml add-rig add-targets recalculate
//	rigctl -scene shot.yaml move-up:2 recalculate -bake path.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/milk9111/travelcam/bake"
	"github.com/milk9111/travelcam/config"
	"github.com/milk9111/travelcam/prefabs"
	"github.com/milk9111/travelcam/rig"
	"github.com/milk9111/travelcam/scene"
)

func main() {
	env, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	sceneName := flag.String("scene", env.Scene, "scene file, or an embedded scene such as scenes/three_targets.yaml")
	out := flag.String("o", "", "write the scene here after running commands (default: the scene file itself when it is on disk)")
	dryRun := flag.Bool("n", false, "do not write the scene")
	bakeOut := flag.String("bake", "", "bake the camera path to this YAML file (- for stdout)")
	workers := flag.Int("workers", env.Workers, "bake workers (0 = GOMAXPROCS)")
	start := flag.Int("start", 0, "first baked frame (0 with -end 0 = keyframe range)")
	end := flag.Int("end", 0, "last baked frame")
	watch := flag.Bool("watch", env.Watch, "reprint the rig report whenever the scene file changes")
	list := flag.Bool("list", false, "list the embedded scenes and exit")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: rigctl [flags] [command ...]\n\ncommands: add-rig select-camera add-targets delete-target:N move-up:N move-down:N recalculate set-travel:V\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *list {
		for _, name := range prefabs.SceneNames() {
			fmt.Println(name)
		}
		return
	}

	base, err := rig.LoadConfig()
	if err != nil {
		log.Printf("rigctl: rig.yaml: %v (using defaults)", err)
	}
	cfg := env.ApplyRig(base)

	spec, onDisk, err := loadSpec(*sceneName)
	if err != nil {
		log.Fatal(err)
	}
	s, err := scene.FromSpec(spec)
	if err != nil {
		log.Fatalf("rigctl: %s: %v", *sceneName, err)
	}
	session, err := rig.NewSession(s, cfg)
	if err != nil {
		log.Fatalf("rigctl: %s: %v", *sceneName, err)
	}

	edited := false
	for _, arg := range flag.Args() {
		if err := session.ExecuteString(arg); err != nil {
			log.Fatalf("rigctl: %s: %v", arg, err)
		}
		if s.Changed() {
			edited = true
		} else {
			log.Printf("rigctl: %s: nothing changed", arg)
		}
	}
	fmt.Print(session.Summary().Report())

	dest := *out
	if dest == "" && onDisk && edited {
		dest = *sceneName
	}
	if dest != "" && !*dryRun {
		if err := s.Save(dest, spec.Name); err != nil {
			log.Fatal(err)
		}
		log.Printf("rigctl: wrote %s", dest)
	}

	if *bakeOut != "" {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		err := writeBake(ctx, s.Spec(spec.Name), bake.Options{
			Start:   *start,
			End:     *end,
			Workers: *workers,
			Config:  cfg,
		}, *bakeOut)
		stop()
		if err != nil {
			log.Fatal(err)
		}
	}

	if *watch {
		path := dest
		if path == "" && onDisk {
			path = *sceneName
		}
		if path == "" {
			log.Fatal("rigctl: -watch needs a scene file on disk")
		}
		if err := watchScene(path, cfg); err != nil {
			log.Fatal(err)
		}
	}
}

// loadSpec prefers a file on disk and falls back to the embedded scenes.
func loadSpec(name string) (*prefabs.SceneSpec, bool, error) {
	if _, err := os.Stat(name); err == nil {
		spec, err := prefabs.ReadSceneFile(name)
		return spec, true, err
	}
	spec, err := prefabs.LoadSceneSpec(name)
	if err != nil {
		return nil, false, fmt.Errorf("rigctl: no scene file or embedded scene %q: %w", name, err)
	}
	return spec, false, nil
}

func writeBake(ctx context.Context, spec *prefabs.SceneSpec, opts bake.Options, dest string) error {
	res, err := bake.Bake(ctx, spec, opts)
	if err != nil {
		return err
	}
	if dest == "-" {
		return res.WriteYAML(os.Stdout)
	}
	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("rigctl: bake: %w", err)
	}
	if err := res.WriteYAML(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Printf("rigctl: baked %d frames to %s", len(res.Samples), dest)
	return nil
}

func watchScene(path string, cfg rig.Config) error {
	w, err := prefabs.NewWatcher(path)
	if err != nil {
		return fmt.Errorf("rigctl: watch: %w", err)
	}
	defer w.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Printf("rigctl: watching %s", filepath.Clean(path))
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Printf("rigctl: watch: %v", err)
		case changed, ok := <-w.Events:
			if !ok {
				return nil
			}
			s, err := scene.Load(changed)
			if err != nil {
				log.Printf("rigctl: reload %s: %v", changed, err)
				continue
			}
			session, err := rig.NewSession(s, cfg)
			if err != nil {
				log.Printf("rigctl: reload %s: %v", changed, err)
				continue
			}
			fmt.Print(session.Summary().Report())
		}
	}
}
