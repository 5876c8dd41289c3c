// Package bake samples the evaluated camera path of a rigged scene frame by
// frame. Frame ranges are split across workers, each evaluating its own
// copy of the scene.
package bake

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"runtime"

	"github.com/milk9111/travelcam/prefabs"
	"github.com/milk9111/travelcam/rig"
	"github.com/milk9111/travelcam/scene"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

var ErrEmptyRange = errors.New("bake: empty frame range")

type Options struct {
	// Start and End are inclusive. Both zero means the rig's keyframe
	// range.
	Start   int
	End     int
	Workers int
	Config  rig.Config
}

// Sample is the camera's world state at one frame.
type Sample struct {
	Frame    int        `yaml:"frame"`
	Travel   float64    `yaml:"travel"`
	Location [3]float64 `yaml:"location,flow"`
	Rotation [4]float64 `yaml:"rotation,flow"`
	Target   string     `yaml:"target,omitempty"`
}

type Result struct {
	Scene   string   `yaml:"scene"`
	Camera  string   `yaml:"camera"`
	Targets []string `yaml:"targets"`
	Start   int      `yaml:"start"`
	End     int      `yaml:"end"`
	Samples []Sample `yaml:"samples"`
}

// Bake evaluates every frame of the range. Workers never share a scene, so
// the samples equal a single-worker bake.
func Bake(ctx context.Context, spec *prefabs.SceneSpec, opts Options) (*Result, error) {
	ref, err := scene.FromSpec(spec)
	if err != nil {
		return nil, fmt.Errorf("bake: load: %w", err)
	}
	r, err := rig.Open(ref, opts.Config)
	if err != nil {
		return nil, fmt.Errorf("bake: %w", err)
	}

	start, end := opts.Start, opts.End
	if start == 0 && end == 0 {
		first, last, ok := r.Schedule().FrameRange()
		if !ok {
			return nil, ErrEmptyRange
		}
		start, end = int(math.Floor(first)), int(math.Ceil(last))
	}
	if end < start {
		return nil, fmt.Errorf("%w: %d..%d", ErrEmptyRange, start, end)
	}

	res := &Result{
		Scene:   spec.Name,
		Camera:  ref.Name(r.Camera()),
		Targets: r.TargetNames(),
		Start:   start,
		End:     end,
		Samples: make([]Sample, end-start+1),
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(res.Samples) {
		workers = len(res.Samples)
	}
	chunk := (len(res.Samples) + workers - 1) / workers

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := min(lo+chunk, len(res.Samples))
		if lo >= hi {
			break
		}
		g.Go(func() error {
			return bakeRange(ctx, spec, opts.Config, start, res.Samples[lo:hi], lo)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	log.Printf("bake: %s frames %d..%d with %d workers", res.Camera, start, end, workers)
	return res, nil
}

// bakeRange fills out with the frames start+offset onwards.
func bakeRange(ctx context.Context, spec *prefabs.SceneSpec, cfg rig.Config, start int, out []Sample, offset int) error {
	s, err := scene.FromSpec(spec)
	if err != nil {
		return fmt.Errorf("bake: load: %w", err)
	}
	r, err := rig.Open(s, cfg)
	if err != nil {
		return fmt.Errorf("bake: %w", err)
	}
	targets := r.TargetNames()

	for i := range out {
		if err := ctx.Err(); err != nil {
			return err
		}
		frame := start + offset + i
		s.Evaluate(float64(frame))
		wt, ok := s.WorldTransform(r.Camera())
		if !ok {
			return fmt.Errorf("bake: frame %d: camera not evaluated", frame)
		}
		travel := r.Travel()
		out[i] = Sample{
			Frame:    frame,
			Travel:   travel,
			Location: [3]float64(wt.Location),
			Rotation: [4]float64{wt.Rotation.W, wt.Rotation.V[0], wt.Rotation.V[1], wt.Rotation.V[2]},
			Target:   nearestTarget(targets, travel),
		}
	}
	return nil
}

// nearestTarget names the target whose index travel is closest to.
func nearestTarget(targets []string, travel float64) string {
	if len(targets) == 0 {
		return ""
	}
	i := int(math.Round(travel)) - 1
	i = max(0, min(i, len(targets)-1))
	return targets[i]
}

// WriteYAML encodes the result.
func (r *Result) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("bake: encode: %w", err)
	}
	return enc.Close()
}
