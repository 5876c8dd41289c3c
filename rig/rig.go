// Package rig builds and maintains a target camera rig: a camera parented
// to a movement anchor whose constraint stack cross-fades between an
// ordered list of targets as the anchor's travel value sweeps over them.
//
// The explicit target list held by a Rig is the source of truth. The
// anchor's constraints, drivers and travel keyframes are a view generated
// from it by Rebuild.
package rig

import (
	"fmt"
	"log"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/travelcam/ecs"
	"github.com/milk9111/travelcam/ecs/component"
)

type Rig struct {
	host    Host
	cfg     Config
	camera  ecs.Entity
	anchor  ecs.Entity
	targets []ecs.Entity
}

// Insert creates the camera and its movement anchor, then registers the
// current selection as the initial targets. It fails with ErrRigExists
// when the host already holds a marked camera. A failed Insert removes
// what it created and restores the selection.
func Insert(host Host, cfg Config) (_ *Rig, err error) {
	cameras := findCameras(host)
	if len(cameras) > 0 {
		return nil, fmt.Errorf("%w: %q", ErrRigExists, host.Name(cameras[0]))
	}

	selection := host.Selection()
	var (
		r       *Rig
		created []ecs.Entity
	)
	defer func() {
		if err != nil {
			rollback(host, r, selection, created)
		}
	}()

	camera, err := newCamera(host, cfg)
	if camera != 0 {
		created = append(created, camera)
	}
	if err != nil {
		return nil, err
	}
	anchor, err := newAnchor(host, cfg)
	if anchor != 0 {
		created = append(created, anchor)
	}
	if err != nil {
		return nil, err
	}

	if err := host.SetParent(camera, anchor); err != nil {
		return nil, fmt.Errorf("rig: parent camera: %w", err)
	}
	if err := host.SetLocation(camera, mgl64.Vec3{0, 0, cfg.CameraHeight}); err != nil {
		return nil, fmt.Errorf("rig: place camera: %w", err)
	}
	if err := host.SetActive(camera); err != nil {
		return nil, fmt.Errorf("rig: activate camera: %w", err)
	}
	if err := host.SetFocus(camera, anchor); err != nil {
		return nil, fmt.Errorf("rig: focus camera: %w", err)
	}

	r = &Rig{host: host, cfg: cfg, camera: camera, anchor: anchor}

	host.Select(selection...)
	if err := r.RegisterTargets(selection...); err != nil {
		return nil, err
	}

	if err := host.SetHidden(anchor, true); err != nil {
		return nil, fmt.Errorf("rig: hide anchor: %w", err)
	}
	log.Printf("rig: inserted %q with %d targets", host.Name(camera), len(r.targets))
	return r, nil
}

func rollback(host Host, r *Rig, selection, created []ecs.Entity) {
	if r != nil {
		if err := r.cleanup(); err != nil {
			log.Printf("rig: rollback: %v", err)
		}
	}
	for _, obj := range created {
		if !host.Alive(obj) {
			continue
		}
		if err := host.DeleteObject(obj); err != nil {
			log.Printf("rig: rollback %q: %v", host.Name(obj), err)
		}
	}
	host.Select(selection...)
}

// Open attaches to the rig already present in host and seeds the target
// list from the anchor's constraint stack.
func Open(host Host, cfg Config) (*Rig, error) {
	cameras := findCameras(host)
	switch len(cameras) {
	case 0:
		return nil, ErrNoRig
	case 1:
	default:
		return nil, fmt.Errorf("%w: %d cameras", ErrAmbiguousRig, len(cameras))
	}
	camera := cameras[0]
	anchor, ok := host.Parent(camera)
	if !ok || !host.Alive(anchor) {
		return nil, fmt.Errorf("%w: %q", ErrNoAnchor, host.Name(camera))
	}
	r := &Rig{host: host, cfg: cfg, camera: camera, anchor: anchor}
	r.targets = r.DeriveTargetList()
	return r, nil
}

// Exists reports whether host holds a marked camera.
func Exists(host Host) bool {
	return len(findCameras(host)) > 0
}

func findCameras(host Host) []ecs.Entity {
	var out []ecs.Entity
	for _, obj := range host.Objects() {
		if v, ok := host.Property(obj, CameraRigProperty); ok && v == TargetCameraType {
			out = append(out, obj)
		}
	}
	return out
}

// newCamera and newAnchor hand back the created object even when a later
// step fails, so Insert can remove it.
func newCamera(host Host, cfg Config) (ecs.Entity, error) {
	camera, err := host.CreateObject(cfg.CameraName, component.KindCamera)
	if err != nil {
		return 0, fmt.Errorf("rig: create camera: %w", err)
	}
	if err := host.SetRotation(camera, mgl64.QuatIdent()); err != nil {
		return camera, fmt.Errorf("rig: create camera: %w", err)
	}
	if err := host.SetProperty(camera, CameraRigProperty, TargetCameraType); err != nil {
		return camera, fmt.Errorf("rig: mark camera: %w", err)
	}
	if cfg.Lens > 0 {
		if err := host.SetLens(camera, cfg.Lens); err != nil {
			return camera, fmt.Errorf("rig: camera lens: %w", err)
		}
	}
	return camera, nil
}

func newAnchor(host Host, cfg Config) (ecs.Entity, error) {
	anchor, err := host.CreateObject(cfg.AnchorName, component.KindEmpty)
	if err != nil {
		return 0, fmt.Errorf("rig: create anchor: %w", err)
	}
	zero := 0.0
	if err := host.SetPropertyBounds(anchor, TravelProperty, component.Bounds{Min: &zero}); err != nil {
		return anchor, fmt.Errorf("rig: travel bounds: %w", err)
	}
	if err := host.SetProperty(anchor, TravelProperty, 0.0); err != nil {
		return anchor, fmt.Errorf("rig: travel: %w", err)
	}
	return anchor, nil
}

func (r *Rig) Camera() ecs.Entity {
	return r.camera
}

func (r *Rig) Anchor() ecs.Entity {
	return r.anchor
}

func (r *Rig) Config() Config {
	return r.cfg
}

// Targets returns a copy of the ordered target list.
func (r *Rig) Targets() []ecs.Entity {
	if len(r.targets) == 0 {
		return nil
	}
	out := make([]ecs.Entity, len(r.targets))
	copy(out, r.targets)
	return out
}

// TargetNames returns the host names of the targets in order.
func (r *Rig) TargetNames() []string {
	out := make([]string, 0, len(r.targets))
	for _, t := range r.targets {
		out = append(out, r.host.Name(t))
	}
	return out
}

// Schedule compiles the schedule of the current target list.
func (r *Rig) Schedule() Schedule {
	return Compile(len(r.targets), r.cfg)
}

// Travel returns the anchor's current travel value.
func (r *Rig) Travel() float64 {
	v, ok := r.host.Property(r.anchor, TravelProperty)
	if !ok {
		return 0
	}
	f, _ := v.(float64)
	return f
}

// SetTravel writes the anchor's travel value. Keyframes overwrite it on
// the next evaluation of an animated frame.
func (r *Rig) SetTravel(v float64) error {
	if err := r.host.SetProperty(r.anchor, TravelProperty, v); err != nil {
		return fmt.Errorf("rig: set travel: %w", err)
	}
	return nil
}

// SelectCamera makes the camera the only selected and the active object.
func (r *Rig) SelectCamera() error {
	r.host.Select(r.camera)
	if err := r.host.SetActive(r.camera); err != nil {
		return fmt.Errorf("rig: select camera: %w", err)
	}
	return nil
}

// DeriveTargetList reads the target order back from the anchor's
// constraint stack: each constraint's anchor point resolves to its parent,
// first occurrence wins.
func (r *Rig) DeriveTargetList() []ecs.Entity {
	var out []ecs.Entity
	seen := map[ecs.Entity]bool{}
	for _, c := range r.host.Constraints(r.anchor) {
		point := ecs.Entity(c.Target)
		if !r.host.Alive(point) {
			continue
		}
		parent, ok := r.host.Parent(point)
		if !ok || seen[parent] {
			continue
		}
		seen[parent] = true
		out = append(out, parent)
	}
	return out
}
