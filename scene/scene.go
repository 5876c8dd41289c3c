// Package scene is an in-memory scene graph over an ecs world. It offers
// the object, hierarchy, selection, property, constraint, driver, keyframe
// and camera capabilities the rig consumes, and evaluates frames with the
// animation, driver and transform systems in that order.
package scene

import (
	"errors"
	"fmt"
	"image/color"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/travelcam/ecs"
	"github.com/milk9111/travelcam/ecs/component"
	"github.com/milk9111/travelcam/ecs/system"
)

var (
	ErrObjectNotFound = errors.New("scene: object not found")
	ErrParentCycle    = errors.New("scene: parent cycle")
	ErrNotCamera      = errors.New("scene: object is not a camera")
	ErrBadDataPath    = component.ErrBadDataPath
)

type Scene struct {
	world     *ecs.World
	scheduler *ecs.Scheduler
	animation *system.AnimationSystem
	drivers   *system.DriverSystem

	names     map[string]ecs.Entity
	selection []ecs.Entity
	active    ecs.Entity
}

func New() *Scene {
	s := &Scene{
		world:     ecs.NewWorld(),
		animation: system.NewAnimationSystem(),
		drivers:   system.NewDriverSystem(),
		names:     map[string]ecs.Entity{},
	}
	s.scheduler = ecs.NewScheduler(s.animation, s.drivers, system.NewTransformSystem())
	return s
}

// World exposes the backing world for systems outside the scene.
func (s *Scene) World() *ecs.World {
	return s.world
}

func (s *Scene) Events() *ecs.EventQueue {
	return s.world.Events()
}

// Changed drains the event queue and reports whether any object, link or
// property was edited since the last call. Evaluation never counts.
func (s *Scene) Changed() bool {
	return len(s.world.Events().Drain()) > 0
}

// CreateObject adds an object at the origin. A taken name gets the first
// free ".001" style suffix.
func (s *Scene) CreateObject(name string, kind component.ObjectKind) (ecs.Entity, error) {
	if name == "" {
		name = string(kind)
	}
	e := ecs.CreateEntity(s.world)
	unique := s.uniqueName(name)
	if err := ecs.Add(s.world, e, component.ObjectComponent.Kind(), &component.Object{Name: unique, Kind: kind}); err != nil {
		return 0, fmt.Errorf("scene: create %q: %w", name, err)
	}
	tr := component.IdentityTransform()
	if err := ecs.Add(s.world, e, component.TransformComponent.Kind(), &tr); err != nil {
		return 0, fmt.Errorf("scene: create %q: %w", name, err)
	}
	if kind == component.KindCamera {
		if err := ecs.Add(s.world, e, component.CameraComponent.Kind(), &component.Camera{Lens: component.DefaultLens}); err != nil {
			return 0, fmt.Errorf("scene: create %q: %w", name, err)
		}
	}
	s.names[unique] = e
	s.world.Events().Push(ecs.Event{Type: ecs.EventEntityCreated, Data: e})
	return e, nil
}

func (s *Scene) uniqueName(name string) string {
	if _, taken := s.names[name]; !taken {
		return name
	}
	base := name
	if i := strings.LastIndex(name, "."); i >= 0 && len(name)-i == 4 && isDigits(name[i+1:]) {
		base = name[:i]
	}
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s.%03d", base, n)
		if _, taken := s.names[candidate]; !taken {
			return candidate
		}
	}
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// DeleteObject removes obj. Its children stay where they are in the
// hierarchy's root.
func (s *Scene) DeleteObject(obj ecs.Entity) error {
	o, err := s.object(obj)
	if err != nil {
		return err
	}
	ecs.ForEach(s.world, component.ParentComponent.Kind(), func(child ecs.Entity, p *component.Parent) {
		if ecs.Entity(p.Entity) == obj {
			ecs.Remove(s.world, child, component.ParentComponent.Kind())
		}
	})
	delete(s.names, o.Name)
	s.deselect(obj)
	if s.active == obj {
		s.active = 0
	}
	ecs.DestroyEntity(s.world, obj)
	s.world.Events().Push(ecs.Event{Type: ecs.EventEntityDestroyed, Data: obj})
	return nil
}

func (s *Scene) Alive(obj ecs.Entity) bool {
	return ecs.IsAlive(s.world, obj) && ecs.Has(s.world, obj, component.ObjectComponent.Kind())
}

func (s *Scene) Name(obj ecs.Entity) string {
	o, err := s.object(obj)
	if err != nil {
		return ""
	}
	return o.Name
}

func (s *Scene) Kind(obj ecs.Entity) component.ObjectKind {
	o, err := s.object(obj)
	if err != nil {
		return ""
	}
	return o.Kind
}

// Objects lists every object in creation slot order.
func (s *Scene) Objects() []ecs.Entity {
	var out []ecs.Entity
	ecs.ForEach(s.world, component.ObjectComponent.Kind(), func(e ecs.Entity, _ *component.Object) {
		out = append(out, e)
	})
	return out
}

// Lookup finds an object by its unique name.
func (s *Scene) Lookup(name string) (ecs.Entity, bool) {
	e, ok := s.names[name]
	return e, ok
}

// MustLookup is Lookup for names the caller created.
func (s *Scene) MustLookup(name string) ecs.Entity {
	e, ok := s.names[name]
	if !ok {
		panic(fmt.Sprintf("scene: no object %q", name))
	}
	return e
}

func (s *Scene) object(obj ecs.Entity) (*component.Object, error) {
	o, ok := ecs.Get(s.world, obj, component.ObjectComponent.Kind())
	if !ok || !ecs.IsAlive(s.world, obj) {
		return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, obj)
	}
	return o, nil
}

func (s *Scene) transform(obj ecs.Entity) (*component.Transform, error) {
	if _, err := s.object(obj); err != nil {
		return nil, err
	}
	tr, ok := ecs.Get(s.world, obj, component.TransformComponent.Kind())
	if !ok {
		t := component.IdentityTransform()
		tr = &t
		if err := ecs.Add(s.world, obj, component.TransformComponent.Kind(), tr); err != nil {
			return nil, err
		}
	}
	return tr, nil
}

// Location is obj's local location.
func (s *Scene) Location(obj ecs.Entity) (mgl64.Vec3, bool) {
	tr, err := s.transform(obj)
	if err != nil {
		return mgl64.Vec3{}, false
	}
	return tr.Location, true
}

func (s *Scene) Rotation(obj ecs.Entity) (mgl64.Quat, bool) {
	tr, err := s.transform(obj)
	if err != nil {
		return mgl64.QuatIdent(), false
	}
	return tr.Rotation, true
}

func (s *Scene) SetLocation(obj ecs.Entity, loc mgl64.Vec3) error {
	tr, err := s.transform(obj)
	if err != nil {
		return err
	}
	tr.Location = loc
	return nil
}

func (s *Scene) SetRotation(obj ecs.Entity, rot mgl64.Quat) error {
	tr, err := s.transform(obj)
	if err != nil {
		return err
	}
	tr.Rotation = rot.Normalize()
	return nil
}

func (s *Scene) SetHidden(obj ecs.Entity, hidden bool) error {
	if _, err := s.object(obj); err != nil {
		return err
	}
	if hidden {
		return ecs.Add(s.world, obj, component.HiddenComponent.Kind(), &component.Hidden{})
	}
	ecs.Remove(s.world, obj, component.HiddenComponent.Kind())
	return nil
}

func (s *Scene) Hidden(obj ecs.Entity) bool {
	return ecs.Has(s.world, obj, component.HiddenComponent.Kind())
}

// SetGeometry replaces the object-space vertices of a mesh.
func (s *Scene) SetGeometry(obj ecs.Entity, vertices []mgl64.Vec3) error {
	if _, err := s.object(obj); err != nil {
		return err
	}
	g := &component.Geometry{Vertices: append([]mgl64.Vec3(nil), vertices...)}
	return ecs.Add(s.world, obj, component.GeometryComponent.Kind(), g)
}

func (s *Scene) Geometry(obj ecs.Entity) []mgl64.Vec3 {
	g, ok := ecs.Get(s.world, obj, component.GeometryComponent.Kind())
	if !ok {
		return nil
	}
	return g.Vertices
}

// Color is the display colour of obj, if one was set.
func (s *Scene) Color(obj ecs.Entity) (color.NRGBA, bool) {
	d, ok := ecs.Get(s.world, obj, component.DisplayComponent.Kind())
	if !ok {
		return color.NRGBA{}, false
	}
	return d.Color, true
}

func (s *Scene) SetColor(obj ecs.Entity, c color.NRGBA) error {
	if _, err := s.object(obj); err != nil {
		return err
	}
	return ecs.Add(s.world, obj, component.DisplayComponent.Kind(), &component.Display{Color: c})
}

// AddMesh creates a mesh object at loc with the given vertices.
func (s *Scene) AddMesh(name string, loc mgl64.Vec3, vertices []mgl64.Vec3) (ecs.Entity, error) {
	e, err := s.CreateObject(name, component.KindMesh)
	if err != nil {
		return 0, err
	}
	if err := s.SetLocation(e, loc); err != nil {
		return 0, err
	}
	if err := s.SetGeometry(e, vertices); err != nil {
		return 0, err
	}
	return e, nil
}

// Cube returns the eight corners of an axis-aligned cube of edge size
// centred on offset.
func Cube(size float64, offset mgl64.Vec3) []mgl64.Vec3 {
	h := size / 2
	out := make([]mgl64.Vec3, 0, 8)
	for _, x := range []float64{-h, h} {
		for _, y := range []float64{-h, h} {
			for _, z := range []float64{-h, h} {
				out = append(out, offset.Add(mgl64.Vec3{x, y, z}))
			}
		}
	}
	return out
}
