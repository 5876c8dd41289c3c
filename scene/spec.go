package scene

import (
	"fmt"
	"image/color"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/travelcam/ecs"
	"github.com/milk9111/travelcam/ecs/component"
	"github.com/milk9111/travelcam/prefabs"
)

// FromSpec builds a scene from its file form and evaluates the stored
// frame.
func FromSpec(spec *prefabs.SceneSpec) (*Scene, error) {
	s := New()
	if spec == nil {
		s.Evaluate(1)
		return s, nil
	}

	byName := make(map[string]ecs.Entity, len(spec.Objects))
	lookup := func(name string) (ecs.Entity, error) {
		e, ok := byName[name]
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrObjectNotFound, name)
		}
		return e, nil
	}

	for _, o := range spec.Objects {
		kind := component.ObjectKind(o.Kind)
		switch kind {
		case component.KindEmpty, component.KindCamera, component.KindMesh:
		case "":
			kind = component.KindEmpty
		default:
			return nil, fmt.Errorf("scene: object %q: unknown kind %q", o.Name, o.Kind)
		}
		e, err := s.CreateObject(o.Name, kind)
		if err != nil {
			return nil, err
		}
		if _, dup := byName[o.Name]; !dup {
			byName[o.Name] = e
		}
		if err := s.applyObjectSpec(e, o); err != nil {
			return nil, fmt.Errorf("scene: object %q: %w", o.Name, err)
		}
	}

	// References resolve once every object exists.
	for _, o := range spec.Objects {
		e := byName[o.Name]
		if o.Parent != "" {
			p, err := lookup(o.Parent)
			if err != nil {
				return nil, fmt.Errorf("scene: parent of %q: %w", o.Name, err)
			}
			if err := s.SetParent(e, p); err != nil {
				return nil, err
			}
		}
		if o.Camera != nil && o.Camera.Focus != "" {
			f, err := lookup(o.Camera.Focus)
			if err != nil {
				return nil, fmt.Errorf("scene: focus of %q: %w", o.Name, err)
			}
			if err := s.SetFocus(e, f); err != nil {
				return nil, err
			}
		}
		for _, c := range o.Constraints {
			target := ecs.Entity(0)
			if c.Target != "" {
				t, err := lookup(c.Target)
				if err != nil {
					return nil, fmt.Errorf("scene: constraint %q of %q: %w", c.Name, o.Name, err)
				}
				target = t
			}
			if _, err := s.AddConstraint(e, component.Constraint{
				Name:      c.Name,
				Kind:      component.ConstraintKind(c.Kind),
				Target:    uint64(target),
				Influence: c.Influence,
				Expanded:  c.Expanded,
			}); err != nil {
				return nil, fmt.Errorf("scene: constraint %q of %q: %w", c.Name, o.Name, err)
			}
		}
	}

	// Drivers last: their paths and variables may name any constraint.
	for _, o := range spec.Objects {
		e := byName[o.Name]
		for _, d := range o.Drivers {
			drv := component.Driver{Path: d.Path, Expression: d.Expression}
			for _, v := range d.Variables {
				src, err := lookup(v.Source)
				if err != nil {
					return nil, fmt.Errorf("scene: driver %s of %q: %w", d.Path, o.Name, err)
				}
				drv.Variables = append(drv.Variables, component.DriverVariable{Name: v.Name, Source: uint64(src), Path: v.Path})
			}
			if err := s.AddDriver(e, drv); err != nil {
				return nil, err
			}
		}
		if len(o.Animation) > 0 {
			if err := s.applyAnimationSpec(e, o.Animation); err != nil {
				return nil, fmt.Errorf("scene: animation of %q: %w", o.Name, err)
			}
		}
	}

	s.SelectNames(spec.Selection...)
	if spec.Active != "" {
		a, err := lookup(spec.Active)
		if err != nil {
			return nil, fmt.Errorf("scene: active: %w", err)
		}
		if err := s.SetActive(a); err != nil {
			return nil, err
		}
	}

	frame := spec.Frame
	if frame == 0 {
		frame = 1
	}
	s.Evaluate(frame)
	s.world.Events().Drain()
	return s, nil
}

func (s *Scene) applyObjectSpec(e ecs.Entity, o prefabs.ObjectSpec) error {
	if err := s.SetLocation(e, mgl64.Vec3(o.Location)); err != nil {
		return err
	}
	switch {
	case o.Rotation != nil:
		q := mgl64.Quat{W: o.Rotation[0], V: mgl64.Vec3{o.Rotation[1], o.Rotation[2], o.Rotation[3]}}
		if q.Len() == 0 {
			q = mgl64.QuatIdent()
		}
		if err := s.SetRotation(e, q); err != nil {
			return err
		}
	case o.Euler != nil:
		if err := s.SetRotation(e, EulerDegrees(mgl64.Vec3(*o.Euler))); err != nil {
			return err
		}
	}

	switch {
	case len(o.Vertices) > 0:
		verts := make([]mgl64.Vec3, 0, len(o.Vertices))
		for _, v := range o.Vertices {
			verts = append(verts, mgl64.Vec3(v))
		}
		if err := s.SetGeometry(e, verts); err != nil {
			return err
		}
	case o.Cube > 0:
		if err := s.SetGeometry(e, Cube(o.Cube, mgl64.Vec3{})); err != nil {
			return err
		}
	}

	if o.Hidden {
		if err := s.SetHidden(e, true); err != nil {
			return err
		}
	}
	if o.Color != nil && o.Color.Color != nil {
		n := color.NRGBAModel.Convert(o.Color.Color).(color.NRGBA)
		if err := s.SetColor(e, n); err != nil {
			return err
		}
	}

	for name, b := range o.Bounds {
		if err := s.SetPropertyBounds(e, name, component.Bounds{Min: b.Min, Max: b.Max}); err != nil {
			return err
		}
	}
	for _, name := range sortedKeys(o.Properties) {
		if err := s.SetProperty(e, name, o.Properties[name]); err != nil {
			return err
		}
	}

	if o.Camera != nil && o.Camera.Lens > 0 {
		if err := s.SetLens(e, o.Camera.Lens); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scene) applyAnimationSpec(e ecs.Entity, curves []prefabs.CurveSpec) error {
	anim := &component.Animation{}
	for _, c := range curves {
		if _, err := component.ParseDataPath(c.Path); err != nil {
			return err
		}
		curve := anim.Curve(c.Path, true)
		for _, k := range c.Keyframes {
			interp := component.Interpolation(k.Interpolation)
			if interp == "" {
				interp = component.InterpolationBezier
			}
			curve.Keyframes = append(curve.Keyframes, component.Keyframe{
				Frame:         k.Frame,
				Value:         k.Value,
				Interpolation: interp,
				HandleLeft:    component.Handle{Frame: k.HandleLeft[0], Value: k.HandleLeft[1]},
				HandleRight:   component.Handle{Frame: k.HandleRight[0], Value: k.HandleRight[1]},
			})
		}
		sort.SliceStable(curve.Keyframes, func(i, j int) bool { return curve.Keyframes[i].Frame < curve.Keyframes[j].Frame })
	}
	return ecs.Add(s.world, e, component.AnimationComponent.Kind(), anim)
}

// Spec captures the scene in file form.
func (s *Scene) Spec(name string) *prefabs.SceneSpec {
	spec := &prefabs.SceneSpec{Name: name, Frame: s.Frame()}
	for _, e := range s.Selection() {
		spec.Selection = append(spec.Selection, s.Name(e))
	}
	if a, ok := s.Active(); ok {
		spec.Active = s.Name(a)
	}

	for _, e := range s.Objects() {
		o := prefabs.ObjectSpec{
			Name:   s.Name(e),
			Kind:   string(s.Kind(e)),
			Hidden: s.Hidden(e),
		}
		if p, ok := s.Parent(e); ok {
			o.Parent = s.Name(p)
		}
		if d, ok := ecs.Get(s.world, e, component.DisplayComponent.Kind()); ok {
			o.Color = &prefabs.YAMLColor{Color: d.Color}
		}
		if tr, ok := ecs.Get(s.world, e, component.TransformComponent.Kind()); ok {
			o.Location = prefabs.Vec3Spec(tr.Location)
			if !tr.Rotation.ApproxEqual(mgl64.QuatIdent()) {
				o.Rotation = &prefabs.QuatSpec{tr.Rotation.W, tr.Rotation.V[0], tr.Rotation.V[1], tr.Rotation.V[2]}
			}
		}
		for _, v := range s.Geometry(e) {
			o.Vertices = append(o.Vertices, prefabs.Vec3Spec(v))
		}
		if props, ok := ecs.Get(s.world, e, component.PropertiesComponent.Kind()); ok {
			if len(props.Values) > 0 {
				o.Properties = make(map[string]any, len(props.Values))
				for k, v := range props.Values {
					o.Properties[k] = v
				}
			}
			if len(props.Bounds) > 0 {
				o.Bounds = make(map[string]prefabs.BoundsSpec, len(props.Bounds))
				for k, b := range props.Bounds {
					o.Bounds[k] = prefabs.BoundsSpec{Min: b.Min, Max: b.Max}
				}
			}
		}
		if cam, ok := ecs.Get(s.world, e, component.CameraComponent.Kind()); ok {
			cs := &prefabs.CameraSpec{Lens: cam.Lens}
			if f, ok := s.Focus(e); ok {
				cs.Focus = s.Name(f)
			}
			o.Camera = cs
		}
		for _, c := range s.Constraints(e) {
			cs := prefabs.ConstraintSpec{Name: c.Name, Kind: string(c.Kind), Influence: c.Influence, Expanded: c.Expanded}
			if t := ecs.Entity(c.Target); s.Alive(t) {
				cs.Target = s.Name(t)
			}
			o.Constraints = append(o.Constraints, cs)
		}
		for _, d := range s.Drivers(e) {
			ds := prefabs.DriverSpec{Path: d.Path, Expression: d.Expression}
			for _, v := range d.Variables {
				ds.Variables = append(ds.Variables, prefabs.DriverVariableSpec{Name: v.Name, Source: s.Name(ecs.Entity(v.Source)), Path: v.Path})
			}
			o.Drivers = append(o.Drivers, ds)
		}
		if anim, ok := ecs.Get(s.world, e, component.AnimationComponent.Kind()); ok {
			for _, c := range anim.Curves {
				cs := prefabs.CurveSpec{Path: c.Path}
				for _, k := range c.Keyframes {
					cs.Keyframes = append(cs.Keyframes, prefabs.KeyframeSpec{
						Frame:         k.Frame,
						Value:         k.Value,
						Interpolation: string(k.Interpolation),
						HandleLeft:    [2]float64{k.HandleLeft.Frame, k.HandleLeft.Value},
						HandleRight:   [2]float64{k.HandleRight.Frame, k.HandleRight.Value},
					})
				}
				o.Animation = append(o.Animation, cs)
			}
		}
		spec.Objects = append(spec.Objects, o)
	}
	return spec
}

// Load reads a scene file from path.
func Load(path string) (*Scene, error) {
	spec, err := prefabs.ReadSceneFile(path)
	if err != nil {
		return nil, err
	}
	return FromSpec(spec)
}

// LoadPrefab builds one of the embedded scenes, e.g.
// "scenes/three_targets.yaml".
func LoadPrefab(name string) (*Scene, error) {
	spec, err := prefabs.LoadSceneSpec(name)
	if err != nil {
		return nil, err
	}
	return FromSpec(spec)
}

// Save writes the scene to path.
func (s *Scene) Save(path, name string) error {
	return prefabs.WriteSceneFile(path, s.Spec(name))
}

// EulerDegrees converts XYZ Euler angles in degrees to a quaternion,
// applying X first and Z last.
func EulerDegrees(deg mgl64.Vec3) mgl64.Quat {
	qx := mgl64.QuatRotate(mgl64.DegToRad(deg[0]), mgl64.Vec3{1, 0, 0})
	qy := mgl64.QuatRotate(mgl64.DegToRad(deg[1]), mgl64.Vec3{0, 1, 0})
	qz := mgl64.QuatRotate(mgl64.DegToRad(deg[2]), mgl64.Vec3{0, 0, 1})
	return qz.Mul(qy).Mul(qx).Normalize()
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
