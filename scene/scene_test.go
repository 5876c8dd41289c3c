package scene

import (
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/travelcam/ecs"
	"github.com/milk9111/travelcam/ecs/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertNear(t *testing.T, want, got mgl64.Vec3) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-9, "axis %d of %v", i, got)
	}
}

func TestUniqueNames(t *testing.T) {
	s := New()
	names := []string{"center", "center", "center", "Cube.001", "Cube.001", "Cube"}
	want := []string{"center", "center.001", "center.002", "Cube.001", "Cube.002", "Cube"}

	for i, n := range names {
		e, err := s.CreateObject(n, component.KindEmpty)
		require.NoError(t, err)
		assert.Equal(t, want[i], s.Name(e))
	}

	e, ok := s.Lookup("center.001")
	require.True(t, ok)
	require.NoError(t, s.DeleteObject(e))
	again, err := s.CreateObject("center", component.KindEmpty)
	require.NoError(t, err)
	assert.Equal(t, "center.001", s.Name(again), "freed names are reused")
}

func TestDeleteObjectUnparentsChildren(t *testing.T) {
	s := New()
	parent, _ := s.CreateObject("parent", component.KindEmpty)
	child, _ := s.CreateObject("child", component.KindEmpty)
	require.NoError(t, s.SetParent(child, parent))
	s.Select(parent, child)
	require.NoError(t, s.SetActive(parent))

	require.NoError(t, s.DeleteObject(parent))

	assert.False(t, s.Alive(parent))
	_, ok := s.Parent(child)
	assert.False(t, ok)
	assert.Equal(t, []ecs.Entity{child}, s.Selection())
	_, ok = s.Active()
	assert.False(t, ok)
	assert.ErrorIs(t, s.DeleteObject(parent), ErrObjectNotFound)
}

func TestSetParentRejectsCycles(t *testing.T) {
	s := New()
	a, _ := s.CreateObject("a", component.KindEmpty)
	b, _ := s.CreateObject("b", component.KindEmpty)
	c, _ := s.CreateObject("c", component.KindEmpty)
	require.NoError(t, s.SetParent(b, a))
	require.NoError(t, s.SetParent(c, b))

	assert.ErrorIs(t, s.SetParent(a, c), ErrParentCycle)
	assert.ErrorIs(t, s.SetParent(a, a), ErrParentCycle)
}

func TestChildrenInSlotOrder(t *testing.T) {
	s := New()
	root, _ := s.CreateObject("root", component.KindEmpty)
	a, _ := s.CreateObject("a", component.KindEmpty)
	b, _ := s.CreateObject("b", component.KindMesh)
	other, _ := s.CreateObject("other", component.KindEmpty)
	require.NoError(t, s.SetParent(b, root))
	require.NoError(t, s.SetParent(a, root))
	require.NoError(t, s.SetParent(other, a))

	assert.Equal(t, []ecs.Entity{a, b}, s.Children(root))
	assert.Equal(t, []ecs.Entity{other}, s.Children(a))
	assert.Empty(t, s.Children(b))
}

func TestParentWithoutInverse(t *testing.T) {
	s := New()
	anchor, _ := s.CreateObject("anchor", component.KindEmpty)
	camera, _ := s.CreateObject("camera", component.KindCamera)
	require.NoError(t, s.SetLocation(anchor, mgl64.Vec3{5, 0, 0}))
	require.NoError(t, s.SetLocation(camera, mgl64.Vec3{0, 0, 4}))
	require.NoError(t, s.SetParent(camera, anchor))

	s.Evaluate(1)

	loc, _ := s.Location(camera)
	assert.Equal(t, mgl64.Vec3{0, 0, 4}, loc, "local transform is kept")
	assertNear(t, mgl64.Vec3{5, 0, 4}, s.WorldLocation(camera))
}

func TestOriginToGeometryKeepsWorldPositions(t *testing.T) {
	s := New()
	mesh, err := s.AddMesh("Tower", mgl64.Vec3{2, 0, 0}, Cube(2, mgl64.Vec3{0, 0, 3}))
	require.NoError(t, err)
	require.NoError(t, s.SetRotation(mesh, EulerDegrees(mgl64.Vec3{0, 0, 90})))
	child, _ := s.CreateObject("child", component.KindEmpty)
	require.NoError(t, s.SetLocation(child, mgl64.Vec3{1, 0, 0}))
	require.NoError(t, s.SetParent(child, mesh))

	s.Evaluate(1)
	before := s.WorldLocation(child)

	require.NoError(t, s.OriginToGeometry(mesh))
	s.Evaluate(1)

	loc, _ := s.Location(mesh)
	assertNear(t, mgl64.Vec3{2, 0, 3}, loc)
	center, ok := (&component.Geometry{Vertices: s.Geometry(mesh)}).Median()
	require.True(t, ok)
	assertNear(t, mgl64.Vec3{}, center)
	assertNear(t, before, s.WorldLocation(child))

	empty, _ := s.CreateObject("empty", component.KindEmpty)
	assert.NoError(t, s.OriginToGeometry(empty))
}

func TestOriginToGeometryUsesVertexMean(t *testing.T) {
	s := New()
	mesh, err := s.AddMesh("Wedge", mgl64.Vec3{}, []mgl64.Vec3{{0, 0, 0}, {0, 0, 0}, {0, 0, 0}, {3, 0, 0}})
	require.NoError(t, err)

	require.NoError(t, s.OriginToGeometry(mesh))

	loc, _ := s.Location(mesh)
	assertNear(t, mgl64.Vec3{0.75, 0, 0}, loc)
	verts := s.Geometry(mesh)
	assertNear(t, mgl64.Vec3{-0.75, 0, 0}, verts[0])
	assertNear(t, mgl64.Vec3{2.25, 0, 0}, verts[3])
}

func TestPropertiesAndBounds(t *testing.T) {
	s := New()
	e, _ := s.CreateObject("Movement Empty", component.KindEmpty)
	zero := 0.0

	require.NoError(t, s.SetProperty(e, "travel", 2))
	require.NoError(t, s.SetPropertyBounds(e, "travel", component.Bounds{Min: &zero}))
	require.NoError(t, s.SetProperty(e, "travel", -4.0))
	v, ok := s.Property(e, "travel")
	require.True(t, ok)
	assert.Equal(t, 0.0, v)

	require.NoError(t, s.SetProperty(e, "Camera Rig Type", "TARGET"))
	v, _ = s.Property(e, "Camera Rig Type")
	assert.Equal(t, "TARGET", v)

	assert.Error(t, s.SetProperty(e, "flag", true))
	_, ok = s.Property(e, "missing")
	assert.False(t, ok)
}

func TestConstraintNames(t *testing.T) {
	s := New()
	owner, _ := s.CreateObject("owner", component.KindEmpty)
	target, _ := s.CreateObject("target", component.KindEmpty)

	var got []string
	for _, k := range []component.ConstraintKind{component.CopyLocation, component.CopyRotation, component.CopyLocation, component.CopyRotation} {
		name, err := s.AddConstraint(owner, component.Constraint{Kind: k, Target: uint64(target)})
		require.NoError(t, err)
		got = append(got, name)
	}
	assert.Equal(t, []string{"Copy Location", "Copy Rotation", "Copy Location.001", "Copy Rotation.001"}, got)
	assert.Len(t, s.Constraints(owner), 4)

	_, err := s.AddConstraint(owner, component.Constraint{Kind: "TRACK_TO"})
	assert.Error(t, err)

	require.NoError(t, s.ClearConstraints(owner))
	assert.Empty(t, s.Constraints(owner))
	name, err := s.AddConstraint(owner, component.Constraint{Kind: component.CopyLocation})
	require.NoError(t, err)
	assert.Equal(t, "Copy Location", name, "names restart after a clear")
}

func TestAddDriver(t *testing.T) {
	s := New()
	owner, _ := s.CreateObject("owner", component.KindEmpty)
	target, _ := s.CreateObject("target", component.KindEmpty)
	require.NoError(t, s.SetProperty(owner, "travel", 0.0))
	loc, err := s.AddConstraint(owner, component.Constraint{Kind: component.CopyLocation, Target: uint64(target)})
	require.NoError(t, err)

	travelVar := []component.DriverVariable{{Name: "travel", Source: uint64(owner), Path: component.PropertyPath("travel")}}

	t.Run("missing_path", func(t *testing.T) {
		err := s.AddDriver(owner, component.Driver{Path: component.InfluencePath("nope"), Expression: "1"})
		assert.Error(t, err)
	})
	t.Run("malformed_path", func(t *testing.T) {
		err := s.AddDriver(owner, component.Driver{Path: "location.x", Expression: "1"})
		assert.ErrorIs(t, err, ErrBadDataPath)
	})
	t.Run("dead_source", func(t *testing.T) {
		err := s.AddDriver(owner, component.Driver{
			Path:       component.InfluencePath(loc),
			Expression: "x",
			Variables:  []component.DriverVariable{{Name: "x", Source: 9999, Path: component.PropertyPath("travel")}},
		})
		assert.ErrorIs(t, err, ErrObjectNotFound)
	})
	t.Run("replaces_same_path", func(t *testing.T) {
		require.NoError(t, s.AddDriver(owner, component.Driver{Path: component.InfluencePath(loc), Expression: "travel - 3", Variables: travelVar}))
		require.NoError(t, s.AddDriver(owner, component.Driver{Path: component.InfluencePath(loc), Expression: "travel - 0", Variables: travelVar}))
		drivers := s.Drivers(owner)
		require.Len(t, drivers, 1)
		assert.Equal(t, "travel - 0", drivers[0].Expression)
	})
	t.Run("broken_expression_kept", func(t *testing.T) {
		require.NoError(t, s.AddDriver(owner, component.Driver{Path: component.PropertyPath("travel"), Expression: "((("}))
		assert.Len(t, s.Drivers(owner), 2)
		s.Evaluate(1)
	})
	t.Run("clear", func(t *testing.T) {
		require.NoError(t, s.ClearDrivers(owner))
		assert.Empty(t, s.Drivers(owner))
	})
}

func TestKeyframesAndEasing(t *testing.T) {
	s := New()
	e, _ := s.CreateObject("Movement Empty", component.KindEmpty)
	zero := 0.0
	require.NoError(t, s.SetPropertyBounds(e, "travel", component.Bounds{Min: &zero}))
	path := component.PropertyPath("travel")

	require.NoError(t, s.InsertKeyframe(e, path, 51, 2))
	require.NoError(t, s.InsertKeyframe(e, path, 1, 1))
	require.NoError(t, s.InsertKeyframe(e, path, 101, 3))
	require.NoError(t, s.InsertKeyframe(e, path, 101, 3))
	require.NoError(t, s.EaseCurve(e, path))

	keys := s.Keyframes(e, path)
	require.Len(t, keys, 3)
	for i, want := range [][2]float64{{1, 1}, {51, 2}, {101, 3}} {
		assert.Equal(t, want[0], keys[i].Frame)
		assert.Equal(t, want[1], keys[i].Value)
		assert.Equal(t, keys[i].Value, keys[i].HandleLeft.Value, "flat handles")
		assert.Equal(t, keys[i].Value, keys[i].HandleRight.Value, "flat handles")
	}
	assert.InDelta(t, 51+50.0/3, keys[1].HandleRight.Frame, 1e-9)

	first, last, ok := s.FrameRange()
	require.True(t, ok)
	assert.Equal(t, 1.0, first)
	assert.Equal(t, 101.0, last)

	for _, c := range []struct{ frame, want float64 }{{1, 1}, {26, 1.5}, {51, 2}, {76, 2.5}, {200, 3}} {
		s.Evaluate(c.frame)
		v, _ := s.Property(e, "travel")
		assert.InDelta(t, c.want, v, 1e-6, "frame %g", c.frame)
	}

	require.NoError(t, s.InsertKeyframe(e, component.PropertyPath("clamped"), 1, 0))
	require.NoError(t, s.ClearCurve(e, path))
	assert.Empty(t, s.Keyframes(e, path))
	assert.Error(t, s.EaseCurve(e, path))
}

func TestCameraLens(t *testing.T) {
	s := New()
	cam, _ := s.CreateObject("TARGET CAMERA", component.KindCamera)
	anchor, _ := s.CreateObject("Movement Empty", component.KindEmpty)

	assert.Equal(t, component.DefaultLens, s.Lens(cam))
	require.NoError(t, s.SetFocus(cam, anchor))
	focus, ok := s.Focus(cam)
	require.True(t, ok)
	assert.Equal(t, anchor, focus)
	require.NoError(t, s.SetLens(cam, 35))
	assert.Equal(t, 35.0, s.Lens(cam))

	assert.ErrorIs(t, s.SetFocus(anchor, cam), ErrNotCamera)
	assert.Error(t, s.SetLens(cam, 0))
}

func TestSelectionOrder(t *testing.T) {
	s := New()
	a, _ := s.CreateObject("a", component.KindMesh)
	b, _ := s.CreateObject("b", component.KindMesh)
	c, _ := s.CreateObject("c", component.KindMesh)

	s.Select(c, a, c, b)
	assert.Equal(t, []ecs.Entity{c, a, b}, s.Selection())

	s.SelectNames("b", "missing", "a")
	assert.Equal(t, []ecs.Entity{b, a}, s.Selection())

	s.Select()
	assert.Empty(t, s.Selection())
}

func TestEvents(t *testing.T) {
	s := New()
	s.Events().Drain()
	a, _ := s.CreateObject("a", component.KindEmpty)
	require.NoError(t, s.DeleteObject(a))

	evts := s.Events().Drain()
	require.Len(t, evts, 2)
	assert.Equal(t, ecs.EventEntityCreated, evts[0].Type)
	assert.Equal(t, ecs.EventEntityDestroyed, evts[1].Type)

	s.Evaluate(1)
	assert.Zero(t, s.Events().Len(), "evaluation does not emit")
}

func TestChanged(t *testing.T) {
	s := New()
	assert.False(t, s.Changed())

	a, err := s.CreateObject("a", component.KindEmpty)
	require.NoError(t, err)
	assert.True(t, s.Changed())
	assert.False(t, s.Changed(), "queue drained")

	require.NoError(t, s.SetProperty(a, "travel", 2.0))
	assert.True(t, s.Changed())

	s.Evaluate(3)
	assert.False(t, s.Changed())
	assert.Zero(t, s.Events().Len())
}

func TestDisplayColor(t *testing.T) {
	s := New()
	e, err := s.CreateObject("Cube", component.KindMesh)
	require.NoError(t, err)

	_, ok := s.Color(e)
	assert.False(t, ok)

	red := color.NRGBA{R: 0xff, A: 0xff}
	require.NoError(t, s.SetColor(e, red))
	got, ok := s.Color(e)
	require.True(t, ok)
	assert.Equal(t, red, got)

	assert.ErrorIs(t, s.SetColor(ecs.Entity(999), red), ErrObjectNotFound)
}
