package rig

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/travelcam/ecs"
	"github.com/milk9111/travelcam/ecs/component"
	"github.com/milk9111/travelcam/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTargetScene creates n cube meshes T0..Tn-1 spaced along x and
// selects them in order.
func newTargetScene(t *testing.T, n int) (*scene.Scene, []ecs.Entity) {
	t.Helper()
	s := scene.New()
	targets := make([]ecs.Entity, 0, n)
	for i := 0; i < n; i++ {
		e, err := s.AddMesh(fmt.Sprintf("T%d", i), mgl64.Vec3{float64(i) * 10, float64(i % 2), 0}, scene.Cube(1, mgl64.Vec3{}))
		require.NoError(t, err)
		targets = append(targets, e)
	}
	s.Select(targets...)
	return s, targets
}

func insertRig(t *testing.T, n int) (*scene.Scene, *Rig, []ecs.Entity) {
	t.Helper()
	s, targets := newTargetScene(t, n)
	r, err := Insert(s, DefaultConfig())
	require.NoError(t, err)
	return s, r, targets
}

// snapshot is the structure a rebuild generates, with anchor points
// replaced by the targets they hang on.
type snapshot struct {
	Constraints []string
	Drivers     []string
	Keys        [][2]float64
}

func takeSnapshot(t *testing.T, s *scene.Scene, r *Rig) snapshot {
	t.Helper()
	var snap snapshot
	for _, c := range s.Constraints(r.Anchor()) {
		parent, ok := s.Parent(ecs.Entity(c.Target))
		require.True(t, ok, "constraint %s target has no parent", c.Name)
		snap.Constraints = append(snap.Constraints, fmt.Sprintf("%s|%s|%s|%g|%v", c.Name, c.Kind, s.Name(parent), c.Influence, c.Expanded))
	}
	for _, d := range s.Drivers(r.Anchor()) {
		snap.Drivers = append(snap.Drivers, d.Path+"="+d.Expression)
	}
	for _, k := range s.Keyframes(r.Anchor(), component.PropertyPath(TravelProperty)) {
		snap.Keys = append(snap.Keys, [2]float64{k.Frame, k.Value})
	}
	return snap
}

func names(s *scene.Scene, objs []ecs.Entity) []string {
	out := make([]string, 0, len(objs))
	for _, o := range objs {
		out = append(out, s.Name(o))
	}
	return out
}

func TestInsert(t *testing.T) {
	s, r, targets := insertRig(t, 2)

	cam := r.Camera()
	anchor := r.Anchor()
	assert.Equal(t, "TARGET CAMERA", s.Name(cam))
	assert.Equal(t, component.KindCamera, s.Kind(cam))
	assert.Equal(t, "Movement Empty", s.Name(anchor))

	v, ok := s.Property(cam, CameraRigProperty)
	require.True(t, ok)
	assert.Equal(t, TargetCameraType, v)

	parent, ok := s.Parent(cam)
	require.True(t, ok)
	assert.Equal(t, anchor, parent)
	loc, _ := s.Location(cam)
	assert.Equal(t, mgl64.Vec3{0, 0, 4}, loc)
	rot, _ := s.Rotation(cam)
	assert.Equal(t, mgl64.QuatIdent(), rot)

	focus, ok := s.Focus(cam)
	require.True(t, ok)
	assert.Equal(t, anchor, focus)
	assert.True(t, s.Hidden(anchor))

	active, ok := s.Active()
	require.True(t, ok)
	assert.Equal(t, cam, active, "camera is left active")
	assert.Equal(t, targets, s.Selection(), "selection restored")
	assert.Equal(t, targets, r.Targets())

	require.NoError(t, s.SetProperty(anchor, TravelProperty, -3.0))
	assert.Equal(t, 0.0, r.Travel(), "travel is bounded at 0")
}

func TestInsertTwiceFails(t *testing.T) {
	s, _, _ := insertRig(t, 1)
	before := len(s.Objects())

	_, err := Insert(s, DefaultConfig())
	assert.ErrorIs(t, err, ErrRigExists)
	assert.Len(t, s.Objects(), before, "nothing created")
}

func TestRebuildCounts(t *testing.T) {
	for n := 0; n <= 4; n++ {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			s, r, targets := insertRig(t, n)
			anchor := r.Anchor()

			constraints := s.Constraints(anchor)
			require.Len(t, constraints, 2*n)
			assert.Len(t, s.Drivers(anchor), 2*n)
			assert.Len(t, s.Keyframes(anchor, component.PropertyPath(TravelProperty)), n)

			for i := 0; i < n; i++ {
				loc, rot := constraints[2*i], constraints[2*i+1]
				assert.Equal(t, component.CopyLocation, loc.Kind)
				assert.Equal(t, component.CopyRotation, rot.Kind)
				assert.Equal(t, loc.Target, rot.Target, "pair %d shares its anchor point", i)
				assert.False(t, loc.Expanded)
				assert.False(t, rot.Expanded)
				assert.Zero(t, loc.Influence)
				assert.Zero(t, rot.Influence)

				point := ecs.Entity(loc.Target)
				assert.Equal(t, "center", s.Name(point)[:len("center")])
				assert.True(t, s.Hidden(point))
				mark, _ := s.Property(point, CleanupProperty)
				assert.Equal(t, CleanupValue, mark)
				parent, ok := s.Parent(point)
				require.True(t, ok)
				assert.Equal(t, targets[i], parent, "pair %d references anchor point of target %d", i, i)
			}

			assert.Equal(t, r.Targets(), r.DeriveTargetList())
		})
	}
}

func TestDriverExpressionsAndKeyframes(t *testing.T) {
	s, r, _ := insertRig(t, 3)
	anchor := r.Anchor()
	constraints := s.Constraints(anchor)

	byPath := map[string]component.Driver{}
	for _, d := range s.Drivers(anchor) {
		byPath[d.Path] = d
	}

	var exprs []string
	for i := 0; i < 3; i++ {
		loc := constraints[2*i]
		rot := constraints[2*i+1]

		travel, ok := byPath[component.InfluencePath(loc.Name)]
		require.True(t, ok, "pair %d has a travel driver", i)
		exprs = append(exprs, travel.Expression)
		require.Len(t, travel.Variables, 1)
		assert.Equal(t, "travel", travel.Variables[0].Name)
		assert.Equal(t, `["travel"]`, travel.Variables[0].Path)
		assert.Equal(t, uint64(anchor), travel.Variables[0].Source)

		coupling, ok := byPath[component.InfluencePath(rot.Name)]
		require.True(t, ok, "pair %d has a coupling driver", i)
		assert.Equal(t, "var", coupling.Expression)
		require.Len(t, coupling.Variables, 1)
		assert.Equal(t, component.InfluencePath(loc.Name), coupling.Variables[0].Path)
	}
	assert.Equal(t, []string{"travel - 0", "travel - 1", "travel - 2"}, exprs)

	keys := s.Keyframes(anchor, component.PropertyPath(TravelProperty))
	var got [][2]float64
	for _, k := range keys {
		got = append(got, [2]float64{k.Frame, k.Value})
		assert.Equal(t, component.InterpolationBezier, k.Interpolation)
		assert.Equal(t, k.Value, k.HandleLeft.Value, "eased keys have flat handles")
		assert.Equal(t, k.Value, k.HandleRight.Value, "eased keys have flat handles")
	}
	assert.Equal(t, [][2]float64{{1, 1.0}, {51, 2.0}, {101, 3.0}}, got)
}

func TestRecalculateIsIdempotent(t *testing.T) {
	s, r, _ := insertRig(t, 3)
	before := takeSnapshot(t, s, r)
	oldPoints := map[ecs.Entity]bool{}
	for _, c := range s.Constraints(r.Anchor()) {
		oldPoints[ecs.Entity(c.Target)] = true
	}

	require.NoError(t, r.Rebuild())
	require.NoError(t, r.Rebuild())

	assert.Equal(t, before, takeSnapshot(t, s, r))
	for _, c := range s.Constraints(r.Anchor()) {
		assert.False(t, oldPoints[ecs.Entity(c.Target)], "anchor points are new objects")
	}
}

func TestCleanupRemovesPreviousAnchorPoints(t *testing.T) {
	s, r, _ := insertRig(t, 3)
	var old []ecs.Entity
	for _, c := range s.Constraints(r.Anchor()) {
		old = append(old, ecs.Entity(c.Target))
	}

	require.NoError(t, r.Rebuild())

	for _, p := range old {
		assert.False(t, s.Alive(p))
	}
	marked := 0
	for _, obj := range s.Objects() {
		if v, ok := s.Property(obj, CleanupProperty); ok && v == CleanupValue {
			marked++
		}
	}
	assert.Equal(t, 3, marked, "exactly one anchor point per target")
}

func TestMoveUp(t *testing.T) {
	const n = 4
	for k := 1; k < n; k++ {
		t.Run(fmt.Sprintf("k=%d", k), func(t *testing.T) {
			s, r, targets := insertRig(t, n)
			require.NoError(t, r.MoveUp(k))

			want := append([]ecs.Entity(nil), targets...)
			want[k-1], want[k] = want[k], want[k-1]
			assert.Equal(t, want, r.Targets())
			assert.Equal(t, want, r.DeriveTargetList(), "constraint pair order follows the list")
			assert.Equal(t, names(s, want), r.TargetNames())
		})
	}
}

func TestMoveUpAtZeroIsNoop(t *testing.T) {
	s, r, targets := insertRig(t, 3)
	before := s.Constraints(r.Anchor())

	require.NoError(t, r.MoveUp(0))

	assert.Equal(t, targets, r.Targets())
	assert.Equal(t, before, s.Constraints(r.Anchor()), "no rebuild happened")
}

func TestMoveDown(t *testing.T) {
	s, r, targets := insertRig(t, 3)

	require.NoError(t, r.MoveDown(0))
	assert.Equal(t, []ecs.Entity{targets[1], targets[0], targets[2]}, r.DeriveTargetList())

	before := s.Constraints(r.Anchor())
	require.NoError(t, r.MoveDown(2))
	assert.Equal(t, before, s.Constraints(r.Anchor()), "last index is a no-op")
}

func TestRemoveTarget(t *testing.T) {
	const n = 4
	for k := 0; k < n; k++ {
		t.Run(fmt.Sprintf("k=%d", k), func(t *testing.T) {
			s, r, targets := insertRig(t, n)
			require.NoError(t, r.RemoveTarget(k))

			want := append(append([]ecs.Entity(nil), targets[:k]...), targets[k+1:]...)
			assert.Equal(t, want, r.Targets())
			assert.Equal(t, want, r.DeriveTargetList())

			snap := takeSnapshot(t, s, r)
			assert.Len(t, snap.Constraints, 2*(n-1))
			assert.Len(t, snap.Keys, n-1)
			for i, key := range snap.Keys {
				assert.Equal(t, [2]float64{float64(i)*50 + 1, float64(i + 1)}, key, "keys re-index from 0")
			}
			constraints := s.Constraints(r.Anchor())
			for i := range want {
				assert.Equal(t, TravelExpression(i), driverOn(s, r, constraints[2*i].Name).Expression)
			}
		})
	}
}

func driverOn(s *scene.Scene, r *Rig, constraint string) component.Driver {
	for _, d := range s.Drivers(r.Anchor()) {
		if d.Path == component.InfluencePath(constraint) {
			return d
		}
	}
	return component.Driver{}
}

func TestIndexErrors(t *testing.T) {
	_, r, _ := insertRig(t, 2)
	ops := map[string]func(int) error{
		"delete-target": r.RemoveTarget,
		"move-up":       r.MoveUp,
		"move-down":     r.MoveDown,
	}
	for op, fn := range ops {
		for _, i := range []int{-1, 2, 10} {
			t.Run(fmt.Sprintf("%s/%d", op, i), func(t *testing.T) {
				err := fn(i)
				require.ErrorIs(t, err, ErrIndexOutOfRange)
				var ie *IndexError
				require.True(t, errors.As(err, &ie))
				assert.Equal(t, op, ie.Op)
				assert.Equal(t, i, ie.Index)
				assert.Equal(t, 2, ie.Len)
			})
		}
	}
}

func TestRegisterTargetsSkips(t *testing.T) {
	s, r, targets := insertRig(t, 2)
	point := ecs.Entity(s.Constraints(r.Anchor())[0].Target)
	extra, err := s.AddMesh("Extra", mgl64.Vec3{0, 5, 0}, scene.Cube(1, mgl64.Vec3{}))
	require.NoError(t, err)
	dead, _ := s.CreateObject("Dead", component.KindEmpty)
	require.NoError(t, s.DeleteObject(dead))

	require.NoError(t, r.RegisterTargets(r.Camera(), r.Anchor(), point, targets[0], dead, extra, extra))

	assert.Equal(t, []ecs.Entity{targets[0], targets[1], extra}, r.Targets())
	assert.Len(t, s.Constraints(r.Anchor()), 6)
}

func TestRebuildDropsDeletedTargets(t *testing.T) {
	s, r, targets := insertRig(t, 3)
	require.NoError(t, s.DeleteObject(targets[1]))

	require.NoError(t, r.Rebuild())

	assert.Equal(t, []ecs.Entity{targets[0], targets[2]}, r.Targets())
	assert.Len(t, s.Constraints(r.Anchor()), 4)
}

func TestOpen(t *testing.T) {
	t.Run("attaches_and_derives", func(t *testing.T) {
		s, r, targets := insertRig(t, 3)
		require.NoError(t, r.MoveUp(2))

		opened, err := Open(s, DefaultConfig())
		require.NoError(t, err)
		assert.Equal(t, r.Camera(), opened.Camera())
		assert.Equal(t, r.Anchor(), opened.Anchor())
		assert.Equal(t, []ecs.Entity{targets[0], targets[2], targets[1]}, opened.Targets())
	})
	t.Run("no_rig", func(t *testing.T) {
		s, _ := newTargetScene(t, 1)
		_, err := Open(s, DefaultConfig())
		assert.ErrorIs(t, err, ErrNoRig)
		assert.False(t, Exists(s))
	})
	t.Run("ambiguous", func(t *testing.T) {
		s, _, _ := insertRig(t, 1)
		other, _ := s.CreateObject("TARGET CAMERA", component.KindCamera)
		require.NoError(t, s.SetProperty(other, CameraRigProperty, TargetCameraType))
		_, err := Open(s, DefaultConfig())
		assert.ErrorIs(t, err, ErrAmbiguousRig)
		assert.Equal(t, "TARGET CAMERA.001", s.Name(other))
	})
	t.Run("no_anchor", func(t *testing.T) {
		s, r, _ := insertRig(t, 1)
		require.NoError(t, s.DeleteObject(r.Anchor()))
		_, err := Open(s, DefaultConfig())
		assert.ErrorIs(t, err, ErrNoAnchor)
		assert.ErrorIs(t, r.Rebuild(), ErrNoAnchor)
	})
}

func TestOriginMovedToGeometry(t *testing.T) {
	s := scene.New()
	off, err := s.AddMesh("Offset", mgl64.Vec3{1, 0, 0}, scene.Cube(2, mgl64.Vec3{0, 0, 5}))
	require.NoError(t, err)
	s.Select(off)

	r, err := Insert(s, DefaultConfig())
	require.NoError(t, err)

	loc, _ := s.Location(off)
	assert.Equal(t, mgl64.Vec3{1, 0, 5}, loc)

	s.Evaluate(1)
	assertNear(t, mgl64.Vec3{1, 0, 5}, s.WorldLocation(r.Anchor()))
}

func assertNear(t *testing.T, want, got mgl64.Vec3) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-9, "axis %d of %v", i, got)
	}
}

func TestCrossFadeEvaluation(t *testing.T) {
	s, r, targets := insertRig(t, 3)
	require.NoError(t, s.SetRotation(targets[1], scene.EulerDegrees(mgl64.Vec3{0, 0, 90})))

	at := func(i int) mgl64.Vec3 { return s.WorldLocation(targets[i]) }

	for i, frame := range []float64{1, 51, 101} {
		s.Evaluate(frame)
		assertNear(t, at(i), s.WorldLocation(r.Anchor()))
		assert.InDelta(t, float64(i+1), r.Travel(), 1e-9)
	}

	s.Evaluate(26)
	assert.InDelta(t, 1.5, r.Travel(), 1e-6)
	assertNear(t, at(0).Add(at(1)).Mul(0.5), s.WorldLocation(r.Anchor()))

	s.Evaluate(51)
	wt, ok := s.WorldTransform(r.Camera())
	require.True(t, ok)
	assertNear(t, at(1).Add(mgl64.Vec3{0, 0, 4}), wt.Location)
	anchorRot, _ := s.WorldTransform(r.Anchor())
	assert.InDelta(t, 1, anchorRot.Rotation.Dot(scene.EulerDegrees(mgl64.Vec3{0, 0, 90})), 1e-9, "rotation copied from target 1")
}

func TestRebuildEditsDrain(t *testing.T) {
	s, r, _ := insertRig(t, 3)
	require.True(t, s.Changed())

	for i := 0; i < 100; i++ {
		require.NoError(t, r.Rebuild())
		require.True(t, s.Changed(), "rebuild %d reports an edit", i)
		require.Zero(t, s.Events().Len())
	}
}

var errHostRefused = errors.New("host refused")

// refusingHost fails one capability of an otherwise working scene.
type refusingHost struct {
	*scene.Scene
	refuse string
}

func (h *refusingHost) SetFocus(camera, target ecs.Entity) error {
	if h.refuse == "focus" {
		return errHostRefused
	}
	return h.Scene.SetFocus(camera, target)
}

func (h *refusingHost) AddConstraint(owner ecs.Entity, c component.Constraint) (string, error) {
	if h.refuse == "constraint" {
		return "", errHostRefused
	}
	return h.Scene.AddConstraint(owner, c)
}

func TestInsertFailureRollsBack(t *testing.T) {
	for _, refuse := range []string{"focus", "constraint"} {
		t.Run(refuse, func(t *testing.T) {
			s, targets := newTargetScene(t, 2)
			before := len(s.Objects())
			host := &refusingHost{Scene: s, refuse: refuse}

			_, err := Insert(host, DefaultConfig())
			require.ErrorIs(t, err, errHostRefused)

			assert.False(t, Exists(s))
			assert.Len(t, s.Objects(), before, "created objects are removed")
			assert.Equal(t, targets, s.Selection())

			host.refuse = ""
			sess, err := NewSession(host, DefaultConfig())
			require.NoError(t, err)
			require.NoError(t, sess.ExecuteString("add-rig"))
			assert.Equal(t, []string{"T0", "T1"}, sess.Rig().TargetNames())
		})
	}
}
