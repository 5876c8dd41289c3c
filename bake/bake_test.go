package bake

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/travelcam/prefabs"
	"github.com/milk9111/travelcam/rig"
	"github.com/milk9111/travelcam/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func riggedSpec(t *testing.T, n int) *prefabs.SceneSpec {
	t.Helper()
	s := scene.New()
	for i := 0; i < n; i++ {
		e, err := s.AddMesh(fmt.Sprintf("T%d", i), mgl64.Vec3{float64(i) * 5, float64(i * i), 1}, scene.Cube(1, mgl64.Vec3{}))
		require.NoError(t, err)
		s.Select(append(s.Selection(), e)...)
	}
	_, err := rig.Insert(s, rig.DefaultConfig())
	require.NoError(t, err)
	return s.Spec("bake_test")
}

func TestBakeIsDeterministicAcrossWorkers(t *testing.T) {
	spec := riggedSpec(t, 3)
	opts := rig.DefaultConfig()

	single, err := Bake(context.Background(), spec, Options{Workers: 1, Config: opts})
	require.NoError(t, err)
	assert.Equal(t, 1, single.Start)
	assert.Equal(t, 101, single.End)
	require.Len(t, single.Samples, 101)

	for _, workers := range []int{2, 3, 7, 500} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			multi, err := Bake(context.Background(), spec, Options{Workers: workers, Config: opts})
			require.NoError(t, err)
			assert.Equal(t, single, multi)
		})
	}
}

func TestBakeSamples(t *testing.T) {
	spec := riggedSpec(t, 3)
	res, err := Bake(context.Background(), spec, Options{Start: 1, End: 101, Workers: 4, Config: rig.DefaultConfig()})
	require.NoError(t, err)

	assert.Equal(t, "TARGET CAMERA", res.Camera)
	assert.Equal(t, []string{"T0", "T1", "T2"}, res.Targets)

	for i, s := range res.Samples {
		assert.Equal(t, i+1, s.Frame)
	}
	byFrame := func(f int) Sample { return res.Samples[f-1] }
	locAt := func(f int) []float64 {
		l := byFrame(f).Location
		return l[:]
	}

	// camera rides 4 above the anchor, which sits on the current target
	assert.InDeltaSlice(t, []float64{0, 0, 5}, locAt(1), 1e-9)
	assert.InDeltaSlice(t, []float64{5, 1, 5}, locAt(51), 1e-9)
	assert.InDeltaSlice(t, []float64{10, 4, 5}, locAt(101), 1e-9)
	assert.InDeltaSlice(t, []float64{2.5, 0.5, 5}, locAt(26), 1e-6)
	assert.Equal(t, "T1", byFrame(51).Target)

	for i := 1; i < len(res.Samples); i++ {
		assert.GreaterOrEqual(t, res.Samples[i].Travel, res.Samples[i-1].Travel, "travel never runs backwards")
	}

	var buf bytes.Buffer
	require.NoError(t, res.WriteYAML(&buf))
	var back Result
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, res.Samples[50], back.Samples[50])
}

func TestBakeErrors(t *testing.T) {
	t.Run("no_rig", func(t *testing.T) {
		_, err := Bake(context.Background(), &prefabs.SceneSpec{Name: "empty"}, Options{Config: rig.DefaultConfig()})
		assert.ErrorIs(t, err, rig.ErrNoRig)
	})
	t.Run("no_targets", func(t *testing.T) {
		_, err := Bake(context.Background(), riggedSpec(t, 0), Options{Config: rig.DefaultConfig()})
		assert.ErrorIs(t, err, ErrEmptyRange)
	})
	t.Run("reversed_range", func(t *testing.T) {
		_, err := Bake(context.Background(), riggedSpec(t, 2), Options{Start: 10, End: 5, Config: rig.DefaultConfig()})
		assert.ErrorIs(t, err, ErrEmptyRange)
	})
	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := Bake(ctx, riggedSpec(t, 2), Options{Workers: 2, Config: rig.DefaultConfig()})
		assert.ErrorIs(t, err, context.Canceled)
	})
}
