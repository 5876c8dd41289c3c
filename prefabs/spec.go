package prefabs

import (
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// RigSpec holds the names and keyframe cadence of a target camera rig.
type RigSpec struct {
	CameraName      string  `yaml:"camera_name"`
	AnchorName      string  `yaml:"anchor_name"`
	AnchorPointName string  `yaml:"anchor_point_name"`
	CameraHeight    float64 `yaml:"camera_height"`
	FrameSpacing    float64 `yaml:"frame_spacing"`
	FrameOffset     float64 `yaml:"frame_offset"`
	Lens            float64 `yaml:"lens"`
}

func LoadRigSpec() (*RigSpec, error) {
	spec, err := LoadSpec[RigSpec]("rig.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// SceneSpec is the file form of a scene. Objects refer to each other by
// name.
type SceneSpec struct {
	Name      string       `yaml:"name"`
	Frame     float64      `yaml:"frame,omitempty"`
	Selection []string     `yaml:"selection,omitempty"`
	Active    string       `yaml:"active,omitempty"`
	Objects   []ObjectSpec `yaml:"objects"`
}

type ObjectSpec struct {
	Name        string                `yaml:"name"`
	Kind        string                `yaml:"kind"`
	Parent      string                `yaml:"parent,omitempty"`
	Hidden      bool                  `yaml:"hidden,omitempty"`
	Color       *YAMLColor            `yaml:"color,omitempty"`
	Location    Vec3Spec              `yaml:"location,flow"`
	Rotation    *QuatSpec             `yaml:"rotation,omitempty,flow"`
	Euler       *Vec3Spec             `yaml:"rotation_euler,omitempty,flow"`
	Vertices    []Vec3Spec            `yaml:"vertices,omitempty,flow"`
	Cube        float64               `yaml:"cube,omitempty"`
	Properties  map[string]any        `yaml:"properties,omitempty"`
	Bounds      map[string]BoundsSpec `yaml:"bounds,omitempty"`
	Camera      *CameraSpec           `yaml:"camera,omitempty"`
	Constraints []ConstraintSpec      `yaml:"constraints,omitempty"`
	Drivers     []DriverSpec          `yaml:"drivers,omitempty"`
	Animation   []CurveSpec           `yaml:"animation,omitempty"`
}

// Vec3Spec is x, y, z.
type Vec3Spec [3]float64

// QuatSpec is w, x, y, z.
type QuatSpec [4]float64

type BoundsSpec struct {
	Min *float64 `yaml:"min,omitempty"`
	Max *float64 `yaml:"max,omitempty"`
}

type CameraSpec struct {
	Focus string  `yaml:"focus,omitempty"`
	Lens  float64 `yaml:"lens,omitempty"`
}

type ConstraintSpec struct {
	Name      string  `yaml:"name"`
	Kind      string  `yaml:"kind"`
	Target    string  `yaml:"target,omitempty"`
	Influence float64 `yaml:"influence"`
	Expanded  bool    `yaml:"expanded,omitempty"`
}

type DriverSpec struct {
	Path       string               `yaml:"path"`
	Expression string               `yaml:"expression"`
	Variables  []DriverVariableSpec `yaml:"variables,omitempty"`
}

type DriverVariableSpec struct {
	Name   string `yaml:"name"`
	Source string `yaml:"source"`
	Path   string `yaml:"path"`
}

type CurveSpec struct {
	Path      string         `yaml:"path"`
	Keyframes []KeyframeSpec `yaml:"keyframes"`
}

type KeyframeSpec struct {
	Frame         float64    `yaml:"frame"`
	Value         float64    `yaml:"value"`
	Interpolation string     `yaml:"interpolation,omitempty"`
	HandleLeft    [2]float64 `yaml:"handle_left,flow"`
	HandleRight   [2]float64 `yaml:"handle_right,flow"`
}

// LoadSceneSpec reads a scene prefab, from disk when present and embedded
// otherwise.
func LoadSceneSpec(name string) (*SceneSpec, error) {
	spec, err := LoadSpec[SceneSpec](name)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// ReadSceneFile reads a scene file from an arbitrary path.
func ReadSceneFile(path string) (*SceneSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("prefabs: read scene %s: %w", path, err)
	}
	var spec SceneSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("prefabs: unmarshal scene %s: %w", path, err)
	}
	return &spec, nil
}

// WriteSceneFile writes spec to path.
func WriteSceneFile(path string, spec *SceneSpec) error {
	data, err := yaml.Marshal(spec)
	if err != nil {
		return fmt.Errorf("prefabs: marshal scene: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("prefabs: write scene %s: %w", path, err)
	}
	return nil
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}

func (c YAMLColor) MarshalYAML() (any, error) {
	if c.Color == nil {
		return nil, nil
	}
	n := color.NRGBAModel.Convert(c.Color).(color.NRGBA)
	if n.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B), nil
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", n.R, n.G, n.B, n.A), nil
}
