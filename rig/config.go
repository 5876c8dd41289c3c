package rig

import "github.com/milk9111/travelcam/prefabs"

const (
	// CameraRigProperty marks the managed camera; its value is
	// TargetCameraType.
	CameraRigProperty = "Camera Rig Type"
	TargetCameraType  = "TARGET"

	// CleanupProperty set to CleanupValue marks objects every rebuild
	// deletes.
	CleanupProperty = "Delete on Cleanup"
	CleanupValue    = "yes"

	TravelProperty = "travel"
)

// Config holds the names and cadence a rig is built with.
type Config struct {
	CameraName      string
	AnchorName      string
	AnchorPointName string
	CameraHeight    float64
	FrameSpacing    float64
	FrameOffset     float64
	Lens            float64
}

func DefaultConfig() Config {
	return Config{
		CameraName:      "TARGET CAMERA",
		AnchorName:      "Movement Empty",
		AnchorPointName: "center",
		CameraHeight:    4,
		FrameSpacing:    50,
		FrameOffset:     1,
		Lens:            50,
	}
}

// ConfigFromSpec fills a Config from a rig prefab. Zero fields keep the
// defaults.
func ConfigFromSpec(spec *prefabs.RigSpec) Config {
	cfg := DefaultConfig()
	if spec == nil {
		return cfg
	}
	if spec.CameraName != "" {
		cfg.CameraName = spec.CameraName
	}
	if spec.AnchorName != "" {
		cfg.AnchorName = spec.AnchorName
	}
	if spec.AnchorPointName != "" {
		cfg.AnchorPointName = spec.AnchorPointName
	}
	if spec.CameraHeight != 0 {
		cfg.CameraHeight = spec.CameraHeight
	}
	if spec.FrameSpacing > 0 {
		cfg.FrameSpacing = spec.FrameSpacing
	}
	if spec.FrameOffset != 0 {
		cfg.FrameOffset = spec.FrameOffset
	}
	if spec.Lens > 0 {
		cfg.Lens = spec.Lens
	}
	return cfg
}

// LoadConfig reads rig.yaml, from disk when present and embedded
// otherwise.
func LoadConfig() (Config, error) {
	spec, err := prefabs.LoadRigSpec()
	if err != nil {
		return DefaultConfig(), err
	}
	return ConfigFromSpec(spec), nil
}
