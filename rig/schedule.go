package rig

import (
	"strconv"

	"github.com/milk9111/travelcam/ecs"
	"github.com/milk9111/travelcam/ecs/component"
)

// CouplingExpression keeps a rotation influence equal to the location
// influence it reads through CouplingVariable.
const (
	CouplingExpression = "var"
	CouplingVariable   = "var"
)

// Pair is the compiled state of one target: its two constraint slots and
// the expression driving the location influence.
type Pair struct {
	Index            int
	LocationSlot     int
	RotationSlot     int
	TravelExpression string
}

// Key is one keyframe of the travel channel.
type Key struct {
	Frame float64
	Value float64
}

// Schedule is everything a rebuild writes for an N target list.
type Schedule struct {
	Pairs []Pair
	Keys  []Key
}

// Compile returns the schedule for n targets. Pair i occupies slots 2i
// and 2i+1, its location influence is driven by "travel - i" and travel
// reaches i+1 at frame i*spacing+offset. The expressions are not clamped;
// the evaluator saturates influence.
func Compile(n int, cfg Config) Schedule {
	if n <= 0 {
		return Schedule{}
	}
	s := Schedule{
		Pairs: make([]Pair, 0, n),
		Keys:  make([]Key, 0, n),
	}
	for i := 0; i < n; i++ {
		s.Pairs = append(s.Pairs, Pair{
			Index:            i,
			LocationSlot:     2 * i,
			RotationSlot:     2*i + 1,
			TravelExpression: TravelExpression(i),
		})
		s.Keys = append(s.Keys, Key{
			Frame: float64(i)*cfg.FrameSpacing + cfg.FrameOffset,
			Value: float64(i + 1),
		})
	}
	return s
}

// TravelExpression is the driver expression of target i.
func TravelExpression(i int) string {
	return TravelProperty + " - " + strconv.Itoa(i)
}

// FrameRange is the first and last keyframe frame, or false when the
// schedule is empty.
func (s Schedule) FrameRange() (float64, float64, bool) {
	if len(s.Keys) == 0 {
		return 0, 0, false
	}
	return s.Keys[0].Frame, s.Keys[len(s.Keys)-1].Frame, true
}

func travelDriver(anchor ecs.Entity, locationName string, p Pair) component.Driver {
	return component.Driver{
		Path:       component.InfluencePath(locationName),
		Expression: p.TravelExpression,
		Variables: []component.DriverVariable{{
			Name:   TravelProperty,
			Source: uint64(anchor),
			Path:   component.PropertyPath(TravelProperty),
		}},
	}
}

func couplingDriver(anchor ecs.Entity, locationName, rotationName string) component.Driver {
	return component.Driver{
		Path:       component.InfluencePath(rotationName),
		Expression: CouplingExpression,
		Variables: []component.DriverVariable{{
			Name:   CouplingVariable,
			Source: uint64(anchor),
			Path:   component.InfluencePath(locationName),
		}},
	}
}
