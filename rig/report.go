package rig

import (
	"fmt"
	"strings"
)

// Report renders the summary as plain text, one line per target.
func (sum Summary) Report() string {
	if !sum.HasRig {
		return "no target camera\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s  travel=%g\n", sum.Camera, sum.Travel)
	for i, p := range sum.Schedule.Pairs {
		name := "?"
		if i < len(sum.Targets) {
			name = sum.Targets[i]
		}
		var key Key
		if i < len(sum.Schedule.Keys) {
			key = sum.Schedule.Keys[i]
		}
		fmt.Fprintf(&b, "%2d  %-24s slots %d/%d  %-12s frame %g -> %g\n",
			i, name, p.LocationSlot, p.RotationSlot, p.TravelExpression, key.Frame, key.Value)
	}
	return b.String()
}
