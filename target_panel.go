package main

import (
	"fmt"

	"github.com/ebitenui/ebitenui/widget"
	"github.com/milk9111/travelcam/rig"
)

// TargetEntry is a small value used by the UI list to represent a target row.
type TargetEntry struct {
	Index int
	Name  string
}

// TargetPanel holds the list widget and the buttons whose state follows the
// rig.
type TargetPanel struct {
	list     *widget.List
	entries  []any
	selected int

	header *widget.Text
	status *widget.Text
	report *widget.Text

	rigButtons []*widget.Button
	addRig     *widget.Button

	// suppressEvents, when true, keeps programmatic selections from being
	// treated as user clicks.
	suppressEvents bool
}

func NewTargetPanel() *TargetPanel {
	return &TargetPanel{selected: -1}
}

// SelectedIndex is the highlighted row, or -1.
func (tp *TargetPanel) SelectedIndex() int {
	if tp == nil || tp.selected >= len(tp.entries) {
		return -1
	}
	return tp.selected
}

func (tp *TargetPanel) SetTargets(names []string) {
	if tp == nil || tp.list == nil {
		return
	}
	tp.suppressEvents = true
	entries := make([]any, len(names))
	for i, name := range names {
		entries[i] = TargetEntry{Index: i, Name: name}
	}
	tp.entries = entries
	tp.list.SetEntries(entries)
	tp.suppressEvents = false

	if tp.selected >= len(entries) {
		tp.selected = len(entries) - 1
	}
	tp.SetSelected(tp.selected)
}

func (tp *TargetPanel) SetSelected(idx int) {
	if tp == nil || tp.list == nil {
		return
	}
	if idx < 0 || idx >= len(tp.entries) {
		return
	}
	tp.suppressEvents = true
	tp.selected = idx
	tp.list.SetSelectedEntry(tp.entries[idx])
	tp.suppressEvents = false
}

// SetSummary shows the rig state and enables the buttons that apply to it.
func (tp *TargetPanel) SetSummary(sum rig.Summary) {
	if tp == nil {
		return
	}
	if sum.HasRig {
		tp.header.Label = fmt.Sprintf("%s (%d targets)", sum.Camera, len(sum.Targets))
	} else {
		tp.header.Label = "no target camera"
	}
	tp.report.Label = sum.Report()
	for _, b := range tp.rigButtons {
		b.GetWidget().Disabled = !sum.HasRig
	}
	tp.addRig.GetWidget().Disabled = sum.HasRig
	tp.SetTargets(sum.Targets)
}

func (tp *TargetPanel) SetStatus(frame, travel float64, playing bool, msg string) {
	if tp == nil || tp.status == nil {
		return
	}
	state := "paused"
	if playing {
		state = "playing"
	}
	tp.status.Label = fmt.Sprintf("frame %.1f  travel %.3f  %s\n%s", frame, travel, state, msg)
}
