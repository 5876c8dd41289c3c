package main

import (
	"bytes"

	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/travelcam/rig"
	"golang.org/x/image/font/gofont/goregular"
)

// PanelActions are the callbacks the target panel drives.
type PanelActions struct {
	OnCommand    func(cmd rig.Command)
	OnCopyReport func()
	OnSave       func()
}

func BuildPanelUI(actions PanelActions) (*ebitenui.UI, *TargetPanel) {
	ui := &ebitenui.UI{}

	s, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		panic("Failed to load font: " + err.Error())
	}
	var fontFace text.Face = &text.GoTextFace{Source: s, Size: 14}
	var smallFace text.Face = &text.GoTextFace{Source: s, Size: 11}
	ui.PrimaryTheme = newPanelTheme(&fontFace)
	theme := ui.PrimaryTheme

	panel := NewTargetPanel()
	command := func(op rig.Op) func(args *widget.ButtonClickedEventArgs) {
		return func(args *widget.ButtonClickedEventArgs) {
			if actions.OnCommand != nil {
				actions.OnCommand(rig.Command{Op: op})
			}
		}
	}
	// indexed commands act on the highlighted row
	indexed := func(op rig.Op) func(args *widget.ButtonClickedEventArgs) {
		return func(args *widget.ButtonClickedEventArgs) {
			idx := panel.SelectedIndex()
			if idx < 0 || actions.OnCommand == nil {
				return
			}
			actions.OnCommand(rig.Command{Op: op, Index: idx})
			switch op {
			case rig.OpMoveUp:
				panel.SetSelected(max(idx-1, 0))
			case rig.OpMoveDown:
				panel.SetSelected(min(idx+1, len(panel.entries)-1))
			}
		}
	}
	button := func(label string, handler func(args *widget.ButtonClickedEventArgs)) *widget.Button {
		return widget.NewButton(
			widget.ButtonOpts.Image(theme.ButtonTheme.Image),
			widget.ButtonOpts.Text(label, &fontFace, theme.ButtonTheme.TextColor),
			widget.ButtonOpts.TextPadding(&widget.Insets{Left: 8, Right: 8, Top: 4, Bottom: 4}),
			widget.ButtonOpts.ClickedHandler(handler),
		)
	}
	row := func(buttons ...*widget.Button) *widget.Container {
		c := widget.NewContainer(
			widget.ContainerOpts.Layout(
				widget.NewRowLayout(
					widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
					widget.RowLayoutOpts.Spacing(6),
				),
			),
		)
		for _, b := range buttons {
			c.AddChild(b)
		}
		return c
	}

	container := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(theme.PanelTheme.BackgroundImage),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(8),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 12, Bottom: 12, Left: 12, Right: 12}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(panelWidth, baseHeight),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionEnd,
				VerticalPosition:   widget.AnchorLayoutPositionStart,
				StretchVertical:    true,
			}),
		),
	)

	panel.header = widget.NewText(
		widget.TextOpts.Text("no target camera", &fontFace, inkBright),
	)
	container.AddChild(panel.header)

	container.AddChild(widget.NewLabel(
		widget.LabelOpts.Text("Targets", &fontFace, &widget.LabelColor{Idle: amber, Disabled: inkMuted}),
	))

	targetList := widget.NewList(
		widget.ListOpts.Entries([]any{}),
		widget.ListOpts.EntryLabelFunc(func(e any) string {
			if entry, ok := e.(TargetEntry); ok {
				return entry.Name
			}
			return ""
		}),
		widget.ListOpts.EntrySelectedHandler(func(args *widget.ListEntrySelectedEventArgs) {
			entry, ok := args.Entry.(TargetEntry)
			if !ok || panel.suppressEvents {
				return
			}
			panel.selected = entry.Index
		}),
		widget.ListOpts.ContainerOpts(widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(panelWidth-24, 220),
			widget.WidgetOpts.LayoutData(widget.RowLayoutData{Stretch: true}),
		)),
		widget.ListOpts.HideHorizontalSlider(),
	)
	container.AddChild(targetList)
	panel.list = targetList

	upBtn := button("Up", indexed(rig.OpMoveUp))
	downBtn := button("Down", indexed(rig.OpMoveDown))
	deleteBtn := button("Delete", indexed(rig.OpDeleteTarget))
	container.AddChild(row(upBtn, downBtn, deleteBtn))

	panel.addRig = button("Add Rig", command(rig.OpAddRig))
	addBtn := button("Add Selected", command(rig.OpAddTargets))
	container.AddChild(row(panel.addRig, addBtn))

	recalcBtn := button("Recalculate", command(rig.OpRecalculate))
	cameraBtn := button("Select Camera", command(rig.OpSelectCamera))
	container.AddChild(row(recalcBtn, cameraBtn))

	copyBtn := button("Copy Report", func(args *widget.ButtonClickedEventArgs) {
		if actions.OnCopyReport != nil {
			actions.OnCopyReport()
		}
	})
	saveBtn := button("Save", func(args *widget.ButtonClickedEventArgs) {
		if actions.OnSave != nil {
			actions.OnSave()
		}
	})
	container.AddChild(row(copyBtn, saveBtn))

	panel.rigButtons = []*widget.Button{upBtn, downBtn, deleteBtn, addBtn, recalcBtn, cameraBtn, copyBtn}

	panel.status = widget.NewText(
		widget.TextOpts.Text("", &fontFace, inkBright),
		widget.TextOpts.MaxWidth(panelWidth-24),
	)
	container.AddChild(panel.status)

	panel.report = widget.NewText(
		widget.TextOpts.Text("", &smallFace, inkMuted),
		widget.TextOpts.MaxWidth(panelWidth-24),
	)
	container.AddChild(panel.report)

	container.AddChild(widget.NewText(
		widget.TextOpts.Text("click: select  shift+click: add\nspace: play  left/right: step  home: start  c: copy", &smallFace, inkMuted),
	))

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	root.AddChild(container)
	ui.Container = root
	return ui, panel
}
