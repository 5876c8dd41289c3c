package main

import (
	"image/color"

	"github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// The panel sits beside the two dark views, so its colours are shades of
// the same slate with the camera path's amber as the accent.
var (
	slateDeep   = color.NRGBA{R: 0x10, G: 0x10, B: 0x14, A: 0xff}
	slate       = color.NRGBA{R: 0x1e, G: 0x1e, B: 0x24, A: 0xff}
	slateRaised = color.NRGBA{R: 0x2c, G: 0x2c, B: 0x36, A: 0xff}
	slateHover  = color.NRGBA{R: 0x3a, G: 0x3a, B: 0x48, A: 0xff}
	amber       = color.NRGBA{R: 0xff, G: 0xc8, B: 0x78, A: 0xff}
	amberDim    = color.NRGBA{R: 0x8a, G: 0x6c, B: 0x40, A: 0xff}
	inkBright   = color.NRGBA{R: 0xee, G: 0xee, B: 0xf0, A: 0xff}
	inkMuted    = color.NRGBA{R: 0x96, G: 0x96, B: 0xa0, A: 0xff}
)

func flat(c color.Color) *image.NineSlice {
	return image.NewNineSliceColor(c)
}

func newPanelTheme(face *text.Face) *widget.Theme {
	buttonImage := &widget.ButtonImage{
		Idle:     flat(slateRaised),
		Hover:    flat(slateHover),
		Pressed:  flat(amberDim),
		Disabled: flat(slate),
	}
	return &widget.Theme{
		PanelTheme: &widget.PanelParams{
			BackgroundImage: flat(slate),
		},
		ListTheme: &widget.ListParams{
			EntryFace: face,
			EntryColor: &widget.ListEntryColor{
				Unselected:          inkBright,
				Selected:            amber,
				DisabledUnselected:  inkMuted,
				DisabledSelected:    amberDim,
				SelectingBackground: slateHover,
				SelectedBackground:  slateRaised,
			},
			ScrollContainerImage: &widget.ScrollContainerImage{
				Idle: flat(slateDeep),
				Mask: flat(slateDeep),
			},
		},
		ButtonTheme: &widget.ButtonParams{
			Image:    buttonImage,
			TextFace: face,
			TextColor: &widget.ButtonTextColor{
				Idle:     inkBright,
				Disabled: inkMuted,
			},
		},
		SliderTheme: &widget.SliderParams{
			TrackImage: &widget.SliderTrackImage{
				Idle:  flat(slateDeep),
				Hover: flat(slateDeep),
			},
			HandleImage: buttonImage,
		},
	}
}
