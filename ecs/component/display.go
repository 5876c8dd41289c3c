package component

import "image/color"

// Display is how a previewer draws an object.
type Display struct {
	Color color.NRGBA
}

var DisplayComponent = NewComponent[Display]()
