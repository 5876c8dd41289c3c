package component

// Hidden keeps an object out of the viewport.
type Hidden struct{}

var HiddenComponent = NewComponent[Hidden]()
