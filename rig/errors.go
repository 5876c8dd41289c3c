package rig

import (
	"errors"
	"fmt"
)

var (
	ErrRigExists       = errors.New("rig: a target camera rig already exists")
	ErrNoRig           = errors.New("rig: no target camera rig in scene")
	ErrAmbiguousRig    = errors.New("rig: more than one target camera in scene")
	ErrNoAnchor        = errors.New("rig: target camera has no movement anchor")
	ErrIndexOutOfRange = errors.New("rig: target index out of range")
	ErrUnknownCommand  = errors.New("rig: unknown command")
)

// IndexError reports a list operation called with an index outside the
// target list.
type IndexError struct {
	Op    string
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("rig: %s: index %d out of range [0,%d)", e.Op, e.Index, e.Len)
}

func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}
