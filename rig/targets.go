package rig

import (
	"log"

	"github.com/milk9111/travelcam/ecs"
)

// RegisterTargets appends objs in the given order and rebuilds. The rig's
// own camera and anchor, anchor points, dead handles and objects already
// in the list are skipped.
func (r *Rig) RegisterTargets(objs ...ecs.Entity) error {
	if r == nil {
		return ErrNoRig
	}
	seen := make(map[ecs.Entity]bool, len(r.targets))
	for _, t := range r.targets {
		seen[t] = true
	}
	for _, obj := range objs {
		switch {
		case !r.host.Alive(obj):
			log.Printf("rig: skip target %s: not alive", obj)
			continue
		case obj == r.camera || obj == r.anchor:
			log.Printf("rig: skip target %q: part of the rig", r.host.Name(obj))
			continue
		case isAnchorPoint(r.host, obj):
			log.Printf("rig: skip target %q: anchor point", r.host.Name(obj))
			continue
		case seen[obj]:
			log.Printf("rig: skip target %q: already registered", r.host.Name(obj))
			continue
		}
		seen[obj] = true
		r.targets = append(r.targets, obj)
	}
	return r.Rebuild()
}

// RegisterSelection registers the host's current selection.
func (r *Rig) RegisterSelection() error {
	if r == nil {
		return ErrNoRig
	}
	return r.RegisterTargets(r.host.Selection()...)
}

func (r *Rig) RemoveTarget(i int) error {
	if err := r.checkIndex("delete-target", i); err != nil {
		return err
	}
	r.targets = append(r.targets[:i], r.targets[i+1:]...)
	return r.Rebuild()
}

// MoveUp swaps target i with i-1. At index 0 it does nothing.
func (r *Rig) MoveUp(i int) error {
	if err := r.checkIndex("move-up", i); err != nil {
		return err
	}
	if i == 0 {
		return nil
	}
	r.targets[i-1], r.targets[i] = r.targets[i], r.targets[i-1]
	return r.Rebuild()
}

// MoveDown swaps target i with i+1. At the last index it does nothing.
func (r *Rig) MoveDown(i int) error {
	if err := r.checkIndex("move-down", i); err != nil {
		return err
	}
	if i == len(r.targets)-1 {
		return nil
	}
	r.targets[i], r.targets[i+1] = r.targets[i+1], r.targets[i]
	return r.Rebuild()
}

func (r *Rig) checkIndex(op string, i int) error {
	if r == nil {
		return ErrNoRig
	}
	if i < 0 || i >= len(r.targets) {
		return &IndexError{Op: op, Index: i, Len: len(r.targets)}
	}
	return nil
}

func isAnchorPoint(host Host, obj ecs.Entity) bool {
	v, ok := host.Property(obj, CleanupProperty)
	return ok && v == CleanupValue
}
