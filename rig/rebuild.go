package rig

import (
	"fmt"
	"log"

	"github.com/milk9111/travelcam/ecs"
	"github.com/milk9111/travelcam/ecs/component"
)

// Rebuild regenerates the whole rig from the target list: anchor points,
// constraint pairs, drivers and travel keyframes. Nothing is diffed.
func (r *Rig) Rebuild() error {
	if r == nil {
		return ErrNoRig
	}
	if !r.host.Alive(r.anchor) {
		return ErrNoAnchor
	}

	selection := r.host.Selection()
	active, hadActive := r.host.Active()
	defer func() {
		r.host.Select(selection...)
		if hadActive && r.host.Alive(active) {
			_ = r.host.SetActive(active)
		}
	}()

	if err := r.cleanup(); err != nil {
		return err
	}

	r.dropDeadTargets()
	schedule := r.Schedule()

	locationNames := make([]string, 0, len(r.targets))
	for _, target := range r.targets {
		name, err := r.setupTarget(target)
		if err != nil {
			return err
		}
		locationNames = append(locationNames, name)
	}

	for i, p := range schedule.Pairs {
		if err := r.host.AddDriver(r.anchor, travelDriver(r.anchor, locationNames[i], p)); err != nil {
			return fmt.Errorf("rig: travel driver %d: %w", i, err)
		}
	}

	if err := r.animateTravel(schedule); err != nil {
		return err
	}
	return nil
}

// cleanup deletes every cleanup-marked object and empties the anchor's
// travel curve, drivers and constraints.
func (r *Rig) cleanup() error {
	travel := component.PropertyPath(TravelProperty)
	if err := r.host.ClearCurve(r.anchor, travel); err != nil {
		return fmt.Errorf("rig: clear travel animation: %w", err)
	}
	r.host.Select()

	removed := 0
	for _, obj := range r.host.Objects() {
		if v, ok := r.host.Property(obj, CleanupProperty); !ok || v != CleanupValue {
			continue
		}
		if err := r.host.DeleteObject(obj); err != nil {
			return fmt.Errorf("rig: cleanup %q: %w", r.host.Name(obj), err)
		}
		removed++
	}

	if err := r.host.ClearDrivers(r.anchor); err != nil {
		return fmt.Errorf("rig: clear drivers: %w", err)
	}
	if err := r.host.ClearConstraints(r.anchor); err != nil {
		return fmt.Errorf("rig: clear constraints: %w", err)
	}
	if removed > 0 {
		log.Printf("rig: cleanup removed %d anchor points", removed)
	}
	return nil
}

func (r *Rig) dropDeadTargets() {
	kept := r.targets[:0]
	for _, t := range r.targets {
		if !r.host.Alive(t) {
			log.Printf("rig: dropping deleted target %s", t)
			continue
		}
		kept = append(kept, t)
	}
	r.targets = kept
}

// setupTarget centres the target's origin, hangs a hidden anchor point on
// it and attaches the constraint pair with the rotation influence coupled
// to the location influence. It returns the location constraint's name.
func (r *Rig) setupTarget(target ecs.Entity) (string, error) {
	r.host.Select(target)
	if err := r.host.SetActive(target); err != nil {
		return "", fmt.Errorf("rig: activate target %q: %w", r.host.Name(target), err)
	}
	if err := r.host.OriginToGeometry(target); err != nil {
		return "", fmt.Errorf("rig: origin of %q: %w", r.host.Name(target), err)
	}

	point, err := r.host.CreateObject(r.cfg.AnchorPointName, component.KindEmpty)
	if err != nil {
		return "", fmt.Errorf("rig: anchor point: %w", err)
	}
	if err := r.host.SetParent(point, target); err != nil {
		return "", fmt.Errorf("rig: parent anchor point: %w", err)
	}
	if err := r.host.SetProperty(point, CleanupProperty, CleanupValue); err != nil {
		return "", fmt.Errorf("rig: mark anchor point: %w", err)
	}

	location, err := r.host.AddConstraint(r.anchor, component.Constraint{
		Kind:   component.CopyLocation,
		Target: uint64(point),
	})
	if err != nil {
		return "", fmt.Errorf("rig: location constraint: %w", err)
	}
	rotation, err := r.host.AddConstraint(r.anchor, component.Constraint{
		Kind:   component.CopyRotation,
		Target: uint64(point),
	})
	if err != nil {
		return "", fmt.Errorf("rig: rotation constraint: %w", err)
	}

	if err := r.host.AddDriver(r.anchor, couplingDriver(r.anchor, location, rotation)); err != nil {
		return "", fmt.Errorf("rig: coupling driver: %w", err)
	}

	if err := r.host.SetHidden(point, true); err != nil {
		return "", fmt.Errorf("rig: hide anchor point: %w", err)
	}
	return location, nil
}

// animateTravel keys travel = i+1 for every pair, then eases the curve.
func (r *Rig) animateTravel(s Schedule) error {
	if len(s.Keys) == 0 {
		return nil
	}
	travel := component.PropertyPath(TravelProperty)
	for _, k := range s.Keys {
		if err := r.host.SetProperty(r.anchor, TravelProperty, k.Value); err != nil {
			return fmt.Errorf("rig: travel: %w", err)
		}
		if err := r.host.InsertKeyframe(r.anchor, travel, k.Frame, k.Value); err != nil {
			return fmt.Errorf("rig: keyframe at %g: %w", k.Frame, err)
		}
	}
	if err := r.host.EaseCurve(r.anchor, travel); err != nil {
		return fmt.Errorf("rig: ease travel: %w", err)
	}
	return nil
}
