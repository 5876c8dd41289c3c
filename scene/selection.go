package scene

import (
	"github.com/milk9111/travelcam/ecs"
)

// Selection returns the selected objects in the order they were selected.
func (s *Scene) Selection() []ecs.Entity {
	out := make([]ecs.Entity, 0, len(s.selection))
	for _, e := range s.selection {
		if s.Alive(e) {
			out = append(out, e)
		}
	}
	return out
}

// Select replaces the selection. Dead handles and repeats are dropped.
func (s *Scene) Select(objs ...ecs.Entity) {
	next := make([]ecs.Entity, 0, len(objs))
	seen := map[ecs.Entity]bool{}
	for _, e := range objs {
		if !s.Alive(e) || seen[e] {
			continue
		}
		seen[e] = true
		next = append(next, e)
	}
	s.selection = next
}

// SelectNames selects objects by name, skipping unknown ones.
func (s *Scene) SelectNames(names ...string) {
	objs := make([]ecs.Entity, 0, len(names))
	for _, n := range names {
		if e, ok := s.names[n]; ok {
			objs = append(objs, e)
		}
	}
	s.Select(objs...)
}

func (s *Scene) SetActive(obj ecs.Entity) error {
	if _, err := s.object(obj); err != nil {
		return err
	}
	s.active = obj
	return nil
}

func (s *Scene) Active() (ecs.Entity, bool) {
	if !s.Alive(s.active) {
		return 0, false
	}
	return s.active, true
}

func (s *Scene) deselect(obj ecs.Entity) {
	kept := s.selection[:0]
	for _, e := range s.selection {
		if e != obj {
			kept = append(kept, e)
		}
	}
	s.selection = kept
}
