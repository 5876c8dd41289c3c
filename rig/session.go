package rig

import (
	"errors"
	"fmt"
)

// Session holds the explicit rig handle of one host and runs commands
// against it.
type Session struct {
	host Host
	cfg  Config
	rig  *Rig
}

// NewSession attaches to the rig in host if there is one. A host without
// a rig is not an error; an ambiguous one is.
func NewSession(host Host, cfg Config) (*Session, error) {
	s := &Session{host: host, cfg: cfg}
	r, err := Open(host, cfg)
	switch {
	case err == nil:
		s.rig = r
	case errors.Is(err, ErrNoRig):
	default:
		return nil, err
	}
	return s, nil
}

// Rig returns the handle, nil before add-rig.
func (s *Session) Rig() *Rig {
	return s.rig
}

func (s *Session) Execute(cmd Command) error {
	if cmd.Op == OpAddRig {
		r, err := Insert(s.host, s.cfg)
		if err != nil {
			return err
		}
		s.rig = r
		return nil
	}
	if s.rig == nil {
		return fmt.Errorf("%s: %w", cmd.Op, ErrNoRig)
	}

	switch cmd.Op {
	case OpSelectCamera:
		return s.rig.SelectCamera()
	case OpAddTargets:
		return s.rig.RegisterSelection()
	case OpDeleteTarget:
		return s.rig.RemoveTarget(cmd.Index)
	case OpMoveUp:
		return s.rig.MoveUp(cmd.Index)
	case OpMoveDown:
		return s.rig.MoveDown(cmd.Index)
	case OpRecalculate:
		return s.rig.Rebuild()
	case OpSetTravel:
		return s.rig.SetTravel(cmd.Value)
	}
	return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Op)
}

// ExecuteString parses and runs one textual command.
func (s *Session) ExecuteString(text string) error {
	cmd, err := ParseCommand(text)
	if err != nil {
		return err
	}
	return s.Execute(cmd)
}

// Summary is the data the target panel shows.
type Summary struct {
	HasRig   bool     `yaml:"has_rig"`
	Camera   string   `yaml:"camera,omitempty"`
	Targets  []string `yaml:"targets,omitempty"`
	Travel   float64  `yaml:"travel"`
	Schedule Schedule `yaml:"-"`
}

func (s *Session) Summary() Summary {
	if s.rig == nil || !s.host.Alive(s.rig.camera) {
		return Summary{}
	}
	return Summary{
		HasRig:   true,
		Camera:   s.host.Name(s.rig.camera),
		Targets:  s.rig.TargetNames(),
		Travel:   s.rig.Travel(),
		Schedule: s.rig.Schedule(),
	}
}
