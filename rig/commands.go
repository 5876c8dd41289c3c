package rig

import (
	"fmt"
	"strconv"
	"strings"
)

type Op string

const (
	OpAddRig       Op = "add-rig"
	OpSelectCamera Op = "select-camera"
	OpAddTargets   Op = "add-targets"
	OpDeleteTarget Op = "delete-target"
	OpMoveUp       Op = "move-up"
	OpMoveDown     Op = "move-down"
	OpRecalculate  Op = "recalculate"
	OpSetTravel    Op = "set-travel"
)

// Command is one user action. Index is used by the list operations and
// Value by set-travel.
type Command struct {
	Op    Op
	Index int
	Value float64
}

func (c Command) String() string {
	switch c.Op {
	case OpDeleteTarget, OpMoveUp, OpMoveDown:
		return fmt.Sprintf("%s:%d", c.Op, c.Index)
	case OpSetTravel:
		return fmt.Sprintf("%s:%s", c.Op, strconv.FormatFloat(c.Value, 'g', -1, 64))
	default:
		return string(c.Op)
	}
}

// ParseCommand reads the textual form "op" or "op:arg", e.g. "move-up:2"
// or "set-travel:1.5".
func ParseCommand(s string) (Command, error) {
	name, arg, hasArg := strings.Cut(strings.TrimSpace(s), ":")
	op := Op(strings.ToLower(strings.TrimSpace(name)))
	arg = strings.TrimSpace(arg)

	switch op {
	case OpAddRig, OpSelectCamera, OpAddTargets, OpRecalculate:
		if hasArg {
			return Command{}, fmt.Errorf("%w: %s takes no argument", ErrUnknownCommand, op)
		}
		return Command{Op: op}, nil
	case OpDeleteTarget, OpMoveUp, OpMoveDown:
		i, err := strconv.Atoi(arg)
		if err != nil {
			return Command{}, fmt.Errorf("%w: %s needs an index: %v", ErrUnknownCommand, op, err)
		}
		return Command{Op: op, Index: i}, nil
	case OpSetTravel:
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return Command{}, fmt.Errorf("%w: %s needs a value: %v", ErrUnknownCommand, op, err)
		}
		return Command{Op: op, Value: v}, nil
	}
	return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, s)
}
