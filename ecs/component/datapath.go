package component

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrBadDataPath = errors.New("component: unsupported data path")

// DataPath addresses an animatable scalar on an object. Exactly one of
// Property or Constraint is set.
type DataPath struct {
	Property   string
	Constraint string
	Field      string
}

const influenceField = "influence"

// PropertyPath returns the path of a custom property, e.g. ["travel"].
func PropertyPath(name string) string {
	return "[" + strconv.Quote(name) + "]"
}

// InfluencePath returns the path of a constraint influence, e.g.
// constraints["Copy Location"].influence.
func InfluencePath(constraint string) string {
	return "constraints[" + strconv.Quote(constraint) + "]." + influenceField
}

// ParseDataPath accepts the two forms produced by PropertyPath and
// InfluencePath.
func ParseDataPath(path string) (DataPath, error) {
	s := strings.TrimSpace(path)
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		name, err := strconv.Unquote(s[1 : len(s)-1])
		if err != nil || name == "" {
			return DataPath{}, fmt.Errorf("%w: %q", ErrBadDataPath, path)
		}
		return DataPath{Property: name}, nil
	}
	rest, ok := strings.CutPrefix(s, "constraints[")
	if !ok {
		return DataPath{}, fmt.Errorf("%w: %q", ErrBadDataPath, path)
	}
	end := strings.LastIndex(rest, "].")
	if end < 0 {
		return DataPath{}, fmt.Errorf("%w: %q", ErrBadDataPath, path)
	}
	name, err := strconv.Unquote(rest[:end])
	if err != nil || name == "" {
		return DataPath{}, fmt.Errorf("%w: %q", ErrBadDataPath, path)
	}
	field := rest[end+2:]
	if field != influenceField {
		return DataPath{}, fmt.Errorf("%w: field %q", ErrBadDataPath, field)
	}
	return DataPath{Constraint: name, Field: field}, nil
}

func (p DataPath) String() string {
	if p.Property != "" {
		return PropertyPath(p.Property)
	}
	return InfluencePath(p.Constraint)
}
