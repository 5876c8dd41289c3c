package component

import (
	"errors"
	"testing"
)

func TestParseDataPath(t *testing.T) {
	cases := []struct {
		name    string
		path    string
		want    DataPath
		wantErr bool
	}{
		{"property", `["travel"]`, DataPath{Property: "travel"}, false},
		{"property_with_spaces", `["Camera Rig Type"]`, DataPath{Property: "Camera Rig Type"}, false},
		{"influence", `constraints["Copy Location.001"].influence`, DataPath{Constraint: "Copy Location.001", Field: "influence"}, false},
		{"unknown_field", `constraints["Copy Location"].owner_space`, DataPath{}, true},
		{"location", `location`, DataPath{}, true},
		{"empty_property", `[""]`, DataPath{}, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := ParseDataPath(c.path)
			if c.wantErr {
				if !errors.Is(err, ErrBadDataPath) {
					t.Fatalf("expected ErrBadDataPath, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != c.want {
				t.Fatalf("expected %+v, got %+v", c.want, got)
			}
			if got.String() != c.path {
				t.Fatalf("round trip: expected %s, got %s", c.path, got.String())
			}
		})
	}
}
