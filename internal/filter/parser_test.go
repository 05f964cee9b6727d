package filter

import (
	"testing"

	"github.com/Masterminds/semver/v3"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int // number of constraints
		wantErr bool
	}{
		{"single constraint", "Ubuntu>=20.04", 1, false},
		{"two constraints", "Ubuntu>=20.04,CentOS>=7", 2, false},
		{"range same os", "Ubuntu>=20.04,Ubuntu<24.04", 2, false},
		{"all operators", "Debian=12", 1, false},
		{"greater", "Debian>11", 1, false},
		{"less", "Debian<13", 1, false},
		{"less equal", "Debian<=12", 1, false},
		{"three part release", "CentOS>=7.9.2009", 1, false},
		{"bare os", "Debian", 1, false},
		{"dashed os", "openSUSE-Leap>=15", 1, false},
		{"whitespace", " Ubuntu >= 22.04 , Debian ", 2, false},
		{"mixed bare and constraint", "Debian,Ubuntu>=22.04", 2, false},
		{"invalid operator", "Ubuntu>>20", 0, true},
		{"missing release", "Ubuntu>=", 0, true},
		{"missing operator", "Ubuntu 22.04", 0, true},
		{"release first", "22.04", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", f)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(f.Constraints) != tt.want {
				t.Errorf("got %d constraints, want %d", len(f.Constraints), tt.want)
			}
		})
	}
}

func TestParseConstraintValues(t *testing.T) {
	f, err := Parse("Ubuntu>=22.04")
	if err != nil {
		t.Fatal(err)
	}
	c := f.Constraints[0]
	if c.OS != "ubuntu" {
		t.Errorf("OS = %q, want ubuntu", c.OS)
	}
	if c.Operator != OpGreaterEqual {
		t.Errorf("Operator = %v, want >=", c.Operator)
	}

	want := semver.MustParse("22.4")
	if !c.Release.Equal(want) {
		t.Errorf("Release = %v, want %v", c.Release, want)
	}
}

func TestParseBareOS(t *testing.T) {
	f, err := Parse("Debian")
	if err != nil {
		t.Fatal(err)
	}

	c := f.Constraints[0]
	if c.OS != "debian" {
		t.Errorf("OS = %q, want debian", c.OS)
	}
	if c.Release != nil {
		t.Errorf("Release = %v, want nil (bare os)", c.Release)
	}
}
