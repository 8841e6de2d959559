package version

import (
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	t.Parallel()

	v, err := Parse(" v1.2.3 ")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if v != (SemVer{Major: 1, Minor: 2, Patch: 3}) {
		t.Fatalf("Parse parsed wrong value: %#v", v)
	}
}

func TestParseRejectsInvalidFormat(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "v", "1", "1.2", "1.2.3.4", "1.2.x", "1.-2.3", "1.2.3-beta"} {
		if _, err := Parse(raw); err == nil {
			t.Fatalf("expected parse error for %q", raw)
		}
	}
}

func TestCompare(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b string
		want int
	}{
		{"1.2.3", "1.2.3", 0},
		{"1.2.3", "1.2.4", -1},
		{"1.3.0", "1.2.9", 1},
		{"2.0.0", "10.0.0", -1},
	}
	for _, tt := range tests {
		a, _ := Parse(tt.a)
		b, _ := Parse(tt.b)
		if got := a.Compare(b); got != tt.want {
			t.Fatalf("%s.Compare(%s) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestEnsureCompatible(t *testing.T) {
	t.Parallel()

	current, err := Parse(Version)
	if err != nil {
		t.Fatalf("parse current version: %v", err)
	}

	if err := EnsureCompatible(""); err != nil {
		t.Fatalf("empty version should be accepted, got: %v", err)
	}
	if err := EnsureCompatible(current.String()); err != nil {
		t.Fatalf("current version should be compatible, got: %v", err)
	}

	newer := SemVer{Major: current.Major, Minor: current.Minor, Patch: current.Patch + 1}
	if err := EnsureCompatible(newer.String()); err == nil || !strings.Contains(err.Error(), "md-to-notion >=") {
		t.Fatalf("expected incompatibility for newer version %q, got %v", newer, err)
	}

	nextMajor := SemVer{Major: current.Major + 1}
	if err := EnsureCompatible(nextMajor.String()); err == nil {
		t.Fatalf("expected incompatibility for major mismatch %q", nextMajor)
	}
}

func TestDescribeStartsWithVersion(t *testing.T) {
	t.Parallel()

	if got := Describe(); !strings.HasPrefix(got, Version) {
		t.Fatalf("Describe() = %q, want prefix %q", got, Version)
	}
}
