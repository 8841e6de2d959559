// Package version holds the application version and checks whether a config
// file written by another version can be read.
package version

import (
	"fmt"
	"runtime/debug"
	"strconv"
	"strings"
)

const Version = "0.1.0"

// SemVer is a MAJOR.MINOR.PATCH version.
type SemVer struct {
	Major int
	Minor int
	Patch int
}

func (v SemVer) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare returns -1, 0 or 1 as v is older than, equal to or newer than o.
func (v SemVer) Compare(o SemVer) int {
	for _, d := range [...]int{v.Major - o.Major, v.Minor - o.Minor, v.Patch - o.Patch} {
		switch {
		case d < 0:
			return -1
		case d > 0:
			return 1
		}
	}
	return 0
}

// Parse reads a version with an optional "v" prefix. Pre-release and build
// suffixes are rejected.
func Parse(raw string) (SemVer, error) {
	value := strings.TrimPrefix(strings.TrimSpace(raw), "v")
	if value == "" {
		return SemVer{}, fmt.Errorf("version is empty")
	}

	parts := strings.Split(value, ".")
	if len(parts) != 3 {
		return SemVer{}, fmt.Errorf("invalid semantic version %q (expected MAJOR.MINOR.PATCH)", raw)
	}

	var nums [3]int
	for i, name := range [...]string{"major", "minor", "patch"} {
		n, err := strconv.Atoi(parts[i])
		if err != nil || n < 0 {
			return SemVer{}, fmt.Errorf("invalid %s version in %q", name, raw)
		}
		nums[i] = n
	}
	return SemVer{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// EnsureCompatible accepts config files written for this major version by
// this or an older release. An empty version is accepted.
func EnsureCompatible(target string) error {
	if strings.TrimSpace(target) == "" {
		return nil
	}

	current, err := Parse(Version)
	if err != nil {
		return fmt.Errorf("parse current version %q: %w", Version, err)
	}
	required, err := Parse(target)
	if err != nil {
		return err
	}

	if required.Major != current.Major {
		return fmt.Errorf("unsupported major version %d (current major is %d)", required.Major, current.Major)
	}
	if current.Compare(required) < 0 {
		return fmt.Errorf("requires md-to-notion >= %s (current %s)", required, current)
	}
	return nil
}

// Describe returns the version with the VCS revision the binary was built
// from, when known.
func Describe() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return Version
	}
	var rev, dirty string
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			if s.Value == "true" {
				dirty = "-dirty"
			}
		}
	}
	if rev == "" {
		return Version
	}
	if len(rev) > 12 {
		rev = rev[:12]
	}
	return fmt.Sprintf("%s (%s%s)", Version, rev, dirty)
}
