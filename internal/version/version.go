// Package version orders release strings such as the osrelease grain.
package version

import "github.com/Masterminds/semver/v3"

// Compare returns -1, 0, or 1 based on comparing a vs b.
// Handles semver-ish releases ("22.04", "7.9.2009") and falls back to string
// comparison for codenames. An empty release is greater than any other.
func Compare(a, b string) int {
	if a == "" || b == "" {
		switch {
		case a == b:
			return 0
		case a == "":
			return 1
		default:
			return -1
		}
	}

	// Try semver comparison
	va, errA := semver.NewVersion(a)
	vb, errB := semver.NewVersion(b)
	if errA == nil && errB == nil {
		return va.Compare(vb)
	}

	// Semver wins over non-semver in sorting
	if errA == nil {
		return -1
	}
	if errB == nil {
		return 1
	}

	// Fallback to string comparison
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

// LessThan returns true if a < b.
func LessThan(a, b string) bool {
	return Compare(a, b) < 0
}
