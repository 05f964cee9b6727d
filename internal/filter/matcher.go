package filter

import (
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/ivoronin/saltmatch/internal/roster"
)

// releaseChecks interprets a semver Compare result for each operator.
var releaseChecks = map[Operator]func(cmp int) bool{
	OpEqual:        func(cmp int) bool { return cmp == 0 },
	OpGreater:      func(cmp int) bool { return cmp > 0 },
	OpLess:         func(cmp int) bool { return cmp < 0 },
	OpGreaterEqual: func(cmp int) bool { return cmp >= 0 },
	OpLessEqual:    func(cmp int) bool { return cmp <= 0 },
}

// Match reports whether a host with the given os and osrelease grains passes
// the filter. A nil or empty filter passes everything.
func (f *Filter) Match(os, release string) bool {
	if f == nil || len(f.Constraints) == 0 {
		return true
	}

	os = strings.ToLower(os)
	matched := false
	for _, c := range f.Constraints {
		if c.OS != os {
			continue
		}
		if !matchConstraint(c, release) {
			return false
		}
		matched = true
	}
	return matched
}

func matchConstraint(c Constraint, release string) bool {
	if c.Release == nil {
		return true
	}

	check, ok := releaseChecks[c.Operator]
	if !ok {
		return false
	}

	// Codenames and missing releases only satisfy bare constraints
	v, err := semver.NewVersion(release)
	if err != nil {
		return false
	}

	return check(v.Compare(c.Release))
}

// FilterTargets returns targets whose os and osrelease grains match the filter.
func FilterTargets(targets []roster.Target, f *Filter) []roster.Target {
	if f == nil {
		return targets
	}

	var result []roster.Target
	for _, t := range targets {
		if f.Match(t.GrainString("os"), t.GrainString("osrelease")) {
			result = append(result, t)
		}
	}
	return result
}
