// Package filter narrows roster targets by their os and osrelease grains,
// using expressions such as "Ubuntu>=20.04,CentOS".
package filter

import "github.com/Masterminds/semver/v3"

// Operator compares a target's osrelease with a constraint's release.
type Operator string

const (
	OpEqual        Operator = "="
	OpGreater      Operator = ">"
	OpLess         Operator = "<"
	OpGreaterEqual Operator = ">="
	OpLessEqual    Operator = "<="
)

// Constraint bounds the releases accepted for one os.
type Constraint struct {
	OS       string // lower case
	Operator Operator
	Release  *semver.Version // nil accepts any release
}

// Filter is a parsed os filter. Constraints on the same os must all hold;
// constraints on different os names are alternatives.
type Filter struct {
	Constraints []Constraint
}
