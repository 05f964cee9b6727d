package filter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// osList is a comma-separated list of os terms.
type osList struct {
	Terms []*osTerm `parser:"@@ ( Comma @@ )*"`
}

// osTerm names an os grain and optionally bounds its osrelease.
type osTerm struct {
	Name  string       `parser:"@Name"`
	Bound *releaseTerm `parser:"@@?"`
}

type releaseTerm struct {
	Op      string `parser:"@Op"`
	Release string `parser:"@Release"`
}

var osLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Space", Pattern: `\s+`},
	{Name: "Comma", Pattern: `,`},
	{Name: "Op", Pattern: `>=|<=|>|<|=`},
	{Name: "Release", Pattern: `\d+(\.\d+)*`},
	{Name: "Name", Pattern: `[A-Za-z][A-Za-z0-9_-]*`},
})

var osParser = participle.MustBuild[osList](
	participle.Lexer(osLexer),
	participle.Elide("Space"),
)

var errEmptyFilter = errors.New("empty filter expression")

// Parse reads an os filter such as "Ubuntu>=20.04,CentOS". Os names are
// case-insensitive; a name without a bound accepts any release.
func Parse(expr string) (*Filter, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, errEmptyFilter
	}

	list, err := osParser.ParseString("", expr)
	if err != nil {
		return nil, fmt.Errorf("invalid filter %q: %w", expr, err)
	}

	f := &Filter{Constraints: make([]Constraint, 0, len(list.Terms))}
	for _, term := range list.Terms {
		c := Constraint{OS: strings.ToLower(term.Name), Operator: OpGreaterEqual}
		if term.Bound != nil {
			release, err := semver.NewVersion(term.Bound.Release)
			if err != nil {
				return nil, fmt.Errorf("invalid filter %q: release %s: %w", expr, term.Bound.Release, err)
			}
			c.Operator = Operator(term.Bound.Op)
			c.Release = release
		}
		f.Constraints = append(f.Constraints, c)
	}
	return f, nil
}
