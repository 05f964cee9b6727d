package compound

import "fmt"

// RefKind names the data source a reference resolves against.
type RefKind int

const (
	RefGrain RefKind = iota
	RefPillar
	RefModule
)

func (k RefKind) String() string {
	switch k {
	case RefGrain:
		return "grain"
	case RefPillar:
		return "pillar"
	default:
		return "module"
	}
}

// LexError reports input that no lexical rule matches.
type LexError struct {
	Remaining string
	Offset    int
}

func (e *LexError) Error() string {
	return fmt.Sprintf("no token matches at offset %d: %q", e.Offset, e.Remaining)
}

// SyntaxError reports an unexpected token. An empty Actual means end of input.
type SyntaxError struct {
	Expected string
	Actual   string
	Offset   int
}

func (e *SyntaxError) Error() string {
	actual := fmt.Sprintf("%q", e.Actual)
	if e.Actual == "" {
		actual = "end of input"
	}
	return fmt.Sprintf("expected %q, got %s at offset %d", e.Expected, actual, e.Offset)
}

// SemanticError reports an operator that has no evaluation rule.
type SemanticError struct {
	Symbol string
}

func (e *SemanticError) Error() string {
	return fmt.Sprintf("unknown operator %q", e.Symbol)
}

// TypeError reports an operator applied to operand kinds it does not support.
type TypeError struct {
	Op    string
	Left  Kind
	Right Kind
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("operator %q does not apply to %s and %s", e.Op, e.Left, e.Right)
}

// PatternError reports an invalid regular expression on the right of =~.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid pattern %q: %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error { return e.Err }

// LookupError is returned by an Environment when a referenced name does not exist.
type LookupError struct {
	Kind RefKind
	Key  string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Kind, e.Key)
}

// EnvironmentError wraps any other failure raised by an Environment.
type EnvironmentError struct {
	Kind RefKind
	Key  string
	Err  error
}

func (e *EnvironmentError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Kind, e.Key, e.Err)
}

func (e *EnvironmentError) Unwrap() error { return e.Err }
