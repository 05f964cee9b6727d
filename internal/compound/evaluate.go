package compound

import (
	"errors"
	"fmt"
	"regexp"
)

// Environment resolves the three reference forms of the language.
//
// An unknown name must be reported as a *LookupError. Any other error is
// treated as a failure of the data source and surfaces as *EnvironmentError.
type Environment interface {
	Grain(key string) (Value, error)
	Pillar(key string) (Value, error)
	CallModule(module, function string) (Value, error)
}

// binaryOp applies an operator to two evaluated operands.
type binaryOp func(op string, left, right Value) (Value, error)

// operators is the dispatch table for every symbol the parser accepts.
var operators = map[string]binaryOp{
	">":   orderedOp(func(l, r int64) bool { return l > r }),
	"<":   orderedOp(func(l, r int64) bool { return l < r }),
	">=":  orderedOp(func(l, r int64) bool { return l >= r }),
	"<=":  orderedOp(func(l, r int64) bool { return l <= r }),
	"==":  equalOp,
	"=~":  regexOp,
	"and": logicalOp(func(l, r bool) bool { return l && r }),
	"or":  logicalOp(func(l, r bool) bool { return l || r }),
}

func orderedOp(cmp func(l, r int64) bool) binaryOp {
	return func(op string, left, right Value) (Value, error) {
		l, lok := left.Int()
		r, rok := right.Int()
		if !lok || !rok {
			return Absent, &TypeError{Op: op, Left: left.Kind(), Right: right.Kind()}
		}
		return Boolean(cmp(l, r)), nil
	}
}

func equalOp(_ string, left, right Value) (Value, error) {
	return Boolean(left.Equal(right)), nil
}

func regexOp(op string, left, right Value) (Value, error) {
	s, lok := left.Str()
	pattern, rok := right.Str()
	if !lok || !rok {
		return Absent, &TypeError{Op: op, Left: left.Kind(), Right: right.Kind()}
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Absent, &PatternError{Pattern: pattern, Err: err}
	}
	return Boolean(re.MatchString(s)), nil
}

func logicalOp(combine func(l, r bool) bool) binaryOp {
	return func(_ string, left, right Value) (Value, error) {
		return Boolean(combine(left.Truthy(), right.Truthy())), nil
	}
}

// Apply evaluates a single operator over two values.
func Apply(op string, left, right Value) (Value, error) {
	fn, ok := operators[op]
	if !ok {
		return Absent, &SemanticError{Symbol: op}
	}
	return fn(op, left, right)
}

// Evaluate reduces n against env. Both operands of every operator are
// evaluated, left first, before the operator is applied; "and" and "or" do
// not short-circuit, so module calls on the right always run.
func Evaluate(n Node, env Environment) (Value, error) {
	switch n := n.(type) {
	case *Literal:
		return n.Value, nil
	case *Group:
		return Evaluate(n.Inner, env)
	case *Reference:
		return resolve(n, env)
	case *Comparison:
		return evaluateBinary(n.Op, n.Left, n.Right, env)
	case *Logical:
		return evaluateBinary(n.Op, n.Left, n.Right, env)
	case nil:
		return Absent, &SyntaxError{Expected: "expression"}
	default:
		return Absent, fmt.Errorf("unsupported node %T", n)
	}
}

func evaluateBinary(op string, leftNode, rightNode Node, env Environment) (Value, error) {
	left, err := Evaluate(leftNode, env)
	if err != nil {
		return Absent, err
	}
	right, err := Evaluate(rightNode, env)
	if err != nil {
		return Absent, err
	}
	return Apply(op, left, right)
}

var errNoEnvironment = errors.New("no environment")

func resolve(ref *Reference, env Environment) (Value, error) {
	if env == nil {
		return Absent, &EnvironmentError{Kind: ref.Kind, Key: ref.Key, Err: errNoEnvironment}
	}

	var (
		v   Value
		err error
	)
	switch ref.Kind {
	case RefGrain:
		v, err = env.Grain(ref.Key)
	case RefPillar:
		v, err = env.Pillar(ref.Key)
	default:
		v, err = env.CallModule(ref.Module, ref.Function)
	}
	if err == nil {
		return v, nil
	}

	var lookupErr *LookupError
	var envErr *EnvironmentError
	if errors.As(err, &lookupErr) || errors.As(err, &envErr) {
		return Absent, err
	}
	return Absent, &EnvironmentError{Kind: ref.Kind, Key: ref.Key, Err: err}
}

// Eval parses input with a fresh Parser and evaluates it against env.
// Errors carry the input and wrap one of the typed errors of this package.
func Eval(input string, env Environment) (Value, error) {
	return EvalWith(NewParser(), input, env)
}

// EvalWith is like Eval but reuses p.
func EvalWith(p *Parser, input string, env Environment) (Value, error) {
	n, err := p.Parse(input)
	if err != nil {
		return Absent, fmt.Errorf("invalid expression %q: %w", input, err)
	}
	v, err := Evaluate(n, env)
	if err != nil {
		return Absent, fmt.Errorf("evaluate %q: %w", input, err)
	}
	return v, nil
}

// Match evaluates input and reports whether the result is truthy.
func Match(input string, env Environment) (bool, error) {
	v, err := Eval(input, env)
	if err != nil {
		return false, err
	}
	return v.Truthy(), nil
}
