package compound

import (
	"errors"
	"strings"
	"testing"
)

// fakeEnv is a map-backed Environment that records every lookup.
type fakeEnv struct {
	grains  map[string]Value
	pillar  map[string]Value
	modules map[string]Value
	failing map[string]error
	calls   []string
}

func (e *fakeEnv) Grain(key string) (Value, error) {
	e.calls = append(e.calls, "grain:"+key)
	if v, ok := e.grains[key]; ok {
		return v, nil
	}
	return Absent, &LookupError{Kind: RefGrain, Key: key}
}

func (e *fakeEnv) Pillar(key string) (Value, error) {
	e.calls = append(e.calls, "pillar:"+key)
	if v, ok := e.pillar[key]; ok {
		return v, nil
	}
	return Absent, &LookupError{Kind: RefPillar, Key: key}
}

func (e *fakeEnv) CallModule(module, function string) (Value, error) {
	name := module + "." + function
	e.calls = append(e.calls, "module:"+name)
	if err, ok := e.failing[name]; ok {
		return Absent, err
	}
	if v, ok := e.modules[name]; ok {
		return v, nil
	}
	return Absent, &LookupError{Kind: RefModule, Key: name}
}

func newFakeEnv() *fakeEnv {
	return &fakeEnv{
		grains: map[string]Value{
			"os":       String("Ubuntu"),
			"num_cpus": Integer(4),
			"virtual":  Absent,
			"selinux":  Boolean(false),
		},
		pillar: map[string]Value{
			"role":        String("web"),
			"apache:port": Integer(80),
		},
		modules: map[string]Value{
			"test.ping":   Boolean(true),
			"pkg.version": String("2.4.52"),
		},
		failing: map[string]error{
			"cmd.run": errors.New("connection refused"),
		},
	}
}

func TestEval(t *testing.T) {
	tests := []struct {
		input string
		want  Value
	}{
		// Literals and ordering
		{"5 > 3", Boolean(true)},
		{"3 > 5", Boolean(false)},
		{"3 >= 3", Boolean(true)},
		{"2 <= 1", Boolean(false)},
		{"1 < 2", Boolean(true)},
		{"42", Integer(42)},
		{"'Ubuntu'", String("Ubuntu")},

		// References
		{"grains['os']", String("Ubuntu")},
		{"grains['os'] == 'Ubuntu'", Boolean(true)},
		{"grains['os'] == 'Debian'", Boolean(false)},
		{"grains['num_cpus'] >= 4", Boolean(true)},
		{"grains['num_cpus'] == 4", Boolean(true)},
		{"grains['num_cpus'] == '4'", Boolean(false)},
		{"pillar['role'] == web", Boolean(true)},
		{"pillar['apache:port'] < 1024", Boolean(true)},
		{"salt[test.ping]", Boolean(true)},
		{"salt['pkg.version'] =~ '^2\\.4'", Boolean(true)},
		{"grains['os'] =~ 'bunt'", Boolean(true)},
		{"grains['os'] =~ '^Deb'", Boolean(false)},

		// Absent only equals Absent
		{"grains['virtual'] == ''", Boolean(false)},
		{"grains['virtual'] == grains['virtual']", Boolean(true)},
		{"grains['virtual'] or 0", Boolean(false)},

		// Logical with truthiness
		{"1 and 1", Boolean(true)},
		{"0 or ''", Boolean(false)},
		{"grains['selinux'] or salt[test.ping]", Boolean(true)},
		{"(grains['os'] == 'Ubuntu') and (pillar['role'] == 'web')", Boolean(true)},
		{"(grains['os'] == 'Ubuntu') and (pillar['role'] == 'db')", Boolean(false)},
		{"(5 > 3) == (2 > 1)", Boolean(true)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Eval(tt.input, newFakeEnv())
			if err != nil {
				t.Fatalf("Eval(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Eval(%q) = %v (%s), want %v (%s)", tt.input, got, got.Kind(), tt.want, tt.want.Kind())
			}
		})
	}
}

// "1 < 2 and 2 < 3" is a right-associative chain: 1 < (2 and (2 < 3)).
// The right side reduces to Boolean true, so the outer < sees an Integer and
// a Boolean and must fail rather than behave like a precedence-aware parser.
func TestEvalRightAssociativeChain(t *testing.T) {
	env := newFakeEnv()

	inner, err := Eval("2 and 2 < 3", env)
	if err != nil {
		t.Fatal(err)
	}
	if inner != Boolean(true) {
		t.Fatalf("2 and 2 < 3 = %v, want true", inner)
	}

	_, err = Eval("1 < 2 and 2 < 3", env)
	var typeErr *TypeError
	if !errors.As(err, &typeErr) {
		t.Fatalf("error = %v, want *TypeError", err)
	}
	if typeErr.Op != "<" || typeErr.Left != KindInteger || typeErr.Right != KindBoolean {
		t.Errorf("TypeError = %+v, want < integer boolean", typeErr)
	}

	// Grouping restores the reading a precedence table would give.
	got, err := Eval("(1 < 2) and (2 < 3)", env)
	if err != nil {
		t.Fatal(err)
	}
	if got != Boolean(true) {
		t.Errorf("(1 < 2) and (2 < 3) = %v, want true", got)
	}
}

func TestEvalTypeErrors(t *testing.T) {
	tests := []struct {
		input string
		op    string
		left  Kind
		right Kind
	}{
		{"'a' > 'b'", ">", KindString, KindString},
		{"grains['os'] < 5", "<", KindString, KindInteger},
		{"grains['virtual'] >= 1", ">=", KindAbsent, KindInteger},
		{"5 =~ '5'", "=~", KindInteger, KindString},
		{"grains['os'] =~ salt[test.ping]", "=~", KindString, KindBoolean},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Eval(tt.input, newFakeEnv())
			var typeErr *TypeError
			if !errors.As(err, &typeErr) {
				t.Fatalf("error = %v, want *TypeError", err)
			}
			if typeErr.Op != tt.op || typeErr.Left != tt.left || typeErr.Right != tt.right {
				t.Errorf("TypeError = %+v", typeErr)
			}
		})
	}
}

func TestEvalLookupErrorSurfaces(t *testing.T) {
	env := newFakeEnv()
	delete(env.grains, "os")

	_, err := Eval("grains['os'] == 'Ubuntu'", env)
	var lookupErr *LookupError
	if !errors.As(err, &lookupErr) {
		t.Fatalf("error = %v, want *LookupError", err)
	}
	if lookupErr.Kind != RefGrain || lookupErr.Key != "os" {
		t.Errorf("LookupError = %+v, want grain os", lookupErr)
	}
	if !strings.Contains(err.Error(), "grains['os'] == 'Ubuntu'") {
		t.Errorf("error %q should name the input", err)
	}

	var envErr *EnvironmentError
	if errors.As(err, &envErr) {
		t.Errorf("lookup error must not be wrapped as EnvironmentError: %v", err)
	}
}

func TestEvalEnvironmentError(t *testing.T) {
	_, err := Eval("salt[cmd.run] == 'ok'", newFakeEnv())
	var envErr *EnvironmentError
	if !errors.As(err, &envErr) {
		t.Fatalf("error = %v, want *EnvironmentError", err)
	}
	if envErr.Kind != RefModule || envErr.Key != "cmd.run" {
		t.Errorf("EnvironmentError = %+v", envErr)
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("error %q should carry the cause", err)
	}
}

func TestEvalNilEnvironment(t *testing.T) {
	if v, err := Eval("5 > 3", nil); err != nil || v != Boolean(true) {
		t.Errorf("literal expression without environment = %v, %v", v, err)
	}
	_, err := Eval("grains['os']", nil)
	var envErr *EnvironmentError
	if !errors.As(err, &envErr) {
		t.Errorf("error = %v, want *EnvironmentError", err)
	}
}

func TestEvalPatternError(t *testing.T) {
	_, err := Eval("grains['os'] =~ '('", newFakeEnv())
	var patternErr *PatternError
	if !errors.As(err, &patternErr) {
		t.Fatalf("error = %v, want *PatternError", err)
	}
	if patternErr.Pattern != "(" {
		t.Errorf("Pattern = %q", patternErr.Pattern)
	}
}

// and/or evaluate both sides; lookups on the right run even when the left
// already decides the result.
func TestEvalLogicalIsEager(t *testing.T) {
	tests := []struct {
		input string
		want  bool
		calls []string
	}{
		{"grains['selinux'] and salt[test.ping]", false, []string{"grain:selinux", "module:test.ping"}},
		{"salt[test.ping] or pillar['role']", true, []string{"module:test.ping", "pillar:role"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			env := newFakeEnv()
			got, err := Match(tt.input, env)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Match = %v, want %v", got, tt.want)
			}
			if strings.Join(env.calls, ",") != strings.Join(tt.calls, ",") {
				t.Errorf("calls = %v, want %v", env.calls, tt.calls)
			}
		})
	}

	// A failing lookup on the right aborts even when the left is false.
	_, err := Eval("grains['selinux'] and grains['missing']", newFakeEnv())
	var lookupErr *LookupError
	if !errors.As(err, &lookupErr) || lookupErr.Key != "missing" {
		t.Errorf("error = %v, want lookup of missing", err)
	}
}

func TestApplySemanticError(t *testing.T) {
	_, err := Apply("!=", Integer(1), Integer(2))
	var semErr *SemanticError
	if !errors.As(err, &semErr) {
		t.Fatalf("error = %v, want *SemanticError", err)
	}
	if semErr.Symbol != "!=" {
		t.Errorf("Symbol = %q", semErr.Symbol)
	}

	// A hand-built tree carrying an operator the parser would never accept.
	n := &Comparison{Op: "<>", Left: &Literal{Value: Integer(1)}, Right: &Literal{Value: Integer(2)}}
	if _, err := Evaluate(n, nil); !errors.As(err, &semErr) {
		t.Errorf("Evaluate error = %v, want *SemanticError", err)
	}
}

func TestEvaluateReusesTree(t *testing.T) {
	n, err := NewParser().Parse("grains['os'] == 'Ubuntu'")
	if err != nil {
		t.Fatal(err)
	}

	ubuntu := newFakeEnv()
	debian := newFakeEnv()
	debian.grains["os"] = String("Debian")

	if v, _ := Evaluate(n, ubuntu); v != Boolean(true) {
		t.Errorf("ubuntu = %v, want true", v)
	}
	if v, _ := Evaluate(n, debian); v != Boolean(false) {
		t.Errorf("debian = %v, want false", v)
	}
}

func TestMatchTruthiness(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"grains['os']", true},
		{"grains['virtual']", false},
		{"0", false},
		{"''", false},
		{"grains['num_cpus']", true},
	}
	for _, tt := range tests {
		got, err := Match(tt.input, newFakeEnv())
		if err != nil {
			t.Fatalf("Match(%q): %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("Match(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
