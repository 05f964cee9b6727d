package compound

import (
	"errors"
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"grain comparison", "grains['os'] == 'Ubuntu'", []string{"grains['os']", "==", "'", "Ubuntu", "'"}},
		{"no spaces", "5>3", []string{"5", ">", "3"}},
		{"parens and logic", "(1 < 2) and pillar[role]", []string{"(", "1", "<", "2", ")", "and", "pillar[role]"}},
		{"module call", `salt[test.ping] == "True"`, []string{"salt[test.ping]", "==", `"`, "True", `"`}},
		{"leading and trailing space", "  x  ", []string{"x"}},
		{"empty", "", nil},
		{"only whitespace", " \t\n", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tokenize(DefaultRules(), tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestLexerPeekDoesNotConsume(t *testing.T) {
	l := NewLexer(DefaultRules(), "a  b")

	for i := 0; i < 3; i++ {
		tok, ok, err := l.Peek()
		if err != nil || !ok || tok != "a" {
			t.Fatalf("Peek() = %q, %v, %v; want a", tok, ok, err)
		}
	}
	// The buffered token has already been cut from the remaining input.
	if got := l.Remaining(); got != "  b" {
		t.Errorf("Remaining() = %q, want %q", got, "  b")
	}

	tok, _, _ := l.Next()
	if tok != "a" {
		t.Errorf("Next() = %q, want a", tok)
	}
	tok, _, _ = l.Next()
	if tok != "b" {
		t.Errorf("Next() = %q, want b", tok)
	}
	tok, ok, err := l.Next()
	if tok != "" || ok || err != nil {
		t.Errorf("Next() at end = %q, %v, %v; want no token and no error", tok, ok, err)
	}
}

func TestLexerLexError(t *testing.T) {
	l := NewLexer(DefaultRules(), "1 != 2")
	if _, _, err := l.Next(); err != nil {
		t.Fatal(err)
	}

	_, _, err := l.Peek()
	var lexErr *LexError
	if !errors.As(err, &lexErr) {
		t.Fatalf("Peek() error = %v, want *LexError", err)
	}
	if lexErr.Remaining != "!= 2" {
		t.Errorf("Remaining = %q, want %q", lexErr.Remaining, "!= 2")
	}
	if lexErr.Offset != 2 {
		t.Errorf("Offset = %d, want 2", lexErr.Offset)
	}
}

func TestLexerEat(t *testing.T) {
	l := NewLexer(DefaultRules(), "( x )")
	if err := l.Eat("("); err != nil {
		t.Fatalf("Eat(() = %v", err)
	}
	if err := l.Eat("x"); err != nil {
		t.Fatalf("Eat(x) = %v", err)
	}
	if err := l.Eat(")"); err != nil {
		t.Fatalf("Eat()) = %v", err)
	}
}

func TestLexerEatMismatch(t *testing.T) {
	l := NewLexer(DefaultRules(), "a b c")

	err := l.Eat("x")
	var syntaxErr *SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("Eat() error = %v, want *SyntaxError", err)
	}
	if syntaxErr.Expected != "x" || syntaxErr.Actual != "a" {
		t.Errorf("SyntaxError = %+v, want expected x, actual a", syntaxErr)
	}
	// Only the single token taken by Next is gone.
	if got := l.Remaining(); got != " b c" {
		t.Errorf("Remaining() = %q, want %q", got, " b c")
	}

	err = l.Eat("x")
	if !errors.As(err, &syntaxErr) || syntaxErr.Actual != "b" {
		t.Errorf("second Eat() error = %v, want actual b", err)
	}
}

func TestLexerEatAtEndIsDeterministic(t *testing.T) {
	l := NewLexer(DefaultRules(), "a")
	_, _, _ = l.Next()

	first := l.Eat(")")
	second := l.Eat(")")
	if first == nil || second == nil {
		t.Fatal("expected errors at end of input")
	}
	if first.Error() != second.Error() {
		t.Errorf("errors differ: %q vs %q", first, second)
	}
	var syntaxErr *SyntaxError
	if !errors.As(first, &syntaxErr) || syntaxErr.Actual != "" || syntaxErr.Expected != ")" {
		t.Errorf("error = %v, want expected ) at end of input", first)
	}
}

func TestLexerSetInputResetsLookahead(t *testing.T) {
	l := NewLexer(DefaultRules(), "first second")
	if tok, _, _ := l.Peek(); tok != "first" {
		t.Fatalf("Peek() = %q", tok)
	}

	l.SetInput("other")
	tok, _, _ := l.Next()
	if tok != "other" {
		t.Errorf("Next() after SetInput = %q, want other", tok)
	}
	if l.Offset() != len("other") {
		t.Errorf("Offset() = %d, want %d", l.Offset(), len("other"))
	}
}

func TestLexerReadUntil(t *testing.T) {
	l := NewLexer(DefaultRules(), "'10.0.0.1 /24' rest")
	if err := l.Eat("'"); err != nil {
		t.Fatal(err)
	}

	text, err := l.ReadUntil('\'')
	if err != nil {
		t.Fatal(err)
	}
	if text != "10.0.0.1 /24" {
		t.Errorf("ReadUntil = %q, want %q", text, "10.0.0.1 /24")
	}
	if err := l.Eat("'"); err != nil {
		t.Errorf("closing quote: %v", err)
	}
	if tok, _, _ := l.Next(); tok != "rest" {
		t.Errorf("Next() = %q, want rest", tok)
	}
}

func TestLexerReadUntilUnterminated(t *testing.T) {
	l := NewLexer(DefaultRules(), `"open`)
	_, _, _ = l.Next()

	_, err := l.ReadUntil('"')
	var syntaxErr *SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("error = %v, want *SyntaxError", err)
	}
	if syntaxErr.Expected != `"` || syntaxErr.Actual != "" {
		t.Errorf("SyntaxError = %+v", syntaxErr)
	}
}
