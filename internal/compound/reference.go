package compound

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Grammar for the inside of a reference token such as grains['os'],
// pillar[apache:port] or salt[test.ping].

type referenceExpr struct {
	Kind string   `parser:"@Ident '['"`
	Key  *keyExpr `parser:"@@ ']'"`
}

type keyExpr struct {
	Quoted *string  `parser:"  @String"`
	Path   []string `parser:"| @Ident ( @Sep @Ident )*"`
}

var referenceLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "String", Pattern: `'[^']*'|"[^"]*"`},
	{Name: "Sep", Pattern: `[.:]`},
	{Name: "Ident", Pattern: `[^\s'"\[\].:]+`},
	{Name: "Punct", Pattern: `[\[\]]`},
})

var referenceParser = participle.MustBuild[referenceExpr](
	participle.Lexer(referenceLexer),
	participle.Elide("Whitespace"),
)

var referenceKinds = map[string]RefKind{
	"grains": RefGrain,
	"pillar": RefPillar,
	"salt":   RefModule,
}

// parseReference decomposes a reference token emitted by the lexer.
func parseReference(text string, offset int) (*Reference, error) {
	ast, err := referenceParser.ParseString("", text)
	if err != nil {
		return nil, &SyntaxError{Expected: "reference", Actual: text, Offset: offset}
	}

	kind, ok := referenceKinds[ast.Kind]
	if !ok {
		return nil, &SyntaxError{Expected: "grains, pillar or salt", Actual: ast.Kind, Offset: offset}
	}

	var key string
	if ast.Key.Quoted != nil {
		key = unquote(*ast.Key.Quoted)
	} else {
		key = strings.Join(ast.Key.Path, "")
	}
	if key == "" {
		return nil, &SyntaxError{Expected: "key", Actual: text, Offset: offset}
	}

	ref := &Reference{Kind: kind, Key: key, Text: text}
	if kind == RefModule {
		module, function, found := strings.Cut(key, ".")
		if !found || module == "" || function == "" {
			return nil, &SyntaxError{Expected: "module.function", Actual: text, Offset: offset}
		}
		ref.Module, ref.Function = module, function
	}
	return ref, nil
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '\'' || s[0] == '"') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
