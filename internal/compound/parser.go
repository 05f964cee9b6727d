package compound

import (
	"regexp"
	"strconv"
)

// Parser turns an expression into a Node tree using a recursive descent over
// the grammar
//
//	Exp    ::= Term Symbol Exp | Term
//	Term   ::= "(" Exp ")" | Quoted | Factor
//	Quoted ::= "'" Literal "'" | '"' Literal '"'
//	Factor ::= grains[Key] | salt[Module.Function] | pillar[Key] | Bare
//	Symbol ::= ">" | "<" | ">=" | "<=" | "and" | "or" | "==" | "=~"
//
// Chains are right-associative and there is no precedence: "a op1 b op2 c"
// parses as "a op1 (b op2 c)".
//
// A Parser reuses its Lexer between calls and is not safe for concurrent use.
type Parser struct {
	rules *RuleTable
	lex   *Lexer
}

// NewParser returns a Parser owning a fresh copy of the default rules.
func NewParser() *Parser {
	return NewParserWithRules(DefaultRules())
}

// NewParserWithRules returns a Parser over rules. The table is only read, so
// one table may back many parsers.
func NewParserWithRules(rules *RuleTable) *Parser {
	return &Parser{rules: rules}
}

// symbols is the whitelist consulted by parseSymbol.
var symbols = map[string]bool{
	">": true, "<": true, ">=": true, "<=": true,
	"==": true, "=~": true,
	"and": true, "or": true,
}

var (
	referenceToken = regexp.MustCompile(`^(grains|salt|pillar)\[`)
	integerToken   = regexp.MustCompile(`^[0-9]+$`)
	bareToken      = regexp.MustCompile(`^[A-Za-z0-9]+$`)
)

// Parse parses exactly one expression spanning the whole input.
func (p *Parser) Parse(input string) (Node, error) {
	if p.lex == nil {
		p.lex = NewLexer(p.rules, input)
	} else {
		p.lex.SetInput(input)
	}

	n, err := p.parseExp()
	if err != nil {
		return nil, err
	}

	tok, ok, err := p.lex.Peek()
	if err != nil {
		return nil, err
	}
	if ok {
		return nil, &SyntaxError{Expected: "end of input", Actual: tok, Offset: p.lex.TokenOffset()}
	}
	return n, nil
}

func (p *Parser) parseExp() (Node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}

	op, ok, err := p.parseSymbol()
	if err != nil {
		return nil, err
	}
	if !ok {
		return left, nil
	}

	right, err := p.parseExp()
	if err != nil {
		return nil, err
	}

	if op == "and" || op == "or" {
		return &Logical{Op: op, Left: left, Right: right}, nil
	}
	return &Comparison{Op: op, Left: left, Right: right}, nil
}

func (p *Parser) parseTerm() (Node, error) {
	tok, ok, err := p.lex.Peek()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &SyntaxError{Expected: "expression", Offset: p.lex.Offset()}
	}

	switch tok {
	case "(":
		if err := p.lex.Eat("("); err != nil {
			return nil, err
		}
		inner, err := p.parseExp()
		if err != nil {
			return nil, err
		}
		if err := p.lex.Eat(")"); err != nil {
			return nil, err
		}
		return &Group{Inner: inner}, nil

	case "'", `"`:
		if err := p.lex.Eat(tok); err != nil {
			return nil, err
		}
		text, err := p.lex.ReadUntil(tok[0])
		if err != nil {
			return nil, err
		}
		if err := p.lex.Eat(tok); err != nil {
			return nil, err
		}
		return &Literal{Value: String(text), Quote: tok[0]}, nil
	}

	return p.parseFactor()
}

func (p *Parser) parseFactor() (Node, error) {
	tok, _, err := p.lex.Next()
	if err != nil {
		return nil, err
	}
	offset := p.lex.TokenOffset()

	switch {
	case referenceToken.MatchString(tok):
		return parseReference(tok, offset)

	case integerToken.MatchString(tok):
		i, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			return nil, &SyntaxError{Expected: "integer", Actual: tok, Offset: offset}
		}
		return &Literal{Value: Integer(i)}, nil

	case bareToken.MatchString(tok):
		return &Literal{Value: String(tok)}, nil
	}

	return nil, &SyntaxError{Expected: "expression", Actual: tok, Offset: offset}
}

// parseSymbol consumes the next token only when it is a known operator.
func (p *Parser) parseSymbol() (string, bool, error) {
	tok, ok, err := p.lex.Peek()
	if err != nil || !ok {
		return "", false, err
	}
	if !symbols[tok] {
		return "", false, nil
	}
	if err := p.lex.Eat(tok); err != nil {
		return "", false, err
	}
	return tok, true, nil
}
