package compound

import "strings"

// Lexer is a single-lookahead token stream over one input string.
// It is not safe for concurrent use.
type Lexer struct {
	rules     *RuleTable
	input     string
	consumed  int
	lookahead string
	buffered  bool
	start     int // offset of the most recently emitted token
}

// NewLexer returns a Lexer over input using rules.
func NewLexer(rules *RuleTable, input string) *Lexer {
	l := &Lexer{rules: rules}
	l.SetInput(input)
	return l
}

// SetInput replaces the input and drops any buffered token.
func (l *Lexer) SetInput(input string) {
	l.input = input
	l.consumed = 0
	l.start = 0
	l.lookahead = ""
	l.buffered = false
}

// Remaining returns the input not yet consumed. A buffered token is not part of it.
func (l *Lexer) Remaining() string { return l.input }

// Offset returns the number of bytes consumed so far.
func (l *Lexer) Offset() int { return l.consumed }

// TokenOffset returns the offset at which the most recent token started.
func (l *Lexer) TokenOffset() int { return l.start }

func (l *Lexer) advance(n int) {
	l.input = l.input[n:]
	l.consumed += n
}

func (l *Lexer) skip(matched string) {
	l.advance(len(matched))
	l.lookahead = ""
	l.buffered = false
}

func (l *Lexer) emit(matched string) {
	l.start = l.consumed
	l.advance(len(matched))
	l.lookahead = matched
	l.buffered = true
}

// Peek returns the next token without consuming it. ok is false once the
// input is exhausted.
func (l *Lexer) Peek() (tok string, ok bool, err error) {
	for !l.buffered {
		if l.input == "" {
			return "", false, nil
		}
		rule, matched, found := l.rules.LongestMatch(l.input)
		if !found {
			return "", false, &LexError{Remaining: l.input, Offset: l.consumed}
		}
		if rule.Action == Skip {
			l.skip(matched)
			continue
		}
		l.emit(matched)
	}
	return l.lookahead, true, nil
}

// Next returns the next token and consumes it.
func (l *Lexer) Next() (string, bool, error) {
	tok, ok, err := l.Peek()
	if err != nil || !ok {
		return tok, ok, err
	}
	l.lookahead = ""
	l.buffered = false
	return tok, true, nil
}

// Eat consumes the next token and fails unless it equals expected.
func (l *Lexer) Eat(expected string) error {
	tok, ok, err := l.Next()
	if err != nil {
		return err
	}
	if tok != expected {
		offset := l.start
		if !ok {
			offset = l.consumed
		}
		return &SyntaxError{Expected: expected, Actual: tok, Offset: offset}
	}
	return nil
}

// ReadUntil returns the raw input up to delim, leaving delim unconsumed.
// It is used for quoted literals, whose content is not tokenized.
func (l *Lexer) ReadUntil(delim byte) (string, error) {
	if l.buffered {
		// Only reachable through misuse: the buffered token was already cut from input.
		return "", &SyntaxError{Expected: string(delim), Actual: l.lookahead, Offset: l.consumed}
	}
	i := strings.IndexByte(l.input, delim)
	if i < 0 {
		return "", &SyntaxError{Expected: string(delim), Offset: l.consumed + len(l.input)}
	}
	text := l.input[:i]
	l.advance(i)
	return text, nil
}

// Tokenize returns every token of input. It is a debugging aid.
func Tokenize(rules *RuleTable, input string) ([]string, error) {
	l := NewLexer(rules, input)
	var tokens []string
	for {
		tok, ok, err := l.Next()
		if err != nil {
			return tokens, err
		}
		if !ok {
			return tokens, nil
		}
		tokens = append(tokens, tok)
	}
}
