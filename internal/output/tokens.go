package output

import (
	"encoding/json"
	"strconv"
)

// TokenList implements Formatter for a lexer token dump.
type TokenList struct {
	Tokens []string
}

// FormatText returns one numbered token per row.
func (l *TokenList) FormatText() string {
	if len(l.Tokens) == 0 {
		return ""
	}
	tw := NewTableWriter()
	tw.Header("#", "TOKEN")
	for i, tok := range l.Tokens {
		tw.Row(itoa(i), tok)
	}
	return tw.String()
}

// FormatJSON returns the tokens as a JSON array.
func (l *TokenList) FormatJSON() ([]byte, error) {
	if len(l.Tokens) == 0 {
		return []byte("[]"), nil
	}
	return json.MarshalIndent(l.Tokens, "", "  ")
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
