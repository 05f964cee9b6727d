package compound

import (
	"fmt"
	"strings"
)

// Node is a parsed expression.
type Node interface {
	node()
}

// Literal is a quoted or bare constant.
type Literal struct {
	Value Value
	Quote byte // quote character for quoted literals, 0 for bare ones
}

// Reference resolves against the Environment.
type Reference struct {
	Kind     RefKind
	Key      string // grain or pillar key, or "module.function"
	Module   string // set for RefModule
	Function string // set for RefModule
	Text     string // token as written
}

// Comparison applies one of > < >= <= == =~.
type Comparison struct {
	Op          string
	Left, Right Node
}

// Logical applies and / or.
type Logical struct {
	Op          string
	Left, Right Node
}

// Group is a parenthesised sub-expression.
type Group struct {
	Inner Node
}

func (*Literal) node()    {}
func (*Reference) node()  {}
func (*Comparison) node() {}
func (*Logical) node()    {}
func (*Group) node()      {}

// Format renders n with every binary operation parenthesised, which makes the
// association of a chain explicit: "1 < 2 and 3" formats as "(1 < (2 and 3))".
func Format(n Node) string {
	var b strings.Builder
	format(&b, n)
	return b.String()
}

func format(b *strings.Builder, n Node) {
	switch n := n.(type) {
	case *Literal:
		if n.Quote != 0 {
			b.WriteByte(n.Quote)
			b.WriteString(n.Value.String())
			b.WriteByte(n.Quote)
			return
		}
		b.WriteString(n.Value.String())
	case *Reference:
		b.WriteString(n.Text)
	case *Comparison:
		formatBinary(b, n.Op, n.Left, n.Right)
	case *Logical:
		formatBinary(b, n.Op, n.Left, n.Right)
	case *Group:
		format(b, n.Inner)
	default:
		fmt.Fprintf(b, "<%T>", n)
	}
}

func formatBinary(b *strings.Builder, op string, left, right Node) {
	b.WriteByte('(')
	format(b, left)
	b.WriteString(" " + op + " ")
	format(b, right)
	b.WriteByte(')')
}
