package formula

import (
	"fmt"
	"strings"

	"github.com/roach88/fieldcalc/internal/ir"
)

// Node is the sealed interface over the closed set of AST variants.
// Only Literal, FieldRef, Unary, Binary, and Call implement it.
//
// An AST is a tree (no cycles, no back-references) and is immutable
// after the parser returns it, so a single AST can be shared read-only
// across many concurrent evaluations.
type Node interface {
	node() // Sealed - only these types implement it

	// Pos returns the character offset of the node in the formula text.
	Pos() int

	// String renders the node back to formula syntax, fully
	// parenthesized. Used for diagnostics and golden tests; the output
	// is not guaranteed to be byte-identical to the source text.
	String() string
}

// Op identifies a unary or binary operator.
type Op string

const (
	OpOr  Op = "or"
	OpAnd Op = "and"
	OpNot Op = "not"
	OpEq  Op = "=="
	OpNeq Op = "!="
	OpLt  Op = "<"
	OpLte Op = "<="
	OpGt  Op = ">"
	OpGte Op = ">="
	OpAdd Op = "+"
	OpSub Op = "-"
	OpMul Op = "*"
	OpDiv Op = "/"
	OpMod Op = "%"
	OpPow Op = "**"
)

// Literal is a number, text, boolean, or null constant.
type Literal struct {
	Value    ir.Value
	Position int
}

func (*Literal) node() {}
func (n *Literal) Pos() int { return n.Position }

func (n *Literal) String() string {
	switch v := n.Value.(type) {
	case ir.Text:
		return fmt.Sprintf("%q", string(v))
	case ir.Null:
		return "null"
	default:
		return ir.Render(n.Value)
	}
}

// FieldRef is an identifier read from the field snapshot. An identifier
// immediately followed by "(" is a Call instead.
type FieldRef struct {
	Name     string
	Position int
}

func (*FieldRef) node() {}
func (n *FieldRef) Pos() int { return n.Position }
func (n *FieldRef) String() string { return n.Name }

// Unary is a prefix operator application (+, -, not).
type Unary struct {
	Op       Op
	Operand  Node
	Position int
}

func (*Unary) node() {}
func (n *Unary) Pos() int { return n.Position }

func (n *Unary) String() string {
	if n.Op == OpNot {
		return fmt.Sprintf("(not %s)", n.Operand)
	}
	return fmt.Sprintf("(%s%s)", n.Op, n.Operand)
}

// Binary is an infix operator application.
type Binary struct {
	Op       Op
	Left     Node
	Right    Node
	Position int
}

func (*Binary) node() {}
func (n *Binary) Pos() int { return n.Position }

func (n *Binary) String() string {
	return fmt.Sprintf("(%s %s %s)", n.Left, n.Op, n.Right)
}

// Call is a function invocation with an ordered, possibly empty
// argument list.
type Call struct {
	Name     string
	Args     []Node
	Position int
}

func (*Call) node() {}
func (n *Call) Pos() int { return n.Position }

func (n *Call) String() string {
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", n.Name, strings.Join(args, ", "))
}
