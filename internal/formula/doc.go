// Package formula implements the formula language front end: tokenizer,
// recursive-descent parser, the AST, and field-reference extraction.
//
// The grammar, lowest to highest precedence:
//
//	or
//	and
//	not
//	== != < <= > >=   (non-associative in practice; chains fail at eval)
//	+ -
//	* / %
//	**                (right-associative)
//	unary + -
//	literals, field refs, calls, parenthesized expressions
//
// Parsing is pure syntax: unknown functions and undefined fields are
// evaluation-time concerns, so the same AST can be validated, ordered,
// and evaluated without re-parsing.
package formula
