package formula

import "fmt"

// TokenType identifies the lexical class of a token.
type TokenType int

const (
	TokenEOF TokenType = iota

	// Literals and names
	TokenNumber
	TokenString
	TokenIdent

	// Keywords
	TokenTrue
	TokenFalse
	TokenNull
	TokenAnd
	TokenOr
	TokenNot

	// Operators
	TokenPlus    // +
	TokenMinus   // -
	TokenStar    // *
	TokenSlash   // /
	TokenPercent // %
	TokenPower   // **
	TokenEq      // ==
	TokenNeq     // !=
	TokenLt      // <
	TokenLte     // <=
	TokenGt      // >
	TokenGte     // >=

	// Punctuation
	TokenLParen // (
	TokenRParen // )
	TokenComma  // ,
)

var tokenNames = map[TokenType]string{
	TokenEOF:     "end of formula",
	TokenNumber:  "number",
	TokenString:  "string",
	TokenIdent:   "identifier",
	TokenTrue:    "true",
	TokenFalse:   "false",
	TokenNull:    "null",
	TokenAnd:     "and",
	TokenOr:      "or",
	TokenNot:     "not",
	TokenPlus:    "+",
	TokenMinus:   "-",
	TokenStar:    "*",
	TokenSlash:   "/",
	TokenPercent: "%",
	TokenPower:   "**",
	TokenEq:      "==",
	TokenNeq:     "!=",
	TokenLt:      "<",
	TokenLte:     "<=",
	TokenGt:      ">",
	TokenGte:     ">=",
	TokenLParen:  "(",
	TokenRParen:  ")",
	TokenComma:   ",",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("token(%d)", int(t))
}

// Token is a single lexical unit of a formula.
//
// Tokens are immutable: the tokenizer produces them in order and the
// parser consumes them exactly once.
type Token struct {
	Type TokenType
	Text string  // raw text for identifiers and string literals
	Num  float64 // parsed value for number literals
	Pos  int     // character offset in the formula text
}

// keywords maps reserved identifier spellings to their token types.
var keywords = map[string]TokenType{
	"true":  TokenTrue,
	"false": TokenFalse,
	"null":  TokenNull,
	"and":   TokenAnd,
	"or":    TokenOr,
	"not":   TokenNot,
}
