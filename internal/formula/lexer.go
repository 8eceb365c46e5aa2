package formula

import "strconv"

// Tokenize converts formula text into an ordered token sequence.
//
// The scan is a single left-to-right pass over the (ASCII) input. It
// always terminates, and on success the final token is always TokenEOF.
// An unrecognized character or an unterminated string literal fails with
// a SyntaxError carrying the offending offset; no tokens are returned
// alongside an error.
func Tokenize(text string) ([]Token, error) {
	l := &lexer{input: text}
	var tokens []Token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens, nil
		}
	}
}

type lexer struct {
	input string
	pos   int
}

func (l *lexer) next() (Token, error) {
	l.skipWhitespace()
	if l.pos >= len(l.input) {
		return Token{Type: TokenEOF, Pos: l.pos}, nil
	}

	start := l.pos
	ch := l.input[l.pos]

	switch {
	case isDigit(ch):
		return l.scanNumber()
	case ch == '"':
		return l.scanString()
	case isIdentStart(ch):
		return l.scanIdent()
	}

	// Two-character operators first, so "**" is not read as two "*".
	if l.pos+1 < len(l.input) {
		if tt, ok := symbols2[l.input[l.pos:l.pos+2]]; ok {
			l.pos += 2
			return Token{Type: tt, Pos: start}, nil
		}
	}
	if tt, ok := symbols1[ch]; ok {
		l.pos++
		return Token{Type: tt, Pos: start}, nil
	}

	return Token{}, syntaxErrorf(start, "unexpected character %q", string(ch))
}

var symbols2 = map[string]TokenType{
	"**": TokenPower,
	"==": TokenEq,
	"!=": TokenNeq,
	"<=": TokenLte,
	">=": TokenGte,
}

var symbols1 = map[byte]TokenType{
	'+': TokenPlus,
	'-': TokenMinus,
	'*': TokenStar,
	'/': TokenSlash,
	'%': TokenPercent,
	'<': TokenLt,
	'>': TokenGt,
	'(': TokenLParen,
	')': TokenRParen,
	',': TokenComma,
}

func (l *lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		switch l.input[l.pos] {
		case ' ', '\t', '\r', '\n':
			l.pos++
		default:
			return
		}
	}
}

// scanNumber reads an integer or decimal literal. A decimal point must
// be followed by at least one digit ("1." is rejected).
func (l *lexer) scanNumber() (Token, error) {
	start := l.pos
	for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
		l.pos++
	}
	if l.pos+1 < len(l.input) && l.input[l.pos] == '.' && isDigit(l.input[l.pos+1]) {
		l.pos++ // '.'
		for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
			l.pos++
		}
	}
	text := l.input[start:l.pos]
	num, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Token{}, syntaxErrorf(start, "invalid number literal %q", text)
	}
	return Token{Type: TokenNumber, Text: text, Num: num, Pos: start}, nil
}

// scanString reads a double-quoted string literal. Backslash escapes
// \" \\ \n \t are recognized; any other escape keeps the character
// as written. Reaching end of input before the closing quote is a
// syntax error at the opening quote.
func (l *lexer) scanString() (Token, error) {
	start := l.pos
	l.pos++ // opening quote
	var out []byte
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		switch ch {
		case '"':
			l.pos++
			return Token{Type: TokenString, Text: string(out), Pos: start}, nil
		case '\\':
			if l.pos+1 >= len(l.input) {
				return Token{}, syntaxErrorf(start, "unterminated string literal")
			}
			l.pos++
			switch l.input[l.pos] {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			default:
				out = append(out, l.input[l.pos])
			}
			l.pos++
		default:
			out = append(out, ch)
			l.pos++
		}
	}
	return Token{}, syntaxErrorf(start, "unterminated string literal")
}

func (l *lexer) scanIdent() (Token, error) {
	start := l.pos
	for l.pos < len(l.input) && isIdentPart(l.input[l.pos]) {
		l.pos++
	}
	text := l.input[start:l.pos]
	if tt, ok := keywords[text]; ok {
		return Token{Type: tt, Text: text, Pos: start}, nil
	}
	return Token{Type: TokenIdent, Text: text, Pos: start}, nil
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}
