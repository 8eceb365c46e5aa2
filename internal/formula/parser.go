package formula

import (
	"github.com/roach88/fieldcalc/internal/ir"
)

// Parse tokenizes and parses formula text into an AST.
//
// The grammar is parsed by recursive descent with one function per
// precedence level, lowest binding first:
//
//	or                      left-assoc
//	and                     left-assoc
//	not                     prefix
//	== != < <= > >=         left-assoc
//	+ -                     left-assoc
//	* / %                   left-assoc
//	**                      right-assoc
//	unary + -               prefix
//	primary                 literal | field | call | ( expr )
//
// Parse never returns a partial tree: any syntax error (including an
// empty formula and trailing tokens after a complete expression) fails
// the whole parse. Parsing the same text twice yields structurally
// identical ASTs.
func Parse(text string) (Node, error) {
	tokens, err := Tokenize(text)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	if p.peek().Type == TokenEOF {
		return nil, syntaxErrorf(0, "empty formula")
	}
	root, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Type != TokenEOF {
		return nil, syntaxErrorf(tok.Pos, "unexpected token %s after expression", tok.Type)
	}
	return root, nil
}

// MustParse parses text and panics on error. For tests and fixtures.
func MustParse(text string) Node {
	n, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return n
}

type parser struct {
	tokens []Token
	pos    int
}

func (p *parser) peek() Token {
	return p.tokens[p.pos]
}

func (p *parser) advance() Token {
	tok := p.tokens[p.pos]
	if tok.Type != TokenEOF {
		p.pos++
	}
	return tok
}

// accept consumes and returns true if the next token has the given type.
func (p *parser) accept(tt TokenType) (Token, bool) {
	if p.peek().Type == tt {
		return p.advance(), true
	}
	return Token{}, false
}

func (p *parser) expect(tt TokenType) (Token, error) {
	tok := p.peek()
	if tok.Type != tt {
		return Token{}, syntaxErrorf(tok.Pos, "expected %s, found %s", tt, tok.Type)
	}
	return p.advance(), nil
}

func (p *parser) parseOr() (Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.accept(TokenOr)
		if !ok {
			return left, nil
		}
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: OpOr, Left: left, Right: right, Position: tok.Pos}
	}
}

func (p *parser) parseAnd() (Node, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.accept(TokenAnd)
		if !ok {
			return left, nil
		}
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: OpAnd, Left: left, Right: right, Position: tok.Pos}
	}
}

func (p *parser) parseNot() (Node, error) {
	if tok, ok := p.accept(TokenNot); ok {
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &Unary{Op: OpNot, Operand: operand, Position: tok.Pos}, nil
	}
	return p.parseComparison()
}

var comparisonOps = map[TokenType]Op{
	TokenEq:  OpEq,
	TokenNeq: OpNeq,
	TokenLt:  OpLt,
	TokenLte: OpLte,
	TokenGt:  OpGt,
	TokenGte: OpGte,
}

func (p *parser) parseComparison() (Node, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := comparisonOps[p.peek().Type]
		if !ok {
			return left, nil
		}
		tok := p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		// Comparisons do not chain semantically: "a < b < c" parses
		// as "(a < b) < c" and fails at evaluation with a type error.
		left = &Binary{Op: op, Left: left, Right: right, Position: tok.Pos}
	}
}

func (p *parser) parseAdditive() (Node, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		var op Op
		switch p.peek().Type {
		case TokenPlus:
			op = OpAdd
		case TokenMinus:
			op = OpSub
		default:
			return left, nil
		}
		tok := p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, Left: left, Right: right, Position: tok.Pos}
	}
}

func (p *parser) parseMultiplicative() (Node, error) {
	left, err := p.parsePower()
	if err != nil {
		return nil, err
	}
	for {
		var op Op
		switch p.peek().Type {
		case TokenStar:
			op = OpMul
		case TokenSlash:
			op = OpDiv
		case TokenPercent:
			op = OpMod
		default:
			return left, nil
		}
		tok := p.advance()
		right, err := p.parsePower()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, Left: left, Right: right, Position: tok.Pos}
	}
}

// parsePower handles "**", which is right-associative: 2 ** 3 ** 2
// parses as 2 ** (3 ** 2).
func (p *parser) parsePower() (Node, error) {
	base, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	tok, ok := p.accept(TokenPower)
	if !ok {
		return base, nil
	}
	exp, err := p.parsePower()
	if err != nil {
		return nil, err
	}
	return &Binary{Op: OpPow, Left: base, Right: exp, Position: tok.Pos}, nil
}

func (p *parser) parseUnary() (Node, error) {
	switch p.peek().Type {
	case TokenPlus:
		tok := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Unary{Op: OpAdd, Operand: operand, Position: tok.Pos}, nil
	case TokenMinus:
		tok := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Unary{Op: OpSub, Operand: operand, Position: tok.Pos}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Node, error) {
	tok := p.peek()
	switch tok.Type {
	case TokenNumber:
		p.advance()
		return &Literal{Value: ir.Number(tok.Num), Position: tok.Pos}, nil
	case TokenString:
		p.advance()
		return &Literal{Value: ir.Text(tok.Text), Position: tok.Pos}, nil
	case TokenTrue:
		p.advance()
		return &Literal{Value: ir.Bool(true), Position: tok.Pos}, nil
	case TokenFalse:
		p.advance()
		return &Literal{Value: ir.Bool(false), Position: tok.Pos}, nil
	case TokenNull:
		p.advance()
		return &Literal{Value: ir.Null{}, Position: tok.Pos}, nil
	case TokenIdent:
		p.advance()
		if _, ok := p.accept(TokenLParen); ok {
			return p.parseCallArgs(tok)
		}
		return &FieldRef{Name: tok.Text, Position: tok.Pos}, nil
	case TokenLParen:
		p.advance()
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
		return inner, nil
	}
	return nil, syntaxErrorf(tok.Pos, "unexpected token %s", tok.Type)
}

// parseCallArgs parses the argument list of a function call. The
// opening parenthesis has already been consumed. Each argument is a
// full expression at any precedence level.
func (p *parser) parseCallArgs(name Token) (Node, error) {
	call := &Call{Name: name.Text, Position: name.Pos}
	if _, ok := p.accept(TokenRParen); ok {
		return call, nil
	}
	for {
		arg, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)
		if _, ok := p.accept(TokenComma); ok {
			continue
		}
		if _, err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
		return call, nil
	}
}
