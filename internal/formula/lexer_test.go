package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenTypes(t *testing.T, text string) []TokenType {
	t.Helper()
	tokens, err := Tokenize(text)
	require.NoError(t, err)
	types := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		types[i] = tok.Type
	}
	return types
}

func TestTokenize_Empty(t *testing.T) {
	tokens, err := Tokenize("")
	require.NoError(t, err)
	require.Len(t, tokens, 1, "always at least an EOF token")
	assert.Equal(t, TokenEOF, tokens[0].Type)

	tokens, err = Tokenize("   \t\n")
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, TokenEOF, tokens[0].Type)
}

func TestTokenize_Numbers(t *testing.T) {
	tokens, err := Tokenize("42 3.25")
	require.NoError(t, err)
	require.Len(t, tokens, 3)
	assert.Equal(t, 42.0, tokens[0].Num)
	assert.Equal(t, 0, tokens[0].Pos)
	assert.Equal(t, 3.25, tokens[1].Num)
	assert.Equal(t, 3, tokens[1].Pos)
}

func TestTokenize_Strings(t *testing.T) {
	tokens, err := Tokenize(`"hello world"`)
	require.NoError(t, err)
	assert.Equal(t, TokenString, tokens[0].Type)
	assert.Equal(t, "hello world", tokens[0].Text)

	tokens, err = Tokenize(`"a \"quoted\" word"`)
	require.NoError(t, err)
	assert.Equal(t, `a "quoted" word`, tokens[0].Text)

	tokens, err = Tokenize(`""`)
	require.NoError(t, err)
	assert.Equal(t, TokenString, tokens[0].Type)
	assert.Equal(t, "", tokens[0].Text)
}

func TestTokenize_UnterminatedString(t *testing.T) {
	_, err := Tokenize(`1 + "oops`)
	require.Error(t, err)
	require.True(t, IsSyntaxError(err))
	var se *SyntaxError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 4, se.Position, "error points at the opening quote")
}

func TestTokenize_KeywordsAndIdents(t *testing.T) {
	types := tokenTypes(t, "true false null and or not depth_from _x a1")
	assert.Equal(t, []TokenType{
		TokenTrue, TokenFalse, TokenNull, TokenAnd, TokenOr, TokenNot,
		TokenIdent, TokenIdent, TokenIdent, TokenEOF,
	}, types)
}

func TestTokenize_Operators(t *testing.T) {
	types := tokenTypes(t, "+ - * / % ** == != < <= > >= ( ) ,")
	assert.Equal(t, []TokenType{
		TokenPlus, TokenMinus, TokenStar, TokenSlash, TokenPercent, TokenPower,
		TokenEq, TokenNeq, TokenLt, TokenLte, TokenGt, TokenGte,
		TokenLParen, TokenRParen, TokenComma, TokenEOF,
	}, types)
}

func TestTokenize_PowerIsNotTwoStars(t *testing.T) {
	types := tokenTypes(t, "2**3")
	assert.Equal(t, []TokenType{TokenNumber, TokenPower, TokenNumber, TokenEOF}, types)
}

func TestTokenize_UnexpectedCharacter(t *testing.T) {
	_, err := Tokenize("1 + $x")
	require.Error(t, err)
	var se *SyntaxError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 4, se.Position)
	assert.Contains(t, se.Error(), "$")
}
