package sql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nextToken(t *testing.T, lexer *Lexer) Token {
	t.Helper()
	token, err := lexer.NextToken()
	require.NoError(t, err)
	return token
}

func TestLexerOperator1(t *testing.T) {
	lexer := NewLexer(" * ")
	assert.True(t, nextToken(t, lexer).Is(Star))
	assert.Equal(t, End, nextToken(t, lexer).Type)
}

func TestLexerOperator2AcrossWhitespace(t *testing.T) {
	lexer := NewLexer(" >   = ")
	token := nextToken(t, lexer)
	assert.True(t, token.Is(GreaterThanOrEqual))
	assert.Equal(t, Operator, token.Type)
	assert.Equal(t, End, nextToken(t, lexer).Type)
}

func TestLexerOperator2Fallback(t *testing.T) {
	tokens, err := Tokenize("< > ! != || := <=")
	require.NoError(t, err)

	expected := []Symbol{LessThan, GreaterThan, NotSign, NotEquals, Concat, ColumnEquals, LessThanOrEqual, EndOfStatement}
	require.Len(t, tokens, len(expected))
	for i, symbol := range expected {
		assert.True(t, tokens[i].Is(symbol), "token %d: %s", i, tokens[i])
	}
}

func TestLexerLoneOperator2WithoutMeaning(t *testing.T) {
	_, err := Tokenize("a | b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown operator")
}

func TestLexerStatement(t *testing.T) {
	lexer := NewLexer(" select * from dual where 1 <= 2.2")

	assert.True(t, nextToken(t, lexer).Is(Select))
	assert.True(t, nextToken(t, lexer).Is(Star))
	assert.True(t, nextToken(t, lexer).Is(From))

	identifier := nextToken(t, lexer)
	assert.Equal(t, Identifier, identifier.Type)
	assert.Equal(t, "DUAL", identifier.Text)

	assert.True(t, nextToken(t, lexer).Is(Where))

	one := nextToken(t, lexer)
	assert.Equal(t, Value, one.Type)
	assert.Equal(t, int64(1), one.Value)

	assert.True(t, nextToken(t, lexer).Is(LessThanOrEqual))

	twoPointTwo := nextToken(t, lexer)
	assert.Equal(t, Value, twoPointTwo.Type)
	assert.Equal(t, 2.2, twoPointTwo.Value)

	end := nextToken(t, lexer)
	assert.Equal(t, End, end.Type)
	assert.Equal(t, end, lexer.CurrentToken())
}

func TestLexerLeadingDecimal(t *testing.T) {
	token := nextToken(t, NewLexer(".1"))
	assert.Equal(t, Value, token.Type)
	value, ok := token.Float()
	require.True(t, ok)
	assert.Equal(t, 0.1, value)
}

func TestLexerQualifiedName(t *testing.T) {
	lexer := NewLexer("mytable.mycolumn")

	first := nextToken(t, lexer)
	assert.Equal(t, Identifier, first.Type)
	assert.Equal(t, "MYTABLE", first.Text)

	assert.True(t, nextToken(t, lexer).Is(Dot))

	second := nextToken(t, lexer)
	assert.Equal(t, Identifier, second.Type)
	assert.Equal(t, "MYCOLUMN", second.Text)
}

func TestLexerUnknownPunctuationJoinsIdentifier(t *testing.T) {
	token := nextToken(t, NewLexer("@param"))
	assert.Equal(t, Identifier, token.Type)
	assert.Equal(t, "@PARAM", token.Text)
}

func TestLexerStrings(t *testing.T) {
	tests := []struct {
		name     string
		sql      string
		expected any
	}{
		{"empty", "''", nil},
		{"plain", "'hello world'", "hello world"},
		{"single escaped quote", "''''", "'"},
		{"nested escapes", "'''''test''s'''''", "''test's''"},
		{"case preserved", "'MiXeD -- not a comment'", "MiXeD -- not a comment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := nextToken(t, NewLexer(tt.sql))
			assert.Equal(t, Value, token.Type)
			assert.Equal(t, tt.expected, token.Value)
		})
	}
}

func TestLexerKeywordsAreCaseInsensitive(t *testing.T) {
	for _, spelling := range []string{"select", "Select", "SELECT"} {
		token := nextToken(t, NewLexer(spelling))
		assert.Equal(t, Keyword, token.Type)
		assert.True(t, token.Is(Select))
		assert.Equal(t, symbolToken(Select), token)
	}
}

func TestLexerKeywordWinsOverIdentifier(t *testing.T) {
	tokens, err := Tokenize("date dates")
	require.NoError(t, err)
	require.Len(t, tokens, 3)
	assert.True(t, tokens[0].Is(Date))
	assert.Equal(t, Identifier, tokens[1].Type)
	assert.Equal(t, "DATES", tokens[1].Text)
}

func TestLexerNumbers(t *testing.T) {
	tokens, err := Tokenize("42 3.5 7.")
	require.NoError(t, err)
	require.Len(t, tokens, 4)
	assert.Equal(t, int64(42), tokens[0].Value)
	assert.Equal(t, 3.5, tokens[1].Value)
	assert.Equal(t, 7.0, tokens[2].Value)

	_, err = Tokenize("1.2.3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid number")
}

func TestLexerReadPastEnd(t *testing.T) {
	lexer := NewLexer("")
	assert.Equal(t, End, nextToken(t, lexer).Type)

	_, err := lexer.NextToken()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read past end of statement")
}

func TestLexerStaysFailedAfterError(t *testing.T) {
	lexer := NewLexer("a 1.2.3 b")
	assert.Equal(t, "A", nextToken(t, lexer).Text)

	_, first := lexer.NextToken()
	require.Error(t, first)

	_, second := lexer.NextToken()
	assert.Same(t, first, second)
	assert.Equal(t, NoToken, lexer.CurrentToken().Type)
}

func TestLexerCurrentTokenBeforeFirstRead(t *testing.T) {
	lexer := NewLexer("my_table")

	current := lexer.CurrentToken()
	assert.Equal(t, NoToken, current.Type)
	assert.False(t, Identifier.matches(current))
	assert.Equal(t, "NONE", current.String())

	assert.Equal(t, Identifier, nextToken(t, lexer).Type)
	assert.Equal(t, Identifier, lexer.CurrentToken().Type)
}

func TestLexerUnterminatedString(t *testing.T) {
	_, err := NewLexer("select 'abc").NextToken()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unterminated string literal")
}

func TestLookupKeyword(t *testing.T) {
	symbol, ok := LookupKeyword("VARCHAR")
	require.True(t, ok)
	assert.Equal(t, Varchar, symbol)

	_, ok = LookupKeyword("varchar")
	assert.False(t, ok, "lookups expect upper-case input")

	_, ok = LookupKeyword("(")
	assert.False(t, ok)
}

func TestTokenString(t *testing.T) {
	assert.Equal(t, "Identifier(FOO)", identifierToken("FOO").String())
	assert.Equal(t, `Value("x")`, valueToken("'x'", "x").String())
	assert.Equal(t, "Value(NULL)", valueToken("''", nil).String())
	assert.Equal(t, "Value(5)", valueToken("5", int64(5)).String())
	assert.Equal(t, "CREATE", symbolToken(Create).String())
	assert.Equal(t, ">=", symbolToken(GreaterThanOrEqual).String())
	assert.Equal(t, "END", endToken.String())
}
