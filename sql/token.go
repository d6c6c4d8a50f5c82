package sql

import (
	"fmt"
	"strconv"
)

// TokenType classifies a token. The zero value NoToken marks a lexer that has
// not produced a token yet, or has failed.
type TokenType int

const (
	NoToken TokenType = iota
	Identifier
	Value
	Operator
	Keyword
	End
)

func (tokenType TokenType) String() string {
	switch tokenType {
	case NoToken:
		return "no token"
	case Identifier:
		return "identifier"
	case Value:
		return "value"
	case Operator:
		return "operator"
	case Keyword:
		return "keyword"
	case End:
		return "end of statement"
	default:
		return "unknown"
	}
}

// Symbol identifies a fixed keyword or operator token. Identifier and Value
// tokens carry NoSymbol.
type Symbol int

const (
	NoSymbol Symbol = iota

	// operators
	ParenOpen
	ParenClose
	BraceOpen
	BraceClose
	Star
	Slash
	Comma
	Dot
	Semicolon
	Plus
	Minus
	Percent
	Question
	Equals
	NotSign
	NotEquals
	LessThan
	LessThanOrEqual
	GreaterThan
	GreaterThanOrEqual
	Concat
	ColumnEquals

	// keywords
	Create
	Date
	From
	Index
	Insert
	Into
	Key
	Not
	Number
	Primary
	Select
	TableKeyword
	Values
	Varchar
	Where

	EndOfStatement
)

var symbols = [...]struct {
	tokenType TokenType
	text      string
}{
	NoSymbol: {NoToken, ""},

	ParenOpen:          {Operator, "("},
	ParenClose:         {Operator, ")"},
	BraceOpen:          {Operator, "{"},
	BraceClose:         {Operator, "}"},
	Star:               {Operator, "*"},
	Slash:              {Operator, "/"},
	Comma:              {Operator, ","},
	Dot:                {Operator, "."},
	Semicolon:          {Operator, ";"},
	Plus:               {Operator, "+"},
	Minus:              {Operator, "-"},
	Percent:            {Operator, "%"},
	Question:           {Operator, "?"},
	Equals:             {Operator, "="},
	NotSign:            {Operator, "!"},
	NotEquals:          {Operator, "!="},
	LessThan:           {Operator, "<"},
	LessThanOrEqual:    {Operator, "<="},
	GreaterThan:        {Operator, ">"},
	GreaterThanOrEqual: {Operator, ">="},
	Concat:             {Operator, "||"},
	ColumnEquals:       {Operator, ":="},

	Create:       {Keyword, "CREATE"},
	Date:         {Keyword, "DATE"},
	From:         {Keyword, "FROM"},
	Index:        {Keyword, "INDEX"},
	Insert:       {Keyword, "INSERT"},
	Into:         {Keyword, "INTO"},
	Key:          {Keyword, "KEY"},
	Not:          {Keyword, "NOT"},
	Number:       {Keyword, "NUMBER"},
	Primary:      {Keyword, "PRIMARY"},
	Select:       {Keyword, "SELECT"},
	TableKeyword: {Keyword, "TABLE"},
	Values:       {Keyword, "VALUES"},
	Varchar:      {Keyword, "VARCHAR"},
	Where:        {Keyword, "WHERE"},

	EndOfStatement: {End, ""},
}

// keywords maps upper-case spellings to keyword symbols. It is filled once
// at init and only read afterwards.
var keywords = map[string]Symbol{}

func init() {
	for symbol, entry := range symbols {
		if entry.tokenType == Keyword {
			keywords[entry.text] = Symbol(symbol)
		}
	}
}

// LookupKeyword finds the keyword spelled by an upper-case word.
func LookupKeyword(word string) (Symbol, bool) {
	symbol, ok := keywords[word]
	return symbol, ok
}

func (symbol Symbol) String() string {
	if symbol <= NoSymbol || int(symbol) >= len(symbols) {
		return "?"
	}
	if symbol == EndOfStatement {
		return "END"
	}
	return symbols[symbol].text
}

// Token is a lexical unit. Keyword, operator and end tokens are fixed values
// identified by Symbol; identifiers and values carry their payload in Value.
type Token struct {
	Type   TokenType
	Symbol Symbol
	Text   string
	Value  any // int64, float64, string, or nil for ''
}

// symbolToken returns the fixed token for a keyword, operator or end symbol.
func symbolToken(symbol Symbol) Token {
	entry := symbols[symbol]
	return Token{Type: entry.tokenType, Symbol: symbol, Text: entry.text}
}

var endToken = symbolToken(EndOfStatement)

func identifierToken(text string) Token {
	return Token{Type: Identifier, Text: text, Value: text}
}

func valueToken(text string, value any) Token {
	return Token{Type: Value, Text: text, Value: value}
}

// Is reports whether the token is the fixed token for symbol.
func (token Token) Is(symbol Symbol) bool {
	return token.Symbol != NoSymbol && token.Symbol == symbol
}

func (token Token) Int() (int64, bool) {
	value, ok := token.Value.(int64)
	return value, ok
}

func (token Token) Float() (float64, bool) {
	value, ok := token.Value.(float64)
	return value, ok
}

func (token Token) Str() (string, bool) {
	if token.Type != Value {
		return "", false
	}
	value, ok := token.Value.(string)
	return value, ok
}

func (token Token) String() string {
	switch token.Type {
	case Identifier:
		return "Identifier(" + token.Text + ")"
	case Value:
		switch value := token.Value.(type) {
		case nil:
			return "Value(NULL)"
		case string:
			return "Value(" + strconv.Quote(value) + ")"
		default:
			return fmt.Sprintf("Value(%v)", value)
		}
	case End:
		return "END"
	case NoToken:
		return "NONE"
	default:
		return token.Symbol.String()
	}
}
