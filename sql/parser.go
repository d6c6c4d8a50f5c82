package sql

import (
	"math"
	"strings"

	"github.com/nickyhof/MyDB/core"
)

type Parser struct {
	lexer *Lexer
	sql   string
}

func NewParser(sql string) *Parser {
	return &Parser{lexer: NewLexer(sql), sql: sql}
}

// Parse compiles a single statement. CREATE TABLE is parsed in full; INSERT
// and SELECT are recognised by their first keyword only.
func (parser *Parser) Parse() (Prepared, error) {
	token, err := parser.lexer.NextToken()
	if err != nil {
		return nil, err
	}

	base := prepared{sql: parser.sql}

	switch {
	case token.Is(Create):
		return ParseCreate(parser)
	case token.Is(Insert):
		return &InsertStatement{prepared: base}, nil
	case token.Is(Select):
		return &SelectStatement{prepared: base}, nil
	case token.Type == End:
		return &NoOperation{prepared: base}, nil
	default:
		return nil, parser.errorf("wrong syntax near %s", token)
	}
}

// Parse compiles sql with a fresh parser.
func Parse(sql string) (Prepared, error) {
	return NewParser(sql).Parse()
}

func ParseCreate(parser *Parser) (Prepared, error) {
	if err := parser.advance(); err != nil {
		return nil, err
	}

	ok, err := parser.consumeIf(TableKeyword)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, parser.errorf("unsupported statement: CREATE %s", parser.lexer.CurrentToken())
	}

	return ParseCreateTable(parser)
}

// ParseCreateTable parses: CREATE TABLE name [(column, ...)] [;]
func ParseCreateTable(parser *Parser) (Prepared, error) {
	name, err := parser.expect(Identifier)
	if err != nil {
		return nil, err
	}
	table := core.NewTable(name.Text)

	open, err := parser.consumeIf(ParenOpen)
	if err != nil {
		return nil, err
	}
	if open {
		for {
			column, err := ParseColumn(parser)
			if err != nil {
				return nil, err
			}
			if err := table.AddColumn(column); err != nil {
				return nil, wrapError(parser.lexer.position, err)
			}

			more, err := parser.consumeIf(Comma)
			if err != nil {
				return nil, err
			}
			if !more {
				break
			}
		}

		if _, err := parser.expect(ParenClose); err != nil {
			return nil, err
		}
	}

	if _, err := parser.consumeIf(Semicolon); err != nil {
		return nil, err
	}
	if err := parser.expectEnd(); err != nil {
		return nil, err
	}

	return &CreateTableStatement{prepared: prepared{sql: parser.sql}, Table: table}, nil
}

// ParseColumn parses: name TYPE [(precision [, scale])]
func ParseColumn(parser *Parser) (*core.Column, error) {
	name, err := parser.expect(Identifier)
	if err != nil {
		return nil, err
	}

	typeName, err := parser.expect(Keyword, Identifier)
	if err != nil {
		return nil, err
	}
	dataType, ok := core.LookupDataType(typeName.Text)
	if !ok {
		return nil, parser.errorf("data type not supported: %s", typeName.Text)
	}

	column := core.NewColumn(name.Text, dataType)
	if !dataType.Has(core.WithPrecision) {
		return column, nil
	}

	open, err := parser.consumeIf(ParenOpen)
	if err != nil {
		return nil, err
	}
	if !open {
		return column, nil
	}

	precision, err := parser.nonNegativeInt()
	if err != nil {
		return nil, err
	}
	if err := column.SetPrecision(precision); err != nil {
		return nil, wrapError(parser.lexer.position, err)
	}

	if dataType.Has(core.WithScale) {
		comma, err := parser.consumeIf(Comma)
		if err != nil {
			return nil, err
		}
		if comma {
			scale, err := parser.nonNegativeInt()
			if err != nil {
				return nil, err
			}
			if err := column.SetScale(scale); err != nil {
				return nil, wrapError(parser.lexer.position, err)
			}
		}
	}

	if _, err := parser.expect(ParenClose); err != nil {
		return nil, err
	}
	return column, nil
}

func (parser *Parser) nonNegativeInt() (int, error) {
	negative, err := parser.consumeIf(Minus)
	if err != nil {
		return 0, err
	}

	token, err := parser.expect(Value)
	if err != nil {
		return 0, err
	}

	value, ok := token.Int()
	if !ok || negative || value > math.MaxInt {
		text := token.Text
		if negative {
			text = "-" + text
		}
		return 0, parser.errorf("invalid number: %s", text)
	}
	return int(value), nil
}

// matcher is satisfied by a Symbol (exact fixed token) or a TokenType
// (any token of that type).
type matcher interface {
	matches(token Token) bool
	String() string
}

func (symbol Symbol) matches(token Token) bool {
	return token.Is(symbol)
}

func (tokenType TokenType) matches(token Token) bool {
	return token.Type == tokenType
}

func (parser *Parser) advance() error {
	_, err := parser.lexer.NextToken()
	return err
}

// expect consumes the current token if it matches one of matchers.
func (parser *Parser) expect(matchers ...matcher) (Token, error) {
	token := parser.lexer.CurrentToken()
	if !matchAny(token, matchers) {
		expected := make([]string, len(matchers))
		for i, m := range matchers {
			expected[i] = m.String()
		}
		return Token{}, parser.errorf("expected %s but got %s", strings.Join(expected, " or "), token)
	}

	if err := parser.advance(); err != nil {
		return Token{}, err
	}
	return token, nil
}

// consumeIf consumes the current token only if it matches.
func (parser *Parser) consumeIf(matchers ...matcher) (bool, error) {
	if !matchAny(parser.lexer.CurrentToken(), matchers) {
		return false, nil
	}
	return true, parser.advance()
}

// expectEnd checks for the end token without reading past it.
func (parser *Parser) expectEnd() error {
	token := parser.lexer.CurrentToken()
	if token.Type != End {
		return parser.errorf("expected end of statement but got %s", token)
	}
	return nil
}

func matchAny(token Token, matchers []matcher) bool {
	for _, m := range matchers {
		if m.matches(token) {
			return true
		}
	}
	return false
}

func (parser *Parser) errorf(format string, args ...any) error {
	return newError(parser.lexer.position, format, args...)
}
