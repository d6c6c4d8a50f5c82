package sql

import (
	"strconv"
	"strings"
)

// Lexer produces tokens on demand from classified input. A Lexer belongs to
// one compile operation; after the first error it keeps returning that error.
type Lexer struct {
	sql        string
	chars      []rune
	categories []CharCategory
	position   int
	current    Token
	err        error
}

func NewLexer(sql string) *Lexer {
	lexer := &Lexer{sql: sql}

	classified, err := Classify(sql)
	if err != nil {
		lexer.err = err
		return lexer
	}

	lexer.chars = classified.Chars
	lexer.categories = classified.Categories
	return lexer
}

// CurrentToken returns the last token produced without advancing.
func (lexer *Lexer) CurrentToken() Token {
	return lexer.current
}

// NextToken advances past the next token and returns it.
func (lexer *Lexer) NextToken() (Token, error) {
	if lexer.err != nil {
		return Token{}, lexer.err
	}

	token, err := lexer.nextToken()
	if err != nil {
		lexer.err = err
		lexer.current = Token{}
		return Token{}, err
	}

	lexer.current = token
	return token, nil
}

func (lexer *Lexer) nextToken() (Token, error) {
	if lexer.position >= len(lexer.categories) {
		return Token{}, newError(lexer.position, "read past end of statement")
	}

	lexer.position = lexer.skip(lexer.position, CharNone)
	position := lexer.position

	switch lexer.categories[position] {
	case CharOperator1:
		return lexer.tokenizeOperator1(position)
	case CharOperator2:
		return lexer.tokenizeOperator2(position)
	case CharName:
		return lexer.tokenizeName(position), nil
	case CharNumber:
		return lexer.tokenizeNumber(position)
	case CharDot:
		return lexer.tokenizeDot(position)
	case CharQuote:
		return lexer.tokenizeString(position)
	case CharEnd:
		lexer.position = position + 1
		return endToken, nil
	default:
		return Token{}, newError(position, "unknown token")
	}
}

func (lexer *Lexer) tokenizeOperator1(position int) (Token, error) {
	var symbol Symbol
	switch lexer.chars[position] {
	case '(':
		symbol = ParenOpen
	case ')':
		symbol = ParenClose
	case '{':
		symbol = BraceOpen
	case '}':
		symbol = BraceClose
	case '*':
		symbol = Star
	case '/':
		symbol = Slash
	case ',':
		symbol = Comma
	case ';':
		symbol = Semicolon
	case '+':
		symbol = Plus
	case '-':
		symbol = Minus
	case '%':
		symbol = Percent
	case '?':
		symbol = Question
	case '=':
		symbol = Equals
	case '<':
		symbol = LessThan
	case '>':
		symbol = GreaterThan
	case '!':
		symbol = NotSign
	default:
		return Token{}, newError(position, "unknown operator %q", lexer.chars[position])
	}

	lexer.position = position + 1
	return symbolToken(symbol), nil
}

// tokenizeOperator2 pairs the character with the next non-blank one, so
// "> =" reads as ">=".
func (lexer *Lexer) tokenizeOperator2(position int) (Token, error) {
	next := lexer.skip(position+1, CharNone)

	var symbol Symbol
	switch string([]rune{lexer.chars[position], lexer.chars[next]}) {
	case "!=":
		symbol = NotEquals
	case "<=":
		symbol = LessThanOrEqual
	case ">=":
		symbol = GreaterThanOrEqual
	case "||":
		symbol = Concat
	case ":=":
		symbol = ColumnEquals
	default:
		return lexer.tokenizeOperator1(position)
	}

	lexer.position = next + 1
	return symbolToken(symbol), nil
}

func (lexer *Lexer) tokenizeName(position int) Token {
	end := lexer.skip(position, CharName, CharNumber)
	lexer.position = end

	word := string(lexer.chars[position:end])
	if symbol, ok := LookupKeyword(word); ok {
		return symbolToken(symbol)
	}
	return identifierToken(word)
}

func (lexer *Lexer) tokenizeNumber(position int) (Token, error) {
	end := lexer.skip(position, CharNumber, CharDot)
	lexer.position = end

	text := string(lexer.chars[position:end])
	if strings.ContainsRune(text, '.') {
		value, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Token{}, newError(position, "invalid number: %s", text)
		}
		return valueToken(text, value), nil
	}

	value, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return Token{}, newError(position, "invalid number: %s", text)
	}
	return valueToken(text, value), nil
}

// tokenizeDot reads either a leading-decimal literal such as .5 or a plain
// dot used in qualified names.
func (lexer *Lexer) tokenizeDot(position int) (Token, error) {
	start := lexer.skip(position+1, CharNone)
	if lexer.categories[start] != CharNumber {
		lexer.position = position + 1
		return symbolToken(Dot), nil
	}

	end := lexer.skip(start, CharNumber)
	lexer.position = end

	text := "." + string(lexer.chars[start:end])
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Token{}, newError(position, "invalid number: %s", text)
	}
	return valueToken(text, value), nil
}

func (lexer *Lexer) tokenizeString(position int) (Token, error) {
	var builder strings.Builder
	current := position + 1

	for {
		end := lexer.skip(current, CharString)
		switch {
		case current < end:
			builder.WriteString(string(lexer.chars[current:end]))
			current = end
		case lexer.categories[end] == CharEscapedQuote && lexer.categories[end+1] == CharEscapedQuote:
			builder.WriteRune('\'')
			current = end + 2
		case lexer.categories[end] == CharQuote:
			lexer.position = end + 1
			text := string(lexer.chars[position:lexer.position])
			if builder.Len() == 0 {
				return valueToken(text, nil), nil
			}
			return valueToken(text, builder.String()), nil
		default:
			return Token{}, newError(position, "unterminated string literal")
		}
	}
}

// skip returns the first index at or after start whose category is not
// one of allowed. The CharEnd sentinel always stops the scan.
func (lexer *Lexer) skip(start int, allowed ...CharCategory) int {
	end := start
	for end < len(lexer.categories) && containsCategory(allowed, lexer.categories[end]) {
		end++
	}
	return end
}

func containsCategory(categories []CharCategory, category CharCategory) bool {
	for _, candidate := range categories {
		if candidate == category {
			return true
		}
	}
	return false
}

// Tokenize returns every token of sql up to and including the end token.
func Tokenize(sql string) ([]Token, error) {
	lexer := NewLexer(sql)

	var tokens []Token
	for {
		token, err := lexer.NextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
		if token.Type == End {
			return tokens, nil
		}
	}
}
