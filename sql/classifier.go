package sql

import "unicode"

// CharCategory is the coarse class the classifier assigns to each character.
type CharCategory int

const (
	CharNone          CharCategory = iota // whitespace, comments
	CharName                              // identifier or keyword material
	CharNumber                            // digit
	CharString                            // literal body
	CharQuote                             // opening or closing quote
	CharEscapedQuote                      // one half of a doubled quote
	CharOperator1                         // single character operator
	CharOperator2                         // may start a two character operator
	CharDot                               // '.'
	CharEnd                               // trailing sentinel
)

var charCategoryNames = [...]string{
	CharNone:         "None",
	CharName:         "Name",
	CharNumber:       "Number",
	CharString:       "StringBody",
	CharQuote:        "QuoteDelimiter",
	CharEscapedQuote: "EscapedQuote",
	CharOperator1:    "Operator1",
	CharOperator2:    "Operator2",
	CharDot:          "Dot",
	CharEnd:          "End",
}

func (category CharCategory) String() string {
	if category < 0 || int(category) >= len(charCategoryNames) {
		return "Unknown"
	}
	return charCategoryNames[category]
}

// Classified holds the normalized characters and their categories. Both
// slices are one longer than the input; the last slot is always CharEnd.
type Classified struct {
	Chars      []rune
	Categories []CharCategory
}

// Classify strips comments, marks string literal boundaries, upper-cases
// names and assigns a category to every character of sql.
func Classify(sql string) (*Classified, error) {
	source := []rune(sql)
	length := len(source)

	chars := make([]rune, length+1)
	copy(chars, source)
	categories := make([]CharCategory, length+1)

	for i := 0; i < length; i++ {
		current := chars[i]

		switch {
		case current == '-' && i+1 < length && chars[i+1] == '-':
			i = blankComment(chars, categories, i, length)
			continue
		case current == '\'':
			end, err := classifyString(chars, categories, i, length)
			if err != nil {
				return nil, err
			}
			i = end
			continue
		case current == '.':
			categories[i] = CharDot
		case isOperator1(current):
			categories[i] = CharOperator1
		case isOperator2(current):
			categories[i] = CharOperator2
		case unicode.IsSpace(current):
			categories[i] = CharNone
		case current >= 'a' && current <= 'z':
			chars[i] = current - ('a' - 'A')
			categories[i] = CharName
		case current >= 'A' && current <= 'Z':
			categories[i] = CharName
		case current >= '0' && current <= '9':
			categories[i] = CharNumber
		default:
			// '_' and anything unrecognised become name material
			categories[i] = CharName
		}
	}

	chars[length] = ' '
	categories[length] = CharEnd

	return &Classified{Chars: chars, Categories: categories}, nil
}

// blankComment blanks a -- comment through the end of line and returns the
// index of the line terminator (or the last input index).
func blankComment(chars []rune, categories []CharCategory, start, length int) int {
	i := start
	for ; i < length; i++ {
		terminator := chars[i] == '\n'
		chars[i] = ' '
		categories[i] = CharNone
		if terminator {
			break
		}
	}
	if i == length {
		i--
	}
	return i
}

// classifyString tags the literal opening at start and returns the index of
// the closing quote.
func classifyString(chars []rune, categories []CharCategory, start, length int) (int, error) {
	categories[start] = CharQuote

	for i := start + 1; ; i++ {
		if i >= length {
			return 0, newError(start, "unterminated string literal")
		}

		if chars[i] != '\'' {
			categories[i] = CharString
			continue
		}

		if i+1 < length && chars[i+1] == '\'' {
			categories[i] = CharEscapedQuote
			categories[i+1] = CharEscapedQuote
			i++
			continue
		}

		categories[i] = CharQuote
		return i, nil
	}
}

func isOperator1(ch rune) bool {
	switch ch {
	case '(', ')', '{', '}', '*', '/', ',', ';', '+', '-', '%', '?', '=':
		return true
	default:
		return false
	}
}

func isOperator2(ch rune) bool {
	switch ch {
	case '!', '<', '>', '|', ':':
		return true
	default:
		return false
	}
}
