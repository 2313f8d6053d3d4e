package sqlbuilder

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Operators in match priority. Longer spellings come first so ">=" is never
// read as ">" and "NOT LIKE" is never read as a column named NOT.
var conditionOperators = []struct {
	text     string
	operator Operator
	keyword  bool
}{
	{"NOT BETWEEN", OperatorNotBetween, true},
	{"BETWEEN", OperatorBetween, true},
	{"NOT LIKE", OperatorNotLike, true},
	{"LIKE", OperatorLike, true},
	{"IS NOT NULL", OperatorIsNotNull, true},
	{"IS NULL", OperatorIsNull, true},
	{"NOT IN", OperatorNotIn, true},
	{"IN", OperatorIn, true},
	{">=", OperatorGreaterThanOrEqual, false},
	{"<=", OperatorLessThanOrEqual, false},
	{"<>", OperatorNotEqual, false},
	{"!=", OperatorNotEqual, false},
	{"=", OperatorEqual, false},
	{">", OperatorGreaterThan, false},
	{"<", OperatorLessThan, false},
}

// ParseCondition reads a single condition such as "age >= 21",
// "status IN ('a', 'b')" or "name = 'x' OR".
func ParseCondition(condition string) (Predicate, error) {
	text := strings.TrimSpace(condition)
	if text == "" {
		return Predicate{}, fmt.Errorf("%w: empty condition", ErrConfiguration)
	}

	column, rest, err := readColumn(text)
	if err != nil {
		return Predicate{}, fmt.Errorf("%w: %q: %s", ErrConfiguration, condition, err.Error())
	}

	rest = strings.TrimLeftFunc(rest, unicode.IsSpace)

	operator, length, ok := matchOperator(rest)
	if !ok {
		return Predicate{}, fmt.Errorf("%w: %q: no operator after column %q", ErrConfiguration, condition, column)
	}

	predicate := Predicate{Column: column, Operator: operator, Combinator: And}
	value := strings.TrimSpace(rest[length:])

	if operator == OperatorIsNull || operator == OperatorIsNotNull {
		switch {
		case value == "":
		case strings.EqualFold(value, "OR"):
			predicate.Combinator = Or
		default:
			return Predicate{}, fmt.Errorf("%w: %q: unexpected text after %s", ErrConfiguration, condition, operator)
		}

		return predicate, nil
	}

	if trimmed, isOr := trimOrMarker(value); isOr {
		value = trimmed
		predicate.Combinator = Or
	}

	if value == "" {
		return Predicate{}, fmt.Errorf("%w: %q: missing value", ErrConfiguration, condition)
	}

	switch operator {
	case OperatorBetween, OperatorNotBetween:
		low, high, found := splitBetween(value)
		if !found {
			return Predicate{}, fmt.Errorf("%w: %q: %s needs two values joined by AND", ErrConfiguration, condition, operator)
		}
		predicate.Values = []any{parseScalar(low), parseScalar(high)}

		return predicate, nil

	case OperatorIn, OperatorNotIn:
		values, isList := parseList(value)
		if !isList {
			return Predicate{}, fmt.Errorf("%w: %q: %s needs a parenthesized list", ErrConfiguration, condition, operator)
		}
		predicate.Values = values

		return predicate, nil
	}

	if values, isList := parseList(value); isList {
		switch operator {
		case OperatorEqual:
			predicate.Operator = OperatorIn
			predicate.Values = values
			return predicate, nil
		case OperatorNotEqual:
			predicate.Operator = OperatorNotIn
			predicate.Values = values
			return predicate, nil
		}
	}

	scalar := parseScalar(value)
	if scalar == nil {
		switch operator {
		case OperatorEqual:
			predicate.Operator = OperatorIsNull
			return predicate, nil
		case OperatorNotEqual:
			predicate.Operator = OperatorIsNotNull
			return predicate, nil
		}
	}

	predicate.Values = []any{scalar}

	return predicate, nil
}

var columnQuotes = map[byte]byte{'`': '`', '"': '"', '[': ']'}

// readColumn reads a column reference, joining quoted and bare parts
// separated by dots.
func readColumn(text string) (string, string, error) {
	parts := []string{}
	rest := text

	for {
		part, remaining, err := readColumnPart(rest)
		if err != nil {
			return "", "", err
		}
		parts = append(parts, part)

		if len(remaining) < 2 || remaining[0] != '.' {
			return strings.Join(parts, "."), remaining, nil
		}
		rest = remaining[1:]
	}
}

func readColumnPart(text string) (string, string, error) {
	if closing, quoted := columnQuotes[text[0]]; quoted {
		end := strings.IndexByte(text[1:], closing)
		if end < 0 {
			return "", "", fmt.Errorf("unterminated quoted column")
		}

		return text[1 : end+1], text[end+2:], nil
	}

	depth := 0
	for i := 0; i < len(text); i++ {
		switch c := text[i]; {
		case c == '(':
			depth++
		case c == ')':
			depth--
		case depth > 0:
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			return text[:i], text[i:], nil
		case c == '.' && i+1 < len(text) && columnQuotes[text[i+1]] != 0:
			return text[:i], text[i:], nil
		case c == '=' || c == '<' || c == '>' || c == '!':
			if i == 0 {
				return "", "", fmt.Errorf("missing column")
			}
			return text[:i], text[i:], nil
		}
	}

	return text, "", nil
}

func matchOperator(text string) (Operator, int, bool) {
	upper := strings.ToUpper(text)

	for _, candidate := range conditionOperators {
		if !strings.HasPrefix(upper, candidate.text) {
			continue
		}

		end := len(candidate.text)
		if candidate.keyword && end < len(text) {
			next := rune(text[end])
			if !unicode.IsSpace(next) && next != '(' && next != '\'' && next != '"' {
				continue
			}
		}

		return candidate.operator, end, true
	}

	return "", 0, false
}

// trimOrMarker strips a trailing " OR" that asks for the OR combinator.
func trimOrMarker(value string) (string, bool) {
	trimmed := strings.TrimRightFunc(value, unicode.IsSpace)
	if len(trimmed) > 3 && strings.EqualFold(trimmed[len(trimmed)-3:], " OR") {
		return strings.TrimSpace(trimmed[:len(trimmed)-3]), true
	}

	return value, false
}

// splitBetween splits "a AND b" on the first AND outside quotes.
func splitBetween(value string) (string, string, bool) {
	var quote rune
	upper := strings.ToUpper(value)

	for i, r := range value {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case unicode.IsSpace(r) && strings.HasPrefix(upper[i+1:], "AND") && len(upper) > i+4 && unicode.IsSpace(rune(upper[i+4])):
			low := strings.TrimSpace(value[:i])
			high := strings.TrimSpace(value[i+4:])
			return low, high, low != "" && high != ""
		}
	}

	return "", "", false
}

func parseList(value string) ([]any, bool) {
	if len(value) < 2 || value[0] != '(' || value[len(value)-1] != ')' {
		return nil, false
	}

	inner := strings.TrimSpace(value[1 : len(value)-1])
	if inner == "" {
		return []any{}, true
	}

	values := []any{}
	for _, item := range splitOutsideParens(inner) {
		values = append(values, parseScalar(item))
	}

	return values, true
}

// parseScalar strips surrounding quotes and turns unquoted numbers and NULL
// into their Go values. Anything else stays a string.
func parseScalar(token string) any {
	token = strings.TrimSpace(token)

	if len(token) >= 2 {
		first, last := token[0], token[len(token)-1]
		if (first == '\'' || first == '"' || first == '`') && first == last {
			quote := string(first)
			return strings.ReplaceAll(token[1:len(token)-1], quote+quote, quote)
		}
	}

	if strings.EqualFold(token, "NULL") {
		return nil
	}

	if token == "" || !strings.ContainsRune("0123456789+-.", rune(token[0])) {
		return token
	}

	if i, err := strconv.ParseInt(token, 10, 64); err == nil {
		return i
	}

	if f, err := strconv.ParseFloat(token, 64); err == nil {
		return f
	}

	return token
}
