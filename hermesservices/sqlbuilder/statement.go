package sqlbuilder

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var ErrConfiguration = errors.New("configuration error")

// Statement is rendered SQL plus the bind names of its placeholders, in the
// order the placeholders appear.
type Statement struct {
	Query string
	Binds []string
}

// Bind pairs values with the statement's placeholders.
func (statement Statement) Bind(values ...any) (Params, error) {
	if len(values) != len(statement.Binds) {
		return nil, fmt.Errorf(
			"%w: statement has %d placeholders but %d values were bound",
			ErrConfiguration,
			len(statement.Binds),
			len(values),
		)
	}

	params := make(Params, 0, len(values))
	for i, name := range statement.Binds {
		params = append(params, Param{Name: name, Value: values[i]})
	}

	return params, nil
}

type Param struct {
	Name  string
	Value any
}

// Params is an ordered parameter set. Order matters for positional and
// numbered dialects.
type Params []Param

func (params Params) Values() []any {
	values := make([]any, 0, len(params))
	for _, param := range params {
		values = append(values, param.Value)
	}

	return values
}

func (params Params) Map() map[string]any {
	m := make(map[string]any, len(params))
	for _, param := range params {
		m[param.Name] = param.Value
	}

	return m
}

var bindNameCleaner = regexp.MustCompile(`\W+`)

// Binder hands out placeholders for a single statement. Every clause of the
// statement shares one Binder so numbered placeholders stay contiguous.
type Binder struct {
	dialect Dialect
	ordinal int
	names   []string
	seen    map[string]int
}

func NewBinder(dialect Dialect, ordinal int) *Binder {
	return &Binder{
		dialect: dialect,
		ordinal: ordinal,
		seen:    map[string]int{},
	}
}

func (binder *Binder) Dialect() Dialect {
	return binder.dialect
}

func (binder *Binder) Ordinal() int {
	return binder.ordinal
}

func (binder *Binder) Names() []string {
	return append([]string(nil), binder.names...)
}

func (binder *Binder) placeholder(column string) string {
	if binder.dialect.PlaceholderStyle() == Numbered {
		binder.ordinal++
	}

	name := bindNameCleaner.ReplaceAllString(column, "_")
	name = strings.Trim(name, "_")
	if name == "" || (name[0] >= '0' && name[0] <= '9') {
		name = "p_" + name
	}

	binder.seen[name]++
	if count := binder.seen[name]; count > 1 {
		name = name + "_" + strconv.Itoa(count)
	}

	binder.names = append(binder.names, name)

	return binder.dialect.Placeholder(name, binder.ordinal)
}

// value renders an operand: the sentinel ":" + column becomes a placeholder,
// anything else is quoted inline.
func (binder *Binder) value(column string, value any) string {
	if IsSentinel(column, value) {
		return binder.placeholder(column)
	}

	return binder.dialect.QuoteLiteral(value)
}

// Sentinel returns the named-parameter sentinel for column.
func Sentinel(column string) string {
	return ":" + column
}

// IsSentinel reports whether value requests a bound parameter for column.
func IsSentinel(column string, value any) bool {
	s, ok := value.(string)

	return ok && s == Sentinel(column)
}

// base holds what every statement kind shares: the table, target columns
// and the ORDER BY / LIMIT / OFFSET accumulators.
type base struct {
	dialect Dialect
	table   string
	columns []string
	values  map[string]any
	order   []string
	limit   int
	offset  int
	err     error
}

func newBase(dialect Dialect, table string) base {
	return base{
		dialect: dialect,
		table:   table,
		values:  map[string]any{},
	}
}

func (b *base) set(column string, value any) {
	if _, exists := b.values[column]; !exists {
		b.columns = append(b.columns, column)
	}

	b.values[column] = value
}

// fail keeps the first error so fluent calls can report it from Render.
func (b *base) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

func (b *base) orderBy(items ...string) {
	for _, item := range items {
		for _, part := range splitOutsideParens(item) {
			if part = strings.TrimSpace(part); part != "" {
				b.order = append(b.order, part)
			}
		}
	}
}

func (b *base) limitSpec(spec string) error {
	parts := strings.Split(spec, ",")
	if len(parts) > 2 {
		return fmt.Errorf("%w: invalid limit %q", ErrConfiguration, spec)
	}

	limit, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || limit < 0 {
		return fmt.Errorf("%w: invalid limit %q", ErrConfiguration, spec)
	}
	b.limit = limit

	if len(parts) == 2 {
		offset, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil || offset < 0 {
			return fmt.Errorf("%w: invalid offset %q", ErrConfiguration, spec)
		}
		b.offset = offset
	}

	return nil
}

func (b *base) renderOrder() string {
	parts := []string{}
	for _, item := range b.order {
		parts = append(parts, b.renderOrderItem(item))
	}

	return strings.Join(parts, ", ")
}

func (b *base) renderOrderItem(item string) string {
	if strings.EqualFold(item, "RANDOM") || strings.EqualFold(item, "RANDOM()") {
		return b.dialect.Random()
	}

	direction := ""
	fields := strings.Fields(item)
	if len(fields) > 1 {
		last := strings.ToUpper(fields[len(fields)-1])
		if last == "ASC" || last == "DESC" {
			direction = " " + last
			item = strings.TrimSpace(item[:strings.LastIndex(item, fields[len(fields)-1])])
		}
	}

	return b.renderExpression(item) + direction
}

// renderExpression quotes a column reference, passing function calls and
// other expressions through untouched.
func (b *base) renderExpression(expression string) string {
	expression = strings.TrimSpace(expression)
	if expression == "*" || strings.Contains(expression, "(") {
		return expression
	}

	return b.dialect.QuoteIdentifier(expression)
}

// splitOutsideParens splits on commas that are not inside parentheses or quotes.
func splitOutsideParens(s string) []string {
	parts := []string{}
	depth := 0
	var quote rune
	start := 0

	for i, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"' || r == '`':
			quote = r
		case r == '(':
			depth++
		case r == ')':
			depth--
		case r == ',' && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}

	return append(parts, s[start:])
}
