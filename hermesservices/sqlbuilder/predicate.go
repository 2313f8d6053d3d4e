package sqlbuilder

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/lunagic/hermes/hermestools"
)

type Operator string

const (
	OperatorEqual              Operator = "="
	OperatorNotEqual           Operator = "!="
	OperatorGreaterThan        Operator = ">"
	OperatorGreaterThanOrEqual Operator = ">="
	OperatorLessThan           Operator = "<"
	OperatorLessThanOrEqual    Operator = "<="
	OperatorLike               Operator = "LIKE"
	OperatorNotLike            Operator = "NOT LIKE"
	OperatorBetween            Operator = "BETWEEN"
	OperatorNotBetween         Operator = "NOT BETWEEN"
	OperatorIn                 Operator = "IN"
	OperatorNotIn              Operator = "NOT IN"
	OperatorIsNull             Operator = "IS NULL"
	OperatorIsNotNull          Operator = "IS NOT NULL"
)

type Combinator string

const (
	And Combinator = "AND"
	Or  Combinator = "OR"
)

// Predicate is one comparison. Combinator joins it to the predicate before it.
type Predicate struct {
	Column     string
	Operator   Operator
	Values     []any
	Combinator Combinator
}

// Group is an ordered list of predicates plus nested groups. It renders as a
// single parenthesized boolean expression.
type Group struct {
	predicates []Predicate
	nested     []*Group
	next       Combinator
}

func NewGroup() *Group {
	return &Group{next: And}
}

// Or makes the next predicate join with OR.
func (group *Group) Or() *Group {
	group.next = Or
	return group
}

// And makes the next predicate join with AND, which is also the default.
func (group *Group) And() *Group {
	group.next = And
	return group
}

// Nest appends a child group and returns it.
func (group *Group) Nest() *Group {
	child := NewGroup()
	group.nested = append(group.nested, child)

	return child
}

func (group *Group) Predicates() []Predicate {
	return append([]Predicate(nil), group.predicates...)
}

func (group *Group) IsEmpty() bool {
	if len(group.predicates) > 0 {
		return false
	}

	for _, child := range group.nested {
		if !child.IsEmpty() {
			return false
		}
	}

	return true
}

func (group *Group) append(predicate Predicate) *Group {
	if predicate.Combinator == "" {
		predicate.Combinator = group.next
		if predicate.Combinator == "" {
			predicate.Combinator = And
		}
	}
	group.next = And
	group.predicates = append(group.predicates, predicate)

	return group
}

func (group *Group) compare(column string, operator Operator, value any) *Group {
	return group.append(Predicate{Column: column, Operator: operator, Values: []any{value}})
}

func (group *Group) EqualTo(column string, value any) *Group {
	if value == nil {
		return group.IsNull(column)
	}

	return group.compare(column, OperatorEqual, value)
}

func (group *Group) NotEqualTo(column string, value any) *Group {
	if value == nil {
		return group.IsNotNull(column)
	}

	return group.compare(column, OperatorNotEqual, value)
}

func (group *Group) GreaterThan(column string, value any) *Group {
	return group.compare(column, OperatorGreaterThan, value)
}

func (group *Group) GreaterThanOrEqualTo(column string, value any) *Group {
	return group.compare(column, OperatorGreaterThanOrEqual, value)
}

func (group *Group) LessThan(column string, value any) *Group {
	return group.compare(column, OperatorLessThan, value)
}

func (group *Group) LessThanOrEqualTo(column string, value any) *Group {
	return group.compare(column, OperatorLessThanOrEqual, value)
}

func (group *Group) Like(column string, pattern any) *Group {
	return group.compare(column, OperatorLike, pattern)
}

func (group *Group) NotLike(column string, pattern any) *Group {
	return group.compare(column, OperatorNotLike, pattern)
}

func (group *Group) Between(column string, low any, high any) *Group {
	return group.append(Predicate{Column: column, Operator: OperatorBetween, Values: []any{low, high}})
}

func (group *Group) NotBetween(column string, low any, high any) *Group {
	return group.append(Predicate{Column: column, Operator: OperatorNotBetween, Values: []any{low, high}})
}

func (group *Group) In(column string, values ...any) *Group {
	return group.append(Predicate{Column: column, Operator: OperatorIn, Values: values})
}

func (group *Group) NotIn(column string, values ...any) *Group {
	return group.append(Predicate{Column: column, Operator: OperatorNotIn, Values: values})
}

func (group *Group) IsNull(column string) *Group {
	return group.append(Predicate{Column: column, Operator: OperatorIsNull})
}

func (group *Group) IsNotNull(column string) *Group {
	return group.append(Predicate{Column: column, Operator: OperatorIsNotNull})
}

// Add accepts DSL condition strings, lists of them, single-key maps and
// lists of single-key maps.
func (group *Group) Add(conditions ...any) error {
	for _, condition := range conditions {
		if err := group.add(condition); err != nil {
			return err
		}
	}

	return nil
}

func (group *Group) add(condition any) error {
	switch typed := condition.(type) {
	case nil:
		return nil
	case Predicate:
		group.append(typed)
	case string:
		predicate, err := ParseCondition(typed)
		if err != nil {
			return err
		}
		group.append(predicate)
	case []string:
		for _, s := range typed {
			if err := group.add(s); err != nil {
				return err
			}
		}
	case map[string]any:
		for _, column := range hermestools.SortedKeys(typed) {
			group.append(predicateFromPair(column, typed[column]))
		}
	case []map[string]any:
		for _, m := range typed {
			if err := group.add(m); err != nil {
				return err
			}
		}
	case []any:
		for _, item := range typed {
			if err := group.add(item); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("%w: unsupported condition of type %T", ErrConfiguration, condition)
	}

	return nil
}

func predicateFromPair(column string, value any) Predicate {
	combinator := And
	if s, ok := value.(string); ok {
		if trimmed, isOr := trimOrMarker(s); isOr {
			value = trimmed
			combinator = Or
		}
	}

	switch {
	case value == nil:
		return Predicate{Column: column, Operator: OperatorIsNull, Combinator: combinator}
	case isList(value):
		return Predicate{Column: column, Operator: OperatorIn, Values: listValues(value), Combinator: combinator}
	}

	return Predicate{Column: column, Operator: OperatorEqual, Values: []any{value}, Combinator: combinator}
}

func isList(value any) bool {
	if _, ok := value.([]byte); ok {
		return false
	}

	kind := reflect.TypeOf(value).Kind()

	return kind == reflect.Slice || kind == reflect.Array
}

func listValues(value any) []any {
	rv := reflect.ValueOf(value)
	values := make([]any, 0, rv.Len())
	for i := range rv.Len() {
		values = append(values, rv.Index(i).Interface())
	}

	return values
}

// Render renders the group starting after ordinal and returns the expression
// together with the ordinal of the last placeholder emitted.
func (group *Group) Render(dialect Dialect, ordinal int) (string, int, error) {
	binder := NewBinder(dialect, ordinal)
	expression, err := group.render(binder)

	return expression, binder.Ordinal(), err
}

func (group *Group) render(binder *Binder) (string, error) {
	parts := []string{}

	for _, child := range group.nested {
		if child.IsEmpty() {
			continue
		}

		rendered, err := child.render(binder)
		if err != nil {
			return "", err
		}

		parts = append(parts, rendered)
	}

	expression := strings.Join(parts, " AND ")

	for i, predicate := range group.predicates {
		rendered, err := predicate.render(binder)
		if err != nil {
			return "", err
		}

		switch {
		case expression == "":
			expression = rendered
		case i == 0:
			expression += " AND " + rendered
		default:
			expression += " " + string(predicate.Combinator) + " " + rendered
		}
	}

	if expression == "" {
		return "", nil
	}

	return "(" + expression + ")", nil
}

func (predicate Predicate) render(binder *Binder) (string, error) {
	column := predicate.Column
	if !strings.Contains(column, "(") {
		column = binder.dialect.QuoteIdentifier(column)
	}

	switch predicate.Operator {
	case OperatorIsNull, OperatorIsNotNull:
		return fmt.Sprintf("%s %s", column, predicate.Operator), nil

	case OperatorBetween, OperatorNotBetween:
		if len(predicate.Values) != 2 {
			return "", fmt.Errorf("%w: %s on %s needs two values", ErrConfiguration, predicate.Operator, predicate.Column)
		}

		return fmt.Sprintf(
			"%s %s %s AND %s",
			column,
			predicate.Operator,
			binder.value(predicate.Column, predicate.Values[0]),
			binder.value(predicate.Column, predicate.Values[1]),
		), nil

	case OperatorIn, OperatorNotIn:
		if len(predicate.Values) == 0 {
			if predicate.Operator == OperatorIn {
				return "1 = 0", nil
			}
			return "1 = 1", nil
		}

		values := []string{}
		for _, value := range predicate.Values {
			values = append(values, binder.value(predicate.Column, value))
		}

		return fmt.Sprintf("%s %s (%s)", column, predicate.Operator, strings.Join(values, ", ")), nil
	}

	if len(predicate.Values) != 1 {
		return "", fmt.Errorf("%w: %s on %s needs one value", ErrConfiguration, predicate.Operator, predicate.Column)
	}

	if predicate.Values[0] == nil {
		switch predicate.Operator {
		case OperatorEqual:
			return fmt.Sprintf("%s %s", column, OperatorIsNull), nil
		case OperatorNotEqual:
			return fmt.Sprintf("%s %s", column, OperatorIsNotNull), nil
		}
	}

	return fmt.Sprintf("%s %s %s", column, predicate.Operator, binder.value(predicate.Column, predicate.Values[0])), nil
}
