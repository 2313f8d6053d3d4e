package sqlbuilder_test

import (
	"testing"

	"github.com/lunagic/hermes/hermesservices/sqlbuilder"
	"gotest.tools/v3/assert"
)

func TestParseCondition(t *testing.T) {
	t.Parallel()

	for condition, expected := range map[string]sqlbuilder.Predicate{
		"age >= 21": {
			Column: "age", Operator: sqlbuilder.OperatorGreaterThanOrEqual, Values: []any{int64(21)}, Combinator: sqlbuilder.And,
		},
		"age>21": {
			Column: "age", Operator: sqlbuilder.OperatorGreaterThan, Values: []any{int64(21)}, Combinator: sqlbuilder.And,
		},
		"status <> 'closed'": {
			Column: "status", Operator: sqlbuilder.OperatorNotEqual, Values: []any{"closed"}, Combinator: sqlbuilder.And,
		},
		"price < 9.5 OR": {
			Column: "price", Operator: sqlbuilder.OperatorLessThan, Values: []any{9.5}, Combinator: sqlbuilder.Or,
		},
		"`first name` = 'O''Brien'": {
			Column: "first name", Operator: sqlbuilder.OperatorEqual, Values: []any{"O'Brien"}, Combinator: sqlbuilder.And,
		},
		"[order] = \"12\"": {
			Column: "order", Operator: sqlbuilder.OperatorEqual, Values: []any{"12"}, Combinator: sqlbuilder.And,
		},
		"title = 'a >= b'": {
			Column: "title", Operator: sqlbuilder.OperatorEqual, Values: []any{"a >= b"}, Combinator: sqlbuilder.And,
		},
		"id = (1, 2)": {
			Column: "id", Operator: sqlbuilder.OperatorIn, Values: []any{int64(1), int64(2)}, Combinator: sqlbuilder.And,
		},
		"id != (3)": {
			Column: "id", Operator: sqlbuilder.OperatorNotIn, Values: []any{int64(3)}, Combinator: sqlbuilder.And,
		},
		"tag not in ('a', 'b,c')": {
			Column: "tag", Operator: sqlbuilder.OperatorNotIn, Values: []any{"a", "b,c"}, Combinator: sqlbuilder.And,
		},
		"deleted_at = NULL": {
			Column: "deleted_at", Operator: sqlbuilder.OperatorIsNull, Combinator: sqlbuilder.And,
		},
		"deleted_at IS NOT NULL OR": {
			Column: "deleted_at", Operator: sqlbuilder.OperatorIsNotNull, Combinator: sqlbuilder.Or,
		},
		"name NOT LIKE '%x%'": {
			Column: "name", Operator: sqlbuilder.OperatorNotLike, Values: []any{"%x%"}, Combinator: sqlbuilder.And,
		},
		"created NOT BETWEEN '2024-01-01' AND '2024-12-31'": {
			Column: "created", Operator: sqlbuilder.OperatorNotBetween, Values: []any{"2024-01-01", "2024-12-31"}, Combinator: sqlbuilder.And,
		},
		"score between 1 and 5": {
			Column: "score", Operator: sqlbuilder.OperatorBetween, Values: []any{int64(1), int64(5)}, Combinator: sqlbuilder.And,
		},
		"id = :id": {
			Column: "id", Operator: sqlbuilder.OperatorEqual, Values: []any{":id"}, Combinator: sqlbuilder.And,
		},
		`"u"."name" = 'x'`: {
			Column: "u.name", Operator: sqlbuilder.OperatorEqual, Values: []any{"x"}, Combinator: sqlbuilder.And,
		},
		"`u`.`name` LIKE 'a%'": {
			Column: "u.name", Operator: sqlbuilder.OperatorLike, Values: []any{"a%"}, Combinator: sqlbuilder.And,
		},
		`u."first name">=2`: {
			Column: "u.first name", Operator: sqlbuilder.OperatorGreaterThanOrEqual, Values: []any{int64(2)}, Combinator: sqlbuilder.And,
		},
		"[dbo].[users].id IS NULL": {
			Column: "dbo.users.id", Operator: sqlbuilder.OperatorIsNull, Combinator: sqlbuilder.And,
		},
		"COUNT(id) > 3": {
			Column: "COUNT(id)", Operator: sqlbuilder.OperatorGreaterThan, Values: []any{int64(3)}, Combinator: sqlbuilder.And,
		},
		"name = infinity": {
			Column: "name", Operator: sqlbuilder.OperatorEqual, Values: []any{"infinity"}, Combinator: sqlbuilder.And,
		},
	} {
		actual, err := sqlbuilder.ParseCondition(condition)
		assert.NilError(t, err, condition)
		assert.DeepEqual(t, actual, expected)
	}
}

func TestParseConditionErrors(t *testing.T) {
	t.Parallel()

	for _, condition := range []string{
		"",
		"   ",
		"= 5",
		"age",
		"age 21",
		"age >=",
		"id IN 5",
		"a BETWEEN 1",
		"`broken = 1",
		"deleted_at IS NULL please",
	} {
		_, err := sqlbuilder.ParseCondition(condition)
		assert.ErrorIs(t, err, sqlbuilder.ErrConfiguration, condition)
	}
}
