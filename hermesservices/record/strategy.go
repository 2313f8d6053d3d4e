package record

import (
	"context"
	"strings"

	"github.com/lunagic/hermes/hermesservices/database"
	"github.com/lunagic/hermes/hermesservices/sqlbuilder"
	"github.com/lunagic/hermes/hermestools"
)

// strategy decides how one statement's values reach the database. A
// prepared strategy collects values in the order the builder emits their
// placeholders, so a fresh one is used per statement.
type strategy interface {
	value(column string, value any) any
	execute(ctx context.Context, adapter database.Adapter, statement sqlbuilder.Statement) (*database.Result, error)
}

type literalStrategy struct{}

// value inlines everything. Strings that read like a sentinel are kept literal.
func (literalStrategy) value(column string, value any) any {
	if sqlbuilder.IsSentinel(column, value) {
		return sqlbuilder.Literal{Value: value}
	}

	return value
}

func (literalStrategy) execute(ctx context.Context, adapter database.Adapter, statement sqlbuilder.Statement) (*database.Result, error) {
	return adapter.Query(ctx, statement.Query)
}

type preparedStrategy struct {
	values []any
}

func (s *preparedStrategy) value(column string, value any) any {
	s.values = append(s.values, value)

	return sqlbuilder.Sentinel(column)
}

func (s *preparedStrategy) execute(ctx context.Context, adapter database.Adapter, statement sqlbuilder.Statement) (*database.Result, error) {
	params, err := statement.Bind(s.values...)
	if err != nil {
		return nil, err
	}

	return runPrepared(ctx, adapter, statement.Query, params)
}

func runPrepared(ctx context.Context, adapter database.Adapter, query string, params sqlbuilder.Params) (*database.Result, error) {
	prepared, err := adapter.Prepare(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = prepared.Close()
	}()

	if err := prepared.BindParams(params); err != nil {
		return nil, err
	}

	return prepared.Execute(ctx)
}

// match adds one criteria entry to group. nil is IS NULL and never binds.
// When like is set, strings containing % compare with LIKE.
func match(group *sqlbuilder.Group, s strategy, column string, value any, like bool) {
	if value == nil {
		group.IsNull(column)
		return
	}

	if text, ok := value.(string); ok && like && strings.Contains(text, "%") {
		group.Like(column, s.value(column, value))
		return
	}

	group.EqualTo(column, s.value(column, value))
}

func matchAll(group *sqlbuilder.Group, s strategy, criteria map[string]any, like bool) {
	for _, column := range hermestools.SortedKeys(criteria) {
		match(group, s, column, criteria[column], like)
	}
}
