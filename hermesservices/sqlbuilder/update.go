package sqlbuilder

import (
	"fmt"
	"strings"

	"github.com/lunagic/hermes/hermestools"
)

type Update struct {
	base
	where *Group
}

func NewUpdate(dialect Dialect, table string) *Update {
	return &Update{base: newBase(dialect, table)}
}

func (update *Update) Set(column string, value any) *Update {
	update.set(column, value)
	return update
}

func (update *Update) Values(values map[string]any) *Update {
	for _, column := range hermestools.SortedKeys(values) {
		update.set(column, values[column])
	}

	return update
}

func (update *Update) Where() *Group {
	if update.where == nil {
		update.where = NewGroup()
	}

	return update.where
}

// Render numbers the SET placeholders first and the WHERE placeholders after
// them with the same binder.
func (update *Update) Render() (Statement, error) {
	if update.err != nil {
		return Statement{}, update.err
	}

	if len(update.columns) == 0 {
		return Statement{}, fmt.Errorf("%w: nothing to update in %s", ErrConfiguration, update.table)
	}

	binder := NewBinder(update.dialect, 0)

	assignments := []string{}
	for _, column := range update.columns {
		assignments = append(assignments, fmt.Sprintf(
			"%s = %s",
			update.dialect.QuoteIdentifier(column),
			binder.value(column, update.values[column]),
		))
	}

	query := fmt.Sprintf(
		"UPDATE %s SET %s",
		update.dialect.QuoteIdentifier(update.table),
		strings.Join(assignments, ", "),
	)

	if update.where != nil {
		where, err := update.where.render(binder)
		if err != nil {
			return Statement{}, err
		}
		if where != "" {
			query += " WHERE " + where
		}
	}

	return Statement{Query: query, Binds: binder.Names()}, nil
}
