package sqlbuilder

import (
	"fmt"
	"strings"

	"github.com/lunagic/hermes/hermestools"
)

type Insert struct {
	base
}

func NewInsert(dialect Dialect, table string) *Insert {
	return &Insert{base: newBase(dialect, table)}
}

// Set adds a column. Columns render in the order they were first set.
func (insert *Insert) Set(column string, value any) *Insert {
	insert.set(column, value)
	return insert
}

// Values sets every column of the map in sorted key order.
func (insert *Insert) Values(values map[string]any) *Insert {
	for _, column := range hermestools.SortedKeys(values) {
		insert.set(column, values[column])
	}

	return insert
}

func (insert *Insert) Render() (Statement, error) {
	if insert.err != nil {
		return Statement{}, insert.err
	}

	if len(insert.columns) == 0 {
		return Statement{}, fmt.Errorf("%w: nothing to insert into %s", ErrConfiguration, insert.table)
	}

	binder := NewBinder(insert.dialect, 0)

	columns := []string{}
	values := []string{}
	for _, column := range insert.columns {
		columns = append(columns, insert.dialect.QuoteIdentifier(column))
		values = append(values, binder.value(column, insert.values[column]))
	}

	return Statement{
		Query: fmt.Sprintf(
			"INSERT INTO %s (%s) VALUES (%s)",
			insert.dialect.QuoteIdentifier(insert.table),
			strings.Join(columns, ", "),
			strings.Join(values, ", "),
		),
		Binds: binder.Names(),
	}, nil
}
