package sqlbuilder

import (
	"fmt"
)

type Delete struct {
	base
	where *Group
}

func NewDelete(dialect Dialect, table string) *Delete {
	return &Delete{base: newBase(dialect, table)}
}

func (d *Delete) Where() *Group {
	if d.where == nil {
		d.where = NewGroup()
	}

	return d.where
}

func (d *Delete) OrderBy(items ...string) *Delete {
	d.orderBy(items...)
	return d
}

func (d *Delete) Limit(limit int) *Delete {
	d.limit = limit
	return d
}

func (d *Delete) LimitSpec(spec string) *Delete {
	if err := d.limitSpec(spec); err != nil {
		d.fail(err)
	}

	return d
}

// Render adds ORDER BY and LIMIT only on dialects whose DELETE accepts them.
func (d *Delete) Render() (Statement, error) {
	if d.err != nil {
		return Statement{}, d.err
	}

	binder := NewBinder(d.dialect, 0)

	query := fmt.Sprintf("DELETE FROM %s", d.dialect.QuoteIdentifier(d.table))

	if d.where != nil {
		where, err := d.where.render(binder)
		if err != nil {
			return Statement{}, err
		}
		if where != "" {
			query += " WHERE " + where
		}
	}

	if d.dialect.DeleteLimit() {
		if len(d.order) > 0 {
			query += " ORDER BY " + d.renderOrder()
		}
		if d.limit > 0 {
			query += fmt.Sprintf(" LIMIT %d", d.limit)
		}
	}

	return Statement{Query: query, Binds: binder.Names()}, nil
}
