package record

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/lunagic/hermes/hermesservices/sqlbuilder"
	"github.com/lunagic/hermes/hermestools"
)

// Save writes columns. Tables with an auto-increment key pick the mode
// themselves: INSERT when the key is missing from columns, UPDATE otherwise.
func (record *Record) Save(ctx context.Context, columns map[string]any, mode Mode) (Result, error) {
	if record.autoIncrement && len(record.primaryKey) > 0 {
		mode = ModeInsert
		if record.hasKey(columns) {
			mode = ModeUpdate
		}
	}

	var err error
	if mode == ModeInsert {
		err = record.insert(ctx, columns)
	} else {
		err = record.update(ctx, columns)
	}
	if err != nil {
		return Result{}, err
	}

	return record.Result(), nil
}

func (record *Record) insert(ctx context.Context, columns map[string]any) error {
	s := record.strategy()

	query := sqlbuilder.NewInsert(record.dialect, record.table)
	for _, column := range hermestools.SortedKeys(columns) {
		if record.autoIncrement && slices.Contains(record.primaryKey, column) && columns[column] == nil {
			continue
		}
		query.Set(column, s.value(column, columns[column]))
	}

	statement, err := query.Render()
	if err != nil {
		return err
	}

	if _, err := s.execute(ctx, record.adapter, statement); err != nil {
		return err
	}

	saved := maps.Clone(columns)
	if saved == nil {
		saved = map[string]any{}
	}

	if record.autoIncrement && len(record.primaryKey) > 0 {
		key := record.primaryKey[0]

		id, err := record.adapter.LastInsertID(ctx, record.table, key)
		if err != nil {
			return err
		}

		saved[key] = id
		if len(record.rows) == 0 {
			record.rows = []map[string]any{maps.Clone(saved)}
		} else {
			record.rows[0][key] = id
		}
	}

	record.columns = saved
	record.state = StateIdle

	return nil
}

func (record *Record) update(ctx context.Context, columns map[string]any) error {
	s := record.strategy()

	query := sqlbuilder.NewUpdate(record.dialect, record.table)

	var where map[string]any
	setColumns := hermestools.SortedKeys(columns)

	if len(record.primaryKey) > 0 {
		key, err := record.keyValues(columns)
		if err != nil {
			return err
		}
		where = key
		setColumns = hermestools.Filter(setColumns, func(column string) bool {
			return !slices.Contains(record.primaryKey, column)
		})
	} else {
		if len(record.finder) == 0 {
			return fmt.Errorf("%w: %s has no primary key and no finder to update by", ErrState, record.table)
		}
		where = record.finder
	}

	for _, column := range setColumns {
		query.Set(column, s.value(column, columns[column]))
	}
	matchAll(query.Where(), s, where, false)

	statement, err := query.Render()
	if err != nil {
		return err
	}

	if _, err := s.execute(ctx, record.adapter, statement); err != nil {
		return err
	}

	saved := maps.Clone(record.columns)
	maps.Copy(saved, columns)
	record.columns = saved
	record.state = StateIdle

	return nil
}

// Delete removes rows. The WHERE comes from override when given, else the
// primary key values in columns or the loaded columns, else the finder.
func (record *Record) Delete(ctx context.Context, columns map[string]any, override map[string]any) error {
	where := override

	if len(where) == 0 && len(record.primaryKey) > 0 {
		if key, err := record.keyValues(columns); err == nil {
			where = key
		}
	}

	if len(where) == 0 {
		where = record.finder
	}

	if len(where) == 0 {
		return fmt.Errorf("%w: nothing identifies the %s rows to delete", ErrState, record.table)
	}

	s := record.strategy()

	query := sqlbuilder.NewDelete(record.dialect, record.table)
	matchAll(query.Where(), s, where, false)

	statement, err := query.Render()
	if err != nil {
		return err
	}

	if _, err := s.execute(ctx, record.adapter, statement); err != nil {
		return err
	}

	record.reset()

	return nil
}

func (record *Record) hasKey(columns map[string]any) bool {
	for _, column := range record.primaryKey {
		if value, found := columns[column]; !found || value == nil {
			return false
		}
	}

	return true
}

// keyValues reads every key column from columns, falling back to the loaded
// columns.
func (record *Record) keyValues(columns map[string]any) (map[string]any, error) {
	key := map[string]any{}

	for _, column := range record.primaryKey {
		value, found := columns[column]
		if !found || value == nil {
			value, found = record.columns[column]
		}
		if !found || value == nil {
			return nil, fmt.Errorf("%w: no value for key column %s of %s", ErrState, column, record.table)
		}

		key[column] = value
	}

	return key, nil
}
