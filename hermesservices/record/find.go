package record

import (
	"context"
	"fmt"
	"maps"
	"reflect"
	"strings"

	"github.com/lunagic/hermes/hermesservices/database"
	"github.com/lunagic/hermes/hermesservices/sqlbuilder"
)

type findOptions struct {
	order  []string
	limit  int
	offset int
}

type FindModifier func(options *findOptions)

func WithOrder(items ...string) FindModifier {
	return func(options *findOptions) {
		options.order = append(options.order, items...)
	}
}

func WithLimit(limit int, offset int) FindModifier {
	return func(options *findOptions) {
		options.limit = limit
		options.offset = offset
	}
}

// FindByID loads rows by primary key. A composite key takes a slice with one
// value per key column.
func (record *Record) FindByID(ctx context.Context, id any, modifiers ...FindModifier) (Result, error) {
	criteria, err := record.keyCriteria(id)
	if err != nil {
		return Result{}, err
	}

	return record.find(ctx, criteria, false, modifiers)
}

// FindBy loads rows matching criteria and remembers it as the finder. String
// values containing % match with LIKE.
func (record *Record) FindBy(ctx context.Context, criteria map[string]any, modifiers ...FindModifier) (Result, error) {
	record.finder = maps.Clone(criteria)

	return record.find(ctx, criteria, true, modifiers)
}

// FindAll is FindBy with optional criteria. No criteria clears the finder.
func (record *Record) FindAll(ctx context.Context, criteria map[string]any, modifiers ...FindModifier) (Result, error) {
	if len(criteria) == 0 {
		record.finder = nil
		return record.find(ctx, nil, true, modifiers)
	}

	return record.FindBy(ctx, criteria, modifiers...)
}

// GetCount counts rows whose columns equal criteria.
func (record *Record) GetCount(ctx context.Context, criteria map[string]any) (int64, error) {
	s := record.strategy()

	query := sqlbuilder.NewSelect(record.dialect, record.table).Columns("COUNT(*) AS total_count")
	matchAll(query.Where(), s, criteria, false)

	statement, err := query.Render()
	if err != nil {
		return 0, err
	}

	result, err := s.execute(ctx, record.adapter, statement)
	if err != nil {
		return 0, err
	}

	row, found := result.FetchRow()
	if !found {
		return 0, nil
	}

	// Oracle folds unquoted aliases to upper case.
	for column, value := range row {
		if strings.EqualFold(column, "total_count") {
			return database.ToInt64(value)
		}
	}

	return 0, fmt.Errorf("count result has no total_count column")
}

func (record *Record) find(ctx context.Context, criteria map[string]any, like bool, modifiers []FindModifier) (Result, error) {
	options := findOptions{}
	for _, modifier := range modifiers {
		modifier(&options)
	}

	s := record.strategy()

	query := sqlbuilder.NewSelect(record.dialect, record.table).
		OrderBy(options.order...).
		Limit(options.limit).
		Offset(options.offset)
	matchAll(query.Where(), s, criteria, like)

	statement, err := query.Render()
	if err != nil {
		return Result{}, err
	}

	result, err := s.execute(ctx, record.adapter, statement)
	if err != nil {
		return Result{}, err
	}

	record.hydrate(result)

	return record.Result(), nil
}

func (record *Record) keyCriteria(id any) (map[string]any, error) {
	if len(record.primaryKey) == 0 {
		return nil, fmt.Errorf("%w: %s has no primary key", ErrState, record.table)
	}

	ids := []any{id}
	if id != nil {
		if value := reflect.ValueOf(id); value.Kind() == reflect.Slice && value.Type().Elem().Kind() != reflect.Uint8 {
			ids = make([]any, value.Len())
			for i := range ids {
				ids[i] = value.Index(i).Interface()
			}
		}
	}

	if len(ids) != len(record.primaryKey) {
		return nil, fmt.Errorf(
			"%w: %s has %d key columns but %d values were given",
			ErrCompositeKeyMismatch,
			record.table,
			len(record.primaryKey),
			len(ids),
		)
	}

	criteria := map[string]any{}
	for i, column := range record.primaryKey {
		criteria[column] = ids[i]
	}

	return criteria, nil
}
