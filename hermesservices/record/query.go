package record

import (
	"context"

	"github.com/lunagic/hermes/hermesservices/database"
	"github.com/lunagic/hermes/hermesservices/sqlbuilder"
)

// Query runs raw SQL. Params are bound through a prepared statement. Row
// returning statements replace the loaded rows.
func (record *Record) Query(ctx context.Context, query string, params ...sqlbuilder.Param) (Result, error) {
	if _, err := record.raw(ctx, query, params); err != nil {
		return Result{}, err
	}

	return record.Result(), nil
}

// Execute runs raw SQL like Query and returns the affected row count.
func (record *Record) Execute(ctx context.Context, query string, params ...sqlbuilder.Param) (int64, error) {
	result, err := record.raw(ctx, query, params)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected, nil
}

func (record *Record) raw(ctx context.Context, query string, params sqlbuilder.Params) (*database.Result, error) {
	var result *database.Result
	var err error

	if len(params) == 0 {
		result, err = record.adapter.Query(ctx, query)
	} else {
		result, err = runPrepared(ctx, record.adapter, query, params)
	}
	if err != nil {
		return nil, err
	}

	if database.ReturnsRows(query) {
		record.hydrate(result)
	}

	return result, nil
}
