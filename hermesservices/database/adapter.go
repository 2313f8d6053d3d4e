package database

import (
	"context"
	"database/sql"

	"github.com/lunagic/hermes/hermesservices/sqlbuilder"
)

// Adapter is everything the record layer needs from a database.
type Adapter interface {
	Dialect() sqlbuilder.Dialect
	QuoteIdentifier(name string) string
	QuoteLiteral(value any) string
	Escape(value string) string
	Prepare(ctx context.Context, query string) (PreparedStatement, error)
	Query(ctx context.Context, query string) (*Result, error)
	LastInsertID(ctx context.Context, table string, primaryKey string) (int64, error)
	ListTables(ctx context.Context) ([]string, error)
}

type PreparedStatement interface {
	BindParams(params sqlbuilder.Params) error
	Execute(ctx context.Context) (*Result, error)
	Close() error
}

var _ Adapter = (*Service)(nil)

type preparedStatement struct {
	service *Service
	stmt    *sql.Stmt
	query   string
	args    []any
}

// BindParams replaces the bound values. Named dialects bind by name, the
// others by position.
func (prepared *preparedStatement) BindParams(params sqlbuilder.Params) error {
	if prepared.stmt == nil {
		return ErrStatementClosed
	}

	args := make([]any, 0, len(params))
	for _, param := range params {
		if prepared.service.dialect.PlaceholderStyle() == sqlbuilder.Named {
			args = append(args, sql.Named(param.Name, param.Value))
			continue
		}

		args = append(args, param.Value)
	}

	prepared.args = args

	return nil
}

func (prepared *preparedStatement) Execute(ctx context.Context) (*Result, error) {
	if prepared.stmt == nil {
		return nil, ErrStatementClosed
	}

	return prepared.service.run(ctx, prepared.query, prepared.args, func(ctx context.Context, args []any) (*sql.Rows, error) {
		return prepared.stmt.QueryContext(ctx, args...)
	}, func(ctx context.Context, args []any) (sql.Result, error) {
		return prepared.stmt.ExecContext(ctx, args...)
	})
}

func (prepared *preparedStatement) Close() error {
	if prepared.stmt == nil {
		return nil
	}

	err := prepared.stmt.Close()
	prepared.stmt = nil

	return err
}
