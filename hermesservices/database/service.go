package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lunagic/hermes/hermesservices/cache"
	"github.com/lunagic/hermes/hermesservices/sqlbuilder"
)

// Service is the Adapter backed by database/sql. Every statement runs on one
// pinned connection so per-session state like CURRVAL and @@IDENTITY is kept
// between calls.
type Service struct {
	driver            Driver
	dialect           sqlbuilder.Dialect
	standardLibraryDB *sql.DB
	conn              *sql.Conn
	lastResult        sql.Result
	preRunFuncs       []func(ctx context.Context, statement string, args []any) error
	postRunFuncs      []func(ctx context.Context) error
	tableCache        *cache.Repository[string, []string]
	tableCacheTTL     time.Duration
}

func New(
	driver Driver,
	configFuncs ...ServiceConfigFunc,
) (*Service, error) {
	db, err := driver.Open()
	if err != nil {
		return nil, err
	}

	service := &Service{
		driver:            driver,
		dialect:           driver.Dialect(),
		standardLibraryDB: db,
		preRunFuncs:       []func(ctx context.Context, statement string, args []any) error{},
		postRunFuncs:      []func(ctx context.Context) error{},
	}

	for _, configFunc := range configFuncs {
		if err := configFunc(service); err != nil {
			return nil, err
		}
	}

	return service, nil
}

func (service *Service) Ping() error {
	return service.standardLibraryDB.Ping()
}

func (service *Service) Close() error {
	if service.conn != nil {
		_ = service.conn.Close()
		service.conn = nil
	}

	return service.standardLibraryDB.Close()
}

func (service *Service) Dialect() sqlbuilder.Dialect {
	return service.dialect
}

func (service *Service) QuoteIdentifier(name string) string {
	return service.dialect.QuoteIdentifier(name)
}

func (service *Service) QuoteLiteral(value any) string {
	return service.dialect.QuoteLiteral(value)
}

func (service *Service) Escape(value string) string {
	return service.dialect.Escape(value)
}

func (service *Service) Query(ctx context.Context, query string) (*Result, error) {
	query, err := service.prepareQuery(query)
	if err != nil {
		return nil, err
	}

	conn, err := service.connection(ctx)
	if err != nil {
		return nil, err
	}

	return service.run(ctx, query, nil, func(ctx context.Context, args []any) (*sql.Rows, error) {
		return conn.QueryContext(ctx, query, args...)
	}, func(ctx context.Context, args []any) (sql.Result, error) {
		return conn.ExecContext(ctx, query, args...)
	})
}

func (service *Service) Prepare(ctx context.Context, query string) (PreparedStatement, error) {
	query, err := service.prepareQuery(query)
	if err != nil {
		return nil, err
	}

	conn, err := service.connection(ctx)
	if err != nil {
		return nil, err
	}

	stmt, err := conn.PrepareContext(ctx, query)
	if err != nil {
		return nil, err
	}

	return &preparedStatement{
		service: service,
		stmt:    stmt,
		query:   query,
		args:    []any{},
	}, nil
}

// LastInsertID returns the id generated by the most recent insert on this
// Service's connection.
func (service *Service) LastInsertID(ctx context.Context, table string, primaryKey string) (int64, error) {
	query := service.driver.lastInsertIDQuery(table, primaryKey)
	if query == "" {
		if service.lastResult == nil {
			return 0, ErrNoLastInsertID
		}

		return service.lastResult.LastInsertId()
	}

	result, err := service.Query(ctx, query)
	if err != nil {
		return 0, err
	}

	row, found := result.FetchRow()
	if !found {
		return 0, ErrNoLastInsertID
	}

	for _, value := range row {
		if value == nil {
			return 0, ErrNoLastInsertID
		}

		return ToInt64(value)
	}

	return 0, ErrNoLastInsertID
}

func (service *Service) ListTables(ctx context.Context) ([]string, error) {
	if service.tableCache != nil {
		return service.tableCache.Remember(ctx, service.dialect.String(), service.tableCacheTTL, service.listTables)
	}

	return service.listTables(ctx)
}

func (service *Service) listTables(ctx context.Context) ([]string, error) {
	result, err := service.Query(ctx, service.driver.listTablesQuery())
	if err != nil {
		return nil, err
	}

	tables := []string{}
	for _, row := range result.FetchAll() {
		for _, value := range row {
			if name, ok := value.(string); ok {
				tables = append(tables, name)
			}
		}
	}

	return tables, nil
}

func (service *Service) prepareQuery(query string) (string, error) {
	query = strings.TrimSpace(service.driver.rewriteQuery(query))
	if query == "" {
		return "", ErrBlankQuery
	}

	return query, nil
}

func (service *Service) connection(ctx context.Context) (*sql.Conn, error) {
	if service.conn != nil {
		return service.conn, nil
	}

	conn, err := service.standardLibraryDB.Conn(ctx)
	if err != nil {
		return nil, err
	}

	service.conn = conn

	return conn, nil
}

func (service *Service) run(
	ctx context.Context,
	query string,
	args []any,
	queryFunc func(ctx context.Context, args []any) (*sql.Rows, error),
	execFunc func(ctx context.Context, args []any) (sql.Result, error),
) (*Result, error) {
	for _, preRunFunc := range service.preRunFuncs {
		if err := preRunFunc(ctx, query, args); err != nil {
			return nil, err
		}
	}

	result := &Result{}

	if ReturnsRows(query) {
		rows, err := queryFunc(ctx, args)
		if err != nil {
			return nil, err
		}

		result.rows, err = readRows(rows)
		if err != nil {
			return nil, err
		}
	} else {
		execResult, err := execFunc(ctx, args)
		if err != nil {
			return nil, err
		}

		service.lastResult = execResult
		if affected, err := execResult.RowsAffected(); err == nil {
			result.RowsAffected = affected
		}

		if service.tableCache != nil && changesSchema(query) {
			if err := service.tableCache.Delete(ctx, service.dialect.String()); err != nil {
				return nil, err
			}
		}
	}

	for _, postRunFunc := range service.postRunFuncs {
		if err := postRunFunc(ctx); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// ToInt64 converts a scalar read from a result row to an int64.
func ToInt64(value any) (int64, error) {
	switch typed := value.(type) {
	case int64:
		return typed, nil
	case int32:
		return int64(typed), nil
	case int:
		return int64(typed), nil
	case uint64:
		return int64(typed), nil
	case float64:
		return int64(typed), nil
	case string:
		return strconv.ParseInt(strings.TrimSpace(typed), 10, 64)
	case nil:
		return 0, fmt.Errorf("cannot convert NULL to an integer")
	}

	return strconv.ParseInt(strings.TrimSpace(fmt.Sprint(value)), 10, 64)
}
