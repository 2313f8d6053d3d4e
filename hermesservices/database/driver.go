package database

import (
	"database/sql"
	"errors"

	"github.com/lunagic/hermes/hermesservices/sqlbuilder"
)

var (
	ErrBlankQuery      = errors.New("blank query")
	ErrNoLastInsertID  = errors.New("no last insert id")
	ErrStatementClosed = errors.New("statement closed")
)

// Driver opens a connection pool for one backend and knows the catalog
// queries that backend needs.
type Driver interface {
	Open() (*sql.DB, error)
	Dialect() sqlbuilder.Dialect
	// lastInsertIDQuery returns "" when the id comes from sql.Result.
	lastInsertIDQuery(table string, primaryKey string) string
	listTablesQuery() string
	rewriteQuery(query string) string
}
