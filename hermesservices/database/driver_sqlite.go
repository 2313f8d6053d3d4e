package database

import (
	"database/sql"
	"fmt"

	"github.com/lunagic/hermes/hermesservices/sqlbuilder"
	_ "github.com/mattn/go-sqlite3"
)

func NewDriverSQLite(path string) Driver {
	return &driverSQLite{
		Path: path,
	}
}

type driverSQLite struct {
	Path string
}

func (driver *driverSQLite) Open() (*sql.DB, error) {
	return sql.Open(
		"sqlite3",
		fmt.Sprintf("file:%s?cache=shared&_foreign_keys=on", driver.Path),
	)
}

func (driver *driverSQLite) Dialect() sqlbuilder.Dialect {
	return sqlbuilder.SQLite
}

func (driver *driverSQLite) lastInsertIDQuery(table string, primaryKey string) string {
	return ""
}

func (driver *driverSQLite) listTablesQuery() string {
	return "SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name"
}

func (driver *driverSQLite) rewriteQuery(query string) string {
	return query
}
