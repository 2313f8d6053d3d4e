package database

import (
	"database/sql"

	"github.com/lunagic/hermes/hermesservices/sqlbuilder"
)

// NewDriverGeneric wraps any database/sql pool. The dialect comes from the
// driver name and the catalog queries from the matching built-in driver.
func NewDriverGeneric(driverName string, open func() (*sql.DB, error)) Driver {
	return &driverGeneric{
		dialect: sqlbuilder.DialectFromDriver(driverName),
		open:    open,
	}
}

type driverGeneric struct {
	dialect sqlbuilder.Dialect
	open    func() (*sql.DB, error)
}

func (driver *driverGeneric) Open() (*sql.DB, error) {
	return driver.open()
}

func (driver *driverGeneric) Dialect() sqlbuilder.Dialect {
	return driver.dialect
}

func (driver *driverGeneric) native() Driver {
	switch driver.dialect {
	case sqlbuilder.PostgreSQL:
		return &driverPostgres{}
	case sqlbuilder.SQLite:
		return &driverSQLite{}
	case sqlbuilder.SQLServer:
		return &driverSQLServer{}
	case sqlbuilder.Oracle:
		return &driverOracle{}
	}

	return &driverMySQL{}
}

func (driver *driverGeneric) lastInsertIDQuery(table string, primaryKey string) string {
	return driver.native().lastInsertIDQuery(table, primaryKey)
}

func (driver *driverGeneric) listTablesQuery() string {
	if driver.dialect == sqlbuilder.Generic {
		return "SELECT table_name FROM information_schema.tables ORDER BY table_name"
	}

	return driver.native().listTablesQuery()
}

func (driver *driverGeneric) rewriteQuery(query string) string {
	return driver.native().rewriteQuery(query)
}
