package database

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/lunagic/hermes/hermesservices/sqlbuilder"
)

func NewDriverPostgres(config DriverPostgresConfig) Driver {
	return &driverPostgres{
		config: config,
	}
}

type DriverPostgresConfig struct {
	Host string
	Port int
	User string
	Pass string
	Name string
}

type driverPostgres struct {
	config DriverPostgresConfig
}

func (driver *driverPostgres) Open() (*sql.DB, error) {
	return sql.Open(
		"postgres",
		fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			driver.config.Host,
			driver.config.Port,
			driver.config.User,
			driver.config.Pass,
			driver.config.Name,
		),
	)
}

func (driver *driverPostgres) Dialect() sqlbuilder.Dialect {
	return sqlbuilder.PostgreSQL
}

// lastInsertIDQuery reads the sequence behind a serial or identity column.
// CURRVAL is per session, so it has to run on the connection that inserted.
func (driver *driverPostgres) lastInsertIDQuery(table string, primaryKey string) string {
	dialect := driver.Dialect()

	return fmt.Sprintf(
		"SELECT CURRVAL(pg_get_serial_sequence(%s, %s))",
		dialect.QuoteLiteral(dialect.QuoteIdentifier(table)),
		dialect.QuoteLiteral(primaryKey),
	)
}

func (driver *driverPostgres) listTablesQuery() string {
	return "SELECT tablename FROM pg_tables WHERE schemaname = current_schema() ORDER BY tablename"
}

func (driver *driverPostgres) rewriteQuery(query string) string {
	return query
}
