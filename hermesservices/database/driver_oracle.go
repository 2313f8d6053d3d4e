package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/lunagic/hermes/hermesservices/sqlbuilder"
	go_ora "github.com/sijms/go-ora/v2"
)

func NewDriverOracle(config DriverOracleConfig) Driver {
	return &driverOracle{
		config: config,
	}
}

type DriverOracleConfig struct {
	Host    string
	Port    int
	User    string
	Pass    string
	Service string
}

type driverOracle struct {
	config DriverOracleConfig
}

func (driver *driverOracle) Open() (*sql.DB, error) {
	return sql.Open("oracle", go_ora.BuildUrl(
		driver.config.Host,
		driver.config.Port,
		driver.config.Service,
		driver.config.User,
		driver.config.Pass,
		nil,
	))
}

func (driver *driverOracle) Dialect() sqlbuilder.Dialect {
	return sqlbuilder.Oracle
}

// lastInsertIDQuery expects the "<table>_seq" sequence convention.
func (driver *driverOracle) lastInsertIDQuery(table string, primaryKey string) string {
	return fmt.Sprintf("SELECT %s.CURRVAL FROM dual", driver.Dialect().QuoteIdentifier(strings.ToUpper(table)+"_SEQ"))
}

func (driver *driverOracle) listTablesQuery() string {
	return "SELECT table_name FROM user_tables ORDER BY table_name"
}

func (driver *driverOracle) rewriteQuery(query string) string {
	return query
}
