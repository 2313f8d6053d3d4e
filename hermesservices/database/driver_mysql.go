package database

import (
	"database/sql"
	"fmt"
	"io"
	"log"

	"github.com/go-sql-driver/mysql"
	"github.com/lunagic/hermes/hermesservices/sqlbuilder"
)

func NewDriverMySQL(config DriverMySQLConfig) Driver {
	return &driverMySQL{
		config: config,
	}
}

type DriverMySQLConfig struct {
	Host string
	Port int
	User string
	Pass string
	Name string
}

type driverMySQL struct {
	config DriverMySQLConfig
}

func (driver *driverMySQL) Open() (*sql.DB, error) {
	_ = mysql.SetLogger(log.New(io.Discard, "", log.LstdFlags))

	config := mysql.NewConfig()
	config.User = driver.config.User
	config.Passwd = driver.config.Pass
	config.Net = "tcp"
	config.Addr = fmt.Sprintf("%s:%d", driver.config.Host, driver.config.Port)
	config.DBName = driver.config.Name
	config.ParseTime = true

	return sql.Open("mysql", config.FormatDSN())
}

func (driver *driverMySQL) Dialect() sqlbuilder.Dialect {
	return sqlbuilder.MySQL
}

func (driver *driverMySQL) lastInsertIDQuery(table string, primaryKey string) string {
	return ""
}

func (driver *driverMySQL) listTablesQuery() string {
	return "SELECT table_name FROM information_schema.tables WHERE table_schema = DATABASE() AND table_type = 'BASE TABLE' ORDER BY table_name"
}

func (driver *driverMySQL) rewriteQuery(query string) string {
	return query
}
