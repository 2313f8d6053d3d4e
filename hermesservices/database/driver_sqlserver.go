package database

import (
	"database/sql"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/lunagic/hermes/hermesservices/sqlbuilder"
	_ "github.com/microsoft/go-mssqldb"
)

func NewDriverSQLServer(config DriverSQLServerConfig) Driver {
	return &driverSQLServer{
		config: config,
	}
}

type DriverSQLServerConfig struct {
	Host string
	Port int
	User string
	Pass string
	Name string
}

type driverSQLServer struct {
	config DriverSQLServerConfig
}

func (driver *driverSQLServer) Open() (*sql.DB, error) {
	query := url.Values{}
	query.Set("database", driver.config.Name)
	query.Set("encrypt", "disable")

	dsn := url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(driver.config.User, driver.config.Pass),
		Host:     fmt.Sprintf("%s:%d", driver.config.Host, driver.config.Port),
		RawQuery: query.Encode(),
	}

	return sql.Open("sqlserver", dsn.String())
}

func (driver *driverSQLServer) Dialect() sqlbuilder.Dialect {
	return sqlbuilder.SQLServer
}

// lastInsertIDQuery uses @@IDENTITY because SCOPE_IDENTITY does not survive
// the sp_executesql batch the insert ran in.
func (driver *driverSQLServer) lastInsertIDQuery(table string, primaryKey string) string {
	return "SELECT CAST(@@IDENTITY AS BIGINT)"
}

func (driver *driverSQLServer) listTablesQuery() string {
	return "SELECT TABLE_NAME FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_TYPE = 'BASE TABLE' ORDER BY TABLE_NAME"
}

func (driver *driverSQLServer) rewriteQuery(query string) string {
	return numberQuestionMarks(query)
}

// numberQuestionMarks turns each "?" outside quoted text into @p1, @p2, ...
func numberQuestionMarks(query string) string {
	builder := strings.Builder{}
	counter := 0
	var quote rune

	for _, r := range query {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == '[':
			quote = ']'
		case r == '?':
			counter++
			builder.WriteString("@p" + strconv.Itoa(counter))
			continue
		}

		builder.WriteRune(r)
	}

	return builder.String()
}
