package sqlbuilder

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Dialect identifies the database family a statement is rendered for.
type Dialect int

const (
	Generic Dialect = iota
	MySQL
	SQLite
	PostgreSQL
	SQLServer
	Oracle
)

// PlaceholderStyle is how a dialect spells a bound parameter.
type PlaceholderStyle int

const (
	// Positional placeholders are a bare "?".
	Positional PlaceholderStyle = iota
	// Numbered placeholders are "$1", "$2", ...
	Numbered
	// Named placeholders are ":name".
	Named
)

const dateTimeFormat = "2006-01-02 15:04:05"

func (d Dialect) String() string {
	switch d {
	case MySQL:
		return "mysql"
	case SQLite:
		return "sqlite"
	case PostgreSQL:
		return "postgres"
	case SQLServer:
		return "sqlserver"
	case Oracle:
		return "oracle"
	}

	return "generic"
}

// DialectFromDriver maps a database/sql driver name to its dialect.
func DialectFromDriver(name string) Dialect {
	name = strings.ToLower(strings.TrimSpace(name))

	for _, candidate := range []struct {
		prefixes []string
		dialect  Dialect
	}{
		{[]string{"mysql", "mariadb"}, MySQL},
		{[]string{"sqlite"}, SQLite},
		{[]string{"postgres", "pgx", "pgsql"}, PostgreSQL},
		{[]string{"sqlserver", "mssql", "azuresql"}, SQLServer},
		{[]string{"oracle", "godror", "oci8"}, Oracle},
	} {
		for _, prefix := range candidate.prefixes {
			if strings.HasPrefix(name, prefix) {
				return candidate.dialect
			}
		}
	}

	return Generic
}

func (d Dialect) PlaceholderStyle() PlaceholderStyle {
	switch d {
	case PostgreSQL:
		return Numbered
	case SQLite, Oracle:
		return Named
	}

	return Positional
}

// Placeholder renders the bound-parameter marker for name. The ordinal is
// only used by numbered dialects.
func (d Dialect) Placeholder(name string, ordinal int) string {
	switch d.PlaceholderStyle() {
	case Numbered:
		return fmt.Sprintf("$%d", ordinal)
	case Named:
		return ":" + name
	}

	return "?"
}

// NativeOffset reports whether the dialect understands LIMIT/OFFSET.
func (d Dialect) NativeOffset() bool {
	return d != Oracle && d != SQLServer
}

// DeleteLimit reports whether DELETE accepts ORDER BY and LIMIT.
func (d Dialect) DeleteLimit() bool {
	return d == MySQL
}

func (d Dialect) Random() string {
	switch d {
	case SQLite, PostgreSQL:
		return "RANDOM()"
	case SQLServer:
		return "NEWID()"
	case Oracle:
		return "DBMS_RANDOM.VALUE"
	}

	return "RAND()"
}

// AliasKeyword is placed between a derived table and its alias.
func (d Dialect) AliasKeyword() string {
	if d == Oracle {
		return " "
	}

	return " AS "
}

func (d Dialect) quoteCharacters() (string, string) {
	switch d {
	case MySQL:
		return "`", "`"
	case SQLServer:
		return "[", "]"
	}

	return `"`, `"`
}

func (d Dialect) QuoteIdentifier(name string) string {
	open, closing := d.quoteCharacters()

	parts := strings.Split(strings.TrimSpace(name), ".")
	for i, part := range parts {
		if part == "*" || part == "" {
			continue
		}

		if isQuoted(part) {
			continue
		}

		parts[i] = open + strings.ReplaceAll(part, closing, closing+closing) + closing
	}

	return strings.Join(parts, ".")
}

func (d Dialect) Escape(value string) string {
	if d == MySQL {
		value = strings.ReplaceAll(value, `\`, `\\`)
	}

	return strings.ReplaceAll(value, "'", "''")
}

// Literal wraps a value that must always be rendered inline, even when it
// reads like a named-parameter sentinel.
type Literal struct {
	Value any
}

func (d Dialect) QuoteLiteral(value any) string {
	switch typed := value.(type) {
	case nil:
		return "NULL"
	case Literal:
		return d.QuoteLiteral(typed.Value)
	case bool:
		if d == PostgreSQL {
			if typed {
				return "TRUE"
			}
			return "FALSE"
		}
		if typed {
			return "1"
		}
		return "0"
	case int:
		return strconv.Itoa(typed)
	case int8:
		return strconv.FormatInt(int64(typed), 10)
	case int16:
		return strconv.FormatInt(int64(typed), 10)
	case int32:
		return strconv.FormatInt(int64(typed), 10)
	case int64:
		return strconv.FormatInt(typed, 10)
	case uint:
		return strconv.FormatUint(uint64(typed), 10)
	case uint8:
		return strconv.FormatUint(uint64(typed), 10)
	case uint16:
		return strconv.FormatUint(uint64(typed), 10)
	case uint32:
		return strconv.FormatUint(uint64(typed), 10)
	case uint64:
		return strconv.FormatUint(typed, 10)
	case float32:
		return formatFloat(float64(typed), 32)
	case float64:
		return formatFloat(typed, 64)
	case []byte:
		return "'" + d.Escape(string(typed)) + "'"
	case string:
		return "'" + d.Escape(typed) + "'"
	case time.Time:
		return "'" + typed.Format(dateTimeFormat) + "'"
	case fmt.Stringer:
		return "'" + d.Escape(typed.String()) + "'"
	}

	return "'" + d.Escape(fmt.Sprint(value)) + "'"
}

func formatFloat(value float64, bitSize int) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return "NULL"
	}

	return strconv.FormatFloat(value, 'f', -1, bitSize)
}

func isQuoted(s string) bool {
	if len(s) < 2 {
		return false
	}

	switch s[0] {
	case '`':
		return s[len(s)-1] == '`'
	case '"':
		return s[len(s)-1] == '"'
	case '[':
		return s[len(s)-1] == ']'
	}

	return false
}
