package database

import (
	"database/sql"
	"strings"
	"unicode"
)

// Result is a fully read result set with a cursor over its rows.
type Result struct {
	RowsAffected int64
	rows         []map[string]any
	cursor       int
}

func NewResult(rows []map[string]any, rowsAffected int64) *Result {
	return &Result{
		RowsAffected: rowsAffected,
		rows:         rows,
	}
}

// FetchRow returns the next row, or false once every row has been read.
func (result *Result) FetchRow() (map[string]any, bool) {
	if result == nil || result.cursor >= len(result.rows) {
		return nil, false
	}

	row := result.rows[result.cursor]
	result.cursor++

	return row, true
}

// FetchAll returns every row not yet fetched.
func (result *Result) FetchAll() []map[string]any {
	rows := []map[string]any{}
	for {
		row, ok := result.FetchRow()
		if !ok {
			return rows
		}
		rows = append(rows, row)
	}
}

func readRows(rows *sql.Rows) ([]map[string]any, error) {
	defer func() {
		_ = rows.Close()
	}()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := []map[string]any{}
	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}

		if err := rows.Scan(pointers...); err != nil {
			return nil, err
		}

		row := make(map[string]any, len(columns))
		for i, column := range columns {
			if b, ok := values[i].([]byte); ok {
				row[column] = string(b)
				continue
			}
			row[column] = values[i]
		}

		result = append(result, row)
	}

	return result, rows.Err()
}

var rowReturningKeywords = map[string]bool{
	"SELECT":   true,
	"WITH":     true,
	"SHOW":     true,
	"DESCRIBE": true,
	"DESC":     true,
	"EXPLAIN":  true,
	"PRAGMA":   true,
	"VALUES":   true,
}

var schemaKeywords = map[string]bool{
	"ALTER":  true,
	"CREATE": true,
	"DROP":   true,
	"RENAME": true,
}

// ReturnsRows reports whether a statement produces a result set, judged by
// its first keyword. Leading comments and parentheses are skipped.
func ReturnsRows(query string) bool {
	return rowReturningKeywords[leadingKeyword(query)]
}

func changesSchema(query string) bool {
	return schemaKeywords[leadingKeyword(query)]
}

func leadingKeyword(query string) string {
	rest := query
	for {
		rest = strings.TrimLeftFunc(rest, func(r rune) bool {
			return unicode.IsSpace(r) || r == '('
		})

		switch {
		case strings.HasPrefix(rest, "--"):
			end := strings.IndexByte(rest, '\n')
			if end < 0 {
				return ""
			}
			rest = rest[end+1:]
		case strings.HasPrefix(rest, "/*"):
			end := strings.Index(rest, "*/")
			if end < 0 {
				return ""
			}
			rest = rest[end+2:]
		default:
			end := strings.IndexFunc(rest, func(r rune) bool {
				return !unicode.IsLetter(r)
			})
			if end < 0 {
				end = len(rest)
			}

			return strings.ToUpper(rest[:end])
		}
	}
}
