package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/lunagic/hermes/hermestools"
	"github.com/pterm/pterm"
)

var (
	keywordColor = color.New(color.FgCyan, color.Bold)
	literalColor = color.New(color.FgGreen)
)

var sqlKeywords = map[string]bool{
	"AND": true, "AS": true, "ASC": true, "BETWEEN": true, "BY": true,
	"DELETE": true, "DESC": true, "DISTINCT": true, "FROM": true, "GROUP": true,
	"HAVING": true, "IN": true, "INNER": true, "INSERT": true, "INTO": true,
	"IS": true, "JOIN": true, "LEFT": true, "LIKE": true, "LIMIT": true,
	"NOT": true, "NULL": true, "OFFSET": true, "ON": true, "OR": true,
	"ORDER": true, "OVER": true, "RIGHT": true, "SELECT": true, "SET": true,
	"UPDATE": true, "VALUES": true, "WHERE": true,
}

// highlightSQL colors keywords and quoted literals.
func highlightSQL(query string) string {
	words := strings.Split(query, " ")
	for i, word := range words {
		switch {
		case sqlKeywords[word]:
			words[i] = keywordColor.Sprint(word)
		case strings.HasPrefix(word, "'"):
			words[i] = literalColor.Sprint(word)
		}
	}

	return strings.Join(words, " ")
}

// printRows writes rows as a table with columns in sorted order.
func printRows(w io.Writer, rows []map[string]any) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "no rows")
		return err
	}

	columns := hermestools.SortedKeys(rows[0])

	data := pterm.TableData{columns}
	for _, row := range rows {
		data = append(data, hermestools.Map(columns, func(column string) string {
			if row[column] == nil {
				return "NULL"
			}
			return fmt.Sprint(row[column])
		}))
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, table)

	return err
}

// parseCriteria reads column=value pairs. The literal NULL is nil.
func parseCriteria(args []string) (map[string]any, error) {
	criteria := map[string]any{}
	for _, arg := range args {
		column, value, found := strings.Cut(arg, "=")
		if !found || column == "" {
			return nil, fmt.Errorf("%w: %q", errCriteria, arg)
		}

		if value == "NULL" {
			criteria[column] = nil
			continue
		}
		criteria[column] = value
	}

	return criteria, nil
}
