package commands

import (
	"fmt"
	"strings"

	"github.com/lunagic/hermes/hermesservices/sqlbuilder"
	"github.com/spf13/cobra"
)

func NewRenderCommand() *cobra.Command {
	var (
		dialectName string
		columns     []string
		order       []string
		limit       int
		offset      int
		distinct    bool
		plain       bool
	)

	cmd := &cobra.Command{
		Use:   "render TABLE [condition...]",
		Short: "Print the SELECT a dialect would run, without connecting",
		Example: strings.Join([]string{
			`  hermes render users "age >= 21" "status IN ('a', 'b')" --dialect oracle --order id --limit 10`,
			`  hermes render orders "total > 100 OR" "vip = 1" --dialect mysql`,
		}, "\n"),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dialect := sqlbuilder.DialectFromDriver(dialectName)

			query := sqlbuilder.NewSelect(dialect, args[0]).
				Columns(columns...).
				OrderBy(order...).
				Limit(limit).
				Offset(offset)
			if distinct {
				query.Distinct()
			}

			if len(args) > 1 {
				if err := query.Where().Add(args[1:]); err != nil {
					return err
				}
			}

			statement, err := query.Render()
			if err != nil {
				return err
			}

			output := statement.Query
			if !plain {
				output = highlightSQL(output)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), output)

			return err
		},
	}

	cmd.Flags().StringVar(&dialectName, "dialect", "mysql", "Driver name of the dialect: mysql, sqlite3, postgres, sqlserver, oracle")
	cmd.Flags().StringSliceVar(&columns, "columns", nil, "Columns to select")
	cmd.Flags().StringSliceVar(&order, "order", nil, "ORDER BY items")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of rows")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of rows to skip")
	cmd.Flags().BoolVar(&distinct, "distinct", false, "SELECT DISTINCT")
	cmd.Flags().BoolVar(&plain, "plain", false, "Do not color the output")

	return cmd
}
