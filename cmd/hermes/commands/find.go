package commands

import (
	"strings"

	"github.com/lunagic/hermes/hermesservices/record"
	"github.com/spf13/cobra"
)

func NewFindCommand(s *session) *cobra.Command {
	var (
		primaryKey string
		id         string
		order      []string
		limit      int
		offset     int
		prepared   bool
	)

	cmd := &cobra.Command{
		Use:   "find TABLE [column=value...]",
		Short: "Print the rows matching the criteria",
		Long:  "Print the rows matching the criteria. Values containing % match with LIKE.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			criteria, err := parseCriteria(args[1:])
			if err != nil {
				return err
			}

			service, err := s.database()
			if err != nil {
				return err
			}

			options := []record.Option{record.WithPrimaryKey(strings.Split(primaryKey, ",")...)}
			if prepared {
				options = append(options, record.WithPrepared())
			}

			table := record.New(service, args[0], options...)
			modifiers := []record.FindModifier{
				record.WithOrder(order...),
				record.WithLimit(limit, offset),
			}

			var result record.Result
			if id != "" {
				ids := []any{}
				for _, part := range strings.Split(id, ",") {
					ids = append(ids, part)
				}
				result, err = table.FindByID(cmd.Context(), ids, modifiers...)
			} else {
				result, err = table.FindAll(cmd.Context(), criteria, modifiers...)
			}
			if err != nil {
				return err
			}

			return printRows(cmd.OutOrStdout(), result.Rows)
		},
	}

	cmd.Flags().StringVar(&primaryKey, "key", "id", "Comma separated primary key columns")
	cmd.Flags().StringVar(&id, "id", "", "Comma separated primary key values")
	cmd.Flags().StringSliceVar(&order, "order", nil, "ORDER BY items")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of rows")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of rows to skip")
	cmd.Flags().BoolVar(&prepared, "prepared", false, "Bind values as parameters")

	return cmd
}
