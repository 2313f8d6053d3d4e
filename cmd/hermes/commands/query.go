package commands

import (
	"fmt"

	"github.com/lunagic/hermes/hermesservices/database"
	"github.com/lunagic/hermes/hermesservices/record"
	"github.com/lunagic/hermes/hermesservices/sqlbuilder"
	"github.com/spf13/cobra"
)

func NewQueryCommand(s *session) *cobra.Command {
	var params []string

	cmd := &cobra.Command{
		Use:   "query SQL",
		Short: "Run a raw statement",
		Long:  "Run a raw statement. Each --param name=value is bound in order through a prepared statement.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bound := sqlbuilder.Params{}
			for _, param := range params {
				criteria, err := parseCriteria([]string{param})
				if err != nil {
					return err
				}
				for name, value := range criteria {
					bound = append(bound, sqlbuilder.Param{Name: name, Value: value})
				}
			}

			service, err := s.database()
			if err != nil {
				return err
			}

			raw := record.New(service, "")

			if !database.ReturnsRows(args[0]) {
				affected, err := raw.Execute(cmd.Context(), args[0], bound...)
				if err != nil {
					return err
				}

				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d rows affected\n", affected)

				return err
			}

			result, err := raw.Query(cmd.Context(), args[0], bound...)
			if err != nil {
				return err
			}

			return printRows(cmd.OutOrStdout(), result.Rows)
		},
	}

	cmd.Flags().StringArrayVar(&params, "param", nil, "Bound parameter as name=value")

	return cmd
}
