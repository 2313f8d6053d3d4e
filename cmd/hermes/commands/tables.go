package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewTablesCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List the tables in the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := s.database()
			if err != nil {
				return err
			}

			tables, err := service.ListTables(cmd.Context())
			if err != nil {
				return err
			}

			for _, table := range tables {
				fmt.Fprintln(cmd.OutOrStdout(), table)
			}

			return nil
		},
	}
}
