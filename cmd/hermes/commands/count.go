package commands

import (
	"fmt"

	"github.com/lunagic/hermes/hermesservices/record"
	"github.com/spf13/cobra"
)

func NewCountCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "count TABLE [column=value...]",
		Short: "Count the rows matching the criteria",
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

			count, err := record.New(service, args[0]).GetCount(cmd.Context(), criteria)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), count)

			return err
		},
	}
}
