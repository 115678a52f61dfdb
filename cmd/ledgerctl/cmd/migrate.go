package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMigrateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer l.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "schema version %d -> %d\n", l.migration.Before, l.migration.After)
			return nil
		},
	}
}
