package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// ErrDrift is returned by check when any stored balance disagrees with the
// sum of its account's transactions.
var ErrDrift = errors.New("balance drift detected")

func newCheckCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify every stored balance against its transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer l.Close()

			drift, err := l.service.Account.CheckBalances(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(drift) == 0 {
				fmt.Fprintln(out, "ok: all balances match their transactions")
				return nil
			}
			for _, d := range drift {
				fmt.Fprintf(out, "account %d (%s): stored %s, transactions sum to %s\n", d.AccountID, d.Name, d.Stored, d.Computed)
			}
			return fmt.Errorf("%w in %d account(s)", ErrDrift, len(drift))
		},
	}
}
