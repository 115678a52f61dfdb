package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/carson-networks/finance-ledger/internal/currency"
	"github.com/carson-networks/finance-ledger/internal/service"
)

func newAccountsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "List accounts with their stored balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer l.Close()

			accounts, err := l.service.Account.ListAccounts(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCURRENCY\tBALANCE")
			for _, acc := range accounts {
				code := accountCurrency(&acc, l.config.ReportingCurrency)
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", acc.ID, acc.Name, code, currency.Display(acc.Balance, code))
			}
			return w.Flush()
		},
	}
}

func newBalancesCmd(opts *options) *cobra.Command {
	var reporting string

	cmd := &cobra.Command{
		Use:   "balances",
		Short: "Recompute balances and convert them to a reporting currency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer l.Close()

			if reporting == "" {
				reporting = l.config.ReportingCurrency
			}
			accounts, err := l.service.Account.ListAccountBalances(cmd.Context(), reporting)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "ID\tNAME\tBALANCE\tRATE\t%s\n", reporting)
			for _, acc := range accounts {
				code := accountCurrency(&acc, reporting)
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
					acc.ID, acc.Name,
					currency.Display(acc.Balance, code),
					acc.ExchangeRate.String(),
					currency.Display(acc.Balance.Mul(acc.ExchangeRate), reporting))
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&reporting, "currency", "", "reporting currency (default LEDGER_REPORTING_CURRENCY)")
	return cmd
}

func accountCurrency(acc *service.Account, fallback string) string {
	if acc.Currency != nil {
		return *acc.Currency
	}
	return fallback
}
