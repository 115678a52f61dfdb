package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newRatesCmd(opts *options) *cobra.Command {
	rates := &cobra.Command{
		Use:   "rates",
		Short: "Manage custom exchange rates",
	}

	rates.AddCommand(&cobra.Command{
		Use:   "set CODE RATE",
		Short: "Override the USD rate of a currency",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rate, err := decimal.NewFromString(args[1])
			if err != nil {
				return fmt.Errorf("invalid rate %q: %w", args[1], err)
			}

			l, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer l.Close()

			saved, err := l.service.Rate.SetCustomRate(cmd.Context(), args[0], rate)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s USD\n", saved.Currency, saved.Rate)
			return nil
		},
	})

	rates.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List custom exchange rates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer l.Close()

			list, err := l.service.Rate.ListCustomRates(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "CURRENCY\tRATE")
			for _, r := range list {
				fmt.Fprintf(w, "%s\t%s\n", r.Currency, r.Rate)
			}
			return w.Flush()
		},
	})

	return rates
}
