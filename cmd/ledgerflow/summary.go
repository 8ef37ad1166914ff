package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lhalloway/ledgerflow/internal/budget"
	"github.com/lhalloway/ledgerflow/internal/cli"
	"github.com/lhalloway/ledgerflow/internal/storage"
)

func summaryCmd() *cobra.Command {
	var (
		fromFlag string
		toFlag   string
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Summarize historical transactions",
		Long: `Reduce the imported ledger (optionally restricted to a window) into
income, expenses, balance, savings rate and a category breakdown.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			filter := storage.TransactionFilter{}
			if filter.StartDate, err = parseOptionalDateFlag(fromFlag, "--from"); err != nil {
				return err
			}
			if filter.EndDate, err = parseOptionalDateFlag(toFlag, "--to"); err != nil {
				return err
			}

			transactions, err := store.GetTransactions(ctx, filter)
			if err != nil {
				return fmt.Errorf("failed to load transactions: %w", err)
			}

			summary := budget.Summarize(budget.LinesFromTransactions(transactions), nil, nil)
			cli.RenderSummary(cmd.OutOrStdout(), summary)
			return nil
		},
	}

	cmd.Flags().StringVar(&fromFlag, "from", "", "window start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&toFlag, "to", "", "window end (YYYY-MM-DD)")
	return cmd
}
