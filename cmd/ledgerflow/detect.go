package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lhalloway/ledgerflow/internal/cli"
	"github.com/lhalloway/ledgerflow/internal/model"
	"github.com/lhalloway/ledgerflow/internal/projection"
	"github.com/lhalloway/ledgerflow/internal/recurring"
	"github.com/lhalloway/ledgerflow/internal/storage"
)

func detectCmd() *cobra.Command {
	var (
		income     bool
		activeOnly bool
		seed       bool
		fromFlag   string
		toFlag     string
	)

	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Detect recurring patterns in the transaction ledger",
		Long: `Analyze the imported ledger for periodic counterparty activity and
print the detected patterns ranked by monthly cost.

With --seed, each detected pattern is added to the projection items as a
recurring item starting at its predicted next occurrence.`,
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

			detector := recurring.NewDetector(recurring.DefaultConfig())
			var patterns []model.RecurringPattern
			if income {
				patterns = detector.DetectIncome(transactions)
			} else {
				patterns = detector.Detect(transactions)
			}
			if activeOnly {
				patterns = recurring.FilterActive(patterns, time.Now())
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatTitle("Recurring Patterns"))
			cli.RenderPatterns(out, patterns)

			if !seed || len(patterns) == 0 {
				return nil
			}

			engine, err := loadEngine(ctx, store)
			if err != nil {
				return err
			}
			for _, pattern := range patterns {
				item := projection.RecurringItemFromPattern(pattern, income)
				if _, err := engine.AddRecurringItem(item); err != nil {
					return fmt.Errorf("failed to seed item from %s: %w", pattern.Merchant, err)
				}
			}
			if err := saveEngine(ctx, store, engine); err != nil {
				return err
			}

			fmt.Fprintln(out, cli.FormatSuccess(
				fmt.Sprintf("Seeded %d recurring items from detected patterns", len(patterns))))
			return nil
		},
	}

	cmd.Flags().BoolVar(&income, "income", false, "detect income patterns instead of expenses")
	cmd.Flags().BoolVar(&activeOnly, "active", false, "only show recently active patterns")
	cmd.Flags().BoolVar(&seed, "seed", false, "add detected patterns as recurring projection items")
	cmd.Flags().StringVar(&fromFlag, "from", "", "only analyze transactions on or after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&toFlag, "to", "", "only analyze transactions on or before this date (YYYY-MM-DD)")
	return cmd
}
