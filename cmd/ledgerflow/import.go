package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lhalloway/ledgerflow/internal/cli"
	"github.com/lhalloway/ledgerflow/internal/common"
	"github.com/lhalloway/ledgerflow/internal/importer"
)

func importCmd() *cobra.Command {
	var noProgress bool

	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import transactions from a CSV ledger",
		Long: `Import transactions from a CSV file into the ledger database.

The header row names the columns; date, amount and payee are required,
merchant and category optional. Rows already present (by content hash)
are skipped, as are rows with unparseable dates or amounts.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			result, err := importer.ParseFile(args[0], !noProgress)
			if err != nil {
				return common.NewUserError(fmt.Sprintf("could not import %s", args[0]), err)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			saved, err := store.SaveTransactions(ctx, result.Transactions)
			if err != nil {
				return fmt.Errorf("failed to save transactions: %w", err)
			}

			common.LogInfo("import finished", common.Fields{
				"file":       args[0],
				"parsed":     len(result.Transactions),
				"saved":      saved,
				"duplicates": len(result.Transactions) - saved,
				"skipped":    result.Skipped,
			})

			if result.Skipped > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatWarning(
					fmt.Sprintf("Skipped %d malformed rows", result.Skipped)))
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(
				fmt.Sprintf("Imported %d new transactions (%d duplicates skipped)",
					saved, len(result.Transactions)-saved)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "disable the progress bar")
	return cmd
}
