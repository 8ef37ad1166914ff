package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lhalloway/ledgerflow/internal/cli"
	"github.com/lhalloway/ledgerflow/internal/projection"
)

func stateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Export or import the projection item state",
		Long: `Move the full projection item state (recurring and one-time items,
with a version tag and last-modified timestamp) through a JSON file.
The round-trip is lossless.`,
	}

	cmd.AddCommand(stateExportCmd())
	cmd.AddCommand(stateImportCmd())

	return cmd
}

func stateExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file.json>",
		Short: "Export item state to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			engine, err := loadEngine(ctx, store)
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(engine.ExportState(), "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode state: %w", err)
			}
			if err := os.WriteFile(args[0], data, 0600); err != nil {
				return fmt.Errorf("failed to write %s: %w", args[0], err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Exported item state to "+args[0]))
			return nil
		},
	}
}

func stateImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json>",
		Short: "Replace item state from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			var state projection.State
			if err := json.Unmarshal(data, &state); err != nil {
				return fmt.Errorf("failed to decode %s: %w", args[0], err)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			engine := projection.NewEngine()
			if err := engine.ImportState(state); err != nil {
				return err
			}
			if err := saveEngine(ctx, store, engine); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf(
				"Imported %d recurring and %d one-time items",
				len(state.RecurringItems), len(state.OneTimeItems))))
			return nil
		},
	}
}
