package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lhalloway/ledgerflow/internal/budget"
	"github.com/lhalloway/ledgerflow/internal/cli"
)

func forecastCmd() *cobra.Command {
	var (
		months   int
		fromFlag string
		toFlag   string
	)

	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Project future cash flow from declared items",
		Long: `Expand the declared recurring and one-time items into dated entries
over a future window and summarize the result.

By default the window starts today and spans --months whole months; an
explicit --from/--to window overrides it.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			start := time.Now()
			end := start.AddDate(0, months, 0)
			if fromFlag != "" || toFlag != "" {
				from, err := parseDateFlag(fromFlag, "--from")
				if err != nil {
					return err
				}
				to, err := parseDateFlag(toFlag, "--to")
				if err != nil {
					return err
				}
				start, end = from, to
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			engine, err := loadEngine(ctx, store)
			if err != nil {
				return err
			}

			entries := engine.GenerateProjections(start, end)

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatTitle(fmt.Sprintf("Forecast %s – %s",
				start.Format(flagDateLayout), end.Format(flagDateLayout))))
			cli.RenderProjections(out, entries)

			fmt.Fprintln(out)
			cli.RenderSummary(out, budget.Summarize(budget.LinesFromProjections(entries), nil, nil))
			return nil
		},
	}

	cmd.Flags().IntVar(&months, "months", 6, "number of months to project")
	cmd.Flags().StringVar(&fromFlag, "from", "", "window start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&toFlag, "to", "", "window end (YYYY-MM-DD)")
	return cmd
}
