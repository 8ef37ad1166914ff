package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lhalloway/ledgerflow/internal/cli"
	"github.com/lhalloway/ledgerflow/internal/model"
	"github.com/lhalloway/ledgerflow/internal/projection"
)

func recurringCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recurring",
		Short: "Manage declared recurring items",
		Long:  `Add, list, update, and remove the recurring items used for cash-flow projection.`,
	}

	cmd.AddCommand(recurringAddCmd())
	cmd.AddCommand(recurringListCmd())
	cmd.AddCommand(recurringUpdateCmd())
	cmd.AddCommand(recurringRemoveCmd())
	cmd.AddCommand(recurringSkipCmd())
	cmd.AddCommand(recurringOverrideCmd())

	return cmd
}

func recurringAddCmd() *cobra.Command {
	var (
		amount    float64
		category  string
		frequency string
		startFlag string
		endFlag   string
		isIncome  bool
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a recurring item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			start, err := parseDateFlag(startFlag, "--start")
			if err != nil {
				return err
			}
			end, err := parseOptionalDateFlag(endFlag, "--end")
			if err != nil {
				return err
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

			item, err := engine.AddRecurringItem(model.RecurringItem{
				Name:      args[0],
				Amount:    amount,
				Category:  category,
				Frequency: model.Frequency(frequency),
				StartDate: start,
				EndDate:   end,
				IsIncome:  isIncome,
			})
			if err != nil {
				return err
			}
			if err := saveEngine(ctx, store, engine); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(
				fmt.Sprintf("Added recurring item %q (%s)", item.Name, item.ID)))
			return nil
		},
	}

	cmd.Flags().Float64Var(&amount, "amount", 0, "signed amount (negative for expenses)")
	cmd.Flags().StringVar(&category, "category", "", "category label")
	cmd.Flags().StringVar(&frequency, "frequency", "monthly", "weekly, monthly, quarterly or yearly")
	cmd.Flags().StringVar(&startFlag, "start", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endFlag, "end", "", "optional end date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&isIncome, "income", false, "mark the item as income")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("start")
	return cmd
}

func recurringListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recurring items",
		RunE: func(cmd *cobra.Command, _ []string) error {
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

			out := cmd.OutOrStdout()
			income, expenses := engine.RecurringByDirection()

			fmt.Fprintln(out, cli.FormatTitle("Recurring Income"))
			cli.RenderRecurringItems(out, income)
			fmt.Fprintln(out)
			fmt.Fprintln(out, cli.FormatTitle("Recurring Expenses"))
			cli.RenderRecurringItems(out, expenses)
			return nil
		},
	}
}

func recurringUpdateCmd() *cobra.Command {
	var (
		name      string
		amount    float64
		category  string
		frequency string
		startFlag string
		endFlag   string
		clearEnd  bool
		isIncome  bool
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update fields of a recurring item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			update := projection.RecurringItemUpdate{ClearEndDate: clearEnd}
			if cmd.Flags().Changed("name") {
				update.Name = &name
			}
			if cmd.Flags().Changed("amount") {
				update.Amount = &amount
			}
			if cmd.Flags().Changed("category") {
				update.Category = &category
			}
			if cmd.Flags().Changed("frequency") {
				f := model.Frequency(frequency)
				update.Frequency = &f
			}
			if cmd.Flags().Changed("start") {
				start, err := parseDateFlag(startFlag, "--start")
				if err != nil {
					return err
				}
				update.StartDate = &start
			}
			if cmd.Flags().Changed("end") {
				end, err := parseDateFlag(endFlag, "--end")
				if err != nil {
					return err
				}
				update.EndDate = &end
			}
			if cmd.Flags().Changed("income") {
				update.IsIncome = &isIncome
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

			item, err := engine.UpdateRecurringItem(args[0], update)
			if err != nil {
				return err
			}
			if err := saveEngine(ctx, store, engine); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(
				fmt.Sprintf("Updated recurring item %q", item.Name)))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().Float64Var(&amount, "amount", 0, "new signed amount")
	cmd.Flags().StringVar(&category, "category", "", "new category label")
	cmd.Flags().StringVar(&frequency, "frequency", "", "new frequency")
	cmd.Flags().StringVar(&startFlag, "start", "", "new start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endFlag, "end", "", "new end date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&clearEnd, "clear-end", false, "make the series open-ended")
	cmd.Flags().BoolVar(&isIncome, "income", false, "mark the item as income")
	return cmd
}

func recurringRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a recurring item",
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

			if err := engine.RemoveRecurringItem(args[0]); err != nil {
				return err
			}
			if err := saveEngine(ctx, store, engine); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Removed recurring item"))
			return nil
		},
	}
}

// recurringSkipCmd is sugar for a zero override: drop one month's
// occurrence without touching the series.
func recurringSkipCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "skip <id> <year-month>",
		Short: "Skip one month's occurrence (e.g. skip 2026-03)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setOverride(cmd, args[0], args[1], 0)
		},
	}
}

func recurringOverrideCmd() *cobra.Command {
	var amount float64

	cmd := &cobra.Command{
		Use:   "override <id> <year-month>",
		Short: "Set a substitute amount for one month",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setOverride(cmd, args[0], args[1], amount)
		},
	}

	cmd.Flags().Float64Var(&amount, "amount", 0, "substitute signed amount (0 skips the month)")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func setOverride(cmd *cobra.Command, id, monthKey string, amount float64) error {
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

	if err := engine.SetMonthlyOverride(id, monthKey, amount); err != nil {
		return err
	}
	if err := saveEngine(ctx, store, engine); err != nil {
		return err
	}

	if amount == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(
			fmt.Sprintf("Skipping %s for this item", monthKey)))
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(
			fmt.Sprintf("Overriding %s with %.2f", monthKey, amount)))
	}
	return nil
}

func onetimeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "onetime",
		Short: "Manage declared one-time items",
	}

	cmd.AddCommand(onetimeAddCmd())
	cmd.AddCommand(onetimeListCmd())
	cmd.AddCommand(onetimeRemoveCmd())

	return cmd
}

func onetimeAddCmd() *cobra.Command {
	var (
		amount   float64
		category string
		dateFlag string
		isIncome bool
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a one-time item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			date, err := parseDateFlag(dateFlag, "--date")
			if err != nil {
				return err
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

			item, err := engine.AddOneTimeItem(model.OneTimeItem{
				Name:     args[0],
				Amount:   amount,
				Category: category,
				Date:     date,
				IsIncome: isIncome,
			})
			if err != nil {
				return err
			}
			if err := saveEngine(ctx, store, engine); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(
				fmt.Sprintf("Added one-time item %q (%s)", item.Name, item.ID)))
			return nil
		},
	}

	cmd.Flags().Float64Var(&amount, "amount", 0, "signed amount (negative for expenses)")
	cmd.Flags().StringVar(&category, "category", "", "category label")
	cmd.Flags().StringVar(&dateFlag, "date", "", "date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&isIncome, "income", false, "mark the item as income")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

func onetimeListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List one-time items",
		RunE: func(cmd *cobra.Command, _ []string) error {
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

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatTitle("One-Time Items"))
			cli.RenderOneTimeItems(out, engine.OneTimeItems())
			return nil
		},
	}
}

func onetimeRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a one-time item",
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

			if err := engine.RemoveOneTimeItem(args[0]); err != nil {
				return err
			}
			if err := saveEngine(ctx, store, engine); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Removed one-time item"))
			return nil
		},
	}
}
