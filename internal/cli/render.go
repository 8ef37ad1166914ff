package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/lhalloway/ledgerflow/internal/budget"
	"github.com/lhalloway/ledgerflow/internal/model"
)

const dateLayout = "2006-01-02"

func formatMoney(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}

// RenderPatterns writes a ranked recurring-pattern table.
func RenderPatterns(w io.Writer, patterns []model.RecurringPattern) {
	if len(patterns) == 0 {
		fmt.Fprintln(w, SubtleStyle.Render("No recurring patterns detected."))
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer func() { _ = tw.Flush() }()

	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
		HeaderStyle.Render("Merchant"),
		HeaderStyle.Render("Frequency"),
		HeaderStyle.Render("Amount"),
		HeaderStyle.Render("Monthly"),
		HeaderStyle.Render("Seen"),
		HeaderStyle.Render("Confidence"),
		HeaderStyle.Render("Last"),
		HeaderStyle.Render("Next"))

	for _, p := range patterns {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%.0f%%\t%s\t%s\n",
			p.Merchant,
			p.Frequency,
			formatMoney(p.MostRecentAmount),
			formatMoney(p.MonthlyCost),
			p.Occurrences,
			p.Confidence*100,
			p.LastDate.Format(dateLayout),
			p.NextDate.Format(dateLayout))
	}
}

// RenderProjections writes a dated forecast table.
func RenderProjections(w io.Writer, entries []model.ProjectedEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, SubtleStyle.Render("No projected entries in this window."))
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer func() { _ = tw.Flush() }()

	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
		HeaderStyle.Render("Date"),
		HeaderStyle.Render("Name"),
		HeaderStyle.Render("Category"),
		HeaderStyle.Render("Type"),
		HeaderStyle.Render("Amount"))

	for _, entry := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			entry.Date.Format(dateLayout),
			entry.Name,
			entry.Category,
			entry.Type,
			FormatAmount(entry.Amount))
	}
}

// RenderRecurringItems writes the declared recurring items with their
// override counts.
func RenderRecurringItems(w io.Writer, items []model.RecurringItem) {
	if len(items) == 0 {
		fmt.Fprintln(w, SubtleStyle.Render("No recurring items declared."))
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer func() { _ = tw.Flush() }()

	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
		HeaderStyle.Render("ID"),
		HeaderStyle.Render("Name"),
		HeaderStyle.Render("Frequency"),
		HeaderStyle.Render("Amount"),
		HeaderStyle.Render("Start"),
		HeaderStyle.Render("End"),
		HeaderStyle.Render("Overrides"))

	for _, item := range items {
		end := SubtleStyle.Render("open")
		if item.EndDate != nil {
			end = item.EndDate.Format(dateLayout)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%d\n",
			shortID(item.ID),
			item.Name,
			item.Frequency,
			FormatAmount(item.Amount),
			item.StartDate.Format(dateLayout),
			end,
			len(item.MonthlyOverrides))
	}
}

// RenderOneTimeItems writes the declared one-time items.
func RenderOneTimeItems(w io.Writer, items []model.OneTimeItem) {
	if len(items) == 0 {
		fmt.Fprintln(w, SubtleStyle.Render("No one-time items declared."))
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer func() { _ = tw.Flush() }()

	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
		HeaderStyle.Render("ID"),
		HeaderStyle.Render("Name"),
		HeaderStyle.Render("Date"),
		HeaderStyle.Render("Category"),
		HeaderStyle.Render("Amount"))

	for _, item := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			shortID(item.ID),
			item.Name,
			item.Date.Format(dateLayout),
			item.Category,
			FormatAmount(item.Amount))
	}
}

// RenderSummary writes the budget summary card.
func RenderSummary(w io.Writer, summary budget.Summary) {
	fmt.Fprintln(w, FormatTitle("Budget Summary"))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Income\t%s\n", IncomeStyle.Render(formatMoney(summary.TotalIncome)))
	fmt.Fprintf(tw, "Expenses\t%s\n", ExpenseStyle.Render(formatMoney(summary.TotalExpenses)))
	fmt.Fprintf(tw, "Balance\t%s\n", FormatAmount(summary.Balance))
	fmt.Fprintf(tw, "Savings rate\t%.2f%%\n", summary.SavingsRate)
	fmt.Fprintf(tw, "Months\t%d\n", summary.MonthsInPeriod)
	fmt.Fprintf(tw, "Monthly income\t%s\n", formatMoney(summary.MonthlyIncome))
	fmt.Fprintf(tw, "Monthly expenses\t%s\n", formatMoney(summary.MonthlyExpenses))
	_ = tw.Flush()

	if len(summary.Categories) == 0 {
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, HeaderStyle.Render("By category"))
	ctw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer func() { _ = ctw.Flush() }()
	for _, cat := range summary.Categories {
		name := cat.Category
		if name == "" {
			name = SubtleStyle.Render("(uncategorized)")
		}
		fmt.Fprintf(ctw, "%s\t%s\t%.1f%%\n", name, formatMoney(cat.Amount), cat.Percentage)
	}
}

func shortID(id string) string {
	if idx := strings.IndexByte(id, '-'); idx > 0 && idx <= 8 {
		return id[:idx]
	}
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
