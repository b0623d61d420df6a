package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"expensetracker/internal/core"
	"expensetracker/internal/seed"
	"expensetracker/internal/tracker"
)

// Menu is the interactive terminal frontend.
type Menu struct {
	tracker *tracker.Tracker
	seeder  *seed.Seeder
	in      *bufio.Scanner
	out     io.Writer
}

func NewMenu(tr *tracker.Tracker, seeder *seed.Seeder, in io.Reader, out io.Writer) *Menu {
	return &Menu{
		tracker: tr,
		seeder:  seeder,
		in:      bufio.NewScanner(in),
		out:     out,
	}
}

// Run loops until the user exits or input ends.
func (m *Menu) Run(ctx context.Context) error {
	for {
		fmt.Fprintln(m.out)
		fmt.Fprintln(m.out, "=== Expense Tracker ===")
		fmt.Fprintln(m.out, "1) Add expense")
		fmt.Fprintln(m.out, "2) List expenses")
		fmt.Fprintln(m.out, "3) Filter expenses")
		fmt.Fprintln(m.out, "4) Show statistics")
		fmt.Fprintln(m.out, "5) List categories")
		fmt.Fprintln(m.out, "6) Seed sample data")
		fmt.Fprintln(m.out, "0) Exit")

		choice, ok := m.prompt("Choice: ")
		if !ok {
			return nil
		}

		var err error
		switch choice {
		case "1":
			err = m.addExpense(ctx)
		case "2":
			err = m.listExpenses(ctx)
		case "3":
			err = m.filterExpenses(ctx)
		case "4":
			err = m.showStatistics(ctx)
		case "5":
			err = m.listCategories(ctx)
		case "6":
			err = m.seedData(ctx)
		case "0", "q", "exit":
			fmt.Fprintln(m.out, "Bye.")
			return nil
		default:
			fmt.Fprintf(m.out, "Unknown choice %q\n", choice)
		}
		if err != nil {
			fmt.Fprintf(m.out, "Error: %v\n", err)
		}
	}
}

func (m *Menu) prompt(label string) (string, bool) {
	fmt.Fprint(m.out, label)
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

func (m *Menu) addExpense(ctx context.Context) error {
	amountStr, ok := m.prompt("Amount: ")
	if !ok {
		return nil
	}
	amount, err := strconv.ParseFloat(amountStr, 64)
	if err != nil {
		return core.NewError(core.KindFormat, "invalid amount %q", amountStr)
	}

	category, _ := m.prompt("Category (empty for default): ")
	description, _ := m.prompt("Description: ")
	dateStr, _ := m.prompt("Date YYYY-MM-DD (empty for today): ")

	var date core.Date
	if dateStr != "" {
		date, err = core.ParseDate(dateStr)
		if err != nil {
			return err
		}
	}

	e, err := m.tracker.AddExpense(ctx, amount, category, description, date, "")
	if err != nil {
		return err
	}

	fmt.Fprintf(m.out, "Added %s\n", e)
	return nil
}

func (m *Menu) listExpenses(ctx context.Context) error {
	expenses, err := m.tracker.ListExpenses(ctx)
	if err != nil {
		return err
	}
	m.renderExpenses(expenses)
	return nil
}

func (m *Menu) filterExpenses(ctx context.Context) error {
	filter := tracker.Filter{}
	filter.Category, _ = m.prompt("Category (empty for any): ")

	if v, _ := m.prompt("From date YYYY-MM-DD (empty for any): "); v != "" {
		date, err := core.ParseDate(v)
		if err != nil {
			return err
		}
		filter.From = &date
	}
	if v, _ := m.prompt("To date YYYY-MM-DD (empty for any): "); v != "" {
		date, err := core.ParseDate(v)
		if err != nil {
			return err
		}
		filter.To = &date
	}
	if v, _ := m.prompt("Min amount (empty for any): "); v != "" {
		amount, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return core.NewError(core.KindFormat, "invalid amount %q", v)
		}
		filter.MinAmount = &amount
	}
	if v, _ := m.prompt("Max amount (empty for any): "); v != "" {
		amount, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return core.NewError(core.KindFormat, "invalid amount %q", v)
		}
		filter.MaxAmount = &amount
	}

	expenses, err := m.tracker.FilterExpenses(ctx, filter)
	if err != nil {
		return err
	}
	m.renderExpenses(expenses)
	return nil
}

func (m *Menu) renderExpenses(expenses []core.Expense) {
	if len(expenses) == 0 {
		fmt.Fprintln(m.out, "No expenses.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(m.out)
	t.AppendHeader(table.Row{"Date", "Category", "Description", "Amount", "ID"})

	var total float64
	for _, e := range expenses {
		total += e.Amount
		t.AppendRow(table.Row{e.Date.String(), e.Category, e.Description, fmt.Sprintf("%.2f", e.Amount), e.ID})
	}

	t.AppendSeparator()
	t.AppendFooter(table.Row{"", "", text.Bold.Sprint("Total"), text.Bold.Sprintf("%.2f", total), ""})
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 4, Align: text.AlignRight}})
	t.Render()
}

func (m *Menu) showStatistics(ctx context.Context) error {
	results, err := m.tracker.Statistics(ctx)
	if err != nil {
		return err
	}

	names := m.tracker.StatisticNames()

	t := table.NewWriter()
	t.SetOutputMirror(m.out)
	t.AppendHeader(table.Row{"Statistic", "Value"})
	for _, name := range names {
		result, ok := results[name]
		if !ok {
			continue
		}
		if result.Failed() {
			t.AppendRow(table.Row{name, text.FgRed.Sprint("error: " + result.Err)})
			continue
		}
		t.AppendRow(table.Row{name, formatStatValue(result.Value)})
	}
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.Render()
	return nil
}

func formatStatValue(v any) string {
	switch value := v.(type) {
	case float64:
		return fmt.Sprintf("%.2f", value)
	case map[string]float64:
		keys := make([]string, 0, len(value))
		for k := range value {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%.2f", k, value[k]))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(value)
	}
}

func (m *Menu) listCategories(ctx context.Context) error {
	names, err := m.tracker.Categories(ctx)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Fprintln(m.out, "No categories.")
		return nil
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(m.out, "- %s\n", name)
	}
	return nil
}

func (m *Menu) seedData(ctx context.Context) error {
	if m.seeder == nil {
		fmt.Fprintln(m.out, "Seeding not configured.")
		return nil
	}

	countStr, _ := m.prompt("How many expenses? ")
	count, err := strconv.Atoi(countStr)
	if err != nil || count < 1 {
		return core.NewError(core.KindFormat, "invalid count %q", countStr)
	}

	inserted, err := m.seeder.Run(ctx, count)
	if err != nil {
		return err
	}
	fmt.Fprintf(m.out, "Seeded %d expenses.\n", inserted)
	return nil
}
