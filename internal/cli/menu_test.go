package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"expensetracker/internal/core"
	"expensetracker/internal/seed"
	"expensetracker/internal/storage"
	"expensetracker/internal/tracker"
)

func runMenu(t *testing.T, tr *tracker.Tracker, seeder *seed.Seeder, input string) string {
	t.Helper()
	var out bytes.Buffer
	m := NewMenu(tr, seeder, strings.NewReader(input), &out)
	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return out.String()
}

func TestMenu_AddAndList(t *testing.T) {
	tr := tracker.New(storage.NewMemoryStore(), core.NewStatisticsManager(), nil)

	input := "1\n42.50\nFood\nlunch\n2024-01-15\n2\n0\n"
	output := runMenu(t, tr, nil, input)

	if !strings.Contains(output, "Added Expense(") {
		t.Errorf("output missing add confirmation:\n%s", output)
	}
	if !strings.Contains(output, "Food") || !strings.Contains(output, "42.50") {
		t.Errorf("list output missing expense:\n%s", output)
	}

	expenses, err := tr.ListExpenses(context.Background())
	if err != nil {
		t.Fatalf("ListExpenses() error = %v", err)
	}
	if len(expenses) != 1 {
		t.Fatalf("stored %d expenses, want 1", len(expenses))
	}
	if expenses[0].Amount != 42.50 {
		t.Errorf("Amount = %v, want 42.50", expenses[0].Amount)
	}
}

func TestMenu_InvalidAmountKeepsRunning(t *testing.T) {
	tr := tracker.New(storage.NewMemoryStore(), core.NewStatisticsManager(), nil)

	input := "1\nabc\n0\n"
	output := runMenu(t, tr, nil, input)

	if !strings.Contains(output, "Error:") {
		t.Errorf("output missing error message:\n%s", output)
	}
	if !strings.Contains(output, "Bye.") {
		t.Errorf("menu should keep running after an error:\n%s", output)
	}
}

func TestMenu_Statistics(t *testing.T) {
	tr := tracker.New(storage.NewMemoryStore(), core.NewStatisticsManager(), nil)
	if _, err := tr.AddExpense(context.Background(), 100, "Food", "", core.NewDate(2024, 1, 15), ""); err != nil {
		t.Fatalf("AddExpense() error = %v", err)
	}

	output := runMenu(t, tr, nil, "4\n0\n")

	for _, want := range []string{"total", "average", "count"} {
		if !strings.Contains(output, want) {
			t.Errorf("statistics output missing %q:\n%s", want, output)
		}
	}
}

func TestMenu_Seed(t *testing.T) {
	tr := tracker.New(storage.NewMemoryStore(), core.NewStatisticsManager(), nil)
	seeder := seed.New(tr, seed.DefaultProfile(), 2, 1)

	output := runMenu(t, tr, seeder, "6\n10\n0\n")

	if !strings.Contains(output, "Seeded 10 expenses.") {
		t.Errorf("output missing seed confirmation:\n%s", output)
	}

	expenses, _ := tr.ListExpenses(context.Background())
	if len(expenses) != 10 {
		t.Errorf("stored %d expenses, want 10", len(expenses))
	}
}

func TestMenu_ExitOnEOF(t *testing.T) {
	tr := tracker.New(storage.NewMemoryStore(), core.NewStatisticsManager(), nil)
	runMenu(t, tr, nil, "")
}
