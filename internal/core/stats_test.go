package core

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

// sampleExpenses mirrors the canonical fixture used across the test suite:
// 100+200+50+300+150 = 800 over Food/Transport/Entertainment, Jan-Feb 2024.
func sampleExpenses(t *testing.T) []Expense {
	t.Helper()
	specs := []struct {
		amount   float64
		category string
		desc     string
		date     Date
		id       string
	}{
		{100, "Food", "Lunch", NewDate(2024, time.January, 15), "exp1"},
		{200, "Transport", "Taxi", NewDate(2024, time.January, 16), "exp2"},
		{50, "Food", "Coffee", NewDate(2024, time.January, 17), "exp3"},
		{300, "Entertainment", "Movie", NewDate(2024, time.February, 1), "exp4"},
		{150, "Food", "Dinner", NewDate(2024, time.February, 15), "exp5"},
	}
	expenses := make([]Expense, len(specs))
	for i, s := range specs {
		e, err := NewExpense(s.amount, s.category, s.desc, s.date, s.id)
		if err != nil {
			t.Fatalf("fixture expense %d: %v", i, err)
		}
		expenses[i] = e
	}
	return expenses
}

func TestNewStatisticsManagerBuiltins(t *testing.T) {
	m := NewStatisticsManager()

	want := []string{"total", "average", "count", "by_category", "monthly_total"}
	if got := m.Names(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
	if m.Len() != len(want) {
		t.Fatalf("Len() = %d, want %d", m.Len(), len(want))
	}
}

func TestStatisticsManagerInstancesAreIndependent(t *testing.T) {
	m1 := NewStatisticsManager()
	m2 := NewStatisticsManager()

	if err := m1.Register("custom", func([]Expense) (any, error) { return 1, nil }); err != nil {
		t.Fatalf("register: %v", err)
	}
	if m2.Len() != 5 {
		t.Fatalf("registration leaked between instances: %v", m2.Names())
	}
}

func TestRegister(t *testing.T) {
	m := NewStatisticsManager()
	expensive := func(expenses []Expense) (any, error) {
		n := 0
		for _, e := range expenses {
			if e.Amount > 100 {
				n++
			}
		}
		return n, nil
	}

	if err := m.Register("expensive_count", expensive); err != nil {
		t.Fatalf("register: %v", err)
	}
	names := m.Names()
	if names[len(names)-1] != "expensive_count" {
		t.Fatalf("new registration should be last, got %v", names)
	}

	err := m.Register("expensive_count", expensive)
	if err == nil {
		t.Fatal("expected duplicate error")
	}
	if KindOf(err) != KindDuplicate {
		t.Fatalf("expected duplicate kind, got %v", KindOf(err))
	}
	if m.Len() != 6 {
		t.Fatalf("failed registration must have no effect, Len = %d", m.Len())
	}
}

func TestRegistrationOrderPreserved(t *testing.T) {
	m := NewStatisticsManager()
	noop := func([]Expense) (any, error) { return nil, nil }

	if err := m.Register("x", noop); err != nil {
		t.Fatalf("register x: %v", err)
	}
	if err := m.Register("y", noop); err != nil {
		t.Fatalf("register y: %v", err)
	}

	names := m.Names()
	if names[len(names)-2] != "x" || names[len(names)-1] != "y" {
		t.Fatalf("expected [..., x, y], got %v", names)
	}
}

func TestUnregister(t *testing.T) {
	m := NewStatisticsManager()
	before := m.Len()

	if err := m.Unregister("total"); err != nil {
		t.Fatalf("unregister: %v", err)
	}
	if m.Len() != before-1 {
		t.Fatalf("Len() = %d, want %d", m.Len(), before-1)
	}
	for _, n := range m.Names() {
		if n == "total" {
			t.Fatal("total should be gone")
		}
	}

	err := m.Unregister("non_existent")
	if err == nil {
		t.Fatal("expected not-found error")
	}
	if KindOf(err) != KindNotFound {
		t.Fatalf("expected not_found kind, got %v", KindOf(err))
	}
}

func TestComputeAll(t *testing.T) {
	m := NewStatisticsManager()
	results := m.ComputeAll(sampleExpenses(t))

	if got := results["total"].Value; got != 800.0 {
		t.Errorf("total = %v, want 800", got)
	}
	if got := results["count"].Value; got != 5 {
		t.Errorf("count = %v, want 5", got)
	}
	if got := results["average"].Value; got != 160.0 {
		t.Errorf("average = %v, want 160", got)
	}

	byCat, ok := results["by_category"].Value.(map[string]float64)
	if !ok {
		t.Fatalf("by_category = %T, want map[string]float64", results["by_category"].Value)
	}
	wantCat := map[string]float64{"Food": 300, "Transport": 200, "Entertainment": 300}
	if !reflect.DeepEqual(byCat, wantCat) {
		t.Errorf("by_category = %v, want %v", byCat, wantCat)
	}

	monthly, ok := results["monthly_total"].Value.(map[string]float64)
	if !ok {
		t.Fatalf("monthly_total = %T, want map[string]float64", results["monthly_total"].Value)
	}
	wantMonthly := map[string]float64{"2024-01": 350, "2024-02": 450}
	if !reflect.DeepEqual(monthly, wantMonthly) {
		t.Errorf("monthly_total = %v, want %v", monthly, wantMonthly)
	}
}

func TestComputeAllEmptyInput(t *testing.T) {
	m := NewStatisticsManager()
	results := m.ComputeAll(nil)

	if got := results["total"].Value; got != 0.0 {
		t.Errorf("total = %v, want 0", got)
	}
	if got := results["average"].Value; got != 0.0 {
		t.Errorf("average = %v, want 0", got)
	}
	if got := results["count"].Value; got != 0 {
		t.Errorf("count = %v, want 0", got)
	}
	if got := results["by_category"].Value.(map[string]float64); len(got) != 0 {
		t.Errorf("by_category = %v, want empty", got)
	}
	if got := results["monthly_total"].Value.(map[string]float64); len(got) != 0 {
		t.Errorf("monthly_total = %v, want empty", got)
	}
}

func TestComputeSingle(t *testing.T) {
	m := NewStatisticsManager()
	expenses := sampleExpenses(t)

	total, err := m.Compute("total", expenses)
	if err != nil {
		t.Fatalf("compute total: %v", err)
	}
	if total != 800.0 {
		t.Errorf("total = %v, want 800", total)
	}

	_, err = m.Compute("non_existent", expenses)
	if KindOf(err) != KindNotFound {
		t.Fatalf("expected not_found kind, got %v", KindOf(err))
	}
}

func TestComputeFailsFast(t *testing.T) {
	m := NewStatisticsManager()
	boom := errors.New("broken statistic")
	if err := m.Register("failing", func([]Expense) (any, error) { return nil, boom }); err != nil {
		t.Fatalf("register: %v", err)
	}

	// Single compute propagates the function's error unmodified.
	_, err := m.Compute("failing", nil)
	if !errors.Is(err, boom) {
		t.Fatalf("expected the statistic's own error, got %v", err)
	}
}

func TestComputeAllIsolatesFailures(t *testing.T) {
	m := NewStatisticsManager()
	if err := m.Register("failing", func([]Expense) (any, error) {
		return nil, errors.New("Test Error")
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := m.Register("panicking", func([]Expense) (any, error) {
		panic("Unexpected Panic")
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	results := m.ComputeAll(sampleExpenses(t))

	failing := results["failing"]
	if !failing.Failed() {
		t.Fatal("failing statistic should carry an error result")
	}
	if failing.Err != "test error" {
		t.Errorf("error description should be lowercased, got %q", failing.Err)
	}

	panicking := results["panicking"]
	if !panicking.Failed() || panicking.Err != "unexpected panic" {
		t.Errorf("panicking statistic should be quarantined, got %+v", panicking)
	}

	// Siblings are unaffected.
	if results["total"].Failed() || results["total"].Value != 800.0 {
		t.Errorf("total should still compute, got %+v", results["total"])
	}
	if results["count"].Failed() || results["count"].Value != 5 {
		t.Errorf("count should still compute, got %+v", results["count"])
	}
}

func TestRegisterAlias(t *testing.T) {
	// An alias for a built-in is just another user registration.
	m := NewStatisticsManager()
	if err := m.Register("total_sum", Total); err != nil {
		t.Fatalf("register: %v", err)
	}

	results := m.ComputeAll(sampleExpenses(t))
	if results["total_sum"].Value != results["total"].Value {
		t.Errorf("alias diverged: %v != %v", results["total_sum"].Value, results["total"].Value)
	}
}
