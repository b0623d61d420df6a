package storage

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"expensetracker/internal/core"
)

func mustExpense(t *testing.T, amount float64, category, id string) core.Expense {
	t.Helper()
	e, err := core.NewExpense(amount, category, "", core.NewDate(2024, 1, 15), id)
	if err != nil {
		t.Fatalf("NewExpense() error = %v", err)
	}
	return e
}

func TestMemoryStore_ExpenseCRUD(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	e := mustExpense(t, 100, "Food", "exp-1")

	if err := s.SaveExpense(ctx, e); err != nil {
		t.Fatalf("SaveExpense() error = %v", err)
	}

	t.Run("duplicate id rejected", func(t *testing.T) {
		err := s.SaveExpense(ctx, e)
		if core.KindOf(err) != core.KindDuplicate {
			t.Errorf("kind = %v, want KindDuplicate", core.KindOf(err))
		}
	})

	t.Run("get", func(t *testing.T) {
		got, err := s.GetExpense(ctx, "exp-1")
		if err != nil {
			t.Fatalf("GetExpense() error = %v", err)
		}
		if got != e {
			t.Errorf("GetExpense() = %+v, want %+v", got, e)
		}
	})

	t.Run("update", func(t *testing.T) {
		updated := e
		updated.Amount = 250
		if err := s.UpdateExpense(ctx, updated); err != nil {
			t.Fatalf("UpdateExpense() error = %v", err)
		}
		got, _ := s.GetExpense(ctx, "exp-1")
		if got.Amount != 250 {
			t.Errorf("Amount = %v, want 250", got.Amount)
		}
	})

	t.Run("update missing", func(t *testing.T) {
		missing := mustExpense(t, 1, "Food", "nope")
		if err := s.UpdateExpense(ctx, missing); core.KindOf(err) != core.KindNotFound {
			t.Errorf("kind = %v, want KindNotFound", core.KindOf(err))
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := s.DeleteExpense(ctx, "exp-1"); err != nil {
			t.Fatalf("DeleteExpense() error = %v", err)
		}
		if _, err := s.GetExpense(ctx, "exp-1"); core.KindOf(err) != core.KindNotFound {
			t.Errorf("deleted expense still readable")
		}
		if err := s.DeleteExpense(ctx, "exp-1"); core.KindOf(err) != core.KindNotFound {
			t.Errorf("second delete kind = %v, want KindNotFound", core.KindOf(err))
		}
	})
}

func TestMemoryStore_ListPreservesInsertionOrder(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	ids := []string{"c", "a", "b"}
	for _, id := range ids {
		if err := s.SaveExpense(ctx, mustExpense(t, 10, "Food", id)); err != nil {
			t.Fatalf("SaveExpense(%s) error = %v", id, err)
		}
	}

	expenses, err := s.ListExpenses(ctx)
	if err != nil {
		t.Fatalf("ListExpenses() error = %v", err)
	}
	if len(expenses) != len(ids) {
		t.Fatalf("listed %d expenses, want %d", len(expenses), len(ids))
	}
	for i, id := range ids {
		if expenses[i].ID != id {
			t.Errorf("expenses[%d].ID = %s, want %s", i, expenses[i].ID, id)
		}
	}

	// Deleting from the middle keeps the remaining order.
	if err := s.DeleteExpense(ctx, "a"); err != nil {
		t.Fatalf("DeleteExpense() error = %v", err)
	}
	expenses, _ = s.ListExpenses(ctx)
	if expenses[0].ID != "c" || expenses[1].ID != "b" {
		t.Errorf("order after delete = [%s %s], want [c b]", expenses[0].ID, expenses[1].ID)
	}
}

func TestMemoryStore_Categories(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	food, err := core.NewCategory("Food", "meals", 500, 400)
	if err != nil {
		t.Fatalf("NewCategory() error = %v", err)
	}
	transport, err := core.NewCategory("Transport", "", 0, 0)
	if err != nil {
		t.Fatalf("NewCategory() error = %v", err)
	}

	for _, c := range []core.Category{transport, food} {
		if err := s.SaveCategory(ctx, c); err != nil {
			t.Fatalf("SaveCategory(%s) error = %v", c.Name, err)
		}
	}

	t.Run("save is upsert", func(t *testing.T) {
		changed := food
		changed.BudgetLimit = 600
		if err := s.SaveCategory(ctx, changed); err != nil {
			t.Fatalf("SaveCategory() error = %v", err)
		}
		got, err := s.GetCategory(ctx, "Food")
		if err != nil {
			t.Fatalf("GetCategory() error = %v", err)
		}
		if got.BudgetLimit != 600 {
			t.Errorf("BudgetLimit = %v, want 600", got.BudgetLimit)
		}
	})

	t.Run("list sorted by name", func(t *testing.T) {
		categories, err := s.ListCategories(ctx)
		if err != nil {
			t.Fatalf("ListCategories() error = %v", err)
		}
		if len(categories) != 2 {
			t.Fatalf("listed %d categories, want 2", len(categories))
		}
		if categories[0].Name != "Food" || categories[1].Name != "Transport" {
			t.Errorf("order = [%s %s], want [Food Transport]", categories[0].Name, categories[1].Name)
		}
	})

	t.Run("get missing", func(t *testing.T) {
		if _, err := s.GetCategory(ctx, "Travel"); core.KindOf(err) != core.KindNotFound {
			t.Errorf("kind = %v, want KindNotFound", core.KindOf(err))
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := s.DeleteCategory(ctx, "Transport"); err != nil {
			t.Fatalf("DeleteCategory() error = %v", err)
		}
		if err := s.DeleteCategory(ctx, "Transport"); core.KindOf(err) != core.KindNotFound {
			t.Errorf("second delete kind = %v, want KindNotFound", core.KindOf(err))
		}
	})
}

func TestMemoryStore_ConcurrentWrites(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	expensesIn := make([]core.Expense, 20)
	for i := range expensesIn {
		expensesIn[i] = mustExpense(t, float64(i), "Food", fmt.Sprintf("exp-%d", i))
	}

	var wg sync.WaitGroup
	for _, e := range expensesIn {
		wg.Add(1)
		go func(e core.Expense) {
			defer wg.Done()
			if err := s.SaveExpense(ctx, e); err != nil {
				t.Errorf("SaveExpense() error = %v", err)
			}
		}(e)
	}
	wg.Wait()

	expenses, err := s.ListExpenses(ctx)
	if err != nil {
		t.Fatalf("ListExpenses() error = %v", err)
	}
	if len(expenses) != 20 {
		t.Errorf("stored %d expenses, want 20", len(expenses))
	}
}
