package core

import (
	"strings"
	"testing"
)

func TestNewCategory(t *testing.T) {
	c, err := NewCategory("Food", "Food expenses", 1000, 500)
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if c.Name != "Food" || c.Description != "Food expenses" || c.BudgetLimit != 1000 || c.MonthlyBudget != 500 {
		t.Fatalf("unexpected fields: %+v", c)
	}
}

func TestCategoryNameValidation(t *testing.T) {
	_, err := NewCategory("", "Test", 0, 0)
	if err == nil {
		t.Fatal("expected error for empty name")
	}
	if KindOf(err) != KindValidation {
		t.Fatalf("expected validation kind, got %v", KindOf(err))
	}
	if !strings.Contains(err.Error(), "non-empty string") {
		t.Fatalf("message should say non-empty string required, got %q", err.Error())
	}
}

func TestCategoryBudgetValidation(t *testing.T) {
	if _, err := NewCategory("Test", "", -1, 0); KindOf(err) != KindRange {
		t.Errorf("negative budget limit: kind = %v, want range", KindOf(err))
	}
	if _, err := NewCategory("Test", "", 0, -1); KindOf(err) != KindRange {
		t.Errorf("negative monthly budget: kind = %v, want range", KindOf(err))
	}
}

func TestCategorySetBudget(t *testing.T) {
	c, err := NewCategory("Test", "Test category", 0, 0)
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	if err := c.SetBudget(1000); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if c.BudgetLimit != 1000 {
		t.Fatalf("expected 1000, got %v", c.BudgetLimit)
	}

	// Zero is allowed
	if err := c.SetBudget(0); err != nil {
		t.Fatalf("zero budget should be valid, got %v", err)
	}

	err = c.SetBudget(-100)
	if err == nil {
		t.Fatal("expected error for negative budget")
	}
	if KindOf(err) != KindRange {
		t.Fatalf("expected range kind, got %v", KindOf(err))
	}
	if c.BudgetLimit != 0 {
		t.Fatalf("failed SetBudget must not mutate, got %v", c.BudgetLimit)
	}
}

func TestCategoryEqual(t *testing.T) {
	c1, _ := NewCategory("Food", "Food expenses", 0, 0)
	c2, _ := NewCategory("Food", "Different description", 99, 0)
	c3, _ := NewCategory("Transport", "Transport", 0, 0)

	if !c1.Equal(c2) {
		t.Error("same name must be equal regardless of other fields")
	}
	if c1.Equal(c3) {
		t.Error("different names must not be equal")
	}
	if c1.Equal("Food") {
		t.Error("comparison against a non-Category must be false")
	}
	if c1.Equal(nil) {
		t.Error("comparison against nil must be false")
	}
	if !c1.Equal(&c2) {
		t.Error("pointer comparison with same name should be equal")
	}
}

func TestCategorySerialization(t *testing.T) {
	c, _ := NewCategory("Food", "Food expenses", 1000, 500)

	m := c.ToMap()
	want := map[string]any{
		"name":           "Food",
		"description":    "Food expenses",
		"budget_limit":   1000.0,
		"monthly_budget": 500.0,
	}
	if len(m) != len(want) {
		t.Fatalf("unexpected keys: %v", m)
	}
	for k, v := range want {
		if m[k] != v {
			t.Errorf("key %q = %v, want %v", k, m[k], v)
		}
	}

	back, err := CategoryFromMap(m)
	if err != nil {
		t.Fatalf("round trip failed: %v", err)
	}
	if back != c {
		t.Fatalf("round trip mismatch: %+v != %+v", back, c)
	}
}

func TestCategoryFromMapDefaults(t *testing.T) {
	c, err := CategoryFromMap(map[string]any{"name": "Food"})
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if c.BudgetLimit != 0 || c.MonthlyBudget != 0 {
		t.Fatalf("budgets should default to 0, got %+v", c)
	}

	if _, err := CategoryFromMap(map[string]any{}); KindOf(err) != KindValidation {
		t.Errorf("missing name: kind = %v, want validation", KindOf(err))
	}
}
