package core

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

// DefaultCategory is assigned when an expense is created without one.
const DefaultCategory = "Uncategorized"

// Expense is one recorded spending event. All fields are comparable, so
// two expenses are equal under == iff id, amount, category, description
// and date all match, and the struct can be used as a map or set key.
type Expense struct {
	ID          string
	Amount      float64
	Category    string
	Description string
	Date        Date
}

// NewExpense validates and constructs an Expense. A negative amount is a
// range error. An empty category falls back to DefaultCategory, a zero
// date to today, and an empty id to a generated UUID. Caller-supplied ids
// are trusted as-is; uniqueness is the store's concern.
func NewExpense(amount float64, category, description string, date Date, id string) (Expense, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Expense{}, newError(KindType, "amount must be a number, got %v", amount)
	}
	if amount < 0 {
		return Expense{}, newError(KindRange, "amount must be non-negative, got %v", amount)
	}
	if category == "" {
		category = DefaultCategory
	}
	if date.IsZero() {
		date = Today()
	}
	if id == "" {
		id = uuid.NewString()
	}
	return Expense{
		ID:          id,
		Amount:      amount,
		Category:    category,
		Description: description,
		Date:        date,
	}, nil
}

// ParseAmount converts loosely-typed input into a valid amount. Non-numeric
// values fail with a type error, negative values with a range error; the
// type check always runs first.
func ParseAmount(v any) (float64, error) {
	var amount float64
	switch val := v.(type) {
	case float64:
		amount = val
	case float32:
		amount = float64(val)
	case int:
		amount = float64(val)
	case int32:
		amount = float64(val)
	case int64:
		amount = float64(val)
	default:
		return 0, newError(KindType, "amount must be a number, got %T", v)
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, newError(KindType, "amount must be a number, got %v", amount)
	}
	if amount < 0 {
		return 0, newError(KindRange, "amount must be non-negative, got %v", amount)
	}
	return amount, nil
}

// ToMap serializes the expense for storage or transport. The date is
// rendered as YYYY-MM-DD; ExpenseFromMap is the exact inverse.
func (e Expense) ToMap() map[string]any {
	return map[string]any{
		"id":          e.ID,
		"amount":      e.Amount,
		"category":    e.Category,
		"description": e.Description,
		"date":        e.Date.String(),
	}
}

// ExpenseFromMap reconstructs an Expense from its serialized form, running
// the same per-field validation as NewExpense.
func ExpenseFromMap(m map[string]any) (Expense, error) {
	amount, err := ParseAmount(m["amount"])
	if err != nil {
		return Expense{}, err
	}
	date, err := ParseDate(m["date"])
	if err != nil {
		return Expense{}, err
	}
	return NewExpense(amount, stringField(m, "category"), stringField(m, "description"), date, stringField(m, "id"))
}

func stringField(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

// String is a debug representation, not meant for parsing.
func (e Expense) String() string {
	return fmt.Sprintf("Expense(id=%s, amount=%.2f, category=%s)", e.ID, e.Amount, e.Category)
}
