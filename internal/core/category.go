package core

// Category is a named budget bucket. Name is the identity: two categories
// are equal iff their names match, whatever the other fields hold.
type Category struct {
	Name          string
	Description   string
	BudgetLimit   float64
	MonthlyBudget float64
}

// NewCategory validates and constructs a Category. Budgets default to 0
// and must be non-negative.
func NewCategory(name, description string, budgetLimit, monthlyBudget float64) (Category, error) {
	if name == "" {
		return Category{}, newError(KindValidation, "category name must be non-empty string")
	}
	if budgetLimit < 0 {
		return Category{}, newError(KindRange, "budget limit cannot be negative, got %v", budgetLimit)
	}
	if monthlyBudget < 0 {
		return Category{}, newError(KindRange, "monthly budget cannot be negative, got %v", monthlyBudget)
	}
	return Category{
		Name:          name,
		Description:   description,
		BudgetLimit:   budgetLimit,
		MonthlyBudget: monthlyBudget,
	}, nil
}

// SetBudget replaces the budget limit, rejecting negative values.
func (c *Category) SetBudget(v float64) error {
	if v < 0 {
		return newError(KindRange, "budget limit cannot be negative, got %v", v)
	}
	c.BudgetLimit = v
	return nil
}

// Equal reports name equality. Comparing against anything that is not a
// Category is false, never a panic.
func (c Category) Equal(other any) bool {
	switch o := other.(type) {
	case Category:
		return c.Name == o.Name
	case *Category:
		return o != nil && c.Name == o.Name
	default:
		return false
	}
}

// ToMap serializes the category; CategoryFromMap is the exact inverse.
func (c Category) ToMap() map[string]any {
	return map[string]any{
		"name":           c.Name,
		"description":    c.Description,
		"budget_limit":   c.BudgetLimit,
		"monthly_budget": c.MonthlyBudget,
	}
}

// CategoryFromMap reconstructs a Category from its serialized form.
func CategoryFromMap(m map[string]any) (Category, error) {
	limit, err := budgetField(m, "budget_limit")
	if err != nil {
		return Category{}, err
	}
	monthly, err := budgetField(m, "monthly_budget")
	if err != nil {
		return Category{}, err
	}
	return NewCategory(stringField(m, "name"), stringField(m, "description"), limit, monthly)
}

func budgetField(m map[string]any, key string) (float64, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return 0, nil
	}
	switch val := v.(type) {
	case float64:
		return val, nil
	case float32:
		return float64(val), nil
	case int:
		return float64(val), nil
	case int64:
		return float64(val), nil
	default:
		return 0, newError(KindType, "%s must be a number, got %T", key, v)
	}
}
