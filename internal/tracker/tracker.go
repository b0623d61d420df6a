package tracker

import (
	"context"
	"fmt"
	"log/slog"

	"expensetracker/internal/core"
)

// Store is the persistence surface the tracker needs. SQLite and the
// in-memory store both satisfy it.
type Store interface {
	SaveExpense(ctx context.Context, e core.Expense) error
	GetExpense(ctx context.Context, id string) (core.Expense, error)
	UpdateExpense(ctx context.Context, e core.Expense) error
	DeleteExpense(ctx context.Context, id string) error
	ListExpenses(ctx context.Context) ([]core.Expense, error)
	SaveCategory(ctx context.Context, c core.Category) error
	GetCategory(ctx context.Context, name string) (core.Category, error)
	ListCategories(ctx context.Context) ([]core.Category, error)
	DeleteCategory(ctx context.Context, name string) error
	Close() error
}

// Publisher emits expense change events. Publishing is best effort:
// failures are logged, never surfaced to the caller.
type Publisher interface {
	PublishExpenseEvent(ctx context.Context, id, action string) error
}

// Filter narrows ListExpenses results. Nil fields mean "no constraint".
type Filter struct {
	Category  string
	From      *core.Date
	To        *core.Date
	MinAmount *float64
	MaxAmount *float64
}

// Tracker orchestrates expense operations across the store, the statistics
// registry and the optional event publisher.
type Tracker struct {
	store     Store
	stats     *core.StatisticsManager
	publisher Publisher
}

func New(store Store, stats *core.StatisticsManager, publisher Publisher) *Tracker {
	if stats == nil {
		stats = core.NewStatisticsManager()
	}
	return &Tracker{
		store:     store,
		stats:     stats,
		publisher: publisher,
	}
}

// AddExpense validates and persists a new expense. The returned expense has
// defaults applied (generated id, fallback category, today's date).
func (t *Tracker) AddExpense(ctx context.Context, amount float64, category, description string, date core.Date, id string) (core.Expense, error) {
	e, err := core.NewExpense(amount, category, description, date, id)
	if err != nil {
		return core.Expense{}, err
	}

	if err := t.store.SaveExpense(ctx, e); err != nil {
		return core.Expense{}, err
	}

	t.publish(ctx, e.ID, "created")
	return e, nil
}

func (t *Tracker) GetExpense(ctx context.Context, id string) (core.Expense, error) {
	return t.store.GetExpense(ctx, id)
}

// UpdateExpense applies a partial update. Each supplied field is validated
// the same way as on creation; unknown fields are rejected.
func (t *Tracker) UpdateExpense(ctx context.Context, id string, updates map[string]any) (core.Expense, error) {
	e, err := t.store.GetExpense(ctx, id)
	if err != nil {
		return core.Expense{}, err
	}

	for key, value := range updates {
		switch key {
		case "amount":
			amount, err := core.ParseAmount(value)
			if err != nil {
				return core.Expense{}, err
			}
			e.Amount = amount
		case "category":
			s, ok := value.(string)
			if !ok {
				return core.Expense{}, core.NewError(core.KindType, "category must be a string, got %T", value)
			}
			if s == "" {
				s = core.DefaultCategory
			}
			e.Category = s
		case "description":
			s, ok := value.(string)
			if !ok {
				return core.Expense{}, core.NewError(core.KindType, "description must be a string, got %T", value)
			}
			e.Description = s
		case "date":
			date, err := core.ParseDate(value)
			if err != nil {
				return core.Expense{}, err
			}
			e.Date = date
		default:
			return core.Expense{}, core.NewError(core.KindValidation, "unknown field %q", key)
		}
	}

	if err := t.store.UpdateExpense(ctx, e); err != nil {
		return core.Expense{}, err
	}

	t.publish(ctx, e.ID, "updated")
	return e, nil
}

func (t *Tracker) DeleteExpense(ctx context.Context, id string) error {
	if err := t.store.DeleteExpense(ctx, id); err != nil {
		return err
	}

	t.publish(ctx, id, "deleted")
	return nil
}

func (t *Tracker) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	return t.store.ListExpenses(ctx)
}

// FilterExpenses returns the expenses matching every set constraint.
func (t *Tracker) FilterExpenses(ctx context.Context, f Filter) ([]core.Expense, error) {
	expenses, err := t.store.ListExpenses(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]core.Expense, 0, len(expenses))
	for _, e := range expenses {
		if !matches(e, f) {
			continue
		}
		matched = append(matched, e)
	}
	return matched, nil
}

func matches(e core.Expense, f Filter) bool {
	if f.Category != "" && e.Category != f.Category {
		return false
	}
	if f.From != nil && e.Date.Time().Before(f.From.Time()) {
		return false
	}
	if f.To != nil && e.Date.Time().After(f.To.Time()) {
		return false
	}
	if f.MinAmount != nil && e.Amount < *f.MinAmount {
		return false
	}
	if f.MaxAmount != nil && e.Amount > *f.MaxAmount {
		return false
	}
	return true
}

func (t *Tracker) AddCategory(ctx context.Context, name, description string, budgetLimit, monthlyBudget float64) (core.Category, error) {
	c, err := core.NewCategory(name, description, budgetLimit, monthlyBudget)
	if err != nil {
		return core.Category{}, err
	}

	if err := t.store.SaveCategory(ctx, c); err != nil {
		return core.Category{}, err
	}
	return c, nil
}

func (t *Tracker) GetCategory(ctx context.Context, name string) (core.Category, error) {
	return t.store.GetCategory(ctx, name)
}

// Categories merges stored categories with the distinct categories used by
// expenses, so ad-hoc categories show up without explicit registration.
func (t *Tracker) Categories(ctx context.Context) ([]string, error) {
	stored, err := t.store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	expenses, err := t.store.ListExpenses(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var names []string
	for _, c := range stored {
		if !seen[c.Name] {
			seen[c.Name] = true
			names = append(names, c.Name)
		}
	}
	for _, e := range expenses {
		if !seen[e.Category] {
			seen[e.Category] = true
			names = append(names, e.Category)
		}
	}
	return names, nil
}

func (t *Tracker) DeleteCategory(ctx context.Context, name string) error {
	return t.store.DeleteCategory(ctx, name)
}

// Statistics runs every registered statistic over all stored expenses.
func (t *Tracker) Statistics(ctx context.Context) (map[string]core.Result, error) {
	expenses, err := t.store.ListExpenses(ctx)
	if err != nil {
		return nil, err
	}
	return t.stats.ComputeAll(expenses), nil
}

// Statistic runs a single named statistic, failing fast on error.
func (t *Tracker) Statistic(ctx context.Context, name string) (any, error) {
	expenses, err := t.store.ListExpenses(ctx)
	if err != nil {
		return nil, err
	}
	return t.stats.Compute(name, expenses)
}

func (t *Tracker) RegisterStatistic(name string, fn core.StatisticFunc) error {
	return t.stats.Register(name, fn)
}

func (t *Tracker) UnregisterStatistic(name string) error {
	return t.stats.Unregister(name)
}

func (t *Tracker) StatisticNames() []string {
	return t.stats.Names()
}

func (t *Tracker) publish(ctx context.Context, id, action string) {
	if t.publisher == nil {
		return
	}
	if err := t.publisher.PublishExpenseEvent(ctx, id, action); err != nil {
		slog.ErrorContext(ctx, "Failed to publish expense event",
			"id", id,
			"action", action,
			"error", err)
	}
}

// Close releases the underlying store.
func (t *Tracker) Close() error {
	if t.store == nil {
		return nil
	}
	if err := t.store.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	return nil
}
