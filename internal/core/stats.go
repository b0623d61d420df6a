package core

import (
	"fmt"
	"strings"
)

// StatisticFunc reduces an expense sequence to a summary value. Functions
// must be pure with respect to the manager: they may not mutate it.
type StatisticFunc func(expenses []Expense) (any, error)

// Result is the outcome of one statistic inside ComputeAll. Exactly one of
// Value and Err is meaningful; a failed statistic carries the lowercased
// failure description instead of aborting its siblings.
type Result struct {
	Value any    `json:"value,omitempty"`
	Err   string `json:"error,omitempty"`
}

// Failed reports whether the statistic produced an error instead of a value.
func (r Result) Failed() bool { return r.Err != "" }

// StatisticsManager is a registry of named aggregation functions. Insertion
// order is preserved: built-ins first, then user registrations in the order
// they were made. Instances are independent; there is no shared state.
//
// The manager assumes exclusive access per call. Embedders running it from
// multiple goroutines must serialize with their own lock.
type StatisticsManager struct {
	order []string
	fns   map[string]StatisticFunc
}

// NewStatisticsManager returns a manager pre-populated with the built-in
// statistics total, average, count, by_category and monthly_total, in that
// order.
func NewStatisticsManager() *StatisticsManager {
	m := &StatisticsManager{fns: make(map[string]StatisticFunc)}
	builtins := []struct {
		name string
		fn   StatisticFunc
	}{
		{"total", Total},
		{"average", Average},
		{"count", Count},
		{"by_category", ByCategory},
		{"monthly_total", MonthlyTotal},
	}
	for _, b := range builtins {
		m.order = append(m.order, b.name)
		m.fns[b.name] = b.fn
	}
	return m
}

// Register adds fn under name. Registering an already-used name fails with
// a duplicate error and leaves the registry untouched.
func (m *StatisticsManager) Register(name string, fn StatisticFunc) error {
	if name == "" {
		return newError(KindValidation, "statistic name must be non-empty string")
	}
	if fn == nil {
		return newError(KindValidation, "statistic %q: function must not be nil", name)
	}
	if _, exists := m.fns[name]; exists {
		return newError(KindDuplicate, "statistic %q already registered", name)
	}
	m.order = append(m.order, name)
	m.fns[name] = fn
	return nil
}

// Unregister removes the named statistic, failing if it is absent.
func (m *StatisticsManager) Unregister(name string) error {
	if _, exists := m.fns[name]; !exists {
		return newError(KindNotFound, "statistic %q not found", name)
	}
	delete(m.fns, name)
	for i, n := range m.order {
		if n == name {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// Compute runs a single statistic, failing fast: an unknown name is a
// not-found error and an error from the function propagates unmodified.
func (m *StatisticsManager) Compute(name string, expenses []Expense) (any, error) {
	fn, exists := m.fns[name]
	if !exists {
		return nil, newError(KindNotFound, "statistic %q not found", name)
	}
	return fn(expenses)
}

// ComputeAll runs every registered statistic against the same expense
// sequence. Each function is isolated: an error or panic in one becomes a
// Result with an error description while the others still compute. One
// buggy plugin must never take down the rest.
func (m *StatisticsManager) ComputeAll(expenses []Expense) map[string]Result {
	results := make(map[string]Result, len(m.order))
	for _, name := range m.order {
		results[name] = runStatistic(m.fns[name], expenses)
	}
	return results
}

func runStatistic(fn StatisticFunc, expenses []Expense) (res Result) {
	defer func() {
		if p := recover(); p != nil {
			res = Result{Err: strings.ToLower(fmt.Sprint(p))}
		}
	}()
	v, err := fn(expenses)
	if err != nil {
		return Result{Err: strings.ToLower(err.Error())}
	}
	return Result{Value: v}
}

// Names returns the registered statistic names in insertion order.
func (m *StatisticsManager) Names() []string {
	return append([]string(nil), m.order...)
}

// Len returns the number of registered statistics.
func (m *StatisticsManager) Len() int { return len(m.order) }

// Total sums all amounts; 0 for empty input.
func Total(expenses []Expense) (any, error) {
	var sum float64
	for _, e := range expenses {
		sum += e.Amount
	}
	return sum, nil
}

// Average is total divided by count, defined as 0 for empty input. The
// division happens after the full sum so no rounding error compounds.
func Average(expenses []Expense) (any, error) {
	if len(expenses) == 0 {
		return float64(0), nil
	}
	var sum float64
	for _, e := range expenses {
		sum += e.Amount
	}
	return sum / float64(len(expenses)), nil
}

// Count is the number of expenses.
func Count(expenses []Expense) (any, error) {
	return len(expenses), nil
}

// ByCategory maps category name to the sum of its amounts. Categories with
// no expenses are absent rather than zero-valued.
func ByCategory(expenses []Expense) (any, error) {
	sums := make(map[string]float64)
	for _, e := range expenses {
		sums[e.Category] += e.Amount
	}
	return sums, nil
}

// MonthlyTotal maps the YYYY-MM bucket of each expense date to the sum of
// amounts falling in that month.
func MonthlyTotal(expenses []Expense) (any, error) {
	sums := make(map[string]float64)
	for _, e := range expenses {
		sums[e.Date.YearMonth()] += e.Amount
	}
	return sums, nil
}
