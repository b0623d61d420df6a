package storage

import (
	"context"
	"sort"
	"sync"

	"expensetracker/internal/core"
)

// MemoryStore is an in-memory implementation of the tracker store, used by
// tests and for running without a database file.
type MemoryStore struct {
	mu         sync.Mutex
	expenses   map[string]core.Expense
	order      []string // insertion order of expense ids
	categories map[string]core.Category
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		expenses:   make(map[string]core.Expense),
		categories: make(map[string]core.Category),
	}
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) SaveExpense(_ context.Context, e core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.expenses[e.ID]; exists {
		return core.NewError(core.KindDuplicate, "expense %q already exists", e.ID)
	}
	s.expenses[e.ID] = e
	s.order = append(s.order, e.ID)
	return nil
}

func (s *MemoryStore) GetExpense(_ context.Context, id string) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, exists := s.expenses[id]
	if !exists {
		return core.Expense{}, core.NewError(core.KindNotFound, "expense %q not found", id)
	}
	return e, nil
}

func (s *MemoryStore) UpdateExpense(_ context.Context, e core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.expenses[e.ID]; !exists {
		return core.NewError(core.KindNotFound, "expense %q not found", e.ID)
	}
	s.expenses[e.ID] = e
	return nil
}

func (s *MemoryStore) DeleteExpense(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.expenses[id]; !exists {
		return core.NewError(core.KindNotFound, "expense %q not found", id)
	}
	delete(s.expenses, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemoryStore) ListExpenses(_ context.Context) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Expense, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.expenses[id])
	}
	return out, nil
}

func (s *MemoryStore) SaveCategory(_ context.Context, c core.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories[c.Name] = c
	return nil
}

func (s *MemoryStore) GetCategory(_ context.Context, name string) (core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, exists := s.categories[name]
	if !exists {
		return core.Category{}, core.NewError(core.KindNotFound, "category %q not found", name)
	}
	return c, nil
}

func (s *MemoryStore) ListCategories(_ context.Context) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemoryStore) DeleteCategory(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.categories[name]; !exists {
		return core.NewError(core.KindNotFound, "category %q not found", name)
	}
	delete(s.categories, name)
	return nil
}
