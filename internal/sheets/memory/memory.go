package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/kasereka12/BudgetTracer/internal/core"
)

// Store keeps exported expenses in insertion order.
type Store struct {
	mu    sync.Mutex
	ids   []string
	items map[string]core.Expense
}

func New() *Store {
	return &Store{items: map[string]core.Expense{}}
}

// Upsert stores the expense and returns a synthetic row reference.
func (s *Store) Upsert(_ context.Context, e core.Expense) (string, error) {
	if e.ID == "" {
		return "", fmt.Errorf("export expense: missing id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[e.ID]; !ok {
		s.ids = append(s.ids, e.ID)
	}
	s.items[e.ID] = e
	return fmt.Sprintf("mem:%d", slices.Index(s.ids, e.ID)+1), nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return nil
	}
	delete(s.items, id)
	s.ids = slices.DeleteFunc(s.ids, func(v string) bool { return v == id })
	return nil
}

// List returns the exported expenses in the order they were first written.
func (s *Store) List() []core.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Expense, len(s.ids))
	for i, id := range s.ids {
		out[i] = s.items[id]
	}
	return out
}
