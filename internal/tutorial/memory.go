package tutorial

import (
	"context"
	"slices"
	"strings"
	"sync"
)

// MemoryStore keeps records in a map guarded by one RWMutex.  IDs come from a
// counter that DeleteAll does not reset, so an ID is never handed out twice.
type MemoryStore struct {
	mu     sync.RWMutex
	rows   map[int64]Tutorial
	nextID int64
}

// NewMemoryStore returns an empty store whose first ID is 1.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rows: make(map[int64]Tutorial)}
}

func (s *MemoryStore) Insert(_ context.Context, t Tutorial) (Tutorial, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	t = t.Copy()
	t.ID = s.nextID
	s.rows[t.ID] = t
	return t.Copy(), nil
}

func (s *MemoryStore) Get(_ context.Context, id int64) (Tutorial, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.rows[id]
	if !ok {
		return Tutorial{}, false, nil
	}
	return t.Copy(), true, nil
}

func (s *MemoryStore) All(_ context.Context) ([]Tutorial, error) {
	return s.filter(func(Tutorial) bool { return true }), nil
}

func (s *MemoryStore) FindByTitleContaining(_ context.Context, term string) ([]Tutorial, error) {
	needle := strings.ToLower(term)
	return s.filter(func(t Tutorial) bool {
		return strings.Contains(strings.ToLower(t.Title), needle)
	}), nil
}

func (s *MemoryStore) FindByPublished(_ context.Context, published bool) ([]Tutorial, error) {
	return s.filter(func(t Tutorial) bool { return t.Published == published }), nil
}

func (s *MemoryStore) Update(_ context.Context, id int64, fn Mutator) (Tutorial, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.rows[id]
	if !ok {
		return Tutorial{}, false, nil
	}
	next := fn(cur.Copy()).Copy()
	next.ID = cur.ID
	next.CreatedAt = cur.CreatedAt
	s.rows[id] = next
	return next.Copy(), true, nil
}

func (s *MemoryStore) Delete(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rows[id]; !ok {
		return false, nil
	}
	delete(s.rows, id)
	return true, nil
}

func (s *MemoryStore) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	clear(s.rows)
	s.mu.Unlock()
	return nil
}

// filter returns matching records in ID order.
func (s *MemoryStore) filter(keep func(Tutorial) bool) []Tutorial {
	s.mu.RLock()
	out := make([]Tutorial, 0, len(s.rows))
	for _, t := range s.rows {
		if keep(t) {
			out = append(out, t.Copy())
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b Tutorial) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return out
}
