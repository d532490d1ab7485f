package store

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/matzehuels/assemblage/pkg/collage"
)

// MemoryStore keeps serialized compositions in memory.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string][]byte
	index map[string]Summary
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[string][]byte),
		index: make(map[string]Summary),
	}
}

func (s *MemoryStore) Save(ctx context.Context, c *collage.Composition) error {
	if err := prepare(c); err != nil {
		return err
	}
	data, err := collage.MarshalComposition(*c)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[c.ID] = data
	s.index[c.ID] = summarize(*c)
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (collage.Composition, error) {
	s.mu.RLock()
	data, ok := s.items[id]
	s.mu.RUnlock()
	if !ok {
		return collage.Composition{}, notFound(id)
	}
	return collage.UnmarshalComposition(data)
}

func (s *MemoryStore) List(ctx context.Context, limit int) ([]Summary, error) {
	s.mu.RLock()
	out := make([]Summary, 0, len(s.index))
	for _, sum := range s.index {
		out = append(out, sum)
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b Summary) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	if n := listLimit(limit); len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	delete(s.index, id)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
