package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/caselib/internal/core/domain"
	"github.com/custodia-labs/caselib/internal/core/ports/driven"
)

// Ensure LibraryStore implements the interface.
var _ driven.LibraryStore = (*LibraryStore)(nil)

// LibraryStore is an in-memory implementation of driven.LibraryStore.
// The registry is replaced wholesale on configuration reload.
type LibraryStore struct {
	mu        sync.RWMutex
	libraries map[string]domain.Library
	order     []string
}

// NewLibraryStore creates a library store with the given libraries.
func NewLibraryStore(libraries ...domain.Library) *LibraryStore {
	s := &LibraryStore{}
	s.Replace(libraries)
	return s
}

// Replace swaps in a new set of libraries, preserving their order.
func (s *LibraryStore) Replace(libraries []domain.Library) {
	byID := make(map[string]domain.Library, len(libraries))
	order := make([]string, 0, len(libraries))
	for _, lib := range libraries {
		if _, ok := byID[lib.ID]; !ok {
			order = append(order, lib.ID)
		}
		byID[lib.ID] = lib
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.libraries = byID
	s.order = order
}

// Get retrieves a library by ID.
func (s *LibraryStore) Get(_ context.Context, id string) (*domain.Library, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lib, ok := s.libraries[id]
	if !ok {
		return nil, domain.ErrUnknownLibrary
	}
	return &lib, nil
}

// List returns all configured libraries in configuration order.
func (s *LibraryStore) List(_ context.Context) ([]domain.Library, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Library, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.libraries[id])
	}
	return out, nil
}
