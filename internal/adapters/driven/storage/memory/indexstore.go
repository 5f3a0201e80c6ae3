package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/caselib/internal/core/domain"
	"github.com/custodia-labs/caselib/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.Index = (*Index)(nil)

// Index is an in-memory implementation of driven.Index. Search returns
// the stored document pointers directly, the same sharing behaviour a
// caching index exhibits, so it doubles as a check that callers respect
// the copy-before-transform rule.
type Index struct {
	mu   sync.RWMutex
	docs map[string][]*domain.Document // keyed by library ID
}

// NewIndex creates a new in-memory index.
func NewIndex() *Index {
	return &Index{docs: make(map[string][]*domain.Document)}
}

// Search returns the candidate entries matching the query predicate.
// A closed library yields no candidates for unauthenticated principals.
func (x *Index) Search(_ context.Context, libraryID string, q *domain.Query, open bool, p domain.Principal) ([]domain.IndexEntry, error) {
	if !open && !p.Authenticated {
		return nil, nil
	}
	x.mu.RLock()
	defer x.mu.RUnlock()

	terms := strings.Fields(strings.ToLower(q.Predicate))
	var entries []domain.IndexEntry
	for _, doc := range x.docs[libraryID] {
		if matches(doc, terms) {
			entries = append(entries, domain.IndexEntry{Document: doc})
		}
	}
	return entries, nil
}

// matches reports whether every predicate term occurs in the document's
// searchable text.
func matches(doc *domain.Document, terms []string) bool {
	if len(terms) == 0 {
		return true
	}
	text := strings.ToLower(strings.Join([]string{
		doc.Title, doc.Abstract, doc.AuthorName, doc.Category, doc.Server,
	}, "\n"))
	for _, term := range terms {
		if !strings.Contains(text, term) {
			return false
		}
	}
	return true
}

// Save stores or replaces a document, keyed by library and path.
func (x *Index) Save(_ context.Context, doc *domain.Document) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	docs := x.docs[doc.LibraryID]
	for i, existing := range docs {
		if existing.Path == doc.Path {
			docs[i] = doc
			return nil
		}
	}
	x.docs[doc.LibraryID] = append(docs, doc)
	return nil
}

// Get retrieves a document by library and path.
func (x *Index) Get(_ context.Context, libraryID, path string) (*domain.Document, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	for _, doc := range x.docs[libraryID] {
		if doc.Path == path {
			return doc, nil
		}
	}
	return nil, domain.ErrNotFound
}

// Delete removes a document by library and path.
func (x *Index) Delete(_ context.Context, libraryID, path string) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	docs := x.docs[libraryID]
	for i, doc := range docs {
		if doc.Path == path {
			x.docs[libraryID] = append(docs[:i], docs[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}
