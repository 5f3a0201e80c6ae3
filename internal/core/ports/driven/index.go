package driven

import (
	"context"

	"github.com/custodia-labs/caselib/internal/core/domain"
)

// Index is the document index for the hosted libraries. Search returns
// candidate entries matching a query predicate; the read-authorization
// filter is applied by the query service afterwards, regardless of the
// library mode.
//
// Entries returned by Search may share document nodes with the index's
// internal cache. Callers must never mutate them in place; the assembler
// clones every entry it transforms.
type Index interface {
	// Search returns the candidate entries for the query predicate.
	// The open flag is the library mode; its effect is index-internal.
	Search(ctx context.Context, libraryID string, q *domain.Query, open bool, p domain.Principal) ([]domain.IndexEntry, error)

	// Save stores or replaces a document. An empty document ID is
	// assigned by the implementation.
	Save(ctx context.Context, doc *domain.Document) error

	// Get retrieves a document by library and path.
	// Returns domain.ErrNotFound when absent.
	Get(ctx context.Context, libraryID, path string) (*domain.Document, error)

	// Delete removes a document by library and path.
	// Returns domain.ErrNotFound when absent.
	Delete(ctx context.Context, libraryID, path string) error
}

// LibraryStore provides lookup of the configured libraries.
type LibraryStore interface {
	// Get retrieves a library by ID.
	// Returns domain.ErrUnknownLibrary when not configured.
	Get(ctx context.Context, id string) (*domain.Library, error)

	// List returns all configured libraries.
	List(ctx context.Context) ([]domain.Library, error)
}
