package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/caselib/internal/core/domain"
)

// fakeIndex is a minimal driven.Index for executor tests. It returns
// the stored document pointers directly, matching the sharing behaviour
// of a caching index.
type fakeIndex struct {
	docs []*domain.Document
	err  error
}

func (f *fakeIndex) Search(_ context.Context, libraryID string, _ *domain.Query, _ bool, _ domain.Principal) ([]domain.IndexEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.IndexEntry
	for _, d := range f.docs {
		if d.LibraryID == libraryID {
			out = append(out, domain.IndexEntry{Document: d})
		}
	}
	return out, nil
}

func (f *fakeIndex) Save(_ context.Context, doc *domain.Document) error {
	f.docs = append(f.docs, doc)
	return nil
}

func (f *fakeIndex) Get(_ context.Context, libraryID, path string) (*domain.Document, error) {
	for _, d := range f.docs {
		if d.LibraryID == libraryID && d.Path == path {
			return d, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeIndex) Delete(_ context.Context, _, _ string) error { return nil }

// fakeLibraries is a minimal driven.LibraryStore.
type fakeLibraries struct {
	libs map[string]domain.Library
}

func (f *fakeLibraries) Get(_ context.Context, id string) (*domain.Library, error) {
	lib, ok := f.libs[id]
	if !ok {
		return nil, domain.ErrUnknownLibrary
	}
	return &lib, nil
}

func (f *fakeLibraries) List(_ context.Context) ([]domain.Library, error) {
	var out []domain.Library
	for _, lib := range f.libs {
		out = append(out, lib)
	}
	return out, nil
}

const testBase = "https://caselib.example.org/libraries/"

func newTestService(docs ...*domain.Document) (*QueryService, *fakeIndex) {
	idx := &fakeIndex{docs: docs}
	libs := &fakeLibraries{libs: map[string]domain.Library{
		"teaching": {ID: "teaching", Title: "Teaching Files", Tagline: "Cases for residents", Mode: domain.ModeOpen},
	}}
	return NewQueryService(idx, libs, NewPolicyService(), testBase), idx
}

func openDoc(id, path, title, lmdate string) *domain.Document {
	return &domain.Document{
		ID:        id,
		LibraryID: "teaching",
		Path:      path,
		Title:     title,
		LMDate:    lmdate,
	}
}

func TestQueryService_Run_UnknownLibrary(t *testing.T) {
	svc, _ := newTestService()
	env := svc.Run(context.Background(), "nosuch", &domain.Query{}, domain.Anonymous())
	require.NotNil(t, env)
	assert.Empty(t, env.Results)
	assert.Equal(t, "Unknown index: nosuch", env.Preamble.Message)
}

func TestQueryService_Run_IndexErrorIsDiagnostic(t *testing.T) {
	svc, idx := newTestService()
	idx.err = errors.New("disk on fire")
	env := svc.Run(context.Background(), "teaching", &domain.Query{}, domain.Anonymous())
	assert.Empty(t, env.Results)
	assert.Contains(t, env.Preamble.Message, "disk on fire")
}

func TestQueryService_Run_PreambleAndTagline(t *testing.T) {
	svc, _ := newTestService(
		openDoc("1", "docs/a", "A", "2024-01-01"),
		openDoc("2", "docs/b", "B", "2024-01-02"),
	)
	env := svc.Run(context.Background(), "teaching", &domain.Query{MaxResults: 10}, domain.Anonymous())
	assert.Equal(t, "Cases for residents", env.Preamble.Tagline)
	assert.Equal(t, "Total search matches: 2", env.Preamble.Message)
	assert.Len(t, env.Results, 2)
}

func TestQueryService_Run_FiltersUnreadable(t *testing.T) {
	restricted := openDoc("1", "docs/secret", "Secret", "2024-01-01")
	restricted.Authorization.Read = domain.ParseAccessRule("faculty")
	svc, _ := newTestService(
		restricted,
		openDoc("2", "docs/open", "Open", "2024-01-02"),
	)

	env := svc.Run(context.Background(), "teaching", &domain.Query{MaxResults: 10}, domain.Anonymous())
	require.Len(t, env.Results, 1)
	assert.Equal(t, "Open", env.Results[0].Title)
	// The preamble counts filtered matches, not raw candidates.
	assert.Equal(t, "Total search matches: 1", env.Preamble.Message)
}

func TestQueryService_Run_PaginationWindow(t *testing.T) {
	svc, _ := newTestService(
		openDoc("1", "docs/a", "A", "2024-01-05"),
		openDoc("2", "docs/b", "B", "2024-01-04"),
		openDoc("3", "docs/c", "C", "2024-01-03"),
		openDoc("4", "docs/d", "D", "2024-01-02"),
	)
	env := svc.Run(context.Background(), "teaching",
		&domain.Query{FirstResult: 2, MaxResults: 2}, domain.Anonymous())
	require.Len(t, env.Results, 2)
	assert.Equal(t, "B", env.Results[0].Title)
	assert.Equal(t, "C", env.Results[1].Title)
	assert.Equal(t, "Total search matches: 4", env.Preamble.Message)
}

func TestQueryService_Run_WindowPastEndIsEmptyPage(t *testing.T) {
	svc, _ := newTestService(
		openDoc("1", "docs/a", "A", "2024-01-01"),
		openDoc("2", "docs/b", "B", "2024-01-02"),
		openDoc("3", "docs/c", "C", "2024-01-03"),
	)
	env := svc.Run(context.Background(), "teaching",
		&domain.Query{FirstResult: 5, MaxResults: 10}, domain.Anonymous())
	assert.Empty(t, env.Results)
	assert.Equal(t, "Total search matches: 3", env.Preamble.Message)
}

func TestQueryService_Run_FirstResultClampedToOne(t *testing.T) {
	svc, _ := newTestService(openDoc("1", "docs/a", "A", "2024-01-01"))
	env := svc.Run(context.Background(), "teaching",
		&domain.Query{FirstResult: 0, MaxResults: 10}, domain.Anonymous())
	require.Len(t, env.Results, 1)
	assert.Equal(t, "A", env.Results[0].Title)
}

func TestQueryService_Run_DoesNotMutateIndexDocuments(t *testing.T) {
	doc := openDoc("1", "docs/a", "Pneumothorax", "2024-01-01")
	doc.Filename = "a.json"
	doc.AlternativeTitle = "Chest case"
	svc, _ := newTestService(doc)

	env := svc.Run(context.Background(), "teaching",
		&domain.Query{MaxResults: 10, Unknown: true}, domain.Anonymous())
	require.Len(t, env.Results, 1)

	// The response copy is rewritten...
	assert.Equal(t, "Chest case", env.Results[0].Title)
	assert.Empty(t, env.Results[0].Filename)
	// ...while the shared index document is untouched.
	assert.Equal(t, "Pneumothorax", doc.Title)
	assert.Equal(t, "a.json", doc.Filename)
	assert.Equal(t, "Chest case", doc.AlternativeTitle)
	assert.Empty(t, doc.DocRef)
}

func TestQueryService_Run_ConcurrentQueriesAreIndependent(t *testing.T) {
	doc := openDoc("1", "docs/a", "Pneumothorax", "2024-01-01")
	doc.Category = "Radiology"
	svc, _ := newTestService(doc)

	const iterations = 50
	var wg sync.WaitGroup
	wg.Add(2)

	var plain, anonymized []*domain.Envelope
	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			plain = append(plain, svc.Run(context.Background(), "teaching",
				&domain.Query{MaxResults: 10}, domain.Anonymous()))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			anonymized = append(anonymized, svc.Run(context.Background(), "teaching",
				&domain.Query{MaxResults: 10, Unknown: true}, domain.Anonymous()))
		}
	}()
	wg.Wait()

	for _, env := range plain {
		require.Len(t, env.Results, 1)
		assert.Equal(t, "Pneumothorax", env.Results[0].Title)
	}
	for _, env := range anonymized {
		require.Len(t, env.Results, 1)
		assert.Equal(t, "Unknown - Radiology", env.Results[0].Title)
	}
}

func TestQueryService_MalformedQuery_IncludesLengthAndSnippet(t *testing.T) {
	svc, _ := newTestService()
	payload := []byte(`{"predicate": "chest"`)
	env := svc.MalformedQuery(errors.New("unexpected end of JSON input"), payload)
	assert.Empty(t, env.Results)
	assert.Contains(t, env.Preamble.Message, "unexpected end of JSON input")
	assert.Contains(t, env.Preamble.Message, "payload length: 21")
	assert.Contains(t, env.Preamble.Message, `{"predicate": "chest"`)
}

func TestQueryService_MalformedQuery_SanitizesControlBytes(t *testing.T) {
	svc, _ := newTestService()
	env := svc.MalformedQuery(errors.New("bad payload"), []byte("a\x00b\nc"))
	assert.NotContains(t, env.Preamble.Message, "\x00")
}
