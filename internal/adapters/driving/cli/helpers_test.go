package cli

import (
	"context"

	configfile "github.com/custodia-labs/caselib/internal/adapters/driven/config/file"
	"github.com/custodia-labs/caselib/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/caselib/internal/core/domain"
	"github.com/custodia-labs/caselib/internal/core/services"
)

// setupTestServices wires the package-level services against in-memory
// fakes so command tests never touch the real config or SQLite store.
// initServices sees queryService set and leaves the wiring alone.
func setupTestServices(docs ...*domain.Document) func() {
	idx := memory.NewIndex()
	for _, doc := range docs {
		_ = idx.Save(context.Background(), doc)
	}

	cfg = &configfile.Config{
		Listen:      ":8330",
		BaseAddress: "https://caselib.example.org/libraries/",
	}
	index = idx
	libraryStore = memory.NewLibraryStore(
		domain.Library{ID: "teaching", Title: "Teaching Files", Tagline: "Cases for residents", Mode: domain.ModeOpen},
	)
	policy = services.NewPolicyService()
	queryService = services.NewQueryService(index, libraryStore, policy, cfg.BaseAddress)
	closeIndex = nil

	return func() {
		cfg = nil
		index = nil
		libraryStore = nil
		policy = nil
		queryService = nil
		closeIndex = nil
	}
}
