package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/caselib/internal/core/domain"
	"github.com/custodia-labs/caselib/internal/core/ports/driven"
	"github.com/custodia-labs/caselib/internal/core/ports/driving"
	"github.com/custodia-labs/caselib/internal/logger"
)

// Ensure QueryService implements the interface.
var _ driving.QueryService = (*QueryService)(nil)

// QueryService executes structured queries: it asks the index for
// candidates, filters them by read authorization, orders and paginates
// the survivors, and assembles the redacted result envelope.
type QueryService struct {
	index       driven.Index
	libraries   driven.LibraryStore
	policy      driving.PolicyService
	baseAddress string
}

// NewQueryService creates a new query service. baseAddress is the
// externally reachable address document references are built from,
// e.g. "https://caselib.example.org/libraries/".
func NewQueryService(index driven.Index, libraries driven.LibraryStore, policy driving.PolicyService, baseAddress string) *QueryService {
	return &QueryService{
		index:       index,
		libraries:   libraries,
		policy:      policy,
		baseAddress: baseAddress,
	}
}

// Run evaluates the query for the principal. Every failure mode
// degrades to a diagnostic envelope; Run never returns an error and
// never panics across the port boundary.
func (s *QueryService) Run(ctx context.Context, libraryID string, q *domain.Query, p domain.Principal) *domain.Envelope {
	logger.Section("Query Execution")
	logger.Debug("Library: %s, principal: %q (authenticated=%t)", libraryID, p.Username, p.Authenticated)

	lib, err := s.libraries.Get(ctx, libraryID)
	if err != nil {
		logger.Warn("Unknown library %q: %v", libraryID, err)
		return domain.DiagnosticEnvelope("Unknown index: " + libraryID)
	}

	if q == nil {
		return domain.DiagnosticEnvelope("Missing query")
	}
	q.Normalize()
	logger.Debug("Predicate: %q, orderBy: %s, firstResult: %d, maxResults: %d",
		q.Predicate, q.OrderBy, q.FirstResult, q.MaxResults)

	// The open/closed mode is passed through to the index; its effect is
	// index-internal. The read filter below applies regardless.
	candidates, err := s.index.Search(ctx, libraryID, q, lib.IsOpen(), p)
	if err != nil {
		logger.Warn("Index search failed: %v", err)
		return domain.DiagnosticEnvelope("Unable to search the index: " + err.Error())
	}
	logger.Debug("Candidates: %d", len(candidates))

	readable := candidates[:0:0]
	for _, entry := range candidates {
		if s.policy.Evaluate(domain.ActionRead, entry.Document, p) {
			readable = append(readable, entry)
		}
	}
	logger.Debug("After read filter: %d", len(readable))

	SortEntries(readable, q.OrderBy)

	env := domain.NewEnvelope(lib.Tagline, len(readable))
	begin := q.FirstResult - 1
	end := begin + q.MaxResults
	for i := begin; i < end && i < len(readable); i++ {
		env.Results = append(env.Results, s.assembleResult(lib, q, readable[i]))
	}
	logger.Info("Returning %d of %d matches", len(env.Results), len(readable))
	return env
}

// MalformedQuery builds the diagnostic envelope for a payload that
// failed to parse. The payload length and a readable snippet are
// included for troubleshooting.
func (s *QueryService) MalformedQuery(err error, payload []byte) *domain.Envelope {
	return domain.DiagnosticEnvelope(fmt.Sprintf(
		"Error parsing the query: %v; payload length: %d; payload: %s",
		err, len(payload), readableSnippet(payload)))
}

// snippetLimit bounds how much of a malformed payload is echoed back.
const snippetLimit = 200

// readableSnippet renders the leading bytes of a payload as printable
// text so a diagnostic envelope stays safe to display.
func readableSnippet(payload []byte) string {
	out := make([]rune, 0, snippetLimit)
	for _, r := range string(payload) {
		if len(out) >= snippetLimit {
			out = append(out, '…')
			break
		}
		if r < ' ' || r == 0x7f {
			r = ' '
		}
		out = append(out, r)
	}
	return string(out)
}
