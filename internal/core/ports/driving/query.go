package driving

import (
	"context"

	"github.com/custodia-labs/caselib/internal/core/domain"
)

// QueryService answers structured queries against a hosted library.
type QueryService interface {
	// Run evaluates the query for the principal and returns the result
	// envelope. Failures (unknown library, index errors, assembly
	// faults) are reported as diagnostic envelopes, never as errors.
	Run(ctx context.Context, libraryID string, q *domain.Query, p domain.Principal) *domain.Envelope

	// MalformedQuery builds the diagnostic envelope for a payload that
	// failed to parse, including the payload length and a readable
	// snippet for troubleshooting.
	MalformedQuery(err error, payload []byte) *domain.Envelope
}
