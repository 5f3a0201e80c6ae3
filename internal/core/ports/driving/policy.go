package driving

import "github.com/custodia-labs/caselib/internal/core/domain"

// PolicyService decides whether a principal may act on a document.
// It is consumed by any surrounding access-control checkpoint,
// independent of querying.
type PolicyService interface {
	// Evaluate reports whether the principal is authorized for the
	// action. Internal faults (malformed documents, missing fields)
	// evaluate to deny, never to an error.
	Evaluate(action domain.Action, doc *domain.Document, p domain.Principal) bool

	// IsOwner reports whether the principal is authenticated and listed
	// in the document's owner list.
	IsOwner(doc *domain.Document, p domain.Principal) bool
}
