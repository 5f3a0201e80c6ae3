package services

import (
	"strings"

	"github.com/custodia-labs/caselib/internal/core/domain"
	"github.com/custodia-labs/caselib/internal/core/ports/driving"
)

// Ensure PolicyService implements the interface.
var _ driving.PolicyService = (*PolicyService)(nil)

// RoleAdmin may take any action on any document.
const RoleAdmin = "admin"

// RolePublisher may read documents with a pending publish request.
const RolePublisher = "publisher"

// PolicyService evaluates per-document access policy. It is a pure
// function of its inputs and safe for concurrent use.
type PolicyService struct{}

// NewPolicyService creates a new policy service.
func NewPolicyService() *PolicyService {
	return &PolicyService{}
}

// Evaluate reports whether the principal is authorized for the action.
//
// The checks short-circuit in a fixed order: admin, owner, the
// delete-has-no-policy rule, the publisher read exception for pending
// publish requests, the absent-list defaults, and finally the configured
// role list. Any fault along the way evaluates to deny.
func (s *PolicyService) Evaluate(action domain.Action, doc *domain.Document, p domain.Principal) bool {
	// Fail-safe default: a malformed or missing document denies.
	if doc == nil {
		return false
	}

	// The admin user is allowed to do anything.
	if p.HasRole(RoleAdmin) {
		return true
	}

	// The owner is authorized to do anything.
	if s.IsOwner(doc, p) {
		return true
	}

	// For the delete action, only the owner or admin is ever authorized.
	if action == domain.ActionDelete {
		return false
	}

	// Read has a special case: if the document has a pending publish
	// request and the principal is a publisher, the read is allowed.
	if action == domain.ActionRead && doc.PubRequest && p.HasRole(RolePublisher) {
		return true
	}

	// If the action authorization is absent from the document, read and
	// export are authorized for everyone, but update is not.
	rule := doc.Authorization.Rule(action)
	if rule == nil {
		return action != domain.ActionUpdate
	}

	// An empty list authorizes nobody.
	if len(rule.Tokens) == 0 && !rule.Wildcard {
		return false
	}

	// A wildcard authorizes everybody, no authentication required.
	if rule.Wildcard {
		return true
	}

	// Anything else requires an authenticated principal.
	if !p.Authenticated {
		return false
	}

	// Check the list entries individually. A bracketed token is a
	// specific username; anything else is a role name.
	for _, tok := range rule.Tokens {
		if strings.HasPrefix(tok, "[") && strings.HasSuffix(tok, "]") {
			name := strings.TrimSpace(tok[1 : len(tok)-1])
			if name == p.Username {
				return true
			}
		} else if p.HasRole(tok) {
			return true
		}
	}
	return false
}

// IsOwner reports whether the principal is authenticated and listed in
// the document's owner list.
func (s *PolicyService) IsOwner(doc *domain.Document, p domain.Principal) bool {
	if doc == nil || !p.Authenticated || p.Username == "" {
		return false
	}
	for _, owner := range doc.Authorization.Owners {
		if owner == p.Username {
			return true
		}
	}
	return false
}
