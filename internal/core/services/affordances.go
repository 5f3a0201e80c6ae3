package services

import (
	"github.com/custodia-labs/caselib/internal/core/domain"
	"github.com/custodia-labs/caselib/internal/core/ports/driving"
)

// Affordances are the action-specific links attached to a single-document
// browsing view. A URL is empty when the principal is not authorized for
// the corresponding action.
type Affordances struct {
	EditURL        string `json:"editUrl,omitempty"`
	AddImageURL    string `json:"addImageUrl,omitempty"`
	SortURL        string `json:"sortUrl,omitempty"`
	PublishURL     string `json:"publishUrl,omitempty"`
	DeleteURL      string `json:"deleteUrl,omitempty"`
	ExportURL      string `json:"exportUrl,omitempty"`
	FileCabinetURL string `json:"fileCabinetUrl,omitempty"`

	IsOwner       bool `json:"isOwner"`
	IsAdmin       bool `json:"isAdmin"`
	Authenticated bool `json:"authenticated"`
}

// BuildAffordances computes the per-principal action links for a
// document view, consulting the policy evaluator for each action.
func BuildAffordances(policy driving.PolicyService, lib *domain.Library, doc *domain.Document, p domain.Principal) Affordances {
	entry := lib.ID + "/" + doc.Path
	a := Affordances{
		IsOwner:       policy.IsOwner(doc, p),
		IsAdmin:       p.HasRole(RoleAdmin),
		Authenticated: p.Authenticated,
	}
	if policy.Evaluate(domain.ActionUpdate, doc, p) {
		a.EditURL = "/edit/" + entry
		a.AddImageURL = "/addimg/" + entry
		a.SortURL = "/sort/" + entry
		if p.HasRole(RolePublisher) {
			a.PublishURL = "/publish/" + entry
		}
	}
	if policy.Evaluate(domain.ActionDelete, doc, p) {
		a.DeleteURL = "/libraries/" + entry + "/delete"
	}
	if policy.Evaluate(domain.ActionExport, doc, p) {
		a.ExportURL = "/libraries/" + entry + "?zip"
		if p.Authenticated {
			a.FileCabinetURL = "/files/save/" + entry
		}
	}
	return a
}
