package domain

import (
	"regexp"
	"strings"
)

// Action is an operation a principal may request on a document.
type Action string

const (
	// ActionRead is viewing a document.
	ActionRead Action = "read"

	// ActionUpdate is editing a document.
	ActionUpdate Action = "update"

	// ActionExport is downloading a document bundle.
	ActionExport Action = "export"

	// ActionDelete is removing a document. Delete is never configurable
	// in the authorization block; only admins and owners may delete.
	ActionDelete Action = "delete"
)

// listSplitter matches the comma/whitespace delimiters accepted in
// authorization lists.
var listSplitter = regexp.MustCompile(`[,\s]+`)

// ownerSplitter additionally strips square brackets so owner names may be
// written with or without them, matching the role-based lists.
var ownerSplitter = regexp.MustCompile(`[\[\],\s]+`)

// AccessRule is one configured action authorization.
//
// The distinction between a nil *AccessRule (the action element is absent
// from the document) and an empty one (present but listing nobody) is
// significant: an absent rule falls back to the per-action default, while
// an empty rule authorizes nobody.
type AccessRule struct {
	// Tokens are the role names and bracketed usernames in the list.
	Tokens []string `json:"tokens,omitempty"`

	// Wildcard is true when the raw list contained an asterisk,
	// which authorizes everyone without requiring authentication.
	Wildcard bool `json:"wildcard,omitempty"`
}

// ParseAccessRule parses a raw comma/whitespace-delimited role list.
func ParseAccessRule(raw string) *AccessRule {
	rule := &AccessRule{Wildcard: strings.Contains(raw, "*")}
	for _, tok := range listSplitter.Split(strings.TrimSpace(raw), -1) {
		if tok != "" {
			rule.Tokens = append(rule.Tokens, tok)
		}
	}
	return rule
}

// Clone returns an independent copy of the rule.
func (r *AccessRule) Clone() *AccessRule {
	if r == nil {
		return nil
	}
	cp := &AccessRule{Wildcard: r.Wildcard}
	if r.Tokens != nil {
		cp.Tokens = append([]string(nil), r.Tokens...)
	}
	return cp
}

// Authorization is a document's access-control block.
type Authorization struct {
	// Owners lists the usernames with unconditional rights to the document.
	Owners []string `json:"owners,omitempty"`

	// Read, Update and Export are the per-action role lists.
	// A nil rule means the action element is absent from the document.
	Read   *AccessRule `json:"read,omitempty"`
	Update *AccessRule `json:"update,omitempty"`
	Export *AccessRule `json:"export,omitempty"`
}

// ParseOwners parses a raw owner list. Square brackets are filtered so
// usernames may appear either bare or bracketed.
func ParseOwners(raw string) []string {
	var owners []string
	for _, tok := range ownerSplitter.Split(strings.TrimSpace(raw), -1) {
		if tok != "" {
			owners = append(owners, tok)
		}
	}
	return owners
}

// Rule returns the configured rule for an action, or nil when the action
// has no configurable list (delete) or the element is absent.
func (a *Authorization) Rule(action Action) *AccessRule {
	switch action {
	case ActionRead:
		return a.Read
	case ActionUpdate:
		return a.Update
	case ActionExport:
		return a.Export
	default:
		return nil
	}
}

// Document is a structured library document. Fields are optional; the
// empty string means the field is absent from the underlying record.
//
// A Document obtained from an index is potentially shared with the
// index's internal cache and must be treated as read-only. Callers that
// need to rewrite fields must operate on a Clone.
type Document struct {
	// ID is the unique identifier minted at ingest time.
	ID string `json:"id"`

	// LibraryID names the library the document belongs to.
	LibraryID string `json:"libraryId"`

	// Path is the document's relative location within its library.
	Path string `json:"path"`

	// Filename is the raw on-disk name. It is removed from query results,
	// superseded by the computed DocRef.
	Filename string `json:"filename,omitempty"`

	// Title and AlternativeTitle are mutually substitutable for
	// anonymized rendering.
	Title            string `json:"title,omitempty"`
	AlternativeTitle string `json:"alternativeTitle,omitempty"`

	// Abstract and AlternativeAbstract follow the same substitution
	// pattern as the titles.
	Abstract            string `json:"abstract,omitempty"`
	AlternativeAbstract string `json:"alternativeAbstract,omitempty"`

	// Server is the library/collection label used for ordering.
	Server string `json:"server,omitempty"`

	// AuthorName is the document author's display name.
	AuthorName string `json:"authorName,omitempty"`

	// Category is the document's specialty classification.
	Category string `json:"category,omitempty"`

	// PubDate and LMDate are zero-padded ISO date strings, ordered
	// lexicographically.
	PubDate string `json:"pubDate,omitempty"`
	LMDate  string `json:"lmDate,omitempty"`

	// Background and Display are pass-through rendering hints.
	Background string `json:"background,omitempty"`
	Display    string `json:"display,omitempty"`

	// PubRequest is true when a publish request is pending. Publishers
	// may read such documents regardless of the read list.
	PubRequest bool `json:"pubRequest,omitempty"`

	// Authorization is the document's access-control block.
	Authorization Authorization `json:"authorization"`

	// Attachments are raw href/src references to auxiliary files found
	// anywhere in the document subtree. Used only by export bundling.
	Attachments []string `json:"attachments,omitempty"`

	// DocRef is the computed absolute reference for this document. It is
	// only set on response-owned copies produced by the assembler.
	DocRef string `json:"docRef,omitempty"`
}

// Clone returns a deep copy of the document. Every entry destined for
// transformation must be cloned first so the shared index cache is never
// mutated in place.
func (d *Document) Clone() *Document {
	cp := *d
	cp.Authorization = Authorization{
		Read:   d.Authorization.Read.Clone(),
		Update: d.Authorization.Update.Clone(),
		Export: d.Authorization.Export.Clone(),
	}
	if d.Authorization.Owners != nil {
		cp.Authorization.Owners = append([]string(nil), d.Authorization.Owners...)
	}
	if d.Attachments != nil {
		cp.Attachments = append([]string(nil), d.Attachments...)
	}
	return &cp
}

// AttachmentRefs returns the local auxiliary file references for export
// bundling. References that are path-qualified or carry a scheme are the
// responsibility of the remote side and are skipped.
func (d *Document) AttachmentRefs() []string {
	var refs []string
	for _, ref := range d.Attachments {
		if ref == "" || strings.Contains(ref, "/") || strings.Contains(ref, ":") {
			continue
		}
		refs = append(refs, ref)
	}
	return refs
}
