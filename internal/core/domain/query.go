package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// OrderKey names the primary sort key for query results.
type OrderKey string

const (
	// OrderByTitle sorts by document title, case-insensitive.
	OrderByTitle OrderKey = "title"

	// OrderByLibrary sorts by the library/collection label.
	OrderByLibrary OrderKey = "library"

	// OrderByAuthor sorts by author name.
	OrderByAuthor OrderKey = "author"

	// OrderBySpecialty sorts by the category classification.
	OrderBySpecialty OrderKey = "specialty"

	// OrderByPubDate sorts by publication date, most recent first.
	OrderByPubDate OrderKey = "pubdate"

	// OrderByLMDate sorts by last-modified date, most recent first.
	// This is the default when no key or an unrecognized key is given.
	OrderByLMDate OrderKey = "lmdate"
)

// ParseOrderKey maps a raw key name onto the enumeration, defaulting to
// last-modified descending for unrecognized names.
func ParseOrderKey(raw string) OrderKey {
	switch OrderKey(strings.ToLower(strings.TrimSpace(raw))) {
	case OrderByTitle:
		return OrderByTitle
	case OrderByLibrary:
		return OrderByLibrary
	case OrderByAuthor:
		return OrderByAuthor
	case OrderBySpecialty:
		return OrderBySpecialty
	case OrderByPubDate:
		return OrderByPubDate
	default:
		return OrderByLMDate
	}
}

// Query is a structured query against one library. The Predicate is
// opaque to the core; its matching semantics belong to the index.
type Query struct {
	// Predicate is the free-text match expression passed to the index.
	Predicate string `json:"predicate"`

	// OrderBy selects the primary sort key.
	OrderBy OrderKey `json:"orderBy,omitempty"`

	// FirstResult is the 1-based index of the first result to return.
	FirstResult int `json:"firstResult,omitempty"`

	// MaxResults is the page size.
	MaxResults int `json:"maxResults,omitempty"`

	// Unknown requests anonymized rendering of each result.
	Unknown bool `json:"unknown,omitempty"`

	// BGColor, Display and Icons are pass-through rendering hints copied
	// into each result's computed reference.
	BGColor string `json:"bgcolor,omitempty"`
	Display string `json:"display,omitempty"`
	Icons   string `json:"icons,omitempty"`
}

// Normalize clamps the paging parameters and canonicalizes the order key.
// A FirstResult or MaxResults below 1 is raised to 1.
func (q *Query) Normalize() {
	if q.FirstResult < 1 {
		q.FirstResult = 1
	}
	if q.MaxResults < 1 {
		q.MaxResults = 1
	}
	q.OrderBy = ParseOrderKey(string(q.OrderBy))
}

// ParseQuery decodes a raw query payload. A malformed payload is an
// ErrInvalidQuery; callers surface it as a diagnostic envelope rather
// than an error response.
func ParseQuery(payload []byte) (*Query, error) {
	var q Query
	if err := json.Unmarshal(payload, &q); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	q.Normalize()
	return &q, nil
}
