package domain

import "fmt"

// IndexEntry is one candidate match surfaced by the index, prior to
// authorization filtering. The Document may point into the index's
// internal cache; it must never be mutated in place.
type IndexEntry struct {
	// Document is the matched document node.
	Document *Document
}

// Preamble is the header of a result envelope.
type Preamble struct {
	// Tagline is the library tagline, when one is configured.
	Tagline string `json:"tagline,omitempty"`

	// Message is the match-count line for a successful query, or the
	// diagnostic text for a failed one.
	Message string `json:"message"`
}

// Envelope is the query response: a preamble followed by zero or more
// transformed document fragments. Every failure mode degrades to a
// preamble-only envelope carrying a diagnostic, so callers never need a
// separate error branch at the transport level.
type Envelope struct {
	Preamble Preamble    `json:"preamble"`
	Results  []*Document `json:"results,omitempty"`
}

// NewEnvelope builds a successful envelope preamble for the given total
// match count and optional tagline.
func NewEnvelope(tagline string, matches int) *Envelope {
	return &Envelope{
		Preamble: Preamble{
			Tagline: tagline,
			Message: fmt.Sprintf("Total search matches: %d", matches),
		},
	}
}

// DiagnosticEnvelope builds a preamble-only envelope carrying a
// diagnostic message.
func DiagnosticEnvelope(message string) *Envelope {
	return &Envelope{Preamble: Preamble{Message: message}}
}
