package domain

// LibraryMode controls whether unauthenticated requesters may receive
// query candidates from a library.
type LibraryMode string

const (
	// ModeOpen serves candidates to any requester.
	ModeOpen LibraryMode = "open"

	// ModeClosed serves candidates to authenticated requesters only.
	ModeClosed LibraryMode = "closed"
)

// Library is a named document collection hosted by this service.
type Library struct {
	// ID is the library identifier used in references and URLs.
	ID string `json:"id"`

	// Title is the human-readable library name.
	Title string `json:"title,omitempty"`

	// Tagline is an optional line included in result preambles.
	Tagline string `json:"tagline,omitempty"`

	// Mode is open or closed. Anything other than "open" is closed.
	Mode LibraryMode `json:"mode,omitempty"`
}

// IsOpen reports whether the library serves unauthenticated requesters.
func (l *Library) IsOpen() bool {
	return l.Mode == ModeOpen
}
