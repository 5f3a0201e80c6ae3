package domain

// Principal identifies the requester a policy decision is made for.
// It is materialized by the surrounding authentication layer before the
// core runs and is immutable for the duration of a request.
type Principal struct {
	// Username is empty for unauthenticated requesters.
	Username string `json:"username,omitempty"`

	// Authenticated is true when the requester presented valid credentials.
	Authenticated bool `json:"authenticated"`

	// Roles are the role names granted to the requester, e.g. "admin"
	// or "publisher".
	Roles []string `json:"roles,omitempty"`
}

// Anonymous returns the unauthenticated principal.
func Anonymous() Principal {
	return Principal{}
}

// HasRole reports whether the principal holds the named role.
// Unauthenticated principals hold no roles.
func (p Principal) HasRole(role string) bool {
	if !p.Authenticated {
		return false
	}
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}
