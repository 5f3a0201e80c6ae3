// Package domain defines the core business entities for caselib.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A structured library document with its authorization block
//   - Principal: The authenticated or anonymous requester identity
//   - Query: A structured query with ordering and paging parameters
//   - Library: A named document collection with an open or closed mode
//   - Envelope: The query response (preamble plus transformed results)
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
