package service

import "errors"

// Sentinel errors shared across services. Handlers translate these into HTTP
// status codes; anything else that is not wrapped is treated as a business
// rule violation (400) or an internal error depending on the endpoint.
var (
	// ErrNotFound marks a missing record (404).
	ErrNotFound = errors.New("record not found")
	// ErrForbidden marks an access violation for an authenticated caller (403).
	ErrForbidden = errors.New("access denied")
	// ErrConflict marks a uniqueness/state conflict (409).
	ErrConflict = errors.New("conflict")
)
