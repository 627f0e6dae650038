package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into domain errors:
//   - ErrNotFound: no record for the key
//   - ErrExpired: the record existed but its lifetime has passed
//   - ErrUnavailable: the backing store could not be reached
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound    = errors.New("not found")
	ErrExpired     = errors.New("expired")
	ErrUnavailable = errors.New("unavailable")
)
