package store

import "errors"

// Sentinel errors surfaced by repository operations. Callers branch with
// errors.Is; the messages wrapped around them carry the detail.
var (
	// ErrNotFound marks references to a nonexistent record.
	ErrNotFound = errors.New("record not found")
	// ErrValidation marks writes that violate a field constraint.
	ErrValidation = errors.New("validation failed")
	// ErrStorage marks an unreachable or corrupt underlying store.
	ErrStorage = errors.New("storage failure")
	// ErrRestoreIntegrity marks snapshots that fail structural validation.
	ErrRestoreIntegrity = errors.New("snapshot integrity check failed")
)
