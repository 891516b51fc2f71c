package storage

import "fmt"

// ValidationError rejects a malformed insert or patch before it reaches the
// store. Handlers surface it as a 400 with the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
