package planner

import "fmt"

// ValidationError flags a rejected optimize request. The API layer maps it
// to a 400; everything else coming out of Optimize is a server-side failure.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
