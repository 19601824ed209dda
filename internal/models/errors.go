package models

import "fmt"

// ValidationError represents a profile or generation config validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// UnsupportedTypeError marks a sample whose type name is outside the known
// families. Imports skip these and keep going.
type UnsupportedTypeError struct {
	TypeName string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported sample type %q", e.TypeName)
}

// ConstructionError marks a recognized sample that is missing a required
// field. One bad record never aborts a batch; callers count these and move on.
type ConstructionError struct {
	TypeName string
	Field    string
	Message  string
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("cannot construct %s: %s %s", e.TypeName, e.Field, e.Message)
}
