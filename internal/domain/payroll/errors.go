package payroll

import "errors"

var (
	ErrEmployeeNotFound      = errors.New("employee not found")
	ErrWorkTypeNotFound      = errors.New("work type not found")
	ErrCompletedWorkNotFound = errors.New("completed work not found")
	ErrEmptySnapshot         = errors.New("snapshot is empty")
)

// ValidationError reports a rejected input field; the operation is not
// performed and no state changes.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid " + e.Field + ": " + e.Reason
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
