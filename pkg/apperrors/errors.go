package apperrors

import "fmt"

type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.Key)
}

func NewNotFound(resource, keyFormat string, args ...interface{}) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		Key:      fmt.Sprintf(keyFormat, args...),
	}
}

// ConflictError signals that a guarded write lost to a concurrent
// modification and should be retried by the caller.
type ConflictError struct {
	message string
}

func (e *ConflictError) Error() string {
	return e.message
}

func NewConflict(format string, args ...interface{}) *ConflictError {
	return &ConflictError{message: fmt.Sprintf(format, args...)}
}

type UniqueViolationError struct {
	message string
	code    string // PostgreSQL error code (e.g., "23505")
}

func (e *UniqueViolationError) Error() string {
	return fmt.Sprintf("%s (code: %s)", e.message, e.code)
}

type ForeignKeyViolationError struct {
	message string
	code    string // PostgreSQL error code (e.g., "23503")
}

func (f *ForeignKeyViolationError) Error() string {
	return fmt.Sprintf("%s (code: %s)", f.message, f.code)
}

func WrapDBError(message, code string) error {
	switch code {
	case "23505":
		return &UniqueViolationError{
			message: message,
			code:    code,
		}
	case "23503":
		return &ForeignKeyViolationError{
			message: "Value is already used by other resources " + message,
			code:    code,
		}
	default:
		return fmt.Errorf("uncategorized error occurred with code %s: %s", code, message)
	}
}
