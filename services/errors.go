package services

import "errors"

// ErrorKind is the explicit error category the HTTP layer maps to a status
// code. Handlers must never sniff message strings.
type ErrorKind string

const (
	KindValidation ErrorKind = "VALIDATION"
	KindNotFound   ErrorKind = "NOT_FOUND"
	KindConflict   ErrorKind = "CONFLICT"
	KindInternal   ErrorKind = "INTERNAL"
)

// ServiceError is a business-rule failure with a human-readable message.
// Validation, not-found and conflict errors are expected outcomes;
// KindInternal wraps infrastructure faults.
type ServiceError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error { return e.Err }

func ErrValidation(msg string) *ServiceError {
	return &ServiceError{Kind: KindValidation, Message: msg}
}

func ErrNotFound(msg string) *ServiceError {
	return &ServiceError{Kind: KindNotFound, Message: msg}
}

func ErrConflict(msg string) *ServiceError {
	return &ServiceError{Kind: KindConflict, Message: msg}
}

func ErrInternal(msg string, err error) *ServiceError {
	return &ServiceError{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf classifies any error; non-ServiceError values count as internal.
func KindOf(err error) ErrorKind {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}

// MessageOf returns the business message, or a generic one for
// infrastructure faults so internals never leak to clients.
func MessageOf(err error) string {
	var se *ServiceError
	if errors.As(err, &se) && se.Kind != KindInternal {
		return se.Message
	}
	return "internal server error"
}
