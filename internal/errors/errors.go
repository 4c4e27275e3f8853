package errors

import "fmt"

// Error codes
const (
	ErrCodeAccessDenied        = "ACCESS_DENIED"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeConstraintViolation = "CONSTRAINT_VIOLATION"
	ErrCodeValidation          = "VALIDATION_ERROR"
	ErrCodeBadRequest          = "BAD_REQUEST"
	ErrCodeTransportFailure    = "TRANSPORT_FAILURE"
	ErrCodeInternal            = "INTERNAL_ERROR"
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	Code    string // Error code (e.g., "NOT_FOUND", "ACCESS_DENIED")
	Message string // Human-readable error message
	Status  int    // HTTP status code
	Err     error  // Wrapped underlying error (optional)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *AppError) Unwrap() error {
	return e.Err
}

// IsCode reports whether err is an AppError carrying the given code.
func IsCode(err error, code string) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Code == code
}

// NewAccessDeniedError creates a new ACCESS_DENIED error
func NewAccessDeniedError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeAccessDenied,
		Message: message,
		Status:  403,
	}
}

// NewUnauthenticatedError creates an ACCESS_DENIED error for requests
// carrying no usable identity at all.
func NewUnauthenticatedError() *AppError {
	return &AppError{
		Code:    ErrCodeAccessDenied,
		Message: "authentication required",
		Status:  401,
	}
}

// NewNotFoundError creates a new NOT_FOUND error
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Status:  404,
	}
}

// NewConstraintViolationError creates a new CONSTRAINT_VIOLATION error
func NewConstraintViolationError(message string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeConstraintViolation,
		Message: message,
		Status:  409,
		Err:     err,
	}
}

// NewValidationError creates a new VALIDATION_ERROR
func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
		Status:  400,
	}
}

// NewBadRequestError creates a new BAD_REQUEST error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  400,
	}
}

// NewTransportFailureError creates a new TRANSPORT_FAILURE error for an
// unreachable data store. Recovery and backoff belong to the caller.
func NewTransportFailureError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeTransportFailure,
		Message: "data store unreachable",
		Status:  502,
		Err:     err,
	}
}

// NewInternalError creates a new INTERNAL_ERROR
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal server error",
		Status:  500,
		Err:     err,
	}
}
