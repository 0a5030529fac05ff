package apperrors

import "errors"

// Error classes shared by every backend and action handler
var (
	// ErrServiceUnavailable means the external data service could not be
	// reached or is misconfigured. Never shown to users verbatim.
	ErrServiceUnavailable = errors.New("external service unavailable")

	// ErrValidationFailed marks input rejected before any external call.
	ErrValidationFailed = errors.New("validation failed")

	// ErrUnauthorized means no authenticated caller is attached to the request.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidCredentials is returned by sign-in when the identity service
	// rejects the email/password pair.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrIdentityRejected is returned by sign-up when the identity service
	// refuses to create the account (duplicate email, weak password, ...).
	ErrIdentityRejected = errors.New("identity rejected")

	// ErrStorage marks a rejected write or read against the relational store.
	ErrStorage = errors.New("storage failure")

	// ErrNotFound marks a missing row.
	ErrNotFound = errors.New("resource not found")

	// ErrConflict marks a uniqueness violation.
	ErrConflict = errors.New("conflict")

	// ErrTokenInvalid marks an access token that failed verification.
	ErrTokenInvalid = errors.New("invalid token")

	// ErrTokenExpired marks an access token past its expiry.
	ErrTokenExpired = errors.New("token expired")
)

// Generic user-facing messages
const (
	MsgTryAgainLater = "Something went wrong. Please try again later."
	MsgUnauthorized  = "Unauthorized. Please log in again."
)

// CustomError represents an application error carrying the message reported
// by the external service.
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithCode adds the service's error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// Unavailable wraps a transport or configuration failure.
func Unavailable(cause error) error {
	return &CustomError{Err: ErrServiceUnavailable, Message: MsgTryAgainLater, Details: map[string]interface{}{"cause": errString(cause)}}
}

// Message returns the service-provided message for err, or fallback when
// err carries none. Unavailability always yields the generic message.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrServiceUnavailable) {
		return MsgTryAgainLater
	}
	var ce *CustomError
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message
	}
	return fallback
}

// Is returns whether err matches target or any of errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}
	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
