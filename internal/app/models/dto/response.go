package dto

import "github.com/yigit/consultdesk/internal/pkg/validation"

// ActionResult is the uniform outcome of every action handler
type ActionResult[T any] struct {
	Error       string                 `json:"error,omitempty"`
	FieldErrors validation.FieldErrors `json:"fieldErrors,omitempty"`
	Data        *T                     `json:"data,omitempty"`
	Redirect    string                 `json:"redirect,omitempty"`

	// Unauthorized marks the result as the unauthorized class for transports
	Unauthorized bool `json:"-"`
}

// Empty is the payload of results that carry no data
type Empty struct{}

// OK wraps data in a successful result
func OK[T any](data *T) ActionResult[T] {
	return ActionResult[T]{Data: data}
}

// RedirectTo is a successful result that asks the view to navigate
func RedirectTo[T any](path string, data *T) ActionResult[T] {
	return ActionResult[T]{Redirect: path, Data: data}
}

// Failed is a result carrying a single user-facing message
func Failed[T any](message string) ActionResult[T] {
	return ActionResult[T]{Error: message}
}

// Invalid is a result carrying per-field validation messages
func Invalid[T any](fieldErrors validation.FieldErrors) ActionResult[T] {
	return ActionResult[T]{FieldErrors: fieldErrors}
}

// Denied is the unauthorized result
func Denied[T any](message string) ActionResult[T] {
	return ActionResult[T]{Error: message, Unauthorized: true}
}

// Succeeded reports whether the result carries no error of any kind
func (r ActionResult[T]) Succeeded() bool {
	return r.Error == "" && len(r.FieldErrors) == 0
}

// ErrorResponse is the body of plain HTTP errors
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse is the body of plain HTTP successes
type SuccessResponse struct {
	Success bool `json:"success"`
}
