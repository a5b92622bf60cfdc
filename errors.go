package pint

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors for request binding.
var (
	ErrBindPath   = errors.New("bind path")
	ErrBindQuery  = errors.New("bind query")
	ErrBindHeader = errors.New("bind header")
	ErrBindCookie = errors.New("bind cookie")
	ErrBindBody   = errors.New("bind body")
)

// StatusCoder is implemented by errors or responses that carry an HTTP status code.
type StatusCoder interface {
	StatusCode() int
}

// ErrorResponse is the structured error payload written for every failed
// request. Validation failures carry one entry per schema violation.
type ErrorResponse struct {
	Message string        `json:"message"`
	Errors  []ErrorDetail `json:"errors,omitempty"`
}

// ErrorDetail describes a single violation within a failed request.
type ErrorDetail struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// HTTPError is an error with an HTTP status code.
type HTTPError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// Error returns the error message.
func (e *HTTPError) Error() string { return e.Message }

// StatusCode returns the HTTP status code.
func (e *HTTPError) StatusCode() int { return e.Status }

// Error returns an error with the given HTTP status code and message.
func Error(status int, message string) error {
	return &HTTPError{Status: status, Message: message}
}

// Errorf returns a formatted error with the given HTTP status code.
func Errorf(status int, format string, args ...any) error {
	return &HTTPError{Status: status, Message: fmt.Sprintf(format, args...)}
}

// ErrorStatus extracts the HTTP status code from an error. Returns
// http.StatusInternalServerError if the error does not implement StatusCoder.
func ErrorStatus(err error) int {
	var sc StatusCoder
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}
	return http.StatusInternalServerError
}

// SchemaError reports a schema that could not be compiled: a malformed
// inline fragment, an unresolvable external reference, or a reference
// cycle. It is fatal at setup time.
type SchemaError struct {
	Name string // validator name, if known
	Err  error
}

// Error returns the error message.
func (e *SchemaError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("schema %q: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("schema: %v", e.Err)
}

// Unwrap returns the underlying compilation or resolution error.
func (e *SchemaError) Unwrap() error { return e.Err }

// ReferenceError reports a component reference that does not exist in the
// base schema document. It is fatal at setup time.
type ReferenceError struct {
	Ref string // the reference path, e.g. "#/components/schemas/User"
}

// Error returns the error message.
func (e *ReferenceError) Error() string {
	return fmt.Sprintf("unresolved reference %q in base schema document", e.Ref)
}

// ConfigurationError reports a reference validator requested on a router
// with no base schema document configured. It is fatal at setup time.
type ConfigurationError struct {
	Msg string
}

// Error returns the error message.
func (e *ConfigurationError) Error() string { return e.Msg }

// LookupError reports a Validator lookup for a name that was never
// registered. It is a programmer error, fatal at setup time.
type LookupError struct {
	Name string
}

// Error returns the error message.
func (e *LookupError) Error() string {
	return fmt.Sprintf("no validator registered under %q", e.Name)
}

// UnsupportedMediaTypeError rejects a request whose Content-Type matches
// none of the route's declared expectations. Maps to HTTP 415.
type UnsupportedMediaTypeError struct {
	ContentType string
	Accepted    []string
}

// Error returns the error message.
func (e *UnsupportedMediaTypeError) Error() string {
	ct := e.ContentType
	if ct == "" {
		ct = "<none>"
	}
	return fmt.Sprintf("unsupported media type %s, expected one of: %s", ct, strings.Join(e.Accepted, ", "))
}

// StatusCode returns http.StatusUnsupportedMediaType.
func (e *UnsupportedMediaTypeError) StatusCode() int { return http.StatusUnsupportedMediaType }

// MalformedJSONError rejects a request whose body could not be parsed as
// JSON for a JSON expectation. Maps to HTTP 400.
type MalformedJSONError struct {
	Err error
}

// Error returns the error message.
func (e *MalformedJSONError) Error() string {
	return fmt.Sprintf("request body is not valid json: %v", e.Err)
}

// Unwrap returns the underlying parse error.
func (e *MalformedJSONError) Unwrap() error { return e.Err }

// StatusCode returns http.StatusBadRequest.
func (e *MalformedJSONError) StatusCode() int { return http.StatusBadRequest }

// ValidationError rejects a request whose parsed body failed schema
// validation. Violations carry the JSON pointer of the offending location.
// Maps to HTTP 400.
type ValidationError struct {
	Violations []Violation
}

// Violation is a single schema violation within a request body.
type Violation struct {
	Path    string `json:"path"`    // JSON pointer into the instance, e.g. "/baz"
	Message string `json:"message"`
}

// Error returns a summary of the first violation.
func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "request body failed validation"
	}
	v := e.Violations[0]
	if v.Path == "" {
		return fmt.Sprintf("request body failed validation: %s", v.Message)
	}
	return fmt.Sprintf("request body failed validation: %s: %s", v.Path, v.Message)
}

// StatusCode returns http.StatusBadRequest.
func (e *ValidationError) StatusCode() int { return http.StatusBadRequest }

// errorDetails converts an error into ErrorDetail entries for the response payload.
func errorDetails(err error) []ErrorDetail {
	var ve *ValidationError
	if !errors.As(err, &ve) {
		return nil
	}
	details := make([]ErrorDetail, len(ve.Violations))
	for i, v := range ve.Violations {
		details[i] = ErrorDetail{Path: v.Path, Message: v.Message}
	}
	return details
}
