// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

// Machine-readable error codes carried alongside the human-readable detail.
const (
	CodeUnauthenticated  = "UNAUTHENTICATED"
	CodeForbidden        = "FORBIDDEN"
	CodeInvalidEntry     = "INVALID_ENTRY"
	CodeMissingParams    = "MISSING_PARAMS"
	CodeCaseNotFound     = "CASE_NOT_FOUND"
	CodeExceedsRemaining = "EXCEEDS_REMAINING"
	CodeServerError      = "SERVER_ERROR"
)

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Code   string `json:"code,omitempty"`
	Detail string `json:"detail"`
	// Remaining is only populated for EXCEEDS_REMAINING so the client can
	// show the user how many lines the case still has.
	Remaining *int `json:"remaining,omitempty"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// WithCode builds an error envelope with a machine-readable code.
func WithCode(code, msg string) *APIError {
	return &APIError{Code: code, Detail: msg}
}

// ExceedsRemaining builds the capacity-violation envelope.
func ExceedsRemaining(msg string, remaining int) *APIError {
	return &APIError{Code: CodeExceedsRemaining, Detail: msg, Remaining: &remaining}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Code   string            `json:"code"`
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Code: CodeInvalidEntry, Detail: "Validation failed", Fields: fields}
}
