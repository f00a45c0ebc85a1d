// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Validation failed", Fields: fields}
}

// StockError carries the shortfall list from a failed consumption so the
// checkout screen can render exactly what is missing.
type StockError struct {
	Detail  string      `json:"detail"`
	Missing interface{} `json:"missing"`
}

func NewStock(msg string, missing interface{}) *StockError {
	return &StockError{Detail: msg, Missing: missing}
}
