package graph

import "fmt"

// ErrorCode enumerates machine-readable error codes returned in the error
// envelope. The source contract declares no error schema, so the service uses
// the standard Graph envelope with these codes.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest             ErrorCode = "badRequest"
	ErrorCodeInvalidRequest         ErrorCode = "invalidRequest"
	ErrorCodeUnauthorized           ErrorCode = "unauthorized"
	ErrorCodeNotFound               ErrorCode = "notFound"
	ErrorCodeDataSourceNotSupported ErrorCode = "dataSourceNotSupported"
	ErrorCodeTooManyRequests        ErrorCode = "tooManyRequests"
	ErrorCodeServiceUnavailable     ErrorCode = "serviceUnavailable"
	ErrorCodeGeneralException       ErrorCode = "generalException"
)

// ErrorResponse is the Graph-style failure envelope for all non-2xx statuses.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail is the inner error object.
type ErrorDetail struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// APIError is returned by the client when the service answers with an error
// envelope.
type APIError struct {
	StatusCode int
	Code       ErrorCode
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("retrieval api: %d %s: %s", e.StatusCode, e.Code, e.Message)
}
