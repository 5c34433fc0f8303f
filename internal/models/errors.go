package models

// Error codes returned by the API. These four are the only codes a caller
// ever sees.
const (
	CodeValidationError = "VALIDATION_ERROR"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeForbidden       = "FORBIDDEN"
	CodeInternal        = "INTERNAL"
)

// ErrorDetail points at one offending field in a rejected request body.
type ErrorDetail struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ErrorBody is the inner error object of every non-2xx response.
type ErrorBody struct {
	Code      string        `json:"code"`
	Message   string        `json:"message"`
	Details   []ErrorDetail `json:"details,omitempty"`
	RequestID string        `json:"request_id,omitempty"`
}

// ErrorResponse is the envelope for every non-2xx response.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// NewError builds a plain error response with no field details.
func NewError(code, message string) ErrorResponse {
	return ErrorResponse{Error: ErrorBody{Code: code, Message: message}}
}

// NewValidationError builds the 400 envelope with per-field details.
func NewValidationError(details ...ErrorDetail) ErrorResponse {
	return ErrorResponse{Error: ErrorBody{
		Code:    CodeValidationError,
		Message: "Validation error",
		Details: details,
	}}
}

// NewInternalError builds the generic 500 envelope. The message is fixed so
// internals never leak; the request ID lets operators correlate with logs.
func NewInternalError(requestID string) ErrorResponse {
	return ErrorResponse{Error: ErrorBody{
		Code:      CodeInternal,
		Message:   "Unexpected error",
		RequestID: requestID,
	}}
}
