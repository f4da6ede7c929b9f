package apperror

import "strings"

// Error kinds. Each kind carries a fixed HTTP status code; nothing outside this
// package decides status codes for business failures.
const (
	KindConflict       = "ConflictError"
	KindValidation     = "ValidationError"
	KindNotFound       = "NotFoundError"
	KindUnauthorized   = "UnauthorizedError"
	KindForbidden      = "ForbiddenError"
	KindInternalServer = "InternalServerError"
	KindBadRequest     = "BadRequestError"
)

var statusCodes = map[string]int{
	KindConflict:       409,
	KindValidation:     400,
	KindNotFound:       404,
	KindUnauthorized:   401,
	KindForbidden:      403,
	KindInternalServer: 500,
	KindBadRequest:     400,
}

var defaultMessages = map[string]string{
	KindConflict:       "Resource already exists",
	KindValidation:     "Invalid input",
	KindNotFound:       "Resource not found",
	KindUnauthorized:   "Unauthorized access",
	KindForbidden:      "Forbidden access",
	KindInternalServer: "Internal server error",
	KindBadRequest:     "Bad request",
}

// AppError is an application-level failure with an HTTP status code bound to its
// kind and optional structured details (offending field, value, etc.).
type AppError struct {
	Kind       string         `json:"kind"`
	Message    string         `json:"message"`
	StatusCode int            `json:"statusCode"`
	Details    map[string]any `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Name returns the wire label for the error kind, with the trailing "Error"
// suffix stripped (ConflictError -> Conflict).
func (e *AppError) Name() string {
	return strings.TrimSuffix(e.Kind, "Error")
}

func newError(kind, message string, details map[string]any) *AppError {
	if message == "" {
		message = defaultMessages[kind]
	}
	return &AppError{
		Kind:       kind,
		Message:    message,
		StatusCode: statusCodes[kind],
		Details:    details,
	}
}

func NewConflict(message string, details map[string]any) *AppError {
	return newError(KindConflict, message, details)
}

func NewValidation(message string, details map[string]any) *AppError {
	return newError(KindValidation, message, details)
}

func NewNotFound(message string, details map[string]any) *AppError {
	return newError(KindNotFound, message, details)
}

func NewUnauthorized(message string, details map[string]any) *AppError {
	return newError(KindUnauthorized, message, details)
}

func NewForbidden(message string, details map[string]any) *AppError {
	return newError(KindForbidden, message, details)
}

func NewInternalServer(message string, details map[string]any) *AppError {
	return newError(KindInternalServer, message, details)
}

func NewBadRequest(message string, details map[string]any) *AppError {
	return newError(KindBadRequest, message, details)
}
