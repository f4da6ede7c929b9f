package middleware

import (
	"database/sql/driver"
	"errors"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"user_service/internal/apperror"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
)

// ErrorResponse is the uniform JSON body for every failed request.
type ErrorResponse struct {
	StatusCode int    `json:"statusCode"`
	Error      string `json:"error"`
	Message    string `json:"message"`
	Timestamp  string `json:"timestamp"`
	Path       string `json:"path"`
	Details    any    `json:"details,omitempty"`
}

const uniqueViolationCode = "23505"

// ErrorHandler intercepts every error a handler leaves on the context and writes
// the uniform error body. Controllers stay free of status-code logic; this is the
// single place where errors map to HTTP responses.
func ErrorHandler(isProduction bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		resp := classify(err, c.Request.URL.Path, isProduction)
		c.JSON(resp.StatusCode, resp)
	}
}

// classify maps an error to its response. First match wins.
func classify(err error, path string, isProduction bool) *ErrorResponse {
	timestamp := time.Now().UTC().Format(time.RFC3339)

	newResponse := func(statusCode int, errorName, message string, details any) *ErrorResponse {
		return &ErrorResponse{
			StatusCode: statusCode,
			Error:      errorName,
			Message:    message,
			Timestamp:  timestamp,
			Path:       path,
			Details:    details,
		}
	}

	// Application errors carry their own status code and details.
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return newResponse(appErr.StatusCode, appErr.Name(), appErr.Message, appErr.Details)
	}

	// Postgres errors, switched on the server-side error code.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == uniqueViolationCode:
			return newResponse(http.StatusConflict, "Conflict", "A record with this value already exists", map[string]any{
				"code":  pgErr.Code,
				"field": pgErr.ConstraintName,
			})
		case strings.HasPrefix(pgErr.Code, "08"): // connection error class
			return newResponse(http.StatusServiceUnavailable, "ServiceUnavailable", "Database connection failed", map[string]any{
				"type": "DatabaseConnection",
			})
		default:
			return newResponse(http.StatusBadRequest, "DatabaseError", "Database operation failed", map[string]any{
				"code": pgErr.Code,
			})
		}
	}

	if errors.Is(err, driver.ErrBadConn) {
		return newResponse(http.StatusServiceUnavailable, "ServiceUnavailable", "Database connection failed", map[string]any{
			"type": "DatabaseConnection",
		})
	}

	// Request-schema validation failures that reached the middleware unmapped.
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		failures := make([]string, 0, len(validationErrs))
		for _, v := range validationErrs {
			failures = append(failures, v.Error())
		}
		return newResponse(http.StatusBadRequest, "ValidationError", "Request validation failed", map[string]any{
			"validation": failures,
		})
	}

	// Fallback for everything unclassified.
	logrus.WithError(err).WithField("path", path).Error("Unhandled error")

	message := err.Error()
	var details any
	if isProduction {
		message = "An unexpected error occurred"
	} else {
		details = map[string]any{
			"stack": string(debug.Stack()),
		}
	}

	return newResponse(http.StatusInternalServerError, "InternalServerError", message, details)
}
