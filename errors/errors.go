package errors

import (
	"fmt"
	"net/http"

	"github.com/TallyCrew/tally-crew-backend/logger"
)

type ErrorType string

const (
	ValidationError   ErrorType = "VALIDATION_ERROR"
	NotFoundError     ErrorType = "NOT_FOUND"
	AuthError         ErrorType = "AUTHENTICATION_ERROR"
	DatabaseError     ErrorType = "DATABASE_ERROR"
	ServerError       ErrorType = "SERVER_ERROR"
	ForbiddenError    ErrorType = "FORBIDDEN"
	ConflictError     ErrorType = "CONFLICT"
	RateLimitError    ErrorType = "RATE_LIMITED"
	GroupNotFoundErr  ErrorType = "GROUP_NOT_FOUND"
	GroupAccessErr    ErrorType = "GROUP_ACCESS_DENIED"
	RecomputeErrorTyp ErrorType = "DEBT_RECOMPUTE_FAILED"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Code       string    `json:"code"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	HTTPStatus int       `json:"-"`
	Raw        error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the wrapped raw error, if any.
func (e *AppError) Unwrap() error {
	return e.Raw
}

// GetHTTPStatus returns the HTTP status code associated with the error.
func (e *AppError) GetHTTPStatus() int {
	if e.HTTPStatus != 0 {
		return e.HTTPStatus
	}
	return getHTTPStatus(e.Type)
}

// New creates a new AppError
func New(errType ErrorType, message string, detail string) *AppError {
	return &AppError{
		Type:       errType,
		Message:    message,
		Detail:     detail,
		HTTPStatus: getHTTPStatus(errType),
	}
}

// Wrap wraps a raw error with AppError context
func Wrap(err error, errType ErrorType, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Type:       errType,
		Message:    message,
		Detail:     err.Error(),
		HTTPStatus: getHTTPStatus(errType),
		Raw:        err,
	}
}

// Helper functions for common errors

func NotFound(entity string, id interface{}) *AppError {
	return &AppError{
		Type:       NotFoundError,
		Message:    fmt.Sprintf("%s not found", entity),
		Detail:     fmt.Sprintf("ID: %v", id),
		HTTPStatus: http.StatusNotFound,
	}
}

func ValidationFailed(message string, details string) *AppError {
	return &AppError{
		Type:       ValidationError,
		Message:    message,
		Detail:     details,
		HTTPStatus: http.StatusBadRequest,
	}
}

func AuthenticationFailed(message string) *AppError {
	return &AppError{
		Type:       AuthError,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

func NewDatabaseError(err error) *AppError {
	// Log original error but return sanitized message
	logger.GetLogger().Errorw("Database error", "error", err)
	return &AppError{
		Type:       DatabaseError,
		Message:    "Database operation failed",
		Detail:     "Please try again later",
		HTTPStatus: http.StatusInternalServerError,
		Raw:        err,
	}
}

func InternalServerError(message string) *AppError {
	return &AppError{
		Type:       ServerError,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

func Forbidden(message string, details string) *AppError {
	return &AppError{
		Type:       ForbiddenError,
		Message:    message,
		Detail:     details,
		HTTPStatus: http.StatusForbidden,
	}
}

func Conflict(message string, details string) *AppError {
	return &AppError{
		Type:       ConflictError,
		Message:    message,
		Detail:     details,
		HTTPStatus: http.StatusConflict,
	}
}

func RateLimited(message string, details string) *AppError {
	return &AppError{
		Type:       RateLimitError,
		Message:    message,
		Detail:     details,
		HTTPStatus: http.StatusTooManyRequests,
	}
}

func GroupNotFound(id string) *AppError {
	return &AppError{
		Type:       GroupNotFoundErr,
		Message:    "Group not found",
		Detail:     fmt.Sprintf("Group ID: %s", id),
		HTTPStatus: http.StatusNotFound,
	}
}

func GroupAccessDenied(userID, groupID string) *AppError {
	return &AppError{
		Type:       GroupAccessErr,
		Message:    "Access to group denied",
		Detail:     fmt.Sprintf("User %s cannot access group %s", userID, groupID),
		HTTPStatus: http.StatusForbidden,
	}
}

// RecomputeFailed is returned when the debt simplification engine fails.
// The underlying cause is logged but never distinguished to the caller;
// there is no recovery path beyond retrying the whole operation.
func RecomputeFailed(err error) *AppError {
	logger.GetLogger().Errorw("Debt recompute failed", "error", err)
	return &AppError{
		Type:       RecomputeErrorTyp,
		Message:    "Failed to calculate debts",
		Detail:     "Please try again later",
		HTTPStatus: http.StatusInternalServerError,
		Raw:        err,
	}
}

func getHTTPStatus(errType ErrorType) int {
	switch errType {
	case ValidationError:
		return http.StatusBadRequest
	case NotFoundError, GroupNotFoundErr:
		return http.StatusNotFound
	case AuthError:
		return http.StatusUnauthorized
	case ForbiddenError, GroupAccessErr:
		return http.StatusForbidden
	case ConflictError:
		return http.StatusConflict
	case RateLimitError:
		return http.StatusTooManyRequests
	case DatabaseError, ServerError, RecomputeErrorTyp:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
