package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes returned to clients in ErrorResponse.Code.
const (
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeForbidden       = "FORBIDDEN"
	CodeValidation      = "VALIDATION_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodeInternal        = "INTERNAL_ERROR"
)

// Reasons refine a code so clients can tell apart failures that share a status.
const (
	ReasonBlacklisted      = "BLACKLISTED"
	ReasonSelfRemoval      = "SELF_REMOVAL"
	ReasonInsufficientTier = "INSUFFICIENT_TIER"
	ReasonDuplicatePending = "DUPLICATE_PENDING"
	ReasonAlreadyExists    = "ALREADY_EXISTS"
	ReasonAlreadyReviewed  = "ALREADY_REVIEWED"
	ReasonMalformedID      = "MALFORMED_ID"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Reason  string `json:"reason,omitempty"`
	Details string `json:"details,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Reason  string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches on Code and, when the target carries one, Reason.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	if t.Code != e.Code {
		return false
	}
	return t.Reason == "" || t.Reason == e.Reason
}

// Sentinels usable with errors.Is.
var (
	ErrUnauthenticated  = &AppError{Code: CodeUnauthenticated}
	ErrForbidden        = &AppError{Code: CodeForbidden}
	ErrBlacklisted      = &AppError{Code: CodeForbidden, Reason: ReasonBlacklisted}
	ErrSelfRemoval      = &AppError{Code: CodeForbidden, Reason: ReasonSelfRemoval}
	ErrInvalidArgument  = &AppError{Code: CodeValidation}
	ErrNotFound         = &AppError{Code: CodeNotFound}
	ErrConflict         = &AppError{Code: CodeConflict}
	ErrDuplicatePending = &AppError{Code: CodeConflict, Reason: ReasonDuplicatePending}
	ErrAlreadyExists    = &AppError{Code: CodeConflict, Reason: ReasonAlreadyExists}
	ErrAlreadyReviewed  = &AppError{Code: CodeConflict, Reason: ReasonAlreadyReviewed}
	ErrInternal         = &AppError{Code: CodeInternal}
)

// NewNotFoundMessage builds a NotFound error with a caller-supplied message.
func NewNotFoundMessage(message string) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: message,
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

func NewMalformedIDError(resource string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Reason:  ReasonMalformedID,
		Message: fmt.Sprintf("Invalid %s ID format.", resource),
	}
}

func NewUnauthenticatedError(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthenticated,
		Message: message,
	}
}

func NewForbiddenError(reason, message string) *AppError {
	return &AppError{
		Code:    CodeForbidden,
		Reason:  reason,
		Message: message,
	}
}

func NewConflictError(reason, message string) *AppError {
	return &AppError{
		Code:    CodeConflict,
		Reason:  reason,
		Message: message,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// AsAppError returns err as an *AppError, wrapping anything unknown as internal.
func AsAppError(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError(err)
}

// StatusFor maps an error onto its HTTP status.
func StatusFor(err error) int {
	switch AsAppError(err).Code {
	case CodeUnauthenticated:
		return fiber.StatusUnauthorized
	case CodeForbidden:
		return fiber.StatusForbidden
	case CodeValidation:
		return fiber.StatusBadRequest
	case CodeNotFound:
		return fiber.StatusNotFound
	case CodeConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// RespondWithError creates a standardized error response
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	var appErr *AppError
	if errors.As(err, &appErr) {
		response = ErrorResponse{
			Error:   appErr.Message,
			Message: appErr.Message,
			Code:    appErr.Code,
			Reason:  appErr.Reason,
		}
		if appErr.Err != nil && exposeDetails {
			response.Details = appErr.Err.Error()
		}
	} else {
		response = ErrorResponse{
			Error:   err.Error(),
			Message: err.Error(),
		}
	}

	return c.Status(status).JSON(response)
}

// Respond writes err with the status derived from its code.
func Respond(c *fiber.Ctx, err error) error {
	return RespondWithError(c, StatusFor(err), err)
}

var exposeDetails = true

// SetExposeErrorDetails toggles whether wrapped causes reach the client.
func SetExposeErrorDetails(v bool) {
	exposeDetails = v
}
