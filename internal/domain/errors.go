package domain

import (
	"errors"
	"net/http"
)

// AppError is the error type every usecase returns; handlers map Status
// straight onto the HTTP response.
type AppError struct {
	Status  int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func NewNotFound(msg string) *AppError {
	return &AppError{Status: http.StatusNotFound, Message: msg}
}

func NewUnauthorized(msg string) *AppError {
	return &AppError{Status: http.StatusUnauthorized, Message: msg}
}

func NewForbidden(msg string) *AppError {
	return &AppError{Status: http.StatusForbidden, Message: msg}
}

func NewValidation(msg string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Message: msg}
}

// NewConflict reports duplicate-resource conditions. They surface as 400,
// matching the rest of the validation family.
func NewConflict(msg string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Message: msg}
}

// ErrAlreadyEnrolled is the conflict the enrollment path returns for a
// duplicate enroll. Payment flows compare against it with errors.Is to
// tolerate replayed webhook deliveries.
var ErrAlreadyEnrolled = NewConflict("already enrolled in this course")

func NewExternal(msg string, err error) *AppError {
	return &AppError{Status: http.StatusBadGateway, Message: msg, Err: err}
}

func NewInternal(msg string, err error) *AppError {
	return &AppError{Status: http.StatusInternalServerError, Message: msg, Err: err}
}

// StatusOf extracts the HTTP status for an error, defaulting to 500.
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

// MessageOf extracts the client-safe message for an error.
func MessageOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal server error"
}
