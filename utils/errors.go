package utils

import (
	"errors"
	"net/http"
)

// AppError is an error that is safe to show to the caller, tagged with the
// HTTP status it maps to.
type AppError struct {
	Status  int
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(status int, msg string) *AppError {
	return &AppError{Status: status, Message: msg}
}

func BadRequest(msg string) *AppError   { return NewAppError(http.StatusBadRequest, msg) }
func Unauthorized(msg string) *AppError { return NewAppError(http.StatusUnauthorized, msg) }
func NotFound(msg string) *AppError     { return NewAppError(http.StatusNotFound, msg) }
func Conflict(msg string) *AppError     { return NewAppError(http.StatusConflict, msg) }
func Internal(msg string) *AppError     { return NewAppError(http.StatusInternalServerError, msg) }

// StatusOf returns the HTTP status carried by err, or 500 for anything that is
// not an AppError.
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}
