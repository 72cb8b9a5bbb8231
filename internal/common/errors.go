package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Error kinds for the extraction-to-record pipeline. Field-level extraction
// misses are never errors; these cover the fatal conditions only.
var (
	// ErrEmptyInput: recognition produced no usable text. Fatal to the
	// current upload attempt; no session is created.
	ErrEmptyInput = errors.New("no usable text recognized")

	// ErrRecognition: the recognition capability itself failed (missing
	// credentials, network failure, unsupported format).
	ErrRecognition = errors.New("recognition failed")

	// ErrValidation: a create/update payload failed schema validation.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound: a get/update/delete targeted an unknown record id.
	ErrNotFound = errors.New("record not found")

	// ErrStore: underlying persistence failure, treated as transient. The
	// workflow preserves the session so the confirm can be retried.
	ErrStore = errors.New("record store failure")

	// ErrReviewInProgress: an upload was attempted while a session is live.
	ErrReviewInProgress = errors.New("a review is already in progress")

	// ErrNoActiveSession: confirm/reject/edit with no session to act on.
	ErrNoActiveSession = errors.New("no active review session")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
