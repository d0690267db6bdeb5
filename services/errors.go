package services

import (
	"errors"
	"fmt"
)

var (
	ErrParticipantNotFound = errors.New("participant_id does not exist")
	ErrInsufficientData    = errors.New("insufficient data for density estimate")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrSessionNotFound     = errors.New("session not found or expired")
	ErrStorageDisabled     = errors.New("export storage is not configured")
	ErrHoursOff            = errors.New("hour accounting is off for the current phase")
)

// ValidationError reports a single rejected request field.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

// Type mirrors the FastAPI error type the participant site already parses.
func (e *ValidationError) Type() string {
	return "value_error." + e.Field
}

func newValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Msg: fmt.Sprintf(format, args...)}
}
