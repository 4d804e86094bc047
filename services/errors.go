package services

import "errors"

var (
	// Not found
	ErrParticipantNotFound = errors.New("participant not found")

	// Invalid input
	ErrValidationFailed     = errors.New("validation failed")
	ErrInvalidScore         = errors.New("score must be an integer between 1 and 10")
	ErrInvalidStatus        = errors.New("invalid participant status")
	ErrInvalidDeadline      = errors.New("invalid deadline")
	ErrInvalidImportPayload = errors.New("invalid import payload")

	// Conflicts
	ErrParticipantConflict = errors.New("participant with this id already exists")

	// Business rules
	ErrRegistrationClosed = errors.New("registration is closed")

	// Auth
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrForbiddenOperation = errors.New("operation not allowed for the current user")

	// Remote sources. Never fails a core operation; reported in sync events.
	ErrExternalUnavailable = errors.New("external source unavailable")
)
