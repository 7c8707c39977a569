package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for the command surface. Every failure is serialized as a
// same-shape {error} payload on the caller's acknowledgment channel and is
// never broadcast to other participants.
var (
	// ErrNotParticipant - команда цілить кімнату, в якій користувач не є учасником.
	ErrNotParticipant = errors.New("not a participant of this room")
	// ErrInvitationState - відповідь на запрошення, яке вже не PENDING або протерміноване.
	ErrInvitationState = errors.New("invitation is not pending or has expired")
	ErrRoomNotFound    = errors.New("room not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrRoomFull        = errors.New("room is at maximum capacity")
	ErrNotAuthorized   = errors.New("insufficient role for this action")
)

// ValidationError rejects a malformed payload before any state mutation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// NewValidationError створює помилку валідації для конкретного поля.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a payload validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
