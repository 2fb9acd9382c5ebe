package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrInvalidSchema signals an invalid field schema or rejected payload.
	ErrInvalidSchema = errors.New("invalid schema")
	// ErrUnknownFieldType signals a field type outside the supported set.
	ErrUnknownFieldType = errors.New("unknown field type")
	// ErrConflict signals a concurrent modification rejected by the backend.
	ErrConflict = errors.New("conflict")
	// ErrUnauthorized signals a missing or rejected credential.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrLoadFailed signals that data required to render a section could not be fetched.
	ErrLoadFailed = errors.New("load failed")
	// ErrUploadFailed signals a failed file upload; the save is aborted.
	ErrUploadFailed = errors.New("upload failed")
	// ErrBackendUnavailable signals a transport-level failure talking to the backend.
	ErrBackendUnavailable = errors.New("backend unavailable")
	// ErrSessionNotFound signals an expired or unknown schema editor session.
	ErrSessionNotFound = errors.New("editor session not found")
	// ErrNoWorkspace signals that the user has not selected an organization yet.
	ErrNoWorkspace = errors.New("no workspace selected")
)

// GenericErrorMessage is shown when the backend gives no readable reason.
const GenericErrorMessage = "Something went wrong. Please try again."

// KeyPrefix namespaces every key the console writes to the session store.
var KeyPrefix = "cmsconsole:"

// UserMessager is implemented by errors that carry a human-readable message.
type UserMessager interface {
	UserMessage() string
}

// UserMessage extracts the human-readable message of err, falling back to
// GenericErrorMessage.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var um UserMessager
	if errors.As(err, &um) {
		if msg := um.UserMessage(); msg != "" {
			return msg
		}
	}
	return GenericErrorMessage
}

// ValidationError describes a schema rule violated by one field.
type ValidationError struct {
	Path   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidSchema.Error(), e.Path, e.Reason)
}

// UserMessage implements UserMessager.
func (e *ValidationError) UserMessage() string {
	return fmt.Sprintf("Field %q: %s", e.Path, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidSchema }

// NewValidationError creates a schema validation error for the field at path.
func NewValidationError(path, reason string) error {
	return &ValidationError{Path: path, Reason: reason}
}
