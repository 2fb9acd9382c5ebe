package backend

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/kailas-cloud/cmsconsole/internal/domain"
)

// APIError is a non-2xx backend response.
type APIError struct {
	Operation  string
	StatusCode int
	// Message is the human-readable reason from the body, or "".
	Message string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("%s: backend returned %d: %s", e.Operation, e.StatusCode, msg)
}

// UserMessage returns the backend's reason, or the generic message.
func (e *APIError) UserMessage() string {
	if e.Message == "" {
		return domain.GenericErrorMessage
	}
	return e.Message
}

// Unwrap maps the status code to a domain sentinel so callers can use errors.Is.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return domain.ErrInvalidSchema
	case http.StatusConflict:
		return domain.ErrConflict
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.ErrUnauthorized
	}
	if e.StatusCode >= 500 {
		return domain.ErrBackendUnavailable
	}
	return nil
}

func newAPIError(operation string, status int, body []byte) *APIError {
	return &APIError{Operation: operation, StatusCode: status, Message: extractMessage(body)}
}

// extractMessage reads the first non-empty of "message", "error" and
// "detail" from a JSON error body. "message" may also be a list of strings.
func extractMessage(body []byte) string {
	var parsed struct {
		Message json.RawMessage `json:"message"`
		Error   json.RawMessage `json:"error"`
		Detail  json.RawMessage `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) != nil {
		return ""
	}
	for _, raw := range []json.RawMessage{parsed.Message, parsed.Error, parsed.Detail} {
		if msg := rawText(raw); msg != "" {
			return msg
		}
	}
	return ""
}

func rawText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return strings.TrimSpace(s)
	}
	var list []string
	if json.Unmarshal(raw, &list) == nil {
		return strings.TrimSpace(strings.Join(list, "; "))
	}
	return ""
}
