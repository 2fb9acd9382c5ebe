package cmsconsole

import "github.com/kailas-cloud/cmsconsole/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound           = domain.ErrNotFound
	ErrInvalidSchema      = domain.ErrInvalidSchema
	ErrUnknownFieldType   = domain.ErrUnknownFieldType
	ErrConflict           = domain.ErrConflict
	ErrUnauthorized       = domain.ErrUnauthorized
	ErrLoadFailed         = domain.ErrLoadFailed
	ErrUploadFailed       = domain.ErrUploadFailed
	ErrBackendUnavailable = domain.ErrBackendUnavailable
)

// UserMessage returns the human-readable reason carried by err, or a
// generic message when there is none.
func UserMessage(err error) string {
	return domain.UserMessage(err)
}
