package upload

import (
	"context"

	"github.com/kailas-cloud/cmsconsole/internal/domain/file"
)

// Uploader sends one file to object storage on behalf of a project.
type Uploader interface {
	UploadFile(ctx context.Context, projectID string, f *file.Pending) (file.Ref, error)
}
