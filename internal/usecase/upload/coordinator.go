// Package upload resolves file field values at save time: pending local
// files are uploaded and replaced by the storage reference the backend returns.
package upload

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/cmsconsole/internal/domain"
	"github.com/kailas-cloud/cmsconsole/internal/domain/entry"
	"github.com/kailas-cloud/cmsconsole/internal/domain/file"
	logpkg "github.com/kailas-cloud/cmsconsole/internal/logger"
	"github.com/kailas-cloud/cmsconsole/internal/metrics"
	"github.com/kailas-cloud/cmsconsole/internal/notify"
)

var errNoKey = errors.New("upload response carries no storage key")

// Coordinator uploads pending files one at a time, in field order.
type Coordinator struct {
	uploader Uploader
	notifier notify.Notifier
}

// New creates a coordinator. notifier receives one info notice per upload;
// a request-scoped notifier in the context receives them too.
func New(uploader Uploader, notifier notify.Notifier) *Coordinator {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Coordinator{uploader: uploader, notifier: notifier}
}

// ForProject binds uploads to the project owning the entry.
func (c *Coordinator) ForProject(projectID string) entry.FileResolver {
	return &Resolver{c: c, projectID: projectID}
}

// Resolver implements entry.FileResolver for one project.
type Resolver struct {
	c         *Coordinator
	projectID string
}

var _ entry.FileResolver = (*Resolver)(nil)

// Resolve maps the form value of a file field to its storage value.
//
// Lists keep items that end with a storage key: pending items are uploaded
// and replaced by the returned reference, keyed items are kept without form
// scaffolding, bare storage keys are kept as is, anything else is dropped. A single object follows the same
// rules. Empty values and empty results omit the key. The first failed
// upload aborts; files uploaded before it stay in storage.
func (r *Resolver) Resolve(ctx context.Context, value any) (any, bool, error) {
	switch v := value.(type) {
	case nil:
		return nil, false, nil
	case string:
		return v, v != "", nil
	case map[string]any:
		ref, ok, err := r.resolveItem(ctx, v)
		if err != nil || !ok {
			return nil, false, err
		}
		return ref, true, nil
	}

	items, ok := entry.AsList(value)
	if !ok {
		return nil, false, nil
	}
	out := make([]any, 0, len(items))
	for _, item := range items {
		if key, isKey := item.(string); isKey {
			if key != "" {
				out = append(out, key)
			}
			continue
		}
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		ref, ok, err := r.resolveItem(ctx, m)
		if err != nil {
			return nil, false, err
		}
		if ok {
			out = append(out, ref)
		}
	}
	if len(out) == 0 {
		return nil, false, nil
	}
	return out, true, nil
}

func (r *Resolver) resolveItem(ctx context.Context, item map[string]any) (map[string]any, bool, error) {
	if p, ok := file.PendingOf(item); ok {
		ref, err := r.upload(ctx, p)
		if err != nil {
			return nil, false, err
		}
		return ref, true, nil
	}
	if file.StorageKey(item) != "" {
		return file.StripScaffolding(item), true, nil
	}
	return nil, false, nil
}

func (r *Resolver) upload(ctx context.Context, p *file.Pending) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("upload %q: %w", p.Name(), err)
	}

	logger := logpkg.FromContext(ctx)
	notify.FromContext(ctx, r.c.notifier).Info(fmt.Sprintf("Uploading %s…", p.Name()))

	start := time.Now()
	ref, err := r.c.uploader.UploadFile(ctx, r.projectID, p)
	if err == nil && ref.Key() == "" {
		err = errNoKey
	}
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("error").Inc()
		logger.Error("File upload failed",
			zap.String("project_id", r.projectID),
			zap.String("file", p.Name()),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("upload %q: %w: %w", p.Name(), domain.ErrUploadFailed, err)
	}

	metrics.UploadsTotal.WithLabelValues("ok").Inc()
	metrics.UploadBytesTotal.Add(float64(p.Size()))
	logger.Debug("File uploaded",
		zap.String("project_id", r.projectID),
		zap.String("file", p.Name()),
		zap.String("key", ref.Key()),
		zap.Duration("duration", time.Since(start)),
	)
	return map[string]any(ref), nil
}
