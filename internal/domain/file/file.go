// Package file models entry file values: persisted storage references and
// local files waiting to be uploaded.
package file

import (
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Form-only keys added to file items for editing. They never reach storage.
const (
	KeyID      = "id"
	KeyFile    = "file"
	KeyPreview = "preview"
	// KeyStorage is the storage key of a persisted file.
	KeyStorage = "key"
)

// Pending is a local file selected in the form and not uploaded yet.
type Pending struct {
	File        openapi_types.File
	ContentType string
}

// NewPending wraps in-memory content.
func NewPending(name, contentType string, data []byte) *Pending {
	p := &Pending{ContentType: contentType}
	p.File.InitFromBytes(data, name)
	return p
}

// FromMultipart wraps a file part received by the HTTP layer.
func FromMultipart(h *multipart.FileHeader) *Pending {
	p := &Pending{ContentType: h.Header.Get("Content-Type")}
	p.File.InitFromMultipart(h)
	return p
}

// Name returns the original file name.
func (p *Pending) Name() string { return p.File.Filename() }

// Size returns the file size in bytes.
func (p *Pending) Size() int64 { return p.File.FileSize() }

// Open returns a reader over the content.
func (p *Pending) Open() (io.ReadCloser, error) {
	r, err := p.File.Reader()
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", p.Name(), err)
	}
	return r, nil
}

// Bytes returns the whole content.
func (p *Pending) Bytes() ([]byte, error) {
	b, err := p.File.Bytes()
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", p.Name(), err)
	}
	return b, nil
}

// Ref is a persisted file reference as returned by the upload endpoint:
// a storage key plus arbitrary metadata.
type Ref map[string]any

// Key returns the storage key, or "".
func (r Ref) Key() string {
	return StorageKey(map[string]any(r))
}

// StorageKey returns the non-empty string stored under "key" in item, or "".
func StorageKey(item map[string]any) string {
	k, _ := item[KeyStorage].(string)
	return k
}

// PendingOf returns the pending upload carried by item, if any.
func PendingOf(item map[string]any) (*Pending, bool) {
	p, ok := item[KeyFile].(*Pending)
	return p, ok && p != nil
}

// StripScaffolding returns a copy of item without the form-only keys.
func StripScaffolding(item map[string]any) map[string]any {
	out := make(map[string]any, len(item))
	for k, v := range item {
		switch k {
		case KeyID, KeyFile, KeyPreview:
			continue
		}
		out[k] = v
	}
	return out
}

// PreviewURL joins the public storage base URL and a storage key.
func PreviewURL(base, key string) string {
	if base == "" {
		return key
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
