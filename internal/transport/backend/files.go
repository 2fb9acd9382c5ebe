package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"github.com/kailas-cloud/cmsconsole/internal/domain/file"
)

// UploadFile sends one file as multipart/form-data (part "file") and
// returns the stored reference: a storage key plus metadata.
func (c *Client) UploadFile(ctx context.Context, projectID string, f *file.Pending) (file.Ref, error) {
	u, err := c.operationURL("/projects/%s/files", "projectId", projectID)
	if err != nil {
		return nil, err
	}

	body, contentType, err := multipartBody(f)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	var ref file.Ref
	if err := c.do(ctx, "upload_file", req, &ref); err != nil {
		return nil, err
	}
	return ref, nil
}

func multipartBody(f *file.Pending) (*bytes.Buffer, string, error) {
	src, err := f.Open()
	if err != nil {
		return nil, "", err
	}
	defer func() { _ = src.Close() }()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", multipart.FileContentDisposition("file", f.Name()))
	ct := f.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h.Set("Content-Type", ct)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("create part: %w", err)
	}
	if _, err := io.Copy(part, src); err != nil {
		return nil, "", fmt.Errorf("copy %q: %w", f.Name(), err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
