package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/kailas-cloud/cmsconsole/internal/domain/file"
)

const defaultMaxUploadMB = 32

var errUnknownPart = errors.New("unknown file part")

// entryWrite is the body of entry create/draft/publish requests.
type entryWrite struct {
	Data      map[string]any `json:"data"`
	Published bool           `json:"published"`
}

// decodeEntryWrite reads a JSON body, or a multipart form with a "data" JSON
// part, an optional "published" value and one part per selected file. In the
// multipart form a pending file is written as {"file": "<part name>"}.
func (s *Server) decodeEntryWrite(w http.ResponseWriter, r *http.Request) (entryWrite, bool) {
	var body entryWrite
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		if !decodeBody(w, r, &body) {
			return body, false
		}
		// File parts only exist in multipart forms.
		if _, err := attachFiles(body.Data, noParts); err != nil {
			writeError(w, r, http.StatusBadRequest, CodeBadRequest, err.Error())
			return body, false
		}
		return body, true
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadMB<<20)
	if err := r.ParseMultipartForm(s.maxUploadMB << 20); err != nil {
		writeError(w, r, http.StatusBadRequest, CodeBadRequest, "Invalid multipart form: "+err.Error())
		return body, false
	}
	form := r.MultipartForm

	if raw := r.FormValue("data"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &body.Data); err != nil {
			writeError(w, r, http.StatusBadRequest, CodeBadRequest, "Invalid data part: "+err.Error())
			return body, false
		}
	}
	if v := r.FormValue("published"); v != "" {
		published, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, CodeBadRequest, "published must be a boolean")
			return body, false
		}
		body.Published = published
	}

	attached, err := attachFiles(body.Data, func(part string) (*file.Pending, bool) {
		hs := form.File[part]
		if len(hs) == 0 {
			return nil, false
		}
		return file.FromMultipart(hs[0]), true
	})
	if err != nil {
		writeError(w, r, http.StatusBadRequest, CodeBadRequest, err.Error())
		return body, false
	}
	body.Data, _ = attached.(map[string]any)
	return body, true
}

func noParts(string) (*file.Pending, bool) { return nil, false }

// attachFiles replaces every {"file": "<part>"} object in v with a pending
// upload. Other keys of the object are kept.
func attachFiles(v any, lookup func(part string) (*file.Pending, bool)) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		if part, ok := t[file.KeyFile].(string); ok {
			p, found := lookup(part)
			if !found {
				return nil, fmt.Errorf("%w %q", errUnknownPart, part)
			}
			out := make(map[string]any, len(t))
			for k, val := range t {
				out[k] = val
			}
			out[file.KeyFile] = p
			return out, nil
		}
		for k, val := range t {
			nv, err := attachFiles(val, lookup)
			if err != nil {
				return nil, err
			}
			t[k] = nv
		}
		return t, nil
	case []any:
		for i, val := range t {
			nv, err := attachFiles(val, lookup)
			if err != nil {
				return nil, err
			}
			t[i] = nv
		}
		return t, nil
	default:
		return v, nil
	}
}
