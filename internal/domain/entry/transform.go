package entry

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"github.com/kailas-cloud/cmsconsole/internal/domain/field"
	"github.com/kailas-cloud/cmsconsole/internal/domain/file"
)

// FileResolver turns the form value of one file field into its storage value,
// uploading pending files on the way. keep=false means the key is omitted.
type FileResolver interface {
	Resolve(ctx context.Context, value any) (resolved any, keep bool, err error)
}

var errNoResolver = errors.New("no file resolver configured")

// Transformer converts entry values between storage and form shapes.
type Transformer struct {
	previewBase string
}

// NewTransformer creates a transformer deriving previews from previewBase.
func NewTransformer(previewBase string) *Transformer {
	return &Transformer{previewBase: previewBase}
}

// ToForm prepares stored values for editing: every file item bearing a
// storage key gets a form id, an empty file slot and a preview URL.
// Other values pass through. data is not modified.
func (t *Transformer) ToForm(data map[string]any, fields []field.Definition) (map[string]any, error) {
	return walker{stage: stageForm, previewBase: t.previewBase}.apply(context.Background(), data, fields)
}

// ToStorage prepares form values for submission. Relationships are reduced
// to ids first, then file values are resolved through r, in field order.
// Nested schemas are walked at every level with their own field list.
// data is not modified.
func (t *Transformer) ToStorage(
	ctx context.Context, data map[string]any, fields []field.Definition, r FileResolver,
) (map[string]any, error) {
	if r == nil {
		return nil, errNoResolver
	}
	out, err := walker{stage: stageRelationships}.apply(ctx, data, fields)
	if err != nil {
		return nil, err
	}
	return walker{stage: stageFiles, resolver: r}.apply(ctx, out, fields)
}

type stage int

const (
	stageForm stage = iota
	stageRelationships
	stageFiles
)

// op converts one field value; keep=false drops the key.
type op func(ctx context.Context, v any) (out any, keep bool, err error)

// walker applies one stage to a field scope. It implements field.Visitor so
// every field type must say what the stage does with it; nil means pass-through.
type walker struct {
	stage       stage
	previewBase string
	resolver    FileResolver
}

func (w walker) apply(ctx context.Context, data map[string]any, fields []field.Definition) (map[string]any, error) {
	out := maps.Clone(data)
	if out == nil {
		out = map[string]any{}
	}
	for _, f := range fields {
		v, ok := out[f.Key()]
		if !ok {
			continue
		}
		fn, err := field.Visit[op](f, w)
		if err != nil {
			return nil, err
		}
		if fn == nil {
			continue
		}
		nv, keep, err := fn(ctx, v)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Key(), err)
		}
		if keep {
			out[f.Key()] = nv
		} else {
			delete(out, f.Key())
		}
	}
	return out, nil
}

func (walker) String(field.Definition) op   { return nil }
func (walker) Text(field.Definition) op     { return nil }
func (walker) Number(field.Definition) op   { return nil }
func (walker) Boolean(field.Definition) op  { return nil }
func (walker) Date(field.Definition) op     { return nil }
func (walker) Dropdown(field.Definition) op { return nil }

func (w walker) File(field.Definition) op {
	switch w.stage {
	case stageForm:
		return w.fileToForm
	case stageFiles:
		return w.resolver.Resolve
	default:
		return nil
	}
}

func (w walker) Relationship(field.Definition) op {
	if w.stage != stageRelationships {
		return nil
	}
	return extractIDs
}

func (w walker) NestedSchema(d field.Definition) op {
	nested := d.NestedFields()
	if len(nested) == 0 {
		return nil
	}
	return func(ctx context.Context, v any) (any, bool, error) {
		if m, ok := v.(map[string]any); ok {
			out, err := w.apply(ctx, m, nested)
			return out, err == nil, err
		}
		items, ok := AsList(v)
		if !ok {
			return v, true, nil
		}
		out := make([]any, len(items))
		for i, item := range items {
			m, ok := item.(map[string]any)
			if !ok {
				out[i] = item
				continue
			}
			sub, err := w.apply(ctx, m, nested)
			if err != nil {
				return nil, false, fmt.Errorf("item %d: %w", i, err)
			}
			out[i] = sub
		}
		return out, true, nil
	}
}

func (w walker) fileToForm(_ context.Context, v any) (any, bool, error) {
	if m, ok := v.(map[string]any); ok {
		if file.StorageKey(m) == "" {
			return v, true, nil
		}
		return w.formItem(m, 0), true, nil
	}
	items, ok := AsList(v)
	if !ok {
		return v, true, nil
	}
	out := make([]any, len(items))
	for i, item := range items {
		if m, ok := item.(map[string]any); ok {
			out[i] = w.formItem(m, i)
		} else {
			out[i] = item
		}
	}
	return out, true, nil
}

// formItem builds {id, file, preview, ...item}; item's own keys win.
func (w walker) formItem(item map[string]any, pos int) map[string]any {
	key := file.StorageKey(item)
	id := key
	if id == "" {
		id = fmt.Sprintf("file-%d", pos)
	}
	out := make(map[string]any, len(item)+3)
	out[file.KeyID] = id
	out[file.KeyFile] = nil
	if key != "" {
		out[file.KeyPreview] = file.PreviewURL(w.previewBase, key)
	}
	maps.Copy(out, item)
	return out
}

// extractIDs reduces populated relationship objects to their ids. Bare ids
// are kept; objects without an id are dropped.
func extractIDs(_ context.Context, v any) (any, bool, error) {
	if m, ok := v.(map[string]any); ok {
		id, ok := m["id"]
		return id, ok, nil
	}
	items, ok := AsList(v)
	if !ok {
		return v, true, nil
	}
	out := make([]any, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			out = append(out, item)
			continue
		}
		if id, ok := m["id"]; ok {
			out = append(out, id)
		}
	}
	return out, true, nil
}

// AsList accepts the list shapes produced by JSON decoding and by Go callers.
func AsList(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case []map[string]any:
		out := make([]any, len(t))
		for i, m := range t {
			out[i] = m
		}
		return out, true
	default:
		return nil, false
	}
}
