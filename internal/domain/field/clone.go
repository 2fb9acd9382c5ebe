package field

import "slices"

// Clone returns a deep copy of d. Snapshots rely on it so that editing a
// working copy can never leak into the captured original.
func (d Definition) Clone() Definition {
	d.ValidationRules = d.ValidationRules.Clone()
	d.ConfigOptions = d.ConfigOptions.Clone()
	d.DefaultValue = cloneValue(d.DefaultValue)
	return d
}

// Clone returns a deep copy of r.
func (r ValidationRules) Clone() ValidationRules {
	r.MinLength = clonePtr(r.MinLength)
	r.MaxLength = clonePtr(r.MaxLength)
	r.MinValue = clonePtr(r.MinValue)
	r.MaxValue = clonePtr(r.MaxValue)
	r.Step = clonePtr(r.Step)
	return r
}

// Clone returns a deep copy of o.
func (o Options) Clone() Options {
	o.DropdownOptions = slices.Clone(o.DropdownOptions)
	if o.FileConfig != nil {
		fc := *o.FileConfig
		fc.AllowedTypes = slices.Clone(fc.AllowedTypes)
		fc.MaxSizeMB = clonePtr(fc.MaxSizeMB)
		fc.MaxFiles = clonePtr(fc.MaxFiles)
		o.FileConfig = &fc
	}
	o.DateConfig = clonePtr(o.DateConfig)
	o.BooleanConfig = clonePtr(o.BooleanConfig)
	o.RelationshipConfig = clonePtr(o.RelationshipConfig)
	if o.NestedSchemaConfig != nil {
		nc := *o.NestedSchemaConfig
		nc.Fields = CloneAll(nc.Fields)
		o.NestedSchemaConfig = &nc
	}
	return o
}

// CloneAll deep-copies a field list.
func CloneAll(defs []Definition) []Definition {
	if defs == nil {
		return nil
	}
	out := make([]Definition, len(defs))
	for i, d := range defs {
		out[i] = d.Clone()
	}
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// cloneValue copies JSON-shaped values (maps and slices); scalars are shared.
func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = cloneValue(e)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, e := range t {
			s[i] = cloneValue(e)
		}
		return s
	default:
		return v
	}
}
