// Package schema turns persisted field definitions into an editable,
// flattened representation and back, and captures the load-time snapshot
// the diff engine compares against.
package schema

import (
	"strconv"

	"github.com/kailas-cloud/cmsconsole/internal/domain/field"
)

// EditableField is the flattened per-field record the schema editor works on.
type EditableField struct {
	ID         string `json:"id,omitempty" yaml:"id,omitempty"`
	IndexOrder string `json:"indexOrder,omitempty" yaml:"indexOrder,omitempty"`

	Label       string     `json:"label" yaml:"label"`
	Key         string     `json:"key" yaml:"key"`
	Type        field.Type `json:"type" yaml:"type"`
	Placeholder string     `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	HelpText    string     `json:"helpText,omitempty" yaml:"helpText,omitempty"`
	Readonly    bool       `json:"readonly,omitempty" yaml:"readonly,omitempty"`
	Hidden      bool       `json:"hidden,omitempty" yaml:"hidden,omitempty"`

	Validation field.ValidationRules `json:"validationRules" yaml:"validationRules,omitempty"`

	DropdownOptions     []field.DropdownOption `json:"dropdownOptions,omitempty" yaml:"dropdownOptions,omitempty"`
	RelatedCollectionID string                 `json:"relatedCollectionId,omitempty" yaml:"relatedCollectionId,omitempty"`
	NestedFields        []EditableField        `json:"nestedFields,omitempty" yaml:"nestedFields,omitempty"`

	// ConfigOptions keeps the remaining type-specific settings. Dropdown
	// options, the relationship target and nested fields live in the
	// flattened fields above and win when the definition is rebuilt.
	ConfigOptions field.Options `json:"configOptions" yaml:"configOptions,omitempty"`

	DefaultValue any `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
}

// Normalize converts persisted definitions into editable records.
// It never fails: absent sub-configuration yields zero values.
func Normalize(defs []field.Definition) []EditableField {
	out := make([]EditableField, len(defs))
	for i, d := range defs {
		out[i] = normalizeOne(d)
	}
	return out
}

func normalizeOne(d field.Definition) EditableField {
	d = d.Clone()
	opts := d.ConfigOptions

	ef := EditableField{
		ID:              d.ID,
		IndexOrder:      d.IndexOrder,
		Label:           d.FieldConfig.Label,
		Key:             d.FieldConfig.Key,
		Type:            d.FieldConfig.Type,
		Placeholder:     d.FieldConfig.Placeholder,
		HelpText:        d.FieldConfig.HelpText,
		Readonly:        d.FieldConfig.Readonly,
		Hidden:          d.FieldConfig.Hidden,
		Validation:      d.ValidationRules,
		DropdownOptions: opts.DropdownOptions,
		DefaultValue:    d.DefaultValue,
	}
	opts.DropdownOptions = nil

	if opts.RelationshipConfig != nil {
		ef.RelatedCollectionID = opts.RelationshipConfig.RelatedCollectionID
		opts.RelationshipConfig.RelatedCollectionID = ""
	}
	if opts.NestedSchemaConfig != nil {
		ef.NestedFields = Normalize(opts.NestedSchemaConfig.Fields)
		opts.NestedSchemaConfig.Fields = nil
	}

	ef.ConfigOptions = opts
	return ef
}

// Definition rebuilds the wire definition of the field placed at index.
// Nested sub-fields are numbered within their own list.
func (ef EditableField) Definition(index int) field.Definition {
	opts := ef.ConfigOptions.Clone()
	opts.DropdownOptions = cloneOptions(ef.DropdownOptions)

	if ef.RelatedCollectionID != "" || opts.RelationshipConfig != nil {
		rc := field.RelationshipConfig{}
		if opts.RelationshipConfig != nil {
			rc = *opts.RelationshipConfig
		}
		rc.RelatedCollectionID = ef.RelatedCollectionID
		opts.RelationshipConfig = &rc
	}
	if len(ef.NestedFields) > 0 || opts.NestedSchemaConfig != nil {
		nc := field.NestedSchemaConfig{}
		if opts.NestedSchemaConfig != nil {
			nc = *opts.NestedSchemaConfig
		}
		nc.Fields = Definitions(ef.NestedFields)
		opts.NestedSchemaConfig = &nc
	}

	return field.Definition{
		ID:         ef.ID,
		IndexOrder: strconv.Itoa(index),
		FieldConfig: field.Config{
			Label:       ef.Label,
			Key:         ef.Key,
			Type:        ef.Type,
			Placeholder: ef.Placeholder,
			HelpText:    ef.HelpText,
			Readonly:    ef.Readonly,
			Hidden:      ef.Hidden,
		},
		ValidationRules: ef.Validation.Clone(),
		ConfigOptions:   opts,
		DefaultValue:    ef.DefaultValue,
	}
}

// Definitions rebuilds a whole list in its current order.
func Definitions(fields []EditableField) []field.Definition {
	if fields == nil {
		return nil
	}
	out := make([]field.Definition, len(fields))
	for i, ef := range fields {
		out[i] = ef.Definition(i)
	}
	return out
}

// Reindex rewrites IndexOrder to match list positions, recursively.
// Call it whenever fields are reordered.
func Reindex(fields []EditableField) {
	for i := range fields {
		fields[i].IndexOrder = strconv.Itoa(i)
		Reindex(fields[i].NestedFields)
	}
}

// Move relocates the field at from to position to and reindexes the list.
func Move(fields []EditableField, from, to int) []EditableField {
	if from < 0 || from >= len(fields) || to < 0 || to >= len(fields) || from == to {
		return fields
	}
	f := fields[from]
	out := make([]EditableField, 0, len(fields))
	out = append(out, fields[:from]...)
	out = append(out, fields[from+1:]...)
	out = append(out[:to], append([]EditableField{f}, out[to:]...)...)
	Reindex(out)
	return out
}

// CloneFields deep-copies an editable field list.
func CloneFields(fields []EditableField) []EditableField {
	if fields == nil {
		return nil
	}
	out := make([]EditableField, len(fields))
	for i, ef := range fields {
		ef.Validation = ef.Validation.Clone()
		ef.DropdownOptions = cloneOptions(ef.DropdownOptions)
		ef.NestedFields = CloneFields(ef.NestedFields)
		ef.ConfigOptions = ef.ConfigOptions.Clone()
		out[i] = ef
	}
	return out
}

func cloneOptions(in []field.DropdownOption) []field.DropdownOption {
	if in == nil {
		return nil
	}
	out := make([]field.DropdownOption, len(in))
	copy(out, in)
	return out
}
