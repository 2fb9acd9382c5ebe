package cmsconsole

import (
	"github.com/kailas-cloud/cmsconsole/internal/domain/changeset"
	domentry "github.com/kailas-cloud/cmsconsole/internal/domain/entry"
	"github.com/kailas-cloud/cmsconsole/internal/domain/field"
	"github.com/kailas-cloud/cmsconsole/internal/domain/file"
	"github.com/kailas-cloud/cmsconsole/internal/domain/form"
	domschema "github.com/kailas-cloud/cmsconsole/internal/domain/schema"
	domws "github.com/kailas-cloud/cmsconsole/internal/domain/workspace"
	"github.com/kailas-cloud/cmsconsole/internal/notify"
)

// Field is one editable field of a collection schema.
type Field = domschema.EditableField

// FieldType is the type of a field.
type FieldType = field.Type

// Field types.
const (
	FieldString       = field.String
	FieldText         = field.Text
	FieldNumber       = field.Number
	FieldBoolean      = field.Boolean
	FieldDate         = field.Date
	FieldDropdown     = field.Dropdown
	FieldFile         = field.File
	FieldRelationship = field.Relationship
	FieldNestedSchema = field.NestedSchema
)

// ValidationRules constrain the values of a field.
type ValidationRules = field.ValidationRules

// DropdownOption is one choice of a dropdown field.
type DropdownOption = field.DropdownOption

// ChangeSet is what a schema save submits: fields to create, update and delete.
type ChangeSet = changeset.ChangeSet

// Entry is one record of a collection.
type Entry = domentry.Entry

// EntryPage is one page of an entry listing.
type EntryPage = domentry.Page

// ListParams filters and pages an entry listing.
type ListParams = domentry.ListParams

// Form is the form model of a collection.
type Form = form.Model

// EditableEntry is an entry with its values prepared for a form.
type EditableEntry struct {
	Entry  Entry
	Values map[string]any
	Form   Form
}

// Organization is a client tenant.
type Organization = domws.Organization

// Project is a hosted project inside an organization.
type Project = domws.Project

// Notice is a user-facing message produced while saving.
type Notice = notify.Notice

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok", "degraded", "error"
	Checks map[string]string // component → "ok"/"error"
}

// NewFieldID returns a local id for a field added to a schema. Fields
// without an id are created as well.
func NewFieldID() string { return field.NewLocalID() }

// NewFile returns the value of a file field that uploads data when the entry
// is saved. Use it alone for single-file fields or in a []any for multi-file
// fields.
func NewFile(name, contentType string, data []byte) map[string]any {
	return map[string]any{file.KeyFile: file.NewPending(name, contentType, data)}
}
