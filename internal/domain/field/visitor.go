package field

import (
	"fmt"

	"github.com/kailas-cloud/cmsconsole/internal/domain"
)

// Visitor handles every field type. Adding a Type adds a method here, so
// every implementation has to handle it before the module compiles again.
type Visitor[R any] interface {
	String(d Definition) R
	Text(d Definition) R
	Number(d Definition) R
	Boolean(d Definition) R
	Date(d Definition) R
	Dropdown(d Definition) R
	File(d Definition) R
	Relationship(d Definition) R
	NestedSchema(d Definition) R
}

// Visit dispatches d to the visitor method matching its type.
// Types outside the closed set yield domain.ErrUnknownFieldType.
func Visit[R any](d Definition, v Visitor[R]) (R, error) {
	switch d.FieldConfig.Type {
	case String:
		return v.String(d), nil
	case Text:
		return v.Text(d), nil
	case Number:
		return v.Number(d), nil
	case Boolean:
		return v.Boolean(d), nil
	case Date:
		return v.Date(d), nil
	case Dropdown:
		return v.Dropdown(d), nil
	case File:
		return v.File(d), nil
	case Relationship:
		return v.Relationship(d), nil
	case NestedSchema:
		return v.NestedSchema(d), nil
	default:
		var zero R
		return zero, fmt.Errorf("field %q: %w: %q", d.FieldConfig.Key, domain.ErrUnknownFieldType, d.FieldConfig.Type)
	}
}
