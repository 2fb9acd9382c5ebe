// Package form derives the dynamic entry form from a collection schema.
package form

import (
	"github.com/kailas-cloud/cmsconsole/internal/domain/field"
)

// Widget names the input component that renders a control.
type Widget string

// Widgets.
const (
	WidgetInput    Widget = "input"
	WidgetTextarea Widget = "textarea"
	WidgetNumber   Widget = "number"
	WidgetCheckbox Widget = "checkbox"
	WidgetSwitch   Widget = "switch"
	WidgetDate     Widget = "date"
	WidgetDateTime Widget = "datetime"
	WidgetSelect   Widget = "select"
	WidgetUpload   Widget = "upload"
	WidgetRelation Widget = "relation"
	WidgetGroup    Widget = "group"
)

// Model is the renderable form for one collection.
type Model struct {
	Controls []Control `json:"controls"`
}

// Control is one input of the form.
type Control struct {
	Key          string                 `json:"key"`
	Type         field.Type             `json:"type"`
	Widget       Widget                 `json:"widget"`
	Label        string                 `json:"label"`
	Placeholder  string                 `json:"placeholder,omitempty"`
	HelpText     string                 `json:"helpText,omitempty"`
	Required     bool                   `json:"required,omitempty"`
	Readonly     bool                   `json:"readonly,omitempty"`
	Rules        field.ValidationRules  `json:"rules"`
	Default      any                    `json:"default,omitempty"`
	Options      []field.DropdownOption `json:"options,omitempty"`
	RelatedTo    string                 `json:"relatedTo,omitempty"`
	DisplayField string                 `json:"displayField,omitempty"`
	Accept       []string               `json:"accept,omitempty"`
	MaxFiles     int                    `json:"maxFiles,omitempty"`
	MaxSizeMB    float64                `json:"maxSizeMb,omitempty"`
	Multiple     bool                   `json:"multiple,omitempty"`
	TrueLabel    string                 `json:"trueLabel,omitempty"`
	FalseLabel   string                 `json:"falseLabel,omitempty"`
	Format       string                 `json:"format,omitempty"`
	Children     []Control              `json:"children,omitempty"`
}

// Build renders one control per visible field, in schema order.
func Build(fields []field.Definition) (Model, error) {
	controls, err := build(fields)
	if err != nil {
		return Model{}, err
	}
	return Model{Controls: controls}, nil
}

func build(fields []field.Definition) ([]Control, error) {
	out := make([]Control, 0, len(fields))
	for _, f := range fields {
		if f.FieldConfig.Hidden {
			continue
		}
		c, err := field.Visit[controlResult](f, builder{})
		if err != nil {
			return nil, err
		}
		if c.err != nil {
			return nil, c.err
		}
		out = append(out, c.control)
	}
	return out, nil
}

type controlResult struct {
	control Control
	err     error
}

// builder maps every field type to its control.
type builder struct{}

func base(d field.Definition, w Widget) Control {
	return Control{
		Key:         d.FieldConfig.Key,
		Type:        d.FieldConfig.Type,
		Widget:      w,
		Label:       d.FieldConfig.Label,
		Placeholder: d.FieldConfig.Placeholder,
		HelpText:    d.FieldConfig.HelpText,
		Required:    d.ValidationRules.Required,
		Readonly:    d.FieldConfig.Readonly,
		Rules:       d.ValidationRules,
		Default:     d.DefaultValue,
	}
}

func okControl(c Control) controlResult { return controlResult{control: c} }

func (builder) String(d field.Definition) controlResult { return okControl(base(d, WidgetInput)) }
func (builder) Text(d field.Definition) controlResult   { return okControl(base(d, WidgetTextarea)) }
func (builder) Number(d field.Definition) controlResult { return okControl(base(d, WidgetNumber)) }

func (builder) Boolean(d field.Definition) controlResult {
	c := base(d, WidgetCheckbox)
	if bc := d.ConfigOptions.BooleanConfig; bc != nil {
		if bc.DisplayAs == "switch" {
			c.Widget = WidgetSwitch
		}
		c.TrueLabel, c.FalseLabel = bc.TrueLabel, bc.FalseLabel
	}
	return okControl(c)
}

func (builder) Date(d field.Definition) controlResult {
	c := base(d, WidgetDate)
	if dc := d.ConfigOptions.DateConfig; dc != nil {
		if dc.IncludeTime {
			c.Widget = WidgetDateTime
		}
		c.Format = dc.Format
	}
	return okControl(c)
}

func (builder) Dropdown(d field.Definition) controlResult {
	c := base(d, WidgetSelect)
	c.Options = d.ConfigOptions.DropdownOptions
	return okControl(c)
}

func (builder) File(d field.Definition) controlResult {
	c := base(d, WidgetUpload)
	c.MaxFiles = 1
	if fc := d.ConfigOptions.FileConfig; fc != nil {
		c.Accept = fc.AllowedTypes
		c.Multiple = fc.Multiple
		if fc.Multiple {
			c.MaxFiles = 0
		}
		if fc.MaxFiles != nil {
			c.MaxFiles = *fc.MaxFiles
		}
		if fc.MaxSizeMB != nil {
			c.MaxSizeMB = *fc.MaxSizeMB
		}
	}
	return okControl(c)
}

func (builder) Relationship(d field.Definition) controlResult {
	c := base(d, WidgetRelation)
	if rc := d.ConfigOptions.RelationshipConfig; rc != nil {
		c.RelatedTo = rc.RelatedCollectionID
		c.Multiple = rc.Multiple
		c.DisplayField = rc.DisplayField
	}
	return okControl(c)
}

func (builder) NestedSchema(d field.Definition) controlResult {
	c := base(d, WidgetGroup)
	if nc := d.ConfigOptions.NestedSchemaConfig; nc != nil {
		c.Multiple = nc.Multiple
	}
	children, err := build(d.NestedFields())
	if err != nil {
		return controlResult{err: err}
	}
	c.Children = children
	return okControl(c)
}
