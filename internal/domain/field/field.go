package field

// Type is the discriminator of a field definition.
type Type string

// Field type constants. The set is closed: Visit rejects anything else.
const (
	String       Type = "string"
	Text         Type = "text"
	Number       Type = "number"
	Boolean      Type = "boolean"
	Date         Type = "date"
	Dropdown     Type = "dropdown"
	File         Type = "file"
	Relationship Type = "relationship"
	NestedSchema Type = "nested_schema"
)

// Types returns every supported field type in display order.
func Types() []Type {
	return []Type{String, Text, Number, Boolean, Date, Dropdown, File, Relationship, NestedSchema}
}

// IsValid reports whether t is a supported field type.
func (t Type) IsValid() bool {
	for _, known := range Types() {
		if t == known {
			return true
		}
	}
	return false
}

// Definition is one persisted schema column as exchanged with the backend.
type Definition struct {
	ID              string          `json:"id,omitempty" yaml:"id,omitempty"`
	IndexOrder      string          `json:"indexOrder" yaml:"indexOrder"`
	FieldConfig     Config          `json:"fieldConfig" yaml:"fieldConfig"`
	ValidationRules ValidationRules `json:"validationRules" yaml:"validationRules"`
	ConfigOptions   Options         `json:"configOptions" yaml:"configOptions"`
	DefaultValue    any             `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
}

// Config holds the display and identity settings of a field.
type Config struct {
	Label       string `json:"label" yaml:"label"`
	Key         string `json:"key" yaml:"key"`
	Type        Type   `json:"type" yaml:"type"`
	Placeholder string `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	HelpText    string `json:"helpText,omitempty" yaml:"helpText,omitempty"`
	Readonly    bool   `json:"readonly,omitempty" yaml:"readonly,omitempty"`
	Hidden      bool   `json:"hidden,omitempty" yaml:"hidden,omitempty"`
}

// ValidationRules are the per-field value constraints. Nil pointers mean "unset".
type ValidationRules struct {
	Required  bool     `json:"required,omitempty" yaml:"required,omitempty"`
	MinLength *int     `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength *int     `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	MinValue  *float64 `json:"minValue,omitempty" yaml:"minValue,omitempty"`
	MaxValue  *float64 `json:"maxValue,omitempty" yaml:"maxValue,omitempty"`
	Step      *float64 `json:"step,omitempty" yaml:"step,omitempty"`
	Pattern   string   `json:"pattern,omitempty" yaml:"pattern,omitempty"`
}

// Options is the type-specific configuration. Only the block matching the
// field type is expected to be set.
type Options struct {
	DropdownOptions    []DropdownOption    `json:"dropdownOptions,omitempty" yaml:"dropdownOptions,omitempty"`
	FileConfig         *FileConfig         `json:"fileConfig,omitempty" yaml:"fileConfig,omitempty"`
	DateConfig         *DateConfig         `json:"dateConfig,omitempty" yaml:"dateConfig,omitempty"`
	BooleanConfig      *BooleanConfig      `json:"booleanConfig,omitempty" yaml:"booleanConfig,omitempty"`
	RelationshipConfig *RelationshipConfig `json:"relationshipConfig,omitempty" yaml:"relationshipConfig,omitempty"`
	NestedSchemaConfig *NestedSchemaConfig `json:"nestedSchemaConfig,omitempty" yaml:"nestedSchemaConfig,omitempty"`
}

// DropdownOption is a selectable value of a dropdown field.
type DropdownOption struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

// FileConfig restricts what a file field accepts.
type FileConfig struct {
	AllowedTypes []string `json:"allowedTypes,omitempty" yaml:"allowedTypes,omitempty"`
	MaxSizeMB    *float64 `json:"maxSize,omitempty" yaml:"maxSize,omitempty"`
	Multiple     bool     `json:"multiple,omitempty" yaml:"multiple,omitempty"`
	MaxFiles     *int     `json:"maxFiles,omitempty" yaml:"maxFiles,omitempty"`
}

// DateConfig controls date rendering and bounds.
type DateConfig struct {
	Format      string `json:"format,omitempty" yaml:"format,omitempty"`
	IncludeTime bool   `json:"includeTime,omitempty" yaml:"includeTime,omitempty"`
	MinDate     string `json:"minDate,omitempty" yaml:"minDate,omitempty"`
	MaxDate     string `json:"maxDate,omitempty" yaml:"maxDate,omitempty"`
}

// BooleanConfig controls boolean rendering.
type BooleanConfig struct {
	TrueLabel  string `json:"trueLabel,omitempty" yaml:"trueLabel,omitempty"`
	FalseLabel string `json:"falseLabel,omitempty" yaml:"falseLabel,omitempty"`
	DisplayAs  string `json:"displayAs,omitempty" yaml:"displayAs,omitempty"` // checkbox | switch
}

// RelationshipConfig points a relationship field at another collection.
type RelationshipConfig struct {
	RelatedCollectionID string `json:"relatedCollectionId" yaml:"relatedCollectionId"`
	Multiple            bool   `json:"multiple,omitempty" yaml:"multiple,omitempty"`
	DisplayField        string `json:"displayField,omitempty" yaml:"displayField,omitempty"`
}

// NestedSchemaConfig holds the sub-fields of a nested_schema field.
// Sub-field keys are scoped to this list.
type NestedSchemaConfig struct {
	Fields   []Definition `json:"fields" yaml:"fields"`
	Multiple bool         `json:"multiple,omitempty" yaml:"multiple,omitempty"`
}

// Key returns the field key.
func (d Definition) Key() string { return d.FieldConfig.Key }

// Type returns the field type discriminator.
func (d Definition) Type() Type { return d.FieldConfig.Type }

// NestedFields returns the sub-field scope of a nested_schema field, or nil.
func (d Definition) NestedFields() []Definition {
	if d.ConfigOptions.NestedSchemaConfig == nil {
		return nil
	}
	return d.ConfigOptions.NestedSchemaConfig.Fields
}

// RelatedCollectionID returns the relationship target, or "".
func (d Definition) RelatedCollectionID() string {
	if d.ConfigOptions.RelationshipConfig == nil {
		return ""
	}
	return d.ConfigOptions.RelationshipConfig.RelatedCollectionID
}
