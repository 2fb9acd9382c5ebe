package field

import (
	"fmt"
	"regexp"

	"github.com/kailas-cloud/cmsconsole/internal/domain"
)

const maxKeyLength = 64

var keyRegex = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Validate checks a sibling field list: keys present, well-formed and unique,
// types known, type-specific configuration coherent. Nested schemas are
// validated recursively in their own key scope.
func Validate(fields []Definition) error {
	return validateScope(fields, "")
}

func validateScope(fields []Definition, prefix string) error {
	seen := make(map[string]bool, len(fields))
	for i, d := range fields {
		key := d.FieldConfig.Key
		path := prefix + key
		if key == "" {
			return domain.NewValidationError(fmt.Sprintf("%s#%d", prefix, i), "key is required")
		}
		if len(key) > maxKeyLength {
			return domain.NewValidationError(path, fmt.Sprintf("key too long (max %d)", maxKeyLength))
		}
		if !keyRegex.MatchString(key) {
			return domain.NewValidationError(path, "key must start with a letter or underscore and contain only letters, digits and underscores")
		}
		if seen[key] {
			return domain.NewValidationError(path, "duplicate key")
		}
		seen[key] = true

		verr, err := Visit[error](d, validator{path: path})
		if err != nil {
			return domain.NewValidationError(path, err.Error())
		}
		if verr != nil {
			return verr
		}
	}
	return nil
}

// validator checks the per-type invariants of one definition.
type validator struct {
	path string
}

func (v validator) String(d Definition) error { return v.lengths(d.ValidationRules) }
func (v validator) Text(d Definition) error   { return v.lengths(d.ValidationRules) }

func (v validator) Number(d Definition) error {
	r := d.ValidationRules
	if r.MinValue != nil && r.MaxValue != nil && *r.MinValue > *r.MaxValue {
		return domain.NewValidationError(v.path, "minValue exceeds maxValue")
	}
	if r.Step != nil && *r.Step <= 0 {
		return domain.NewValidationError(v.path, "step must be positive")
	}
	return nil
}

func (v validator) Boolean(Definition) error { return nil }
func (v validator) Date(Definition) error    { return nil }

func (v validator) Dropdown(d Definition) error {
	if len(d.ConfigOptions.DropdownOptions) == 0 {
		return domain.NewValidationError(v.path, "dropdown needs at least one option")
	}
	values := make(map[string]bool, len(d.ConfigOptions.DropdownOptions))
	for _, o := range d.ConfigOptions.DropdownOptions {
		if values[o.Value] {
			return domain.NewValidationError(v.path, fmt.Sprintf("duplicate dropdown value %q", o.Value))
		}
		values[o.Value] = true
	}
	return nil
}

func (v validator) File(d Definition) error {
	fc := d.ConfigOptions.FileConfig
	if fc != nil && fc.MaxFiles != nil && *fc.MaxFiles < 1 {
		return domain.NewValidationError(v.path, "maxFiles must be at least 1")
	}
	return nil
}

func (v validator) Relationship(d Definition) error {
	if d.RelatedCollectionID() == "" {
		return domain.NewValidationError(v.path, "relationship needs a related collection")
	}
	return nil
}

func (v validator) NestedSchema(d Definition) error {
	nested := d.NestedFields()
	if len(nested) == 0 {
		return domain.NewValidationError(v.path, "nested schema needs at least one field")
	}
	return validateScope(nested, v.path+".")
}

func (v validator) lengths(r ValidationRules) error {
	if r.MinLength != nil && *r.MinLength < 0 {
		return domain.NewValidationError(v.path, "minLength must not be negative")
	}
	if r.MinLength != nil && r.MaxLength != nil && *r.MinLength > *r.MaxLength {
		return domain.NewValidationError(v.path, "minLength exceeds maxLength")
	}
	if r.Pattern != "" {
		if _, err := regexp.Compile(r.Pattern); err != nil {
			return domain.NewValidationError(v.path, "invalid pattern")
		}
	}
	return nil
}
