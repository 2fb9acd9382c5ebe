// Package changeset computes the create/update/delete delta between an
// edited field list and the snapshot captured when the schema was loaded.
package changeset

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/kailas-cloud/cmsconsole/internal/domain/field"
	"github.com/kailas-cloud/cmsconsole/internal/domain/schema"
)

// Deletion identifies a persisted field to remove.
type Deletion struct {
	ID string `json:"id"`
}

// ChangeSet is the payload of a schema update request.
type ChangeSet struct {
	ToCreate []field.Definition `json:"toCreate"`
	ToUpdate []field.Definition `json:"toUpdate,omitempty"`
	ToDelete []Deletion         `json:"toDelete,omitempty"`
}

// IsEmpty reports whether the change-set carries no operation.
func (c ChangeSet) IsEmpty() bool {
	return len(c.ToCreate) == 0 && len(c.ToUpdate) == 0 && len(c.ToDelete) == 0
}

// String summarizes operation counts, e.g. "create=1 update=0 delete=2".
func (c ChangeSet) String() string {
	return fmt.Sprintf("create=%d update=%d delete=%d", len(c.ToCreate), len(c.ToUpdate), len(c.ToDelete))
}

// MarshalJSON always emits toCreate, as an empty array when nothing is created.
func (c ChangeSet) MarshalJSON() ([]byte, error) {
	type plain ChangeSet
	if c.ToCreate == nil {
		c.ToCreate = []field.Definition{}
	}
	return json.Marshal(plain(c))
}

// equalOpts compares definitions the way the backend stores them. Nested
// sub-fields are compared in list order, so their stored indexOrder is
// ignored. Numbers compare by value whatever their Go type, since defaults
// decoded from JSON are float64 and from YAML are int.
var equalOpts = cmp.Options{
	cmpopts.EquateEmpty(),
	cmp.FilterPath(isNestedIndexOrder, cmp.Ignore()),
	cmp.FilterValues(bothNumbers, cmp.Comparer(func(x, y any) bool {
		a, _ := asFloat(x)
		b, _ := asFloat(y)
		return a == b
	})),
}

func isNestedIndexOrder(p cmp.Path) bool {
	sf, ok := p.Last().(cmp.StructField)
	return ok && sf.Name() == "IndexOrder" && p.Index(-2).Type() == reflect.TypeFor[field.Definition]()
}

func bothNumbers(x, y any) bool {
	_, okx := asFloat(x)
	_, oky := asFloat(y)
	return okx && oky
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// Diff compares edited, in its final order, against snap.
//
// A field is created when its id is empty, locally generated, or unknown to
// the snapshot; created records carry no id and get their list position as
// indexOrder. A snapshot id missing from edited is deleted, readonly or not.
// A field present in both is updated when it is not readonly in the edit and
// its configuration, validation rules, options, default value or position
// changed. Repeated ids are considered once, at their first position.
func Diff(edited []schema.EditableField, snap schema.Snapshot) ChangeSet {
	cs := ChangeSet{ToCreate: []field.Definition{}}
	kept := make(map[string]bool, len(edited))

	for i, ef := range edited {
		if ef.ID != "" && kept[ef.ID] {
			continue
		}
		def := ef.Definition(i)

		orig, ok := snap.Get(ef.ID)
		if ef.ID == "" || field.IsLocalID(ef.ID) || !ok {
			def.ID = ""
			cs.ToCreate = append(cs.ToCreate, stripLocalIDs(def))
			continue
		}
		kept[ef.ID] = true

		if ef.Readonly {
			continue
		}
		if changed(orig, def, i) {
			cs.ToUpdate = append(cs.ToUpdate, stripLocalIDs(def))
		}
	}

	for _, id := range snap.IDs() {
		if !kept[id] {
			cs.ToDelete = append(cs.ToDelete, Deletion{ID: id})
		}
	}
	return cs
}

func changed(orig, cur field.Definition, index int) bool {
	if orig.IndexOrder != strconv.Itoa(index) {
		return true
	}
	return !cmp.Equal(orig.FieldConfig, cur.FieldConfig, equalOpts) ||
		!cmp.Equal(orig.ValidationRules, cur.ValidationRules, equalOpts) ||
		!cmp.Equal(orig.ConfigOptions, cur.ConfigOptions, equalOpts) ||
		!cmp.Equal(orig.DefaultValue, cur.DefaultValue, equalOpts)
}

// stripLocalIDs clears editor-minted ids from nested sub-fields; the backend
// assigns real ids on save.
func stripLocalIDs(d field.Definition) field.Definition {
	nc := d.ConfigOptions.NestedSchemaConfig
	if nc == nil {
		return d
	}
	fields := make([]field.Definition, len(nc.Fields))
	for i, sub := range nc.Fields {
		if field.IsLocalID(sub.ID) {
			sub.ID = ""
		}
		fields[i] = stripLocalIDs(sub)
	}
	cp := *nc
	cp.Fields = fields
	d.ConfigOptions.NestedSchemaConfig = &cp
	return d
}
