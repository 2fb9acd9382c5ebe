package schema

import (
	"encoding/json"

	"github.com/kailas-cloud/cmsconsole/internal/domain/field"
)

// Snapshot is the immutable, ordered id → definition map captured when a
// schema is loaded. It is only replaced after a successful save.
type Snapshot struct {
	ids  []string
	byID map[string]field.Definition
}

// NewSnapshot captures defs. Definitions without an id are skipped; the
// first occurrence of a duplicated id wins.
func NewSnapshot(defs []field.Definition) Snapshot {
	s := Snapshot{
		ids:  make([]string, 0, len(defs)),
		byID: make(map[string]field.Definition, len(defs)),
	}
	for _, d := range defs {
		if d.ID == "" {
			continue
		}
		if _, dup := s.byID[d.ID]; dup {
			continue
		}
		s.ids = append(s.ids, d.ID)
		s.byID[d.ID] = d.Clone()
	}
	return s
}

// Get returns a copy of the original definition for id.
func (s Snapshot) Get(id string) (field.Definition, bool) {
	d, ok := s.byID[id]
	if !ok {
		return field.Definition{}, false
	}
	return d.Clone(), true
}

// Has reports whether id existed at load time.
func (s Snapshot) Has(id string) bool {
	_, ok := s.byID[id]
	return ok
}

// IDs returns the captured ids in their original order.
func (s Snapshot) IDs() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// Len returns the number of captured fields.
func (s Snapshot) Len() int { return len(s.ids) }

// Definitions returns copies of the captured definitions in original order.
func (s Snapshot) Definitions() []field.Definition {
	out := make([]field.Definition, len(s.ids))
	for i, id := range s.ids {
		out[i] = s.byID[id].Clone()
	}
	return out
}

// MarshalJSON encodes the snapshot as its ordered definition list.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Definitions())
}

// UnmarshalJSON restores a snapshot written by MarshalJSON.
func (s *Snapshot) UnmarshalJSON(b []byte) error {
	var defs []field.Definition
	if err := json.Unmarshal(b, &defs); err != nil {
		return err
	}
	*s = NewSnapshot(defs)
	return nil
}
