package schema

import (
	"time"

	"github.com/kailas-cloud/cmsconsole/internal/domain/field"
)

// Session is one schema editing session: the working field list and the
// snapshot it is diffed against.
type Session struct {
	ID           string          `json:"id"`
	UserID       string          `json:"userId,omitempty"`
	ProjectID    string          `json:"projectId"`
	CollectionID string          `json:"collectionId"`
	Fields       []EditableField `json:"fields"`
	Snapshot     Snapshot        `json:"snapshot"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// NewSession starts a session from freshly loaded definitions.
func NewSession(id, userID, projectID, collectionID string, defs []field.Definition, now time.Time) *Session {
	return &Session{
		ID:           id,
		UserID:       userID,
		ProjectID:    projectID,
		CollectionID: collectionID,
		Fields:       Normalize(defs),
		Snapshot:     NewSnapshot(defs),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Reload replaces the snapshot and working fields after a successful save.
func (s *Session) Reload(defs []field.Definition, now time.Time) {
	s.Fields = Normalize(defs)
	s.Snapshot = NewSnapshot(defs)
	s.UpdatedAt = now
}

// Keep stores unsaved edits without touching the snapshot.
func (s *Session) Keep(edited []EditableField, now time.Time) {
	s.Fields = edited
	s.UpdatedAt = now
}

// AssignLocalIDs gives every field without an id a fresh local id, recursively.
func AssignLocalIDs(fields []EditableField, next func() string) {
	for i := range fields {
		if fields[i].ID == "" {
			fields[i].ID = next()
		}
		AssignLocalIDs(fields[i].NestedFields, next)
	}
}
