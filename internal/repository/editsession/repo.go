// Package editsession persists schema editor sessions as JSON documents under
// expiring keys, so unsaved edits survive page reloads.
package editsession

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/cmsconsole/internal/db"
	"github.com/kailas-cloud/cmsconsole/internal/domain"
	domschema "github.com/kailas-cloud/cmsconsole/internal/domain/schema"
)

// DefaultTTL is used when New is given a non-positive ttl.
const DefaultTTL = 24 * time.Hour

// store is the consumer interface for sessions (ISP).
type store interface {
	GetEx(ctx context.Context, key string, ttl time.Duration) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// Repo implements usecase/schema.SessionStore.
type Repo struct {
	store store
	ttl   time.Duration
}

// New creates a session repository. Every read and write restarts the ttl.
func New(s store, ttl time.Duration) *Repo {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Repo{store: s, ttl: ttl}
}

// Save stores the session, replacing any previous version.
func (r *Repo) Save(ctx context.Context, sess *domschema.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session %s: %w", sess.ID, err)
	}
	if err := r.store.SetWithTTL(ctx, sessionKey(sess.ID), data, r.ttl); err != nil {
		return fmt.Errorf("save session %s: %w", sess.ID, err)
	}
	return nil
}

// Get loads a session. Expired or unknown ids return domain.ErrSessionNotFound.
func (r *Repo) Get(ctx context.Context, id string) (*domschema.Session, error) {
	data, err := r.store.GetEx(ctx, sessionKey(id), r.ttl)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session %s: %w", id, err)
	}

	var sess domschema.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &sess, nil
}

// Delete removes a session. Unknown ids are ignored.
func (r *Repo) Delete(ctx context.Context, id string) error {
	if err := r.store.Del(ctx, sessionKey(id)); err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	return nil
}

func sessionKey(id string) string {
	return fmt.Sprintf("%seditsession:%s", domain.KeyPrefix, id)
}
