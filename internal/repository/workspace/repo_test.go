package workspace

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/cmsconsole/internal/db"
	"github.com/kailas-cloud/cmsconsole/internal/domain"
	domws "github.com/kailas-cloud/cmsconsole/internal/domain/workspace"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hsetFn    func(ctx context.Context, key string, fields map[string]string, ttl time.Duration) error
	hgetAllFn func(ctx context.Context, key string) (map[string]string, error)
	delFn     func(ctx context.Context, key string) error
}

func (m *mockStore) HSet(ctx context.Context, key string, fields map[string]string, ttl time.Duration) error {
	if m.hsetFn != nil {
		return m.hsetFn(ctx, key, fields, ttl)
	}
	return nil
}

func (m *mockStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if m.hgetAllFn != nil {
		return m.hgetAllFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockStore) Del(ctx context.Context, key string) error {
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	return nil
}

func TestSave_WritesHash(t *testing.T) {
	var gotKey string
	var gotFields map[string]string
	var gotTTL time.Duration
	ms := &mockStore{hsetFn: func(_ context.Context, key string, fields map[string]string, ttl time.Duration) error {
		gotKey, gotFields, gotTTL = key, fields, ttl
		return nil
	}}

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	err := New(ms, 0).Save(context.Background(), domws.Context{
		UserID: "u1", OrganizationID: "acme", ProjectID: "site", SelectedAt: at,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotKey != "cmsconsole:workspace:u1" {
		t.Errorf("key = %q", gotKey)
	}
	if gotFields["organization_id"] != "acme" || gotFields["project_id"] != "site" {
		t.Errorf("fields = %v", gotFields)
	}
	if gotFields["selected_at"] != "2026-03-01T12:00:00Z" || gotTTL != 0 {
		t.Errorf("selected_at = %q ttl = %v", gotFields["selected_at"], gotTTL)
	}
}

func TestSave_OmitsEmptyProject(t *testing.T) {
	var gotFields map[string]string
	ms := &mockStore{hsetFn: func(_ context.Context, _ string, fields map[string]string, _ time.Duration) error {
		gotFields = fields
		return nil
	}}
	if err := New(ms, 0).Save(context.Background(), domws.Context{UserID: "u1", OrganizationID: "acme"}); err != nil {
		t.Fatal(err)
	}
	if _, ok := gotFields["project_id"]; ok {
		t.Errorf("fields = %v", gotFields)
	}
}

func TestGet_Success(t *testing.T) {
	ms := &mockStore{hgetAllFn: func(_ context.Context, key string) (map[string]string, error) {
		if key != "cmsconsole:workspace:u1" {
			t.Errorf("key = %q", key)
		}
		return map[string]string{
			"organization_id": "acme",
			"project_id":      "site",
			"selected_at":     "2026-03-01T12:00:00Z",
		}, nil
	}}

	wc, err := New(ms, 0).Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := domws.Context{
		UserID: "u1", OrganizationID: "acme", ProjectID: "site",
		SelectedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	if !wc.SelectedAt.Equal(want.SelectedAt) || wc.OrganizationID != want.OrganizationID || wc.ProjectID != want.ProjectID {
		t.Errorf("got %+v, want %+v", wc, want)
	}
}

func TestGet_Missing(t *testing.T) {
	if _, err := New(&mockStore{}, 0).Get(context.Background(), "u1"); !errors.Is(err, domain.ErrNoWorkspace) {
		t.Errorf("expected ErrNoWorkspace, got %v", err)
	}
}

func TestGet_HashWithoutOrganization(t *testing.T) {
	ms := &mockStore{hgetAllFn: func(context.Context, string) (map[string]string, error) {
		return map[string]string{"project_id": "site"}, nil
	}}
	if _, err := New(ms, 0).Get(context.Background(), "u1"); !errors.Is(err, domain.ErrNoWorkspace) {
		t.Errorf("expected ErrNoWorkspace, got %v", err)
	}
}

func TestGet_StoreError(t *testing.T) {
	ms := &mockStore{hgetAllFn: func(context.Context, string) (map[string]string, error) {
		return nil, errors.New("timeout")
	}}
	_, err := New(ms, 0).Get(context.Background(), "u1")
	if err == nil || errors.Is(err, domain.ErrNoWorkspace) {
		t.Errorf("expected store error, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	var deleted string
	ms := &mockStore{delFn: func(_ context.Context, key string) error {
		deleted = key
		return nil
	}}
	if err := New(ms, 0).Delete(context.Background(), "u1"); err != nil {
		t.Fatal(err)
	}
	if deleted != "cmsconsole:workspace:u1" {
		t.Errorf("deleted = %q", deleted)
	}
}
