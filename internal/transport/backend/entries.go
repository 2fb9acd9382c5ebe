package backend

import (
	"context"
	"net/http"
	"net/url"

	domentry "github.com/kailas-cloud/cmsconsole/internal/domain/entry"
)

type createEntryRequest struct {
	Data      map[string]any `json:"data"`
	Published bool           `json:"published"`
}

type entryDataRequest struct {
	Data map[string]any `json:"data,omitempty"`
}

// ListEntries returns one page of a collection's entries.
func (c *Client) ListEntries(ctx context.Context, projectID, collectionID string, p domentry.ListParams) (domentry.Page, error) {
	u, err := c.entriesURL(projectID, collectionID)
	if err != nil {
		return domentry.Page{}, err
	}
	q := u.Query()
	if p.Search != "" {
		if err := addQuery(q, "search", p.Search); err != nil {
			return domentry.Page{}, err
		}
	}
	if p.Page > 0 {
		if err := addQuery(q, "page", p.Page); err != nil {
			return domentry.Page{}, err
		}
	}
	if p.Limit > 0 {
		if err := addQuery(q, "limit", p.Limit); err != nil {
			return domentry.Page{}, err
		}
	}
	u.RawQuery = q.Encode()

	req, err := newJSONRequest(ctx, http.MethodGet, u, nil)
	if err != nil {
		return domentry.Page{}, err
	}
	var page domentry.Page
	if err := c.do(ctx, "list_entries", req, &page); err != nil {
		return domentry.Page{}, err
	}
	return page, nil
}

// GetEntry fetches one entry.
func (c *Client) GetEntry(ctx context.Context, projectID, collectionID, entryID string) (domentry.Entry, error) {
	return c.entryCall(ctx, "get_entry", http.MethodGet, "", projectID, collectionID, entryID, nil)
}

// CreateEntry stores a new entry, published or as a draft.
func (c *Client) CreateEntry(ctx context.Context, projectID, collectionID string, data map[string]any, publish bool) (domentry.Entry, error) {
	u, err := c.entriesURL(projectID, collectionID)
	if err != nil {
		return domentry.Entry{}, err
	}
	if data == nil {
		data = map[string]any{}
	}
	req, err := newJSONRequest(ctx, http.MethodPost, u, createEntryRequest{Data: data, Published: publish})
	if err != nil {
		return domentry.Entry{}, err
	}
	var e domentry.Entry
	if err := c.do(ctx, "create_entry", req, &e); err != nil {
		return domentry.Entry{}, err
	}
	return e, nil
}

// SaveDraft replaces the entry's draft.
func (c *Client) SaveDraft(ctx context.Context, projectID, collectionID, entryID string, data map[string]any) (domentry.Entry, error) {
	return c.entryCall(ctx, "save_draft", http.MethodPut, "/draft", projectID, collectionID, entryID,
		entryDataRequest{Data: data})
}

// Publish publishes the entry; data, when non-nil, replaces its content first.
func (c *Client) Publish(ctx context.Context, projectID, collectionID, entryID string, data map[string]any) (domentry.Entry, error) {
	return c.entryCall(ctx, "publish_entry", http.MethodPost, "/publish", projectID, collectionID, entryID,
		entryDataRequest{Data: data})
}

// Unpublish withdraws the entry.
func (c *Client) Unpublish(ctx context.Context, projectID, collectionID, entryID string) (domentry.Entry, error) {
	return c.entryCall(ctx, "unpublish_entry", http.MethodPost, "/unpublish", projectID, collectionID, entryID, nil)
}

func (c *Client) entriesURL(projectID, collectionID string) (*url.URL, error) {
	return c.operationURL("/projects/%s/collections/%s/entries",
		"projectId", projectID, "collectionId", collectionID)
}

func (c *Client) entryCall(
	ctx context.Context, operation, method, suffix, projectID, collectionID, entryID string, body any,
) (domentry.Entry, error) {
	u, err := c.operationURL("/projects/%s/collections/%s/entries/%s"+suffix,
		"projectId", projectID, "collectionId", collectionID, "entryId", entryID)
	if err != nil {
		return domentry.Entry{}, err
	}
	req, err := newJSONRequest(ctx, method, u, body)
	if err != nil {
		return domentry.Entry{}, err
	}
	var e domentry.Entry
	if err := c.do(ctx, operation, req, &e); err != nil {
		return domentry.Entry{}, err
	}
	return e, nil
}
