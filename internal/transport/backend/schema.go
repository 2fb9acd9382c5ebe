package backend

import (
	"context"
	"net/http"

	"github.com/kailas-cloud/cmsconsole/internal/domain/changeset"
	"github.com/kailas-cloud/cmsconsole/internal/domain/field"
)

type schemaResponse struct {
	Fields []field.Definition `json:"fields"`
}

// GetSchema fetches the field definitions of a collection.
func (c *Client) GetSchema(ctx context.Context, projectID, collectionID string) ([]field.Definition, error) {
	u, err := c.operationURL("/projects/%s/collections/%s/schema",
		"projectId", projectID, "collectionId", collectionID)
	if err != nil {
		return nil, err
	}
	req, err := newJSONRequest(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	var resp schemaResponse
	if err := c.do(ctx, "get_schema", req, &resp); err != nil {
		return nil, err
	}
	return resp.Fields, nil
}

// UpdateSchema submits a change-set.
func (c *Client) UpdateSchema(ctx context.Context, projectID, collectionID string, cs changeset.ChangeSet) error {
	u, err := c.operationURL("/projects/%s/collections/%s/schema",
		"projectId", projectID, "collectionId", collectionID)
	if err != nil {
		return err
	}
	req, err := newJSONRequest(ctx, http.MethodPost, u, cs)
	if err != nil {
		return err
	}
	return c.do(ctx, "update_schema", req, nil)
}
