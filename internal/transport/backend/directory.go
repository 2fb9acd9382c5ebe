package backend

import (
	"context"
	"net/http"

	domws "github.com/kailas-cloud/cmsconsole/internal/domain/workspace"
)

type organizationsResponse struct {
	Items []domws.Organization `json:"items"`
}

type projectsResponse struct {
	Items []domws.Project `json:"items"`
}

// ListOrganizations lists the organizations the caller belongs to.
func (c *Client) ListOrganizations(ctx context.Context) ([]domws.Organization, error) {
	u, err := c.operationURL("/organizations")
	if err != nil {
		return nil, err
	}
	req, err := newJSONRequest(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	var resp organizationsResponse
	if err := c.do(ctx, "list_organizations", req, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// ListProjects lists the projects of an organization.
func (c *Client) ListProjects(ctx context.Context, organizationID string) ([]domws.Project, error) {
	u, err := c.operationURL("/organizations/%s/projects", "organizationId", organizationID)
	if err != nil {
		return nil, err
	}
	req, err := newJSONRequest(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	var resp projectsResponse
	if err := c.do(ctx, "list_projects", req, &resp); err != nil {
		return nil, err
	}
	for i := range resp.Items {
		if resp.Items[i].OrganizationID == "" {
			resp.Items[i].OrganizationID = organizationID
		}
	}
	return resp.Items, nil
}

// Health checks that the backend answers.
func (c *Client) Health(ctx context.Context) error {
	u, err := c.operationURL("/health")
	if err != nil {
		return err
	}
	req, err := newJSONRequest(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	return c.do(ctx, "health", req, nil)
}
