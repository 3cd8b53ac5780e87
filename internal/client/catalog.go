package client

import (
	"context"
	"net/http"
	"net/url"

	"aurelia/internal/types"
)

type toolBindingsResponse struct {
	Items []*types.ToolBinding `json:"items"`
}

type agentRolesResponse struct {
	Items []*types.AgentRole `json:"items"`
}

type providersResponse struct {
	Items []*types.Provider `json:"items"`
}

type modelCatalogResponse struct {
	Items []*types.ModelCatalogEntry `json:"items"`
}

type runtimeProfilesResponse struct {
	Items []*types.RuntimeProfile `json:"items"`
}

// ListToolBindings returns the MCP server catalog. Read-only here; writes go
// through the settings surface below.
func (c *Client) ListToolBindings(ctx context.Context) ([]*types.ToolBinding, error) {
	var resp toolBindingsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/mcp/servers", nil, true, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (c *Client) CreateToolBinding(ctx context.Context, binding *types.ToolBinding) (*types.ToolBinding, error) {
	var created types.ToolBinding
	if err := c.doJSON(ctx, http.MethodPost, "/v1/mcp/servers", binding, true, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) ListAgentRoles(ctx context.Context) ([]*types.AgentRole, error) {
	var resp agentRolesResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/agent/roles", nil, true, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (c *Client) ListProviders(ctx context.Context) ([]*types.Provider, error) {
	var resp providersResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/providers", nil, true, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (c *Client) CreateProvider(ctx context.Context, provider *types.Provider) (*types.Provider, error) {
	var created types.Provider
	if err := c.doJSON(ctx, http.MethodPost, "/v1/providers", provider, true, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// RefreshProviderModels re-reads the provider's model list, merging in any
// manually supplied model names.
func (c *Client) RefreshProviderModels(ctx context.Context, providerID string, req RefreshModelsRequest) ([]*types.ModelCatalogEntry, error) {
	var resp modelCatalogResponse
	path := "/v1/providers/" + url.PathEscape(providerID) + "/refresh-models"
	if err := c.doJSON(ctx, http.MethodPost, path, req, true, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (c *Client) ListModelCatalog(ctx context.Context) ([]*types.ModelCatalogEntry, error) {
	var resp modelCatalogResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/models", nil, true, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (c *Client) ListRuntimeProfiles(ctx context.Context) ([]*types.RuntimeProfile, error) {
	var resp runtimeProfilesResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/runtime-profiles", nil, true, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (c *Client) CreateRuntimeProfile(ctx context.Context, profile *types.RuntimeProfile) (*types.RuntimeProfile, error) {
	var created types.RuntimeProfile
	if err := c.doJSON(ctx, http.MethodPost, "/v1/runtime-profiles", profile, true, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateQABindings replaces the global tool-binding set used by the QA agent
// when a session has no defaults of its own.
func (c *Client) UpdateQABindings(ctx context.Context, bindingIDs []string) error {
	req := struct {
		BindingIDs []string `json:"binding_ids"`
	}{BindingIDs: bindingIDs}
	return c.doJSON(ctx, http.MethodPut, "/v1/agent/qa/mcp-bindings", req, true, nil)
}
