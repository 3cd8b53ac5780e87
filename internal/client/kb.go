package client

import (
	"context"
	"net/http"
	"net/url"

	"aurelia/internal/types"
)

type knowledgeBasesResponse struct {
	Items []*types.KnowledgeBase `json:"items"`
}

type kbDocumentsResponse struct {
	Items []*types.KBDocument `json:"items"`
}

type retrievalResponse struct {
	Items []*types.RetrievalHit `json:"items"`
}

func (c *Client) ListKnowledgeBases(ctx context.Context) ([]*types.KnowledgeBase, error) {
	var resp knowledgeBasesResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/kb", nil, true, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (c *Client) CreateKnowledgeBase(ctx context.Context, kb *types.KnowledgeBase) (*types.KnowledgeBase, error) {
	var created types.KnowledgeBase
	if err := c.doJSON(ctx, http.MethodPost, "/v1/kb", kb, true, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// BuildKnowledgeBase indexes the given documents into the knowledge base.
// Chunking and embedding happen server-side; the result reports counts only.
func (c *Client) BuildKnowledgeBase(ctx context.Context, kbID string, docs []KBBuildDocument) (*types.KBBuildResult, error) {
	req := struct {
		Documents []KBBuildDocument `json:"documents"`
	}{Documents: docs}
	var result types.KBBuildResult
	path := "/v1/kb/" + url.PathEscape(kbID) + "/build"
	if err := c.doJSON(ctx, http.MethodPost, path, req, true, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ListKBDocuments(ctx context.Context, kbID string) ([]*types.KBDocument, error) {
	var resp kbDocumentsResponse
	path := "/v1/kb/" + url.PathEscape(kbID) + "/documents"
	if err := c.doJSON(ctx, http.MethodGet, path, nil, true, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (c *Client) RetrievalQuery(ctx context.Context, req RetrievalQueryRequest) ([]*types.RetrievalHit, error) {
	var resp retrievalResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/retrieval/query", req, true, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}
