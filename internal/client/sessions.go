package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"aurelia/internal/types"
)

type sessionsResponse struct {
	Items []*types.Session `json:"items"`
}

type messagesResponse struct {
	Items []*types.Message `json:"items"`
}

func (c *Client) ListSessions(ctx context.Context) ([]*types.Session, error) {
	var resp sessionsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/chat/sessions", nil, true, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (c *Client) CreateSession(ctx context.Context, cfg types.SessionConfig) (*types.Session, error) {
	var session types.Session
	if err := c.doJSON(ctx, http.MethodPost, "/v1/chat/sessions", cfg, true, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) UpdateSession(ctx context.Context, id string, cfg types.SessionConfig) (*types.Session, error) {
	var session types.Session
	path := "/v1/chat/sessions/" + url.PathEscape(id)
	if err := c.doJSON(ctx, http.MethodPatch, path, cfg, true, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) CopySession(ctx context.Context, id string) (*types.Session, error) {
	var session types.Session
	path := "/v1/chat/sessions/" + url.PathEscape(id) + "/copy"
	if err := c.doJSON(ctx, http.MethodPost, path, nil, true, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// BranchSession creates a new session seeded with the source session's
// message history. The seeded history shows up on the next timeline refresh
// for the returned session id.
func (c *Client) BranchSession(ctx context.Context, id string) (*types.Session, error) {
	var session types.Session
	path := "/v1/chat/sessions/" + url.PathEscape(id) + "/branch"
	if err := c.doJSON(ctx, http.MethodPost, path, nil, true, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) DeleteSession(ctx context.Context, id string) error {
	path := "/v1/chat/sessions/" + url.PathEscape(id)
	return c.doJSON(ctx, http.MethodDelete, path, nil, true, nil)
}

// DeleteSessions reports per-id outcomes; a partially failing batch is not
// collapsed into a single error.
func (c *Client) DeleteSessions(ctx context.Context, ids []string) (*BatchDeleteResult, error) {
	req := struct {
		IDs []string `json:"ids"`
	}{IDs: ids}
	var result BatchDeleteResult
	if err := c.doJSON(ctx, http.MethodPost, "/v1/chat/sessions/batch-delete", req, true, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ListMessages(ctx context.Context, sessionID string) ([]*types.Message, error) {
	var resp messagesResponse
	path := "/v1/chat/sessions/" + url.PathEscape(sessionID) + "/messages"
	if err := c.doJSON(ctx, http.MethodGet, path, nil, true, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// Query is the non-streaming submission path: a single terminal result with
// no partial increments.
func (c *Client) Query(ctx context.Context, req QueryRequest) (*QueryResult, error) {
	var result QueryResult
	if err := c.doJSON(ctx, http.MethodPost, "/v1/chat/qa", req, true, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) UploadAttachment(ctx context.Context, sessionID, fileName string, content io.Reader) (*types.AttachmentRef, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	path := "/v1/chat/sessions/" + url.PathEscape(sessionID) + "/attachments"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-Trace-Id", uuid.NewString())
	if err := c.ensureToken(); err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &APIError{Kind: KindTransport, Message: err.Error()}
	}
	defer resp.Body.Close()

	var ref types.AttachmentRef
	if err := decodeEnvelope(resp, &ref); err != nil {
		return nil, err
	}
	return &ref, nil
}

// ExportSession returns the rendered export payload for one session.
// Format is "json" or "md"; anything else is rejected server-side.
func (c *Client) ExportSession(ctx context.Context, id, format string) ([]byte, error) {
	path := fmt.Sprintf("/v1/chat/sessions/%s/export?format=%s", url.PathEscape(id), url.QueryEscape(format))
	return c.download(ctx, path)
}

// BulkExportSessions returns a server-packaged archive covering every id.
func (c *Client) BulkExportSessions(ctx context.Context, ids []string) ([]byte, error) {
	if len(ids) == 0 {
		return nil, Validationf("no sessions selected")
	}
	query := url.Values{}
	for _, id := range ids {
		query.Add("id", id)
	}
	return c.download(ctx, "/v1/chat/sessions/export/bulk?"+query.Encode())
}

func (c *Client) download(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Trace-Id", uuid.NewString())
	if err := c.ensureToken(); err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &APIError{Kind: KindTransport, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeEnvelope(resp, nil)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Kind: KindTransport, Message: err.Error()}
	}
	if len(data) == 0 {
		return nil, errors.New("empty download")
	}
	return data, nil
}
