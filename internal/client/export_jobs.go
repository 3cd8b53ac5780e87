package client

import (
	"context"
	"net/http"
	"net/url"

	"aurelia/internal/types"
)

type exportJobsResponse struct {
	Items []*types.ExportJob `json:"items"`
}

func (c *Client) ListExportJobs(ctx context.Context) ([]*types.ExportJob, error) {
	var resp exportJobsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/export/jobs", nil, true, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (c *Client) CreateExportJob(ctx context.Context, req CreateExportJobRequest) (*types.ExportJob, error) {
	var job types.ExportJob
	if err := c.doJSON(ctx, http.MethodPost, "/v1/export/jobs", req, true, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (c *Client) GetExportJob(ctx context.Context, id string) (*types.ExportJob, error) {
	var job types.ExportJob
	path := "/v1/export/jobs/" + url.PathEscape(id)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, true, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (c *Client) DeleteExportJob(ctx context.Context, id string) error {
	path := "/v1/export/jobs/" + url.PathEscape(id)
	return c.doJSON(ctx, http.MethodDelete, path, nil, true, nil)
}

// DownloadExportJob fetches the packaged archive for a finished job.
func (c *Client) DownloadExportJob(ctx context.Context, id string) ([]byte, error) {
	path := "/v1/export/jobs/" + url.PathEscape(id) + "/download"
	return c.download(ctx, path)
}
