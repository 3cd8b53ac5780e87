package chat

import (
	"context"
	"io"

	"aurelia/internal/client"
	"aurelia/internal/types"
)

type SessionAPI interface {
	ListSessions(ctx context.Context) ([]*types.Session, error)
	CreateSession(ctx context.Context, cfg types.SessionConfig) (*types.Session, error)
	UpdateSession(ctx context.Context, id string, cfg types.SessionConfig) (*types.Session, error)
	CopySession(ctx context.Context, id string) (*types.Session, error)
	BranchSession(ctx context.Context, id string) (*types.Session, error)
	DeleteSession(ctx context.Context, id string) error
	DeleteSessions(ctx context.Context, ids []string) (*client.BatchDeleteResult, error)
	BulkExportSessions(ctx context.Context, ids []string) ([]byte, error)
}

type MessageAPI interface {
	ListMessages(ctx context.Context, sessionID string) ([]*types.Message, error)
}

type QueryAPI interface {
	Query(ctx context.Context, req client.QueryRequest) (*client.QueryResult, error)
	QueryStream(ctx context.Context, req client.QueryRequest) (<-chan types.StreamIncrement, func(), error)
}

type AttachmentAPI interface {
	UploadAttachment(ctx context.Context, sessionID, fileName string, content io.Reader) (*types.AttachmentRef, error)
}

type CatalogAPI interface {
	ListToolBindings(ctx context.Context) ([]*types.ToolBinding, error)
	ListAgentRoles(ctx context.Context) ([]*types.AgentRole, error)
}

// API is the full backend surface the coordinator depends on. *client.Client
// satisfies it; tests substitute fakes.
type API interface {
	SessionAPI
	MessageAPI
	QueryAPI
	AttachmentAPI
	CatalogAPI
}

var _ API = (*client.Client)(nil)
