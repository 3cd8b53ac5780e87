package client

import "aurelia/internal/types"

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type HealthResponse struct {
	OK      bool   `json:"ok"`
	Version string `json:"version"`
}

// QueryRequest submits one question against a session. ToolIDs override the
// session's default-enabled bindings for this request only; AttachmentIDs
// reference staged uploads consumed by this query.
type QueryRequest struct {
	SessionID     string   `json:"session_id"`
	Query         string   `json:"query"`
	ToolIDs       []string `json:"enabled_mcp_ids,omitempty"`
	AttachmentIDs []string `json:"attachments_ids,omitempty"`
}

type QueryResult struct {
	Answer    string `json:"answer"`
	Reasoning string `json:"reasoning,omitempty"`
}

type BatchDeleteFailure struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

type BatchDeleteResult struct {
	Deleted []string             `json:"deleted"`
	Failed  []BatchDeleteFailure `json:"failed"`
}

type RefreshModelsRequest struct {
	ManualModels []string `json:"manual_models,omitempty"`
}

type KBBuildDocument struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type RetrievalQueryRequest struct {
	KBID  string `json:"kb_id"`
	Query string `json:"query"`
	TopK  int    `json:"top_k,omitempty"`
}

type CreateExportJobRequest struct {
	MemberScope          string              `json:"member_scope"`
	ExportTypes          []string            `json:"export_types"`
	IncludeRawFile       bool                `json:"include_raw_file"`
	IncludeSanitizedText bool                `json:"include_sanitized_text"`
	Filters              types.ExportFilters `json:"filters"`
}
