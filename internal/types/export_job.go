package types

import "time"

type ExportJobStatus string

const (
	ExportJobPending ExportJobStatus = "pending"
	ExportJobRunning ExportJobStatus = "running"
	ExportJobDone    ExportJobStatus = "done"
	ExportJobFailed  ExportJobStatus = "failed"
)

type ExportFilters struct {
	ChatLimit int `json:"chat_limit,omitempty"`
}

type ExportJob struct {
	ID                   string          `json:"id"`
	Status               ExportJobStatus `json:"status"`
	MemberScope          string          `json:"member_scope"`
	ExportTypes          []string        `json:"export_types"`
	IncludeRawFile       bool            `json:"include_raw_file"`
	IncludeSanitizedText bool            `json:"include_sanitized_text"`
	Filters              ExportFilters   `json:"filters"`
	CreatedAt            time.Time       `json:"created_at"`
}
