package types

import "time"

type ReasoningMode string

const (
	ReasoningEnabled  ReasoningMode = "enabled"
	ReasoningDisabled ReasoningMode = "disabled"
	ReasoningAuto     ReasoningMode = "auto"
)

type Session struct {
	ID               string        `json:"id"`
	Title            string        `json:"title"`
	RuntimeProfileID string        `json:"runtime_profile_id,omitempty"`
	RoleID           string        `json:"role_id,omitempty"`
	BackgroundPrompt string        `json:"background_prompt,omitempty"`
	Reasoning        ReasoningMode `json:"reasoning,omitempty"`
	ReasoningBudget  *int          `json:"reasoning_budget,omitempty"`
	ShowReasoning    bool          `json:"show_reasoning"`
	DefaultToolIDs   []string      `json:"default_enabled_mcp_ids,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// SessionConfig is the mutable subset sent on create, and (field by field,
// nil meaning "leave unchanged") on update. The server performs the merge;
// the client never patches a session locally before the round trip returns.
type SessionConfig struct {
	Title            *string        `json:"title,omitempty"`
	RuntimeProfileID *string        `json:"runtime_profile_id,omitempty"`
	RoleID           *string        `json:"role_id,omitempty"`
	BackgroundPrompt *string        `json:"background_prompt,omitempty"`
	Reasoning        *ReasoningMode `json:"reasoning,omitempty"`
	ReasoningBudget  *int           `json:"reasoning_budget,omitempty"`
	ShowReasoning    *bool          `json:"show_reasoning,omitempty"`
	DefaultToolIDs   []string       `json:"default_enabled_mcp_ids,omitempty"`
}
