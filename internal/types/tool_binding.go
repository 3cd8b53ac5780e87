package types

// ToolBinding is an MCP server the agent may call during a query. The catalog
// is read-only from the console's perspective; writes go through the
// settings surface.
type ToolBinding struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Endpoint    string `json:"endpoint"`
	AuthType    string `json:"auth_type"`
	AuthPayload string `json:"auth_payload,omitempty"`
	Enabled     bool   `json:"enabled"`
	TimeoutMS   int    `json:"timeout_ms"`
}
