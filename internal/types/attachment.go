package types

// AttachmentRef identifies a file the server accepted and sanitized at
// upload time. Held client-side only until the query that references it is
// submitted.
type AttachmentRef struct {
	ID       string `json:"id"`
	FileName string `json:"file_name"`
}
