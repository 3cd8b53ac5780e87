package types

type IncrementKind string

const (
	IncrementReasoning IncrementKind = "reasoning"
	IncrementAnswer    IncrementKind = "answer"
	IncrementError     IncrementKind = "error"
	IncrementDone      IncrementKind = "done"
)

// StreamIncrement is one unit of an ordered query stream. Text carries the
// delta for reasoning/answer increments; Message carries a human-readable
// failure for error increments.
type StreamIncrement struct {
	Kind    IncrementKind `json:"type"`
	Text    string        `json:"text,omitempty"`
	Message string        `json:"message,omitempty"`
}
