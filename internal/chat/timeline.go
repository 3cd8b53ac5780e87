package chat

import "aurelia/internal/types"

// Timeline holds the ordered message sequence for the active session. It is
// rebuilt wholesale from the server after every mutating action and never
// edited message-by-message.
type Timeline struct {
	sessionID string
	messages  []*types.Message
}

func NewTimeline() *Timeline {
	return &Timeline{}
}

func (t *Timeline) SessionID() string {
	return t.sessionID
}

func (t *Timeline) Messages() []*types.Message {
	return t.messages
}

// Set replaces the timeline with a fresh server snapshot for sessionID.
func (t *Timeline) Set(sessionID string, messages []*types.Message) {
	t.sessionID = sessionID
	t.messages = append([]*types.Message{}, messages...)
}

func (t *Timeline) Clear() {
	t.sessionID = ""
	t.messages = nil
}
