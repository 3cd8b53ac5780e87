package chat

import "aurelia/internal/types"

// AttachmentStager tracks uploads not yet consumed by a query. Refs live in
// process memory only and are taken exactly once at submission time.
type AttachmentStager struct {
	pending []types.AttachmentRef
}

func NewAttachmentStager() *AttachmentStager {
	return &AttachmentStager{}
}

func (s *AttachmentStager) Add(ref types.AttachmentRef) {
	s.pending = append(s.pending, ref)
}

func (s *AttachmentStager) Pending() []types.AttachmentRef {
	return s.pending
}

func (s *AttachmentStager) Len() int {
	return len(s.pending)
}

// TakePending returns the staged refs in upload order and clears the set.
func (s *AttachmentStager) TakePending() []types.AttachmentRef {
	taken := s.pending
	s.pending = nil
	return taken
}

func (s *AttachmentStager) Clear() {
	s.pending = nil
}
