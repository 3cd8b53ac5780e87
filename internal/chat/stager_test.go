package chat

import (
	"testing"

	"aurelia/internal/types"
)

func TestStagerTakePendingClearsOnce(t *testing.T) {
	t.Parallel()
	s := NewAttachmentStager()
	s.Add(types.AttachmentRef{ID: "a1", FileName: "one.pdf"})
	s.Add(types.AttachmentRef{ID: "a2", FileName: "two.pdf"})

	taken := s.TakePending()
	if len(taken) != 2 || taken[0].ID != "a1" || taken[1].ID != "a2" {
		t.Fatalf("upload order not preserved: %#v", taken)
	}
	if s.Len() != 0 {
		t.Fatalf("pending set not cleared")
	}
	if again := s.TakePending(); len(again) != 0 {
		t.Fatalf("second take returned refs: %#v", again)
	}
}

func TestSelectorToggleAndClear(t *testing.T) {
	t.Parallel()
	b := NewBatchSelector()
	b.Toggle("s2")
	b.Toggle("s1")
	b.Toggle("s3")
	b.Toggle("s2") // toggled off again

	ids := b.SelectedIDs()
	if len(ids) != 2 || ids[0] != "s1" || ids[1] != "s3" {
		t.Fatalf("unexpected selection: %#v", ids)
	}
	if b.Selected("s2") {
		t.Fatalf("s2 should be deselected")
	}

	b.Remove("s1")
	if b.Len() != 1 {
		t.Fatalf("remove did not shrink selection")
	}
	b.Clear()
	if b.Len() != 0 {
		t.Fatalf("clear left ids behind")
	}
}
