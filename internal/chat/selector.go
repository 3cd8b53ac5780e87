package chat

import "sort"

// BatchSelector tracks sessions chosen for bulk export or delete. Decoupled
// from the single active-session id on purpose: selecting for a batch does
// not change what the user is looking at.
type BatchSelector struct {
	ids map[string]struct{}
}

func NewBatchSelector() *BatchSelector {
	return &BatchSelector{ids: map[string]struct{}{}}
}

func (b *BatchSelector) Toggle(id string) {
	if id == "" {
		return
	}
	if _, ok := b.ids[id]; ok {
		delete(b.ids, id)
		return
	}
	b.ids[id] = struct{}{}
}

func (b *BatchSelector) Selected(id string) bool {
	_, ok := b.ids[id]
	return ok
}

func (b *BatchSelector) SelectedIDs() []string {
	out := make([]string, 0, len(b.ids))
	for id := range b.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (b *BatchSelector) Len() int {
	return len(b.ids)
}

func (b *BatchSelector) Remove(ids ...string) {
	for _, id := range ids {
		delete(b.ids, id)
	}
}

func (b *BatchSelector) Clear() {
	b.ids = map[string]struct{}{}
}
