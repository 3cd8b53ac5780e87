package chat

import (
	"testing"

	"aurelia/internal/types"
)

func TestFoldSeparatesChannels(t *testing.T) {
	t.Parallel()
	state := Buffers{}
	for _, inc := range []types.StreamIncrement{
		{Kind: types.IncrementReasoning, Text: "a"},
		{Kind: types.IncrementAnswer, Text: "x"},
		{Kind: types.IncrementReasoning, Text: "b"},
		{Kind: types.IncrementDone},
	} {
		state = Fold(state, inc)
	}
	if state.Reasoning != "ab" {
		t.Fatalf("reasoning buffer: got %q want %q", state.Reasoning, "ab")
	}
	if state.Answer != "x" {
		t.Fatalf("answer buffer: got %q want %q", state.Answer, "x")
	}
	if !state.Done {
		t.Fatalf("done flag not set")
	}
}

func TestFoldError(t *testing.T) {
	t.Parallel()
	state := Fold(Buffers{Answer: "partial"}, types.StreamIncrement{Kind: types.IncrementError, Message: "boom"})
	if state.Err != "boom" {
		t.Fatalf("error not recorded: %+v", state)
	}
	if state.Answer != "partial" {
		t.Fatalf("fold must not clear buffers itself")
	}
}

func TestAssemblerLifecycle(t *testing.T) {
	t.Parallel()
	a := NewStreamAssembler()
	if a.State() != StateIdle {
		t.Fatalf("fresh assembler not idle")
	}
	if !a.Open("s1") {
		t.Fatalf("open rejected")
	}
	if a.Open("s2") {
		t.Fatalf("second open must be rejected while streaming")
	}
	if a.BoundSessionID() != "s1" {
		t.Fatalf("bound session: %q", a.BoundSessionID())
	}

	if !a.Apply("s1", types.StreamIncrement{Kind: types.IncrementAnswer, Text: "hi"}) {
		t.Fatalf("matching increment not applied")
	}
	if a.Answer() != "hi" {
		t.Fatalf("answer buffer: %q", a.Answer())
	}

	a.Drain()
	if a.State() != StateDraining {
		t.Fatalf("state after drain: %v", a.State())
	}
	if a.Apply("s1", types.StreamIncrement{Kind: types.IncrementAnswer, Text: "!"}) {
		t.Fatalf("draining assembler must stop mutating buffers")
	}

	a.CloseOK()
	if a.State() != StateClosedOK || a.Answer() != "" || a.Reasoning() != "" {
		t.Fatalf("close did not clear buffers: %q %q", a.Reasoning(), a.Answer())
	}

	if !a.Open("s2") {
		t.Fatalf("reopen after close rejected")
	}
}

func TestAssemblerDiscardsStaleIncrements(t *testing.T) {
	t.Parallel()
	a := NewStreamAssembler()
	a.Open("s1")
	a.Apply("s1", types.StreamIncrement{Kind: types.IncrementAnswer, Text: "keep"})

	if a.Apply("s2", types.StreamIncrement{Kind: types.IncrementAnswer, Text: "drop"}) {
		t.Fatalf("stale increment applied")
	}
	if a.Answer() != "keep" {
		t.Fatalf("buffer mutated by stale increment: %q", a.Answer())
	}
	if a.State() != StateOpen {
		t.Fatalf("stale increment changed state: %v", a.State())
	}
}

func TestAssemblerCloseErrorDiscardsBuffers(t *testing.T) {
	t.Parallel()
	a := NewStreamAssembler()
	a.Open("s1")
	a.Apply("s1", types.StreamIncrement{Kind: types.IncrementReasoning, Text: "thinking"})
	a.CloseError()
	if a.State() != StateClosedError {
		t.Fatalf("state: %v", a.State())
	}
	if a.Reasoning() != "" || a.Answer() != "" {
		t.Fatalf("buffers survive error close")
	}
}
