package chat

import "aurelia/internal/types"

type AssemblerState int

const (
	StateIdle AssemblerState = iota
	StateOpen
	StateDraining
	StateClosedOK
	StateClosedError
)

func (s AssemblerState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateOpen:
		return "open"
	case StateDraining:
		return "draining"
	case StateClosedOK:
		return "closed_ok"
	case StateClosedError:
		return "closed_error"
	default:
		return "unknown"
	}
}

// Buffers is the accumulated view of one in-flight stream: a reasoning
// channel and an answer channel, folded from typed increments.
type Buffers struct {
	Reasoning string
	Answer    string
	Err       string
	Done      bool
}

// Fold applies one increment to the buffer state. Pure: no transport, no
// session awareness; staleness is decided by the caller before folding.
func Fold(state Buffers, inc types.StreamIncrement) Buffers {
	switch inc.Kind {
	case types.IncrementReasoning:
		state.Reasoning += inc.Text
	case types.IncrementAnswer:
		state.Answer += inc.Text
	case types.IncrementError:
		state.Err = inc.Message
	case types.IncrementDone:
		state.Done = true
	}
	return state
}

// StreamAssembler folds the increments of at most one open stream,
// discarding increments that arrive after the active session moved away
// from the one that opened the stream.
type StreamAssembler struct {
	state          AssemblerState
	boundSessionID string
	buf            Buffers
}

func NewStreamAssembler() *StreamAssembler {
	return &StreamAssembler{}
}

func (a *StreamAssembler) State() AssemblerState {
	return a.state
}

func (a *StreamAssembler) BoundSessionID() string {
	return a.boundSessionID
}

func (a *StreamAssembler) IsOpen() bool {
	return a.state == StateOpen || a.state == StateDraining
}

func (a *StreamAssembler) Reasoning() string {
	return a.buf.Reasoning
}

func (a *StreamAssembler) Answer() string {
	return a.buf.Answer
}

// Open binds the assembler to the session that submitted the query. The
// bound id is captured here so "stale" has a fixed meaning for the stream's
// whole lifetime.
func (a *StreamAssembler) Open(sessionID string) bool {
	if a.IsOpen() {
		return false
	}
	a.state = StateOpen
	a.boundSessionID = sessionID
	a.buf = Buffers{}
	return true
}

// Apply folds one increment. Increments are dropped without effect when the
// stream is not open or when activeSessionID no longer matches the bound
// session; the transport keeps delivering, the assembler just stops caring.
func (a *StreamAssembler) Apply(activeSessionID string, inc types.StreamIncrement) bool {
	if a.state != StateOpen {
		return false
	}
	if activeSessionID != a.boundSessionID {
		return false
	}
	a.buf = Fold(a.buf, inc)
	if a.buf.Done {
		a.state = StateDraining
	}
	return true
}

// Drain marks the stream complete: buffers stop mutating while the
// authoritative timeline refresh is in flight. Applies even when the user
// has switched away, so a stale stream still winds down.
func (a *StreamAssembler) Drain() {
	if a.state == StateOpen {
		a.state = StateDraining
	}
}

// CloseError discards the partially accumulated buffers; a failed stream
// never commits partial answers.
func (a *StreamAssembler) CloseError() {
	a.state = StateClosedError
	a.buf = Buffers{}
	a.boundSessionID = ""
}

// CloseOK clears the buffers after the authoritative timeline refresh; the
// streamed text was a presentation-only preview.
func (a *StreamAssembler) CloseOK() {
	a.state = StateClosedOK
	a.buf = Buffers{}
	a.boundSessionID = ""
}

func (a *StreamAssembler) Reset() {
	a.state = StateIdle
	a.buf = Buffers{}
	a.boundSessionID = ""
}
