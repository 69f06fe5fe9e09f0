// Package agent provides the core domain model for the question-answering loop.
package agent

// State is a position of the reasoning/acting loop.
// States are identified by stable strings so they survive persistence and logs.
type State string

// Loop states.
const (
	StateStart         State = "start"          // Question accepted, nothing sent yet
	StateAwaitingModel State = "awaiting_model" // One completion call outstanding
	StateAwaitingTool  State = "awaiting_tool"  // One search call outstanding
	StateFinished      State = "finished"       // Terminal success
	StateFailed        State = "failed"         // Terminal failure
)

// IsTerminal returns true if no further transitions are possible.
func (s State) IsTerminal() bool {
	return s == StateFinished || s == StateFailed
}

// IsValid returns true if the state is a recognized loop state.
func (s State) IsValid() bool {
	switch s {
	case StateStart, StateAwaitingModel, StateAwaitingTool, StateFinished, StateFailed:
		return true
	default:
		return false
	}
}

// String returns the string representation of the state.
func (s State) String() string {
	return string(s)
}

// AllStates returns all loop states.
func AllStates() []State {
	return []State{
		StateStart,
		StateAwaitingModel,
		StateAwaitingTool,
		StateFinished,
		StateFailed,
	}
}

// TerminalStates returns all terminal states.
func TerminalStates() []State {
	return []State{StateFinished, StateFailed}
}
