package agent

import "fmt"

// ActionType identifies what the model asked the loop to do next.
type ActionType string

const (
	ActionSearch ActionType = "search" // Invoke the search capability
	ActionFinish ActionType = "finish" // Return the final answer
)

// Action is the model's chosen next step.
// For ActionSearch, Input is the query; for ActionFinish, Input is the answer.
type Action struct {
	Type  ActionType `json:"type"`
	Input string     `json:"input"`

	// Tool is the catalog name the model used for a search action.
	Tool string `json:"tool,omitempty"`

	// Thought is the reasoning text that preceded the action, if any.
	Thought string `json:"thought,omitempty"`
}

// Search creates a search action for the given query.
func Search(query string) Action {
	return Action{Type: ActionSearch, Input: query}
}

// Finish creates a finish action carrying the final answer.
func Finish(answer string) Action {
	return Action{Type: ActionFinish, Input: answer}
}

// IsSearch reports whether the action invokes the search capability.
func (a Action) IsSearch() bool {
	return a.Type == ActionSearch
}

// IsFinish reports whether the action ends the loop with an answer.
func (a Action) IsFinish() bool {
	return a.Type == ActionFinish
}

// WithThought returns a copy of the action carrying the given thought.
func (a Action) WithThought(thought string) Action {
	a.Thought = thought
	return a
}

// WithTool returns a copy of the action naming the tool it targets.
func (a Action) WithTool(tool string) Action {
	a.Tool = tool
	return a
}

// String returns a compact representation for logs.
func (a Action) String() string {
	return fmt.Sprintf("%s(%q)", a.Type, a.Input)
}
