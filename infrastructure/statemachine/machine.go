// Package statemachine provides the statekit integration for the reasoning loop.
package statemachine

import (
	"github.com/felixgeelhaar/statekit"

	"github.com/felixgeelhaar/react-agent/domain/agent"
	"github.com/felixgeelhaar/react-agent/domain/policy"
)

// Event types accepted by the loop machine.
const (
	EventPrompt   = "PROMPT"   // start -> awaiting_model
	EventSearch   = "SEARCH"   // awaiting_model -> awaiting_tool
	EventObserve  = "OBSERVE"  // awaiting_tool -> awaiting_model
	EventReprompt = "REPROMPT" // awaiting_model -> awaiting_model after a parse error
	EventFinish   = "FINISH"   // awaiting_model -> finished
	EventFail     = "FAIL"     // any non-terminal -> failed
)

// TransitionFunc observes a transition after it has been applied to the run.
type TransitionFunc func(from, to agent.State, event statekit.EventType, reason string)

// Context carries run state through the state machine.
type Context struct {
	Run    *agent.Run
	Budget *policy.Budget

	// OnTransition, when set, is called for every applied transition.
	OnTransition TransitionFunc

	applied int
}

// NewContext creates a new machine context.
func NewContext(run *agent.Run, budget *policy.Budget) *Context {
	return &Context{
		Run:    run,
		Budget: budget,
	}
}

// State IDs as StateID type for statekit.
const (
	stateStart         statekit.StateID = statekit.StateID(agent.StateStart)
	stateAwaitingModel statekit.StateID = statekit.StateID(agent.StateAwaitingModel)
	stateAwaitingTool  statekit.StateID = statekit.StateID(agent.StateAwaitingTool)
	stateFinished      statekit.StateID = statekit.StateID(agent.StateFinished)
	stateFailed        statekit.StateID = statekit.StateID(agent.StateFailed)
)

// transitions is the complete transition table of the loop.
var transitions = map[agent.State]map[statekit.EventType]agent.State{
	agent.StateStart: {
		EventPrompt: agent.StateAwaitingModel,
		EventFail:   agent.StateFailed,
	},
	agent.StateAwaitingModel: {
		EventSearch:   agent.StateAwaitingTool,
		EventReprompt: agent.StateAwaitingModel,
		EventFinish:   agent.StateFinished,
		EventFail:     agent.StateFailed,
	},
	agent.StateAwaitingTool: {
		EventObserve: agent.StateAwaitingModel,
		EventFail:    agent.StateFailed,
	},
}

// NewLoopMachine creates the reasoning loop statechart.
func NewLoopMachine() (*statekit.MachineConfig[*Context], error) {
	return statekit.NewMachine[*Context]("react-loop").
		WithInitial(stateStart).
		WithContext(&Context{}).
		WithAction("recordTransition", recordTransition).
		WithGuard("completionAvailable", guardCompletionAvailable).
		WithGuard("searchAvailable", guardSearchAvailable).
		State(stateStart).
			On(EventPrompt).Target(stateAwaitingModel).Guard("completionAvailable").Do("recordTransition").
			On(EventFail).Target(stateFailed).Do("recordTransition").
			Done().
		State(stateAwaitingModel).
			On(EventSearch).Target(stateAwaitingTool).Guard("searchAvailable").Do("recordTransition").
			On(EventReprompt).Target(stateAwaitingModel).Guard("completionAvailable").Do("recordTransition").
			On(EventFinish).Target(stateFinished).Do("recordTransition").
			On(EventFail).Target(stateFailed).Do("recordTransition").
			Done().
		State(stateAwaitingTool).
			On(EventObserve).Target(stateAwaitingModel).Guard("completionAvailable").Do("recordTransition").
			On(EventFail).Target(stateFailed).Do("recordTransition").
			Done().
		State(stateFinished).
			Final().
			Done().
		State(stateFailed).
			Final().
			Done().
		Build()
}

// Target returns the state an event leads to from the given state.
func Target(from agent.State, event statekit.EventType) (agent.State, bool) {
	to, ok := transitions[from][event]
	return to, ok
}

// StateFromMachine converts the machine state ID to domain State.
func StateFromMachine(stateID statekit.StateID) agent.State {
	return agent.State(stateID)
}
