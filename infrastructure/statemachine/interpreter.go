package statemachine

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"

	"github.com/felixgeelhaar/react-agent/domain/agent"
)

// Interpreter wraps the statekit interpreter with loop-specific functionality.
type Interpreter struct {
	interp *statekit.Interpreter[*Context]
	ctx    *Context
}

// NewInterpreter creates a new interpreter for the loop machine.
func NewInterpreter(machine *statekit.MachineConfig[*Context], ctx *Context) *Interpreter {
	interp := statekit.NewInterpreter(machine)
	interp.UpdateContext(func(c **Context) {
		*c = ctx
	})
	return &Interpreter{
		interp: interp,
		ctx:    ctx,
	}
}

// Start initializes the interpreter and enters the initial state.
func (i *Interpreter) Start() {
	i.interp.Start()
	i.ctx.Run.CurrentState = i.State()
	i.ctx.Run.Start()
}

// Stop stops the interpreter.
func (i *Interpreter) Stop() {
	i.interp.Stop()
}

// State returns the current state.
func (i *Interpreter) State() agent.State {
	return StateFromMachine(i.interp.State().Value)
}

// Send delivers an event to the machine. It returns agent.ErrInvalidTransition
// when the event is not defined for the current state or a guard rejected it.
func (i *Interpreter) Send(event statekit.EventType, reason string) error {
	from := i.State()
	if from.IsTerminal() {
		return fmt.Errorf("%w: %s in %s", agent.ErrRunTerminated, event, from)
	}
	want, ok := Target(from, event)
	if !ok {
		return fmt.Errorf("%w: %s in %s", agent.ErrInvalidTransition, event, from)
	}

	applied := i.ctx.applied
	i.interp.Send(statekit.Event{
		Type:    event,
		Payload: TransitionPayload{Reason: reason},
	})

	// Self-transitions leave the state unchanged, so the action counter is
	// what tells a fired transition from a rejected one.
	if got := i.State(); got != want || i.ctx.applied == applied {
		return fmt.Errorf("%w: %s rejected in %s", agent.ErrInvalidTransition, event, from)
	}
	return nil
}

// IsTerminal returns true if the interpreter is in a terminal state.
func (i *Interpreter) IsTerminal() bool {
	return i.interp.Done()
}

// Context returns the interpreter context.
func (i *Interpreter) Context() *Context {
	return i.ctx
}

// Matches checks if the current state matches the given state.
func (i *Interpreter) Matches(state agent.State) bool {
	return i.interp.Matches(statekit.StateID(state))
}
