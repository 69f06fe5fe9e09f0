package statemachine

import (
	"github.com/felixgeelhaar/statekit"
)

// TransitionPayload carries additional data with a transition event.
type TransitionPayload struct {
	Reason string
}

// recordTransition applies the transition to the run.
// In statekit, actions receive a pointer to the context. Since our context
// is *Context, actions receive **Context.
func recordTransition(ctx **Context, event statekit.Event) {
	if ctx == nil || *ctx == nil || (*ctx).Run == nil {
		return
	}

	c := *ctx
	from := c.Run.CurrentState
	to, ok := Target(from, event.Type)
	if !ok {
		return
	}

	var reason string
	if payload, ok := event.Payload.(TransitionPayload); ok {
		reason = payload.Reason
	}

	c.applied++
	c.Run.TransitionTo(to)
	if c.OnTransition != nil {
		c.OnTransition(from, to, event.Type, reason)
	}
}
