package statemachine

import (
	"github.com/felixgeelhaar/statekit"

	"github.com/felixgeelhaar/react-agent/domain/policy"
)

// guardCompletionAvailable blocks entering awaiting_model when no
// completion call is left in the budget.
// In statekit, guards receive the context by value. Since our context is
// *Context, the guard receives *Context directly.
func guardCompletionAvailable(ctx *Context, _ statekit.Event) bool {
	if ctx == nil || ctx.Budget == nil {
		return true
	}
	return ctx.Budget.CanConsume(policy.BudgetCompletions, 1)
}

// guardSearchAvailable blocks entering awaiting_tool when no search call is
// left in the budget.
func guardSearchAvailable(ctx *Context, _ statekit.Event) bool {
	if ctx == nil || ctx.Budget == nil {
		return true
	}
	return ctx.Budget.CanConsume(policy.BudgetSearches, 1)
}
