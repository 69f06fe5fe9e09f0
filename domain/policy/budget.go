// Package policy provides the limits a question's resolution must respect.
package policy

import "fmt"

// Budget names tracked for each question.
const (
	BudgetCompletions = "completions"
	BudgetSearches    = "searches"
	BudgetIterations  = "iterations"
)

// DefaultMaxIterations is the iteration budget used when none is configured.
const DefaultMaxIterations = 3

// Budget tracks consumption against configured limits.
// A Budget belongs to a single run and is not safe for concurrent use.
type Budget struct {
	limits   map[string]int
	consumed map[string]int
}

// BudgetSnapshot is an immutable view of budget state.
type BudgetSnapshot struct {
	Limits    map[string]int `json:"limits"`
	Consumed  map[string]int `json:"consumed"`
	Remaining map[string]int `json:"remaining"`
}

// NewBudget creates a budget with the given limits.
func NewBudget(limits map[string]int) *Budget {
	b := &Budget{
		limits:   make(map[string]int, len(limits)),
		consumed: make(map[string]int, len(limits)),
	}
	for k, v := range limits {
		b.limits[k] = v
		b.consumed[k] = 0
	}
	return b
}

// NewIterationBudget creates the per-question budget: at most n completion
// calls, n search calls and n iterations.
func NewIterationBudget(n int) *Budget {
	if n < 0 {
		n = 0
	}
	return NewBudget(map[string]int{
		BudgetCompletions: n,
		BudgetSearches:    n,
		BudgetIterations:  n,
	})
}

// CanConsume checks if the budget allows consuming the given amount.
func (b *Budget) CanConsume(name string, amount int) bool {
	limit, hasLimit := b.limits[name]
	if !hasLimit {
		return true
	}
	return b.consumed[name]+amount <= limit
}

// Consume deducts from the budget if allowed.
func (b *Budget) Consume(name string, amount int) error {
	limit, hasLimit := b.limits[name]
	if hasLimit && b.consumed[name]+amount > limit {
		return fmt.Errorf("%w: %s limit %d", ErrBudgetExceeded, name, limit)
	}
	b.consumed[name] += amount
	return nil
}

// Consumed returns how much of a budget has been used.
func (b *Budget) Consumed(name string) int {
	return b.consumed[name]
}

// Remaining returns the remaining budget for a given name, or -1 if unlimited.
func (b *Budget) Remaining(name string) int {
	limit, hasLimit := b.limits[name]
	if !hasLimit {
		return -1
	}
	return limit - b.consumed[name]
}

// IsExhausted returns true if the named budget is fully consumed.
func (b *Budget) IsExhausted(name string) bool {
	limit, hasLimit := b.limits[name]
	if !hasLimit {
		return false
	}
	return b.consumed[name] >= limit
}

// Snapshot returns an immutable view of the current budget state.
func (b *Budget) Snapshot() BudgetSnapshot {
	snapshot := BudgetSnapshot{
		Limits:    make(map[string]int, len(b.limits)),
		Consumed:  make(map[string]int, len(b.consumed)),
		Remaining: make(map[string]int, len(b.limits)),
	}
	for k, v := range b.limits {
		snapshot.Limits[k] = v
		snapshot.Remaining[k] = v - b.consumed[k]
	}
	for k, v := range b.consumed {
		snapshot.Consumed[k] = v
	}
	return snapshot
}
