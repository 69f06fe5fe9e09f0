package policy

import (
	"errors"
	"testing"
)

func TestNewIterationBudget(t *testing.T) {
	budget := NewIterationBudget(3)

	for _, name := range []string{BudgetCompletions, BudgetSearches, BudgetIterations} {
		if got := budget.Remaining(name); got != 3 {
			t.Errorf("Remaining(%q) = %d, want 3", name, got)
		}
	}
}

func TestNewIterationBudget_Zero(t *testing.T) {
	budget := NewIterationBudget(0)

	if budget.CanConsume(BudgetCompletions, 1) {
		t.Error("zero budget allows a completion")
	}
	if !budget.IsExhausted(BudgetIterations) {
		t.Error("zero budget is not exhausted")
	}

	negative := NewIterationBudget(-4)
	if got := negative.Remaining(BudgetSearches); got != 0 {
		t.Errorf("negative budget Remaining() = %d, want 0", got)
	}
}

func TestBudget_CanConsume(t *testing.T) {
	budget := NewBudget(map[string]int{BudgetSearches: 2})

	tests := []struct {
		name     string
		resource string
		amount   int
		expected bool
	}{
		{"within limit", BudgetSearches, 1, true},
		{"at limit", BudgetSearches, 2, true},
		{"over limit", BudgetSearches, 3, false},
		{"unknown resource", "tokens", 100, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := budget.CanConsume(tt.resource, tt.amount); got != tt.expected {
				t.Errorf("CanConsume(%q, %d) = %v, want %v", tt.resource, tt.amount, got, tt.expected)
			}
		})
	}
}

func TestBudget_Consume(t *testing.T) {
	budget := NewIterationBudget(1)

	if err := budget.Consume(BudgetCompletions, 1); err != nil {
		t.Fatalf("Consume() error = %v", err)
	}
	err := budget.Consume(BudgetCompletions, 1)
	if !errors.Is(err, ErrBudgetExceeded) {
		t.Errorf("Consume() over limit error = %v, want ErrBudgetExceeded", err)
	}
	if got := budget.Consumed(BudgetCompletions); got != 1 {
		t.Errorf("Consumed() = %d, want 1 after rejected consume", got)
	}
	if got := budget.Remaining("unlimited"); got != -1 {
		t.Errorf("Remaining(unlimited) = %d, want -1", got)
	}
}

func TestBudget_Snapshot(t *testing.T) {
	budget := NewIterationBudget(3)
	_ = budget.Consume(BudgetSearches, 1)

	snap := budget.Snapshot()
	if snap.Remaining[BudgetSearches] != 2 {
		t.Errorf("Snapshot().Remaining[searches] = %d, want 2", snap.Remaining[BudgetSearches])
	}

	_ = budget.Consume(BudgetSearches, 1)
	if snap.Consumed[BudgetSearches] != 1 {
		t.Error("Snapshot() is not isolated from later consumption")
	}
}
