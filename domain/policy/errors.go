package policy

import "errors"

// ErrBudgetExceeded indicates the budget limit has been exceeded.
var ErrBudgetExceeded = errors.New("budget exceeded")
