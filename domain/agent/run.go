package agent

import (
	"time"
)

// RunStatus represents the current status of a run.
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"   // Not yet started
	RunStatusRunning   RunStatus = "running"   // Currently executing
	RunStatusCompleted RunStatus = "completed" // Answered
	RunStatusFailed    RunStatus = "failed"    // Terminated with error
)

// Run is the resolution of a single question.
// It is the aggregate root for the agent domain and owns its transcript.
type Run struct {
	ID            string     `json:"id"`
	Question      string     `json:"question"`
	CurrentState  State      `json:"current_state"`
	Status        RunStatus  `json:"status"`
	Transcript    Transcript `json:"transcript"`
	Answer        string     `json:"answer,omitempty"`
	ErrorKind     ErrorKind  `json:"error_kind,omitempty"`
	Error         string     `json:"error,omitempty"`
	MaxIterations int        `json:"max_iterations"`
	Iterations    int        `json:"iterations"`
	Completions   int        `json:"completions"`
	Searches      int        `json:"searches"`
	StartTime     time.Time  `json:"start_time"`
	EndTime       time.Time  `json:"end_time,omitempty"`
}

// NewRun creates a pending run for a question with the given iteration budget.
func NewRun(id string, question string, maxIterations int) *Run {
	return &Run{
		ID:            id,
		Question:      question,
		CurrentState:  StateStart,
		Status:        RunStatusPending,
		MaxIterations: maxIterations,
		StartTime:     time.Now(),
	}
}

// Start marks the run as running.
func (r *Run) Start() {
	r.Status = RunStatusRunning
	r.StartTime = time.Now()
}

// TransitionTo changes the current state.
func (r *Run) TransitionTo(state State) {
	r.CurrentState = state
	if state.IsTerminal() && r.EndTime.IsZero() {
		r.EndTime = time.Now()
		if state == StateFinished {
			r.Status = RunStatusCompleted
		} else {
			r.Status = RunStatusFailed
		}
	}
}

// Complete marks the run as answered.
func (r *Run) Complete(answer string) {
	r.Status = RunStatusCompleted
	r.CurrentState = StateFinished
	r.EndTime = time.Now()
	r.Answer = answer
}

// Fail marks the run as failed and records the error kind.
// A failed run never carries an answer.
func (r *Run) Fail(err error) {
	r.Status = RunStatusFailed
	r.CurrentState = StateFailed
	r.EndTime = time.Now()
	r.Answer = ""
	if err != nil {
		r.Error = err.Error()
		if kind, ok := KindOf(err); ok {
			r.ErrorKind = kind
		}
	}
}

// IsTerminal returns true if the run has finished or failed.
func (r *Run) IsTerminal() bool {
	return r.CurrentState.IsTerminal()
}

// Succeeded returns true if the run produced an answer.
func (r *Run) Succeeded() bool {
	return r.Status == RunStatusCompleted
}

// RemainingIterations returns how many iterations are left in the budget.
func (r *Run) RemainingIterations() int {
	left := r.MaxIterations - r.Iterations
	if left < 0 {
		return 0
	}
	return left
}

// Duration returns the run duration.
func (r *Run) Duration() time.Duration {
	if r.EndTime.IsZero() {
		return time.Since(r.StartTime)
	}
	return r.EndTime.Sub(r.StartTime)
}
