package cli

import (
	"errors"
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/felixgeelhaar/react-agent/domain/agent"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Exit codes for ask.
const (
	ExitFailed   = 1
	ExitRejected = 2
)

// runOutput is the JSON form of a resolved question.
type runOutput struct {
	ID          string          `json:"id"`
	Question    string          `json:"question"`
	Status      agent.RunStatus `json:"status"`
	Answer      string          `json:"answer,omitempty"`
	ErrorKind   agent.ErrorKind `json:"error_kind,omitempty"`
	Message     string          `json:"message,omitempty"`
	Error       string          `json:"error,omitempty"`
	Iterations  int             `json:"iterations"`
	Completions int             `json:"completions"`
	Searches    int             `json:"searches"`
	DurationMS  int64           `json:"duration_ms"`
	Transcript  []agent.Step    `json:"transcript,omitempty"`
}

// renderOutcome prints one of the three user-visible states: the answer on
// stdout, or a warning or error on stderr.
func (a *App) renderOutcome(r *agent.Run, err error) {
	if err == nil {
		fmt.Fprintf(a.stdout, "Answer: %s\n", r.Answer)
		return
	}

	kind, _ := agent.KindOf(err)
	if kind == agent.KindInputRejected {
		fmt.Fprintf(a.stderr, "Warning: %s\n", kind.Message())
		return
	}

	fmt.Fprintf(a.stderr, "Error: %s\n", kind.Message())
	if detail := errorDetail(err); detail != "" {
		fmt.Fprintf(a.stderr, "  Detail: %s\n", detail)
	}
}

// renderTranscript prints the reasoning steps of r to stderr.
func (a *App) renderTranscript(r *agent.Run) {
	steps := r.Transcript.Steps()
	if len(steps) == 0 {
		return
	}
	fmt.Fprintf(a.stderr, "Transcript (%d steps):\n", len(steps))
	for i, step := range steps {
		fmt.Fprintf(a.stderr, "  [%d] Thought: %s\n", i+1, step.Thought)
		fmt.Fprintf(a.stderr, "      Action: %s\n", step.Action)
		fmt.Fprintf(a.stderr, "      Action Input: %s\n", step.ActionInput)
		if step.Observed {
			fmt.Fprintf(a.stderr, "      Observation: %s\n", indent(step.Observation, "        "))
		}
	}
	fmt.Fprintf(a.stderr, "Completions: %d, Searches: %d, Duration: %s\n",
		r.Completions, r.Searches, r.Duration())
}

// renderJSON prints r as a single JSON document on stdout.
func (a *App) renderJSON(r *agent.Run, withTranscript bool) error {
	out := runOutput{
		ID:          r.ID,
		Question:    r.Question,
		Status:      r.Status,
		Answer:      r.Answer,
		ErrorKind:   r.ErrorKind,
		Error:       r.Error,
		Iterations:  r.Iterations,
		Completions: r.Completions,
		Searches:    r.Searches,
		DurationMS:  r.Duration().Milliseconds(),
	}
	if r.ErrorKind != "" {
		out.Message = r.ErrorKind.Message()
	}
	if withTranscript {
		out.Transcript = r.Transcript.Steps()
	}

	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return nil
}

// exitFor maps a resolution error to the process exit code.
func exitFor(err error) error {
	if err == nil {
		return nil
	}
	kind, _ := agent.KindOf(err)
	if kind == agent.KindInputRejected {
		return &ExitError{Code: ExitRejected, Err: err}
	}
	return &ExitError{Code: ExitFailed, Err: err}
}

// errorDetail returns the underlying cause of a typed failure.
func errorDetail(err error) string {
	var e *agent.Error
	if errors.As(err, &e) && e.Err != nil {
		return e.Err.Error()
	}
	return ""
}

func indent(s, prefix string) string {
	return strings.ReplaceAll(s, "\n", "\n"+prefix)
}
