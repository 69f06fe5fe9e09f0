package agent

import "encoding/json"

// Step is one reasoning/acting cycle recorded in the transcript.
type Step struct {
	Thought     string     `json:"thought,omitempty"`
	Action      ActionType `json:"action"`
	Tool        string     `json:"tool,omitempty"`
	ActionInput string     `json:"action_input"`
	Observation string     `json:"observation,omitempty"`
	Observed    bool       `json:"observed"`
}

// Transcript is the append-only history of one question.
// The zero value is an empty transcript ready for use.
type Transcript struct {
	steps []Step
}

// Append records a new step and returns its index.
func (t *Transcript) Append(step Step) int {
	t.steps = append(t.steps, step)
	return len(t.steps) - 1
}

// Observe attaches an observation to the most recent step.
// It returns false when there is no step awaiting an observation.
func (t *Transcript) Observe(observation string) bool {
	if len(t.steps) == 0 {
		return false
	}
	last := &t.steps[len(t.steps)-1]
	if last.Observed {
		return false
	}
	last.Observation = observation
	last.Observed = true
	return true
}

// Steps returns a copy of the recorded steps.
func (t *Transcript) Steps() []Step {
	out := make([]Step, len(t.steps))
	copy(out, t.steps)
	return out
}

// Len returns the number of recorded steps.
func (t *Transcript) Len() int {
	return len(t.steps)
}

// Last returns the most recent step.
func (t *Transcript) Last() (Step, bool) {
	if len(t.steps) == 0 {
		return Step{}, false
	}
	return t.steps[len(t.steps)-1], true
}

// MarshalJSON encodes the transcript as its list of steps.
func (t Transcript) MarshalJSON() ([]byte, error) {
	if t.steps == nil {
		return json.Marshal([]Step{})
	}
	return json.Marshal(t.steps)
}

// UnmarshalJSON decodes a list of steps.
func (t *Transcript) UnmarshalJSON(data []byte) error {
	var steps []Step
	if err := json.Unmarshal(data, &steps); err != nil {
		return err
	}
	t.steps = steps
	return nil
}
