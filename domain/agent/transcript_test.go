package agent

import "testing"

func TestTranscript_AppendAndObserve(t *testing.T) {
	var tr Transcript

	if tr.Observe("orphan") {
		t.Error("Observe() on empty transcript = true, want false")
	}

	idx := tr.Append(Step{Action: ActionSearch, ActionInput: "q1"})
	if idx != 0 {
		t.Errorf("Append() index = %d, want 0", idx)
	}
	if !tr.Observe("result") {
		t.Fatal("Observe() = false, want true")
	}
	if tr.Observe("again") {
		t.Error("second Observe() on same step = true, want false")
	}

	last, ok := tr.Last()
	if !ok {
		t.Fatal("Last() ok = false")
	}
	if last.Observation != "result" || !last.Observed {
		t.Errorf("Last() = %+v, want observed step with result", last)
	}
}

func TestTranscript_StepsIsCopy(t *testing.T) {
	var tr Transcript
	tr.Append(Step{Action: ActionSearch, ActionInput: "q"})

	steps := tr.Steps()
	steps[0].ActionInput = "mutated"

	if got := tr.Steps()[0].ActionInput; got != "q" {
		t.Errorf("transcript mutated through Steps(): ActionInput = %q", got)
	}
}
