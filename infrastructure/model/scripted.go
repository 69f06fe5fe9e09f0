package model

import (
	"context"
	"errors"
	"fmt"
	"sync"

	domainmodel "github.com/felixgeelhaar/react-agent/domain/model"
)

// errScriptExhausted is returned when a scripted model runs out of steps.
var errScriptExhausted = errors.New("script exhausted")

// ScriptStep defines one scripted completion.
type ScriptStep struct {
	// Text is the completion to return.
	Text string

	// Err, when set, is returned instead of Text.
	Err error

	// Condition is an optional assertion on the prompt.
	Condition func(domainmodel.Prompt) bool
}

// Scripted returns predefined completions in order for deterministic runs.
type Scripted struct {
	steps       []ScriptStep
	index       int
	prompts     []domainmodel.Prompt
	onExhausted func(domainmodel.Prompt) (domainmodel.Completion, error)
	mu          sync.Mutex
}

// NewScripted creates a scripted model returning each text in turn.
func NewScripted(texts ...string) *Scripted {
	steps := make([]ScriptStep, len(texts))
	for i, t := range texts {
		steps[i] = ScriptStep{Text: t}
	}
	return NewScriptedSteps(steps...)
}

// NewScriptedSteps creates a scripted model with the given steps.
func NewScriptedSteps(steps ...ScriptStep) *Scripted {
	return &Scripted{
		steps: steps,
		onExhausted: func(_ domainmodel.Prompt) (domainmodel.Completion, error) {
			return domainmodel.Completion{}, fmt.Errorf("%w: %w", domainmodel.ErrUnavailable, errScriptExhausted)
		},
	}
}

// Repeat makes the model return text once the script is exhausted.
func (s *Scripted) Repeat(text string) *Scripted {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onExhausted = func(_ domainmodel.Prompt) (domainmodel.Completion, error) {
		return domainmodel.Completion{Text: text, Model: "scripted"}, nil
	}
	return s
}

// Name returns the provider name.
func (s *Scripted) Name() string {
	return "scripted"
}

// Complete returns the next scripted completion.
func (s *Scripted) Complete(ctx context.Context, prompt domainmodel.Prompt) (domainmodel.Completion, error) {
	if err := ctx.Err(); err != nil {
		return domainmodel.Completion{}, fmt.Errorf("%w: %w", domainmodel.ErrUnavailable, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.prompts = append(s.prompts, prompt)

	if s.index >= len(s.steps) {
		return s.onExhausted(prompt)
	}

	step := s.steps[s.index]
	s.index++

	if step.Condition != nil && !step.Condition(prompt) {
		return domainmodel.Completion{}, fmt.Errorf("%w: step %d condition failed", domainmodel.ErrUnavailable, s.index-1)
	}
	if step.Err != nil {
		return domainmodel.Completion{}, step.Err
	}
	return domainmodel.Completion{Text: step.Text, Model: "scripted"}, nil
}

// Calls returns how many completions were requested.
func (s *Scripted) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.prompts)
}

// Prompts returns a copy of every prompt received.
func (s *Scripted) Prompts() []domainmodel.Prompt {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domainmodel.Prompt, len(s.prompts))
	copy(out, s.prompts)
	return out
}

// Reset rewinds the script.
func (s *Scripted) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = 0
	s.prompts = nil
}
