// Package model defines the reasoning model the loop prompts.
package model

import "context"

// Prompt is one request to the reasoning model.
// System carries the fixed instructions and tool catalog; User carries the
// question and the rendered transcript.
type Prompt struct {
	System string
	User   string

	// Stop lists sequences at which generation should stop.
	Stop []string
}

// Text joins the prompt parts for providers without a system role.
func (p Prompt) Text() string {
	if p.System == "" {
		return p.User
	}
	if p.User == "" {
		return p.System
	}
	return p.System + "\n\n" + p.User
}

// Completion is the model's textual continuation.
type Completion struct {
	Text  string
	Model string
	Usage Usage
}

// Usage contains token usage information.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Model is a stateless text-completion service.
//
// Complete fails with an error wrapping ErrAuth when the credential is
// rejected and ErrUnavailable for any other transport or service failure.
type Model interface {
	Complete(ctx context.Context, prompt Prompt) (Completion, error)

	// Name returns the provider name for logging.
	Name() string
}
