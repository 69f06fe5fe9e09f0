package model

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"

	domainmodel "github.com/felixgeelhaar/react-agent/domain/model"
)

// DefaultOllamaURL is the local Ollama endpoint.
const DefaultOllamaURL = "http://localhost:11434"

// OllamaConfig configures the Ollama provider.
type OllamaConfig struct {
	BaseURL     string       // Default: http://localhost:11434
	Model       string       // e.g., "llama3.1"
	Temperature float64      // Sampling temperature
	MaxTokens   int          // 0 = provider default
	HTTPClient  *http.Client // Optional
}

// Ollama implements domainmodel.Model against a local Ollama server.
type Ollama struct {
	client      *api.Client
	model       string
	temperature float64
	maxTokens   int
}

// NewOllama creates an Ollama provider. No credential is needed.
func NewOllama(config OllamaConfig) (*Ollama, error) {
	base := config.BaseURL
	if base == "" {
		base = DefaultOllamaURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama base URL: %w", err)
	}
	hc := config.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}

	return &Ollama{
		client:      api.NewClient(u, hc),
		model:       config.Model,
		temperature: config.Temperature,
		maxTokens:   config.MaxTokens,
	}, nil
}

// Name returns the provider name.
func (o *Ollama) Name() string {
	return "ollama"
}

// Complete implements domainmodel.Model.
func (o *Ollama) Complete(ctx context.Context, prompt domainmodel.Prompt) (domainmodel.Completion, error) {
	var messages []api.Message
	if prompt.System != "" {
		messages = append(messages, api.Message{Role: "system", Content: prompt.System})
	}
	messages = append(messages, api.Message{Role: "user", Content: prompt.User})

	options := map[string]any{
		"temperature": o.temperature,
	}
	if len(prompt.Stop) > 0 {
		options["stop"] = prompt.Stop
	}
	if o.maxTokens > 0 {
		options["num_predict"] = o.maxTokens
	}

	stream := false
	req := &api.ChatRequest{
		Model:    o.model,
		Messages: messages,
		Stream:   &stream,
		Options:  options,
	}

	var (
		text  strings.Builder
		usage domainmodel.Usage
	)
	err := o.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		text.WriteString(resp.Message.Content)
		if resp.Done {
			usage = domainmodel.Usage{
				PromptTokens:     resp.PromptEvalCount,
				CompletionTokens: resp.EvalCount,
				TotalTokens:      resp.PromptEvalCount + resp.EvalCount,
			}
		}
		return nil
	})
	if err != nil {
		var statusErr api.StatusError
		if errors.As(err, &statusErr) {
			return domainmodel.Completion{}, classifyStatus("ollama", statusErr.StatusCode, statusErr.ErrorMessage)
		}
		return domainmodel.Completion{}, classifyTransport("ollama", err)
	}

	return domainmodel.Completion{
		Text:  text.String(),
		Model: o.model,
		Usage: usage,
	}, nil
}
