package model

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	domainmodel "github.com/felixgeelhaar/react-agent/domain/model"
)

// OpenAIConfig configures the OpenAI provider. Any OpenAI-compatible
// endpoint works through BaseURL.
type OpenAIConfig struct {
	APIKey      string       // Required: OpenAI API key
	Model       string       // e.g., "gpt-4o-mini"
	BaseURL     string       // Default: https://api.openai.com/v1
	Temperature float64      // Sampling temperature
	MaxTokens   int          // 0 = provider default
	HTTPClient  *http.Client // Optional
}

// OpenAI implements domainmodel.Model using the Chat Completions API.
type OpenAI struct {
	client      openai.Client
	model       string
	temperature float64
	maxTokens   int
}

// NewOpenAI creates an OpenAI provider.
func NewOpenAI(config OpenAIConfig) (*OpenAI, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("%w: openai", domainmodel.ErrMissingAPIKey)
	}

	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
		option.WithMaxRetries(0),
	}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}
	if config.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(config.HTTPClient))
	}

	return &OpenAI{
		client:      openai.NewClient(opts...),
		model:       config.Model,
		temperature: config.Temperature,
		maxTokens:   config.MaxTokens,
	}, nil
}

// Name returns the provider name.
func (p *OpenAI) Name() string {
	return "openai"
}

// Complete implements domainmodel.Model.
func (p *OpenAI) Complete(ctx context.Context, prompt domainmodel.Prompt) (domainmodel.Completion, error) {
	var messages []openai.ChatCompletionMessageParamUnion
	if prompt.System != "" {
		messages = append(messages, openai.SystemMessage(prompt.System))
	}
	messages = append(messages, openai.UserMessage(prompt.User))

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(p.model),
		Messages:    messages,
		Temperature: openai.Float(p.temperature),
	}
	if len(prompt.Stop) > 0 {
		params.Stop = openai.ChatCompletionNewParamsStopUnion{OfStringArray: prompt.Stop}
	}
	if p.maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(p.maxTokens))
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return domainmodel.Completion{}, classifyStatus("openai", apiErr.StatusCode, apiErr.Message)
		}
		return domainmodel.Completion{}, classifyTransport("openai", err)
	}
	if len(resp.Choices) == 0 {
		return domainmodel.Completion{}, fmt.Errorf("%w: openai returned no choices", domainmodel.ErrUnavailable)
	}

	return domainmodel.Completion{
		Text:  resp.Choices[0].Message.Content,
		Model: resp.Model,
		Usage: domainmodel.Usage{
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		},
	}, nil
}
