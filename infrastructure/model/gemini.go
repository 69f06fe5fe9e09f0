package model

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	domainmodel "github.com/felixgeelhaar/react-agent/domain/model"
)

// GeminiConfig configures the Gemini provider.
type GeminiConfig struct {
	APIKey      string       // Required: Gemini API key
	Model       string       // e.g., "gemini-2.0-flash"
	BaseURL     string       // Optional endpoint override
	Temperature float64      // Sampling temperature
	MaxTokens   int          // 0 = provider default
	HTTPClient  *http.Client // Optional
}

// Gemini implements domainmodel.Model using the Google GenAI SDK.
type Gemini struct {
	client      *genai.Client
	model       string
	temperature float64
	maxTokens   int
}

// NewGemini creates a Gemini provider.
func NewGemini(ctx context.Context, config GeminiConfig) (*Gemini, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("%w: gemini", domainmodel.ErrMissingAPIKey)
	}

	cc := &genai.ClientConfig{
		APIKey:     config.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: config.HTTPClient,
	}
	if config.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: config.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &Gemini{
		client:      client,
		model:       config.Model,
		temperature: config.Temperature,
		maxTokens:   config.MaxTokens,
	}, nil
}

// Name returns the provider name.
func (g *Gemini) Name() string {
	return "gemini"
}

// Complete implements domainmodel.Model.
func (g *Gemini) Complete(ctx context.Context, prompt domainmodel.Prompt) (domainmodel.Completion, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature:   genai.Ptr(float32(g.temperature)),
		StopSequences: prompt.Stop,
	}
	if prompt.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(prompt.System, genai.RoleUser)
	}
	if g.maxTokens > 0 {
		cfg.MaxOutputTokens = int32(g.maxTokens) // #nosec G115 -- validated config value
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt.User), cfg)
	if err != nil {
		return domainmodel.Completion{}, classifyGemini(err)
	}

	out := domainmodel.Completion{
		Text:  resp.Text(),
		Model: g.model,
	}
	if u := resp.UsageMetadata; u != nil {
		out.Usage = domainmodel.Usage{
			PromptTokens:     int(u.PromptTokenCount),
			CompletionTokens: int(u.CandidatesTokenCount),
			TotalTokens:      int(u.TotalTokenCount),
		}
	}
	return out, nil
}

func classifyGemini(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus("gemini", apiErr.Code, apiErr.Message)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return classifyStatus("gemini", apiErrPtr.Code, apiErrPtr.Message)
	}
	return classifyTransport("gemini", err)
}
