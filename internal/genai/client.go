// Package genai defines the generative-model boundary of the pipeline.
//
// The core only depends on [Client], a single-operation capability that turns
// a prompt into free text. The production implementation wraps a langchaingo
// model behind that interface; tests use [MockClient].
//
// The package holds no decision logic: timeouts, retries, and rate limiting
// are the provider's concern, imposed by the caller at this boundary via the
// context or provider options.
package genai

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Client generates free text from a prompt.
//
// Implementations should be safe for use from a single pipeline run at a
// time; the orchestrator never issues concurrent calls within one run.
type Client interface {
	// Complete generates a completion for the given prompt.
	//
	// The context controls cancellation and deadlines. Returns the raw model
	// text or an error if the request fails.
	Complete(ctx context.Context, prompt string) (string, error)
}

// ModelClient implements [Client] on top of a langchaingo model.
//
// Create with [NewModelClient] or [NewOpenAIClient].
type ModelClient struct {
	model llms.Model
}

// NewModelClient wraps an already-constructed langchaingo model.
func NewModelClient(model llms.Model) *ModelClient {
	return &ModelClient{model: model}
}

// ProviderOptions configures an OpenAI-compatible provider.
type ProviderOptions struct {
	// APIKey is the provider token. Required.
	APIKey string

	// Model is the model name to request (e.g. "gpt-4o-mini").
	Model string

	// BaseURL overrides the API endpoint for OpenAI-compatible providers
	// such as OpenRouter. Empty uses the provider default.
	BaseURL string
}

// NewOpenAIClient builds a [ModelClient] for an OpenAI-compatible provider.
func NewOpenAIClient(opts ProviderOptions) (*ModelClient, error) {
	llmOpts := []openai.Option{
		openai.WithToken(opts.APIKey),
		openai.WithModel(opts.Model),
	}
	if opts.BaseURL != "" {
		llmOpts = append(llmOpts, openai.WithBaseURL(opts.BaseURL))
	}

	llm, err := openai.New(llmOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize model client: %w", err)
	}
	return &ModelClient{model: llm}, nil
}

// Complete sends the prompt as a single human message and returns the model
// text.
func (c *ModelClient) Complete(ctx context.Context, prompt string) (string, error) {
	text, err := llms.GenerateFromSinglePrompt(ctx, c.model, prompt)
	if err != nil {
		return "", fmt.Errorf("model call failed: %w", err)
	}
	return text, nil
}
