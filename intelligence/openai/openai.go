// Package openai provides the "openai" intelligence engine backed by the
// official Chat Completions client.
package openai

import (
	"context"
	"fmt"

	"github.com/hupe1980/agentwire/intelligence"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Options configure defaults applied when the invocation config leaves a
// field unset.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
}

// Provider implements intelligence.Provider for the OpenAI API.
type Provider struct {
	opts Options
}

// New creates the OpenAI provider.
func New(optFns ...func(o *Options)) *Provider {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.7,
		MaxCompletionTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Provider{opts: opts}
}

// Name implements intelligence.Provider.
func (p *Provider) Name() string { return "openai" }

// RequiresAPIKey implements intelligence.Provider.
func (p *Provider) RequiresAPIKey() bool { return true }

// Invoke implements intelligence.Provider via a non-streaming chat completion.
func (p *Provider) Invoke(ctx context.Context, prompt string, cfg intelligence.Config) (string, error) {
	clientOpts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(cfg.Endpoint))
	}
	client := openai.NewClient(clientOpts...)

	model := cfg.Model
	if model == "" {
		model = p.opts.Model
	}
	temperature := p.opts.Temperature
	if cfg.Temperature != 0 {
		temperature = cfg.Temperature
	}
	maxTokens := p.opts.MaxCompletionTokens
	if cfg.MaxTokens != 0 {
		maxTokens = int64(cfg.MaxTokens)
	}

	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model:               model,
		Temperature:         openai.Float(temperature),
		MaxCompletionTokens: openai.Int(maxTokens),
	}

	resp, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}
