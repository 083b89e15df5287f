// Package anthropic provides the "anthropic" intelligence engine backed by
// the official Claude Messages client.
package anthropic

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/hupe1980/agentwire/intelligence"
)

// Options configure defaults applied when the invocation config leaves a
// field unset.
type Options struct {
	Model       anthropic.Model
	Temperature float64
	MaxTokens   int64
}

// Provider implements intelligence.Provider for the Anthropic Messages API.
type Provider struct {
	opts Options
}

// New creates the Anthropic provider.
func New(optFns ...func(o *Options)) *Provider {
	opts := Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.7,
		MaxTokens:   4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Provider{opts: opts}
}

// Name implements intelligence.Provider.
func (p *Provider) Name() string { return "anthropic" }

// RequiresAPIKey implements intelligence.Provider.
func (p *Provider) RequiresAPIKey() bool { return true }

// Invoke implements intelligence.Provider via a non-streaming message call.
func (p *Provider) Invoke(ctx context.Context, prompt string, cfg intelligence.Config) (string, error) {
	clientOpts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(cfg.Endpoint))
	}
	client := anthropic.NewClient(clientOpts...)

	model := p.opts.Model
	if cfg.Model != "" {
		model = anthropic.Model(cfg.Model)
	}
	temperature := p.opts.Temperature
	if cfg.Temperature != 0 {
		temperature = cfg.Temperature
	}
	maxTokens := p.opts.MaxTokens
	if cfg.MaxTokens != 0 {
		maxTokens = int64(cfg.MaxTokens)
	}

	params := anthropic.MessageNewParams{
		Model:       model,
		MaxTokens:   maxTokens,
		Temperature: anthropic.Float(temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}

	resp, err := client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic api error: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.AsText().Text)
		}
	}
	return text.String(), nil
}
