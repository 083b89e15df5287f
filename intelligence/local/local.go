// Package local provides the "local" intelligence engine speaking the Ollama
// generate API, for models served on the caller's own machine or network.
package local

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hupe1980/agentwire/intelligence"
)

// DefaultEndpoint is the standard local Ollama generate endpoint.
const DefaultEndpoint = "http://localhost:11434/api/generate"

// Options configure the local provider.
type Options struct {
	// Endpoint used when the invocation config does not override it.
	Endpoint string
	// Model used when the invocation config does not name one.
	Model string
	// HTTPClient defaults to a client with a 120s timeout.
	HTTPClient *http.Client
}

// Provider implements intelligence.Provider for Ollama-compatible servers.
type Provider struct {
	opts Options
}

// New creates the local provider.
func New(optFns ...func(o *Options)) *Provider {
	opts := Options{
		Endpoint:   DefaultEndpoint,
		Model:      "llama2",
		HTTPClient: &http.Client{Timeout: 120 * time.Second},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Provider{opts: opts}
}

// Name implements intelligence.Provider.
func (p *Provider) Name() string { return "local" }

// RequiresAPIKey implements intelligence.Provider. Local servers are
// unauthenticated.
func (p *Provider) RequiresAPIKey() bool { return false }

type generateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

// Invoke implements intelligence.Provider via a single non-streaming
// generate call.
func (p *Provider) Invoke(ctx context.Context, prompt string, cfg intelligence.Config) (string, error) {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = p.opts.Endpoint
	}
	model := cfg.Model
	if model == "" {
		model = p.opts.Model
	}

	options := map[string]any{}
	if cfg.Temperature != 0 {
		options["temperature"] = cfg.Temperature
	}
	if cfg.MaxTokens != 0 {
		options["num_predict"] = cfg.MaxTokens
	}

	body, err := json.Marshal(generateRequest{
		Model:   model,
		Prompt:  prompt,
		Stream:  false,
		Options: options,
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.opts.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("local llm request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("local llm returned status %d: %s", resp.StatusCode, data)
	}

	var decoded generateResponse
	if err := json.Unmarshal(data, &decoded); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if decoded.Error != "" {
		return "", fmt.Errorf("local llm error: %s", decoded.Error)
	}
	return decoded.Response, nil
}
