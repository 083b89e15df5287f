package intelligence

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/hupe1980/agentwire/logging"
)

// Config carries the engine-specific invocation settings. Engine is the only
// required field; everything else has provider defaults.
type Config struct {
	Engine      string  `json:"engine" yaml:"engine"`
	Model       string  `json:"model,omitempty" yaml:"model,omitempty"`
	APIKey      string  `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	Endpoint    string  `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	Temperature float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty"`
}

// ConfigFromMap builds a Config from a generic mapping, e.g. the
// intelligence_request payload of an agent response.
func ConfigFromMap(m map[string]any) Config {
	cfg := Config{}
	if v, ok := m["engine"].(string); ok {
		cfg.Engine = v
	}
	if v, ok := m["model"].(string); ok {
		cfg.Model = v
	}
	if v, ok := m["api_key"].(string); ok {
		cfg.APIKey = v
	}
	if v, ok := m["endpoint"].(string); ok {
		cfg.Endpoint = v
	}
	switch v := m["temperature"].(type) {
	case float64:
		cfg.Temperature = v
	case int:
		cfg.Temperature = float64(v)
	}
	switch v := m["max_tokens"].(type) {
	case float64:
		cfg.MaxTokens = int(v)
	case int:
		cfg.MaxTokens = v
	}
	return cfg
}

// Provider is the invocation strategy for one engine.
type Provider interface {
	// Name returns the engine name used for dispatch ("openai", "anthropic", ...).
	Name() string

	// RequiresAPIKey reports whether the engine refuses calls without credentials.
	RequiresAPIKey() bool

	// Invoke sends the prompt and returns the generated text.
	Invoke(ctx context.Context, prompt string, cfg Config) (string, error)
}

// GatewayOptions configures a Gateway.
type GatewayOptions struct {
	// Logger defaults to NoOp.
	Logger logging.Logger
}

// Gateway dispatches invocations over a table of registered providers.
// Invocations are synchronous and blocking; the gateway carries no retry
// policy. Callers bound slow engines with a context deadline.
type Gateway struct {
	mu        sync.RWMutex
	providers map[string]Provider
	logger    logging.Logger
}

// NewGateway constructs a gateway with no providers registered.
func NewGateway(optFns ...func(o *GatewayOptions)) *Gateway {
	opts := GatewayOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Gateway{providers: make(map[string]Provider), logger: opts.Logger}
}

// Register adds a provider strategy under its engine name, replacing any
// previous registration for that name.
func (g *Gateway) Register(p Provider) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.providers[p.Name()] = p
}

// Engines returns the recognized engine names, sorted.
func (g *Gateway) Engines() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	engines := make([]string, 0, len(g.providers))
	for name := range g.providers {
		engines = append(engines, name)
	}
	sort.Strings(engines)
	return engines
}

// Invoke validates cfg and dispatches the prompt to the selected engine.
//
// Failure modes, checked in order:
//   - ErrMissingEngine when cfg.Engine is empty
//   - *UnsupportedEngineError when no provider is registered for the engine
//   - *AuthenticationError when the provider requires an API key and none is set
//   - a wrapped provider error for anything that fails during the call itself
func (g *Gateway) Invoke(ctx context.Context, prompt string, cfg Config) (string, error) {
	if cfg.Engine == "" {
		return "", ErrMissingEngine
	}

	g.mu.RLock()
	provider, ok := g.providers[cfg.Engine]
	g.mu.RUnlock()
	if !ok {
		return "", &UnsupportedEngineError{Engine: cfg.Engine, Supported: g.Engines()}
	}

	if provider.RequiresAPIKey() && cfg.APIKey == "" {
		return "", &AuthenticationError{Engine: cfg.Engine}
	}

	start := time.Now()
	text, err := provider.Invoke(ctx, prompt, cfg)
	if err != nil {
		g.logger.Error("intelligence.invoke.failed", "engine", cfg.Engine, "error", err.Error())
		return "", fmt.Errorf("%s provider: %w", cfg.Engine, err)
	}

	g.logger.Info("intelligence.invoke.success",
		"engine", cfg.Engine,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return text, nil
}
