// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"fmt"
	"net/http"

	"github.com/pdiddy/paper-radar/pkg/types"
)

// New builds the provider selected by cfg.Provider. Selection happens once,
// here; callers never inspect the concrete type. A misconfigured provider
// (unknown name, missing credential outside mock mode) is a fatal
// configuration error and must abort the run before any stage executes.
func New(cfg types.LLMConfig) (Provider, error) {
	switch cfg.Provider {
	case "anthropic":
		if cfg.Anthropic.APIKey == "" {
			return nil, fmt.Errorf("anthropic provider selected but no API key configured")
		}
		if cfg.Anthropic.Model == "" {
			return nil, fmt.Errorf("anthropic provider selected but no model configured")
		}
		return &AnthropicProvider{
			APIKey: cfg.Anthropic.APIKey,
			Model:  cfg.Anthropic.Model,
			Client: &http.Client{},
		}, nil
	case "gemini":
		return NewGeminiProvider(cfg.Gemini.Model), nil
	case "mock":
		return &MockProvider{}, nil
	case "":
		return nil, fmt.Errorf("no LLM provider configured")
	default:
		return nil, fmt.Errorf("unknown LLM provider %q: must be anthropic, gemini, or mock", cfg.Provider)
	}
}

// NewInvoker wraps a provider with the retry settings from cfg.
func NewInvoker(p Provider, cfg types.LLMConfig) Invoker {
	return Invoker{
		Provider:    p,
		MaxAttempts: cfg.MaxAttempts,
		RetryDelay:  cfg.RetryDelay,
		Timeout:     cfg.RequestTimeout,
	}
}
