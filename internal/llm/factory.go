package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/javiermolinar/courtside/internal/config"
)

const (
	ProviderCopilot  = "copilot"
	ProviderOllama   = "ollama"
	ProviderLMStudio = "lmstudio"
)

// NewClient creates an LLM client for the configured provider.
func NewClient(ctx context.Context, cfg config.LLMConfig) (Client, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", ProviderCopilot:
		return NewCopilotClient(ctx, cfg.Model)
	case ProviderOllama:
		return NewOllamaClient(cfg.Model, cfg.BaseURL)
	case ProviderLMStudio, "lm-studio":
		return NewLMStudioClient(cfg.Model, cfg.BaseURL)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}

// IsLocal reports whether the provider runs a local model, which gets a
// shorter prompt.
func IsLocal(provider string) bool {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case ProviderOllama, ProviderLMStudio, "lm-studio":
		return true
	default:
		return false
	}
}
