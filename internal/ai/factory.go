package ai

import (
	"fmt"

	"github.com/nikhilupadhyay26/voiceaipractice/internal/config"
)

// CreateCompleter creates the completion engine named by cfg.API
func CreateCompleter(cfg config.EngineConfig) (Completer, error) {
	switch cfg.API {
	case "ollama", "":
		return NewOllamaCompleter(cfg), nil
	case "openai":
		return NewOpenAICompleter(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported engine API: %s. Supported: ollama, openai", cfg.API)
	}
}
