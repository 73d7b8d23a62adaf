package stt

import (
	"fmt"

	"github.com/nikhilupadhyay26/voiceaipractice/internal/config"
	"github.com/nikhilupadhyay26/voiceaipractice/internal/logger"
)

// CreateEngine creates the configured STT engine, already guarded for shared use.
func CreateEngine(cfg config.STTConfig, log *logger.Logger) (Engine, error) {
	var engine Engine
	switch cfg.Backend {
	case "whisper-cli", "":
		engine = NewWhisperCLI(cfg, log)
	case "openai":
		engine = NewOpenAIEngine(cfg)
	default:
		return nil, fmt.Errorf("unsupported STT backend: %s. Supported: whisper-cli, openai", cfg.Backend)
	}

	log.Info("STT engine initialized", logger.Fields{
		"engine":      engine.Name(),
		"concurrency": cfg.Concurrency,
	})
	return Serialize(engine, cfg.Concurrency), nil
}
