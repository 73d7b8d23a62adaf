package stt

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/nikhilupadhyay26/voiceaipractice/internal/config"
)

// OpenAIEngine implements STT against an OpenAI-compatible transcription endpoint,
// e.g. a faster-whisper server.
type OpenAIEngine struct {
	client   *openai.Client
	model    string
	language string
}

// NewOpenAIEngine creates an engine talking to cfg.URL (the /v1 base).
func NewOpenAIEngine(cfg config.STTConfig) *OpenAIEngine {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = cfg.URL
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &OpenAIEngine{
		client:   openai.NewClientWithConfig(clientCfg),
		model:    cfg.Model,
		language: cfg.Language,
	}
}

// Name returns the engine name
func (e *OpenAIEngine) Name() string {
	return "openai"
}

// Transcribe uploads the audio file and returns the verbose_json segments.
func (e *OpenAIEngine) Transcribe(ctx context.Context, audioPath string) ([]Segment, error) {
	resp, err := e.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    e.model,
		FilePath: audioPath,
		Format:   openai.AudioResponseFormatVerboseJSON,
		Language: e.language,
	})
	if err != nil {
		return nil, fmt.Errorf("transcription request failed: %w", err)
	}

	if len(resp.Segments) == 0 {
		// some servers omit segments for short clips
		if text := strings.TrimSpace(resp.Text); text != "" {
			return []Segment{{Text: text}}, nil
		}
		return []Segment{}, nil
	}

	segments := make([]Segment, 0, len(resp.Segments))
	for _, s := range resp.Segments {
		segments = append(segments, Segment{
			Start: seconds(s.Start),
			End:   seconds(s.End),
			Text:  s.Text,
		})
	}
	return segments, nil
}

func seconds(f float64) time.Duration {
	return time.Duration(f * float64(time.Second))
}
