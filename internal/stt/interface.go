package stt

import "context"

// Engine defines the interface for speech-to-text engines.
// A single Engine is created at startup and shared by every request.
type Engine interface {
	// Transcribe transcribes an audio file and returns its segments in order
	Transcribe(ctx context.Context, audioPath string) ([]Segment, error)

	// Name returns the name of the engine (e.g., "whisper-cli", "openai")
	Name() string
}
