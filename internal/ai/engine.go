package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/nikhilupadhyay26/voiceaipractice/internal/apperr"
)

// engineDetailChars bounds the engine response body surfaced to clients.
const engineDetailChars = 500

// Message is one role-tagged chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is a single synchronous completion call.
type CompletionRequest struct {
	Messages    []Message
	Temperature float32
	MaxTokens   int
	// JSON asks the engine to constrain its output to a JSON object.
	JSON bool
}

// Completer defines the interface for chat completion engines.
type Completer interface {
	// Complete returns the raw text of the first reply. Errors that carry an HTTP status
	// from the engine are *EngineError; anything else is a transport failure.
	Complete(ctx context.Context, req CompletionRequest) (string, error)

	// Name returns the engine API name (e.g., "ollama", "openai")
	Name() string
}

// EngineError is a non-2xx answer from the completion engine.
type EngineError struct {
	StatusCode int
	Body       string
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("engine returned HTTP %d: %s", e.StatusCode, apperr.Head(e.Body, engineDetailChars))
}

// toAppError maps completion failures to client-facing errors: engine status errors become
// engine_failed, everything else internal_error.
func toAppError(err error) *apperr.Error {
	var ee *EngineError
	if errors.As(err, &ee) {
		return &apperr.Error{
			Kind:   apperr.EngineFailed,
			Status: http.StatusInternalServerError,
			Detail: apperr.Head(ee.Body, engineDetailChars),
			Err:    ee,
		}
	}
	return apperr.From(err)
}
