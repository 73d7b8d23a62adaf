package ai

import (
	"context"
	"strings"
	"time"

	"github.com/nikhilupadhyay26/voiceaipractice/internal/apperr"
	"github.com/nikhilupadhyay26/voiceaipractice/internal/logger"
	"github.com/nikhilupadhyay26/voiceaipractice/internal/model"
)

// Generation options per operation.
const (
	chatTemperature     = 0.6
	chatMaxTokens       = 300
	analysisTemperature = 0.2
	analysisMaxTokens   = 400
)

// Coach produces coaching replies and conversation analyses with a Completer.
type Coach struct {
	engine Completer
	log    *logger.Logger
}

// NewCoach creates a Coach backed by engine.
func NewCoach(engine Completer, log *logger.Logger) *Coach {
	return &Coach{
		engine: engine,
		log:    log.With(logger.Fields{"engine": engine.Name()}),
	}
}

// Chat returns a coaching reply for the user's message. An empty engine answer is
// replaced by model.FallbackReply.
func (c *Coach) Chat(ctx context.Context, req model.ChatRequest) (*model.ChatReply, error) {
	system, user := BuildChatPrompt(req)

	start := time.Now()
	raw, err := c.engine.Complete(ctx, CompletionRequest{
		Messages:    []Message{{Role: "system", Content: system}, {Role: "user", Content: user}},
		Temperature: chatTemperature,
		MaxTokens:   chatMaxTokens,
	})
	if err != nil {
		c.log.Error("chat completion failed", logger.Fields{"error": err.Error()})
		return nil, toAppError(err)
	}

	reply := strings.TrimSpace(raw)
	if reply == "" {
		c.log.Warn("engine returned an empty reply")
		reply = model.FallbackReply
	}
	c.log.Info("chat completed", logger.Fields{
		"prompt_chars": len(user),
		"reply_chars":  len(reply),
		"duration":     time.Since(start).String(),
	})
	return &model.ChatReply{Reply: reply}, nil
}

// Analyze scores a practice conversation. Malformed engine output still yields a
// complete report.
func (c *Coach) Analyze(ctx context.Context, req model.AnalysisRequest) (*model.AnalysisReport, error) {
	system, user := BuildAnalysisPrompt(req)

	start := time.Now()
	raw, err := c.engine.Complete(ctx, CompletionRequest{
		Messages:    []Message{{Role: "system", Content: system}, {Role: "user", Content: user}},
		Temperature: analysisTemperature,
		MaxTokens:   analysisMaxTokens,
		JSON:        true,
	})
	if err != nil {
		c.log.Error("analysis completion failed", logger.Fields{"error": err.Error()})
		return nil, toAppError(err)
	}

	report := RepairAnalysis(raw)
	c.log.Info("analysis completed", logger.Fields{
		"turns":    len(req.Turns),
		"duration": time.Since(start).String(),
	})
	if report.Summary == model.UnavailableSummary {
		c.log.Debug("analysis output unusable", logger.Fields{"raw": apperr.Head(raw, engineDetailChars)})
	}
	return &report, nil
}
