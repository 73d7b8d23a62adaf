package api

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nikhilupadhyay26/voiceaipractice/internal/apperr"
	"github.com/nikhilupadhyay26/voiceaipractice/internal/logger"
	"github.com/nikhilupadhyay26/voiceaipractice/internal/model"
	"github.com/nikhilupadhyay26/voiceaipractice/internal/storage"
	"github.com/nikhilupadhyay26/voiceaipractice/internal/stt"
	"github.com/nikhilupadhyay26/voiceaipractice/internal/utils"
)

// Synthesizer turns text into a served audio file.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (*model.SynthesisResult, error)
}

// CoachService answers chat and analysis requests.
type CoachService interface {
	Chat(ctx context.Context, req model.ChatRequest) (*model.ChatReply, error)
	Analyze(ctx context.Context, req model.AnalysisRequest) (*model.AnalysisReport, error)
}

// Dependencies are the engines shared by every request. They are created once at startup.
type Dependencies struct {
	STT   stt.Engine
	TTS   Synthesizer
	Coach CoachService
	Log   *logger.Logger
	// OutputDir is where synthesized files live; served under /static/tts.
	OutputDir string
	// MaxBodyBytes caps POST bodies, uploads included. Zero disables the cap.
	MaxBodyBytes int64
}

type handler struct {
	Dependencies
}

// RegisterRoutes installs middleware and every endpoint on r.
func RegisterRoutes(r *gin.Engine, d Dependencies) {
	h := &handler{Dependencies: d}

	r.Use(requestLogger(d.Log), recoveryMiddleware(d.Log), corsMiddleware())

	// Health check
	r.GET("/ping", ping)

	limited := r.Group("/", bodyLimit(d.MaxBodyBytes))
	{
		limited.POST("/transcribe", h.transcribe)
		limited.POST("/tts", h.synthesize)
		limited.POST("/chat", h.chat)
		limited.POST("/analyze", h.analyze)
	}

	r.Static("/static/tts", d.OutputDir)
}

func ping(c *gin.Context) {
	utils.Success(c, gin.H{"ok": true})
}

// transcribe handles POST /transcribe with a multipart "file" field.
func (h *handler) transcribe(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		h.Log.Debug("[Transcribe] no audio file", logger.Fields{"error": err.Error()})
		utils.Error(c, bodyError(err, apperr.Client(apperr.NoAudioFile, "")))
		return
	}
	if file.Size == 0 {
		utils.Error(c, apperr.Client(apperr.NoAudioFile, "empty upload"))
		return
	}

	path, cleanup, err := storage.SaveTemp(file)
	if err != nil {
		utils.Error(c, apperr.Server(apperr.TranscriptionFailed, err))
		return
	}
	defer cleanup()

	segments, err := h.STT.Transcribe(c.Request.Context(), path)
	if err != nil {
		h.Log.Error("[Transcribe] failed", logger.Fields{
			"engine": h.STT.Name(),
			"file":   file.Filename,
			"error":  err.Error(),
		})
		utils.Error(c, apperr.Server(apperr.TranscriptionFailed, err))
		return
	}

	utils.Success(c, model.TranscriptionResult{Text: stt.JoinSegments(segments)})
}

// synthesize handles POST /tts. A body that is not a JSON object counts as no text.
func (h *handler) synthesize(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.Error(c, bodyError(err, apperr.Client(apperr.NoText, "")))
		return
	}
	fields, err := model.DecodeFields(body)
	if err != nil {
		fields = model.Fields{}
	}

	text := fields.String("text")
	if text == "" {
		utils.Error(c, apperr.Client(apperr.NoText, ""))
		return
	}

	res, err := h.TTS.Synthesize(c.Request.Context(), text)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.Success(c, res)
}

// chat handles POST /chat.
func (h *handler) chat(c *gin.Context) {
	fields, ok := h.readFields(c)
	if !ok {
		return
	}

	reply, err := h.Coach.Chat(c.Request.Context(), model.DecodeChatRequest(fields))
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.Success(c, reply)
}

// analyze handles POST /analyze.
func (h *handler) analyze(c *gin.Context) {
	fields, ok := h.readFields(c)
	if !ok {
		return
	}

	report, err := h.Coach.Analyze(c.Request.Context(), model.DecodeAnalysisRequest(fields))
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.Success(c, report)
}

// readFields decodes the JSON object body, writing invalid_json on failure.
func (h *handler) readFields(c *gin.Context) (model.Fields, bool) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.Error(c, bodyError(err, apperr.Client(apperr.InvalidJSON, err.Error())))
		return nil, false
	}
	fields, err := model.DecodeFields(body)
	if err != nil {
		utils.Error(c, apperr.Client(apperr.InvalidJSON, err.Error()))
		return nil, false
	}
	return fields, true
}

// bodyError reports a read past MaxBodyBytes as payload_too_large and anything else as fallback.
func bodyError(err error, fallback *apperr.Error) *apperr.Error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apperr.TooLarge(tooLarge.Limit)
	}
	return fallback
}
