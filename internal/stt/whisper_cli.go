package stt

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-audio/wav"

	"github.com/nikhilupadhyay26/voiceaipractice/internal/apperr"
	"github.com/nikhilupadhyay26/voiceaipractice/internal/config"
	"github.com/nikhilupadhyay26/voiceaipractice/internal/logger"
	"github.com/nikhilupadhyay26/voiceaipractice/internal/proc"
)

// whisper.cpp only reads WAV at this rate.
const whisperSampleRate = 16000

// WhisperCLI implements STT by running the whisper.cpp command line tool.
type WhisperCLI struct {
	bin      string
	model    string
	ffmpeg   string
	language string
	timeout  time.Duration
	log      *logger.Logger
}

// NewWhisperCLI creates a whisper.cpp CLI engine
func NewWhisperCLI(cfg config.STTConfig, log *logger.Logger) *WhisperCLI {
	return &WhisperCLI{
		bin:      cfg.WhisperBin,
		model:    cfg.WhisperModel,
		ffmpeg:   cfg.FFmpegBin,
		language: cfg.Language,
		timeout:  cfg.Timeout,
		log:      log.With(logger.Fields{"engine": "whisper-cli"}),
	}
}

// Name returns the engine name
func (w *WhisperCLI) Name() string {
	return "whisper-cli"
}

// Transcribe runs whisper.cpp on audioPath. Every call works in its own temp directory.
func (w *WhisperCLI) Transcribe(ctx context.Context, audioPath string) ([]Segment, error) {
	workDir, err := os.MkdirTemp("", "whisper-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create work dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	input, err := w.prepareInput(ctx, audioPath, workDir)
	if err != nil {
		return nil, err
	}

	prefix := filepath.Join(workDir, "out")
	args := []string{"-m", w.model, "-f", input, "-oj", "-of", prefix, "-np"}
	if w.language != "" {
		args = append(args, "-l", w.language)
	}

	res, err := proc.Run(ctx, proc.Command{Path: w.bin, Args: args, Timeout: w.timeout})
	if err != nil {
		return nil, fmt.Errorf("whisper execution failed: %w", err)
	}
	if res.ExitCode != 0 {
		return nil, fmt.Errorf("whisper exited with code %d: %s",
			res.ExitCode, apperr.Tail(strings.TrimSpace(string(res.Stderr)), 500))
	}

	data, err := os.ReadFile(prefix + ".json")
	if err != nil {
		return nil, fmt.Errorf("reading transcript: %w", err)
	}
	segments, err := parseWhisperJSON(data)
	if err != nil {
		return nil, err
	}

	w.log.Debug("transcription finished", logger.Fields{
		"segments": len(segments),
		"duration": res.Duration.String(),
	})
	return segments, nil
}

// prepareInput returns a path whisper.cpp can read: the upload itself when it is already a
// 16 kHz WAV, otherwise an ffmpeg conversion inside workDir.
func (w *WhisperCLI) prepareInput(ctx context.Context, audioPath, workDir string) (string, error) {
	ok, err := isWhisperReadyWAV(audioPath)
	if err != nil {
		return "", err
	}
	if ok {
		return audioPath, nil
	}
	if w.ffmpeg == "" {
		return "", fmt.Errorf("audio is not a %d Hz WAV file and no ffmpeg is configured", whisperSampleRate)
	}

	out := filepath.Join(workDir, "input.wav")
	res, err := proc.Run(ctx, proc.Command{
		Path: w.ffmpeg,
		Args: []string{
			"-nostdin", "-y", "-loglevel", "error",
			"-i", audioPath,
			"-ar", fmt.Sprint(whisperSampleRate), "-ac", "1", "-c:a", "pcm_s16le",
			out,
		},
		Timeout: w.timeout,
	})
	if err != nil {
		return "", fmt.Errorf("audio conversion failed: %w", err)
	}
	if res.ExitCode != 0 {
		return "", fmt.Errorf("ffmpeg exited with code %d: %s",
			res.ExitCode, apperr.Tail(strings.TrimSpace(string(res.Stderr)), 500))
	}
	return out, nil
}

// isWhisperReadyWAV reports whether path is a valid WAV at the whisper sample rate.
func isWhisperReadyWAV(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return false, nil
	}
	return dec.SampleRate == whisperSampleRate && dec.NumChans <= 2, nil
}

type whisperOutput struct {
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}

// parseWhisperJSON reads the file written by whisper.cpp's -oj flag.
func parseWhisperJSON(data []byte) ([]Segment, error) {
	var out whisperOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to parse whisper output: %w", err)
	}
	segments := make([]Segment, 0, len(out.Transcription))
	for _, t := range out.Transcription {
		segments = append(segments, Segment{
			Start: time.Duration(t.Offsets.From) * time.Millisecond,
			End:   time.Duration(t.Offsets.To) * time.Millisecond,
			Text:  t.Text,
		})
	}
	return segments, nil
}
