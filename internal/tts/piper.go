// Package tts synthesizes speech with the piper command line tool.
package tts

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/nikhilupadhyay26/voiceaipractice/internal/apperr"
	"github.com/nikhilupadhyay26/voiceaipractice/internal/config"
	"github.com/nikhilupadhyay26/voiceaipractice/internal/logger"
	"github.com/nikhilupadhyay26/voiceaipractice/internal/model"
	"github.com/nikhilupadhyay26/voiceaipractice/internal/proc"
)

const (
	// URLPrefix is the path generated files are served under.
	URLPrefix = "static/tts"

	clientStderrChars = 500
	logStderrChars    = 1000
)

// Piper runs the piper binary once per request, writing a uniquely named WAV into outDir.
type Piper struct {
	cfg    config.TTSConfig
	outDir string
	log    *logger.Logger
}

// NewPiper creates a synthesizer writing into outDir, which must already exist.
func NewPiper(cfg config.TTSConfig, outDir string, log *logger.Logger) *Piper {
	return &Piper{
		cfg:    cfg,
		outDir: outDir,
		log:    log.With(logger.Fields{"engine": "piper"}),
	}
}

// Synthesize turns text into a WAV file and returns its relative URL.
func (p *Piper) Synthesize(ctx context.Context, text string) (*model.SynthesisResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperr.Client(apperr.NoText, "")
	}
	if err := p.preflight(); err != nil {
		return nil, err
	}

	name := newFileName()
	out := filepath.Join(p.outDir, name)

	res, err := proc.Run(ctx, proc.Command{
		Path:    p.cfg.PiperBin,
		Args:    []string{"-m", p.cfg.PiperModel, "-f", out, "--espeak-data", p.cfg.EspeakData},
		Stdin:   strings.NewReader(text),
		Timeout: p.cfg.Timeout,
	})
	if err != nil {
		os.Remove(out)
		p.log.Error("piper did not complete", logger.Fields{"error": err.Error()})
		return nil, apperr.Server(apperr.TTSException, err)
	}

	stderr := strings.TrimSpace(string(res.Stderr))
	if res.ExitCode != 0 || !isFile(out) {
		os.Remove(out)
		p.log.Error("piper failed", logger.Fields{
			"exit_code": res.ExitCode,
			"stderr":    apperr.Tail(stderr, logStderrChars),
		})
		return nil, &apperr.Error{
			Kind:   apperr.PiperFailed,
			Status: http.StatusInternalServerError,
			Detail: apperr.Tail(stderr, clientStderrChars),
			Err:    fmt.Errorf("piper exited with code %d", res.ExitCode),
		}
	}

	p.log.Debug("synthesis finished", logger.Fields{
		"file":     name,
		"chars":    len([]rune(text)),
		"duration": res.Duration.String(),
	})
	return &model.SynthesisResult{URL: path.Join(URLPrefix, name)}, nil
}

// preflight checks every configured path before spawning piper.
func (p *Piper) preflight() error {
	info, err := os.Stat(p.cfg.PiperBin)
	if err != nil || info.IsDir() {
		return apperr.Missing(apperr.PiperNotFound, p.cfg.PiperBin)
	}
	if info.Mode().Perm()&0o111 == 0 {
		if err := os.Chmod(p.cfg.PiperBin, 0o755); err != nil {
			e := apperr.Missing(apperr.PiperNotExecutable, p.cfg.PiperBin)
			e.Detail = err.Error()
			e.Err = errors.Join(e.Err, err)
			return e
		}
		p.log.Warn("added executable bit to piper binary", logger.Fields{"path": p.cfg.PiperBin})
	}
	if !isFile(p.cfg.PiperModel) {
		return apperr.Missing(apperr.ModelNotFound, p.cfg.PiperModel)
	}
	if info, err := os.Stat(p.cfg.EspeakData); err != nil || !info.IsDir() {
		return apperr.Missing(apperr.EspeakDataNotFound, p.cfg.EspeakData)
	}
	return nil
}

// newFileName returns a random 128-bit token as 32 hex characters plus the .wav suffix.
func newFileName() string {
	id := uuid.New()
	return hex.EncodeToString(id[:]) + ".wav"
}

func isFile(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}
