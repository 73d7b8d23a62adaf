package tts

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikhilupadhyay26/voiceaipractice/internal/apperr"
	"github.com/nikhilupadhyay26/voiceaipractice/internal/config"
	"github.com/nikhilupadhyay26/voiceaipractice/internal/logger"
)

type fixture struct {
	cfg    config.TTSConfig
	outDir string
}

// newFixture lays out a fake piper install whose script body is given.
func newFixture(t *testing.T, body string) fixture {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skipf("sh not available: %v", err)
	}
	root := t.TempDir()

	bin := filepath.Join(root, "piper")
	script := "#!/bin/sh\n" +
		"while [ $# -gt 0 ]; do\n" +
		"  case \"$1\" in\n" +
		"    -f) out=\"$2\"; shift ;;\n" +
		"  esac\n" +
		"  shift\n" +
		"done\n" + body
	require.NoError(t, os.WriteFile(bin, []byte(script), 0o755))

	voice := filepath.Join(root, "en_US-amy-medium.onnx")
	require.NoError(t, os.WriteFile(voice, []byte("onnx"), 0o644))

	espeak := filepath.Join(root, "espeak-ng-data")
	require.NoError(t, os.Mkdir(espeak, 0o755))

	outDir := filepath.Join(root, "static", "tts")
	require.NoError(t, os.MkdirAll(outDir, 0o755))

	return fixture{
		cfg: config.TTSConfig{
			PiperBin:   bin,
			PiperModel: voice,
			EspeakData: espeak,
			Timeout:    5 * time.Second,
		},
		outDir: outDir,
	}
}

func (f fixture) piper() *Piper {
	return NewPiper(f.cfg, f.outDir, logger.Discard())
}

func requireKind(t *testing.T, err error, kind apperr.Kind) *apperr.Error {
	t.Helper()
	require.Error(t, err)
	var e *apperr.Error
	require.True(t, errors.As(err, &e), "expected *apperr.Error, got %T", err)
	assert.Equal(t, kind, e.Kind)
	return e
}

var wavURL = regexp.MustCompile(`^static/tts/[0-9a-f]{32}\.wav$`)

func TestSynthesizeWritesUniqueFiles(t *testing.T) {
	f := newFixture(t, "cat > \"$out\"\n")
	p := f.piper()

	first, err := p.Synthesize(context.Background(), "  Hello there.  ")
	require.NoError(t, err)
	second, err := p.Synthesize(context.Background(), "Hello there.")
	require.NoError(t, err)

	assert.Regexp(t, wavURL, first.URL)
	assert.Regexp(t, wavURL, second.URL)
	assert.NotEqual(t, first.URL, second.URL)

	data, err := os.ReadFile(filepath.Join(f.outDir, filepath.Base(first.URL)))
	require.NoError(t, err)
	assert.Equal(t, "Hello there.", string(data))
}

func TestSynthesizeRejectsBlankText(t *testing.T) {
	f := newFixture(t, "exit 0\n")
	_, err := f.piper().Synthesize(context.Background(), " \n\t ")
	e := requireKind(t, err, apperr.NoText)
	assert.Equal(t, 400, e.Status)
}

func TestPreflightFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cfg *config.TTSConfig)
		kind   apperr.Kind
	}{
		{"missing binary", func(c *config.TTSConfig) { c.PiperBin = "/nonexistent/piper" }, apperr.PiperNotFound},
		{"binary is a directory", func(c *config.TTSConfig) { c.PiperBin = c.EspeakData }, apperr.PiperNotFound},
		{"missing model", func(c *config.TTSConfig) { c.PiperModel = "/nonexistent/voice.onnx" }, apperr.ModelNotFound},
		{"missing espeak data", func(c *config.TTSConfig) { c.EspeakData = "/nonexistent/espeak-ng-data" }, apperr.EspeakDataNotFound},
		{"espeak data is a file", func(c *config.TTSConfig) { c.EspeakData = c.PiperModel }, apperr.EspeakDataNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "cat > \"$out\"\n")
			tt.mutate(&f.cfg)

			_, err := f.piper().Synthesize(context.Background(), "hi")
			e := requireKind(t, err, tt.kind)
			assert.Equal(t, 500, e.Status)
			assert.NotEmpty(t, e.Path)

			entries, err := os.ReadDir(f.outDir)
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}

func TestPreflightRestoresExecutableBit(t *testing.T) {
	f := newFixture(t, "cat > \"$out\"\n")
	require.NoError(t, os.Chmod(f.cfg.PiperBin, 0o644))

	res, err := f.piper().Synthesize(context.Background(), "hi")
	require.NoError(t, err)
	assert.Regexp(t, wavURL, res.URL)

	info, err := os.Stat(f.cfg.PiperBin)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode().Perm()&0o100)
}

func TestSynthesizeNonzeroExitReportsStderrTail(t *testing.T) {
	noise := strings.Repeat("x", 700)
	f := newFixture(t, "printf 'partial' > \"$out\"\nprintf '"+noise+" phonemizer crashed' >&2\nexit 2\n")

	_, err := f.piper().Synthesize(context.Background(), "hi")
	e := requireKind(t, err, apperr.PiperFailed)
	assert.Len(t, []rune(e.Detail), 500)
	assert.True(t, strings.HasSuffix(e.Detail, "phonemizer crashed"))

	entries, err := os.ReadDir(f.outDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "partial output must be removed")
}

func TestSynthesizeMissingOutputIsFailure(t *testing.T) {
	f := newFixture(t, "echo 'nothing written' >&2\nexit 0\n")

	_, err := f.piper().Synthesize(context.Background(), "hi")
	e := requireKind(t, err, apperr.PiperFailed)
	assert.Equal(t, "nothing written", e.Detail)
}

func TestSynthesizeTimeoutIsException(t *testing.T) {
	f := newFixture(t, "sleep 10\n")
	f.cfg.Timeout = 100 * time.Millisecond

	_, err := f.piper().Synthesize(context.Background(), "hi")
	requireKind(t, err, apperr.TTSException)
}

func TestNewFileName(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		name := newFileName()
		assert.Regexp(t, `^[0-9a-f]{32}\.wav$`, name)
		assert.False(t, seen[name])
		seen[name] = true
	}
}
