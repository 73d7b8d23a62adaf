package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"COACH_CONFIG", "PORT", "STATIC_DIR", "LOG_LEVEL", "LOG_FORMAT", "MAX_UPLOAD_MB",
		"ENGINE_API", "OLLAMA_URL", "ENGINE_MODEL", "ENGINE_API_KEY", "ENGINE_TIMEOUT",
		"PIPER_BIN", "PIPER_MODEL", "ESPEAK_DATA", "TTS_TIMEOUT",
		"STT_BACKEND", "WHISPER_BIN", "WHISPER_MODEL", "FFMPEG_BIN", "STT_URL", "STT_MODEL",
		"STT_API_KEY", "STT_LANGUAGE", "STT_TIMEOUT", "STT_CONCURRENCY",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5001", cfg.Port)
	assert.Equal(t, "http://host.docker.internal:11434", cfg.Engine.URL)
	assert.Equal(t, "ollama", cfg.Engine.API)
	assert.Equal(t, 300*time.Second, cfg.Engine.Timeout)
	assert.Equal(t, "/usr/local/bin/piper", cfg.TTS.PiperBin)
	assert.Equal(t, "/models/en_US-amy-medium.onnx", cfg.TTS.PiperModel)
	assert.Equal(t, "/usr/share/espeak-ng-data", cfg.TTS.EspeakData)
	assert.Equal(t, 1, cfg.STT.Concurrency)
	assert.Equal(t, int64(25<<20), cfg.MaxUploadBytes())
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("OLLAMA_URL", "http://llm:11434/")
	t.Setenv("PIPER_BIN", "/opt/piper/piper")
	t.Setenv("PIPER_MODEL", "/opt/piper/voice.onnx")
	t.Setenv("ESPEAK_DATA", "/opt/piper/espeak-ng-data")
	t.Setenv("ENGINE_TIMEOUT", "45")
	t.Setenv("TTS_TIMEOUT", "1m30s")
	t.Setenv("STT_BACKEND", "OpenAI")
	t.Setenv("STT_CONCURRENCY", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://llm:11434", cfg.Engine.URL)
	assert.Equal(t, "/opt/piper/piper", cfg.TTS.PiperBin)
	assert.Equal(t, "/opt/piper/voice.onnx", cfg.TTS.PiperModel)
	assert.Equal(t, "/opt/piper/espeak-ng-data", cfg.TTS.EspeakData)
	assert.Equal(t, 45*time.Second, cfg.Engine.Timeout)
	assert.Equal(t, 90*time.Second, cfg.TTS.Timeout)
	assert.Equal(t, "openai", cfg.STT.Backend)
	assert.Equal(t, 3, cfg.STT.Concurrency)
}

func TestLoadYAMLFileThenEnv(t *testing.T) {
	clearEnv(t)
	yamlContent := `
port: "9000"
log_format: json
engine:
  api: openai
  model: llama3
stt:
  backend: openai
  timeout: 2m
`
	path := filepath.Join(t.TempDir(), "coach.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yamlContent), 0o644))
	t.Setenv("COACH_CONFIG", path)
	t.Setenv("ENGINE_MODEL", "qwen2:1.5b")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "openai", cfg.Engine.API)
	assert.Equal(t, "qwen2:1.5b", cfg.Engine.Model, "env must win over file")
	assert.Equal(t, 2*time.Minute, cfg.STT.Timeout)
	// untouched keys keep their defaults
	assert.Equal(t, "/usr/local/bin/piper", cfg.TTS.PiperBin)
}

func TestLoadYAMLTimeoutsInSeconds(t *testing.T) {
	clearEnv(t)
	yamlContent := `
engine:
  timeout: 300
tts:
  timeout: 90
stt:
  timeout: 1m30s
`
	path := filepath.Join(t.TempDir(), "coach.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yamlContent), 0o644))
	t.Setenv("COACH_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 300*time.Second, cfg.Engine.Timeout)
	assert.Equal(t, 90*time.Second, cfg.TTS.Timeout)
	assert.Equal(t, 90*time.Second, cfg.STT.Timeout)
}

func TestLoadEmptyYAMLKeepsDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "coach.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	t.Setenv("COACH_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad engine api", map[string]string{"ENGINE_API": "grpc"}},
		{"bad stt backend", map[string]string{"STT_BACKEND": "vosk"}},
		{"bad concurrency", map[string]string{"STT_CONCURRENCY": "zero"}},
		{"zero concurrency", map[string]string{"STT_CONCURRENCY": "0"}},
		{"bad timeout", map[string]string{"ENGINE_TIMEOUT": "soon"}},
		{"bad log format", map[string]string{"LOG_FORMAT": "xml"}},
		{"missing config file", map[string]string{"COACH_CONFIG": "/nonexistent/coach.yaml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
