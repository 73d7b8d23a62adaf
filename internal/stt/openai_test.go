package stt

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikhilupadhyay26/voiceaipractice/internal/config"
)

func TestOpenAIEngineTranscribe(t *testing.T) {
	var gotModel, gotFormat string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/audio/transcriptions", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotModel = r.FormValue("model")
		gotFormat = r.FormValue("response_format")

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"task":     "transcribe",
			"language": "en",
			"duration": 3.2,
			"text":     "Hello there. General feedback.",
			"segments": []map[string]any{
				{"id": 0, "start": 0.0, "end": 1.5, "text": " Hello there."},
				{"id": 1, "start": 1.5, "end": 3.2, "text": " General feedback."},
			},
		})
	}))
	defer srv.Close()

	audioPath := filepath.Join(t.TempDir(), "clip.m4a")
	require.NoError(t, os.WriteFile(audioPath, []byte("fake audio"), 0o644))

	engine := NewOpenAIEngine(config.STTConfig{
		URL:     srv.URL + "/v1",
		Model:   "Systran/faster-whisper-small",
		Timeout: 5 * time.Second,
	})
	segments, err := engine.Transcribe(context.Background(), audioPath)
	require.NoError(t, err)

	assert.Equal(t, "Systran/faster-whisper-small", gotModel)
	assert.Equal(t, "verbose_json", gotFormat)
	require.Len(t, segments, 2)
	assert.Equal(t, 1500*time.Millisecond, segments[1].Start)
	assert.Equal(t, "Hello there. General feedback.", JoinSegments(segments))
}

func TestOpenAIEngineServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"model not loaded"}}`, http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	audioPath := filepath.Join(t.TempDir(), "clip.m4a")
	require.NoError(t, os.WriteFile(audioPath, []byte("fake audio"), 0o644))

	engine := NewOpenAIEngine(config.STTConfig{URL: srv.URL + "/v1", Model: "m", Timeout: 5 * time.Second})
	_, err := engine.Transcribe(context.Background(), audioPath)
	assert.Error(t, err)
}
