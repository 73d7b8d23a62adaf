package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all server configuration. Values come from defaults, then an optional
// YAML file named by COACH_CONFIG, then environment variables.
type Config struct {
	Port        string       `yaml:"port"`
	StaticDir   string       `yaml:"static_dir"`
	LogLevel    string       `yaml:"log_level"`
	LogFormat   string       `yaml:"log_format"` // "text" or "json"
	MaxUploadMB int          `yaml:"max_upload_mb"`
	Engine      EngineConfig `yaml:"engine"`
	TTS         TTSConfig    `yaml:"tts"`
	STT         STTConfig    `yaml:"stt"`
}

// EngineConfig configures the chat/completion engine.
type EngineConfig struct {
	API     string        `yaml:"api"` // "ollama" or "openai"
	URL     string        `yaml:"url"`
	Model   string        `yaml:"model"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
}

// TTSConfig configures the piper synthesis binary.
type TTSConfig struct {
	PiperBin   string        `yaml:"piper_bin"`
	PiperModel string        `yaml:"piper_model"`
	EspeakData string        `yaml:"espeak_data"`
	Timeout    time.Duration `yaml:"timeout"`
}

// STTConfig configures the speech-to-text engine.
type STTConfig struct {
	Backend      string        `yaml:"backend"` // "whisper-cli" or "openai"
	WhisperBin   string        `yaml:"whisper_bin"`
	WhisperModel string        `yaml:"whisper_model"`
	FFmpegBin    string        `yaml:"ffmpeg_bin"`
	URL          string        `yaml:"url"`
	Model        string        `yaml:"model"`
	APIKey       string        `yaml:"api_key"`
	Language     string        `yaml:"language"`
	Timeout      time.Duration `yaml:"timeout"`
	Concurrency  int           `yaml:"concurrency"`
}

// Default returns a Config with the documented default values.
func Default() *Config {
	return &Config{
		Port:        "5001",
		StaticDir:   "static",
		LogLevel:    "info",
		LogFormat:   "text",
		MaxUploadMB: 25,
		Engine: EngineConfig{
			API:     "ollama",
			URL:     "http://host.docker.internal:11434",
			Model:   "qwen2:0.5b",
			Timeout: 300 * time.Second,
		},
		TTS: TTSConfig{
			PiperBin:   "/usr/local/bin/piper",
			PiperModel: "/models/en_US-amy-medium.onnx",
			EspeakData: "/usr/share/espeak-ng-data",
			Timeout:    120 * time.Second,
		},
		STT: STTConfig{
			Backend:      "whisper-cli",
			WhisperBin:   "/usr/local/bin/whisper-cli",
			WhisperModel: "/models/ggml-small.bin",
			FFmpegBin:    "ffmpeg",
			URL:          "http://localhost:8000/v1",
			Model:        "Systran/faster-whisper-small",
			Timeout:      300 * time.Second,
			Concurrency:  1,
		},
	}
}

// Load loads configuration from defaults, the optional YAML file and the environment.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("COACH_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	if root.Kind == 0 {
		return nil
	}
	secondsToDuration(&root)
	if err := root.Decode(c); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	return nil
}

// secondsToDuration rewrites integer "timeout" values as "<n>s" so the file accepts the same
// bare-seconds form as the environment.
func secondsToDuration(n *yaml.Node) {
	if n.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, val := n.Content[i], n.Content[i+1]
			if key.Value == "timeout" && val.Kind == yaml.ScalarNode && val.Tag == "!!int" {
				val.Value += "s"
				val.Tag = "!!str"
			}
		}
	}
	for _, child := range n.Content {
		secondsToDuration(child)
	}
}

func (c *Config) applyEnv() error {
	c.Port = getEnv("PORT", c.Port)
	c.StaticDir = getEnv("STATIC_DIR", c.StaticDir)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("LOG_FORMAT", c.LogFormat)

	c.Engine.API = strings.ToLower(getEnv("ENGINE_API", c.Engine.API))
	c.Engine.URL = strings.TrimRight(getEnv("OLLAMA_URL", c.Engine.URL), "/")
	c.Engine.Model = getEnv("ENGINE_MODEL", c.Engine.Model)
	c.Engine.APIKey = getEnv("ENGINE_API_KEY", c.Engine.APIKey)

	c.TTS.PiperBin = getEnv("PIPER_BIN", c.TTS.PiperBin)
	c.TTS.PiperModel = getEnv("PIPER_MODEL", c.TTS.PiperModel)
	c.TTS.EspeakData = getEnv("ESPEAK_DATA", c.TTS.EspeakData)

	c.STT.Backend = strings.ToLower(getEnv("STT_BACKEND", c.STT.Backend))
	c.STT.WhisperBin = getEnv("WHISPER_BIN", c.STT.WhisperBin)
	c.STT.WhisperModel = getEnv("WHISPER_MODEL", c.STT.WhisperModel)
	c.STT.FFmpegBin = getEnv("FFMPEG_BIN", c.STT.FFmpegBin)
	c.STT.URL = strings.TrimRight(getEnv("STT_URL", c.STT.URL), "/")
	c.STT.Model = getEnv("STT_MODEL", c.STT.Model)
	c.STT.APIKey = getEnv("STT_API_KEY", c.STT.APIKey)
	c.STT.Language = getEnv("STT_LANGUAGE", c.STT.Language)

	var err error
	if c.MaxUploadMB, err = getEnvInt("MAX_UPLOAD_MB", c.MaxUploadMB); err != nil {
		return err
	}
	if c.STT.Concurrency, err = getEnvInt("STT_CONCURRENCY", c.STT.Concurrency); err != nil {
		return err
	}
	if c.Engine.Timeout, err = getEnvDuration("ENGINE_TIMEOUT", c.Engine.Timeout); err != nil {
		return err
	}
	if c.TTS.Timeout, err = getEnvDuration("TTS_TIMEOUT", c.TTS.Timeout); err != nil {
		return err
	}
	if c.STT.Timeout, err = getEnvDuration("STT_TIMEOUT", c.STT.Timeout); err != nil {
		return err
	}
	return nil
}

// Validate checks the config for invalid values.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port must not be empty")
	}
	if c.StaticDir == "" {
		return fmt.Errorf("static_dir must not be empty")
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("log_format must be \"text\" or \"json\", got %q", c.LogFormat)
	}
	switch c.Engine.API {
	case "ollama", "openai":
	default:
		return fmt.Errorf("engine api must be \"ollama\" or \"openai\", got %q", c.Engine.API)
	}
	if c.Engine.URL == "" {
		return fmt.Errorf("engine url must not be empty")
	}
	if c.Engine.Timeout <= 0 {
		return fmt.Errorf("engine timeout must be > 0")
	}
	switch c.STT.Backend {
	case "whisper-cli", "openai":
	default:
		return fmt.Errorf("stt backend must be \"whisper-cli\" or \"openai\", got %q", c.STT.Backend)
	}
	if c.STT.Concurrency < 1 {
		return fmt.Errorf("stt concurrency must be >= 1")
	}
	if c.TTS.Timeout <= 0 || c.STT.Timeout <= 0 {
		return fmt.Errorf("tts and stt timeouts must be > 0")
	}
	if c.MaxUploadMB < 1 {
		return fmt.Errorf("max_upload_mb must be >= 1")
	}
	return nil
}

// MaxUploadBytes returns the request body limit in bytes, uploads included.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

// getEnvDuration accepts Go durations ("90s") or a bare number of seconds.
func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}
