// Package config loads service configuration. Defaults come first,
// then an optional YAML file, then environment variables. Nothing is
// mandatory: the board stays usable with every external capability
// unconfigured, it just degrades (no speech, no chat answers, no
// rate limiting, inline ingestion).
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is consulted when AAC_CONFIG_FILE is not set.
const DefaultConfigFile = "aac-board.yaml"

// Config holds application configuration.
type Config struct {
	ServerPort  string `yaml:"server_port"`
	FrontendURL string `yaml:"frontend_url"`

	StateDBPath  string `yaml:"state_db_path"`
	VectorDBPath string `yaml:"vector_db_path"`
	UploadDir    string `yaml:"upload_dir"`

	OpenAIKey      string `yaml:"openai_api_key"`
	AIModel        string `yaml:"ai_model"`
	AIBaseURL      string `yaml:"ai_base_url"`
	EmbeddingModel string `yaml:"embedding_model"`

	TTSEndpoint string  `yaml:"tts_endpoint"`
	TTSRate     float64 `yaml:"tts_rate"`
	TTSPitch    float64 `yaml:"tts_pitch"`
	TTSVolume   float64 `yaml:"tts_volume"`

	RedisURL      string `yaml:"redis_url"`
	ChatRateLimit string `yaml:"chat_rate_limit"`

	RabbitMQURL      string `yaml:"rabbitmq_url"`
	RabbitMQPrefetch int    `yaml:"rabbitmq_prefetch"`

	ServerDebugMode bool `yaml:"server_debug_mode"`
	WorkerDebugMode bool `yaml:"worker_debug_mode"`

	OTELEnabled  bool   `yaml:"otel_enabled"`
	OTELEndpoint string `yaml:"otel_endpoint"`
}

// Load builds the configuration from defaults, the optional YAML file,
// and the environment.
func Load() (*Config, error) {
	cfg := &Config{
		ServerPort:       "8080",
		FrontendURL:      "http://localhost:3000",
		StateDBPath:      "aac-board.db",
		VectorDBPath:     "aac-vectors.db",
		UploadDir:        "uploads",
		EmbeddingModel:   "text-embedding-3-small",
		TTSRate:          0.8,
		TTSPitch:         1,
		TTSVolume:        1,
		ChatRateLimit:    "5-S",
		RabbitMQPrefetch: 1,
	}

	if err := cfg.applyFile(); err != nil {
		return nil, err
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyFile() error {
	path := os.Getenv("AAC_CONFIG_FILE")
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if explicit {
			return fmt.Errorf("read config file %s: %w", path, err)
		}
		return nil // default file is optional
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	setString(&c.ServerPort, "SERVER_PORT")
	setString(&c.FrontendURL, "FRONTEND_URL")
	setString(&c.StateDBPath, "STATE_DB_PATH")
	setString(&c.VectorDBPath, "VECTOR_DB_PATH")
	setString(&c.UploadDir, "UPLOAD_DIR")
	setString(&c.OpenAIKey, "OPENAI_API_KEY")
	setString(&c.AIModel, "AI_MODEL")
	setString(&c.AIBaseURL, "AI_BASE_URL")
	setString(&c.EmbeddingModel, "EMBEDDING_MODEL")
	setString(&c.TTSEndpoint, "TTS_ENDPOINT")
	setFloat(&c.TTSRate, "TTS_RATE")
	setFloat(&c.TTSPitch, "TTS_PITCH")
	setFloat(&c.TTSVolume, "TTS_VOLUME")
	setString(&c.RedisURL, "REDIS_URL")
	setString(&c.ChatRateLimit, "CHAT_RATE_LIMIT")
	setString(&c.RabbitMQURL, "RABBITMQ_URL")
	setInt(&c.RabbitMQPrefetch, "RABBITMQ_PREFETCH")
	setBool(&c.ServerDebugMode, "SERVER_DEBUG_MODE")
	setBool(&c.WorkerDebugMode, "WORKER_DEBUG_MODE")
	setBool(&c.OTELEnabled, "OTEL_ENABLED")
	setString(&c.OTELEndpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v == "true" || v == "1" || v == "yes"
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}
