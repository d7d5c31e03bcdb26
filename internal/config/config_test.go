package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q, want 8080", cfg.ServerPort)
	}
	if cfg.StateDBPath != "aac-board.db" {
		t.Errorf("StateDBPath = %q", cfg.StateDBPath)
	}
	if cfg.ChatRateLimit != "5-S" {
		t.Errorf("ChatRateLimit = %q", cfg.ChatRateLimit)
	}
	if cfg.TTSRate != 0.8 {
		t.Errorf("TTSRate = %v, want 0.8", cfg.TTSRate)
	}
	// Nothing external is required for the board to come up.
	if cfg.OpenAIKey != "" || cfg.RedisURL != "" || cfg.RabbitMQURL != "" {
		t.Error("external capabilities should default to unconfigured")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9999")
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("RABBITMQ_PREFETCH", "8")
	t.Setenv("TTS_RATE", "1.5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerPort != "9999" {
		t.Errorf("ServerPort = %q", cfg.ServerPort)
	}
	if !cfg.OTELEnabled {
		t.Error("OTELEnabled not set from env")
	}
	if cfg.RabbitMQPrefetch != 8 {
		t.Errorf("RabbitMQPrefetch = %d", cfg.RabbitMQPrefetch)
	}
	if cfg.TTSRate != 1.5 {
		t.Errorf("TTSRate = %v", cfg.TTSRate)
	}
}

func TestLoad_YAMLFileThenEnvWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.yaml")
	if err := os.WriteFile(path, []byte("server_port: \"7070\"\nai_model: gpt-4o-mini\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("AAC_CONFIG_FILE", path)
	t.Setenv("SERVER_PORT", "6060")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AIModel != "gpt-4o-mini" {
		t.Errorf("AIModel = %q, want value from file", cfg.AIModel)
	}
	if cfg.ServerPort != "6060" {
		t.Errorf("ServerPort = %q, env should override file", cfg.ServerPort)
	}
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	t.Setenv("AAC_CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))
	if _, err := Load(); err == nil {
		t.Error("Load succeeded with missing explicit config file")
	}
}
