package config

import (
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"HOMEWORKHELPER_DB", "HOMEWORKHELPER_CONTENT", "HOMEWORKHELPER_LOG",
		"HOMEWORKHELPER_LOG_MODE", "HOMEWORKHELPER_SPEECH", "HOMEWORKHELPER_SPEECH_CMD",
		"HOMEWORKHELPER_SPEECH_RATE", "HOMEWORKHELPER_TYPING_DELAY", "HOMEWORKHELPER_SEED",
	} {
		t.Setenv(k, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Pacing.BeforeTyping != 500*time.Millisecond {
		t.Errorf("BeforeTyping = %v, want 500ms", cfg.Pacing.BeforeTyping)
	}
	if cfg.Pacing.Typing != 1500*time.Millisecond {
		t.Errorf("Typing = %v, want 1.5s", cfg.Pacing.Typing)
	}
	if cfg.Speech.Rate != 0.8 {
		t.Errorf("Speech.Rate = %v, want 0.8", cfg.Speech.Rate)
	}
	if cfg.Seed != nil {
		t.Error("Seed should be unset by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestConfigFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOMEWORKHELPER_DB", "/tmp/hh.db")
	t.Setenv("HOMEWORKHELPER_CONTENT", "/tmp/pack.yaml")
	t.Setenv("HOMEWORKHELPER_LOG", "/tmp/hh.log")
	t.Setenv("HOMEWORKHELPER_LOG_MODE", "PROD")
	t.Setenv("HOMEWORKHELPER_SPEECH", "false")
	t.Setenv("HOMEWORKHELPER_SPEECH_RATE", "1.2")
	t.Setenv("HOMEWORKHELPER_TYPING_DELAY", "0s")
	t.Setenv("HOMEWORKHELPER_SEED", "42")

	cfg, warnings := ConfigFromEnv()
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if cfg.DBPath != "/tmp/hh.db" || cfg.ContentPath != "/tmp/pack.yaml" || cfg.Log.Path != "/tmp/hh.log" {
		t.Errorf("paths = %+v", cfg)
	}
	if cfg.Log.Mode != "prod" {
		t.Errorf("Log.Mode = %q, want prod", cfg.Log.Mode)
	}
	if cfg.Speech.Enabled {
		t.Error("speech should be disabled")
	}
	if cfg.Speech.Rate != 1.2 {
		t.Errorf("Speech.Rate = %v", cfg.Speech.Rate)
	}
	if cfg.Pacing.Typing != 0 {
		t.Errorf("Typing = %v, want 0", cfg.Pacing.Typing)
	}
	if cfg.Seed == nil || *cfg.Seed != 42 {
		t.Errorf("Seed = %v, want 42", cfg.Seed)
	}
}

func TestConfigFromEnvMalformed(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOMEWORKHELPER_SPEECH", "maybe")
	t.Setenv("HOMEWORKHELPER_SEED", "-1")
	t.Setenv("HOMEWORKHELPER_TYPING_DELAY", "soon")

	cfg, warnings := ConfigFromEnv()
	if len(warnings) != 3 {
		t.Errorf("got %d warnings, want 3: %v", len(warnings), warnings)
	}
	def := DefaultConfig()
	if cfg.Speech.Enabled != def.Speech.Enabled || cfg.Seed != nil || cfg.Pacing.Typing != def.Pacing.Typing {
		t.Errorf("malformed values should keep defaults, got %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default", func(*Config) {}, false},
		{"unknown log mode", func(c *Config) { c.Log.Mode = "loud" }, true},
		{"zero rate", func(c *Config) { c.Speech.Rate = 0 }, true},
		{"negative delay", func(c *Config) { c.Pacing.BeforeTyping = -time.Second }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
