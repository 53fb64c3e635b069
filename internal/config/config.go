package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime configuration. Command-line flags override values
// read from the environment.
type Config struct {
	// DBPath is the SQLite file. Empty means the default data location.
	DBPath string

	// ContentPath is an optional YAML content pack replacing the built-in
	// response tables.
	ContentPath string

	Log    LogConfig
	Speech SpeechConfig
	Pacing PacingConfig

	// Seed makes reply selection reproducible when set.
	Seed *uint64
}

// LogConfig configures the diagnostic log. The terminal UI owns stdout, so
// logs only go to a file.
type LogConfig struct {
	Path string // Empty disables logging.
	Mode string // "dev" or "prod". Default: "dev".
}

// SpeechConfig configures read-aloud playback.
type SpeechConfig struct {
	Enabled bool
	Command string  // Optional. Overrides the espeak-ng/espeak/say probe.
	Rate    float64 // Multiplier of the engine's default rate. Default: 0.8.
}

// PacingConfig holds the cosmetic delays before a reply is shown.
type PacingConfig struct {
	BeforeTyping time.Duration // Default: 500ms.
	Typing       time.Duration // Default: 1500ms.
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Log: LogConfig{
			Mode: "dev",
		},
		Speech: SpeechConfig{
			Enabled: true,
			Rate:    0.8,
		},
		Pacing: PacingConfig{
			BeforeTyping: 500 * time.Millisecond,
			Typing:       1500 * time.Millisecond,
		},
	}
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset values. Malformed values are reported as warnings
// and the default is kept.
func ConfigFromEnv() (Config, []string) {
	cfg := DefaultConfig()
	var warnings []string

	if p := os.Getenv("HOMEWORKHELPER_DB"); p != "" {
		cfg.DBPath = p
	}
	if p := os.Getenv("HOMEWORKHELPER_CONTENT"); p != "" {
		cfg.ContentPath = p
	}

	if p := os.Getenv("HOMEWORKHELPER_LOG"); p != "" {
		cfg.Log.Path = p
	}
	if m := os.Getenv("HOMEWORKHELPER_LOG_MODE"); m != "" {
		cfg.Log.Mode = strings.ToLower(m)
	}

	if v := os.Getenv("HOMEWORKHELPER_SPEECH"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("HOMEWORKHELPER_SPEECH=%q is not a boolean", v))
		} else {
			cfg.Speech.Enabled = b
		}
	}
	if c := os.Getenv("HOMEWORKHELPER_SPEECH_CMD"); c != "" {
		cfg.Speech.Command = c
	}
	if v := os.Getenv("HOMEWORKHELPER_SPEECH_RATE"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("HOMEWORKHELPER_SPEECH_RATE=%q is not a number", v))
		} else {
			cfg.Speech.Rate = r
		}
	}

	if v := os.Getenv("HOMEWORKHELPER_TYPING_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("HOMEWORKHELPER_TYPING_DELAY=%q is not a duration", v))
		} else {
			cfg.Pacing.Typing = d
		}
	}

	if v := os.Getenv("HOMEWORKHELPER_SEED"); v != "" {
		s, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("HOMEWORKHELPER_SEED=%q is not an unsigned integer", v))
		} else {
			cfg.Seed = &s
		}
	}

	return cfg, warnings
}

// Validate checks value ranges.
func (c Config) Validate() error {
	switch c.Log.Mode {
	case "dev", "prod":
	default:
		return fmt.Errorf("unknown log mode: %q", c.Log.Mode)
	}
	if c.Speech.Rate <= 0 || c.Speech.Rate > 3 {
		return fmt.Errorf("speech rate must be in (0, 3], got %v", c.Speech.Rate)
	}
	if c.Pacing.BeforeTyping < 0 || c.Pacing.Typing < 0 {
		return fmt.Errorf("pacing delays must not be negative")
	}
	return nil
}
