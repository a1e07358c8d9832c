// Package config loads the application configuration from YAML with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// AppName is used for the config and data directory names.
const AppName = "Countdowns"

const configFileName = "config.yaml"

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Config is the full application configuration.
type Config struct {
	Language string        `yaml:"language"`
	Storage  StorageConfig `yaml:"storage"`
	Alert    AlertConfig   `yaml:"alert"`
	Log      LogConfig     `yaml:"log"`
}

// StorageConfig selects where the timer snapshot lives.
type StorageConfig struct {
	Backend string `yaml:"backend"`
	Dir     string `yaml:"dir"`
	Key     string `yaml:"key"`
}

// AlertConfig tunes the completion alarm.
type AlertConfig struct {
	FrequencyHz float64 `yaml:"frequency_hz"`
	ToneMS      int     `yaml:"tone_ms"`
	AttackMS    int     `yaml:"attack_ms"`
	Volume      float64 `yaml:"volume"`
	IntervalMS  int     `yaml:"interval_ms"`
	TimeoutMS   int     `yaml:"timeout_ms"`
	SampleRate  int     `yaml:"sample_rate"`
	SoundFile   string  `yaml:"sound_file"`
}

// LogConfig controls logging output.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" (default) or "json"
	File   string `yaml:"file"`
}

// Tone returns the length of one beep.
func (a AlertConfig) Tone() time.Duration { return time.Duration(a.ToneMS) * time.Millisecond }

// Attack returns the envelope rise time.
func (a AlertConfig) Attack() time.Duration { return time.Duration(a.AttackMS) * time.Millisecond }

// Interval returns the time between the starts of two beeps.
func (a AlertConfig) Interval() time.Duration { return time.Duration(a.IntervalMS) * time.Millisecond }

// Timeout returns how long an alarm may sound before it stops itself.
func (a AlertConfig) Timeout() time.Duration { return time.Duration(a.TimeoutMS) * time.Millisecond }

// DefaultAlert returns the standard alarm: an 880 Hz beep every 600ms for at
// most five seconds.
func DefaultAlert() AlertConfig {
	return AlertConfig{
		FrequencyHz: 880,
		ToneMS:      500,
		AttackMS:    10,
		Volume:      0.5,
		IntervalMS:  600,
		TimeoutMS:   5000,
		SampleRate:  44100,
	}
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Storage: StorageConfig{
			Backend: BackendFile,
			Key:     "timers",
		},
		Alert: DefaultAlert(),
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the configuration at path, or at the default location when path
// is empty. A missing file yields the defaults. Values from a .env file in the
// working directory and from the environment are applied last.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		var fileData Config
		if err := yaml.Unmarshal(raw, &fileData); err != nil {
			return cfg, fmt.Errorf("parse config yaml: %w", err)
		}
		merge(&cfg, fileData)
	case errors.Is(err, os.ErrNotExist):
	default:
		return cfg, fmt.Errorf("read config file: %w", err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}
	applyEnv(&cfg)

	if cfg.Storage.Dir == "" {
		dir, err := DefaultDataDir()
		if err != nil {
			return cfg, err
		}
		cfg.Storage.Dir = dir
	}
	return cfg, nil
}

// Save writes cfg as YAML to path, creating parent directories.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	serialized, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config yaml: %w", err)
	}
	if err := os.WriteFile(path, serialized, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// DefaultPath returns the config file location in the user config dir.
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, AppName, configFileName), nil
}

// DefaultDataDir returns the directory holding persisted timers.
func DefaultDataDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, AppName), nil
}

func merge(cfg *Config, fileData Config) {
	if fileData.Language != "" {
		cfg.Language = fileData.Language
	}

	if fileData.Storage.Backend != "" {
		cfg.Storage.Backend = fileData.Storage.Backend
	}
	if fileData.Storage.Dir != "" {
		cfg.Storage.Dir = fileData.Storage.Dir
	}
	if fileData.Storage.Key != "" {
		cfg.Storage.Key = fileData.Storage.Key
	}

	a := fileData.Alert
	if a.FrequencyHz > 0 {
		cfg.Alert.FrequencyHz = a.FrequencyHz
	}
	if a.ToneMS > 0 {
		cfg.Alert.ToneMS = a.ToneMS
	}
	if a.AttackMS > 0 {
		cfg.Alert.AttackMS = a.AttackMS
	}
	if a.Volume > 0 && a.Volume <= 1 {
		cfg.Alert.Volume = a.Volume
	}
	if a.IntervalMS > 0 {
		cfg.Alert.IntervalMS = a.IntervalMS
	}
	if a.TimeoutMS > 0 {
		cfg.Alert.TimeoutMS = a.TimeoutMS
	}
	if a.SampleRate > 0 {
		cfg.Alert.SampleRate = a.SampleRate
	}
	cfg.Alert.SoundFile = a.SoundFile

	if fileData.Log.Level != "" {
		cfg.Log.Level = fileData.Log.Level
	}
	if fileData.Log.Format != "" {
		cfg.Log.Format = fileData.Log.Format
	}
	cfg.Log.File = fileData.Log.File
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("COUNTDOWNS_LANG")); v != "" {
		cfg.Language = v
	}
	if v := strings.TrimSpace(os.Getenv("COUNTDOWNS_LOG_LEVEL")); v != "" {
		cfg.Log.Level = v
	}
	if v := strings.TrimSpace(os.Getenv("COUNTDOWNS_DATA_DIR")); v != "" {
		cfg.Storage.Dir = v
	}
	if v := strings.TrimSpace(os.Getenv("COUNTDOWNS_STORAGE")); v != "" {
		cfg.Storage.Backend = v
	}
}
