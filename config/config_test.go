package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("COUNTDOWNS_DATA_DIR", dir)

	cfg, err := Load(filepath.Join(dir, "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	assert.Equal(t, "timers", cfg.Storage.Key)
	assert.Equal(t, dir, cfg.Storage.Dir)
	assert.Equal(t, DefaultAlert(), cfg.Alert)
	assert.Equal(t, 600*time.Millisecond, cfg.Alert.Interval())
	assert.Equal(t, 5*time.Second, cfg.Alert.Timeout())
	assert.Equal(t, 10*time.Millisecond, cfg.Alert.Attack())
	assert.Equal(t, 500*time.Millisecond, cfg.Alert.Tone())
}

func TestLoadMergesFileValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `
language: pt
storage:
  backend: sqlite
  dir: ` + dir + `
alert:
  frequency_hz: 440
  timeout_ms: 3000
  volume: 7
  sound_file: /tmp/bell.ogg
log:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "pt", cfg.Language)
	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, dir, cfg.Storage.Dir)
	assert.Equal(t, "timers", cfg.Storage.Key)
	assert.Equal(t, 440.0, cfg.Alert.FrequencyHz)
	assert.Equal(t, 3000, cfg.Alert.TimeoutMS)
	assert.Equal(t, 600, cfg.Alert.IntervalMS, "unset values keep defaults")
	assert.Equal(t, 0.5, cfg.Alert.Volume, "out of range volume is ignored")
	assert.Equal(t, "/tmp/bell.ogg", cfg.Alert.SoundFile)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage: [unterminated"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config yaml")
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("COUNTDOWNS_LANG", "es")
	t.Setenv("COUNTDOWNS_LOG_LEVEL", "warn")
	t.Setenv("COUNTDOWNS_DATA_DIR", dir)
	t.Setenv("COUNTDOWNS_STORAGE", BackendSQLite)

	cfg, err := Load(filepath.Join(dir, "none.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "es", cfg.Language)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, dir, cfg.Storage.Dir)
	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
}

func TestSaveThenLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	want := Default()
	want.Language = "ru"
	want.Storage.Dir = dir
	want.Alert.IntervalMS = 750

	require.NoError(t, Save(path, want))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
