package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"Countdowns/config"
	"Countdowns/i18n"
	"Countdowns/storage"
	"Countdowns/timer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	dir     string
	cfgPath string
	ran     *config.Config
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv("COUNTDOWNS_LANG", "en")
	t.Setenv("COUNTDOWNS_STORAGE", "")
	t.Setenv("COUNTDOWNS_DATA_DIR", "")
	dir := t.TempDir()
	return &harness{dir: dir, cfgPath: filepath.Join(dir, "missing.yaml")}
}

func (h *harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand(func(cfg config.Config) error {
		h.ran = &cfg
		return nil
	})
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(append([]string{"--config", h.cfgPath, "--data-dir", h.dir}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func (h *harness) timers(t *testing.T) []timer.Timer {
	t.Helper()
	slot, err := storage.Open(config.StorageConfig{Backend: config.BackendFile, Dir: h.dir, Key: "timers"})
	require.NoError(t, err)
	defer slot.Close()
	return storage.NewAdapter(slot, "timers").Load()
}

func TestRootRunsApplication(t *testing.T) {
	h := newHarness(t)
	_, err := h.run(t)
	require.NoError(t, err)
	require.NotNil(t, h.ran)
	assert.Equal(t, h.dir, h.ran.Storage.Dir)
	assert.Equal(t, "en", h.ran.Language)
}

func TestStorageFlagOverridesBackend(t *testing.T) {
	h := newHarness(t)
	_, err := h.run(t, "--storage", config.BackendSQLite)
	require.NoError(t, err)
	assert.Equal(t, config.BackendSQLite, h.ran.Storage.Backend)
}

func TestAddAndList(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "add", "--title", "  Tea  ", "--minutes", "3", "--description", "green")
	require.NoError(t, err)
	id := strings.TrimSpace(out)
	require.NotEmpty(t, id)

	saved := h.timers(t)
	require.Len(t, saved, 1)
	assert.Equal(t, id, saved[0].ID)
	assert.Equal(t, "Tea", saved[0].Title)
	assert.Equal(t, "green", saved[0].Description)
	assert.Equal(t, 180, saved[0].Duration)
	assert.Equal(t, 180, saved[0].RemainingTime)
	assert.False(t, saved[0].IsRunning)

	out, err = h.run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, id)
	assert.Contains(t, out, "03:00/03:00")
	assert.Contains(t, out, "paused")
}

func TestAddRunning(t *testing.T) {
	h := newHarness(t)
	_, err := h.run(t, "add", "-t", "Oven", "-H", "1", "--start")
	require.NoError(t, err)

	saved := h.timers(t)
	require.Len(t, saved, 1)
	assert.True(t, saved[0].IsRunning)
	assert.Equal(t, 3600, saved[0].Duration)
}

func TestAddRejectsInvalidForm(t *testing.T) {
	testCases := []struct {
		name string
		args []string
		want string
	}{
		{"no title", []string{"--minutes", "1"}, "Title is required"},
		{"zero time", []string{"--title", "x"}, "Please set a time greater than 0"},
		{"minutes out of range", []string{"--title", "x", "--minutes", "60"}, "Minutes and seconds must be between 0 and 59"},
		{"too long", []string{"--title", "x", "--hours", "25"}, "Timer cannot exceed 24 hours"},
		{"negative", []string{"--title", "x", "--seconds=-1"}, "Time values cannot be negative"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t)
			_, err := h.run(t, append([]string{"add"}, tc.args...)...)
			require.Error(t, err)
			assert.Equal(t, tc.want, err.Error())
			assert.Empty(t, h.timers(t))
		})
	}
}

func TestOversizedAddKeepsExistingTimers(t *testing.T) {
	h := newHarness(t)
	_, err := h.run(t, "add", "--title", "Tea", "--minutes", "3")
	require.NoError(t, err)

	for _, hours := range []string{"2562047788015216", "5124095576030432"} {
		_, err = h.run(t, "add", "--title", "Oops", "--hours", hours)
		require.Error(t, err, hours)
		assert.Equal(t, "Timer cannot exceed 24 hours", err.Error())
	}

	saved := h.timers(t)
	require.Len(t, saved, 1)
	assert.Equal(t, "Tea", saved[0].Title)
	assert.Equal(t, 180, saved[0].RemainingTime)
}

func TestAddTranslatesRejection(t *testing.T) {
	h := newHarness(t)
	t.Setenv("COUNTDOWNS_LANG", "es")
	t.Cleanup(func() { i18n.Init("en") })

	_, err := h.run(t, "add", "--minutes", "1")
	require.Error(t, err)
	assert.Equal(t, "El título es obligatorio", err.Error())
}

func TestToggleRestartDeleteByPrefix(t *testing.T) {
	h := newHarness(t)
	out, err := h.run(t, "add", "--title", "Eggs", "--seconds", "30")
	require.NoError(t, err)
	id := strings.TrimSpace(out)

	_, err = h.run(t, "toggle", id[:8])
	require.NoError(t, err)
	assert.True(t, h.timers(t)[0].IsRunning)

	_, err = h.run(t, "toggle", id)
	require.NoError(t, err)
	assert.False(t, h.timers(t)[0].IsRunning)

	_, err = h.run(t, "restart", id)
	require.NoError(t, err)
	assert.Equal(t, 30, h.timers(t)[0].RemainingTime)

	_, err = h.run(t, "delete", id[:8])
	require.NoError(t, err)
	assert.Empty(t, h.timers(t))
}

func TestEditKeepsUnsetFields(t *testing.T) {
	h := newHarness(t)
	out, err := h.run(t, "add", "--title", "Bread", "--description", "rye", "--minutes", "45", "--start")
	require.NoError(t, err)
	id := strings.TrimSpace(out)

	_, err = h.run(t, "edit", id, "--seconds", "30")
	require.NoError(t, err)

	got := h.timers(t)[0]
	assert.Equal(t, "Bread", got.Title)
	assert.Equal(t, "rye", got.Description)
	assert.Equal(t, 45*60+30, got.Duration)
	assert.Equal(t, got.Duration, got.RemainingTime)
	assert.False(t, got.IsRunning)
}

func TestEditValidatesResult(t *testing.T) {
	h := newHarness(t)
	out, err := h.run(t, "add", "--title", "Bread", "--minutes", "45")
	require.NoError(t, err)
	id := strings.TrimSpace(out)

	_, err = h.run(t, "edit", id, "--title", "   ")
	require.Error(t, err)
	assert.Equal(t, "Title is required", err.Error())
	assert.Equal(t, "Bread", h.timers(t)[0].Title)
}

func TestUnknownTimer(t *testing.T) {
	h := newHarness(t)
	for _, sub := range []string{"toggle", "restart", "delete", "edit"} {
		_, err := h.run(t, sub, "nope")
		require.Error(t, err, sub)
		assert.Contains(t, err.Error(), "not found")
	}
}

func TestResolveAmbiguousPrefix(t *testing.T) {
	ids := []string{"abc-1", "abc-2"}
	store := timer.NewStore(nopPersister{}, timer.WithIDGenerator(func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}))
	store.AddTimer(timer.Draft{Title: "a", Duration: 1})
	store.AddTimer(timer.Draft{Title: "b", Duration: 1})

	_, err := resolve(store, "abc")
	assert.ErrorContains(t, err, "ambiguous")

	got, err := resolve(store, "abc-2")
	require.NoError(t, err)
	assert.Equal(t, "b", got.Title)

	_, err = resolve(store, "")
	assert.ErrorContains(t, err, "not found")
}

type nopPersister struct{}

func (nopPersister) Load() []timer.Timer { return nil }
func (nopPersister) Save([]timer.Timer)  {}
