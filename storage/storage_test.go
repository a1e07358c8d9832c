package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"Countdowns/config"
	"Countdowns/timer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingSlot struct {
	getErr error
	setErr error
	sets   int
}

func (f *failingSlot) Get(string) ([]byte, error) { return nil, f.getErr }
func (f *failingSlot) Set(string, []byte) error {
	f.sets++
	return f.setErr
}
func (f *failingSlot) Close() error { return nil }

func sampleTimers() []timer.Timer {
	return []timer.Timer{
		{ID: "a", Title: "Tea", Description: "green", Duration: 180, RemainingTime: 120, IsRunning: true, CreatedAt: 1700000000000},
		{ID: "b", Title: "Bread", Duration: 3600, RemainingTime: 3600, CreatedAt: 1700000000500},
	}
}

func slots(t *testing.T) map[string]Slot {
	t.Helper()
	fileSlot, err := NewFileSlot(t.TempDir())
	require.NoError(t, err)
	memSlot, err := NewSQLiteSlot(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = memSlot.Close() })
	return map[string]Slot{"file": fileSlot, "sqlite": memSlot}
}

func TestSlotGetSet(t *testing.T) {
	for name, slot := range slots(t) {
		t.Run(name, func(t *testing.T) {
			_, err := slot.Get("timers")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, slot.Set("timers", []byte(`[1]`)))
			got, err := slot.Get("timers")
			require.NoError(t, err)
			assert.Equal(t, []byte(`[1]`), got)

			require.NoError(t, slot.Set("timers", []byte(`[2]`)))
			got, err = slot.Get("timers")
			require.NoError(t, err)
			assert.Equal(t, []byte(`[2]`), got)
		})
	}
}

func TestFileSlotRejectsPathKeys(t *testing.T) {
	slot, err := NewFileSlot(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, slot.Set("../escape", []byte("x")))
	_, err = slot.Get("a/b")
	assert.Error(t, err)
}

func TestFileSlotLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	slot, err := NewFileSlot(dir)
	require.NoError(t, err)
	require.NoError(t, slot.Set("timers", []byte("[]")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "timers.json", entries[0].Name())
}

func TestOpenBackends(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(config.StorageConfig{Backend: config.BackendFile, Dir: dir})
	require.NoError(t, err)
	assert.IsType(t, &FileSlot{}, s)

	s, err = Open(config.StorageConfig{Backend: config.BackendSQLite, Dir: dir})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteSlot{}, s)
	require.NoError(t, s.Close())
	assert.FileExists(t, filepath.Join(dir, sqliteFileName))

	_, err = Open(config.StorageConfig{Backend: "redis", Dir: dir})
	assert.Error(t, err)
}

func TestSQLiteSlotPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db", sqliteFileName)

	first, err := NewSQLiteSlot(path)
	require.NoError(t, err)
	require.NoError(t, first.Set("timers", []byte(`[]`)))
	require.NoError(t, first.Close())

	second, err := NewSQLiteSlot(path)
	require.NoError(t, err)
	defer second.Close()

	got, err := second.Get("timers")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), got)
}

func TestAdapterRoundTrip(t *testing.T) {
	for name, slot := range slots(t) {
		t.Run(name, func(t *testing.T) {
			a := NewAdapter(slot, "timers")
			a.Save(sampleTimers())
			assert.Equal(t, sampleTimers(), a.Load())
		})
	}
}

func TestAdapterPersistedLayout(t *testing.T) {
	slot, err := NewFileSlot(t.TempDir())
	require.NoError(t, err)

	NewAdapter(slot, "timers").Save(sampleTimers())

	raw, err := slot.Get("timers")
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"id":"a","title":"Tea","description":"green","duration":180,"remainingTime":120,"isRunning":true,"createdAt":1700000000000},
		{"id":"b","title":"Bread","duration":3600,"remainingTime":3600,"isRunning":false,"createdAt":1700000000500}
	]`, string(raw))
}

func TestAdapterLoadFallsBackToEmpty(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"invalid json", `[{"id":`},
		{"not an array", `{"id":"a"}`},
		{"unknown field", `[{"id":"a","title":"x","duration":5,"remainingTime":5,"isRunning":false,"createdAt":1,"version":2}]`},
		{"wrong type", `[{"id":"a","title":"x","duration":"5","remainingTime":5,"isRunning":false,"createdAt":1}]`},
		{"empty id", `[{"id":"","title":"x","duration":5,"remainingTime":5,"isRunning":false,"createdAt":1}]`},
		{"duplicate id", `[{"id":"a","title":"x","duration":5,"remainingTime":5,"isRunning":false,"createdAt":1},{"id":"a","title":"y","duration":5,"remainingTime":5,"isRunning":false,"createdAt":2}]`},
		{"negative remaining", `[{"id":"a","title":"x","duration":5,"remainingTime":-1,"isRunning":false,"createdAt":1}]`},
		{"trailing data", `[] []`},
		{"null", `null`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			slot, err := NewFileSlot(t.TempDir())
			require.NoError(t, err)
			require.NoError(t, slot.Set("timers", []byte(tc.data)))

			got := NewAdapter(slot, "timers").Load()
			assert.NotNil(t, got)
			assert.Empty(t, got)
		})
	}
}

func TestAdapterMissingKey(t *testing.T) {
	slot, err := NewFileSlot(t.TempDir())
	require.NoError(t, err)

	got := NewAdapter(slot, "").Load()
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestAdapterSwallowsSlotErrors(t *testing.T) {
	slot := &failingSlot{getErr: errors.New("disk gone"), setErr: errors.New("quota exceeded")}
	a := NewAdapter(slot, "timers")

	assert.NotPanics(t, func() { a.Save(sampleTimers()) })
	assert.Equal(t, 1, slot.sets)
	assert.Empty(t, a.Load())
}

func TestAdapterSavesNilAsEmptyArray(t *testing.T) {
	slot, err := NewFileSlot(t.TempDir())
	require.NoError(t, err)

	NewAdapter(slot, "timers").Save(nil)

	raw, err := slot.Get("timers")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

func TestStoreStateSurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	slot, err := NewFileSlot(dir)
	require.NoError(t, err)

	first := timer.NewStore(NewAdapter(slot, "timers"))
	id := first.AddTimer(timer.Draft{Title: "Pasta", Description: "al dente", Duration: 5445})
	first.ToggleTimer(id)
	first.UpdateTimer(id)

	reopened, err := NewFileSlot(dir)
	require.NoError(t, err)
	second := timer.NewStore(NewAdapter(reopened, "timers"))

	assert.Equal(t, first.Timers(), second.Timers())
	got, ok := second.Get(id)
	require.True(t, ok)
	assert.Equal(t, 5444, got.RemainingTime)
	assert.True(t, got.IsRunning)
}
