// Package main contains the application wiring and the AppManager which
// coordinates the timer store, the alarm and the UI.
//
// Maintenance notes:
//   - Concurrency model: every store mutation goes through the control loop
//     goroutine. The UI and the tick driver only enqueue commands; the store
//     is read directly (it copies under its own lock).
//   - Enqueue never blocks for more than a short timeout and drops the
//     command with a warning when the queue stays full. The tick driver
//     shares that queue, so a dropped tick only delays a timer by a second.
//   - The alert is created once here and handed to the loop hooks; nothing
//     else constructs one.
package main

import (
	"context"
	"fmt"

	"Countdowns/audio"
	"Countdowns/config"
	"Countdowns/control"
	"Countdowns/i18n"
	"Countdowns/logging"
	"Countdowns/storage"
	"Countdowns/tick"
	"Countdowns/timer"

	"fyne.io/fyne/v2"
	"github.com/sirupsen/logrus"
)

// AppManager is the main application struct, holding all state.
type AppManager struct {
	slot    storage.Slot
	store   *timer.Store
	alert   *audio.Alert
	output  *audio.SpeakerOutput
	loop    *control.Loop
	driver  *tick.Driver
	notify  func(t timer.Timer)
	log     *logrus.Entry
	ctx     context.Context
	cancel  context.CancelFunc
	stopped bool
}

// NewAppManager opens storage, loads the saved timers and builds the alarm,
// command loop and tick driver. Nothing runs until Start.
func NewAppManager(cfg config.Config) (*AppManager, error) {
	a := &AppManager{log: logging.NewLogger("app")}

	slot, err := storage.Open(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	a.slot = slot
	a.store = timer.NewStore(storage.NewAdapter(slot, cfg.Storage.Key))
	a.log.WithFields(logrus.Fields{
		"backend": cfg.Storage.Backend,
		"timers":  len(a.store.Timers()),
	}).Info("Loaded timers")

	source, err := audio.SourceFor(cfg.Alert)
	if err != nil {
		a.log.WithError(err).WithField("file", cfg.Alert.SoundFile).Warn("Failed to load alarm sound, using tone")
	}
	a.output = audio.NewSpeakerOutput(cfg.Alert.SampleRate)
	a.alert = audio.NewAlert(a.output, source, audio.Config{
		Interval: cfg.Alert.Interval(),
		Timeout:  cfg.Alert.Timeout(),
	})

	a.loop = control.NewLoop(a.store, 256, control.Hooks{
		OnComplete: a.onComplete,
		OnToggle:   func(string) { a.alert.Stop() },
	})

	a.driver, err = tick.NewDriver(a.store, a.loop, 0)
	if err != nil {
		_ = slot.Close()
		return nil, err
	}
	return a, nil
}

// Start launches the command loop and the tick driver.
func (a *AppManager) Start() {
	a.ctx, a.cancel = context.WithCancel(context.Background())
	go a.loop.Run(a.ctx)
	a.driver.Start()
}

// SetNotifier installs a callback run when a timer completes, besides the
// alarm.
func (a *AppManager) SetNotifier(f func(t timer.Timer)) {
	a.notify = f
}

func (a *AppManager) onComplete(t timer.Timer) {
	a.alert.Play()
	if a.notify != nil {
		a.notify(t)
	}
}

// Timers returns the current timers.
func (a *AppManager) Timers() []timer.Timer {
	return a.store.Timers()
}

// Subscribe registers l for store changes.
func (a *AppManager) Subscribe(l timer.Listener) func() {
	return a.store.Subscribe(l)
}

// EnqueueCommand posts a command to the control loop.
func (a *AppManager) EnqueueCommand(cmd control.Command) {
	a.loop.Enqueue(cmd)
}

// StopAlert silences the alarm.
func (a *AppManager) StopAlert() {
	a.alert.Stop()
}

// Shutdown stops ticking, the loop and the alarm, then closes storage. It is
// safe to call more than once.
func (a *AppManager) Shutdown() {
	if a.stopped {
		return
	}
	a.stopped = true

	if err := a.driver.Stop(); err != nil {
		a.log.WithError(err).Warn("Failed to stop tick driver")
	}
	if a.cancel != nil {
		a.cancel()
	}
	a.alert.Stop()
	a.output.Close()
	if err := a.slot.Close(); err != nil {
		a.log.WithError(err).Warn("Failed to close storage")
	}
}

// desktopNotifier sends a system notification for a completed timer.
func desktopNotifier(fyneApp fyne.App) func(t timer.Timer) {
	return func(t timer.Timer) {
		fyneApp.SendNotification(fyne.NewNotification(i18n.T("Time's up"), t.Title))
	}
}
