// Package audio implements the completion alarm: a short beep repeated at a
// fixed interval until it is stopped or its timeout elapses.
//
// Maintenance notes:
//   - Alert is meant to be constructed once by the application and shared;
//     a second Play while one is sounding does nothing.
//   - Every scheduled callback carries the session number it was created
//     for, so a callback that fires after Stop (or after a newer Play) does
//     nothing even if cancelling its timer raced with it.
package audio

import (
	"sync"
	"time"

	"Countdowns/logging"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
)

// Config controls alert timing.
type Config struct {
	Interval time.Duration // from the start of one beep to the next
	Timeout  time.Duration // hard stop measured from Play
	Clock    clockwork.Clock
}

// Alert is the alarm state machine: idle until Play, playing until Stop or
// timeout.
type Alert struct {
	mu       sync.Mutex
	out      Output
	source   Source
	clock    clockwork.Clock
	interval time.Duration
	timeout  time.Duration
	log      *logrus.Entry

	playing bool
	session uint64
	next    clockwork.Timer
	cutoff  clockwork.Timer
}

// NewAlert creates an idle alert.
func NewAlert(out Output, source Source, cfg Config) *Alert {
	if cfg.Interval <= 0 {
		cfg.Interval = 600 * time.Millisecond
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	return &Alert{
		out:      out,
		source:   source,
		clock:    cfg.Clock,
		interval: cfg.Interval,
		timeout:  cfg.Timeout,
		log:      logging.NewLogger("audio"),
	}
}

// Playing reports whether the alarm is sounding.
func (a *Alert) Playing() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.playing
}

// Play starts the alarm. It does nothing if the alarm is already playing or
// the output cannot be initialised.
func (a *Alert) Play() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.playing {
		return
	}
	if err := a.out.Init(); err != nil {
		a.log.WithError(err).Error("Failed to play audio")
		return
	}

	a.playing = true
	a.session++
	session := a.session
	a.cutoff = a.clock.AfterFunc(a.timeout, func() { a.expire(session) })
	a.beepLocked(session)
}

// Stop silences the alarm and cancels everything it has scheduled. Calling
// it while idle is a no-op.
func (a *Alert) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.playing {
		return
	}
	a.stopLocked()
}

func (a *Alert) expire(session uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.playing || a.session != session {
		return
	}
	a.log.Debug("Alert timed out")
	a.stopLocked()
}

func (a *Alert) beepLocked(session uint64) {
	s, err := a.source()
	if err != nil {
		a.log.WithError(err).Warn("Failed to create tone")
	} else {
		a.out.Play(s)
	}

	a.next = a.clock.AfterFunc(a.interval, func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		if !a.playing || a.session != session {
			return
		}
		a.beepLocked(session)
	})
}

func (a *Alert) stopLocked() {
	a.playing = false
	if a.next != nil {
		a.next.Stop()
		a.next = nil
	}
	if a.cutoff != nil {
		a.cutoff.Stop()
		a.cutoff = nil
	}
	if err := a.out.Clear(); err != nil {
		a.log.WithError(err).Warn("Failed to release audio")
	}
}
