// Package tick drives running timers: once per interval it asks for one
// tick command per running timer id.
package tick

import (
	"fmt"
	"time"

	"Countdowns/control"
	"Countdowns/logging"

	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"
)

// Source lists the timers that should be ticked.
type Source interface {
	RunningIDs() []string
}

// Sink accepts tick commands.
type Sink interface {
	Enqueue(cmd control.Command)
}

// Driver wraps a gocron scheduler running a single tick job.
type Driver struct {
	scheduler gocron.Scheduler
	source    Source
	sink      Sink
	interval  time.Duration
	log       *logrus.Entry
}

// NewDriver creates a driver ticking at interval (one second when zero).
func NewDriver(source Source, sink Sink, interval time.Duration) (*Driver, error) {
	if interval <= 0 {
		interval = time.Second
	}
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	d := &Driver{
		scheduler: s,
		source:    source,
		sink:      sink,
		interval:  interval,
		log:       logging.NewLogger("tick"),
	}

	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(d.Fire),
		gocron.WithName("timer-tick"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("failed to create tick job: %w", err)
	}
	return d, nil
}

// Start begins ticking.
func (d *Driver) Start() {
	d.log.WithField("interval", d.interval).Debug("Starting tick driver")
	d.scheduler.Start()
}

// Stop shuts the scheduler down and waits for a running round to finish.
func (d *Driver) Stop() error {
	return d.scheduler.Shutdown()
}

// Fire performs one tick round: one command per running timer.
func (d *Driver) Fire() {
	for _, id := range d.source.RunningIDs() {
		d.sink.Enqueue(control.Command{Type: control.CmdTick, ID: id})
	}
}
