package control

import (
	"context"
	"time"

	"Countdowns/logging"
	"Countdowns/timer"

	"github.com/sirupsen/logrus"
)

const enqueueTimeout = 150 * time.Millisecond

// Hooks are callbacks invoked from the loop goroutine.
type Hooks struct {
	// OnComplete runs when a tick takes a running timer to zero.
	OnComplete func(t timer.Timer)
	// OnToggle runs after a toggle command; used to silence the alarm.
	OnToggle func(id string)
}

// Loop applies commands to the store on a single goroutine.
type Loop struct {
	store *timer.Store
	cmdCh chan Command
	hooks Hooks
	log   *logrus.Entry
}

// NewLoop creates a loop with the given queue size.
func NewLoop(store *timer.Store, buffer int, hooks Hooks) *Loop {
	if buffer <= 0 {
		buffer = 256
	}
	return &Loop{
		store: store,
		cmdCh: make(chan Command, buffer),
		hooks: hooks,
		log:   logging.NewLogger("control"),
	}
}

// Enqueue posts a command. If the queue stays full for a short while the
// command is dropped and logged rather than blocking the caller.
func (l *Loop) Enqueue(cmd Command) {
	select {
	case l.cmdCh <- cmd:
	case <-time.After(enqueueTimeout):
		l.log.WithField("command", cmd.Type.String()).Warn("Enqueue timeout: dropping command")
	}
}

// Do enqueues cmd and waits for it to be applied or for ctx to end.
func (l *Loop) Do(ctx context.Context, cmd Command) error {
	reply := make(chan error, 1)
	cmd.Reply = reply
	l.Enqueue(cmd)
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run processes commands until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-l.cmdCh:
			l.handle(cmd)
			if cmd.Reply != nil {
				select {
				case cmd.Reply <- nil:
				default:
				}
			}
		}
	}
}

func (l *Loop) handle(cmd Command) {
	switch cmd.Type {
	case CmdAdd:
		l.store.AddTimer(cmd.Draft)
	case CmdEdit:
		l.store.EditTimer(cmd.ID, cmd.Updates)
	case CmdDelete:
		l.store.DeleteTimer(cmd.ID)
	case CmdToggle:
		l.store.ToggleTimer(cmd.ID)
		if l.hooks.OnToggle != nil {
			l.hooks.OnToggle(cmd.ID)
		}
	case CmdRestart:
		l.store.RestartTimer(cmd.ID)
	case CmdTick:
		l.tick(cmd.ID)
	default:
		l.log.WithField("command", int(cmd.Type)).Warn("Unknown command")
	}
}

func (l *Loop) tick(id string) {
	before, ok := l.store.Get(id)
	if !ok || !before.IsRunning {
		return
	}
	l.store.UpdateTimer(id)
	after, ok := l.store.Get(id)
	if !ok {
		return
	}
	if before.RemainingTime > 0 && after.Completed() {
		l.log.WithField("timer_id", id).Info("Timer completed")
		if l.hooks.OnComplete != nil {
			l.hooks.OnComplete(after)
		}
	}
}
