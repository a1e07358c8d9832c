package timer

import (
	"sync"

	"Countdowns/logging"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
)

// Persister loads and saves whole snapshots of the collection. Implementations
// are expected to handle their own failures; the Store never sees an error.
type Persister interface {
	Load() []Timer
	Save(timers []Timer)
}

// Listener receives the collection snapshot after a mutation.
type Listener func(timers []Timer)

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used for createdAt stamps.
func WithClock(c clockwork.Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithIDGenerator sets the function used to assign timer ids.
func WithIDGenerator(f func() string) Option {
	return func(s *Store) { s.newID = f }
}

// WithLogger sets the logger.
func WithLogger(l *logrus.Entry) Option {
	return func(s *Store) { s.log = l }
}

// Store holds the timer collection in insertion order.
type Store struct {
	mu        sync.Mutex
	timers    []Timer
	persister Persister
	clock     clockwork.Clock
	newID     func() string
	log       *logrus.Entry

	listenersMu sync.Mutex
	listeners   []Listener // registration order; nil marks a removed listener
}

// NewStore creates a store populated from the persister's snapshot.
func NewStore(p Persister, opts ...Option) *Store {
	s := &Store{
		persister: p,
		clock:     clockwork.NewRealClock(),
		newID:     uuid.NewString,
		log:       logging.NewLogger("store"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.timers = p.Load()
	if s.timers == nil {
		s.timers = []Timer{}
	}
	s.log.WithField("count", len(s.timers)).Debug("Loaded timers")
	return s
}

// Timers returns a copy of the collection.
func (s *Store) Timers() []Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Get returns the timer with the given id.
func (s *Store) Get(id string) (Timer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.timers[i], true
	}
	return Timer{}, false
}

// RunningIDs returns the ids of all running timers in collection order.
func (s *Store) RunningIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []string
	for _, t := range s.timers {
		if t.IsRunning {
			ids = append(ids, t.ID)
		}
	}
	return ids
}

// Subscribe registers a listener called after every mutation. Listeners are
// called in the order they subscribed. The returned function removes it.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	s.listenersMu.Lock()
	slot := len(s.listeners)
	s.listeners = append(s.listeners, l)
	s.listenersMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.listenersMu.Lock()
			s.listeners[slot] = nil
			s.listenersMu.Unlock()
		})
	}
}

// AddTimer appends a new timer built from the draft and returns its id.
// The draft is expected to have passed validation already.
func (s *Store) AddTimer(d Draft) string {
	t := Timer{
		ID:            s.newID(),
		Title:         d.Title,
		Description:   d.Description,
		Duration:      d.Duration,
		RemainingTime: d.Duration,
		IsRunning:     d.IsRunning,
		CreatedAt:     s.clock.Now().UnixMilli(),
	}
	s.mutate(func() bool {
		s.timers = append(s.timers, t)
		return true
	})
	s.log.WithField("timer_id", t.ID).Debug("Added timer")
	return t.ID
}

// DeleteTimer removes the timer with the given id. Unknown ids are ignored.
func (s *Store) DeleteTimer(id string) {
	s.mutate(func() bool {
		i := s.indexLocked(id)
		if i < 0 {
			return false
		}
		s.timers = append(s.timers[:i:i], s.timers[i+1:]...)
		return true
	})
}

// ToggleTimer flips the running flag. A completed timer is not guarded and
// can be set running at zero; the next tick stops it again.
func (s *Store) ToggleTimer(id string) {
	s.withTimer(id, func(t *Timer) {
		t.IsRunning = !t.IsRunning
	})
}

// UpdateTimer advances a running timer by one second. The tick that reaches
// zero also stops the timer. Timers that are missing or not running are left
// untouched and nothing is persisted.
func (s *Store) UpdateTimer(id string) {
	s.mutate(func() bool {
		i := s.indexLocked(id)
		if i < 0 || !s.timers[i].IsRunning {
			return false
		}
		t := &s.timers[i]
		t.RemainingTime--
		if t.RemainingTime < 0 {
			t.RemainingTime = 0
		}
		t.IsRunning = t.RemainingTime > 0
		return true
	})
}

// RestartTimer rewinds the timer to its full duration and stops it.
func (s *Store) RestartTimer(id string) {
	s.withTimer(id, func(t *Timer) {
		t.RemainingTime = t.Duration
		t.IsRunning = false
	})
}

// EditTimer applies a partial update. The timer always ends stopped with its
// remaining time reset to the (possibly new) duration.
func (s *Store) EditTimer(id string, u Updates) {
	s.withTimer(id, func(t *Timer) {
		u.applyTo(t)
		t.RemainingTime = t.Duration
		t.IsRunning = false
	})
}

func (s *Store) withTimer(id string, fn func(t *Timer)) {
	s.mutate(func() bool {
		i := s.indexLocked(id)
		if i < 0 {
			return false
		}
		fn(&s.timers[i])
		return true
	})
}

// mutate runs fn under the lock. When fn reports a change the snapshot is
// persisted before the lock is released and listeners are notified after.
func (s *Store) mutate(fn func() bool) {
	s.mu.Lock()
	if !fn() {
		s.mu.Unlock()
		return
	}
	snap := s.snapshotLocked()
	s.persister.Save(snap)
	s.mu.Unlock()

	s.notify(snap)
}

func (s *Store) notify(snap []Timer) {
	s.listenersMu.Lock()
	ls := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		if l != nil {
			ls = append(ls, l)
		}
	}
	s.listenersMu.Unlock()

	for _, l := range ls {
		cp := make([]Timer, len(snap))
		copy(cp, snap)
		l(cp)
	}
}

func (s *Store) indexLocked(id string) int {
	for i := range s.timers {
		if s.timers[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) snapshotLocked() []Timer {
	out := make([]Timer, len(s.timers))
	copy(out, s.timers)
	return out
}
