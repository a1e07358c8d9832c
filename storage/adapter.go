package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"Countdowns/logging"
	"Countdowns/timer"

	"github.com/sirupsen/logrus"
)

// Adapter persists the timer collection under one slot key. It satisfies
// timer.Persister: failures are logged and never reach the caller.
type Adapter struct {
	slot Slot
	key  string
	log  *logrus.Entry
}

// NewAdapter creates an adapter writing to key in slot.
func NewAdapter(slot Slot, key string) *Adapter {
	if key == "" {
		key = "timers"
	}
	return &Adapter{
		slot: slot,
		key:  key,
		log:  logging.NewLogger("storage").WithField("key", key),
	}
}

// Load returns the stored timers. A missing key yields an empty collection,
// and so does any read or decode failure.
func (a *Adapter) Load() []timer.Timer {
	data, err := a.slot.Get(a.key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			a.log.WithError(err).Error("Error loading timers")
		}
		return []timer.Timer{}
	}

	timers, err := decode(data)
	if err != nil {
		a.log.WithError(err).Error("Error loading timers")
		return []timer.Timer{}
	}
	return timers
}

// Save overwrites the stored snapshot.
func (a *Adapter) Save(timers []timer.Timer) {
	if timers == nil {
		timers = []timer.Timer{}
	}
	data, err := json.Marshal(timers)
	if err != nil {
		a.log.WithError(err).Error("Error saving timers")
		return
	}
	if err := a.slot.Set(a.key, data); err != nil {
		a.log.WithError(err).Error("Error saving timers")
	}
}

func decode(data []byte) ([]timer.Timer, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var timers []timer.Timer
	if err := dec.Decode(&timers); err != nil {
		return nil, fmt.Errorf("decode timers: %w", err)
	}
	if dec.More() {
		return nil, errors.New("decode timers: trailing data")
	}
	if timers == nil {
		return []timer.Timer{}, nil
	}

	seen := make(map[string]struct{}, len(timers))
	for i, t := range timers {
		if t.ID == "" {
			return nil, fmt.Errorf("timer %d: empty id", i)
		}
		if _, dup := seen[t.ID]; dup {
			return nil, fmt.Errorf("timer %d: duplicate id %s", i, t.ID)
		}
		seen[t.ID] = struct{}{}
		if t.RemainingTime < 0 || t.RemainingTime > t.Duration {
			return nil, fmt.Errorf("timer %s: remaining time %d out of range", t.ID, t.RemainingTime)
		}
	}
	return timers, nil
}
