// Package timer contains the domain logic for countdown timers: the Timer
// record persisted between sessions and the Store that owns the collection.
//
// Maintenance notes:
//   - The Store is the only writer of the collection. Every mutating
//     operation persists the whole snapshot before returning, so callers never
//     observe an in-memory state that was not handed to the Persister.
//   - Prefer calling the mutating operations through the application command
//     loop (package control) so that UI events and ticks are serialized in
//     arrival order.
package timer

// Timer represents a single countdown timer. The JSON field names are the
// persisted layout and must not change.
type Timer struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	Duration      int    `json:"duration"`
	RemainingTime int    `json:"remainingTime"`
	IsRunning     bool   `json:"isRunning"`
	CreatedAt     int64  `json:"createdAt"` // unix milliseconds
}

// Completed reports whether the timer has counted down to zero.
func (t Timer) Completed() bool {
	return !t.IsRunning && t.RemainingTime == 0
}

// Draft holds the user supplied fields of a new timer. The store assigns the
// identity, creation time and initial remaining time.
type Draft struct {
	Title       string
	Description string
	Duration    int
	IsRunning   bool
}

// Updates is a partial update applied by EditTimer. Nil fields are left as
// they are.
type Updates struct {
	Title       *string
	Description *string
	Duration    *int
}

func (u Updates) applyTo(t *Timer) {
	if u.Title != nil {
		t.Title = *u.Title
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.Duration != nil {
		t.Duration = *u.Duration
	}
}
