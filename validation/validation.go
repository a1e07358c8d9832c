// Package validation checks timer form input before it reaches the store.
package validation

import (
	"errors"
	"strings"
	"unicode/utf8"

	"Countdowns/timer"
)

// MaxTitleLength is the longest accepted title, in characters.
const MaxTitleLength = 50

// MaxDuration is the longest accepted timer, in seconds.
const MaxDuration = 24 * 60 * 60

// Rejection reasons. The messages are shown to the user verbatim (after
// translation).
var (
	ErrTitleRequired = errors.New("Title is required")
	ErrTitleTooLong  = errors.New("Title must be less than 50 characters")
	ErrNegativeTime  = errors.New("Time values cannot be negative")
	ErrOutOfRange    = errors.New("Minutes and seconds must be between 0 and 59")
	ErrZeroDuration  = errors.New("Please set a time greater than 0")
	ErrTooLong       = errors.New("Timer cannot exceed 24 hours")
)

// Form is the raw timer input as entered by the user.
type Form struct {
	Title       string
	Description string
	Hours       int
	Minutes     int
	Seconds     int
}

// FormFromTimer fills a form from an existing timer.
func FormFromTimer(t timer.Timer) Form {
	h, m, s := timer.SplitDuration(t.Duration)
	return Form{Title: t.Title, Description: t.Description, Hours: h, Minutes: m, Seconds: s}
}

// TotalSeconds returns the duration described by the form.
func (f Form) TotalSeconds() int {
	return f.Hours*3600 + f.Minutes*60 + f.Seconds
}

// Draft converts an accepted form into a store draft.
func (f Form) Draft() timer.Draft {
	return timer.Draft{
		Title:       strings.TrimSpace(f.Title),
		Description: strings.TrimSpace(f.Description),
		Duration:    f.TotalSeconds(),
	}
}

// Updates converts an accepted form into a full edit.
func (f Form) Updates() timer.Updates {
	d := f.Draft()
	return timer.Updates{Title: &d.Title, Description: &d.Description, Duration: &d.Duration}
}

// Validate returns the first rule the form breaks, or nil.
func Validate(f Form) error {
	title := strings.TrimSpace(f.Title)
	if title == "" {
		return ErrTitleRequired
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	if f.Hours < 0 || f.Minutes < 0 || f.Seconds < 0 {
		return ErrNegativeTime
	}
	if f.Minutes > 59 || f.Seconds > 59 {
		return ErrOutOfRange
	}
	// Bounded before multiplying so the total cannot wrap.
	if f.Hours > MaxDuration/3600 {
		return ErrTooLong
	}
	total := f.TotalSeconds()
	if total == 0 {
		return ErrZeroDuration
	}
	if total > MaxDuration {
		return ErrTooLong
	}
	return nil
}

// Gate runs Validate and reports the rejection message instead of returning
// it, for callers that only need a yes or no.
type Gate struct {
	Report func(message string)
}

// Accept reports whether the form may be committed.
func (g Gate) Accept(f Form) bool {
	err := Validate(f)
	if err == nil {
		return true
	}
	if g.Report != nil {
		g.Report(err.Error())
	}
	return false
}
