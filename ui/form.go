package ui

import (
	"errors"
	"strconv"
	"strings"

	"Countdowns/control"
	"Countdowns/i18n"
	"Countdowns/timer"
	"Countdowns/validation"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// ErrNotANumber is reported when a time field holds something other than a
// whole number.
var ErrNotANumber = errors.New("Time values must be whole numbers")

// formEntries holds the inputs of the timer form.
type formEntries struct {
	title       *widget.Entry
	description *widget.Entry
	hours       *widget.Entry
	minutes     *widget.Entry
	seconds     *widget.Entry
}

func newFormEntries(f validation.Form) *formEntries {
	e := &formEntries{
		title:       widget.NewEntry(),
		description: widget.NewMultiLineEntry(),
		hours:       widget.NewEntry(),
		minutes:     widget.NewEntry(),
		seconds:     widget.NewEntry(),
	}
	e.title.SetText(f.Title)
	e.description.SetText(f.Description)
	e.description.SetMinRowsVisible(2)
	e.hours.SetText(strconv.Itoa(f.Hours))
	e.minutes.SetText(strconv.Itoa(f.Minutes))
	e.seconds.SetText(strconv.Itoa(f.Seconds))
	return e
}

func (e *formEntries) items() []*widget.FormItem {
	return []*widget.FormItem{
		widget.NewFormItem(i18n.T("Title"), e.title),
		widget.NewFormItem(i18n.T("Description"), e.description),
		widget.NewFormItem(i18n.T("Hours"), e.hours),
		widget.NewFormItem(i18n.T("Minutes"), e.minutes),
		widget.NewFormItem(i18n.T("Seconds"), e.seconds),
	}
}

// read parses the entries. Text fields are returned even when a number is
// malformed so the form can be reopened with them.
func (e *formEntries) read() (validation.Form, error) {
	f := validation.Form{Title: e.title.Text, Description: e.description.Text}
	var err error
	if f.Hours, err = parseField(e.hours.Text); err != nil {
		return f, err
	}
	if f.Minutes, err = parseField(e.minutes.Text); err != nil {
		return f, err
	}
	if f.Seconds, err = parseField(e.seconds.Text); err != nil {
		return f, err
	}
	return f, nil
}

// parseField reads one time field. Blank means zero.
func parseField(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, ErrNotANumber
	}
	return n, nil
}

// ShowTimerForm opens the form for a new timer, or for editing existing when
// it is not nil.
func ShowTimerForm(a App, w fyne.Window, existing *timer.Timer) {
	var initial validation.Form
	if existing != nil {
		initial = validation.FormFromTimer(*existing)
	} else {
		initial = validation.Form{Minutes: 5}
	}
	showTimerForm(a, w, existing, initial)
}

func showTimerForm(a App, w fyne.Window, existing *timer.Timer, initial validation.Form) {
	title := i18n.T("New timer")
	if existing != nil {
		title = i18n.T("Edit timer")
	}
	entries := newFormEntries(initial)

	d := dialog.NewForm(title, i18n.T("Save"), i18n.T("Cancel"), entries.items(), func(ok bool) {
		if !ok {
			return
		}
		f, err := entries.read()
		gate := rejectionGate(w, func() { showTimerForm(a, w, existing, f) })
		if err != nil {
			gate.Report(err.Error())
			return
		}
		if gate.Accept(f) {
			a.EnqueueCommand(commandFor(existing, f))
		}
	}, w)
	d.Resize(fyne.NewSize(RowWidth, 0))
	d.Show()
}

// rejectionGate shows a rejected form's message in an error dialog and calls
// reopen once the dialog is dismissed.
func rejectionGate(w fyne.Window, reopen func()) validation.Gate {
	return validation.Gate{Report: func(message string) {
		reject := dialog.NewError(errors.New(i18n.T(message)), w)
		reject.SetOnClosed(reopen)
		reject.Show()
	}}
}

// commandFor turns an accepted form into the matching store command.
func commandFor(existing *timer.Timer, f validation.Form) control.Command {
	if existing == nil {
		return control.Command{Type: control.CmdAdd, Draft: f.Draft()}
	}
	return control.Command{Type: control.CmdEdit, ID: existing.ID, Updates: f.Updates()}
}
