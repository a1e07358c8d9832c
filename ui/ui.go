// Package ui builds the fyne window: one row per timer, a form dialog for
// new and edited timers, and a button that silences the alarm.
package ui

import (
	"image/color"

	"Countdowns/control"
	"Countdowns/i18n"
	"Countdowns/timer"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// App is what the window needs from the application.
type App interface {
	Timers() []timer.Timer
	Subscribe(l timer.Listener) (unsubscribe func())
	EnqueueCommand(cmd control.Command)
	StopAlert()
}

const (
	FontSizeTitle float32 = 20
	FontSizeTime  float32 = 24

	RowWidth     = 360
	RowHeight    = 84
	RowSpacing   = 1
	CornerRadius = 10.0
	WindowHeight = 480
)

var (
	BackgroundColor = color.NRGBA{R: 0x1e, G: 0x1e, B: 0x1e, A: 0xff}
	CompletedColor  = color.NRGBA{R: 0xc6, G: 0x28, B: 0x28, A: 0xff}
)

// TimerRow renders one timer. Primary tap toggles it, secondary tap restarts
// it.
type TimerRow struct {
	id string

	titleText       *canvas.Text
	timeText        *canvas.Text
	descLabel       *widget.Label
	stateLabel      *widget.Label
	colorFilterRect *canvas.Rectangle
	tappable        *TappableContainer
	object          fyne.CanvasObject
}

// NewTimerRow creates the row for t.
func NewTimerRow(a App, w fyne.Window, t timer.Timer) *TimerRow {
	r := &TimerRow{id: t.ID}

	r.titleText = canvas.NewText("", color.White)
	r.titleText.TextSize = FontSizeTitle
	r.titleText.TextStyle.Bold = true

	r.timeText = canvas.NewText("--:--", color.White)
	r.timeText.TextSize = FontSizeTime
	r.timeText.TextStyle.Monospace = true

	r.descLabel = widget.NewLabel("")
	r.descLabel.Truncation = fyne.TextTruncateEllipsis
	r.stateLabel = widget.NewLabel("")

	r.colorFilterRect = canvas.NewRectangle(color.Transparent)
	r.colorFilterRect.CornerRadius = CornerRadius

	border := canvas.NewRectangle(color.Transparent)
	border.SetMinSize(fyne.NewSize(RowWidth, RowHeight))
	border.CornerRadius = CornerRadius

	text := container.NewVBox(
		r.titleText,
		r.descLabel,
	)
	right := container.NewVBox(
		layout.NewSpacer(),
		r.timeText,
		r.stateLabel,
		layout.NewSpacer(),
	)
	content := container.NewBorder(nil, nil, nil, right, text)

	r.tappable = NewTappableContainer(
		container.NewStack(border, r.colorFilterRect, container.NewPadded(content)),
		func() { a.EnqueueCommand(control.Command{Type: control.CmdToggle, ID: r.id}) },
		func(*fyne.PointEvent) { a.EnqueueCommand(control.Command{Type: control.CmdRestart, ID: r.id}) },
	)

	editButton := widget.NewButtonWithIcon("", theme.DocumentCreateIcon(), func() {
		for _, cur := range a.Timers() {
			if cur.ID == r.id {
				ShowTimerForm(a, w, &cur)
				return
			}
		}
	})
	deleteButton := widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
		dialog.ShowConfirm(i18n.T("Delete"), r.titleText.Text, func(ok bool) {
			if ok {
				a.EnqueueCommand(control.Command{Type: control.CmdDelete, ID: r.id})
			}
		}, w)
	})

	r.object = container.NewBorder(nil, nil, nil,
		container.NewVBox(layout.NewSpacer(), editButton, deleteButton, layout.NewSpacer()),
		r.tappable,
	)
	r.update(t)
	return r
}

// CanvasObject returns the row's top-level object.
func (r *TimerRow) CanvasObject() fyne.CanvasObject {
	return r.object
}

// update copies t into the widgets. Callers on other goroutines go through
// fyne.Do.
func (r *TimerRow) update(t timer.Timer) {
	r.titleText.Text = t.Title
	r.timeText.Text = timer.FormatTime(t.RemainingTime)
	r.descLabel.SetText(t.Description)
	r.stateLabel.SetText(stateText(t))

	switch {
	case t.IsRunning:
		r.colorFilterRect.FillColor = withAlpha(BackgroundColor, 64)
	case t.Completed():
		r.colorFilterRect.FillColor = withAlpha(CompletedColor, 160)
	default:
		r.colorFilterRect.FillColor = withAlpha(BackgroundColor, 166)
	}

	r.titleText.Refresh()
	r.timeText.Refresh()
	r.colorFilterRect.Refresh()
}

func stateText(t timer.Timer) string {
	switch {
	case t.IsRunning:
		return i18n.T("running")
	case t.Completed():
		return i18n.T("completed")
	default:
		return i18n.T("paused")
	}
}

// TimerList keeps one row per timer, in store order.
type TimerList struct {
	app    App
	window fyne.Window
	box    *fyne.Container
	empty  *widget.Label
	rows   map[string]*TimerRow
}

// NewTimerList creates an empty list.
func NewTimerList(a App, w fyne.Window) *TimerList {
	return &TimerList{
		app:    a,
		window: w,
		box:    container.NewVBox(),
		empty:  widget.NewLabel(i18n.T("No timers yet")),
		rows:   make(map[string]*TimerRow),
	}
}

// Render brings the rows in line with timers, reusing rows for known ids.
func (l *TimerList) Render(timers []timer.Timer) {
	seen := make(map[string]bool, len(timers))
	objects := make([]fyne.CanvasObject, 0, 2*len(timers)+1)

	for _, t := range timers {
		seen[t.ID] = true
		row, ok := l.rows[t.ID]
		if ok {
			row.update(t)
		} else {
			row = NewTimerRow(l.app, l.window, t)
			l.rows[t.ID] = row
		}
		spacer := canvas.NewRectangle(color.Transparent)
		spacer.SetMinSize(fyne.NewSize(0, RowSpacing))
		objects = append(objects, row.CanvasObject(), spacer)
	}
	for id := range l.rows {
		if !seen[id] {
			delete(l.rows, id)
		}
	}
	if len(timers) == 0 {
		objects = append(objects, container.NewCenter(l.empty))
	}

	l.box.Objects = objects
	l.box.Refresh()
}

// Len returns the number of rendered rows.
func (l *TimerList) Len() int {
	return len(l.rows)
}

// CanvasObject returns the scrollable list.
func (l *TimerList) CanvasObject() fyne.CanvasObject {
	return container.NewVScroll(l.box)
}

// BuildFooter creates the "New timer" and "Stop alarm" buttons.
func BuildFooter(a App, w fyne.Window) (newButton, stopButton *widget.Button, footer fyne.CanvasObject) {
	newButton = widget.NewButtonWithIcon(i18n.T("New timer"), theme.ContentAddIcon(), func() {
		ShowTimerForm(a, w, nil)
	})
	newButton.Importance = widget.HighImportance

	stopButton = widget.NewButtonWithIcon(i18n.T("Stop alarm"), theme.VolumeMuteIcon(), a.StopAlert)

	footer = container.NewHBox(layout.NewSpacer(), newButton, stopButton, layout.NewSpacer())
	return newButton, stopButton, footer
}

// CreateMainWindow builds the window and subscribes it to store changes. The
// subscription ends when the window closes.
func CreateMainWindow(a App, fyneApp fyne.App) fyne.Window {
	title := fyneApp.Metadata().Name
	if title == "" {
		title = i18n.T("Countdowns")
	}
	w := fyneApp.NewWindow(title)

	list := NewTimerList(a, w)
	list.Render(a.Timers())
	unsubscribe := a.Subscribe(func(timers []timer.Timer) {
		fyne.Do(func() { list.Render(timers) })
	})

	newButton, stopButton, footer := BuildFooter(a, w)

	w.Canvas().SetOnTypedRune(func(r rune) {
		switch r {
		case 'n', 'N':
			newButton.Tapped(&fyne.PointEvent{})
		case ' ', 's', 'S':
			stopButton.Tapped(&fyne.PointEvent{})
		}
	})

	w.SetContent(container.NewBorder(nil, footer, nil, nil, list.CanvasObject()))
	w.Resize(fyne.NewSize(RowWidth+80, WindowHeight))
	w.SetOnClosed(unsubscribe)
	return w
}

// TappableContainer wraps content with primary and secondary tap handlers.
type TappableContainer struct {
	widget.BaseWidget
	Content           fyne.CanvasObject
	OnTappedPrimary   func()
	OnTappedSecondary func(e *fyne.PointEvent)
}

func NewTappableContainer(c fyne.CanvasObject, onP func(), onS func(e *fyne.PointEvent)) *TappableContainer {
	t := &TappableContainer{
		Content:           c,
		OnTappedPrimary:   onP,
		OnTappedSecondary: onS,
	}
	t.ExtendBaseWidget(t)
	return t
}

func (t *TappableContainer) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(t.Content)
}

func (t *TappableContainer) Tapped(_ *fyne.PointEvent) {
	if t.OnTappedPrimary != nil {
		t.OnTappedPrimary()
	}
}

func (t *TappableContainer) TappedSecondary(e *fyne.PointEvent) {
	if t.OnTappedSecondary != nil {
		t.OnTappedSecondary(e)
	}
}

func withAlpha(c color.Color, alpha uint8) color.NRGBA {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: alpha}
}
