// Package control defines lightweight command messages used by the UI and the
// tick driver to request store mutations, and the loop that applies them one
// at a time.
package control

import "Countdowns/timer"

// CommandType enumerates supported command operations.
type CommandType int

const (
	CmdAdd CommandType = iota
	CmdEdit
	CmdDelete
	CmdToggle
	CmdTick
	CmdRestart
)

func (c CommandType) String() string {
	switch c {
	case CmdAdd:
		return "add"
	case CmdEdit:
		return "edit"
	case CmdDelete:
		return "delete"
	case CmdToggle:
		return "toggle"
	case CmdTick:
		return "tick"
	case CmdRestart:
		return "restart"
	}
	return "unknown"
}

// Command is the message sent to Loop. The optional Reply channel receives
// nil once the command has been applied.
type Command struct {
	Type    CommandType
	ID      string // target timer; unused for CmdAdd
	Draft   timer.Draft
	Updates timer.Updates
	Reply   chan error
}
