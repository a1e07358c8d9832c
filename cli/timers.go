package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"Countdowns/i18n"
	"Countdowns/timer"
	"Countdowns/validation"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// formFlags binds the timer form fields to command flags.
type formFlags struct {
	form  validation.Form
	start bool
}

func (f *formFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.form.Title, "title", "t", "", "timer title")
	fs.StringVarP(&f.form.Description, "description", "d", "", "optional description")
	fs.IntVarP(&f.form.Hours, "hours", "H", 0, "hours")
	fs.IntVarP(&f.form.Minutes, "minutes", "M", 0, "minutes (0-59)")
	fs.IntVarP(&f.form.Seconds, "seconds", "S", 0, "seconds (0-59)")
}

// overlay copies the flags the user set onto base.
func (f *formFlags) overlay(fs *pflag.FlagSet, base validation.Form) validation.Form {
	if fs.Changed("title") {
		base.Title = f.form.Title
	}
	if fs.Changed("description") {
		base.Description = f.form.Description
	}
	if fs.Changed("hours") {
		base.Hours = f.form.Hours
	}
	if fs.Changed("minutes") {
		base.Minutes = f.form.Minutes
	}
	if fs.Changed("seconds") {
		base.Seconds = f.form.Seconds
	}
	return base
}

// validate runs the form through the validation gate and returns the
// rejection, translated, as an error.
func validate(form validation.Form) error {
	var rejection error
	gate := validation.Gate{Report: func(message string) {
		rejection = errors.New(i18n.T(message))
	}}
	if !gate.Accept(form) {
		return rejection
	}
	return nil
}

// NewListCommand prints all timers.
func NewListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List timers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeFn, err := opts.openStore()
			if err != nil {
				return err
			}
			defer closeFn()
			return printTimers(cmd.OutOrStdout(), store.Timers())
		},
	}
}

// NewAddCommand validates and stores a new timer.
func NewAddCommand(opts *RootOptions) *cobra.Command {
	flags := &formFlags{}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a timer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validate(flags.form); err != nil {
				return err
			}
			store, closeFn, err := opts.openStore()
			if err != nil {
				return err
			}
			defer closeFn()

			draft := flags.form.Draft()
			draft.IsRunning = flags.start
			id := store.AddTimer(draft)
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
	flags.register(cmd.Flags())
	cmd.Flags().BoolVar(&flags.start, "start", false, "start the timer right away")
	return cmd
}

// NewEditCommand changes a timer. Fields not given keep their values; the
// timer is stopped and rewound to its duration.
func NewEditCommand(opts *RootOptions) *cobra.Command {
	flags := &formFlags{}
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a timer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeFn, err := opts.openStore()
			if err != nil {
				return err
			}
			defer closeFn()

			t, err := resolve(store, args[0])
			if err != nil {
				return err
			}
			form := flags.overlay(cmd.Flags(), validation.FormFromTimer(t))
			if err := validate(form); err != nil {
				return err
			}
			store.EditTimer(t.ID, form.Updates())
			return nil
		},
	}
	flags.register(cmd.Flags())
	return cmd
}

// NewDeleteCommand removes a timer.
func NewDeleteCommand(opts *RootOptions) *cobra.Command {
	return idCommand(opts, "delete <id>", "Delete a timer", (*timer.Store).DeleteTimer)
}

// NewToggleCommand starts or pauses a timer.
func NewToggleCommand(opts *RootOptions) *cobra.Command {
	return idCommand(opts, "toggle <id>", "Start or pause a timer", (*timer.Store).ToggleTimer)
}

// NewRestartCommand rewinds a timer to its full duration.
func NewRestartCommand(opts *RootOptions) *cobra.Command {
	return idCommand(opts, "restart <id>", "Rewind a timer", (*timer.Store).RestartTimer)
}

func idCommand(opts *RootOptions, use, short string, op func(*timer.Store, string)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeFn, err := opts.openStore()
			if err != nil {
				return err
			}
			defer closeFn()

			t, err := resolve(store, args[0])
			if err != nil {
				return err
			}
			op(store, t.ID)
			return nil
		},
	}
}

// resolve finds a timer by id or unique id prefix.
func resolve(store *timer.Store, ref string) (timer.Timer, error) {
	if t, ok := store.Get(ref); ok {
		return t, nil
	}
	var matches []timer.Timer
	for _, t := range store.Timers() {
		if ref != "" && strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return timer.Timer{}, fmt.Errorf("timer %s not found", ref)
	case 1:
		return matches[0], nil
	default:
		return timer.Timer{}, fmt.Errorf("timer id %s is ambiguous", ref)
	}
}

func stateOf(t timer.Timer) string {
	switch {
	case t.IsRunning:
		return i18n.T("running")
	case t.RemainingTime == 0:
		return i18n.T("completed")
	default:
		return i18n.T("paused")
	}
}

func printTimers(w io.Writer, timers []timer.Timer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tREMAINING\tSTATE")
	for _, t := range timers {
		fmt.Fprintf(tw, "%s\t%s\t%s/%s\t%s\n",
			t.ID, t.Title, timer.FormatTime(t.RemainingTime), timer.FormatTime(t.Duration), stateOf(t))
	}
	return tw.Flush()
}
