// Package cli defines the countdowns command line.
package cli

import (
	"fmt"

	"Countdowns/config"
	"Countdowns/i18n"
	"Countdowns/logging"
	"Countdowns/storage"
	"Countdowns/timer"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	DataDir    string
	Storage    string
	Verbose    bool

	cfg config.Config
}

// Runner starts the graphical application.
type Runner func(cfg config.Config) error

// NewRootCommand creates the root command. Without a subcommand it runs the
// graphical application through run.
func NewRootCommand(run Runner) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "countdowns",
		Short:         "Countdown timers with an audible alarm",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts.cfg)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "configuration file path")
	cmd.PersistentFlags().StringVar(&opts.DataDir, "data-dir", "", "directory holding saved timers")
	cmd.PersistentFlags().StringVar(&opts.Storage, "storage", "", "storage backend (file|sqlite)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose logging")

	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewEditCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewToggleCommand(opts))
	cmd.AddCommand(NewRestartCommand(opts))

	return cmd
}

func (o *RootOptions) load() error {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return err
	}
	if o.DataDir != "" {
		cfg.Storage.Dir = o.DataDir
	}
	if o.Storage != "" {
		cfg.Storage.Backend = o.Storage
	}
	if o.Verbose {
		cfg.Log.Level = "debug"
	}
	if err := logging.Configure(cfg.Log); err != nil {
		logging.NewLogger("cli").WithError(err).Warn("Failed to configure log file")
	}
	i18n.Init(cfg.Language)
	o.cfg = cfg
	return nil
}

// openStore opens the configured slot and a store on top of it. The returned
// function closes the slot.
func (o *RootOptions) openStore() (*timer.Store, func(), error) {
	slot, err := storage.Open(o.cfg.Storage)
	if err != nil {
		return nil, nil, fmt.Errorf("open storage: %w", err)
	}
	store := timer.NewStore(storage.NewAdapter(slot, o.cfg.Storage.Key))
	closeFn := func() {
		if err := slot.Close(); err != nil {
			logging.NewLogger("cli").WithError(err).Warn("Failed to close storage")
		}
	}
	return store, closeFn, nil
}
