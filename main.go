package main

import (
	"fmt"
	"os"

	"Countdowns/cli"
	"Countdowns/config"
	"Countdowns/ui"

	"fyne.io/fyne/v2/app"
)

func main() {
	if err := cli.NewRootCommand(runGUI).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runGUI(cfg config.Config) error {
	a, err := NewAppManager(cfg)
	if err != nil {
		return err
	}

	fyneApp := app.NewWithID("io.countdowns.app")
	a.SetNotifier(desktopNotifier(fyneApp))

	w := ui.CreateMainWindow(a, fyneApp)
	w.SetCloseIntercept(func() {
		a.Shutdown()
		w.Close()
	})

	a.Start()
	w.ShowAndRun()
	a.Shutdown()
	return nil
}
