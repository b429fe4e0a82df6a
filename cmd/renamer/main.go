package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/sokinpui/renamer/cli"
	"github.com/sokinpui/renamer/internal/tui"
	"github.com/sokinpui/renamer/internal/ui"
	"github.com/sokinpui/renamer/renamer"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := cli.ParseFlags()
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 2
	}

	if cfg.NoColor {
		ui.DisableColor()
	}

	if cfg.TUI {
		_, err := tui.Run(cfg)
		return exitCode(err)
	}

	app, err := renamer.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize application: %v\n", err)
		return 1
	}
	defer app.Close()

	summary, err := app.Execute()
	if err != nil {
		return exitCode(err)
	}
	ui.PrintSummary(summary)
	return 0
}

// exitCode maps a run error to the process exit status. Errors the run
// aborted on have already been echoed and logged; anything else is printed.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, renamer.ErrInvalidInput),
		errors.Is(err, renamer.ErrInvalidParentDir),
		errors.Is(err, renamer.ErrUnreadableTable):
		return 1
	}

	var detailed *renamer.DetailedError
	if errors.As(err, &detailed) {
		fmt.Fprintf(os.Stderr, "\n--- Stack Trace ---\n%s\n", detailed.Stack)
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return 1
}
