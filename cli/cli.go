package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Environment variables that provide defaults for flags. They may also be
// set in a .env file in the working directory.
const (
	EnvParentDir = "RENAMER_PARENT_DIR"
	EnvLogDir    = "RENAMER_LOG_DIR"
)

// Config holds all the command-line flag values.
type Config struct {
	InputPath     string
	ParentDir     string
	IncludeHeader bool
	Clipboard     bool
	Separator     string
	Format        string
	LogDir        string
	TUI           bool
	NoColor       bool
}

// ParseFlags loads .env defaults and parses os.Args.
func ParseFlags() (*Config, error) {
	// A missing .env is the common case.
	_ = godotenv.Load()
	return ParseArgs(os.Args[1:], os.Stderr)
}

// ParseArgs defines and parses command-line flags using pflag. Usage and
// errors are written to out.
func ParseArgs(args []string, out io.Writer) (*Config, error) {
	cfg := &Config{}

	flags := pflag.NewFlagSet("renamer", pflag.ContinueOnError)
	flags.SetOutput(out)

	// Define flags
	flags.StringVarP(&cfg.ParentDir, "parent-dir", "d", os.Getenv(EnvParentDir), "Directory the table's paths are relative to (default: current working directory).")
	flags.BoolVarP(&cfg.IncludeHeader, "include-header", "i", true, "Treat the first row as a header and skip it.")
	flags.BoolVarP(&cfg.Clipboard, "clipboard", "c", false, "Read the table from the clipboard instead of a file.")
	flags.StringVarP(&cfg.Separator, "separator", "s", "", "Field separator: a single character or 'tab' (default: ',' or tab for .tsv files).")
	flags.StringVarP(&cfg.Format, "format", "f", "", "Table format: 'csv', 'markdown' or 'xlsx' (default: from the file extension).")
	flags.StringVarP(&cfg.LogDir, "log-dir", "l", os.Getenv(EnvLogDir), "Directory for the log_<pid>.csv file (default: current working directory).")
	flags.BoolVar(&cfg.TUI, "tui", false, "Show a spinner and progress bar while renaming.")
	flags.BoolVar(&cfg.NoColor, "no-color", false, "Disable colored output.")

	flags.Usage = func() {
		fmt.Fprintln(out, "Usage: renamer [flags] <input-table>")
		fmt.Fprintln(out, "\nRename files listed in the first column of a table to the names in the second column, keeping extensions.")
		fmt.Fprintln(out, "\nExample: renamer -d ~/scans renames.csv")
		fmt.Fprintln(out, "\nFlags:")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		if !errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintf(out, "Error: %v\n", err)
			flags.Usage()
		}
		return nil, err
	}

	switch {
	case cfg.Clipboard && flags.NArg() > 0:
		return nil, fmt.Errorf("error: --clipboard does not take an input table path")
	case !cfg.Clipboard && flags.NArg() != 1:
		flags.Usage()
		return nil, fmt.Errorf("error: expected exactly one input table path, got %d", flags.NArg())
	case flags.NArg() == 1:
		cfg.InputPath = flags.Arg(0)
	}

	if cfg.ParentDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("could not get current working directory: %w", err)
		}
		cfg.ParentDir = wd
	}

	if _, err := SeparatorRune(cfg.Separator); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SeparatorRune converts the --separator value into a delimiter. An empty
// value returns 0, meaning "decide from the input".
func SeparatorRune(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case "tab", `\t`:
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if size != len(s) || r == utf8.RuneError || r == '"' || r == '\r' || r == '\n' {
		return 0, fmt.Errorf("error: invalid separator %q", s)
	}
	return r, nil
}
