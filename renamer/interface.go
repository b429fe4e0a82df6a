package renamer

import (
	"fmt"
	"strings"

	"github.com/sokinpui/renamer/cli"
	"github.com/sokinpui/renamer/internal/audit"
	"github.com/sokinpui/renamer/internal/source"
	"github.com/sokinpui/renamer/model"
)

// Config for using renamer as a library.
type Config struct {
	// Directory the table's paths are relative to. Empty means the current
	// working directory.
	ParentDir string
	// The first row is data. By default it is a header and skipped, as on
	// the command line.
	NoHeader bool
	// Directory for the log_<pid>.csv file. Empty means the current working
	// directory.
	LogDir string
	// "csv" (default), "markdown" or "xlsx".
	Format string
	// Field separator, as accepted by the --separator flag.
	Separator string
}

// Apply renames files according to the given table content and returns the
// run's summary. The content is parsed exactly as the CLI parses stdin.
func Apply(content string, config Config) (model.Summary, error) {
	cliCfg := &cli.Config{
		InputPath:     source.StdinPath,
		ParentDir:     config.ParentDir,
		IncludeHeader: !config.NoHeader,
		LogDir:        config.LogDir,
		Format:        config.Format,
		Separator:     config.Separator,
	}

	app, err := New(cliCfg, noEcho())
	if err != nil {
		return model.Summary{}, fmt.Errorf("failed to initialize renamer: %w", err)
	}
	defer app.Close()

	app.sourceProvider = source.NewReader(strings.NewReader(content))
	return app.Execute()
}

// noEcho keeps library callers' terminals quiet; everything still goes to
// the log file.
func noEcho() audit.Option {
	return audit.WithEcho(func(string, bool) {})
}
