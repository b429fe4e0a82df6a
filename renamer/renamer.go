package renamer

import (
	"bytes"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/sokinpui/renamer/cli"
	"github.com/sokinpui/renamer/internal/audit"
	"github.com/sokinpui/renamer/internal/batch"
	"github.com/sokinpui/renamer/internal/fs"
	"github.com/sokinpui/renamer/internal/source"
	"github.com/sokinpui/renamer/internal/table"
	"github.com/sokinpui/renamer/internal/ui"
	"github.com/sokinpui/renamer/model"
)

var (
	// ErrInvalidInput means the input table path is not a regular file.
	ErrInvalidInput = errors.New("invalid input table")
	// ErrInvalidParentDir means the parent directory does not exist or is
	// not a directory.
	ErrInvalidParentDir = errors.New("invalid parent directory")
	// ErrUnreadableTable means the table could not be read or parsed.
	ErrUnreadableTable = errors.New("unreadable input table")
)

// EmptySourceMessage is reported when stdin or the clipboard held nothing.
const EmptySourceMessage = "Source is empty. Nothing to process."

// ProgressUpdate is a callback function to report progress.
type ProgressUpdate func(current, total int)

// App orchestrates a single rename run.
type App struct {
	cfg              *cli.Config
	log              *audit.Logger
	pathResolver     *fs.PathResolver
	sourceProvider   *source.SourceProvider
	progressCallback ProgressUpdate
}

// DetailedError enhances a standard error with a stack trace.
type DetailedError struct {
	Err   error
	Stack []byte
}

func (e *DetailedError) Error() string {
	return e.Err.Error()
}

func (e *DetailedError) Unwrap() error {
	return e.Err
}

// New creates a new App instance and opens the run's log file. The log is
// opened before anything is validated so that validation failures land in
// it too. Call Close when done.
func New(cfg *cli.Config, logOpts ...audit.Option) (*App, error) {
	log, err := audit.New(cfg.LogDir, logOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	parentDir := fs.NormalizeSeparators(cfg.ParentDir)
	if expanded, err := fs.ExpandHome(parentDir); err == nil {
		parentDir = expanded
	}

	resolver, err := fs.NewPathResolver(parentDir)
	if err != nil {
		// Logged only; the caller reports the returned error.
		log.Error(err.Error(), false)
		log.Close()
		return nil, err
	}

	return &App{
		cfg:            cfg,
		log:            log,
		pathResolver:   resolver,
		sourceProvider: source.New(cfg.InputPath, cfg.Clipboard),
	}, nil
}

// SetProgressCallback sets a function to be called for progress updates.
func (a *App) SetProgressCallback(cb ProgressUpdate) {
	a.progressCallback = cb
}

// LogPath returns the absolute path of the run's log file.
func (a *App) LogPath() string {
	return a.log.Path()
}

// Close closes the log file.
func (a *App) Close() error {
	return a.log.Close()
}

// Execute validates the inputs, then renames every row of the table in
// order. Per-row failures are counted and logged, never returned. A non-nil
// error means the run was aborted before any rename was attempted.
func (a *App) Execute() (summary model.Summary, err error) {
	// Centralized panic recovery.
	defer func() {
		if r := recover(); r != nil {
			err = &DetailedError{
				Err:   fmt.Errorf("internal panic: %v", r),
				Stack: debug.Stack(),
			}
		}
	}()

	summary.LogPath = a.log.Path()

	if err := a.validate(); err != nil {
		return summary, err
	}

	content, err := a.sourceProvider.GetContent()
	if err != nil {
		a.fatal(err.Error())
		return summary, fmt.Errorf("%w: %w", ErrUnreadableTable, err)
	}
	if len(bytes.TrimSpace(content)) == 0 {
		a.log.Info(EmptySourceMessage, false)
		summary.Message = EmptySourceMessage
		return summary, nil
	}

	var rows [][]string
	opts, err := a.tableOptions(content)
	if err == nil {
		rows, err = table.Parse(content, opts)
	}
	if err != nil {
		a.fatal(err.Error())
		return summary, fmt.Errorf("%w: %w", ErrUnreadableTable, err)
	}

	var runOpts []batch.Option
	if a.progressCallback != nil {
		runOpts = append(runOpts, batch.WithProgress(batch.ProgressUpdate(a.progressCallback)))
	}
	runner := batch.New(a.pathResolver, a.log, a.cfg.IncludeHeader, runOpts...)

	result := runner.Run(rows)
	result.LogPath = a.log.Path()

	a.log.Info(ui.SummaryLines(result)[0], false)
	if logErr := runner.LogErr(); logErr != nil {
		result.Message = fmt.Sprintf("Some events could not be written to the log: %v", logErr)
	}
	return result, nil
}

// validate checks the input table and the parent directory. Failures are
// logged and echoed before being returned.
func (a *App) validate() error {
	if a.sourceProvider.IsFile() && !fs.IsRegularFile(a.sourceProvider.Path()) {
		a.fatal(fmt.Sprintf("The file '%s' is not a valid .csv file", a.sourceProvider.Path()))
		return fmt.Errorf("%w: %s", ErrInvalidInput, a.sourceProvider.Path())
	}
	if !fs.IsDir(a.pathResolver.ParentDir()) {
		a.fatal(fmt.Sprintf("The parent directory '%s' is not a valid directory", a.cfg.ParentDir))
		return fmt.Errorf("%w: %s", ErrInvalidParentDir, a.cfg.ParentDir)
	}
	return nil
}

func (a *App) tableOptions(content []byte) (table.Options, error) {
	format, comma := table.DetectFormat(a.sourceProvider.Path())
	if !a.sourceProvider.IsFile() {
		comma = table.SniffComma(content)
	}

	if a.cfg.Format != "" {
		f, err := table.ParseFormat(a.cfg.Format)
		if err != nil {
			return table.Options{}, err
		}
		format = f
	}
	if a.cfg.Separator != "" {
		r, err := cli.SeparatorRune(a.cfg.Separator)
		if err != nil {
			return table.Options{}, err
		}
		comma = r
	}
	return table.Options{Format: format, Comma: comma}, nil
}

// fatal logs and echoes an error that aborts the run.
func (a *App) fatal(msg string) {
	a.log.Error(msg, true)
}
