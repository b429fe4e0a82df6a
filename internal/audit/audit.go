// Package audit writes the per-run CSV event log.
//
// Every run gets its own file, log_<pid>.csv, whose first row is always the
// column header "datetime,message,error". Rows are flushed as they are
// written so an interrupted run still leaves everything logged so far.
package audit

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/sokinpui/renamer/internal/ui"
)

// TimeLayout is the format of the datetime column.
const TimeLayout = "2006-01-02 15:04:05.000000"

// Header is the first row of every log file.
var Header = []string{"datetime", "message", "error"}

// Option configures a Logger.
type Option func(*Logger)

// WithClock overrides the timestamp source. Default: time.Now.
func WithClock(now func() time.Time) Option {
	return func(l *Logger) { l.now = now }
}

// WithEcho overrides how echoed events reach the terminal. Default: ui.Echo.
func WithEcho(echo func(msg string, isErr bool)) Option {
	return func(l *Logger) { l.echo = echo }
}

// WithPID overrides the process id used to name the file.
func WithPID(pid int) Option {
	return func(l *Logger) { l.pid = pid }
}

// Logger appends timestamped events to the run's CSV log.
type Logger struct {
	mu   sync.Mutex
	f    *os.File
	w    *csv.Writer
	path string
	pid  int
	now  func() time.Time
	echo func(msg string, isErr bool)
}

// FileName returns the log file name for a process id.
func FileName(pid int) string {
	return fmt.Sprintf("log_%d.csv", pid)
}

// New creates (or truncates) the log file in dir and writes the header row.
func New(dir string, opts ...Option) (*Logger, error) {
	l := &Logger{
		pid:  os.Getpid(),
		now:  time.Now,
		echo: ui.Echo,
	}
	for _, opt := range opts {
		opt(l)
	}

	if dir == "" {
		dir = "."
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("audit: resolve %s: %w", dir, err)
	}
	l.path = filepath.Join(absDir, FileName(l.pid))

	f, err := os.Create(l.path)
	if err != nil {
		return nil, fmt.Errorf("audit: open %s: %w", l.path, err)
	}
	l.f = f
	l.w = csv.NewWriter(f)

	if err := l.writeRow(Header); err != nil {
		f.Close()
		return nil, err
	}
	return l, nil
}

// Path returns the absolute path of the log file.
func (l *Logger) Path() string {
	return l.path
}

// Log appends one event. When echo is set the message is also shown on the
// terminal. The event is on disk when Log returns.
func (l *Logger) Log(msg string, isErr, echo bool) error {
	if echo && l.echo != nil {
		l.echo(msg, isErr)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	return l.writeRow([]string{
		l.now().Format(TimeLayout),
		msg,
		strconv.FormatBool(isErr),
	})
}

// Info logs a non-error event.
func (l *Logger) Info(msg string, echo bool) error {
	return l.Log(msg, false, echo)
}

// Error logs an error event.
func (l *Logger) Error(msg string, echo bool) error {
	return l.Log(msg, true, echo)
}

// Close flushes and closes the log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.f == nil {
		return nil
	}
	l.w.Flush()
	werr := l.w.Error()
	cerr := l.f.Close()
	l.f = nil
	if werr != nil {
		return fmt.Errorf("audit: flush: %w", werr)
	}
	return cerr
}

func (l *Logger) writeRow(row []string) error {
	if l.f == nil {
		return fmt.Errorf("audit: write to closed log %s", l.path)
	}
	if err := l.w.Write(row); err != nil {
		return fmt.Errorf("audit: write: %w", err)
	}
	l.w.Flush()
	if err := l.w.Error(); err != nil {
		return fmt.Errorf("audit: flush: %w", err)
	}
	return nil
}
