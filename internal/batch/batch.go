// Package batch runs the rename loop over table rows.
//
// A Runner is the whole state of one run: the resolver, the event log, and
// the counters. Rows are handled one at a time, in table order, and a
// failing row never stops the ones after it.
package batch

import (
	"fmt"
	"strings"

	"github.com/sokinpui/renamer/internal/fs"
	"github.com/sokinpui/renamer/model"
)

// SkipHeaderMessage is logged (and echoed) when the first row is skipped.
const SkipHeaderMessage = "Skipping header row (use --include-header=false to process it)"

// EventLog receives the events of a run.
type EventLog interface {
	Info(msg string, echo bool) error
	Error(msg string, echo bool) error
}

// ProgressUpdate is called after every data row.
type ProgressUpdate func(current, total int)

// Option configures a Runner.
type Option func(*Runner)

// WithProgress registers a progress callback.
func WithProgress(cb ProgressUpdate) Option {
	return func(r *Runner) { r.progress = cb }
}

// WithRenameFunc replaces fs.Rename.
func WithRenameFunc(fn func(src, dst string) error) Option {
	return func(r *Runner) { r.rename = fn }
}

// Runner holds the state of a single run.
type Runner struct {
	resolver   *fs.PathResolver
	log        EventLog
	skipHeader bool
	rename     func(src, dst string) error
	progress   ProgressUpdate

	rows      int
	succeeded int
	failed    int
	skipped   int
	logErr    error
}

// New creates a Runner. When skipHeader is set the first row is treated as
// a header and not processed.
func New(resolver *fs.PathResolver, log EventLog, skipHeader bool, opts ...Option) *Runner {
	r := &Runner{
		resolver:   resolver,
		log:        log,
		skipHeader: skipHeader,
		rename:     fs.Rename,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run processes rows in order and returns the totals.
func (r *Runner) Run(rows [][]string) model.Summary {
	data := rows
	offset := 0
	if r.skipHeader && len(rows) > 0 {
		r.logInfo(SkipHeaderMessage, true)
		data = rows[1:]
		offset = 1
	}

	total := len(data)
	if r.progress != nil {
		r.progress(0, total)
	}
	for i, row := range data {
		r.Process(ToRecord(i+1+offset, row))
		if r.progress != nil {
			r.progress(i+1, total)
		}
	}
	return r.Summary()
}

// Process handles a single record and updates the counters.
func (r *Runner) Process(rec model.Record) model.Outcome {
	r.rows++
	out := r.apply(rec)

	switch out.Kind {
	case model.Renamed:
		r.succeeded++
		r.logInfo(fmt.Sprintf("%s -> %s", out.Source, out.Target), false)
	case model.Failed:
		r.failed++
		r.logError(out.Err.Error(), false)
	default:
		r.skipped++
	}
	return out
}

func (r *Runner) apply(rec model.Record) model.Outcome {
	out := model.Outcome{Kind: model.Skipped, Record: rec}
	if rec.Source == "" {
		return out
	}

	if rec.Fields < 2 || strings.TrimSpace(rec.NewName) == "" {
		out.Kind = model.Failed
		out.Err = fmt.Errorf("row %d: missing new name for '%s'", rec.Line, rec.Source)
		return out
	}

	res, err := r.resolver.ResolveRecord(rec.Source, rec.NewName)
	if err != nil {
		out.Kind = model.Failed
		out.Err = fmt.Errorf("row %d: %w", rec.Line, err)
		return out
	}
	out.Source = res.Source
	out.Target = res.Target

	if err := r.rename(res.Source, res.Target); err != nil {
		out.Kind = model.Failed
		out.Err = err
		return out
	}
	out.Kind = model.Renamed
	return out
}

// Summary returns the counters so far.
func (r *Runner) Summary() model.Summary {
	return model.Summary{
		Rows:      r.rows,
		Succeeded: r.succeeded,
		Failed:    r.failed,
		Skipped:   r.skipped,
	}
}

// LogErr returns the first error hit while writing the event log.
func (r *Runner) LogErr() error {
	return r.logErr
}

// ToRecord builds a record from a table row.
func ToRecord(line int, row []string) model.Record {
	rec := model.Record{Line: line, Fields: len(row)}
	if len(row) > 0 {
		rec.Source = row[0]
	}
	if len(row) > 1 {
		rec.NewName = row[1]
	}
	return rec
}

func (r *Runner) logInfo(msg string, echo bool) {
	r.keepLogErr(r.log.Info(msg, echo))
}

func (r *Runner) logError(msg string, echo bool) {
	r.keepLogErr(r.log.Error(msg, echo))
}

func (r *Runner) keepLogErr(err error) {
	if err != nil && r.logErr == nil {
		r.logErr = err
	}
}
