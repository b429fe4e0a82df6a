package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/sokinpui/renamer/model"
)

var (
	InfoColor    = color.New(color.FgCyan)
	SuccessColor = color.New(color.FgGreen)
	WarningColor = color.New(color.FgYellow)
	ErrorColor   = color.New(color.FgRed)
)

// Out is where operator-facing messages are written.
var Out io.Writer = os.Stdout

// DisableColor turns off ANSI escapes for every helper in this package.
func DisableColor() {
	color.NoColor = true
}

func Info(format string, a ...interface{}) {
	InfoColor.Fprintf(Out, format+"\n", a...)
}

func Success(format string, a ...interface{}) {
	SuccessColor.Fprintf(Out, format+"\n", a...)
}

func Warning(format string, a ...interface{}) {
	WarningColor.Fprintf(Out, format+"\n", a...)
}

func Error(format string, a ...interface{}) {
	ErrorColor.Fprintf(Out, format+"\n", a...)
}

// Echo prints a log message to the terminal, prefixed with "ERROR: " when
// isErr is set.
func Echo(msg string, isErr bool) {
	if isErr {
		Error("ERROR: %s", msg)
		return
	}
	Info("%s", msg)
}

// --- Summaries ---

// SummaryLines returns the two closing lines of a run.
func SummaryLines(s model.Summary) []string {
	return []string{
		fmt.Sprintf("Operation complete with %d successes and %d errors.", s.Succeeded, s.Failed),
		fmt.Sprintf("View log file at '%s'", s.LogPath),
	}
}

// PrintSummary prints the closing counts and the log location.
func PrintSummary(s model.Summary) {
	if s.Message != "" {
		Warning("%s", s.Message)
	}
	lines := SummaryLines(s)
	if s.Failed > 0 {
		Warning("%s", lines[0])
	} else {
		Success("%s", lines[0])
	}
	fmt.Fprintln(Out, lines[1])
}
