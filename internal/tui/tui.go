package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sokinpui/renamer/cli"
	"github.com/sokinpui/renamer/internal/audit"
	"github.com/sokinpui/renamer/internal/ui"
	"github.com/sokinpui/renamer/model"
	"github.com/sokinpui/renamer/renamer"
)

// --- Styles ---
var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))  // Mauve
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))             // Green
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))            // Amber
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("197"))            // Red
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

// --- Messages ---
type summaryMsg struct {
	model.Summary
}

type errorMsg struct{ err error }

func (e errorMsg) Error() string { return e.err.Error() }

type progressMsg struct {
	current int
	total   int
}

// noteMsg carries a log event that would have been echoed to the terminal.
type noteMsg struct {
	text  string
	isErr bool
}

// busyNote is shown when the operator tries to quit mid-run. Renames are
// never abandoned halfway, so the run always reaches its summary.
const busyNote = "Renaming cannot be interrupted; waiting for the run to finish."

// --- Model ---
type Model struct {
	spinner  spinner.Model
	progress progress.Model
	state    state
	current  int
	total    int
	notes    []noteMsg
	busy     bool
	summary  model.Summary
	err      error
}

type state int

const (
	stateProcessing state = iota
	stateSummary
	stateError
)

func New() Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return Model{
		spinner:  s,
		progress: progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		state:    stateProcessing,
	}
}

// Run executes a full run of cfg while a Bubble Tea program shows its
// progress. It returns only after every row has been processed and logged,
// even if the program itself ends early.
func Run(cfg *cli.Config, opts ...tea.ProgramOption) (model.Summary, error) {
	var p *tea.Program

	app, err := renamer.New(cfg, audit.WithEcho(func(msg string, isErr bool) {
		p.Send(noteMsg{text: msg, isErr: isErr})
	}))
	if err != nil {
		return model.Summary{}, err
	}
	defer app.Close()

	p = tea.NewProgram(New(), opts...)
	app.SetProgressCallback(func(current, total int) {
		p.Send(progressMsg{current: current, total: total})
	})

	var (
		summary model.Summary
		runErr  error
		done    = make(chan struct{})
	)
	go func() {
		defer close(done)
		summary, runErr = app.Execute()
		if runErr != nil {
			p.Send(errorMsg{runErr})
			return
		}
		p.Send(summaryMsg{summary})
	}()

	_, err = p.Run()
	<-done
	if err != nil {
		return summary, fmt.Errorf("error running program: %w", err)
	}
	return summary, runErr
}

// Finished reports whether the run has delivered its result.
func (m Model) Finished() bool {
	return m.state != stateProcessing
}

// Result reports how the run ended.
func (m Model) Result() (model.Summary, error) {
	return m.summary, m.err
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.state == stateProcessing {
				m.busy = true
				return m, nil
			}
			return m, tea.Quit
		}

	case progressMsg:
		m.current, m.total = msg.current, msg.total
		return m, nil

	case noteMsg:
		m.notes = append(m.notes, msg)
		return m, nil

	case summaryMsg:
		m.state = stateSummary
		m.summary = msg.Summary
		return m, tea.Quit

	case errorMsg:
		m.state = stateError
		m.err = msg.err
		return m, tea.Quit

	default:
		var cmd tea.Cmd
		if m.state == stateProcessing {
			m.spinner, cmd = m.spinner.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	for _, n := range m.notes {
		if n.isErr {
			b.WriteString(errorStyle.Render("ERROR: " + n.text))
		} else {
			b.WriteString(faintStyle.Render(n.text))
		}
		b.WriteString("\n")
	}

	switch m.state {
	case stateProcessing:
		b.WriteString(m.renderProgress())
		if m.busy {
			b.WriteString("\n")
			b.WriteString(warnStyle.Render(busyNote))
		}
	case stateError:
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	case stateSummary:
		b.WriteString(m.renderSummary())
	}
	return b.String()
}

func (m Model) renderProgress() string {
	if m.total == 0 {
		return fmt.Sprintf("%s Renaming...", m.spinner.View())
	}
	percent := float64(m.current) / float64(m.total)
	return fmt.Sprintf("%s Renaming %s %s",
		m.spinner.View(),
		m.progress.ViewAs(percent),
		faintStyle.Render(fmt.Sprintf("[%d/%d]", m.current, m.total)),
	)
}

func (m Model) renderSummary() string {
	var b strings.Builder

	if m.summary.Message != "" {
		b.WriteString(headerStyle.Render(m.summary.Message))
		b.WriteString("\n")
	}

	lines := ui.SummaryLines(m.summary)
	if m.summary.Failed > 0 {
		b.WriteString(warnStyle.Render(lines[0]))
	} else {
		b.WriteString(successStyle.Render(lines[0]))
	}
	b.WriteString("\n")
	b.WriteString(lines[1])
	b.WriteString("\n")
	return b.String()
}
