package tui

import (
	"io"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
)

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

type workDoneMsg struct{}

// SpinnerModel shows a spinner next to a title until the work finishes.
// It ignores key presses: submitted work runs to completion.
type SpinnerModel struct {
	spinner spinner.Model
	title   string
	done    bool
}

// NewSpinner creates a spinner model with the given title.
func NewSpinner(title string) SpinnerModel {
	s := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(SelectedStyle))
	return SpinnerModel{spinner: s, title: title}
}

// Init starts the spinner animation
func (m SpinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages
func (m SpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case workDoneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the spinner line; nothing once done.
func (m SpinnerModel) View() string {
	if m.done {
		return ""
	}
	return m.spinner.View() + " " + m.title + "\n"
}

// IsDone returns whether the work finished
func (m SpinnerModel) IsDone() bool {
	return m.done
}

// Spin runs work on its own goroutine and renders a spinner on out until it
// returns. With show false, work runs directly.
func Spin[T any](out io.Writer, title string, show bool, work func() (T, error)) (T, error) {
	if !show {
		return work()
	}

	p := tea.NewProgram(NewSpinner(title),
		tea.WithOutput(out),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)

	var (
		result  T
		workErr error
	)
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		result, workErr = work()
		p.Send(workDoneMsg{})
	}()

	// A renderer failure only loses the animation.
	_, _ = p.Run()
	<-finished
	return result, workErr
}
