package tui

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
)

// ConfirmModel is a yes/no prompt. The cursor starts on "No" since it guards
// destructive registry edits.
type ConfirmModel struct {
	message   string
	cursor    int
	confirmed bool
	done      bool
}

// NewConfirm creates a new confirmation prompt
func NewConfirm(message string) ConfirmModel {
	return ConfirmModel{message: message, cursor: 1}
}

// Init initializes the component
func (m ConfirmModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "left", "h":
		m.cursor = 0
	case "right", "l":
		m.cursor = 1
	case "enter", " ":
		m.confirmed = m.cursor == 0
		m.done = true
		return m, tea.Quit
	case "y":
		m.confirmed = true
		m.done = true
		return m, tea.Quit
	case "n", "ctrl+c", "esc":
		m.confirmed = false
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

// View renders the component
func (m ConfirmModel) View() string {
	if m.done {
		return ""
	}

	yes := "  Yes"
	no := "  No"
	if m.cursor == 0 {
		yes = SelectedStyle.Render("> Yes")
	} else {
		no = SelectedStyle.Render("> No")
	}

	return fmt.Sprintf("%s\n\n%s  %s\n\n%s",
		m.message,
		yes, no,
		HelpStyle.Render("←→ navigate • enter confirm • y/n quick select"))
}

// IsConfirmed returns whether the user confirmed
func (m ConfirmModel) IsConfirmed() bool {
	return m.confirmed
}

// IsDone returns whether the user finished
func (m ConfirmModel) IsDone() bool {
	return m.done
}

// Confirm runs the prompt on in/out and reports the answer.
func Confirm(in io.Reader, out io.Writer, message string) (bool, error) {
	final, err := tea.NewProgram(NewConfirm(message), tea.WithInput(in), tea.WithOutput(out)).Run()
	if err != nil {
		return false, fmt.Errorf("confirmation prompt failed: %w", err)
	}
	return final.(ConfirmModel).IsConfirmed(), nil
}
