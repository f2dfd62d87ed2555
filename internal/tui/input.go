package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	restackerrors "stackit.dev/restack/internal/errors"
)

var promptStyle = lipgloss.NewStyle().Margin(1, 0)

// textInputModel is a single line text prompt
type textInputModel struct {
	textInput textinput.Model
	prompt    string
	done      bool
	cancelled bool
}

func (m textInputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m textInputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.done = true
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m textInputModel) View() string {
	if m.done {
		return ""
	}
	return promptStyle.Render(fmt.Sprintf("%s\n%s\n\n%s", m.prompt, m.textInput.View(),
		ColorDim("(Enter to submit, Ctrl+C to cancel)")))
}

// PromptText asks for one line of text
func PromptText(prompt, defaultValue string) (string, error) {
	if !IsInteractive() {
		return "", ErrInteractiveDisabled
	}

	ti := textinput.New()
	ti.SetValue(defaultValue)
	ti.Focus()
	ti.CharLimit = 250
	ti.Width = 80

	model, err := tea.NewProgram(textInputModel{textInput: ti, prompt: prompt}).Run()
	if err != nil {
		return "", err
	}
	m, ok := model.(textInputModel)
	if !ok {
		return "", fmt.Errorf("unexpected model type %T", model)
	}
	if m.cancelled {
		return "", restackerrors.NewKilledError()
	}
	return strings.TrimSpace(m.textInput.Value()), nil
}

// selectModel picks one entry of a list with the arrow keys
type selectModel struct {
	prompt    string
	choices   []string
	cursor    int
	done      bool
	cancelled bool
}

func (m selectModel) Init() tea.Cmd {
	return nil
}

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.choices)-1 {
			m.cursor++
		}
	case "enter":
		m.done = true
		return m, tea.Quit
	case "ctrl+c", "esc", "q":
		m.cancelled = true
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m selectModel) View() string {
	if m.done {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.prompt)
	b.WriteString("\n")
	for i, choice := range m.choices {
		if i == m.cursor {
			b.WriteString("❯ " + ColorBranchName(choice, true))
		} else {
			b.WriteString("  " + choice)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n" + ColorDim("(↑/↓ to move, Enter to select, Ctrl+C to cancel)"))
	return promptStyle.Render(b.String())
}

// PromptSelect asks the user to pick one of choices, starting at initial
func PromptSelect(prompt string, choices []string, initial int) (string, error) {
	if len(choices) == 0 {
		return "", fmt.Errorf("nothing to choose from")
	}
	if !IsInteractive() {
		return "", ErrInteractiveDisabled
	}
	if initial < 0 || initial >= len(choices) {
		initial = 0
	}

	model, err := tea.NewProgram(selectModel{prompt: prompt, choices: choices, cursor: initial}).Run()
	if err != nil {
		return "", err
	}
	m, ok := model.(selectModel)
	if !ok {
		return "", fmt.Errorf("unexpected model type %T", model)
	}
	if m.cancelled {
		return "", restackerrors.NewKilledError()
	}
	return m.choices[m.cursor], nil
}
