package tui

import (
	"errors"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/mattn/go-isatty"

	restackerrors "stackit.dev/restack/internal/errors"
)

// ErrInteractiveDisabled is returned when a prompt is needed but no terminal is available
var ErrInteractiveDisabled = errors.New("interactive prompts are disabled; pass --force to skip confirmation")

// Confirmer asks the user a yes/no question.
// Declining returns false with no error. Cancelling returns a KilledError.
type Confirmer interface {
	Confirm(message string) (bool, error)
}

// IsInteractive reports whether prompts can be shown
func IsInteractive() bool {
	if os.Getenv("RESTACK_NO_INTERACTIVE") != "" {
		return false
	}
	return (isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())) &&
		(isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()))
}

// SurveyConfirmer prompts on the terminal
type SurveyConfirmer struct {
	Default bool
}

// NewSurveyConfirmer creates a terminal confirmer defaulting to yes
func NewSurveyConfirmer() *SurveyConfirmer {
	return &SurveyConfirmer{Default: true}
}

// Confirm implements Confirmer
func (c *SurveyConfirmer) Confirm(message string) (bool, error) {
	if !IsInteractive() {
		return false, ErrInteractiveDisabled
	}

	answer := c.Default
	prompt := &survey.Confirm{
		Message: message,
		Default: c.Default,
	}
	if err := survey.AskOne(prompt, &answer); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return false, restackerrors.NewKilledError()
		}
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	return answer, nil
}

// ScriptedConfirmer replays canned answers in order, for tests and
// non-interactive callers. Once the answers run out it returns Fallback.
type ScriptedConfirmer struct {
	Answers  []bool
	Fallback bool
	Asked    []string
}

// Confirm implements Confirmer
func (c *ScriptedConfirmer) Confirm(message string) (bool, error) {
	c.Asked = append(c.Asked, message)
	if len(c.Answers) == 0 {
		return c.Fallback, nil
	}
	answer := c.Answers[0]
	c.Answers = c.Answers[1:]
	return answer, nil
}

// CancellingConfirmer behaves like a user pressing Ctrl-C at every prompt
type CancellingConfirmer struct{}

// Confirm implements Confirmer
func (CancellingConfirmer) Confirm(string) (bool, error) {
	return false, restackerrors.NewKilledError()
}
