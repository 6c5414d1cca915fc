package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/wordiz/internal/ui/theme"
)

// AnswerInput wraps bubbles/textinput with a graded mark after submit.
type AnswerInput struct {
	Model     textinput.Model
	submitted bool
	correct   bool
}

// NewAnswerInput creates a focused answer field.
func NewAnswerInput(placeholder string, charLimit int) AnswerInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "> "
	ti.Focus()

	if charLimit > 0 {
		ti.CharLimit = charLimit
	}

	return AnswerInput{Model: ti}
}

// Init returns the initial command.
func (a AnswerInput) Init() tea.Cmd {
	return a.Model.Focus()
}

// Update forwards messages to the text field until the answer is graded.
func (a AnswerInput) Update(msg tea.Msg) (AnswerInput, tea.Cmd) {
	if a.submitted {
		return a, nil
	}
	var cmd tea.Cmd
	a.Model, cmd = a.Model.Update(msg)
	return a, cmd
}

// View renders the field and, once graded, a ✓ or ✗.
func (a AnswerInput) View() string {
	view := a.Model.View()
	if a.submitted {
		if a.correct {
			view += " " + theme.Correct.Render("✓")
		} else {
			view += " " + theme.Incorrect.Render("✗")
		}
	}
	return view
}

// Value returns the trimmed input.
func (a AnswerInput) Value() string {
	return strings.TrimSpace(a.Model.Value())
}

// Submit freezes the field with a grading result.
func (a *AnswerInput) Submit(correct bool) {
	a.submitted = true
	a.correct = correct
}

// Reset clears the field for the next answer.
func (a *AnswerInput) Reset() {
	a.Model.Reset()
	a.submitted = false
	a.correct = false
}

// IsQuit reports whether an answer line asks to stop.
func IsQuit(line string) bool {
	switch strings.TrimSpace(line) {
	case "q", ":q", "quit":
		return true
	}
	return false
}

// IsSubmitKey reports whether key submits a line. Piped input sends a
// bare line feed, which decodes as ctrl+j.
func IsSubmitKey(key string) bool {
	return key == "enter" || key == "ctrl+j"
}
