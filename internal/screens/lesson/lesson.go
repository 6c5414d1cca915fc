// Package lesson is the interactive screen for one guided lesson step.
package lesson

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/wordiz/internal/round"
	"github.com/abhisek/wordiz/internal/session"
	"github.com/abhisek/wordiz/internal/tasks"
	"github.com/abhisek/wordiz/internal/ui/components"
	"github.com/abhisek/wordiz/internal/ui/theme"
)

// Model presents a started session.Runner task by task and offers a
// restart once the step is complete.
type Model struct {
	ctx    context.Context
	runner *session.Runner
	delay  time.Duration
	total  int
	input  components.AnswerInput

	last            tasks.Task
	lastCorrect     bool
	skipped         bool
	showingFeedback bool
	feedbackSeq     int

	summary *session.SessionSummary
	runs    int
	err     error
}

// New wraps a runner whose Start already succeeded. A zero delay uses
// round.DefaultFeedbackDelay.
func New(ctx context.Context, runner *session.Runner, delay time.Duration) *Model {
	if delay <= 0 {
		delay = round.DefaultFeedbackDelay
	}
	m := &Model{
		ctx:    ctx,
		runner: runner,
		delay:  delay,
		input:  components.NewAnswerInput("your answer", 0),
		runs:   1,
	}
	m.reset()
	return m
}

// Summary returns the step summary once the queue is exhausted.
func (m *Model) Summary() *session.SessionSummary { return m.summary }

// Runs counts how many times the step was started, restarts included.
func (m *Model) Runs() int { return m.runs }

// Err returns the error that stopped the screen, if any.
func (m *Model) Err() error { return m.err }

func (m *Model) reset() {
	m.total = len(m.runner.State().Queue)
	m.summary = nil
	m.last = nil
	m.skipped = false
	m.showingFeedback = false
	m.input.Reset()
	m.checkDone()
}

func (m *Model) checkDone() {
	if m.runner.Done() {
		m.summary = session.BuildSummary(m.runner.State())
	}
}

func (m *Model) Init() tea.Cmd {
	return m.input.Init()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case feedbackDoneMsg:
		if !m.showingFeedback || msg.seq != m.feedbackSeq {
			return m, nil
		}
		m.next()
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "ctrl+c", "esc":
		return m, tea.Quit
	}

	if m.summary != nil {
		switch key {
		case "r", "R":
			return m.restart()
		case "q", "Q":
			return m, tea.Quit
		}
		return m, nil
	}

	if m.showingFeedback {
		if components.IsSubmitKey(key) || key == "space" {
			m.next()
		}
		return m, nil
	}

	switch {
	case key == "tab":
		if err := m.runner.Skip(m.ctx); err != nil {
			m.err = err
			return m, tea.Quit
		}
		m.skipped = true
		m.input.Reset()
		m.checkDone()
		return m, nil
	case components.IsSubmitKey(key):
		return m.answer()
	}

	m.skipped = false
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) answer() (tea.Model, tea.Cmd) {
	value := m.input.Value()
	if value == "" {
		return m, nil
	}
	if components.IsQuit(value) {
		return m, tea.Quit
	}

	task, err := m.runner.Current()
	if err != nil {
		m.err = err
		return m, tea.Quit
	}
	correct, err := m.runner.Answer(m.ctx, components.ParseAnswer(task, value))
	if err != nil {
		m.err = err
		return m, tea.Quit
	}

	m.last = task
	m.lastCorrect = correct
	m.input.Submit(correct)
	m.showingFeedback = true
	m.feedbackSeq++
	if !correct {
		return m, nil
	}
	seq := m.feedbackSeq
	return m, tea.Tick(m.delay, func(time.Time) tea.Msg {
		return feedbackDoneMsg{seq: seq}
	})
}

func (m *Model) next() {
	m.showingFeedback = false
	m.last = nil
	m.input.Reset()
	m.checkDone()
}

func (m *Model) restart() (tea.Model, tea.Cmd) {
	if _, err := m.runner.Restart(m.ctx); err != nil {
		m.err = err
		return m, tea.Quit
	}
	m.runs++
	m.reset()
	return m, nil
}

func (m *Model) View() tea.View {
	return tea.NewView(m.render())
}

func (m *Model) render() string {
	state := m.runner.State()
	if state == nil {
		return ""
	}
	if m.summary != nil {
		return RenderSummary(m.summary, m.runs) + "\n" + theme.Hint.Render("r restart · q quit")
	}

	var b strings.Builder
	bar := components.ProgressBar{Label: state.StepID, Done: state.CorrectCount, Total: m.total, Width: 24}
	b.WriteString(bar.View())
	b.WriteString("\n\n")

	task := m.last
	if task == nil {
		current, err := m.runner.Current()
		if err != nil {
			return b.String()
		}
		task = current
	}
	b.WriteString(components.RenderTask(task))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	switch {
	case m.showingFeedback && m.lastCorrect:
		b.WriteString(components.Feedback(true, false, ""))
	case m.showingFeedback:
		b.WriteString(components.Feedback(false, false, m.last.Solution()))
	case m.skipped:
		b.WriteString(theme.Hint.Render("skipped, it will come back later"))
	}
	b.WriteString("\n\n")

	if m.showingFeedback {
		b.WriteString(theme.Hint.Render("enter continue · esc quit"))
	} else {
		b.WriteString(theme.Hint.Render("enter submit · tab skip · esc quit"))
	}
	return b.String()
}

// RenderSummary renders the end-of-step report. runs above one notes the
// restarts.
func RenderSummary(s *session.SessionSummary, runs int) string {
	title := "Step " + s.StepID + " complete"
	if runs > 1 {
		title += fmt.Sprintf(" (run %d)", runs)
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render(title))
	b.WriteString("\n")
	fmt.Fprintf(&b, "accuracy %s  correct %d  wrong %d  skipped %d  time %s\n",
		components.Percentage(s.Accuracy), s.TotalCorrect, s.TotalWrong, s.TotalSkipped,
		s.Duration.Round(time.Second))
	for _, kr := range s.KindResults {
		fmt.Fprintf(&b, "  %s %d/%d\n", components.KindLabel(kr.Kind), kr.Correct, kr.Attempted)
	}
	return b.String()
}
