// Package practice is the interactive screen for single-round practice of
// saved words.
package practice

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/wordiz/internal/distractor"
	"github.com/abhisek/wordiz/internal/logger"
	"github.com/abhisek/wordiz/internal/mastery"
	"github.com/abhisek/wordiz/internal/rotation"
	"github.com/abhisek/wordiz/internal/round"
	"github.com/abhisek/wordiz/internal/tasks"
	"github.com/abhisek/wordiz/internal/ui/components"
	"github.com/abhisek/wordiz/internal/ui/theme"
	"github.com/abhisek/wordiz/internal/vocab"
)

// ErrNothingToPractice is returned when no kind can build a round.
var ErrNothingToPractice = errors.New("nothing to practice")

// Config wires the screen to the mastery store and task builder.
type Config struct {
	Mastery round.Mastery
	Builder *tasks.Builder
	Rand    *rand.Rand
	Logger  *logger.Logger

	// Kind fixes the exercise type. Empty rotates through every
	// supported kind.
	Kind vocab.Kind

	// Rounds stops the screen after this many resolved rounds; 0 plays
	// until the learner quits.
	Rounds int

	FeedbackDelay time.Duration
}

// Model drives one round engine per kind.
type Model struct {
	ctx     context.Context
	cfg     Config
	log     *logger.Logger
	engines map[vocab.Kind]*round.Engine
	rot     *rotation.Rotation
	pick    func() vocab.Kind
	tries   int

	engine *round.Engine
	round  *round.Round
	input  components.AnswerInput

	outcome         round.Outcome
	answered        bool
	showingFeedback bool
	feedbackSeq     int

	played  int
	correct int
	err     error
}

// New builds the screen. Call Start before running it.
func New(cfg Config) *Model {
	m := &Model{
		ctx:     context.Background(),
		cfg:     cfg,
		log:     logger.OrNop(cfg.Logger),
		engines: make(map[vocab.Kind]*round.Engine),
		input:   components.NewAnswerInput("your answer", 0),
	}

	kinds := tasks.SupportedKinds()
	if cfg.Kind != "" {
		kinds = []vocab.Kind{cfg.Kind}
		m.pick = func() vocab.Kind { return cfg.Kind }
	} else {
		m.rot = rotation.New(kinds, cfg.Rand)
		m.pick = func() vocab.Kind {
			m.rot.Init()
			return m.rot.Next()
		}
	}
	m.tries = len(kinds)

	celebrations := mastery.NewCelebrations()
	for _, k := range kinds {
		m.engines[k] = round.NewEngine(k, cfg.Mastery, cfg.Builder, round.Options{
			Rand:          cfg.Rand,
			FeedbackDelay: cfg.FeedbackDelay,
			Celebrations:  celebrations,
			Logger:        m.log,
		})
	}
	return m
}

// Start builds the first round. It returns ErrNothingToPractice when no
// kind has anything to offer.
func (m *Model) Start(ctx context.Context) error {
	m.ctx = ctx
	return m.advance()
}

// Played returns how many rounds were resolved.
func (m *Model) Played() int { return m.played }

// Correct returns how many rounds ended with a correct answer.
func (m *Model) Correct() int { return m.correct }

// Err returns the error that stopped the screen, if any.
func (m *Model) Err() error { return m.err }

// advance starts a round on the next kind that can build one. Kinds with
// an empty pool or too few items for their options are skipped.
func (m *Model) advance() error {
	for range m.tries {
		e := m.engines[m.pick()]
		r, err := e.Next(m.ctx)
		switch {
		case err == nil:
			m.engine, m.round = e, r
			m.answered = false
			m.input.Reset()
			return nil
		case errors.Is(err, round.ErrEmptyPool),
			errors.Is(err, distractor.ErrNotEnoughItems),
			errors.Is(err, tasks.ErrUnsupportedType):
			m.log.Debug("kind skipped", "kind", e.Kind(), "reason", err)
		default:
			return err
		}
	}
	return ErrNothingToPractice
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
		return m.finishRound()

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

	if m.showingFeedback {
		if components.IsSubmitKey(key) || key == "space" {
			return m.finishRound()
		}
		return m, nil
	}

	if m.answered {
		// A retry starts with a fresh field.
		if components.IsSubmitKey(key) {
			return m, nil
		}
		m.answered = false
		m.input.Reset()
	}

	if components.IsSubmitKey(key) {
		return m.submit()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) submit() (tea.Model, tea.Cmd) {
	if m.round == nil {
		return m, nil
	}
	value := m.input.Value()
	if value == "" {
		return m, nil
	}
	if components.IsQuit(value) {
		return m, tea.Quit
	}

	out, err := m.engine.Submit(m.ctx, components.ParseAnswer(m.round.Task, value))
	if err != nil {
		m.err = err
		return m, tea.Quit
	}
	m.outcome = out
	m.answered = true
	m.input.Submit(out.Correct)

	if out.Retry {
		return m, nil
	}

	m.showingFeedback = true
	m.feedbackSeq++
	if !out.Correct {
		// The reveal stays up until the learner moves on.
		return m, nil
	}
	m.correct++
	seq := m.feedbackSeq
	return m, tea.Tick(out.Delay, func(time.Time) tea.Msg {
		return feedbackDoneMsg{seq: seq}
	})
}

func (m *Model) finishRound() (tea.Model, tea.Cmd) {
	m.showingFeedback = false
	m.played++
	if m.cfg.Rounds > 0 && m.played >= m.cfg.Rounds {
		return m, tea.Quit
	}
	if err := m.advance(); err != nil {
		m.err = err
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) View() tea.View {
	return tea.NewView(m.render())
}

func (m *Model) render() string {
	if m.round == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render("Practice"))
	b.WriteString("  ")
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("%s · round %d · %d correct",
		m.engine.Kind().DisplayName(), m.played+1, m.correct)))
	b.WriteString("\n\n")
	b.WriteString(components.RenderTask(m.round.Task))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	if m.answered {
		b.WriteString(components.Feedback(m.outcome.Correct, m.outcome.Retry, m.outcome.Reveal))
		b.WriteString("\n")
		if m.outcome.Mastered {
			b.WriteString(components.MasteredBanner(m.round.Item.Term))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	switch {
	case m.showingFeedback && !m.outcome.Correct:
		b.WriteString(theme.Hint.Render("enter continue · esc quit"))
	case m.showingFeedback:
		b.WriteString(theme.Hint.Render("enter skip the pause · esc quit"))
	default:
		b.WriteString(theme.Hint.Render("enter submit · esc quit"))
	}
	return b.String()
}
