package practice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/wordiz/internal/mastery"
	"github.com/abhisek/wordiz/internal/rotation"
	"github.com/abhisek/wordiz/internal/sampler"
	"github.com/abhisek/wordiz/internal/store"
	"github.com/abhisek/wordiz/internal/tasks"
	"github.com/abhisek/wordiz/internal/vocab"
)

var dbCounter atomic.Int64

var animals = [][2]string{
	{"perro", "dog"}, {"gato", "cat"}, {"pájaro", "bird"}, {"pez", "fish"},
	{"caballo", "horse"}, {"vaca", "cow"}, {"cerdo", "pig"}, {"pato", "duck"},
	{"oveja", "sheep"}, {"cabra", "goat"},
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func testScreen(t *testing.T, kind vocab.Kind, rounds int, pairs ...[2]string) *Model {
	t.Helper()
	dsn := fmt.Sprintf("file:practice_%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", dbCounter.Add(1))
	s, err := store.Open(dsn)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	items := make([]vocab.Item, 0, len(pairs))
	for _, p := range pairs {
		items = append(items, vocab.Item{Term: p[0], Translation: p[1]})
	}
	if len(items) > 0 {
		if err := s.Collection().WriteCollection(context.Background(), items); err != nil {
			t.Fatalf("seed items: %v", err)
		}
	}

	ms := mastery.NewStore(s.Collection(), mastery.Options{Policy: vocab.DefaultPolicy(), Events: s.Events()})
	return New(Config{
		Mastery:       ms,
		Builder:       tasks.NewBuilder(tasks.Options{Rand: sampler.New(3), Policy: ms.Policy(), Counters: ms}),
		Rand:          sampler.New(3),
		Kind:          kind,
		Rounds:        rounds,
		FeedbackDelay: time.Millisecond,
	})
}

func startScreen(t *testing.T, m *Model) {
	t.Helper()
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
}

func typeAnswer(m *Model, s string) *Model {
	var scr tea.Model = m
	for _, r := range s {
		scr, _ = scr.Update(keyPress(r))
	}
	return scr.(*Model)
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestPractice_NothingToPractice(t *testing.T) {
	m := testScreen(t, vocab.KindWriteWord, 0)
	if err := m.Start(context.Background()); !errors.Is(err, ErrNothingToPractice) {
		t.Fatalf("Start() error = %v, want ErrNothingToPractice", err)
	}
}

func TestPractice_CorrectAnswerPausesThenAdvances(t *testing.T) {
	m := testScreen(t, vocab.KindWriteWord, 0, animals[:3]...)
	startScreen(t, m)
	first := m.round.Item.Term

	m = typeAnswer(m, m.round.Task.Solution())
	scr, cmd := m.Update(specialKey(tea.KeyEnter))
	m = scr.(*Model)

	if !m.showingFeedback || !m.outcome.Correct {
		t.Fatalf("expected correct feedback, got showing=%v outcome=%+v", m.showingFeedback, m.outcome)
	}
	if cmd == nil {
		t.Fatal("expected a feedback tick")
	}
	if !strings.Contains(m.render(), "correct") {
		t.Error("expected feedback in view")
	}

	// A stale tick from an earlier round is dropped.
	scr, _ = m.Update(feedbackDoneMsg{seq: m.feedbackSeq - 1})
	m = scr.(*Model)
	if !m.showingFeedback {
		t.Fatal("stale tick ended the feedback")
	}

	scr, _ = m.Update(cmd())
	m = scr.(*Model)
	if m.showingFeedback {
		t.Error("expected feedback to end after the tick")
	}
	if m.Played() != 1 || m.Correct() != 1 {
		t.Errorf("played=%d correct=%d, want 1/1", m.Played(), m.Correct())
	}
	if m.round.Item.Term == first {
		t.Errorf("expected a different item after %q", first)
	}
	if m.input.Value() != "" {
		t.Errorf("input = %q, want empty", m.input.Value())
	}
}

func TestPractice_WrongAnswerWaitsForEnter(t *testing.T) {
	m := testScreen(t, vocab.KindWriteWord, 0, animals[:3]...)
	startScreen(t, m)
	solution := m.round.Task.Solution()

	m = typeAnswer(m, "zzz")
	scr, cmd := m.Update(specialKey(tea.KeyEnter))
	m = scr.(*Model)

	if cmd != nil {
		t.Error("a revealed answer must not time out")
	}
	if !m.showingFeedback || m.outcome.Reveal != solution {
		t.Fatalf("expected reveal %q, got %+v", solution, m.outcome)
	}
	if !strings.Contains(m.render(), solution) {
		t.Error("expected the solution in view")
	}

	// Letters do not dismiss the reveal.
	scr, _ = m.Update(keyPress('x'))
	m = scr.(*Model)
	if !m.showingFeedback {
		t.Fatal("expected reveal to stay up")
	}

	scr, _ = m.Update(specialKey(tea.KeyEnter))
	m = scr.(*Model)
	if m.showingFeedback || m.Played() != 1 || m.Correct() != 0 {
		t.Errorf("after enter: showing=%v played=%d correct=%d", m.showingFeedback, m.Played(), m.Correct())
	}
}

func TestPractice_ChoiceAllowsOneRetry(t *testing.T) {
	m := testScreen(t, vocab.KindChooseWord, 0, animals...)
	startScreen(t, m)

	c := m.round.Task.(tasks.ChooseWord).Choice
	wrong := (c.Correct()+1)%len(c.Options) + 1

	m = typeAnswer(m, fmt.Sprint(wrong))
	scr, _ := m.Update(specialKey(tea.KeyEnter))
	m = scr.(*Model)
	if !m.outcome.Retry || m.showingFeedback {
		t.Fatalf("expected a retry, got %+v", m.outcome)
	}

	// Enter on the graded field does not resubmit.
	scr, _ = m.Update(specialKey(tea.KeyEnter))
	m = scr.(*Model)
	if !m.outcome.Retry {
		t.Fatal("expected the retry to stand")
	}

	m = typeAnswer(m, fmt.Sprint(c.Correct()+1))
	if m.input.Value() != fmt.Sprint(c.Correct()+1) {
		t.Fatalf("input = %q, want a fresh field", m.input.Value())
	}
	scr, cmd := m.Update(specialKey(tea.KeyEnter))
	m = scr.(*Model)
	if !m.outcome.Correct || cmd == nil {
		t.Errorf("expected the second try to pass, got %+v", m.outcome)
	}
}

func TestPractice_RoundsLimitQuits(t *testing.T) {
	m := testScreen(t, vocab.KindWriteWord, 1, animals[:3]...)
	startScreen(t, m)

	m = typeAnswer(m, m.round.Task.Solution())
	scr, tick := m.Update(specialKey(tea.KeyEnter))
	m = scr.(*Model)

	_, cmd := m.Update(tick())
	if !isQuit(cmd) {
		t.Error("expected quit after the last round")
	}
	if m.Played() != 1 {
		t.Errorf("played = %d, want 1", m.Played())
	}
}

func TestPractice_QuitKeys(t *testing.T) {
	m := testScreen(t, vocab.KindWriteWord, 0, animals[:3]...)
	startScreen(t, m)

	if _, cmd := m.Update(specialKey(tea.KeyEscape)); !isQuit(cmd) {
		t.Error("expected esc to quit")
	}

	m = typeAnswer(m, "q")
	if _, cmd := m.Update(specialKey(tea.KeyEnter)); !isQuit(cmd) {
		t.Error("expected q to quit")
	}
	if m.Played() != 0 {
		t.Errorf("played = %d, want 0", m.Played())
	}
}

func TestPractice_SurpriseReshufflesDuringPlay(t *testing.T) {
	m := testScreen(t, "", 0, animals...)
	if m.rot == nil {
		t.Fatal("expected a rotation in surprise mode")
	}
	for range rotation.ReshuffleAfter {
		m.pick()
	}
	if got := m.rot.Plays(); got != rotation.ReshuffleAfter {
		t.Fatalf("plays = %d, want %d", got, rotation.ReshuffleAfter)
	}

	m.pick()
	if got := m.rot.Plays(); got != 1 {
		t.Errorf("plays after reshuffle = %d, want 1", got)
	}
}

func TestPractice_SurpriseSkipsKindsWithoutRounds(t *testing.T) {
	// Three words cannot fill a four-option choice, so the choice kinds
	// are skipped and the written kinds carry the session.
	m := testScreen(t, "", 0, animals[:3]...)
	startScreen(t, m)

	for range 6 {
		switch m.engine.Kind() {
		case vocab.KindChooseTranslation, vocab.KindChooseWord, vocab.KindHearing:
			t.Fatalf("kind %s should have been skipped", m.engine.Kind())
		}
		m = typeAnswer(m, m.round.Task.Solution())
		scr, tick := m.Update(specialKey(tea.KeyEnter))
		m = scr.(*Model)
		if tick == nil {
			t.Fatalf("%s: expected %q to be accepted", m.engine.Kind(), m.round.Task.Solution())
		}
		scr, _ = m.Update(tick())
		m = scr.(*Model)
	}
	if m.Played() != 6 {
		t.Errorf("played = %d, want 6", m.Played())
	}
}
