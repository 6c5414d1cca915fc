// Package session runs a guided lesson step as a requeue-on-failure task
// queue.
package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/wordiz/internal/curriculum"
	"github.com/abhisek/wordiz/internal/logger"
	"github.com/abhisek/wordiz/internal/mastery"
	"github.com/abhisek/wordiz/internal/sampler"
	"github.com/abhisek/wordiz/internal/store"
	"github.com/abhisek/wordiz/internal/tasks"
	"github.com/abhisek/wordiz/internal/vocab"
)

var (
	// ErrEmptySession is returned when a step yields no tasks.
	ErrEmptySession = errors.New("step has no practicable items")

	// ErrFinished is returned when acting on a finished session.
	ErrFinished = errors.New("session finished")
)

// Content supplies paired lesson steps.
type Content interface {
	Pair(learningLang, nativeLang, stepID string) ([]curriculum.PairedItem, error)
	GetStep(lang, stepID string) (curriculum.Step, error)
	Steps(lang string) []curriculum.Step
}

// Incrementer records correct answers against stored vocabulary.
type Incrementer interface {
	Increment(ctx context.Context, term string, kind vocab.Kind) (mastery.Result, error)
}

// Config configures a Runner.
type Config struct {
	LearningLang string
	NativeLang   string
	Rand         *rand.Rand
	Settings     store.SettingsRepo // optional; progress is not recorded when nil
	Mastery      Incrementer        // optional
	Logger       *logger.Logger

	// OnFinished is called after every graded or skipped task.
	OnFinished func(task tasks.Task, correct bool)
}

// Runner presents the tasks of one lesson step until each was answered
// correctly once.
type Runner struct {
	content Content
	builder *tasks.Builder
	cfg     Config
	log     *logger.Logger

	state *SessionState
}

// NewRunner creates a runner.
func NewRunner(content Content, builder *tasks.Builder, cfg Config) *Runner {
	return &Runner{
		content: content,
		builder: builder,
		cfg:     cfg,
		log:     logger.OrNop(cfg.Logger),
	}
}

// State returns the current session state, or nil before Start.
func (r *Runner) State() *SessionState { return r.state }

// Start builds the queue for stepID and shuffles it once.
func (r *Runner) Start(ctx context.Context, stepID string) (*SessionState, error) {
	step, err := r.content.GetStep(r.cfg.LearningLang, stepID)
	if err != nil {
		return nil, err
	}
	items, err := r.content.Pair(r.cfg.LearningLang, r.cfg.NativeLang, stepID)
	if err != nil {
		return nil, err
	}

	queue := sampler.Shuffle(r.cfg.Rand, r.builder.BuildStep(ctx, items, r.globalPool(stepID)))
	if len(queue) == 0 {
		return nil, fmt.Errorf("%s/%s: %w", r.cfg.LearningLang, stepID, ErrEmptySession)
	}

	state := NewSessionState(uuid.New().String(), queue)
	state.Lang = r.cfg.LearningLang
	state.StepID = step.ID
	state.StepIndex = step.Index
	r.state = state

	r.log.Info("session started", "session", state.SessionID, "step", stepID, "tasks", len(queue))
	return state, nil
}

// globalPool pairs every other step of the learning language so option
// sets can be topped up beyond one step.
func (r *Runner) globalPool(stepID string) []curriculum.PairedItem {
	var out []curriculum.PairedItem
	for _, s := range r.content.Steps(r.cfg.LearningLang) {
		if s.ID == stepID {
			continue
		}
		items, err := r.content.Pair(r.cfg.LearningLang, r.cfg.NativeLang, s.ID)
		if err != nil {
			continue
		}
		out = append(out, items...)
	}
	return out
}

// Restart rebuilds the queue for the same step, dropping requeued copies.
func (r *Runner) Restart(ctx context.Context) (*SessionState, error) {
	if r.state == nil {
		return nil, errors.New("session not started")
	}
	return r.Start(ctx, r.state.StepID)
}

// Done reports whether the session has no tasks left.
func (r *Runner) Done() bool {
	return r.state == nil || r.state.Done()
}

// Current returns the task to present.
func (r *Runner) Current() (tasks.Task, error) {
	if r.Done() {
		return nil, ErrFinished
	}
	return r.state.Queue[r.state.Position], nil
}

// Answer grades a for the current task and advances. A wrong answer
// requeues a copy of the task at the end of the queue.
func (r *Runner) Answer(ctx context.Context, a tasks.Answer) (bool, error) {
	task, err := r.Current()
	if err != nil {
		return false, err
	}
	s := r.state

	correct := task.Grade(a)
	s.record(task.Kind(), correct)
	if correct {
		s.CorrectCount++
		r.increment(ctx, task)
	} else {
		s.WrongCount++
		s.Queue = append(s.Queue, task)
	}
	s.Position++

	r.finished(task, correct)
	r.checkCompletion(ctx)
	return correct, nil
}

// Skip requeues the current task without grading it.
func (r *Runner) Skip(ctx context.Context) error {
	task, err := r.Current()
	if err != nil {
		return err
	}
	s := r.state
	s.SkipCount++
	s.Queue = append(s.Queue, task)
	s.Position++

	r.finished(task, false)
	r.checkCompletion(ctx)
	return nil
}

func (r *Runner) increment(ctx context.Context, task tasks.Task) {
	if r.cfg.Mastery == nil {
		return
	}
	if _, err := r.cfg.Mastery.Increment(ctx, task.Term(), task.Kind()); err != nil {
		if errors.Is(err, mastery.ErrItemNotFound) {
			return
		}
		r.log.Warn("mastery update failed", "term", task.Term(), "error", err)
	}
}

func (r *Runner) finished(task tasks.Task, correct bool) {
	if r.cfg.OnFinished != nil {
		r.cfg.OnFinished(task, correct)
	}
}

func (r *Runner) checkCompletion(ctx context.Context) {
	s := r.state
	if !s.Done() || s.Phase == PhaseFinished {
		return
	}
	s.Phase = PhaseFinished
	s.EndTime = time.Now()

	if r.cfg.Settings == nil {
		return
	}
	raised, err := RecordCompletion(ctx, r.cfg.Settings, s.Lang, s.StepIndex)
	if err != nil {
		r.log.Warn("recording step progress failed", "step", s.StepID, "error", err)
		return
	}
	r.log.Info("session finished", "session", s.SessionID, "step", s.StepID, "progress_raised", raised)
}
