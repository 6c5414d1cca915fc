// Package round runs single-exercise practice: pick an item, build a task,
// grade the answer, update mastery, repeat.
package round

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/abhisek/wordiz/internal/logger"
	"github.com/abhisek/wordiz/internal/mastery"
	"github.com/abhisek/wordiz/internal/sampler"
	"github.com/abhisek/wordiz/internal/tasks"
	"github.com/abhisek/wordiz/internal/vocab"
)

var (
	// ErrEmptyPool is returned when there is nothing to practice.
	ErrEmptyPool = errors.New("no items to practice")

	// ErrNotAwaiting is returned when an answer arrives outside
	// PhaseAwaiting.
	ErrNotAwaiting = errors.New("round is not awaiting an answer")
)

// DefaultFeedbackDelay is how long a correct answer stays on screen before
// the next round starts.
const DefaultFeedbackDelay = 1200 * time.Millisecond

// Phase is the state of the current round.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseAwaiting
	PhaseCorrect
	PhaseWrong
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAwaiting:
		return "awaiting"
	case PhaseCorrect:
		return "correct"
	case PhaseWrong:
		return "wrong"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Mastery is the slice of the mastery store a round needs.
type Mastery interface {
	Load(ctx context.Context) []vocab.Item
	Pool(ctx context.Context, kind vocab.Kind) []vocab.Item
	Increment(ctx context.Context, term string, kind vocab.Kind) (mastery.Result, error)
	RecordMiss(ctx context.Context, term string, kind vocab.Kind)
}

// Round is one exercise from start to resolution.
type Round struct {
	Item     vocab.Item
	Task     tasks.Task
	Phase    Phase
	Attempts int
}

// Outcome reports what an answer did.
type Outcome struct {
	Correct bool
	// Retry is set when a wrong answer may be tried once more.
	Retry bool
	// Reveal holds the solution once the round is lost.
	Reveal string
	// Mastered is set the first time an item graduates in this process.
	Mastered bool
	// Delay is how long to show feedback before calling Continue.
	Delay time.Duration
}

// Options configures an Engine.
type Options struct {
	Rand          *rand.Rand
	FeedbackDelay time.Duration
	Celebrations  *mastery.Celebrations
	Logger        *logger.Logger
}

// Engine drives rounds of one practice kind.
type Engine struct {
	kind         vocab.Kind
	mastery      Mastery
	builder      *tasks.Builder
	rng          *rand.Rand
	delay        time.Duration
	celebrations *mastery.Celebrations
	log          *logger.Logger

	current *Round
	lastKey string
}

// NewEngine creates an engine for kind.
func NewEngine(kind vocab.Kind, m Mastery, builder *tasks.Builder, opts Options) *Engine {
	delay := opts.FeedbackDelay
	if delay <= 0 {
		delay = DefaultFeedbackDelay
	}
	celebrations := opts.Celebrations
	if celebrations == nil {
		celebrations = mastery.NewCelebrations()
	}
	return &Engine{
		kind:         kind,
		mastery:      m,
		builder:      builder,
		rng:          opts.Rand,
		delay:        delay,
		celebrations: celebrations,
		log:          logger.OrNop(opts.Logger).With("kind", kind),
	}
}

// Kind returns the practice kind.
func (e *Engine) Kind() vocab.Kind { return e.kind }

// Current returns the active round, or nil before the first Next.
func (e *Engine) Current() *Round { return e.current }

// Phase returns the phase of the active round.
func (e *Engine) Phase() Phase {
	if e.current == nil {
		return PhaseIdle
	}
	return e.current.Phase
}

// Next starts a new round. The previous item is not repeated unless it is
// the only one in the pool.
func (e *Engine) Next(ctx context.Context) (*Round, error) {
	pool := e.mastery.Pool(ctx, e.kind)
	if len(pool) == 0 {
		e.current = nil
		return nil, ErrEmptyPool
	}

	exclude := -1
	for i, it := range pool {
		if it.Term == e.lastKey {
			exclude = i
			break
		}
	}
	item := pool[sampler.PickIndex(e.rng, len(pool), exclude)]

	task, err := e.builder.BuildKind(ctx, tasks.FromItem(item, e.kind), e.kind, e.distractorPool(ctx, item, pool))
	if err != nil {
		e.current = nil
		return nil, fmt.Errorf("build %s round for %q: %w", e.kind, item.Term, err)
	}

	e.lastKey = item.Term
	e.current = &Round{Item: item, Task: task, Phase: PhaseAwaiting}
	e.log.Debug("round started", "term", item.Term, "pool", len(pool))
	return e.current, nil
}

func (e *Engine) distractorPool(ctx context.Context, item vocab.Item, pool []vocab.Item) tasks.Pool {
	convert := func(items []vocab.Item) []tasks.Source {
		out := make([]tasks.Source, 0, len(items))
		for _, it := range items {
			if it.Term == item.Term || !it.Practicable(e.kind) {
				continue
			}
			out = append(out, tasks.FromItem(it, e.kind))
		}
		return out
	}
	return tasks.Pool{Siblings: convert(pool), Global: convert(e.mastery.Load(ctx))}
}

// Submit grades an answer for the active round.
func (e *Engine) Submit(ctx context.Context, a tasks.Answer) (Outcome, error) {
	r := e.current
	if r == nil || r.Phase != PhaseAwaiting {
		return Outcome{}, ErrNotAwaiting
	}
	r.Attempts++

	if r.Task.Grade(a) {
		r.Phase = PhaseCorrect
		out := Outcome{Correct: true, Delay: e.delay}
		res, err := e.mastery.Increment(ctx, r.Task.Term(), r.Task.Kind())
		if err != nil {
			e.log.Warn("mastery update failed", "term", r.Task.Term(), "error", err)
			return out, nil
		}
		if res.Removed && e.celebrations.Fire(r.Task.Term()) {
			out.Mastered = true
		}
		return out, nil
	}

	e.mastery.RecordMiss(ctx, r.Task.Term(), r.Task.Kind())
	if AllowsRetry(e.kind) && r.Attempts < 2 {
		return Outcome{Retry: true}, nil
	}
	r.Phase = PhaseWrong
	return Outcome{Reveal: r.Task.Solution()}, nil
}

// Continue waits out the feedback delay after a correct answer and
// starts the next round. After a wrong answer it starts the next round
// immediately, as the learner has acknowledged the reveal. A cancelled
// context abandons the wait.
func (e *Engine) Continue(ctx context.Context) (*Round, error) {
	if e.Phase() == PhaseCorrect {
		t := time.NewTimer(e.delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-t.C:
		}
	}
	return e.Next(ctx)
}

// AllowsRetry reports whether a kind gives one more try after a wrong
// answer before revealing the solution.
func AllowsRetry(kind vocab.Kind) bool {
	switch kind {
	case vocab.KindChooseTranslation, vocab.KindChooseWord, vocab.KindHearing:
		return true
	}
	return false
}
