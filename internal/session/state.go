package session

import (
	"time"

	"github.com/abhisek/wordiz/internal/tasks"
	"github.com/abhisek/wordiz/internal/vocab"
)

// SessionPhase represents the current phase of the session.
type SessionPhase int

const (
	PhaseActive   SessionPhase = iota // Serving tasks
	PhaseFinished                     // Queue exhausted
)

// SessionState tracks the runtime state of one lesson step run.
type SessionState struct {
	// SessionID is the UUID for this session.
	SessionID string

	// Lang is the learning language code.
	Lang string

	// StepID and StepIndex identify the lesson step.
	StepID    string
	StepIndex int

	// Queue holds the tasks in presentation order. It only grows: a failed
	// or skipped task is appended again as a copy.
	Queue []tasks.Task

	// Position is the index of the current task. It only increases.
	Position int

	CorrectCount int
	WrongCount   int
	SkipCount    int

	// PerKindResults tracks per-kind stats for the summary.
	PerKindResults map[vocab.Kind]*KindResult

	Phase     SessionPhase
	StartTime time.Time
	EndTime   time.Time
}

// KindResult tracks per-kind performance within a single session.
type KindResult struct {
	Kind      vocab.Kind
	Attempted int
	Correct   int
}

// NewSessionState creates a session state over queue.
func NewSessionState(sessionID string, queue []tasks.Task) *SessionState {
	return &SessionState{
		SessionID:      sessionID,
		Queue:          queue,
		PerKindResults: make(map[vocab.Kind]*KindResult),
		Phase:          PhaseActive,
		StartTime:      time.Now(),
	}
}

// Done reports whether every queued task has been presented.
func (s *SessionState) Done() bool {
	return s.Position >= len(s.Queue)
}

// Remaining is the number of tasks left, including requeued ones.
func (s *SessionState) Remaining() int {
	return max(0, len(s.Queue)-s.Position)
}

func (s *SessionState) record(kind vocab.Kind, correct bool) {
	kr := s.PerKindResults[kind]
	if kr == nil {
		kr = &KindResult{Kind: kind}
		s.PerKindResults[kind] = kr
	}
	kr.Attempted++
	if correct {
		kr.Correct++
	}
}
