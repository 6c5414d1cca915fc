package session

import (
	"sort"
	"time"
)

// SessionSummary holds the data displayed when a session ends.
type SessionSummary struct {
	StepID       string
	Duration     time.Duration
	TotalTasks   int
	TotalCorrect int
	TotalWrong   int
	TotalSkipped int
	Accuracy     float64
	KindResults  []KindResult
}

// BuildSummary creates a SessionSummary from the current session state.
func BuildSummary(state *SessionState) *SessionSummary {
	results := make([]KindResult, 0, len(state.PerKindResults))
	for _, kr := range state.PerKindResults {
		results = append(results, *kr)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Kind < results[j].Kind })

	end := state.EndTime
	if end.IsZero() {
		end = time.Now()
	}

	var accuracy float64
	if attempts := state.CorrectCount + state.WrongCount; attempts > 0 {
		accuracy = float64(state.CorrectCount) / float64(attempts)
	}

	return &SessionSummary{
		StepID:       state.StepID,
		Duration:     end.Sub(state.StartTime),
		TotalTasks:   len(state.Queue),
		TotalCorrect: state.CorrectCount,
		TotalWrong:   state.WrongCount,
		TotalSkipped: state.SkipCount,
		Accuracy:     accuracy,
		KindResults:  results,
	}
}
