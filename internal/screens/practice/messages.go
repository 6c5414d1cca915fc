package practice

// feedbackDoneMsg ends the feedback pause of round seq. Pauses the
// learner already dismissed arrive stale and are dropped.
type feedbackDoneMsg struct {
	seq int
}
