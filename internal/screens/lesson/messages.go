package lesson

// feedbackDoneMsg ends the feedback pause of answer seq.
type feedbackDoneMsg struct {
	seq int
}
