// Package components renders practice tasks, feedback and the answer
// field used by the terminal screens.
package components

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/abhisek/wordiz/internal/tasks"
	"github.com/abhisek/wordiz/internal/ui/theme"
	"github.com/abhisek/wordiz/internal/vocab"
)

// RenderTask returns the prompt block for t, including options, tiles or
// hints and a one-line instruction.
func RenderTask(t tasks.Task) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render(t.Kind().DisplayName()))
	b.WriteString("\n")

	switch task := t.(type) {
	case tasks.ChooseTranslation:
		renderChoice(&b, task.Prompt(), task.Choice)
	case tasks.ChooseWord:
		renderChoice(&b, task.Prompt(), task.Choice)
	case tasks.Hearing:
		renderChoice(&b, "🔊 "+task.Prompt(), task.Choice)
	case tasks.LetterFill:
		line(&b, theme.Prompt.Render(spaced(task.Prompt())))
		line(&b, theme.Hint.Render(task.Hint()))
		line(&b, "letters: "+strings.Join(task.Letters, " "))
		line(&b, theme.Hint.Render("type the missing letters separated by spaces, or the whole word"))
	case tasks.WriteWord:
		line(&b, theme.Prompt.Render(spaced(task.Prompt())))
		line(&b, theme.Hint.Render(task.Hint()))
		line(&b, theme.Hint.Render("type the whole word"))
	case tasks.MissingWords:
		line(&b, theme.Prompt.Render(task.Prompt()))
		line(&b, theme.Hint.Render(task.Translation))
		line(&b, "words: "+strings.Join(task.Bank, " · "))
		line(&b, theme.Hint.Render("type the missing words in order"))
	case tasks.AssembleSentence:
		line(&b, theme.Prompt.Render(task.Prompt()))
		line(&b, "tiles: "+strings.Join(task.Tiles, " · "))
		line(&b, theme.Hint.Render("type the sentence"))
	default:
		line(&b, theme.Prompt.Render(t.Prompt()))
	}
	return b.String()
}

func renderChoice(b *strings.Builder, prompt string, c tasks.Choice) {
	line(b, theme.Prompt.Render(prompt))
	for i, label := range c.Labels() {
		line(b, theme.Option.Render(fmt.Sprintf("  %d) %s", i+1, label)))
	}
	line(b, theme.Hint.Render("type a number or the answer"))
}

func line(b *strings.Builder, s string) {
	b.WriteString(s)
	b.WriteString("\n")
}

// spaced separates masked letters so blanks are countable.
func spaced(s string) string {
	parts := make([]string, 0, utf8.RuneCountInString(s))
	for _, r := range s {
		parts = append(parts, string(r))
	}
	return strings.Join(parts, " ")
}

// ParseAnswer turns a typed line into an answer for t.
func ParseAnswer(t tasks.Task, input string) tasks.Answer {
	input = strings.TrimSpace(input)
	fields := strings.Fields(input)

	switch task := t.(type) {
	case tasks.ChooseTranslation:
		return choiceAnswer(input, len(task.Options))
	case tasks.ChooseWord:
		return choiceAnswer(input, len(task.Options))
	case tasks.Hearing:
		return choiceAnswer(input, len(task.Options))
	case tasks.LetterFill:
		if len(fields) == len(task.Blanks) && allSingleRunes(fields) {
			return tasks.AnswerTokens(fields...)
		}
	case tasks.MissingWords:
		if len(fields) == len(task.Blanks) {
			return tasks.AnswerTokens(fields...)
		}
	case tasks.AssembleSentence:
		if len(fields) > 0 {
			return tasks.AnswerTokens(fields...)
		}
	}
	return tasks.AnswerText(input)
}

func choiceAnswer(input string, n int) tasks.Answer {
	if i, err := strconv.Atoi(input); err == nil && i >= 1 && i <= n {
		return tasks.AnswerChoice(i - 1)
	}
	return tasks.AnswerText(input)
}

func allSingleRunes(fields []string) bool {
	for _, f := range fields {
		if utf8.RuneCountInString(f) != 1 {
			return false
		}
	}
	return true
}

// Feedback renders the result of one answer.
func Feedback(correct, retry bool, reveal string) string {
	switch {
	case correct:
		return theme.Correct.Render("✓ correct")
	case retry:
		return theme.Incorrect.Render("✗ not quite, try once more")
	case reveal != "":
		return theme.Incorrect.Render("✗ the answer was: ") + theme.Prompt.Render(reveal)
	}
	return theme.Incorrect.Render("✗ wrong")
}

// MasteredBanner announces a graduated word.
func MasteredBanner(term string) string {
	return theme.Mastered.Render(fmt.Sprintf("★ %q mastered!", term))
}

// KindLabel renders a practice kind for tables.
func KindLabel(k vocab.Kind) string {
	return fmt.Sprintf("%-22s", k.DisplayName())
}
