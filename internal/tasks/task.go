// Package tasks defines the gradable practice tasks and the builder that
// produces them from curriculum items or stored vocabulary.
package tasks

import (
	"strings"

	"github.com/abhisek/wordiz/internal/blanks"
	"github.com/abhisek/wordiz/internal/curriculum"
	"github.com/abhisek/wordiz/internal/textmatch"
	"github.com/abhisek/wordiz/internal/vocab"
)

// Placeholder marks a hidden unit in a rendered prompt.
const Placeholder = "_"

// Task is one immutable, gradable exercise.
type Task interface {
	Type() curriculum.PracticeType
	Kind() vocab.Kind
	// ItemID is the curriculum id, or the term for stored items.
	ItemID() string
	// Term is the key mastery counters are stored under.
	Term() string
	Prompt() string
	Solution() string
	Grade(Answer) bool
}

// Answer is what the learner submitted. Only the field the task expects
// is read. Choice counts only when Chosen is set.
type Answer struct {
	Chosen bool
	Choice int
	Text   string
	Tokens []string
}

// AnswerChoice selects an option by index.
func AnswerChoice(i int) Answer { return Answer{Chosen: true, Choice: i} }

// AnswerText submits free text.
func AnswerText(s string) Answer { return Answer{Text: s} }

// AnswerTokens submits an ordered token list.
func AnswerTokens(tokens ...string) Answer { return Answer{Tokens: tokens} }

// Direction says which side of the pair a fill task hides.
type Direction int

const (
	ToWord Direction = iota
	ToTranslation
)

// Base carries the fields every task shares.
type Base struct {
	ID          string
	Key         string
	Text        string
	Translation string
}

func (b Base) ItemID() string { return b.ID }
func (b Base) Term() string   { return b.Key }

// Option is one entry of a multiple-choice task.
type Option struct {
	Label     string
	IsCorrect bool
}

// Choice is the shared body of the choose-style tasks.
type Choice struct {
	Base
	Options []Option
}

// Correct returns the index of the correct option, or -1.
func (c Choice) Correct() int {
	for i, o := range c.Options {
		if o.IsCorrect {
			return i
		}
	}
	return -1
}

func (c Choice) Solution() string {
	if i := c.Correct(); i >= 0 {
		return c.Options[i].Label
	}
	return ""
}

// Grade accepts either the option index or the option label typed out.
func (c Choice) Grade(a Answer) bool {
	if a.Chosen {
		return a.Choice >= 0 && a.Choice < len(c.Options) && c.Options[a.Choice].IsCorrect
	}
	return a.Text != "" && textmatch.Equal(a.Text, c.Solution())
}

// Labels returns the option labels in display order.
func (c Choice) Labels() []string {
	out := make([]string, len(c.Options))
	for i, o := range c.Options {
		out[i] = o.Label
	}
	return out
}

func newOptions(labels []string, correct string) []Option {
	key := textmatch.Normalize(correct)
	opts := make([]Option, len(labels))
	for i, l := range labels {
		opts[i] = Option{Label: l, IsCorrect: textmatch.Normalize(l) == key}
	}
	return opts
}

// ChooseTranslation shows the learning text and asks for its translation.
type ChooseTranslation struct{ Choice }

func (ChooseTranslation) Type() curriculum.PracticeType { return curriculum.TypeChooseTranslation }
func (ChooseTranslation) Kind() vocab.Kind              { return vocab.KindChooseTranslation }
func (t ChooseTranslation) Prompt() string              { return t.Text }

// ChooseWord shows the translation and asks for the learning text.
type ChooseWord struct{ Choice }

func (ChooseWord) Type() curriculum.PracticeType { return curriculum.TypeChooseWord }
func (ChooseWord) Kind() vocab.Kind              { return vocab.KindChooseWord }
func (t ChooseWord) Prompt() string              { return t.Translation }

// Hearing plays Audio and asks for its translation.
type Hearing struct {
	Choice
	Audio string
}

func (Hearing) Type() curriculum.PracticeType { return curriculum.TypeHearing }
func (Hearing) Kind() vocab.Kind              { return vocab.KindHearing }
func (t Hearing) Prompt() string              { return t.Audio }

// Blanked is the shared body of the letter-fill and write tasks.
type Blanked struct {
	Base
	Direction Direction
	Units     []string
	Blanks    []int
}

func (b Blanked) target() string {
	if b.Direction == ToTranslation {
		return b.Translation
	}
	return b.Text
}

// Hint is the side of the pair shown alongside the masked text.
func (b Blanked) Hint() string {
	if b.Direction == ToTranslation {
		return b.Text
	}
	return b.Translation
}

func (b Blanked) Prompt() string   { return blanks.Mask(b.Units, b.Blanks, Placeholder, "") }
func (b Blanked) Solution() string { return b.target() }

// Missing returns the hidden units in order.
func (b Blanked) Missing() []string {
	out := make([]string, len(b.Blanks))
	for i, idx := range b.Blanks {
		out[i] = b.Units[idx]
	}
	return out
}

// LetterFill hides letters of a word and offers them back as tiles.
type LetterFill struct {
	Blanked
	Letters []string
}

func (t LetterFill) Type() curriculum.PracticeType {
	if t.Direction == ToTranslation {
		return curriculum.TypeLetterFillTranslation
	}
	return curriculum.TypeLetterFillWord
}

func (LetterFill) Kind() vocab.Kind { return vocab.KindLetterFill }

// Grade accepts one letter per blank or the whole word.
func (t LetterFill) Grade(a Answer) bool {
	if len(a.Tokens) > 0 {
		if len(a.Tokens) != len(t.Blanks) {
			return false
		}
		filled := strings.Join(blanks.Fill(t.Units, t.Blanks, a.Tokens), "")
		return textmatch.Equal(filled, t.target())
	}
	return textmatch.Equal(a.Text, t.target())
}

// WriteWord shows the same mask as LetterFill but expects the whole text
// typed in, with no tiles.
type WriteWord struct{ Blanked }

func (WriteWord) Type() curriculum.PracticeType { return curriculum.TypeWriteWord }

func (t WriteWord) Kind() vocab.Kind {
	if t.Direction == ToTranslation {
		return vocab.KindWriteTranslation
	}
	return vocab.KindWriteWord
}

func (t WriteWord) Grade(a Answer) bool { return textmatch.Equal(a.Text, t.target()) }

// MissingWords hides tokens of a sentence and offers a word bank.
type MissingWords struct {
	Base
	Tokens []string
	Blanks []int
	Bank   []string
}

func (MissingWords) Type() curriculum.PracticeType { return curriculum.TypeMissingWords }
func (MissingWords) Kind() vocab.Kind              { return vocab.KindWordFill }
func (t MissingWords) Prompt() string              { return blanks.Mask(t.Tokens, t.Blanks, "___", " ") }
func (t MissingWords) Solution() string            { return strings.Join(t.Tokens, " ") }

// Required returns the hidden tokens in order.
func (t MissingWords) Required() []string {
	out := make([]string, len(t.Blanks))
	for i, idx := range t.Blanks {
		out[i] = t.Tokens[idx]
	}
	return out
}

// Grade accepts one token per blank or the full sentence.
func (t MissingWords) Grade(a Answer) bool {
	if len(a.Tokens) > 0 {
		return textmatch.EqualTokens(a.Tokens, t.Required())
	}
	return textmatch.Equal(a.Text, t.Solution())
}

// AssembleSentence asks for the sentence tokens in their original order.
type AssembleSentence struct {
	Base
	Target []string
	Tiles  []string
}

func (AssembleSentence) Type() curriculum.PracticeType { return curriculum.TypeAssembleSentence }
func (AssembleSentence) Kind() vocab.Kind              { return vocab.KindSentenceAssembly }
func (t AssembleSentence) Prompt() string              { return t.Translation }
func (t AssembleSentence) Solution() string            { return strings.Join(t.Target, " ") }

func (t AssembleSentence) Grade(a Answer) bool {
	if len(a.Tokens) > 0 {
		return textmatch.EqualTokens(a.Tokens, t.Target)
	}
	return textmatch.Equal(a.Text, t.Solution())
}

var (
	_ Task = ChooseTranslation{}
	_ Task = ChooseWord{}
	_ Task = Hearing{}
	_ Task = LetterFill{}
	_ Task = WriteWord{}
	_ Task = MissingWords{}
	_ Task = AssembleSentence{}
)
