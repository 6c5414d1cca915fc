package tasks

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/abhisek/wordiz/internal/blanks"
	"github.com/abhisek/wordiz/internal/curriculum"
	"github.com/abhisek/wordiz/internal/distractor"
	"github.com/abhisek/wordiz/internal/logger"
	"github.com/abhisek/wordiz/internal/sampler"
	"github.com/abhisek/wordiz/internal/vocab"
)

// ErrUnsupportedType is returned for a practice type or kind the builder
// has no task for.
var ErrUnsupportedType = errors.New("unsupported practice type")

// MinAssembleTiles is the smallest tile set offered in assemble-sentence.
const MinAssembleTiles = 6

// Source is the text pair a task is built from.
type Source struct {
	ID          string
	Key         string
	Text        string
	Translation string
	Sentence    bool
}

func (s Source) base() Base {
	key := s.Key
	if key == "" {
		key = s.Text
	}
	return Base{ID: s.ID, Key: key, Text: s.Text, Translation: s.Translation}
}

// FromPaired converts a paired curriculum item.
func FromPaired(p curriculum.PairedItem) Source {
	return Source{
		ID:          p.ID,
		Key:         p.Text,
		Text:        p.Text,
		Translation: p.Translation,
		Sentence:    p.IsSentence(),
	}
}

// FromItem converts a stored item. Sentence kinds practice the example
// sentence, with the term pair as the hint.
func FromItem(it vocab.Item, kind vocab.Kind) Source {
	id := it.CurriculumItemID
	if id == "" {
		id = it.Term
	}
	if kind.IsSentence() {
		return Source{
			ID:          id,
			Key:         it.Term,
			Text:        it.ExampleSentence,
			Translation: it.Term + " = " + it.Translation,
			Sentence:    true,
		}
	}
	return Source{ID: id, Key: it.Term, Text: it.Term, Translation: it.Translation}
}

// Pool holds the distractor material around a source. Siblings come
// from the same lesson step or practice pool; Global is the wider set
// used to top up option sets.
type Pool struct {
	Siblings []Source
	Global   []Source
}

// CounterSource looks up mastery counters by term.
type CounterSource interface {
	Counters(ctx context.Context, term string) vocab.Counters
}

// Options configures a Builder.
type Options struct {
	Rand     *rand.Rand
	Policy   vocab.Policy
	Counters CounterSource // optional; zero counters when nil
	Logger   *logger.Logger
}

type buildFunc func(b *Builder, src Source, pool Pool, counters vocab.Counters) (Task, error)

var typeBuilders = map[curriculum.PracticeType]buildFunc{
	curriculum.TypeChooseTranslation:     buildChooseTranslation,
	curriculum.TypeChooseWord:            buildChooseWord,
	curriculum.TypeHearing:               buildHearing,
	curriculum.TypeLetterFillWord:        letterFill(ToWord),
	curriculum.TypeLetterFillTranslation: letterFill(ToTranslation),
	curriculum.TypeWriteWord:             writeWord(ToWord),
	curriculum.TypeMissingWords:          buildMissingWords,
	curriculum.TypeAssembleSentence:      buildAssembleSentence,
}

var kindBuilders = map[vocab.Kind]buildFunc{
	vocab.KindChooseTranslation: buildChooseTranslation,
	vocab.KindChooseWord:        buildChooseWord,
	vocab.KindHearing:           buildHearing,
	vocab.KindLetterFill:        letterFill(ToWord),
	vocab.KindWriteWord:         writeWord(ToWord),
	vocab.KindWriteTranslation:  writeWord(ToTranslation),
	vocab.KindWordFill:          buildMissingWords,
	vocab.KindSentenceAssembly:  buildAssembleSentence,
}

// SupportedKinds lists the practice kinds BuildKind can serve.
func SupportedKinds() []vocab.Kind {
	var out []vocab.Kind
	for _, k := range vocab.AllKinds() {
		if _, ok := kindBuilders[k]; ok {
			out = append(out, k)
		}
	}
	return out
}

// Builder turns sources into tasks.
type Builder struct {
	rng      *rand.Rand
	policy   vocab.Policy
	counters CounterSource
	log      *logger.Logger
}

// NewBuilder creates a builder.
func NewBuilder(opts Options) *Builder {
	return &Builder{
		rng:      opts.Rand,
		policy:   opts.Policy.Clamped(),
		counters: opts.Counters,
		log:      logger.OrNop(opts.Logger),
	}
}

func (b *Builder) countersFor(ctx context.Context, key string) vocab.Counters {
	if b.counters == nil {
		return vocab.Counters{}
	}
	c := b.counters.Counters(ctx, key)
	if c == nil {
		return vocab.Counters{}
	}
	return c
}

// Build constructs the task of type t for src.
func (b *Builder) Build(ctx context.Context, src Source, t curriculum.PracticeType, pool Pool) (Task, error) {
	fn, ok := typeBuilders[t]
	if !ok {
		return nil, fmt.Errorf("%q: %w", t, ErrUnsupportedType)
	}
	return fn(b, src, pool, b.countersFor(ctx, src.base().Key))
}

// BuildKind constructs a task practicing kind for src.
func (b *Builder) BuildKind(ctx context.Context, src Source, kind vocab.Kind, pool Pool) (Task, error) {
	fn, ok := kindBuilders[kind]
	if !ok {
		return nil, fmt.Errorf("%q: %w", kind, ErrUnsupportedType)
	}
	return fn(b, src, pool, b.countersFor(ctx, src.base().Key))
}

// BuildItem constructs one task per declared practice type of item.
// Types whose pools are too small are skipped. When the item declares no
// usable type, sentences fall back to assemble-sentence and words to
// choose-translation; if even that cannot be built, words get a
// letter-fill task so no item is left without practice.
func (b *Builder) BuildItem(ctx context.Context, item curriculum.PairedItem, siblings, global []curriculum.PairedItem) []Task {
	src := FromPaired(item)
	pool := Pool{Siblings: sources(siblings, item.ID), Global: sources(global, item.ID)}

	var out []Task
	for _, t := range item.PracticeTypes {
		task, err := b.Build(ctx, src, t, pool)
		if err != nil {
			b.log.Warn("skipping task", "item", item.ID, "type", t, "error", err)
			continue
		}
		out = append(out, task)
	}
	if len(out) > 0 {
		return out
	}

	fallbacks := []curriculum.PracticeType{curriculum.TypeChooseTranslation, curriculum.TypeLetterFillWord}
	if src.Sentence {
		fallbacks = []curriculum.PracticeType{curriculum.TypeAssembleSentence, curriculum.TypeMissingWords}
	}
	for _, t := range fallbacks {
		task, err := b.Build(ctx, src, t, pool)
		if err == nil {
			return []Task{task}
		}
		b.log.Debug("fallback task failed", "item", item.ID, "type", t, "error", err)
	}
	b.log.Warn("no task could be built", "item", item.ID)
	return nil
}

// BuildStep builds tasks for every item of a paired step. global widens
// the distractor pool beyond the step.
func (b *Builder) BuildStep(ctx context.Context, items, global []curriculum.PairedItem) []Task {
	var out []Task
	for _, it := range items {
		out = append(out, b.BuildItem(ctx, it, items, global)...)
	}
	return out
}

func sources(items []curriculum.PairedItem, excludeID string) []Source {
	out := make([]Source, 0, len(items))
	for _, it := range items {
		if it.ID == excludeID {
			continue
		}
		out = append(out, FromPaired(it))
	}
	return out
}

func words(list []Source) []Source {
	var out []Source
	for _, s := range list {
		if !s.Sentence {
			out = append(out, s)
		}
	}
	return out
}

func translations(list []Source) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		out = append(out, s.Translation)
	}
	return out
}

func texts(list []Source) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		out = append(out, s.Text)
	}
	return out
}

func contextTokens(pool Pool) []string {
	var out []string
	for _, s := range pool.Siblings {
		out = append(out, blanks.Tokens(s.Text)...)
	}
	for _, s := range pool.Global {
		out = append(out, blanks.Tokens(s.Text)...)
	}
	return out
}

func (b *Builder) choice(src Source, correct string, siblings, global []string, size int) (Choice, error) {
	labels, err := distractor.BuildOptionSet(b.rng, correct, siblings, global, size)
	if err != nil {
		return Choice{}, err
	}
	return Choice{Base: src.base(), Options: newOptions(labels, correct)}, nil
}

func buildChooseTranslation(b *Builder, src Source, pool Pool, _ vocab.Counters) (Task, error) {
	c, err := b.choice(src, src.Translation,
		translations(words(pool.Siblings)), translations(words(pool.Global)), distractor.ChooseOptionCount)
	if err != nil {
		return nil, err
	}
	return ChooseTranslation{c}, nil
}

func buildChooseWord(b *Builder, src Source, pool Pool, _ vocab.Counters) (Task, error) {
	c, err := b.choice(src, src.Text,
		texts(words(pool.Siblings)), texts(words(pool.Global)), distractor.ChooseOptionCount)
	if err != nil {
		return nil, err
	}
	return ChooseWord{c}, nil
}

func buildHearing(b *Builder, src Source, pool Pool, counters vocab.Counters) (Task, error) {
	size := distractor.HearingOptionCount(counters[vocab.KindHearing])
	c, err := b.choice(src, src.Translation,
		translations(words(pool.Siblings)), translations(words(pool.Global)), size)
	if err != nil {
		return nil, err
	}
	return Hearing{Choice: c, Audio: src.Text}, nil
}

func (b *Builder) blanked(src Source, dir Direction, desired int) (Blanked, error) {
	bl := Blanked{Base: src.base(), Direction: dir}
	bl.Units = blanks.Chars(bl.target())
	bl.Blanks = blanks.PickIndices(b.rng, bl.Units, desired)
	if len(bl.Blanks) == 0 {
		return Blanked{}, fmt.Errorf("%q has no letters to hide: %w", bl.target(), distractor.ErrNotEnoughItems)
	}
	return bl, nil
}

func letterFill(dir Direction) buildFunc {
	return func(b *Builder, src Source, _ Pool, counters vocab.Counters) (Task, error) {
		bl, err := b.blanked(src, dir, blanks.LetterCount(b.policy, counters[vocab.KindLetterFill]))
		if err != nil {
			return nil, err
		}
		return LetterFill{Blanked: bl, Letters: sampler.Shuffle(b.rng, bl.Missing())}, nil
	}
}

func writeWord(dir Direction) buildFunc {
	return func(b *Builder, src Source, _ Pool, counters vocab.Counters) (Task, error) {
		kind := vocab.KindWriteWord
		if dir == ToTranslation {
			kind = vocab.KindWriteTranslation
		}
		bl, err := b.blanked(src, dir, blanks.LetterCount(b.policy, counters[kind]))
		if err != nil {
			return nil, err
		}
		return WriteWord{bl}, nil
	}
}

func buildMissingWords(b *Builder, src Source, pool Pool, counters vocab.Counters) (Task, error) {
	t := MissingWords{Base: src.base(), Tokens: blanks.Tokens(src.Text)}
	t.Blanks = blanks.PickIndices(b.rng, t.Tokens, blanks.TokenCount(counters[vocab.KindWordFill]))
	if len(t.Blanks) == 0 {
		return nil, fmt.Errorf("%q has no words to hide: %w", src.Text, distractor.ErrNotEnoughItems)
	}
	required := t.Required()
	t.Bank = distractor.BuildWordBank(b.rng, required, contextTokens(pool), distractor.WordBankSize(len(required)))
	return t, nil
}

func buildAssembleSentence(b *Builder, src Source, pool Pool, _ vocab.Counters) (Task, error) {
	target := blanks.Tokens(src.Text)
	if len(target) == 0 {
		return nil, fmt.Errorf("empty sentence: %w", distractor.ErrNotEnoughItems)
	}
	tiles := distractor.BuildWordBank(b.rng, target, contextTokens(pool), max(MinAssembleTiles, len(target)))
	if len(tiles) < MinAssembleTiles {
		return nil, fmt.Errorf("%d tiles for %q, need %d: %w", len(tiles), src.Text, MinAssembleTiles, distractor.ErrNotEnoughItems)
	}
	return AssembleSentence{Base: src.base(), Target: target, Tiles: tiles}, nil
}
