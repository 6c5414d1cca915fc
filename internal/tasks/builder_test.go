package tasks

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/wordiz/internal/blanks"
	"github.com/abhisek/wordiz/internal/curriculum"
	"github.com/abhisek/wordiz/internal/distractor"
	"github.com/abhisek/wordiz/internal/sampler"
	"github.com/abhisek/wordiz/internal/vocab"
)

type fixedCounters map[string]vocab.Counters

func (f fixedCounters) Counters(_ context.Context, term string) vocab.Counters {
	return f[term]
}

var animals = [][2]string{
	{"perro", "dog"}, {"gato", "cat"}, {"pájaro", "bird"}, {"pez", "fish"},
	{"caballo", "horse"}, {"vaca", "cow"}, {"cerdo", "pig"}, {"pato", "duck"},
	{"oveja", "sheep"}, {"cabra", "goat"},
}

func wordItems(types string) []curriculum.PairedItem {
	out := make([]curriculum.PairedItem, 0, len(animals))
	for _, a := range animals {
		out = append(out, curriculum.PairedItem{
			Item: curriculum.Item{
				ID:            a[1],
				Text:          a[0],
				Kind:          curriculum.KindWord,
				PracticeTypes: curriculum.ParseTypeSet(types),
			},
			Translation: a[1],
		})
	}
	return out
}

func sentenceItem(text, translation, types string) curriculum.PairedItem {
	return curriculum.PairedItem{
		Item: curriculum.Item{
			ID:            "s-" + text,
			Text:          text,
			Kind:          curriculum.KindSentence,
			PracticeTypes: curriculum.ParseTypeSet(types),
		},
		Translation: translation,
	}
}

func newTestBuilder(seed uint64, counters CounterSource) *Builder {
	return NewBuilder(Options{Rand: sampler.New(seed), Policy: vocab.DefaultPolicy(), Counters: counters})
}

func assertOneCorrect(t *testing.T, c Choice, size int) {
	t.Helper()
	require.Len(t, c.Options, size)
	correct := 0
	for _, o := range c.Options {
		if o.IsCorrect {
			correct++
		}
	}
	assert.Equal(t, 1, correct)
	assert.True(t, c.Grade(AnswerChoice(c.Correct())))
	assert.False(t, c.Grade(AnswerChoice((c.Correct()+1)%size)))
}

func TestBuildItem_ChooseStyleOptionIntegrity(t *testing.T) {
	items := wordItems("choose-translation, choose-word, hearing")
	for seed := uint64(1); seed <= 10; seed++ {
		b := newTestBuilder(seed, nil)
		got := b.BuildItem(context.Background(), items[0], items, nil)
		require.Len(t, got, 3)

		ct, ok := got[0].(ChooseTranslation)
		require.True(t, ok)
		assert.Equal(t, "perro", ct.Prompt())
		assert.Equal(t, "dog", ct.Solution())
		assertOneCorrect(t, ct.Choice, distractor.ChooseOptionCount)

		cw, ok := got[1].(ChooseWord)
		require.True(t, ok)
		assert.Equal(t, "dog", cw.Prompt())
		assert.Equal(t, "perro", cw.Solution())
		assertOneCorrect(t, cw.Choice, distractor.ChooseOptionCount)

		h, ok := got[2].(Hearing)
		require.True(t, ok)
		assert.Equal(t, "perro", h.Prompt())
		assertOneCorrect(t, h.Choice, distractor.HearingOptionCount(0))
	}
}

func TestBuild_HearingGrowsWithCounter(t *testing.T) {
	items := wordItems("")
	counters := fixedCounters{"perro": {vocab.KindHearing: 2}}
	b := newTestBuilder(4, counters)

	task, err := b.Build(context.Background(), FromPaired(items[0]), curriculum.TypeHearing,
		Pool{Siblings: sources(items, items[0].ID)})
	require.NoError(t, err)
	assert.Len(t, task.(Hearing).Options, 8)

	counters["perro"] = vocab.Counters{vocab.KindHearing: 4}
	_, err = b.Build(context.Background(), FromPaired(items[0]), curriculum.TypeHearing,
		Pool{Siblings: sources(items, items[0].ID)})
	assert.True(t, errors.Is(err, distractor.ErrNotEnoughItems), "12 options from 10 items")
}

func TestBuild_ChooseNotEnoughItems(t *testing.T) {
	items := wordItems("")[:5]
	b := newTestBuilder(1, nil)
	_, err := b.Build(context.Background(), FromPaired(items[0]), curriculum.TypeChooseTranslation,
		Pool{Siblings: sources(items, items[0].ID)})
	assert.ErrorIs(t, err, distractor.ErrNotEnoughItems)
}

func TestBuild_ChooseTopsUpFromGlobal(t *testing.T) {
	all := wordItems("")
	step := all[:3]
	b := newTestBuilder(2, nil)
	task, err := b.Build(context.Background(), FromPaired(step[0]), curriculum.TypeChooseWord,
		Pool{Siblings: sources(step, step[0].ID), Global: sources(all, step[0].ID)})
	require.NoError(t, err)
	labels := task.(ChooseWord).Labels()
	assert.Contains(t, labels, "gato")
	assert.Contains(t, labels, "pájaro")
}

func TestBuild_LetterFill(t *testing.T) {
	items := wordItems("")
	ctx := context.Background()
	tests := []struct {
		name    string
		typ     curriculum.PracticeType
		counter int
		target  string
		blanks  int
	}{
		{"word first time", curriculum.TypeLetterFillWord, 0, "perro", 1},
		{"word after two", curriculum.TypeLetterFillWord, 2, "perro", 3},
		{"capped by letters", curriculum.TypeLetterFillWord, 20, "perro", 5},
		{"translation", curriculum.TypeLetterFillTranslation, 0, "dog", 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := newTestBuilder(7, fixedCounters{"perro": {vocab.KindLetterFill: tc.counter}})
			task, err := b.Build(ctx, FromPaired(items[0]), tc.typ, Pool{})
			require.NoError(t, err)
			lf := task.(LetterFill)
			assert.Equal(t, tc.typ, lf.Type())
			assert.Equal(t, vocab.KindLetterFill, lf.Kind())
			assert.Len(t, lf.Blanks, tc.blanks)
			assert.ElementsMatch(t, lf.Missing(), lf.Letters)
			assert.Equal(t, tc.blanks, strings.Count(lf.Prompt(), Placeholder))
			assert.True(t, lf.Grade(AnswerTokens(lf.Missing()...)))
			assert.True(t, lf.Grade(AnswerText(strings.ToUpper(tc.target))))
			assert.False(t, lf.Grade(AnswerText(tc.target+"x")))
		})
	}
}

func TestBuild_WriteWord(t *testing.T) {
	items := wordItems("")
	b := newTestBuilder(3, nil)
	task, err := b.Build(context.Background(), FromPaired(items[2]), curriculum.TypeWriteWord, Pool{})
	require.NoError(t, err)
	ww := task.(WriteWord)
	assert.Equal(t, vocab.KindWriteWord, ww.Kind())
	assert.Equal(t, "bird", ww.Hint())
	assert.True(t, ww.Grade(AnswerText("pajaro")), "accents are ignored")
	assert.False(t, ww.Grade(AnswerTokens("p")))
}

func TestBuildKind_WriteTranslation(t *testing.T) {
	b := newTestBuilder(3, nil)
	it := vocab.Item{Term: "perro", Translation: "dog"}
	task, err := b.BuildKind(context.Background(), FromItem(it, vocab.KindWriteTranslation), vocab.KindWriteTranslation, Pool{})
	require.NoError(t, err)
	assert.Equal(t, vocab.KindWriteTranslation, task.Kind())
	assert.Equal(t, "perro", task.Term())
	assert.True(t, task.Grade(AnswerText("Dog")))
}

func TestBuildKind_Unsupported(t *testing.T) {
	b := newTestBuilder(1, nil)
	for _, k := range []vocab.Kind{vocab.KindMemoryMatch, vocab.KindFlipCard} {
		_, err := b.BuildKind(context.Background(), Source{Text: "a", Translation: "b"}, k, Pool{})
		assert.ErrorIs(t, err, ErrUnsupportedType)
		assert.NotContains(t, SupportedKinds(), k)
	}
	_, err := b.Build(context.Background(), Source{}, curriculum.PracticeType("flip-card"), Pool{})
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestBuild_MissingWords(t *testing.T) {
	item := sentenceItem("The cat is blue", "El gato es azul", "missing-words")
	others := []curriculum.PairedItem{
		sentenceItem("A dog runs fast", "Un perro corre rápido", ""),
		sentenceItem("My house is big", "Mi casa es grande", ""),
		sentenceItem("We sing songs every night together", "Cantamos canciones juntos cada noche", ""),
	}
	for seed := uint64(1); seed <= 10; seed++ {
		b := newTestBuilder(seed, fixedCounters{"The cat is blue": {vocab.KindWordFill: 1}})
		got := b.BuildItem(context.Background(), item, append(others, item), nil)
		require.Len(t, got, 1)
		mw := got[0].(MissingWords)

		require.Len(t, mw.Blanks, 1)
		assert.True(t, mw.Blanks[0] >= 0 && mw.Blanks[0] <= 3)
		assert.Len(t, mw.Bank, distractor.WordBankSize(1))
		assert.Contains(t, mw.Bank, mw.Required()[0])
		assert.True(t, mw.Grade(AnswerTokens(mw.Required()...)))
		assert.True(t, mw.Grade(AnswerText("the cat is blue")))
		assert.False(t, mw.Grade(AnswerTokens("xyz")))
		assert.Equal(t, 1, strings.Count(mw.Prompt(), "___"))
	}
}

func TestBuild_MissingWordsSkipsPunctuation(t *testing.T) {
	src := Source{Text: "Hola , ¿ qué tal ?", Sentence: true}
	b := NewBuilder(Options{Rand: sampler.New(5), Counters: fixedCounters{"Hola , ¿ qué tal ?": {vocab.KindWordFill: 10}}})
	task, err := b.Build(context.Background(), src, curriculum.TypeMissingWords, Pool{})
	require.NoError(t, err)
	mw := task.(MissingWords)
	assert.Equal(t, []int{0, 3, 4}, mw.Blanks)
	for _, i := range mw.Blanks {
		assert.True(t, blanks.Blankable(mw.Tokens[i]))
	}
}

func TestBuild_AssembleSentencePadsTiles(t *testing.T) {
	item := sentenceItem("Yo como pan", "I eat bread", "assemble-sentence")
	others := []curriculum.PairedItem{sentenceItem("Ella bebe agua fría hoy", "She drinks cold water today", "")}
	b := newTestBuilder(9, nil)

	got := b.BuildItem(context.Background(), item, append(others, item), nil)
	require.Len(t, got, 1)
	as := got[0].(AssembleSentence)
	assert.Equal(t, []string{"Yo", "como", "pan"}, as.Target)
	assert.Len(t, as.Tiles, MinAssembleTiles)
	for _, tok := range as.Target {
		assert.Contains(t, as.Tiles, tok)
	}
	assert.Equal(t, "I eat bread", as.Prompt())
	assert.True(t, as.Grade(AnswerTokens("yo", "como", "pan")))
	assert.False(t, as.Grade(AnswerTokens("pan", "como", "yo")))
}

func TestBuild_AssembleSentenceNeedsSixTiles(t *testing.T) {
	item := sentenceItem("Yo como pan", "I eat bread", "assemble-sentence")
	b := newTestBuilder(9, nil)
	ctx := context.Background()

	src := FromPaired(item)
	_, err := b.Build(ctx, src, curriculum.TypeAssembleSentence, Pool{})
	assert.ErrorIs(t, err, distractor.ErrNotEnoughItems)

	got := b.BuildItem(ctx, item, []curriculum.PairedItem{item}, nil)
	require.Len(t, got, 1)
	assert.Equal(t, curriculum.TypeMissingWords, got[0].Type())
}

func TestBuildItem_Fallbacks(t *testing.T) {
	words := wordItems("bogus")
	sentence := sentenceItem("Buenos días a todos", "Good morning everyone", "")
	b := newTestBuilder(1, nil)
	ctx := context.Background()

	got := b.BuildItem(ctx, words[0], words, nil)
	require.Len(t, got, 1)
	assert.Equal(t, curriculum.TypeChooseTranslation, got[0].Type())

	filler := sentenceItem("Ella bebe agua fría hoy", "She drinks cold water today", "")
	got = b.BuildItem(ctx, sentence, []curriculum.PairedItem{sentence, filler}, nil)
	require.Len(t, got, 1)
	assert.Equal(t, curriculum.TypeAssembleSentence, got[0].Type())

	// No context to pad the tiles: missing-words keeps the sentence practicable.
	got = b.BuildItem(ctx, sentence, []curriculum.PairedItem{sentence}, nil)
	require.Len(t, got, 1)
	assert.Equal(t, curriculum.TypeMissingWords, got[0].Type())

	// Too few siblings for choose-translation: letter-fill keeps the word practicable.
	small := wordItems("")[:2]
	got = b.BuildItem(ctx, small[0], small, nil)
	require.Len(t, got, 1)
	assert.Equal(t, curriculum.TypeLetterFillWord, got[0].Type())
}

func TestBuildItem_MultipleTypesKeepDeclaredOrder(t *testing.T) {
	items := wordItems("write-word, letter-fill-translation, choose-word")
	got := newTestBuilder(1, nil).BuildItem(context.Background(), items[1], items, nil)
	require.Len(t, got, 3)
	assert.Equal(t, curriculum.TypeWriteWord, got[0].Type())
	assert.Equal(t, curriculum.TypeLetterFillTranslation, got[1].Type())
	assert.Equal(t, curriculum.TypeChooseWord, got[2].Type())
	for _, task := range got {
		assert.Equal(t, "cat", task.ItemID())
		assert.Equal(t, "gato", task.Term())
	}
}

func TestBuildStep(t *testing.T) {
	items := wordItems("choose-translation")
	got := newTestBuilder(1, nil).BuildStep(context.Background(), items, nil)
	assert.Len(t, got, len(items))
}

func TestFromItem(t *testing.T) {
	it := vocab.Item{Term: "gato", Translation: "cat", ExampleSentence: "El gato duerme", CurriculumItemID: "c1"}
	w := FromItem(it, vocab.KindHearing)
	assert.Equal(t, Source{ID: "c1", Key: "gato", Text: "gato", Translation: "cat"}, w)

	s := FromItem(it, vocab.KindWordFill)
	assert.True(t, s.Sentence)
	assert.Equal(t, "El gato duerme", s.Text)
	assert.Equal(t, "gato", s.Key)
}

func TestChoiceGradeByText(t *testing.T) {
	c := Choice{Options: []Option{{Label: "Niño"}, {Label: "Niña", IsCorrect: true}}}
	assert.True(t, c.Grade(AnswerText("nina")))
	assert.False(t, c.Grade(AnswerText("")))
	assert.False(t, c.Grade(AnswerChoice(5)))
	assert.False(t, c.Grade(Answer{}))
}
