package curriculum_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/wordiz/internal/curriculum"
	"github.com/abhisek/wordiz/internal/logger"
	"github.com/abhisek/wordiz/internal/vocab"
)

func writeStep(t *testing.T, root, lang, name, body string) {
	t.Helper()
	dir := filepath.Join(root, lang)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func setupTestCurriculum(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	writeStep(t, dir, "es", "greetings.yaml", `
schema_version: v1.0.0
step: greetings
index: 0
items:
  - id: hello
    text: Hola
    kind: word
    practice_types: choose-translation, hearing, bogus
  - id: bye
    text: Adiós
    kind: word
    practice_types: [letter-fill, choose-word]
  - id: howareyou
    text: ¿Cómo estás tú?
    kind: sentence
`)
	writeStep(t, dir, "es", "animals.yaml", `
schema_version: v1.2
step: animals
index: 1
items:
  - id: dog
    text: perro
    kind: word
`)
	writeStep(t, dir, "en", "greetings.yaml", `
schema_version: v1.0.0
step: greetings
index: 0
items:
  - id: hello
    text: Hello
    kind: word
  - id: bye
    text: Goodbye
    kind: word
`)
	return dir
}

func TestLoader_GetStep(t *testing.T) {
	loader, err := curriculum.NewLoader(setupTestCurriculum(t), nil)
	if err != nil {
		t.Fatalf("NewLoader() error = %v", err)
	}

	step, err := loader.GetStep("es", "greetings")
	if err != nil {
		t.Fatalf("GetStep() error = %v", err)
	}
	if len(step.Items) != 3 {
		t.Fatalf("items = %d, want 3", len(step.Items))
	}
	if step.Lang != "es" {
		t.Errorf("Lang = %q, want es", step.Lang)
	}

	hello, _ := step.Item("hello")
	want := curriculum.TypeSet{curriculum.TypeChooseTranslation, curriculum.TypeHearing}
	if hello.PracticeTypes.String() != want.String() {
		t.Errorf("hello types = %v, want %v", hello.PracticeTypes, want)
	}

	bye, _ := step.Item("bye")
	if !bye.PracticeTypes.Has(curriculum.TypeLetterFillWord) || !bye.PracticeTypes.Has(curriculum.TypeChooseWord) {
		t.Errorf("bye types = %v", bye.PracticeTypes)
	}

	how, _ := step.Item("howareyou")
	if how.Kind != curriculum.KindSentence || len(how.PracticeTypes) != 0 {
		t.Errorf("howareyou = %+v", how)
	}
}

func TestLoader_GetStep_NotFound(t *testing.T) {
	loader, err := curriculum.NewLoader(setupTestCurriculum(t), nil)
	if err != nil {
		t.Fatalf("NewLoader() error = %v", err)
	}
	if _, err := loader.GetStep("es", "missing"); !errors.Is(err, curriculum.ErrStepNotFound) {
		t.Errorf("error = %v, want ErrStepNotFound", err)
	}
	if _, err := loader.GetStep("fr", "greetings"); !errors.Is(err, curriculum.ErrStepNotFound) {
		t.Errorf("error = %v, want ErrStepNotFound", err)
	}
}

func TestLoader_StepsOrderedByIndex(t *testing.T) {
	loader, err := curriculum.NewLoader(setupTestCurriculum(t), nil)
	if err != nil {
		t.Fatalf("NewLoader() error = %v", err)
	}
	steps := loader.Steps("es")
	if len(steps) != 2 || steps[0].ID != "greetings" || steps[1].ID != "animals" {
		t.Errorf("Steps(es) = %+v", steps)
	}
	if got := loader.Languages(); len(got) != 2 || got[0] != "en" || got[1] != "es" {
		t.Errorf("Languages() = %v", got)
	}
}

func TestLoader_SkipsInvalidFiles(t *testing.T) {
	dir := setupTestCurriculum(t)
	writeStep(t, dir, "es", "broken.yaml", "items: [unterminated")
	writeStep(t, dir, "es", "noversion.yaml", `
step: noversion
items: []
`)
	writeStep(t, dir, "es", "future.yaml", `
schema_version: v2.0.0
step: future
items: []
`)
	writeStep(t, dir, "es", "badkind.yaml", `
schema_version: v1.0.0
step: badkind
items:
  - id: x
    text: x
    kind: paragraph
`)
	writeStep(t, dir, "es", "notes.txt", "ignored")

	core, logs := observer.New(zap.WarnLevel)
	loader, err := curriculum.NewLoader(dir, logger.Wrap(zap.New(core)))
	if err != nil {
		t.Fatalf("NewLoader() error = %v", err)
	}
	if n := len(loader.Steps("es")); n != 2 {
		t.Errorf("Steps(es) = %d, want 2 (invalid files skipped)", n)
	}
	if n := logs.FilterMessage("skipping invalid step file").Len(); n != 4 {
		t.Errorf("logged %d skipped files, want 4", n)
	}
}

func TestLoader_EmptyAndMissingDir(t *testing.T) {
	for _, dir := range []string{t.TempDir(), filepath.Join(t.TempDir(), "nope")} {
		loader, err := curriculum.NewLoader(dir, nil)
		if err != nil {
			t.Fatalf("NewLoader(%s) error = %v", dir, err)
		}
		if len(loader.Languages()) != 0 {
			t.Errorf("Languages() = %v, want none", loader.Languages())
		}
	}
}

func TestParseStep_UnsupportedSchema(t *testing.T) {
	_, err := curriculum.ParseStep([]byte("schema_version: v3.1.0\nstep: s\nitems: []\n"))
	if !errors.Is(err, curriculum.ErrUnsupportedSchema) {
		t.Errorf("error = %v, want ErrUnsupportedSchema", err)
	}
}

func TestParseStep_DuplicateIDs(t *testing.T) {
	_, err := curriculum.ParseStep([]byte(`
schema_version: v1.0.0
step: s
items:
  - {id: a, text: uno, kind: word}
  - {id: a, text: dos, kind: word}
`))
	if err == nil {
		t.Error("expected duplicate id error")
	}
}

func TestLoader_Pair(t *testing.T) {
	loader, err := curriculum.NewLoader(setupTestCurriculum(t), nil)
	if err != nil {
		t.Fatalf("NewLoader() error = %v", err)
	}

	pairs, err := loader.Pair("es", "en", "greetings")
	if err != nil {
		t.Fatalf("Pair() error = %v", err)
	}
	want := map[string]struct {
		translation string
		fallback    bool
	}{
		"hello":     {"Hello", false},
		"bye":       {"Goodbye", false},
		"howareyou": {"¿Cómo estás tú?", true},
	}
	if len(pairs) != len(want) {
		t.Fatalf("pairs = %d, want %d", len(pairs), len(want))
	}
	for _, p := range pairs {
		w := want[p.ID]
		if p.Translation != w.translation || p.Fallback != w.fallback {
			t.Errorf("%s: got (%q, %v), want (%q, %v)", p.ID, p.Translation, p.Fallback, w.translation, w.fallback)
		}
	}

	// No native step at all: every item falls back.
	pairs, err = loader.Pair("es", "en", "animals")
	if err != nil {
		t.Fatalf("Pair() error = %v", err)
	}
	if len(pairs) != 1 || pairs[0].Translation != "perro" || !pairs[0].Fallback {
		t.Errorf("animals pairs = %+v", pairs)
	}

	if _, err := loader.Pair("fr", "en", "greetings"); !errors.Is(err, curriculum.ErrStepNotFound) {
		t.Errorf("error = %v, want ErrStepNotFound", err)
	}
}

func TestParsePracticeType(t *testing.T) {
	tests := []struct {
		in   string
		want curriculum.PracticeType
		kind vocab.Kind
	}{
		{"choose-translation", curriculum.TypeChooseTranslation, vocab.KindChooseTranslation},
		{" Hearing ", curriculum.TypeHearing, vocab.KindHearing},
		{"letter-fill", curriculum.TypeLetterFillWord, vocab.KindLetterFill},
		{"letter-fill-translation", curriculum.TypeLetterFillTranslation, vocab.KindLetterFill},
		{"word-fill", curriculum.TypeMissingWords, vocab.KindWordFill},
		{"sentence-assembly", curriculum.TypeAssembleSentence, vocab.KindSentenceAssembly},
		{"write-word", curriculum.TypeWriteWord, vocab.KindWriteWord},
	}
	for _, tt := range tests {
		got, err := curriculum.ParsePracticeType(tt.in)
		if err != nil {
			t.Errorf("ParsePracticeType(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want || got.Kind() != tt.kind {
			t.Errorf("ParsePracticeType(%q) = %s (%s), want %s (%s)", tt.in, got, got.Kind(), tt.want, tt.kind)
		}
	}
	if _, err := curriculum.ParsePracticeType("flip-card"); err == nil {
		t.Error("expected error for flip-card")
	}
}

func TestParseTypeSet(t *testing.T) {
	got := curriculum.ParseTypeSet("hearing, ,hearing,nope,choose-word")
	if got.String() != "hearing,choose-word" {
		t.Errorf("ParseTypeSet() = %q", got.String())
	}
	if len(curriculum.ParseTypeSet("")) != 0 {
		t.Error("empty string should give empty set")
	}
}
