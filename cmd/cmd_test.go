package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the root command against a throwaway database.
func run(t *testing.T, db, stdin string, args ...string) string {
	t.Helper()
	for _, k := range []string{"WORDIZ_BACKEND", "WORDIZ_DB", "WORDIZ_SEED", "WORDIZ_LOG_MODE"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	var out bytes.Buffer
	rootCmd.SetArgs(append([]string{
		"--env-file", filepath.Join(t.TempDir(), "none.env"),
		"--db", db,
		"--seed", "7",
	}, args...))
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	require.NoError(t, rootCmd.Execute(), out.String())
	return out.String()
}

func TestAddAndPractice(t *testing.T) {
	db := filepath.Join(t.TempDir(), "wordiz.db")

	out := run(t, db, "", "add", "perro", "dog", "--sentence", "El perro ladra")
	assert.Contains(t, out, `Saved "perro"`)

	out = run(t, db, "", "add", "Perro", "dog")
	assert.Contains(t, out, "already saved")

	out = run(t, db, "perro\r", "practice", "--kind", "write-word", "--rounds", "1")
	assert.Contains(t, out, "Practiced 1 rounds, 1 correct.")
}

func TestPractice_EmptyCollection(t *testing.T) {
	db := filepath.Join(t.TempDir(), "wordiz.db")
	out := run(t, db, "", "practice", "--kind", "write-word", "--rounds", "1")
	assert.Contains(t, out, "Nothing to practice")
}

func TestPractice_QuitStops(t *testing.T) {
	db := filepath.Join(t.TempDir(), "wordiz.db")
	run(t, db, "", "add", "gato", "cat")
	out := run(t, db, "q\r", "practice", "--kind", "write-word", "--rounds", "0")
	assert.Contains(t, out, "Practiced 0 rounds, 0 correct.")
}

func TestLesson_RestartAfterSummary(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "wordiz.db")
	content := filepath.Join(dir, "curriculum")
	steps := map[string]string{
		"es/greetings.yaml": "schema_version: v1.0.0\nstep: greetings\nindex: 0\nitems:\n" +
			"  - {id: hello, text: Hola, kind: word, practice_types: write-word}\n",
		"en/greetings.yaml": "schema_version: v1.0.0\nstep: greetings\nindex: 0\nitems:\n" +
			"  - {id: hello, text: Hello, kind: word}\n",
	}
	for name, body := range steps {
		path := filepath.Join(content, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}

	// Answer, dismiss the feedback, restart, then answer again and quit.
	out := run(t, db, "Hola\r\rrHola\r\rq", "lesson", "greetings",
		"--curriculum", content, "--lang", "es", "--native", "en")
	assert.Contains(t, out, "Step greetings complete (run 2)")

	out = run(t, db, "", "lesson", "--curriculum", content, "--lang", "es", "--native", "en")
	assert.Contains(t, out, "✓ greetings")
}

func TestImportAndStats(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "wordiz.db")
	csvPath := filepath.Join(dir, "words.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("term,translation\ncasa,house\nmesa,table\n,orphan\n"), 0o644))

	out := run(t, db, "", "import", csvPath)
	assert.Contains(t, out, "2 words added")
	assert.Contains(t, out, "1 rejected")

	out = run(t, db, "", "stats", "--recent", "5")
	assert.Contains(t, out, "2 words in practice")
}

func TestSettings(t *testing.T) {
	db := filepath.Join(t.TempDir(), "wordiz.db")

	run(t, db, "", "settings", "set", "mastery.aggregate_threshold", "9")
	out := run(t, db, "", "settings", "get")
	assert.Contains(t, out, "mastery.aggregate_threshold = 9")

	run(t, db, "", "settings", "set", "ui.theme", "dark")
	out = run(t, db, "", "settings", "get", "ui.theme")
	assert.Equal(t, "dark\n", out)
}

func TestReset(t *testing.T) {
	db := filepath.Join(t.TempDir(), "wordiz.db")
	run(t, db, "", "add", "sol", "sun")

	out := run(t, db, "no\n", "reset")
	assert.Contains(t, out, "Aborted")

	run(t, db, "", "reset", "--yes")
	out = run(t, db, "", "stats")
	assert.Contains(t, out, "0 words in practice")
}

func TestVersion(t *testing.T) {
	out := run(t, filepath.Join(t.TempDir(), "wordiz.db"), "", "version")
	assert.Contains(t, out, "wordiz")
}
