// Package curriculum loads bilingual lesson steps from YAML files laid out
// as <root>/<lang>/<step>.yaml.
package curriculum

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/wordiz/internal/logger"
)

var (
	// ErrStepNotFound is returned when no step matches a language and id.
	ErrStepNotFound = errors.New("step not found")

	// ErrUnsupportedSchema is returned for files whose schema_version major
	// is not v1.
	ErrUnsupportedSchema = errors.New("unsupported schema version")
)

// SupportedMajor is the schema_version major this loader understands.
const SupportedMajor = "v1"

//go:embed step.schema.json
var stepSchemaJSON []byte

var (
	stepSchemaOnce sync.Once
	stepSchema     *jsonschema.Schema
	stepSchemaErr  error
)

func compiledStepSchema() (*jsonschema.Schema, error) {
	stepSchemaOnce.Do(func() {
		var def any
		if err := json.Unmarshal(stepSchemaJSON, &def); err != nil {
			stepSchemaErr = fmt.Errorf("parse step schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		const url = "schema://step.json"
		if err := c.AddResource(url, def); err != nil {
			stepSchemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		stepSchema, stepSchemaErr = c.Compile(url)
	})
	return stepSchema, stepSchemaErr
}

// Loader loads and caches lesson steps from the filesystem.
type Loader struct {
	rootDir string
	log     *logger.Logger

	mu    sync.RWMutex
	steps map[string]map[string]Step // lang -> step id -> step
}

// NewLoader creates a loader and loads every step under rootDir.
// Invalid files are skipped with a warning.
func NewLoader(rootDir string, log *logger.Logger) (*Loader, error) {
	l := &Loader{
		rootDir: rootDir,
		log:     logger.OrNop(log),
		steps:   make(map[string]map[string]Step),
	}
	if err := l.loadAll(); err != nil {
		return nil, fmt.Errorf("loading curriculum: %w", err)
	}
	l.log.Info("curriculum loaded", "root", rootDir, "languages", len(l.steps))
	return l, nil
}

// Languages returns the language codes that have at least one step.
func (l *Loader) Languages() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	langs := make([]string, 0, len(l.steps))
	for lang := range l.steps {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// GetStep returns one step for a language.
func (l *Loader) GetStep(lang, stepID string) (Step, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	s, ok := l.steps[lang][stepID]
	if !ok {
		return Step{}, fmt.Errorf("%s/%s: %w", lang, stepID, ErrStepNotFound)
	}
	return s, nil
}

// Steps returns every step for a language ordered by index.
func (l *Loader) Steps(lang string) []Step {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Step, 0, len(l.steps[lang]))
	for _, s := range l.steps[lang] {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Index != out[j].Index {
			return out[i].Index < out[j].Index
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Pair loads a step in both languages and matches its items by id.
// A missing native step is not an error: every item falls back to its
// own text.
func (l *Loader) Pair(learningLang, nativeLang, stepID string) ([]PairedItem, error) {
	learning, err := l.GetStep(learningLang, stepID)
	if err != nil {
		return nil, err
	}
	native, err := l.GetStep(nativeLang, stepID)
	if err != nil {
		l.log.Warn("native step missing; using pseudo-translations", "lang", nativeLang, "step", stepID)
	}
	return Pair(learning, native), nil
}

func (l *Loader) loadAll() error {
	entries, err := os.ReadDir(l.rootDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			l.log.Warn("curriculum directory missing", "root", l.rootDir)
			return nil
		}
		return err
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		lang := e.Name()
		files, err := filepath.Glob(filepath.Join(l.rootDir, lang, "*.y*ml"))
		if err != nil {
			return err
		}
		for _, path := range files {
			if !strings.HasSuffix(path, ".yaml") && !strings.HasSuffix(path, ".yml") {
				continue
			}
			step, err := loadStepFile(path)
			if err != nil {
				l.log.Warn("skipping invalid step file", "path", path, "error", err)
				continue
			}
			step.Lang = lang
			l.add(step)
		}
	}
	return nil
}

func (l *Loader) add(s Step) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.steps[s.Lang] == nil {
		l.steps[s.Lang] = make(map[string]Step)
	}
	if _, dup := l.steps[s.Lang][s.ID]; dup {
		l.log.Warn("duplicate step id; keeping the later file", "lang", s.Lang, "step", s.ID)
	}
	l.steps[s.Lang][s.ID] = s
}

func loadStepFile(path string) (Step, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Step{}, err
	}
	return ParseStep(data)
}

// ParseStep validates and decodes one step document.
func ParseStep(data []byte) (Step, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Step{}, fmt.Errorf("parse yaml: %w", err)
	}
	if err := validateStep(raw); err != nil {
		return Step{}, err
	}

	var step Step
	if err := yaml.Unmarshal(data, &step); err != nil {
		return Step{}, fmt.Errorf("decode step: %w", err)
	}
	if semver.Major(step.SchemaVersion) != SupportedMajor {
		return Step{}, fmt.Errorf("%q: %w", step.SchemaVersion, ErrUnsupportedSchema)
	}
	seen := make(map[string]bool, len(step.Items))
	for _, it := range step.Items {
		if seen[it.ID] {
			return Step{}, fmt.Errorf("duplicate item id %q", it.ID)
		}
		seen[it.ID] = true
	}
	return step, nil
}

// validateStep checks a decoded YAML document against the step schema.
// The document is round-tripped through JSON so the validator sees plain
// JSON values.
func validateStep(doc any) error {
	schema, err := compiledStepSchema()
	if err != nil {
		return err
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal step: %w", err)
	}
	var parsed any
	if err := json.Unmarshal(b, &parsed); err != nil {
		return fmt.Errorf("parse step: %w", err)
	}
	if err := schema.Validate(parsed); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
