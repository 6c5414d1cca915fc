package curriculum

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/wordiz/internal/vocab"
)

// ItemKind separates single words from full sentences.
type ItemKind string

const (
	KindWord     ItemKind = "word"
	KindSentence ItemKind = "sentence"
)

// PracticeType is a task form a curriculum item can ask for.
type PracticeType string

const (
	TypeChooseTranslation     PracticeType = "choose-translation"
	TypeChooseWord            PracticeType = "choose-word"
	TypeHearing               PracticeType = "hearing"
	TypeLetterFillWord        PracticeType = "letter-fill-word"
	TypeLetterFillTranslation PracticeType = "letter-fill-translation"
	TypeWriteWord             PracticeType = "write-word"
	TypeMissingWords          PracticeType = "missing-words"
	TypeAssembleSentence      PracticeType = "assemble-sentence"
)

// AllPracticeTypes lists every practice type in a stable order.
func AllPracticeTypes() []PracticeType {
	return []PracticeType{
		TypeChooseTranslation,
		TypeChooseWord,
		TypeHearing,
		TypeLetterFillWord,
		TypeLetterFillTranslation,
		TypeWriteWord,
		TypeMissingWords,
		TypeAssembleSentence,
	}
}

var typeAliases = map[string]PracticeType{
	"letter-fill":       TypeLetterFillWord,
	"word-fill":         TypeMissingWords,
	"sentence-assembly": TypeAssembleSentence,
}

// ParsePracticeType resolves a token, accepting the practice kind aliases.
func ParsePracticeType(s string) (PracticeType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, t := range AllPracticeTypes() {
		if string(t) == s {
			return t, nil
		}
	}
	if t, ok := typeAliases[s]; ok {
		return t, nil
	}
	return "", fmt.Errorf("unknown practice type %q", s)
}

// Kind returns the mastery counter a practice type contributes to.
func (t PracticeType) Kind() vocab.Kind {
	switch t {
	case TypeChooseTranslation:
		return vocab.KindChooseTranslation
	case TypeChooseWord:
		return vocab.KindChooseWord
	case TypeHearing:
		return vocab.KindHearing
	case TypeLetterFillWord, TypeLetterFillTranslation:
		return vocab.KindLetterFill
	case TypeWriteWord:
		return vocab.KindWriteWord
	case TypeMissingWords:
		return vocab.KindWordFill
	case TypeAssembleSentence:
		return vocab.KindSentenceAssembly
	}
	return vocab.Kind(t)
}

// TypeSet is an ordered set of practice types. Declaration order is kept
// so an item's tasks come out in the order the author listed them.
type TypeSet []PracticeType

// ParseTypeSet splits a comma-separated list. Unknown tokens and
// duplicates are dropped.
func ParseTypeSet(s string) TypeSet {
	var set TypeSet
	for _, tok := range strings.Split(s, ",") {
		if strings.TrimSpace(tok) == "" {
			continue
		}
		t, err := ParsePracticeType(tok)
		if err != nil {
			continue
		}
		set = set.With(t)
	}
	return set
}

// Has reports whether t is in the set.
func (s TypeSet) Has(t PracticeType) bool {
	for _, x := range s {
		if x == t {
			return true
		}
	}
	return false
}

// With returns s with t appended if not already present.
func (s TypeSet) With(t PracticeType) TypeSet {
	if s.Has(t) {
		return s
	}
	return append(s, t)
}

func (s TypeSet) String() string {
	parts := make([]string, len(s))
	for i, t := range s {
		parts[i] = string(t)
	}
	return strings.Join(parts, ",")
}

// UnmarshalYAML accepts either a comma-separated scalar or a sequence.
func (s *TypeSet) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*s = ParseTypeSet(node.Value)
		return nil
	case yaml.SequenceNode:
		var tokens []string
		if err := node.Decode(&tokens); err != nil {
			return err
		}
		*s = ParseTypeSet(strings.Join(tokens, ","))
		return nil
	}
	return fmt.Errorf("practice_types: unexpected yaml node kind %d", node.Kind)
}

// Item is one lesson entry in a single language.
type Item struct {
	ID            string   `yaml:"id"`
	Text          string   `yaml:"text"`
	Kind          ItemKind `yaml:"kind"`
	PracticeTypes TypeSet  `yaml:"practice_types"`
}

// Step is one lesson step in one language.
type Step struct {
	SchemaVersion string `yaml:"schema_version"`
	ID            string `yaml:"step"`
	Index         int    `yaml:"index"`
	Items         []Item `yaml:"items"`

	Lang string `yaml:"-"`
}

// Item returns the item with the given id.
func (s Step) Item(id string) (Item, bool) {
	for _, it := range s.Items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}
