// Package dataset defines flashcard collections and the ways they are
// loaded: from YAML/JSON files and from Anki note fields.
package dataset

import (
	"fmt"
	"strings"
	"time"
)

// Type tags which question variant a dataset feeds.
type Type string

const (
	TypeTrueFalseStatement Type = "True/False Statement"
	TypeMultipleChoice     Type = "Multiple Choices"
	TypeTrueFalse          Type = "True/False"
	TypeShortAnswer        Type = "Short Answer"
	TypeDefinition         Type = "Definition"
)

// Types lists every dataset type in display order.
var Types = []Type{
	TypeTrueFalseStatement,
	TypeMultipleChoice,
	TypeTrueFalse,
	TypeShortAnswer,
	TypeDefinition,
}

var typeAliases = map[string]Type{
	"tfs":        TypeTrueFalseStatement,
	"statement":  TypeTrueFalseStatement,
	"mc":         TypeMultipleChoice,
	"multiple":   TypeMultipleChoice,
	"tf":         TypeTrueFalse,
	"truefalse":  TypeTrueFalse,
	"sa":         TypeShortAnswer,
	"short":      TypeShortAnswer,
	"def":        TypeDefinition,
	"definition": TypeDefinition,
}

// ParseType resolves a type tag or one of its short aliases.
func ParseType(s string) (Type, error) {
	trimmed := strings.TrimSpace(s)
	for _, t := range Types {
		if strings.EqualFold(trimmed, string(t)) {
			return t, nil
		}
	}
	if t, ok := typeAliases[strings.ToLower(trimmed)]; ok {
		return t, nil
	}
	return "", fmt.Errorf("unknown dataset type %q", s)
}

// Short returns the alias used in compact listings.
func (t Type) Short() string {
	switch t {
	case TypeTrueFalseStatement:
		return "tfs"
	case TypeMultipleChoice:
		return "mc"
	case TypeTrueFalse:
		return "tf"
	case TypeShortAnswer:
		return "sa"
	case TypeDefinition:
		return "def"
	default:
		return string(t)
	}
}

// Card is a single flashcard. It is immutable once parsed.
type Card struct {
	ID       int64    `json:"id,omitempty" yaml:"id,omitempty"`
	Question string   `json:"question" yaml:"question"`
	Choices  []string `json:"choices,omitempty" yaml:"choices,omitempty"`
	Answer   string   `json:"answer" yaml:"answer"`
	Extra    string   `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// Metadata holds the Definition question templates. {keyword} and
// {definition} are the placeholders.
type Metadata struct {
	ForwardQuestionTemplate string `json:"forwardQuestionTemplate,omitempty" yaml:"forwardQuestionTemplate,omitempty"`
	ReverseQuestionTemplate string `json:"reverseQuestionTemplate,omitempty" yaml:"reverseQuestionTemplate,omitempty"`
}

// Default templates used when a Definition import names none.
const (
	DefaultForwardTemplate = "What does {keyword} mean?"
	DefaultReverseTemplate = "Which word means {definition}?"
)

// DefaultMetadata returns Metadata with both default templates.
func DefaultMetadata() *Metadata {
	return &Metadata{
		ForwardQuestionTemplate: DefaultForwardTemplate,
		ReverseQuestionTemplate: DefaultReverseTemplate,
	}
}

// HasTemplates reports whether at least one direction can be generated.
func (m *Metadata) HasTemplates() bool {
	return m != nil && (m.ForwardQuestionTemplate != "" || m.ReverseQuestionTemplate != "")
}

// Dataset is a named collection of cards of a single type.
type Dataset struct {
	ID        string    `json:"id" yaml:"id,omitempty"`
	Name      string    `json:"name" yaml:"name"`
	Type      Type      `json:"type" yaml:"type"`
	Deck      string    `json:"deck,omitempty" yaml:"deck,omitempty"`
	NoteType  string    `json:"noteType,omitempty" yaml:"noteType,omitempty"`
	Tags      []string  `json:"tags,omitempty" yaml:"tags,omitempty"`
	Metadata  *Metadata `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Cards     []Card    `json:"cards" yaml:"cards"`
	CreatedAt time.Time `json:"createdAt,omitzero" yaml:"createdAt,omitempty"`
}

// CardCount returns the number of cards in the dataset.
func (d *Dataset) CardCount() int {
	return len(d.Cards)
}

// Validate checks the fields every dataset needs regardless of source.
func (d *Dataset) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("dataset name is required")
	}
	if _, err := ParseType(string(d.Type)); err != nil {
		return fmt.Errorf("dataset %q: %w", d.Name, err)
	}
	if len(d.Cards) == 0 {
		return fmt.Errorf("dataset %q has no cards", d.Name)
	}
	if d.Type == TypeDefinition && !d.Metadata.HasTemplates() {
		return fmt.Errorf("dataset %q: definition datasets need a forward or reverse question template", d.Name)
	}
	for i, c := range d.Cards {
		if strings.TrimSpace(c.Question) == "" || strings.TrimSpace(c.Answer) == "" {
			return fmt.Errorf("dataset %q: card %d needs a question and an answer", d.Name, i+1)
		}
		if (d.Type == TypeMultipleChoice || d.Type == TypeTrueFalse) && len(c.Choices) == 0 {
			return fmt.Errorf("dataset %q: card %d has no choices", d.Name, i+1)
		}
	}
	return nil
}

// Select returns the datasets whose IDs appear in ids, preserving the
// order of all.
func Select(all []Dataset, ids []string) []Dataset {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []Dataset
	for _, d := range all {
		if want[d.ID] {
			out = append(out, d)
		}
	}
	return out
}
