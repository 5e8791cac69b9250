package question

import (
	"fmt"

	"github.com/cuongduong73/ankiquiz/internal/dataset"
	"github.com/cuongduong73/ankiquiz/internal/shuffle"
)

// TypeConfig asks for Count questions of one type, each worth Points.
type TypeConfig struct {
	Type   dataset.Type
	Count  int
	Points float64
}

// UnknownTypeError is returned when a configuration names a type no
// generator exists for.
type UnknownTypeError struct {
	Type dataset.Type
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown question type %q", string(e.Type))
}

// Factory generates question sets from datasets.
type Factory struct {
	sh *shuffle.Shuffler
}

// NewFactory returns a Factory drawing randomness from sh.
func NewFactory(sh *shuffle.Shuffler) *Factory {
	return &Factory{sh: sh}
}

// Create generates questions for each entry of configs in order. Cards of
// every dataset matching an entry's type are pooled; Definition questions
// use the templates of the first matching dataset. Types with no matching
// dataset contribute nothing. Questions are not shuffled across types.
func (f *Factory) Create(sets []dataset.Dataset, configs []TypeConfig) ([]Question, error) {
	var all []Question
	for _, cfg := range configs {
		if !isKnownType(cfg.Type) {
			return nil, &UnknownTypeError{Type: cfg.Type}
		}
		var matching []dataset.Dataset
		for _, d := range sets {
			if d.Type == cfg.Type {
				matching = append(matching, d)
			}
		}
		if len(matching) == 0 {
			continue
		}

		var cards []dataset.Card
		for _, d := range matching {
			cards = append(cards, d.Cards...)
		}

		qs, err := f.generate(cfg, cards, matching[0].Metadata)
		if err != nil {
			return nil, err
		}
		all = append(all, qs...)
	}
	return all, nil
}

func (f *Factory) generate(cfg TypeConfig, cards []dataset.Card, meta *dataset.Metadata) ([]Question, error) {
	switch cfg.Type {
	case dataset.TypeTrueFalseStatement:
		return GenerateTrueFalseStatements(f.sh, cards, cfg.Count, cfg.Points), nil
	case dataset.TypeMultipleChoice:
		return GenerateMultipleChoice(f.sh, cards, cfg.Count, cfg.Points), nil
	case dataset.TypeTrueFalse:
		return GenerateTrueFalse(f.sh, cards, cfg.Count, cfg.Points), nil
	case dataset.TypeShortAnswer:
		return GenerateShortAnswer(f.sh, cards, cfg.Count, cfg.Points), nil
	case dataset.TypeDefinition:
		return GenerateDefinitions(f.sh, cards, cfg.Count, cfg.Points, meta), nil
	default:
		return nil, &UnknownTypeError{Type: cfg.Type}
	}
}

func isKnownType(t dataset.Type) bool {
	for _, known := range dataset.Types {
		if t == known {
			return true
		}
	}
	return false
}
