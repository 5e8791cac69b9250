package dataset

import (
	"fmt"
	"strings"
)

// MaxChoices is the number of "Choice N" fields a note may carry.
const MaxChoices = 5

// Note is a source note as a flat field map, keyed by field name.
type Note struct {
	ID     int64
	Fields map[string]string
}

func (n Note) field(name string) string {
	return strings.TrimSpace(n.Fields[name])
}

func (n Note) choices() []string {
	var out []string
	for i := 1; i <= MaxChoices; i++ {
		if c := n.field(fmt.Sprintf("Choice %d", i)); c != "" {
			out = append(out, FixMedia(c))
		}
	}
	return out
}

// FieldMapping names the note fields a Definition dataset reads.
type FieldMapping struct {
	Keyword    string
	Definition string
}

// ParseNotes converts notes into cards for dataset type t. Notes missing a
// required field are skipped.
func ParseNotes(t Type, notes []Note, mapping FieldMapping) ([]Card, error) {
	var parse func(Note) (Card, bool)
	switch t {
	case TypeTrueFalseStatement:
		parse = parseStatementNote
	case TypeMultipleChoice:
		parse = parseMultipleChoiceNote
	case TypeTrueFalse:
		parse = parseTrueFalseNote
	case TypeShortAnswer:
		parse = parseShortAnswerNote
	case TypeDefinition:
		if mapping.Keyword == "" || mapping.Definition == "" {
			return nil, fmt.Errorf("definition datasets need both a keyword and a definition field")
		}
		parse = func(n Note) (Card, bool) { return parseDefinitionNote(n, mapping) }
	default:
		return nil, fmt.Errorf("unknown dataset type %q", t)
	}

	cards := make([]Card, 0, len(notes))
	for _, n := range notes {
		if c, ok := parse(n); ok {
			cards = append(cards, c)
		}
	}
	return cards, nil
}

func extra(n Note) string {
	return FixMedia(n.field("Extra"))
}

func parseStatementNote(n Note) (Card, bool) {
	q, a := n.field("Question"), n.field("Answer")
	if q == "" || a == "" {
		return Card{}, false
	}
	return Card{ID: n.ID, Question: FixMedia(q), Answer: a, Extra: extra(n)}, true
}

func parseMultipleChoiceNote(n Note) (Card, bool) {
	q, a := n.field("Question"), n.field("Answer")
	if q == "" || a == "" || n.field("Choice 1") == "" {
		return Card{}, false
	}
	return Card{ID: n.ID, Question: FixMedia(q), Choices: n.choices(), Answer: a, Extra: extra(n)}, true
}

func parseTrueFalseNote(n Note) (Card, bool) {
	q, a := n.field("Question"), n.field("Answer")
	if q == "" || a == "" {
		return Card{}, false
	}
	choices := n.choices()
	if len(choices) == 0 {
		return Card{}, false
	}
	return Card{ID: n.ID, Question: FixMedia(q), Choices: choices, Answer: a, Extra: extra(n)}, true
}

func parseShortAnswerNote(n Note) (Card, bool) {
	q, a := n.field("Question"), n.field("Answer")
	if q == "" || a == "" || n.field("Choice 1") != "" {
		return Card{}, false
	}
	return Card{ID: n.ID, Question: FixMedia(q), Answer: a, Extra: extra(n)}, true
}

func parseDefinitionNote(n Note, m FieldMapping) (Card, bool) {
	kw, def := n.field(m.Keyword), n.field(m.Definition)
	if kw == "" || def == "" {
		return Card{}, false
	}
	return Card{ID: n.ID, Question: FixMedia(kw), Answer: FixMedia(def)}, true
}
