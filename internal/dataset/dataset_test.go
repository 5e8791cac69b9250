package dataset

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		in      string
		want    Type
		wantErr bool
	}{
		{"Multiple Choices", TypeMultipleChoice, false},
		{"multiple choices", TypeMultipleChoice, false},
		{"tfs", TypeTrueFalseStatement, false},
		{"TF", TypeTrueFalse, false},
		{" sa ", TypeShortAnswer, false},
		{"def", TypeDefinition, false},
		{"essay", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseType(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

const singleYAML = `
name: Capitals
type: mc
cards:
  - question: Capital of France?
    choices: [Berlin, Paris, Rome]
    answer: b
  - question: Capital of Italy?
    choices: [Rome, Madrid]
    answer: "1"
`

func TestParseSingleYAML(t *testing.T) {
	sets, err := Parse([]byte(singleYAML), ".yaml")
	require.NoError(t, err)
	require.Len(t, sets, 1)

	d := sets[0]
	assert.Equal(t, "Capitals", d.Name)
	assert.Equal(t, TypeMultipleChoice, d.Type)
	assert.NotEmpty(t, d.ID)
	assert.False(t, d.CreatedAt.IsZero())
	assert.Equal(t, 2, d.CardCount())
	assert.Equal(t, []string{"Berlin", "Paris", "Rome"}, d.Cards[0].Choices)
}

func TestParseDatasetList(t *testing.T) {
	src := `
datasets:
  - name: Facts
    type: True/False Statement
    cards:
      - {question: Water boils at 100C at sea level, answer: "1"}
  - name: Terms
    type: Definition
    metadata:
      forwardQuestionTemplate: "What does {keyword} mean?"
    cards:
      - {question: Entropy, answer: Measure of disorder}
`
	sets, err := Parse([]byte(src), ".yml")
	require.NoError(t, err)
	require.Len(t, sets, 2)
	assert.Equal(t, TypeTrueFalseStatement, sets[0].Type)
	assert.Equal(t, "What does {keyword} mean?", sets[1].Metadata.ForwardQuestionTemplate)
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("name: x\ntype: sa\nflavor: salty\ncards: [{question: q, answer: a}]\n"), ".yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse yaml")
}

func TestParseRejectsMultipleDocuments(t *testing.T) {
	src := "name: a\ntype: sa\ncards: [{question: q, answer: a}]\n---\nname: b\n"
	_, err := Parse([]byte(src), ".yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "multiple YAML documents")
}

func TestParseValidation(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"empty", "datasets: []\n", "no datasets found"},
		{"no cards", "name: a\ntype: sa\ncards: []\n", "has no cards"},
		{"bad type", "name: a\ntype: essay\ncards: [{question: q, answer: a}]\n", "unknown dataset type"},
		{"mc without choices", "name: a\ntype: mc\ncards: [{question: q, answer: a}]\n", "has no choices"},
		{"definition without templates", "name: a\ntype: def\ncards: [{question: q, answer: a}]\n", "template"},
		{"missing answer", "name: a\ntype: sa\ncards: [{question: q}]\n", "needs a question and an answer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), ".yaml")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestWriteJSONRoundTrip(t *testing.T) {
	sets, err := Parse([]byte(singleYAML), ".yaml")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sets))

	again, err := Parse(buf.Bytes(), ".json")
	require.NoError(t, err)
	require.Len(t, again, 1)
	assert.Equal(t, sets[0].ID, again[0].ID)
	assert.Equal(t, sets[0].Cards, again[0].Cards)
}

func TestSelectKeepsOrder(t *testing.T) {
	all := []Dataset{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	got := Select(all, []string{"c", "a", "zzz"})
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "c", got[1].ID)
}
