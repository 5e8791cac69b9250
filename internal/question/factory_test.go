package question

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/cuongduong73/ankiquiz/internal/dataset"
	"github.com/cuongduong73/ankiquiz/internal/shuffle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactoryCreateFollowsConfigOrder(t *testing.T) {
	sets := []dataset.Dataset{
		{ID: "sa", Type: dataset.TypeShortAnswer, Cards: plainCards(5)},
		{ID: "mc1", Type: dataset.TypeMultipleChoice, Cards: mcCards(2)},
		{ID: "mc2", Type: dataset.TypeMultipleChoice, Cards: mcCards(2)},
	}
	configs := []TypeConfig{
		{Type: dataset.TypeMultipleChoice, Count: 4, Points: 1},
		{Type: dataset.TypeShortAnswer, Count: 2, Points: 3},
		{Type: dataset.TypeTrueFalse, Count: 2, Points: 1},
	}

	qs, err := NewFactory(shuffle.NewSeeded(1)).Create(sets, configs)
	require.NoError(t, err)
	require.Len(t, qs, 6)

	for i := 0; i < 4; i++ {
		assert.Equal(t, dataset.TypeMultipleChoice, qs[i].Type(), "cards from both mc datasets are pooled")
	}
	for i := 4; i < 6; i++ {
		assert.Equal(t, dataset.TypeShortAnswer, qs[i].Type())
		assert.InDelta(t, 3, qs[i].MaxPoints(), 1e-9)
	}
}

func TestFactoryDefinitionUsesFirstDatasetMetadata(t *testing.T) {
	sets := []dataset.Dataset{
		{ID: "a", Type: dataset.TypeDefinition, Cards: plainCards(4),
			Metadata: &dataset.Metadata{ForwardQuestionTemplate: "first {keyword}"}},
		{ID: "b", Type: dataset.TypeDefinition, Cards: plainCards(4),
			Metadata: &dataset.Metadata{ForwardQuestionTemplate: "second {keyword}"}},
	}
	qs, err := NewFactory(shuffle.NewSeeded(2)).Create(sets, []TypeConfig{{Type: dataset.TypeDefinition, Count: 1, Points: 1}})
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Contains(t, qs[0].(*Definition).Question, "first ")
}

func TestFactoryUnknownType(t *testing.T) {
	_, err := NewFactory(shuffle.NewSeeded(3)).Create(nil, []TypeConfig{{Type: "Essay", Count: 1, Points: 10}})

	var ute *UnknownTypeError
	require.True(t, errors.As(err, &ute))
	assert.Equal(t, dataset.Type("Essay"), ute.Type)
}

func TestListJSONRoundTrip(t *testing.T) {
	in := List{
		&TrueFalseStatement{Statements: statements(true, false, true, true), Points: 1},
		&TrueFalse{Question: "Primes", Statements: statements(true, false), Extra: "x", NoteID: 4, Points: 0.5},
		&MultipleChoice{Question: "2+2", Choices: []string{"3", "4"}, Answer: 1, NoteID: 7, Points: 2},
		&ShortAnswer{Question: "Capital of Peru", Answer: "Lima", Points: 1.5},
		&Definition{Question: "<b>K</b>?", Choices: []string{"a", "b", "c", "d"}, Answer: 2,
			Cards: plainCards(4), Direction: Reverse, Points: 5},
	}

	b, err := json.Marshal(in)
	require.NoError(t, err)

	var out List
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, in, out)
}

func TestListUnmarshalWireShapes(t *testing.T) {
	src := `[
		{"type":"True/False","statements":[{"question":"a","answer":"1"},{"question":"b","answer":"0"}],"points":1},
		{"type":"Multiple Choices","question":"q","choices":["x","y","z"],"answer":"c","points":1},
		{"type":"Definition","question":"q","choices":["a","b","c","d"],"answer":0,"points":1}
	]`
	var out List
	require.NoError(t, json.Unmarshal([]byte(src), &out))
	require.Len(t, out, 3)

	tfs, ok := out[0].(*TrueFalseStatement)
	require.True(t, ok)
	assert.True(t, bool(tfs.Statements[0].Answer))
	assert.Equal(t, 2, out[1].(*MultipleChoice).Answer)
	assert.Equal(t, Forward, out[2].(*Definition).Direction)
}

func TestListUnmarshalErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"unknown type", `[{"type":"Essay","points":1}]`, "unknown question type"},
		{"index out of range", `[{"type":"Multiple Choices","question":"q","choices":["a"],"answer":3,"points":1}]`, "out of range"},
		{"no statements", `[{"type":"True/False","points":1}]`, "no statements"},
		{"short answer number", `[{"type":"Short Answer","question":"q","answer":3,"points":1}]`, "must be a string"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out List
			err := json.Unmarshal([]byte(tt.src), &out)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
