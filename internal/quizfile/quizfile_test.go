package quizfile

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuongduong73/ankiquiz/internal/question"
)

func sampleQuestions() []question.Question {
	return []question.Question{
		&question.MultipleChoice{Question: "Capital of France?", Choices: []string{"Berlin", "Paris", "Rome"}, Answer: 1, Points: 2.5},
		&question.ShortAnswer{Question: "2+2", Answer: "4", Points: 2.5},
		&question.TrueFalseStatement{Statements: []question.Statement{
			{Text: "Water is wet", Answer: true},
			{Text: "Fire is cold", Answer: false},
		}, Points: 5},
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	doc := New("Geography", sampleQuestions(), 15*time.Minute, now)

	assert.Equal(t, 900, doc.Quiz.Duration)
	assert.Equal(t, 10.0, doc.Quiz.TotalPoints)
	assert.Equal(t, 3, doc.Metadata.QuestionCount)
	assert.Equal(t, Version, doc.Metadata.Version)

	var buf bytes.Buffer
	require.NoError(t, doc.Write(&buf))

	got, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, "Geography", got.Name)
	assert.Equal(t, 15*time.Minute, got.DurationValue())
	require.Len(t, got.Quiz.Questions, 3)
	assert.Equal(t, sampleQuestions()[0], got.Quiz.Questions[0])
	assert.Equal(t, sampleQuestions()[2], got.Quiz.Questions[2])
	assert.True(t, got.Metadata.ExportedAt.Equal(now))
}

func TestValidateOrder(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		question int
		reason   string
	}{
		{"not json", `[`, 0, "not a JSON object"},
		{"missing quiz", `{"name":"x"}`, 0, `missing "quiz"`},
		{"questions not array", `{"quiz":{"questions":{},"duration":60}}`, 0, `"questions"`},
		{"no questions", `{"quiz":{"questions":[],"duration":60}}`, 0, "no questions"},
		{"zero duration", `{"quiz":{"questions":[{"type":"Short Answer","points":1}],"duration":0}}`, 0, `"duration"`},
		{"missing duration", `{"quiz":{"questions":[{"type":"Short Answer","points":1}]}}`, 0, `"duration"`},
		{"missing type", `{"quiz":{"questions":[{"type":"Short Answer","points":1},{"points":1}],"duration":60}}`, 2, `missing "type"`},
		{"negative points", `{"quiz":{"questions":[{"type":"Short Answer","points":-1}],"duration":60}}`, 1, `"points"`},
		{"missing points", `{"quiz":{"questions":[{"type":"Short Answer"}],"duration":60}}`, 1, `"points"`},
		{"unknown type", `{"quiz":{"questions":[{"type":"Essay","points":1}],"duration":60}}`, 0, "schema validation failed"},
		{"future version", `{"quiz":{"questions":[{"type":"Short Answer","question":"q","answer":"a","points":1}],"duration":60},"metadata":{"version":"2.0"}}`, 0, "unsupported version"},
		{"bad version", `{"quiz":{"questions":[{"type":"Short Answer","question":"q","answer":"a","points":1}],"duration":60},"metadata":{"version":"one"}}`, 0, "invalid version"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate([]byte(tt.doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidDocument))

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.question, verr.Question)
			assert.Contains(t, verr.Reason, tt.reason)
		})
	}
}

func TestValidateAcceptsMinimalDocument(t *testing.T) {
	doc := `{"quiz":{"questions":[{"type":"Short Answer","question":"q","answer":"a","points":10}],"duration":600}}`
	require.NoError(t, Validate([]byte(doc)))

	got, err := Decode([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, 600, got.Quiz.Duration)
	assert.Equal(t, &question.ShortAnswer{Question: "q", Answer: "a", Points: 10}, got.Quiz.Questions[0])
}

func TestDecodeRejectsBadAnswer(t *testing.T) {
	doc := `{"quiz":{"questions":[{"type":"Multiple Choices","question":"q","choices":["a","b"],"answer":5,"points":10}],"duration":600}}`
	_, err := Decode([]byte(doc))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidDocument)
	assert.Contains(t, err.Error(), "out of range")
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Geography", "geography"},
		{"Tiếng Việt cơ bản", "tieng-viet-co-ban"},
		{"Đề kiểm tra #1", "de-kiem-tra-1"},
		{"  --Hello,  World!--  ", "hello-world"},
		{"???", "quiz"},
		{"", "quiz"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slug(tt.in))
		})
	}
}

func TestFilename(t *testing.T) {
	now := time.Date(2026, 1, 2, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "bai-kiem-tra-2026-01-02.json", Filename("Bài kiểm tra", now))
}

func TestSaveWritesNamedFile(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	doc := New("Địa lý 10", sampleQuestions(), 10*time.Minute, now)
	dir := filepath.Join(t.TempDir(), "exports")

	path, err := doc.Save(dir, now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "dia-ly-10-2026-03-14.json"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	got, err := Read(f)
	require.NoError(t, err)
	assert.Len(t, got.Quiz.Questions, 3)
}
