package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuongduong73/ankiquiz/internal/dataset"
	"github.com/cuongduong73/ankiquiz/internal/quiz"
	"github.com/cuongduong73/ankiquiz/internal/quizfile"
	"github.com/cuongduong73/ankiquiz/internal/store"
)

func TestParseAllocations(t *testing.T) {
	allocs, err := parseAllocations([]string{"mc=4:4", "Short Answer=2:6"})
	require.NoError(t, err)
	require.Len(t, allocs, 2)
	assert.Equal(t, quiz.TypeAllocation{Type: dataset.TypeShortAnswer, Count: 2, TotalPoints: 6}, allocs[1])

	_, err = parseAllocations([]string{"essay=1:10"})
	assert.Error(t, err)
}

func TestSummarizeAttemptsScalesToTen(t *testing.T) {
	s := summarizeAttempts([]store.Attempt{
		{TotalScore: 8, MaxScore: 10, CorrectCount: 4, TotalQuestions: 5},
		{TotalScore: 2, MaxScore: 4, CorrectCount: 1, TotalQuestions: 5},
	})
	assert.Equal(t, 2, s.count)
	assert.InDelta(t, 6.5, s.average, 1e-9)
	assert.InDelta(t, 8, s.best, 1e-9)
	assert.InDelta(t, 50, s.accuracy(), 1e-9)
}

func TestGroupUsage(t *testing.T) {
	rows := []store.LLMUsage{
		{Purpose: "explain", Model: "m1", Calls: 1, InputTokens: 10, OutputTokens: 5, AvgLatencyMs: 100},
		{Purpose: "explain", Model: "m2", Calls: 3, InputTokens: 30, OutputTokens: 15, AvgLatencyMs: 200},
	}
	byPurpose := groupUsage(rows, func(u store.LLMUsage) string { return u.Purpose })
	require.Len(t, byPurpose, 1)
	assert.Equal(t, 4, byPurpose[0].Calls)
	assert.Equal(t, 40, byPurpose[0].InputTokens)
	assert.Equal(t, int64(175), byPurpose[0].AvgLatencyMs)

	byModel := groupUsage(rows, func(u store.LLMUsage) string { return u.Model })
	assert.Len(t, byModel, 2)
}

func TestTutorUsage(t *testing.T) {
	events := []store.LLMRequestEvent{
		{LLMRequestEventData: store.LLMRequestEventData{Model: "claude-haiku-4-5", InputTokens: 1000, OutputTokens: 200, Success: true}},
		{LLMRequestEventData: store.LLMRequestEventData{Model: "claude-haiku-4-5", Success: false}},
	}
	assert.Equal(t, "2 request(s), 1000 in / 200 out tokens, 1 failed, $0.0020", tutorUsage(events))

	events[0].Model = "unpriced"
	assert.Equal(t, "2 request(s), 1000 in / 200 out tokens, 1 failed", tutorUsage(events))
}

const capitalsYAML = `
name: Capitals
type: mc
cards:
  - question: Capital of France?
    choices: [Berlin, Paris, Rome]
    answer: b
  - question: Capital of Italy?
    choices: [Rome, Madrid]
    answer: a
`

// execute runs the root command against a private database.
func execute(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	base := []string{
		"--db", filepath.Join(dir, "ankiquiz.db"),
		"--env-file", filepath.Join(dir, "missing.env"),
		"--seed", "7",
	}
	rootCmd.SetArgs(append(base, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestDatasetsImportListAndExportQuiz(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "capitals.yaml")
	require.NoError(t, os.WriteFile(src, []byte(capitalsYAML), 0o644))

	out, err := execute(t, dir, "datasets", "import", src)
	require.NoError(t, err)
	assert.Contains(t, out, `Imported "Capitals"`)

	out, err = execute(t, dir, "datasets", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Capitals")
	assert.Contains(t, out, "mc")

	st, err := store.Open(filepath.Join(dir, "ankiquiz.db"))
	require.NoError(t, err)
	sets, err := st.DatasetRepo().List(t.Context())
	require.NoError(t, err)
	require.NoError(t, st.Close())
	require.Len(t, sets, 1)

	exportDir := filepath.Join(dir, "out")
	out, err = execute(t, dir, "quiz", "new", "--dataset", sets[0].ID, "--type", "mc=2:10",
		"--minutes", "3", "--name", "Capitals", "--export", exportDir)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 2 questions (3 min)")

	path := filepath.Join(exportDir, quizfile.Filename("Capitals", time.Now()))
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	doc, err := quizfile.Read(f)
	require.NoError(t, err)
	assert.Len(t, doc.Quiz.Questions, 2)
	assert.Equal(t, 3*time.Minute, doc.DurationValue())

	out, err = execute(t, dir, "quiz", "check", path)
	require.NoError(t, err)
	assert.Contains(t, out, "2 questions")
}

func TestQuizCheckRejectsInvalidDocument(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"name": "x"}`), 0o644))

	out, err := execute(t, dir, "quiz", "check", bad)
	assert.Error(t, err)
	assert.Contains(t, out, "✗")
}

func TestDatasetsClearNeedsConfirmation(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, dir, "datasets", "clear")
	assert.ErrorContains(t, err, "--yes")
}
