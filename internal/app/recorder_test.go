package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuongduong73/ankiquiz/internal/question"
	"github.com/cuongduong73/ankiquiz/internal/quiz"
	"github.com/cuongduong73/ankiquiz/internal/store"
)

func loadedManager(t *testing.T) *quiz.Manager {
	t.Helper()
	m := quiz.NewManager()
	qs := []question.Question{
		&question.MultipleChoice{Question: "chó?", Choices: []string{"dog", "cat"}, Answer: 0, Points: 5},
		&question.ShortAnswer{Question: "mèo?", Answer: "cat", Points: 5},
	}
	_, err := m.LoadQuiz(qs, 5*time.Minute)
	require.NoError(t, err)
	require.NoError(t, m.Start())
	return m
}

func TestRecorderSavesSubmittedAttempt(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	defer st.Close()

	m := loadedManager(t)
	rec := newRecorder(m, st.AttemptRepo(), "")
	defer rec.Close()

	require.NoError(t, m.SaveAnswer(question.ChoiceAnswer(0)))
	res, err := m.Submit()
	require.NoError(t, err)
	assert.Empty(t, rec.Errors())

	got, err := st.AttemptRepo().Get(context.Background(), res.AttemptID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "mc+sa", got.Name)
	assert.Equal(t, 5.0, got.TotalScore)
	assert.Len(t, got.Outcomes, 2)
}

func TestRecorderStopsAfterClose(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	defer st.Close()

	m := loadedManager(t)
	rec := newRecorder(m, st.AttemptRepo(), "Animals")
	rec.Close()

	res, err := m.Submit()
	require.NoError(t, err)

	got, err := st.AttemptRepo().Get(context.Background(), res.AttemptID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRecorderWithoutRepo(t *testing.T) {
	m := loadedManager(t)
	rec := newRecorder(m, nil, "")
	defer rec.Close()

	_, err := m.Submit()
	require.NoError(t, err)
	assert.Empty(t, rec.Errors())
}
