//go:build cucumber

package quiz

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cucumber/godog"

	"github.com/cuongduong73/ankiquiz/internal/dataset"
	"github.com/cuongduong73/ankiquiz/internal/question"
	"github.com/cuongduong73/ankiquiz/internal/shuffle"
)

// TestLifecycleFeatures runs the quiz lifecycle scenarios via godog.
func TestLifecycleFeatures(t *testing.T) {
	suite := godog.TestSuite{
		Name:                "quiz-lifecycle",
		ScenarioInitializer: initializeLifecycleScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{filepath.Join("features", "lifecycle.feature")},
			Strict:   true,
			TestingT: t,
		},
	}
	if suite.Run() != 0 {
		t.Fatalf("non-zero godog status")
	}
}

func initializeLifecycleScenario(ctx *godog.ScenarioContext) {
	s := &lifecycleState{}
	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		s.reset()
		return ctx, nil
	})

	ctx.Step(`^a multiple choice dataset "([^"]+)" with (\d+) cards$`, s.givenMultipleChoiceDataset)
	ctx.Step(`^a short answer dataset "([^"]+)" with (\d+) cards$`, s.givenShortAnswerDataset)
	ctx.Step(`^I create a quiz from "([^"]+)" with (\d+) multiple choice questions worth ([\d.]+) points for (\d+) minutes$`, s.createQuiz)
	ctx.Step(`^I try to create a quiz from "([^"]+)" with (\d+) multiple choice questions worth ([\d.]+) points for (\d+) minutes$`, s.tryCreateQuiz)
	ctx.Step(`^creation fails with "([^"]+)"$`, s.creationFailsWith)
	ctx.Step(`^the quiz has (\d+) questions$`, s.quizHasQuestions)
	ctx.Step(`^every question is worth ([\d.]+) points$`, s.everyQuestionWorth)
	ctx.Step(`^the quiz phase is "([^"]+)"$`, s.phaseIs)
	ctx.Step(`^I start the quiz$`, s.start)
	ctx.Step(`^I answer every question correctly$`, s.answerAllCorrectly)
	ctx.Step(`^I answer question (\d+) correctly$`, s.answerCorrectly)
	ctx.Step(`^(\d+) seconds pass$`, s.secondsPass)
	ctx.Step(`^I submit the quiz$`, s.submit)
	ctx.Step(`^the score is ([\d.]+)$`, s.scoreIs)
	ctx.Step(`^(\d+) answers are correct and (\d+) incorrect$`, s.counts)
	ctx.Step(`^the time spent is (\d+) seconds$`, s.timeSpent)
	ctx.Step(`^I try to answer question (\d+)$`, s.tryAnswer)
	ctx.Step(`^the answer is rejected because the quiz is submitted$`, s.answerRejected)
	ctx.Step(`^I retry the quiz$`, s.retry)
	ctx.Step(`^no answers are recorded$`, s.noAnswers)
	ctx.Step(`^the correct choices are unchanged$`, s.correctChoicesUnchanged)
}

type lifecycleState struct {
	clock   *fakeClock
	manager *Manager
	sets    []dataset.Dataset
	created *QuizState
	result  *Result
	lastErr error
}

func (s *lifecycleState) reset() {
	s.clock = &fakeClock{now: time.Unix(1_700_000_000, 0)}
	s.manager = NewManager(WithShuffler(shuffle.NewSeeded(7)), WithClock(s.clock))
	s.sets = nil
	s.created = nil
	s.result = nil
	s.lastErr = nil
}

func (s *lifecycleState) givenMultipleChoiceDataset(id string, n int) error {
	cards := make([]dataset.Card, n)
	for i := range cards {
		cards[i] = dataset.Card{
			ID:       int64(i + 1),
			Question: fmt.Sprintf("%s %d", id, i),
			Choices:  []string{"w", "x", "y", "z"},
			Answer:   "c",
		}
	}
	s.sets = append(s.sets, dataset.Dataset{ID: id, Name: id, Type: dataset.TypeMultipleChoice, Cards: cards})
	return nil
}

func (s *lifecycleState) givenShortAnswerDataset(id string, n int) error {
	cards := make([]dataset.Card, n)
	for i := range cards {
		cards[i] = dataset.Card{Question: fmt.Sprintf("%s %d", id, i), Answer: "yes"}
	}
	s.sets = append(s.sets, dataset.Dataset{ID: id, Name: id, Type: dataset.TypeShortAnswer, Cards: cards})
	return nil
}

func (s *lifecycleState) tryCreateQuiz(id string, count int, points float64, minutes int) error {
	allocs := []TypeAllocation{{Type: dataset.TypeMultipleChoice, Count: count, TotalPoints: points}}
	s.created, s.lastErr = s.manager.CreateQuiz(s.sets, []string{id}, allocs, minutes)
	return nil
}

func (s *lifecycleState) createQuiz(id string, count int, points float64, minutes int) error {
	if err := s.tryCreateQuiz(id, count, points, minutes); err != nil {
		return err
	}
	return s.lastErr
}

func (s *lifecycleState) creationFailsWith(msg string) error {
	if s.lastErr == nil {
		return fmt.Errorf("expected creation to fail")
	}
	if !strings.Contains(s.lastErr.Error(), msg) {
		return fmt.Errorf("error = %q, want %q", s.lastErr, msg)
	}
	return nil
}

func (s *lifecycleState) quizHasQuestions(n int) error {
	if got := len(s.manager.State().Questions); got != n {
		return fmt.Errorf("questions = %d, want %d", got, n)
	}
	return nil
}

func (s *lifecycleState) everyQuestionWorth(points float64) error {
	for i, q := range s.manager.State().Questions {
		if math.Abs(q.MaxPoints()-points) > 1e-9 {
			return fmt.Errorf("question %d worth %v, want %v", i+1, q.MaxPoints(), points)
		}
	}
	return nil
}

func (s *lifecycleState) phaseIs(want string) error {
	if got := s.manager.Phase().String(); got != want {
		return fmt.Errorf("phase = %q, want %q", got, want)
	}
	return nil
}

func (s *lifecycleState) start() error {
	return s.manager.Start()
}

func (s *lifecycleState) answerCorrectly(n int) error {
	s.manager.GoTo(n - 1)
	q, _ := s.manager.Current()
	mc, ok := q.(*question.MultipleChoice)
	if !ok {
		return fmt.Errorf("question %d is %T", n, q)
	}
	return s.manager.SaveAnswer(question.ChoiceAnswer(mc.Answer))
}

func (s *lifecycleState) answerAllCorrectly() error {
	for i := range s.manager.State().Questions {
		if err := s.answerCorrectly(i + 1); err != nil {
			return err
		}
	}
	return nil
}

func (s *lifecycleState) secondsPass(n int) error {
	s.clock.Advance(time.Duration(n) * time.Second)
	return nil
}

func (s *lifecycleState) submit() error {
	r, err := s.manager.Submit()
	s.result = r
	return err
}

func (s *lifecycleState) scoreIs(want float64) error {
	if math.Abs(s.result.TotalScore-want) > 1e-9 {
		return fmt.Errorf("score = %v, want %v", s.result.TotalScore, want)
	}
	return nil
}

func (s *lifecycleState) counts(correct, incorrect int) error {
	if s.result.CorrectCount != correct || s.result.IncorrectCount != incorrect {
		return fmt.Errorf("correct/incorrect = %d/%d, want %d/%d",
			s.result.CorrectCount, s.result.IncorrectCount, correct, incorrect)
	}
	return nil
}

func (s *lifecycleState) timeSpent(secs int) error {
	if want := time.Duration(secs) * time.Second; s.result.TimeSpent != want {
		return fmt.Errorf("time spent = %v, want %v", s.result.TimeSpent, want)
	}
	return nil
}

func (s *lifecycleState) tryAnswer(n int) error {
	s.manager.GoTo(n - 1)
	s.lastErr = s.manager.SaveAnswer(question.ChoiceAnswer(0))
	return nil
}

func (s *lifecycleState) answerRejected() error {
	if !errors.Is(s.lastErr, ErrQuizSubmitted) {
		return fmt.Errorf("error = %v, want %v", s.lastErr, ErrQuizSubmitted)
	}
	return nil
}

func (s *lifecycleState) retry() error {
	_, err := s.manager.Retry()
	return err
}

func (s *lifecycleState) noAnswers() error {
	if n := len(s.manager.State().Answers); n != 0 {
		return fmt.Errorf("answers = %d, want 0", n)
	}
	return nil
}

func (s *lifecycleState) correctChoicesUnchanged() error {
	for i, q := range s.manager.State().Questions {
		mc := q.(*question.MultipleChoice)
		if mc.Choices[mc.Answer] != "y" {
			return fmt.Errorf("question %d: correct choice is %q, want %q", i+1, mc.Choices[mc.Answer], "y")
		}
	}
	return nil
}
