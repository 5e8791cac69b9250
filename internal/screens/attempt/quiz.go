package attempt

import (
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/cuongduong73/ankiquiz/internal/dataset"
	"github.com/cuongduong73/ankiquiz/internal/question"
	"github.com/cuongduong73/ankiquiz/internal/quiz"
	"github.com/cuongduong73/ankiquiz/internal/router"
	"github.com/cuongduong73/ankiquiz/internal/screen"
	"github.com/cuongduong73/ankiquiz/internal/ui/components"
	"github.com/cuongduong73/ankiquiz/internal/ui/layout"
)

type confirmKind int

const (
	confirmNone confirmKind = iota
	confirmSubmit
	confirmLeave
)

// QuizScreen shows one question at a time and collects answers until the
// learner submits or the time runs out.
type QuizScreen struct {
	deps      Deps
	timerOpts []quiz.TimerOption

	timer     *quiz.Timer
	timerMsgs chan tea.Msg
	done      chan struct{}
	remaining time.Duration

	index   int
	choices components.ChoiceList
	stmts   components.StatementList
	input   components.TextInput

	confirm confirmKind
	errMsg  string
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.StatusProvider = (*QuizScreen)(nil)
var _ screen.BackHandler = (*QuizScreen)(nil)

// NewQuiz creates the quiz screen for the quiz loaded in deps.Manager.
func NewQuiz(deps Deps, timerOpts ...quiz.TimerOption) *QuizScreen {
	return &QuizScreen{
		deps:      deps,
		timerOpts: timerOpts,
		index:     -1,
	}
}

func (s *QuizScreen) Init() tea.Cmd {
	m := s.deps.Manager
	if err := m.Start(); err != nil {
		s.errMsg = err.Error()
		return nil
	}
	st := m.State()

	s.timerMsgs = make(chan tea.Msg, 4)
	s.done = make(chan struct{})
	msgs, done := s.timerMsgs, s.done
	s.timer = quiz.NewTimer(st.Duration,
		func(rem time.Duration) {
			select {
			case msgs <- timerTickMsg{Remaining: rem}:
			default:
			}
		},
		func() {
			select {
			case msgs <- timerExpiredMsg{}:
			case <-done:
			}
		},
		s.timerOpts...,
	)
	s.remaining = st.Duration
	s.load()
	s.timer.Start()
	return s.waitForTimer()
}

// waitForTimer delivers the next timer message to the update loop. It
// gives up with no message once the timer is stopped.
func (s *QuizScreen) waitForTimer() tea.Cmd {
	msgs, done := s.timerMsgs, s.done
	if done == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case msg := <-msgs:
			return msg
		case <-done:
			return nil
		}
	}
}

func (s *QuizScreen) stopTimer() {
	if s.timer != nil {
		s.timer.Stop()
	}
	if s.done != nil {
		close(s.done)
		s.done = nil
	}
}

func (s *QuizScreen) Title() string {
	st := s.deps.Manager.State()
	if st == nil {
		return "Quiz"
	}
	return fmt.Sprintf("Question %d of %d", st.CurrentIndex+1, len(st.Questions))
}

func (s *QuizScreen) Status() string {
	if s.timer == nil {
		return ""
	}
	return "⏱ " + layout.FormatCountdown(s.remaining) + "  "
}

// HandlesBack keeps Esc inside the quiz so it can ask before leaving.
func (s *QuizScreen) HandlesBack() bool { return true }

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	if s.confirm != confirmNone {
		return []layout.KeyHint{
			{Key: "Y", Description: "Yes"},
			{Key: "N", Description: "No"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "Tab/Shift+Tab", Description: "Next/Prev"},
	}
	q, _ := s.deps.Manager.Current()
	switch q.(type) {
	case *question.MultipleChoice, *question.Definition:
		hints = append(hints, layout.KeyHint{Key: "↑↓ Enter", Description: "Choose"})
	case *question.TrueFalse, *question.TrueFalseStatement:
		hints = append(hints, layout.KeyHint{Key: "↑↓ T/F", Description: "Verdict"})
	}
	return append(hints,
		layout.KeyHint{Key: "Ctrl+S", Description: "Submit"},
		layout.KeyHint{Key: "Esc", Description: "Leave"},
	)
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case timerTickMsg:
		s.remaining = msg.Remaining
		s.deps.Manager.UpdateTimer(msg.Remaining)
		return s, s.waitForTimer()

	case timerExpiredMsg:
		s.remaining = 0
		s.deps.Manager.UpdateTimer(0)
		return s, s.submit()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.isText() {
		var cmd tea.Cmd
		s.input, cmd, _ = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.confirm != confirmNone {
		switch key {
		case "y", "Y", "enter":
			kind := s.confirm
			s.confirm = confirmNone
			if kind == confirmSubmit {
				return s, s.submit()
			}
			s.stopTimer()
			s.deps.Manager.Reset()
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "n", "N", "esc":
			s.confirm = confirmNone
		}
		return s, nil
	}

	switch key {
	case "ctrl+s":
		s.confirm = confirmSubmit
		return s, nil
	case "esc":
		s.confirm = confirmLeave
		return s, nil
	case "tab", "pgdown":
		s.deps.Manager.Next()
		return s, s.load()
	case "shift+tab", "pgup":
		s.deps.Manager.Prev()
		return s, s.load()
	}

	q, _ := s.deps.Manager.Current()
	switch q.(type) {
	case *question.MultipleChoice, *question.Definition:
		return s, s.handleChoiceKey(key, msg)
	case *question.TrueFalse, *question.TrueFalseStatement:
		return s, s.handleStatementKey(key, msg)
	case *question.ShortAnswer:
		var cmd tea.Cmd
		var changed bool
		s.input, cmd, changed = s.input.Update(msg)
		if changed {
			if err := s.deps.Manager.SaveAnswer(question.TextAnswer(s.input.Value())); err != nil {
				s.errMsg = err.Error()
			}
		}
		return s, cmd
	}
	return s, nil
}

func (s *QuizScreen) handleChoiceKey(key string, msg tea.KeyMsg) tea.Cmd {
	switch key {
	case "right", "n":
		s.deps.Manager.Next()
		return s.load()
	case "left", "p":
		s.deps.Manager.Prev()
		return s.load()
	case "enter", "space", " ":
		s.choose(s.choices.Cursor)
		return nil
	}
	if len(key) == 1 {
		if i := int(key[0] - 'a'); i >= 0 && i < len(s.choices.Options) {
			s.choices.Cursor = i
			s.choose(i)
			return nil
		}
	}
	s.choices = s.choices.Update(msg)
	return nil
}

func (s *QuizScreen) choose(i int) {
	if err := s.deps.Manager.SaveAnswer(question.ChoiceAnswer(i)); err != nil {
		s.errMsg = err.Error()
		return
	}
	s.choices.Chosen = i
}

func (s *QuizScreen) handleStatementKey(key string, msg tea.KeyMsg) tea.Cmd {
	switch key {
	case "right", "n":
		s.deps.Manager.Next()
		return s.load()
	case "left", "p":
		s.deps.Manager.Prev()
		return s.load()
	case "t", "T", "1":
		s.verdict(true)
	case "f", "F", "0":
		s.verdict(false)
	case "space", " ", "enter":
		if len(s.stmts.Rows) > 0 {
			row := s.stmts.Rows[s.stmts.Cursor]
			s.verdict(row.Value == nil || !*row.Value)
		}
	default:
		s.stmts = s.stmts.Update(msg)
	}
	return nil
}

func (s *QuizScreen) verdict(v bool) {
	if len(s.stmts.Rows) == 0 {
		return
	}
	if err := s.deps.Manager.SaveStatement(s.stmts.Cursor, v); err != nil {
		s.errMsg = err.Error()
		return
	}
	s.stmts.Rows[s.stmts.Cursor].Value = &v
	if s.stmts.Cursor < len(s.stmts.Rows)-1 {
		s.stmts.Cursor++
	}
}

func (s *QuizScreen) isText() bool {
	q, _ := s.deps.Manager.Current()
	_, ok := q.(*question.ShortAnswer)
	return ok
}

// load rebuilds the answer widget for the current question from the
// stored answer.
func (s *QuizScreen) load() tea.Cmd {
	q, idx := s.deps.Manager.Current()
	if idx == s.index {
		return nil
	}
	s.index = idx
	s.errMsg = ""
	a := s.deps.Manager.Answer(idx)

	switch q := q.(type) {
	case *question.MultipleChoice:
		s.choices = components.NewChoiceList(plain(q.Choices), chosenIndex(a))
	case *question.Definition:
		s.choices = components.NewChoiceList(plain(q.Choices), chosenIndex(a))
	case *question.TrueFalse:
		s.stmts = statementRows(q.Statements, a)
	case *question.TrueFalseStatement:
		s.stmts = statementRows(q.Statements, a)
	case *question.ShortAnswer:
		text, _ := a.(question.TextAnswer)
		s.input = components.NewTextInput("Type your answer...", string(text), 50)
		return s.input.Init()
	}
	return nil
}

// submit stops the clock, scores the attempt and swaps in the result
// screen.
func (s *QuizScreen) submit() tea.Cmd {
	s.stopTimer()
	res, err := s.deps.Manager.Submit()
	if err != nil {
		s.errMsg = err.Error()
		return nil
	}
	next := NewResult(s.deps, res, s.timerOpts...)
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func plain(items []string) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = dataset.StripTags(it)
	}
	return out
}

func chosenIndex(a question.Answer) int {
	if c, ok := a.(question.ChoiceAnswer); ok {
		return int(c)
	}
	return -1
}

func statementRows(stmts []question.Statement, a question.Answer) components.StatementList {
	tf, _ := a.(question.TFAnswer)
	rows := make([]components.Verdict, len(stmts))
	for i, st := range stmts {
		rows[i] = components.Verdict{Text: dataset.StripTags(st.Text), Expected: bool(st.Answer)}
		if v, ok := tf[i]; ok {
			rows[i].Value = &v
		}
	}
	return components.StatementList{Rows: rows}
}
