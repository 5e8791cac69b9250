package attempt

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/cuongduong73/ankiquiz/internal/dataset"
	"github.com/cuongduong73/ankiquiz/internal/explain"
	"github.com/cuongduong73/ankiquiz/internal/llm"
	"github.com/cuongduong73/ankiquiz/internal/question"
	"github.com/cuongduong73/ankiquiz/internal/quiz"
	"github.com/cuongduong73/ankiquiz/internal/quizfile"
	"github.com/cuongduong73/ankiquiz/internal/router"
	"github.com/cuongduong73/ankiquiz/internal/screen"
	"github.com/cuongduong73/ankiquiz/internal/ui/components"
	"github.com/cuongduong73/ankiquiz/internal/ui/layout"
	"github.com/cuongduong73/ankiquiz/internal/ui/theme"
)

const explainTimeout = 2 * time.Minute

// ResultScreen shows the score and a filterable review of every question.
type ResultScreen struct {
	deps      Deps
	timerOpts []quiz.TimerOption
	result    *quiz.Result

	filter   quiz.Filter
	selected int

	explanations map[int]explain.Explanation
	explaining   bool
	notice       string
	errMsg       string
}

var _ screen.Screen = (*ResultScreen)(nil)
var _ screen.KeyHintProvider = (*ResultScreen)(nil)
var _ screen.StatusProvider = (*ResultScreen)(nil)

// NewResult creates the result screen for a submitted attempt.
func NewResult(deps Deps, res *quiz.Result, timerOpts ...quiz.TimerOption) *ResultScreen {
	return &ResultScreen{
		deps:         deps,
		timerOpts:    timerOpts,
		result:       res,
		explanations: make(map[int]explain.Explanation),
	}
}

func (s *ResultScreen) Init() tea.Cmd {
	return nil
}

func (s *ResultScreen) Title() string {
	return "Results"
}

func (s *ResultScreen) Status() string {
	return fmt.Sprintf("%s / %s  ", formatPoints(s.result.TotalScore), formatPoints(s.result.MaxScore))
}

func (s *ResultScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Review"},
		{Key: "F", Description: "Filter: " + s.filter.String()},
		{Key: "R", Description: "Retry"},
		{Key: "S", Description: "Export"},
	}
	if s.deps.Explainer != nil {
		hints = append(hints, layout.KeyHint{Key: "E/A", Description: "Explain/all"})
	}
	if s.deps.Anki != nil {
		hints = append(hints, layout.KeyHint{Key: "O", Description: "Open in Anki"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Done"})
}

func (s *ResultScreen) visible() []quiz.QuestionResult {
	return s.result.Filtered(s.filter)
}

func (s *ResultScreen) current() (quiz.QuestionResult, bool) {
	items := s.visible()
	if s.selected < 0 || s.selected >= len(items) {
		return quiz.QuestionResult{}, false
	}
	return items[s.selected], true
}

func (s *ResultScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case explainDoneMsg:
		s.explaining = false
		for _, e := range msg.Explanations {
			s.explanations[e.Index] = e
		}
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.notice = fmt.Sprintf("%d explanation(s) ready", len(msg.Explanations))
		}
		return s, nil

	case exportDoneMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.notice = "Exported to " + msg.Path
		}
		return s, nil

	case noteOpenedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.notice = fmt.Sprintf("Opened note %d in Anki", msg.NoteID)
		}
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *ResultScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	s.errMsg = ""
	switch msg.String() {
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < len(s.visible())-1 {
			s.selected++
		}
	case "f":
		s.filter = s.filter.Next()
		s.selected = 0
	case "r":
		if _, err := s.deps.Manager.Retry(); err != nil {
			s.errMsg = err.Error()
			return s, nil
		}
		next := NewQuiz(s.deps, s.timerOpts...)
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
	case "s":
		return s, s.export()
	case "e":
		if qr, ok := s.current(); ok {
			return s, s.explainOne(qr)
		}
	case "a":
		return s, s.explainAll()
	case "o":
		if qr, ok := s.current(); ok {
			return s, s.openNote(qr)
		}
	case "esc", "q":
		s.deps.Manager.Reset()
		return s, func() tea.Msg { return router.PopToRootMsg{} }
	}
	return s, nil
}

func (s *ResultScreen) export() tea.Cmd {
	st := s.deps.Manager.State()
	if st == nil {
		s.errMsg = quiz.ErrNoQuiz.Error()
		return nil
	}
	doc := quizfile.New(s.deps.Name, st.Questions, st.Duration, time.Now())
	dir := s.deps.ExportDir
	return func() tea.Msg {
		path, err := doc.Save(dir, time.Now())
		return exportDoneMsg{Path: path, Err: err}
	}
}

func (s *ResultScreen) explainOne(qr quiz.QuestionResult) tea.Cmd {
	if s.deps.Explainer == nil || s.explaining {
		return nil
	}
	if _, done := s.explanations[qr.Index]; done {
		return nil
	}
	s.explaining = true
	s.notice = "Asking the tutor..."
	svc, attemptID := s.deps.Explainer, s.result.AttemptID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(llm.WithAttempt(context.Background(), attemptID), explainTimeout)
		defer cancel()
		e, err := svc.Explain(ctx, qr)
		if err != nil {
			return explainDoneMsg{Err: err}
		}
		return explainDoneMsg{Explanations: []explain.Explanation{*e}}
	}
}

func (s *ResultScreen) explainAll() tea.Cmd {
	if s.deps.Explainer == nil || s.explaining {
		return nil
	}
	if s.result.IncorrectCount == 0 {
		s.notice = "Nothing to explain"
		return nil
	}
	s.explaining = true
	s.notice = "Asking the tutor..."
	svc, res := s.deps.Explainer, s.result
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), explainTimeout)
		defer cancel()
		es, err := svc.ExplainAll(ctx, res)
		return explainDoneMsg{Explanations: es, Err: err}
	}
}

func (s *ResultScreen) openNote(qr quiz.QuestionResult) tea.Cmd {
	if s.deps.Anki == nil {
		return nil
	}
	ids := question.NoteIDs(qr.Question)
	if len(ids) == 0 {
		s.errMsg = "this question has no Anki note"
		return nil
	}
	client, id := s.deps.Anki, ids[0]
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return noteOpenedMsg{NoteID: id, Err: client.OpenNote(ctx, id)}
	}
}

func (s *ResultScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	res := s.result

	var head strings.Builder
	head.WriteString(theme.Title.Width(cw).Render(fmt.Sprintf("Score  %s / %s", formatPoints(res.TotalScore), formatPoints(res.MaxScore))))
	head.WriteString("\n")
	head.WriteString(components.NewScoreBar(res.Percent(), cw).View())
	head.WriteString("\n")
	head.WriteString(theme.Subtitle.Width(cw).Render(fmt.Sprintf(
		"%s %d correct   %s %d incorrect   time %s",
		theme.Correct.Render("✓"), res.CorrectCount,
		theme.Incorrect.Render("✗"), res.IncorrectCount,
		layout.FormatCountdown(res.TimeSpent),
	)))
	header := components.Card(head.String(), cw+4, true)

	items := s.visible()
	var list strings.Builder
	list.WriteString(theme.Hint.Render(fmt.Sprintf("Showing %s (%d)", s.filter, len(items))))
	list.WriteString("\n\n")
	if len(items) == 0 {
		list.WriteString(theme.Hint.Render("No questions match this filter."))
		list.WriteString("\n")
	}

	budget := max(height-lipgloss.Height(header)-6, 4)
	start := 0
	if s.selected >= budget/2 {
		start = s.selected - budget/2
	}
	used := 0
	for i := start; i < len(items) && used < budget; i++ {
		block := s.renderItem(items[i], i == s.selected, cw)
		used += lipgloss.Height(block)
		list.WriteString(block)
		list.WriteString("\n")
	}

	if s.notice != "" {
		list.WriteString(theme.Hint.Render(s.notice) + "\n")
	}
	if s.errMsg != "" {
		list.WriteString(theme.Incorrect.Render("Error: "+s.errMsg) + "\n")
	}

	return components.Center(header, width) + "\n" + components.Center(lipgloss.NewStyle().Width(cw).Render(list.String()), width)
}

func (s *ResultScreen) renderItem(qr quiz.QuestionResult, selected bool, cw int) string {
	mark := theme.Correct.Render("✓")
	if !qr.Correct {
		mark = theme.Incorrect.Render("✗")
	}
	prompt := dataset.StripTags(question.Prompt(qr.Question))
	line := fmt.Sprintf("%s %d. %s", mark, qr.Index+1, truncate(prompt, cw-16))
	pts := fmt.Sprintf("%s/%s", formatPoints(qr.Points), formatPoints(qr.Question.MaxPoints()))

	style := theme.Unselected
	if selected {
		style = theme.Selected
	}
	pad := max(cw-lipgloss.Width(line)-lipgloss.Width(pts), 1)
	out := style.Render(line + strings.Repeat(" ", pad) + pts)
	if !selected {
		return out
	}

	var b strings.Builder
	b.WriteString(out + "\n")
	detail := lipgloss.NewStyle().PaddingLeft(4).Width(cw)
	if len([]rune(prompt)) > cw-16 {
		b.WriteString(detail.Foreground(theme.Text).Render(prompt) + "\n")
	}
	b.WriteString(detail.Foreground(theme.TextDim).Render("Your answer:    "+dataset.StripTags(question.FormatAnswer(qr.Question, qr.Answer))) + "\n")
	b.WriteString(detail.Foreground(theme.Success).Render("Correct answer: "+dataset.StripTags(question.Solution(qr.Question))) + "\n")
	if extra := dataset.StripTags(question.Extra(qr.Question)); extra != "" {
		b.WriteString(detail.Foreground(theme.TextDim).Italic(true).Render(extra) + "\n")
	}
	if e, ok := s.explanations[qr.Index]; ok {
		b.WriteString(detail.Foreground(theme.Secondary).Render(e.Summary) + "\n")
		b.WriteString(detail.Foreground(theme.Text).Render(e.Explanation) + "\n")
		if e.Mistake != "" {
			b.WriteString(detail.Foreground(theme.Accent).Render("Likely mistake: "+e.Mistake) + "\n")
		}
		if e.Mnemonic != "" {
			b.WriteString(detail.Foreground(theme.Primary).Render("Remember: "+e.Mnemonic) + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 1 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
