package attempt

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/cuongduong73/ankiquiz/internal/dataset"
	"github.com/cuongduong73/ankiquiz/internal/question"
	"github.com/cuongduong73/ankiquiz/internal/ui/components"
	"github.com/cuongduong73/ankiquiz/internal/ui/theme"
)

func (s *QuizScreen) View(width, height int) string {
	st := s.deps.Manager.State()
	if st == nil {
		return renderMessage(width, s.errMsg, "No quiz loaded.")
	}
	q, idx := s.deps.Manager.Current()
	cw := components.ContentWidth(width)

	var b strings.Builder

	info := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
		Render(fmt.Sprintf("%s  ·  %s pts", q.Type(), formatPoints(q.MaxPoints())))
	answered := lipgloss.NewStyle().Foreground(theme.TextDim).
		Render(fmt.Sprintf("%d/%d answered", st.AnsweredCount(), len(st.Questions)))
	pad := max(cw-lipgloss.Width(info)-lipgloss.Width(answered), 1)
	b.WriteString(info + strings.Repeat(" ", pad) + answered)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", cw)))
	b.WriteString("\n\n")

	b.WriteString(theme.Body.Bold(true).Width(cw).Render(dataset.StripTags(question.Prompt(q))))
	b.WriteString("\n\n")

	switch q.(type) {
	case *question.MultipleChoice, *question.Definition:
		b.WriteString(s.choices.View(cw))
	case *question.TrueFalse, *question.TrueFalseStatement:
		b.WriteString(s.stmts.View(cw))
	case *question.ShortAnswer:
		b.WriteString(s.input.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if 2*len(st.Questions) <= cw {
		b.WriteString(renderDots(st.Questions, st.Answers, idx))
	} else {
		b.WriteString(components.NewAnsweredBar(st.AnsweredCount(), len(st.Questions), cw).View())
	}
	b.WriteString("\n")

	switch s.confirm {
	case confirmSubmit:
		left := len(st.Questions) - st.AnsweredCount()
		prompt := "Submit your answers?"
		if left > 0 {
			prompt = fmt.Sprintf("%d question(s) unanswered. Submit anyway?", left)
		}
		b.WriteString("\n" + theme.Warning.Render(prompt+" (y/n)"))
	case confirmLeave:
		b.WriteString("\n" + theme.Warning.Render("Leave the quiz? Your answers will be lost. (y/n)"))
	}
	if s.errMsg != "" {
		b.WriteString("\n" + theme.Incorrect.Render(s.errMsg))
	}

	return components.Center(components.Card(b.String(), cw+4, false), width)
}

// renderDots draws one marker per question: filled when answered, the
// current question highlighted.
func renderDots(qs []question.Question, answers map[int]question.Answer, current int) string {
	var b strings.Builder
	for i := range qs {
		dot := "○"
		style := lipgloss.NewStyle().Foreground(theme.TextDim)
		if question.Answered(answers[i]) {
			dot = "●"
			style = lipgloss.NewStyle().Foreground(theme.Secondary)
		}
		if i == current {
			style = theme.Selected
		}
		b.WriteString(style.Render(dot))
		b.WriteString(" ")
	}
	return b.String()
}

func renderMessage(width int, errMsg, fallback string) string {
	if errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render("\n\nError: " + errMsg)
	}
	return lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
		Render("\n\n" + fallback)
}

func formatPoints(p float64) string {
	s := fmt.Sprintf("%.2f", p)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
