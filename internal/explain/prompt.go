package explain

import (
	"fmt"
	"strings"

	"github.com/cuongduong73/ankiquiz/internal/dataset"
	"github.com/cuongduong73/ankiquiz/internal/question"
)

const systemPrompt = `You are a patient tutor reviewing a learner's flashcard quiz. For each question they missed, explain the correct answer briefly and concretely. Use plain text without markdown.`

func buildUserMessage(q question.Question, a question.Answer, language string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Question type: %s\n", q.Type())
	fmt.Fprintf(&b, "Question: %s\n", dataset.StripTags(question.Prompt(q)))

	if opts := options(q); len(opts) > 0 {
		b.WriteString("\nOptions:\n")
		for _, o := range opts {
			fmt.Fprintf(&b, "- %s\n", o)
		}
	}

	fmt.Fprintf(&b, "\nCorrect answer: %s\n", question.Solution(q))
	if question.Answered(a) {
		fmt.Fprintf(&b, "Learner's answer: %s\n", question.FormatAnswer(q, a))
	} else {
		b.WriteString("Learner's answer: (no answer)\n")
	}
	if extra := dataset.StripTags(question.Extra(q)); extra != "" {
		fmt.Fprintf(&b, "\nCard notes: %s\n", extra)
	}

	b.WriteString("\nInstructions:\n")
	b.WriteString("Explain why the correct answer is right. If the learner answered, say what their choice suggests they confused.")
	if language != "" {
		fmt.Fprintf(&b, " Write in %s.", language)
	} else {
		b.WriteString(" Write in the language of the question.")
	}
	return b.String()
}

// options lists the lettered choices or numbered statements of q.
func options(q question.Question) []string {
	var out []string
	switch v := q.(type) {
	case *question.TrueFalseStatement:
		for i, s := range v.Statements {
			out = append(out, fmt.Sprintf("%d. %s", i+1, dataset.StripTags(s.Text)))
		}
	case *question.TrueFalse:
		for i, s := range v.Statements {
			out = append(out, fmt.Sprintf("%d. %s", i+1, dataset.StripTags(s.Text)))
		}
	case *question.MultipleChoice:
		for i, c := range v.Choices {
			out = append(out, question.Letter(i)+". "+dataset.StripTags(c))
		}
	case *question.Definition:
		for i, c := range v.Choices {
			out = append(out, question.Letter(i)+". "+dataset.StripTags(c))
		}
	}
	return out
}
