package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cuongduong73/ankiquiz/internal/llm"
	"github.com/cuongduong73/ankiquiz/internal/question"
	"github.com/cuongduong73/ankiquiz/internal/quiz"
	"github.com/cuongduong73/ankiquiz/internal/store"
	"github.com/cuongduong73/ankiquiz/internal/ui/layout"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show submitted quiz attempts",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		st, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		attempts, err := st.AttemptRepo().List(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("list attempts: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(attempts) == 0 {
			fmt.Fprintln(out, "No attempts yet.")
			return nil
		}

		fmt.Fprintf(out, "%-8s  %-16s  %-28s  %11s  %9s  %6s\n",
			"ID", "Submitted", "Name", "Score", "Correct", "Time")
		fmt.Fprintln(out, strings.Repeat("─", 88))
		for _, a := range attempts {
			fmt.Fprintf(out, "%-8s  %-16s  %-28s  %5.2f/%-5.0f  %4d/%-4d  %6s\n",
				shortID(a.ID),
				a.SubmittedAt.Local().Format("2006-01-02 15:04"),
				truncate(a.Name, 28),
				a.TotalScore, a.MaxScore,
				a.CorrectCount, a.TotalQuestions,
				layout.FormatCountdown(a.TimeSpent),
			)
		}
		return nil
	},
}

var historyViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show every question of an attempt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		a, err := findAttempt(cmd.Context(), st.AttemptRepo(), args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		sep := strings.Repeat("─", 60)
		fmt.Fprintf(out, "ID:        %s\n", a.ID)
		fmt.Fprintf(out, "Name:      %s\n", a.Name)
		fmt.Fprintf(out, "Started:   %s\n", a.StartedAt.Local().Format("2006-01-02 15:04:05"))
		fmt.Fprintf(out, "Submitted: %s\n", a.SubmittedAt.Local().Format("2006-01-02 15:04:05"))
		fmt.Fprintf(out, "Time:      %s of %s\n", layout.FormatCountdown(a.TimeSpent), layout.FormatCountdown(a.Duration))
		fmt.Fprintf(out, "Score:     %.2f / %.0f (%d correct, %d incorrect)\n",
			a.TotalScore, a.MaxScore, a.CorrectCount, a.IncorrectCount)
		fmt.Fprintln(out, sep)

		for _, o := range a.Outcomes {
			fmt.Fprintf(out, "%s %d. %s\n", mark(o.Correct), o.Index+1, o.Prompt)
			fmt.Fprintf(out, "     answer:   %s\n", o.Answer)
			if !o.Correct {
				fmt.Fprintf(out, "     solution: %s\n", o.Solution)
			}
			fmt.Fprintf(out, "     points:   %.2f / %.2f\n", o.Points, o.MaxPoints)
		}

		events, err := st.EventRepo().QueryLLMRequests(cmd.Context(), store.QueryOpts{AttemptID: a.ID})
		if err != nil {
			return fmt.Errorf("query LLM requests: %w", err)
		}
		if len(events) > 0 {
			fmt.Fprintln(out, sep)
			fmt.Fprintf(out, "Tutor:     %s\n", tutorUsage(events))
		}
		return nil
	},
}

// tutorUsage summarizes the explanation requests made for one attempt.
func tutorUsage(events []store.LLMRequestEvent) string {
	var in, outTok, failed int
	var cost float64
	priced := true
	for _, e := range events {
		in += e.InputTokens
		outTok += e.OutputTokens
		if !e.Success {
			failed++
		}
		if c := llm.LookupCost(e.Model); c != nil {
			cost += c.Cost(e.InputTokens, e.OutputTokens)
		} else {
			priced = false
		}
	}
	line := fmt.Sprintf("%d request(s), %d in / %d out tokens", len(events), in, outTok)
	if failed > 0 {
		line += fmt.Sprintf(", %d failed", failed)
	}
	if priced {
		line += ", " + formatCost(cost)
	}
	return line
}

var historyRetakeCmd = &cobra.Command{
	Use:   "retake <id>",
	Short: "Take the questions of a past attempt again",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		a, err := findAttempt(cmd.Context(), st.AttemptRepo(), args[0])
		st.Close()
		if err != nil {
			return err
		}
		var qs question.List
		if err := json.Unmarshal(a.Questions, &qs); err != nil {
			return fmt.Errorf("attempt %s: decode questions: %w", a.ID, err)
		}
		run := appRun{
			name:      a.Name,
			exportDir: ".",
			load: func(_ context.Context, m *quiz.Manager, _ store.DatasetRepo) error {
				_, err := m.LoadQuiz(qs, a.Duration)
				return err
			},
		}
		return runApp(cmd, run)
	},
}

// findAttempt resolves a full attempt ID or a unique prefix of one, as
// printed by the history listing.
func findAttempt(ctx context.Context, repo store.AttemptRepo, id string) (*store.Attempt, error) {
	a, err := repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get attempt: %w", err)
	}
	if a != nil {
		return a, nil
	}

	all, err := repo.List(ctx, store.QueryOpts{})
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	var match *store.Attempt
	for i := range all {
		if !strings.HasPrefix(all[i].ID, id) {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("attempt id %q is ambiguous", id)
		}
		match = &all[i]
	}
	if match == nil {
		return nil, fmt.Errorf("attempt %s not found", id)
	}
	return match, nil
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of attempts to show")

	historyCmd.AddCommand(historyViewCmd)
	historyCmd.AddCommand(historyRetakeCmd)
}
