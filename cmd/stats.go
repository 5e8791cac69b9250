package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cuongduong73/ankiquiz/internal/dataset"
	"github.com/cuongduong73/ankiquiz/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize saved datasets and quiz results",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		ds, err := st.DatasetRepo().Stats(ctx)
		if err != nil {
			return fmt.Errorf("dataset stats: %w", err)
		}
		attempts, err := st.AttemptRepo().List(ctx, store.QueryOpts{})
		if err != nil {
			return fmt.Errorf("list attempts: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Datasets")
		fmt.Fprintln(out, strings.Repeat("─", 40))
		for _, t := range dataset.Types {
			if n := ds.ByType[t]; n > 0 {
				fmt.Fprintf(out, "%-24s  %6d cards\n", t, n)
			}
		}
		fmt.Fprintln(out, strings.Repeat("─", 40))
		fmt.Fprintf(out, "%-24s  %6d cards in %d dataset(s)\n", "TOTAL", ds.Cards, ds.Datasets)

		fmt.Fprintln(out)
		fmt.Fprintln(out, "Attempts")
		fmt.Fprintln(out, strings.Repeat("─", 40))
		if len(attempts) == 0 {
			fmt.Fprintln(out, "No attempts yet.")
			return nil
		}
		s := summarizeAttempts(attempts)
		fmt.Fprintf(out, "Taken:          %d\n", s.count)
		fmt.Fprintf(out, "Average score:  %.2f / 10\n", s.average)
		fmt.Fprintf(out, "Best score:     %.2f / 10\n", s.best)
		fmt.Fprintf(out, "Accuracy:       %.0f%% (%d of %d questions)\n", s.accuracy(), s.correct, s.questions)
		fmt.Fprintf(out, "Last attempt:   %s\n", attempts[0].SubmittedAt.Local().Format("2006-01-02 15:04"))
		return nil
	},
}

type attemptSummary struct {
	count     int
	average   float64
	best      float64
	correct   int
	questions int
}

func (s attemptSummary) accuracy() float64 {
	if s.questions == 0 {
		return 0
	}
	return float64(s.correct) / float64(s.questions) * 100
}

// summarizeAttempts scales every score to ten points before averaging.
func summarizeAttempts(attempts []store.Attempt) attemptSummary {
	var s attemptSummary
	var total float64
	for _, a := range attempts {
		score := 0.0
		if a.MaxScore > 0 {
			score = a.TotalScore / a.MaxScore * 10
		}
		total += score
		s.best = max(s.best, score)
		s.correct += a.CorrectCount
		s.questions += a.TotalQuestions
		s.count++
	}
	if s.count > 0 {
		s.average = total / float64(s.count)
	}
	return s
}
