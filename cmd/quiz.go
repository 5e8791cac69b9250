package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cuongduong73/ankiquiz/internal/dataset"
	"github.com/cuongduong73/ankiquiz/internal/quiz"
	"github.com/cuongduong73/ankiquiz/internal/quizfile"
	"github.com/cuongduong73/ankiquiz/internal/screens/home"
	"github.com/cuongduong73/ankiquiz/internal/store"
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Create, export and take quizzes",
}

var quizNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a quiz from saved datasets",
	Long: `Create a quiz from saved datasets and start it.

Each --type gives a question type, how many questions to draw and the
points they share, for example --type mc=4:4 --type sa=2:6. The points of
all types must add up to 10. Without --type the points are split evenly
across the types of the selected datasets.

With --export the quiz is written to a JSON document instead of started.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		ids, _ := flags.GetStringSlice("dataset")
		specs, _ := flags.GetStringArray("type")
		minutes, _ := flags.GetInt("minutes")
		name, _ := flags.GetString("name")
		exportDir, _ := flags.GetString("export")

		allocs, err := parseAllocations(specs)
		if err != nil {
			return err
		}

		if exportDir == "" {
			setup := home.Setup{Allocations: allocs, DurationMinutes: minutes, Selected: ids}
			run := appRun{setup: &setup, name: name, exportDir: "."}
			if len(ids) > 0 {
				run.load = func(ctx context.Context, m *quiz.Manager, repo store.DatasetRepo) error {
					sets, err := repo.List(ctx)
					if err != nil {
						return fmt.Errorf("list datasets: %w", err)
					}
					if len(allocs) == 0 {
						allocs = quiz.EvenAllocations(dataset.Select(sets, ids), defaultQuestionsPerType)
					}
					_, err = m.CreateQuiz(sets, ids, allocs, minutes)
					return err
				}
			}
			return runApp(cmd, run)
		}

		if len(ids) == 0 {
			return quiz.ErrNoDatasets
		}
		st, cfg, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		sets, err := st.DatasetRepo().List(cmd.Context())
		if err != nil {
			return fmt.Errorf("list datasets: %w", err)
		}
		chosen := dataset.Select(sets, ids)
		if len(allocs) == 0 {
			allocs = quiz.EvenAllocations(chosen, defaultQuestionsPerType)
		}

		m := newManager(cfg)
		defer m.Close()
		state, err := m.CreateQuiz(sets, ids, allocs, minutes)
		if err != nil {
			return err
		}
		if name == "" {
			name = joinNames(chosen)
		}

		doc := quizfile.New(name, state.Questions, state.Duration, time.Now())
		path, err := doc.Save(exportDir, time.Now())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d questions (%s) to %s\n",
			len(state.Questions), formatMinutes(state.Duration), path)
		return nil
	},
}

var quizTakeCmd = &cobra.Command{
	Use:   "take <file>",
	Short: "Take a quiz from an exported document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := readDocument(args[0])
		if err != nil {
			return err
		}
		run := appRun{
			name:      doc.Name,
			exportDir: ".",
			load: func(_ context.Context, m *quiz.Manager, _ store.DatasetRepo) error {
				_, err := m.LoadQuiz(doc.Quiz.Questions, doc.DurationValue())
				return err
			},
		}
		return runApp(cmd, run)
	},
}

var quizCheckCmd = &cobra.Command{
	Use:   "check <file>...",
	Short: "Validate exported quiz documents",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var failed int
		for _, path := range args {
			doc, err := readDocument(path)
			if err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "✗ %s\n", err)
				failed++
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s: %q, %d questions, %s\n",
				path, doc.Name, len(doc.Quiz.Questions), formatMinutes(doc.DurationValue()))
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d document(s) invalid", failed, len(args))
		}
		return nil
	},
}

func readDocument(path string) (*quizfile.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	doc, err := quizfile.Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

func parseAllocations(specs []string) ([]quiz.TypeAllocation, error) {
	allocs := make([]quiz.TypeAllocation, 0, len(specs))
	for _, s := range specs {
		a, err := quiz.ParseAllocation(s)
		if err != nil {
			return nil, err
		}
		allocs = append(allocs, a)
	}
	return allocs, nil
}

func joinNames(sets []dataset.Dataset) string {
	names := make([]string, len(sets))
	for i, d := range sets {
		names[i] = d.Name
	}
	return strings.Join(names, " + ")
}

func formatMinutes(d time.Duration) string {
	return fmt.Sprintf("%d min", int(d/time.Minute))
}

func init() {
	f := quizNewCmd.Flags()
	f.StringSliceP("dataset", "d", nil, "Dataset ID to draw from (repeatable)")
	f.StringArrayP("type", "t", nil, "Allocation type=count:points, e.g. mc=4:4 (repeatable)")
	f.IntP("minutes", "m", defaultMinutes, "Time limit in minutes")
	f.String("name", "", "Quiz name (default: the dataset names)")
	f.String("export", "", "Write the quiz document to this directory instead of starting it")

	quizCmd.AddCommand(quizNewCmd)
	quizCmd.AddCommand(quizTakeCmd)
	quizCmd.AddCommand(quizCheckCmd)
}
