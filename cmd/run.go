package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/cuongduong73/ankiquiz/internal/anki"
	"github.com/cuongduong73/ankiquiz/internal/app"
	"github.com/cuongduong73/ankiquiz/internal/config"
	"github.com/cuongduong73/ankiquiz/internal/explain"
	"github.com/cuongduong73/ankiquiz/internal/llm"
	"github.com/cuongduong73/ankiquiz/internal/quiz"
	"github.com/cuongduong73/ankiquiz/internal/screens/home"
	"github.com/cuongduong73/ankiquiz/internal/shuffle"
	"github.com/cuongduong73/ankiquiz/internal/store"
)

// defaultQuestionsPerType is used when no --type allocation is given.
const defaultQuestionsPerType = 5

// defaultMinutes is the quiz length when --minutes is not given.
const defaultMinutes = 15

// appRun tunes how runApp starts the TUI.
type appRun struct {
	setup     *home.Setup
	name      string
	exportDir string
	// load installs a quiz before the TUI starts, which then opens on it.
	load func(ctx context.Context, m *quiz.Manager, sets store.DatasetRepo) error
}

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command, run appRun) error {
	ctx := cmd.Context()
	st, cfg, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	m := newManager(cfg)
	defer m.Close()

	opts := app.Options{
		Manager:   m,
		Datasets:  st.DatasetRepo(),
		Attempts:  st.AttemptRepo(),
		Anki:      newAnkiClient(cfg),
		Name:      run.name,
		ExportDir: run.exportDir,
	}
	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}

	if run.setup != nil {
		opts.Setup = *run.setup
	}
	if opts.Setup.QuestionsPerType <= 0 {
		opts.Setup.QuestionsPerType = defaultQuestionsPerType
	}
	if opts.Setup.DurationMinutes <= 0 {
		opts.Setup.DurationMinutes = defaultMinutes
	}

	if cfg.LLMEnabled {
		provider, err := llm.NewProvider(ctx, cfg.LLM, st.EventRepo())
		if err != nil {
			fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
			fmt.Fprintln(os.Stderr, "Explanations will be unavailable.")
		} else {
			opts.Explainer = explain.NewService(provider, explain.DefaultConfig())
		}
	}

	if run.load != nil {
		if err := run.load(ctx, m, st.DatasetRepo()); err != nil {
			return err
		}
		opts.StartQuiz = true
	}

	return app.Run(opts)
}

func newManager(cfg config.Config) *quiz.Manager {
	var opts []quiz.Option
	if cfg.Seed != nil {
		opts = append(opts, quiz.WithShuffler(shuffle.NewSeeded(*cfg.Seed)))
	}
	return quiz.NewManager(opts...)
}

func newAnkiClient(cfg config.Config) *anki.Client {
	return anki.NewClient(cfg.AnkiURL, anki.WithHTTPClient(&http.Client{Timeout: cfg.AnkiTimeout}))
}
