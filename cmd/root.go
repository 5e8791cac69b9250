package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cuongduong73/ankiquiz/internal/config"
	"github.com/cuongduong73/ankiquiz/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "ankiquiz",
	Short: "Timed quizzes from Anki flashcards",
	Long:  "ankiquiz turns Anki notes and flashcard files into timed, scored quizzes in the terminal.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, appRun{})
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Database path or DSN (overrides ANKIQUIZ_DB)")
	rootCmd.PersistentFlags().String("driver", "", "Database driver: sqlite or postgres (overrides ANKIQUIZ_DB_DRIVER)")
	rootCmd.PersistentFlags().String("seed", "", "Shuffle seed for reproducible quizzes (overrides ANKIQUIZ_SEED)")
	rootCmd.PersistentFlags().String("env-file", ".env", "Optional .env file to load")

	rootCmd.AddCommand(datasetsCmd)
	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(ankiCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads .env, the environment and the persistent flags, in
// increasing priority.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	if err := config.LoadDotEnv(envFile); err != nil {
		return config.Config{}, err
	}
	cfg, err := config.FromEnv()
	if err != nil {
		return cfg, err
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DBPath = p
	}
	if d, _ := cmd.Flags().GetString("driver"); d != "" {
		cfg.DBDriver = d
	}
	if s, _ := cmd.Flags().GetString("seed"); s != "" {
		seed, err := config.ParseSeed(s)
		if err != nil {
			return cfg, err
		}
		cfg.Seed = &seed
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// openStore loads the configuration and opens the database it names.
func openStore(cmd *cobra.Command) (*store.Store, config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, cfg, err
	}
	dsn, err := cfg.ResolveDBPath()
	if err != nil {
		return nil, cfg, fmt.Errorf("resolve database path: %w", err)
	}
	if cfg.DBDriver == store.DriverSQLite {
		if err := store.EnsureDir(dsn); err != nil {
			return nil, cfg, fmt.Errorf("create database dir: %w", err)
		}
	}
	st, err := store.OpenDriver(cfg.DBDriver, dsn)
	if err != nil {
		return nil, cfg, fmt.Errorf("open database: %w", err)
	}
	return st, cfg, nil
}
