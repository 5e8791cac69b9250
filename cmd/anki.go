package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cuongduong73/ankiquiz/internal/anki"
)

var ankiCmd = &cobra.Command{
	Use:   "anki",
	Short: "Inspect the Anki collection through AnkiConnect",
}

var ankiStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check that AnkiConnect is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		v, err := newAnkiClient(cfg).Version(cmd.Context())
		if err != nil {
			return fmt.Errorf("AnkiConnect at %s: %w", cfg.AnkiURL, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "AnkiConnect %d at %s\n", v, cfg.AnkiURL)
		return nil
	},
}

// listCommand builds a subcommand that prints one name per line.
func listCommand(use, short string, args cobra.PositionalArgs, fetch func(cmd *cobra.Command, c *anki.Client, args []string) ([]string, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			names, err := fetch(cmd, newAnkiClient(cfg), args)
			if err != nil {
				return err
			}
			if len(names) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "(none)")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(names, "\n"))
			return nil
		},
	}
}

var ankiDecksCmd = listCommand("decks", "List deck names", cobra.NoArgs,
	func(cmd *cobra.Command, c *anki.Client, _ []string) ([]string, error) {
		return c.DeckNames(cmd.Context())
	})

var ankiModelsCmd = listCommand("models", "List note types", cobra.NoArgs,
	func(cmd *cobra.Command, c *anki.Client, _ []string) ([]string, error) {
		return c.ModelNames(cmd.Context())
	})

var ankiFieldsCmd = listCommand("fields <note-type>", "List the fields of a note type", cobra.ExactArgs(1),
	func(cmd *cobra.Command, c *anki.Client, args []string) ([]string, error) {
		return c.ModelFieldNames(cmd.Context(), args[0])
	})

var ankiTagsCmd = listCommand("tags", "List tags", cobra.NoArgs,
	func(cmd *cobra.Command, c *anki.Client, _ []string) ([]string, error) {
		return c.Tags(cmd.Context())
	})

var ankiCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Count the notes an import would read",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		deck, _ := cmd.Flags().GetString("deck")
		noteType, _ := cmd.Flags().GetString("note-type")
		tags, _ := cmd.Flags().GetStringSlice("tag")
		studied, _ := cmd.Flags().GetBool("studied")

		q := anki.Query{Deck: deck, NoteType: noteType, Tags: tags, OnlyStudied: studied}
		ids, err := newAnkiClient(cfg).FindNotes(cmd.Context(), q.String())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d note(s) match %s\n", len(ids), q)
		return nil
	},
}

func init() {
	f := ankiCountCmd.Flags()
	f.String("deck", "", "Anki deck")
	f.String("note-type", "", "Anki note type")
	f.StringSlice("tag", nil, "Only notes with any of these tags")
	f.Bool("studied", false, "Only notes that have been studied")

	ankiCmd.AddCommand(ankiStatusCmd)
	ankiCmd.AddCommand(ankiDecksCmd)
	ankiCmd.AddCommand(ankiModelsCmd)
	ankiCmd.AddCommand(ankiFieldsCmd)
	ankiCmd.AddCommand(ankiTagsCmd)
	ankiCmd.AddCommand(ankiCountCmd)
}
