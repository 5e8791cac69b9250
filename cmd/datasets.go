package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cuongduong73/ankiquiz/internal/anki"
	"github.com/cuongduong73/ankiquiz/internal/dataset"
)

var datasetsCmd = &cobra.Command{
	Use:     "datasets",
	Aliases: []string{"ds"},
	Short:   "Manage saved flashcard datasets",
}

var datasetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved datasets",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		sets, err := st.DatasetRepo().List(cmd.Context())
		if err != nil {
			return fmt.Errorf("list datasets: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(sets) == 0 {
			fmt.Fprintln(out, "No datasets saved. Import one with `ankiquiz datasets import <file>`.")
			return nil
		}
		printDatasets(out, sets)
		return nil
	},
}

func printDatasets(w io.Writer, sets []dataset.Dataset) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTYPE\tCARDS\tSOURCE\tCREATED")
	for _, d := range sets {
		source := "file"
		if d.Deck != "" {
			source = "anki:" + d.Deck
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
			d.ID, d.Name, d.Type.Short(), d.CardCount(), source,
			d.CreatedAt.Local().Format("2006-01-02"))
	}
	tw.Flush()
}

var datasetsImportCmd = &cobra.Command{
	Use:   "import <file>...",
	Short: "Import datasets from YAML or JSON files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		repo := st.DatasetRepo()
		out := cmd.OutOrStdout()
		for _, path := range args {
			sets, err := dataset.LoadFile(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			for i := range sets {
				if err := repo.Save(cmd.Context(), &sets[i]); err != nil {
					return fmt.Errorf("save dataset %q: %w", sets[i].Name, err)
				}
				fmt.Fprintf(out, "Imported %q (%s, %d cards) as %s\n",
					sets[i].Name, sets[i].Type, sets[i].CardCount(), sets[i].ID)
			}
		}
		return nil
	},
}

var datasetsExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write every saved dataset to a JSON file (stdout when omitted)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		sets, err := st.DatasetRepo().List(cmd.Context())
		if err != nil {
			return fmt.Errorf("list datasets: %w", err)
		}

		if len(args) == 0 {
			return dataset.WriteJSON(cmd.OutOrStdout(), sets)
		}
		f, err := os.Create(args[0])
		if err != nil {
			return fmt.Errorf("create %s: %w", args[0], err)
		}
		if err := dataset.WriteJSON(f, sets); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close %s: %w", args[0], err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d dataset(s) to %s\n", len(sets), args[0])
		return nil
	},
}

var datasetsRemoveCmd = &cobra.Command{
	Use:     "rm <id>...",
	Aliases: []string{"remove", "delete"},
	Short:   "Delete saved datasets",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		for _, id := range args {
			ok, err := st.DatasetRepo().Delete(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("delete %s: %w", id, err)
			}
			if !ok {
				fmt.Fprintf(os.Stderr, "warning: no dataset with id %s\n", id)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
		}
		return nil
	},
}

var datasetsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every saved dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return fmt.Errorf("refusing to delete all datasets without --yes")
		}
		st, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		n, err := st.DatasetRepo().Clear(cmd.Context())
		if err != nil {
			return fmt.Errorf("clear datasets: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d dataset(s)\n", n)
		return nil
	},
}

var datasetsAnkiCmd = &cobra.Command{
	Use:   "anki <name>",
	Short: "Build a dataset from Anki notes through AnkiConnect",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		typeName, _ := flags.GetString("type")
		t, err := dataset.ParseType(typeName)
		if err != nil {
			return err
		}
		deck, _ := flags.GetString("deck")
		noteType, _ := flags.GetString("note-type")
		tags, _ := flags.GetStringSlice("tag")
		studied, _ := flags.GetBool("studied")
		keyword, _ := flags.GetString("keyword-field")
		definition, _ := flags.GetString("definition-field")
		forward, _ := flags.GetString("forward")
		reverse, _ := flags.GetString("reverse")

		if deck == "" || noteType == "" {
			return fmt.Errorf("--deck and --note-type are required")
		}
		if t == dataset.TypeDefinition && (keyword == "" || definition == "") {
			return fmt.Errorf("definition datasets need --keyword-field and --definition-field")
		}

		st, cfg, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		req := anki.ImportRequest{
			Name:    args[0],
			Type:    t,
			Query:   anki.Query{Deck: deck, NoteType: noteType, Tags: tags, OnlyStudied: studied},
			Mapping: dataset.FieldMapping{Keyword: keyword, Definition: definition},
		}
		if forward != "" || reverse != "" {
			req.Metadata = &dataset.Metadata{ForwardQuestionTemplate: forward, ReverseQuestionTemplate: reverse}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Searching Anki: %s\n", req.Query)
		d, err := anki.Import(cmd.Context(), newAnkiClient(cfg), req)
		if err != nil {
			return fmt.Errorf("import from anki: %w", err)
		}
		if err := st.DatasetRepo().Save(cmd.Context(), d); err != nil {
			return fmt.Errorf("save dataset: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %q (%s, %d cards) as %s\n", d.Name, d.Type, d.CardCount(), d.ID)
		return nil
	},
}

func typeNames() string {
	names := make([]string, len(dataset.Types))
	for i, t := range dataset.Types {
		names[i] = t.Short()
	}
	return strings.Join(names, ", ")
}

func init() {
	datasetsClearCmd.Flags().Bool("yes", false, "Confirm deleting every dataset")

	f := datasetsAnkiCmd.Flags()
	f.StringP("type", "t", "mc", "Dataset type ("+typeNames()+")")
	f.String("deck", "", "Anki deck to read")
	f.String("note-type", "", "Anki note type (model) to read")
	f.StringSlice("tag", nil, "Only notes with any of these tags")
	f.Bool("studied", false, "Only notes that have been studied")
	f.String("keyword-field", "", "Note field holding the keyword (definition datasets)")
	f.String("definition-field", "", "Note field holding the definition (definition datasets)")
	f.String("forward", "", "Forward question template, e.g. \"What does {keyword} mean?\"")
	f.String("reverse", "", "Reverse question template, e.g. \"Which word means {definition}?\"")

	datasetsCmd.AddCommand(datasetsListCmd)
	datasetsCmd.AddCommand(datasetsImportCmd)
	datasetsCmd.AddCommand(datasetsExportCmd)
	datasetsCmd.AddCommand(datasetsRemoveCmd)
	datasetsCmd.AddCommand(datasetsClearCmd)
	datasetsCmd.AddCommand(datasetsAnkiCmd)
}
