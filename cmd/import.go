package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/wordiz/internal/importer"
	"github.com/abhisek/wordiz/internal/vocab"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import words from a .csv or .xlsx file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := importer.DefaultConfig(args[0])
		flags := cmd.Flags()
		cfg.SheetName, _ = flags.GetString("sheet")
		cfg.TermColumn, _ = flags.GetString("term-col")
		cfg.TranslationColumn, _ = flags.GetString("translation-col")
		cfg.SentenceColumn, _ = flags.GetString("sentence-col")
		cfg.StartRow, _ = flags.GetInt("start-row")

		res, err := importer.Read(cfg)
		if err != nil {
			return err
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		added, err := a.mastery.Add(cmd.Context(), res.Items...)
		if err != nil {
			return fmt.Errorf("save words: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Read %d rows: %d words added, %d already saved, %d rejected.\n",
			res.Processed, added, len(res.Items)-added, len(res.Errors))
		for _, e := range res.Errors {
			fmt.Fprintln(out, "  "+e)
		}
		return nil
	},
}

var addCmd = &cobra.Command{
	Use:   "add <term> <translation>",
	Short: "Save one word for practice",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sentence, _ := cmd.Flags().GetString("sentence")
		item := vocab.Item{
			Term:            args[0],
			Translation:     args[1],
			ExampleSentence: strings.TrimSpace(sentence),
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		added, err := a.mastery.Add(cmd.Context(), item)
		if err != nil {
			return fmt.Errorf("save word: %w", err)
		}
		if added == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "%q is already saved.\n", item.Term)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %q.\n", item.Term)
		return nil
	},
}

func init() {
	defaults := importer.DefaultConfig("")
	importCmd.Flags().String("sheet", "", "Spreadsheet sheet to read (default: first sheet)")
	importCmd.Flags().String("term-col", defaults.TermColumn, "Column holding the word")
	importCmd.Flags().String("translation-col", defaults.TranslationColumn, "Column holding the translation")
	importCmd.Flags().String("sentence-col", defaults.SentenceColumn, "Column holding an example sentence (empty to ignore)")
	importCmd.Flags().Int("start-row", defaults.StartRow, "First data row, 1-based")

	addCmd.Flags().String("sentence", "", "Example sentence using the word")
}
