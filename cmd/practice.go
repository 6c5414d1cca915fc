package cmd

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/wordiz/internal/screens/practice"
	"github.com/abhisek/wordiz/internal/tasks"
	"github.com/abhisek/wordiz/internal/vocab"
)

const surpriseKind = "surprise"

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Practice saved words one round at a time",
	Long: "Practice saved words. --kind picks one exercise type; \"surprise\" rotates " +
		"through every type. Press esc or type q to stop.",
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, _ := cmd.Flags().GetString("kind")
		rounds, _ := cmd.Flags().GetInt("rounds")
		return runPractice(cmd, kind, rounds)
	},
}

func init() {
	kinds := make([]string, 0, len(tasks.SupportedKinds())+1)
	for _, k := range tasks.SupportedKinds() {
		kinds = append(kinds, string(k))
	}
	kinds = append(kinds, surpriseKind)

	practiceCmd.Flags().String("kind", surpriseKind, "Exercise type: "+strings.Join(kinds, ", "))
	practiceCmd.Flags().Int("rounds", 0, "Stop after this many rounds (0 plays until quit)")
}

func runPractice(cmd *cobra.Command, kindFlag string, rounds int) error {
	var kind vocab.Kind
	if kindFlag != surpriseKind {
		k, err := vocab.ParseKind(kindFlag)
		if err != nil {
			return err
		}
		if !slices.Contains(tasks.SupportedKinds(), k) {
			return fmt.Errorf("%s has no terminal exercise", k.DisplayName())
		}
		kind = k
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	m := practice.New(practice.Config{
		Mastery: a.mastery,
		Builder: a.builder,
		Rand:    a.rng,
		Logger:  a.log,
		Kind:    kind,
		Rounds:  rounds,
	})
	if err := m.Start(cmd.Context()); err != nil {
		if errors.Is(err, practice.ErrNothingToPractice) {
			fmt.Fprintln(out, "Nothing to practice. Add words with `wordiz add` or `wordiz import`.")
			return nil
		}
		return err
	}

	p := tea.NewProgram(m,
		tea.WithContext(cmd.Context()),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(out),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("practice: %w", err)
	}

	switch err := m.Err(); {
	case errors.Is(err, practice.ErrNothingToPractice):
		fmt.Fprintln(out, "Nothing left to practice.")
	case err != nil:
		return err
	}
	fmt.Fprintf(out, "Practiced %d rounds, %d correct.\n", m.Played(), m.Correct())
	return nil
}
