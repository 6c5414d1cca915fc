package cmd

import (
	"fmt"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/wordiz/internal/tasks"
	"github.com/abhisek/wordiz/internal/ui/components"
	"github.com/abhisek/wordiz/internal/ui/theme"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		items := a.mastery.Load(ctx)
		policy := a.mastery.Policy()

		lipgloss.Fprintln(out, theme.Title.Render("Saved words"))
		fmt.Fprintf(out, "%d words in practice, graduation at %d per kind or %d overall\n\n",
			len(items), policy.PerKindThreshold, policy.AggregateThreshold)

		for _, kind := range tasks.SupportedKinds() {
			lipgloss.Fprintf(out, "  %s %d in pool\n", components.KindLabel(kind), len(a.mastery.Pool(ctx, kind)))
		}

		events := a.backend.Events()
		if events == nil {
			fmt.Fprintln(out, "\nAnswer history is not available for this backend.")
			return nil
		}

		byKind, err := events.KindAccuracy(ctx)
		if err != nil {
			return fmt.Errorf("read answer history: %w", err)
		}
		fmt.Fprintln(out)
		lipgloss.Fprintln(out, theme.Title.Render("Accuracy"))
		for _, kind := range tasks.SupportedKinds() {
			ks, ok := byKind[kind]
			if !ok {
				continue
			}
			lipgloss.Fprintf(out, "  %s %s  %d answers, %d mastered\n",
				components.KindLabel(kind), components.Percentage(ks.Accuracy()), ks.Attempts, ks.Graduated)
		}

		recent, _ := cmd.Flags().GetInt("recent")
		if recent <= 0 {
			return nil
		}
		evs, err := events.RecentEvents(ctx, recent)
		if err != nil {
			return fmt.Errorf("read answer history: %w", err)
		}
		fmt.Fprintln(out)
		lipgloss.Fprintln(out, theme.Title.Render("Recent answers"))
		for _, e := range evs {
			mark := theme.Incorrect.Render("✗")
			if e.Correct {
				mark = theme.Correct.Render("✓")
			}
			lipgloss.Fprintf(out, "  %s %s %-16s %s\n", e.Timestamp.Local().Format("Jan 02 15:04"), mark, e.Term,
				theme.Subtitle.Render(e.Kind.DisplayName()))
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().Int("recent", 10, "Number of recent answers to list")
}
