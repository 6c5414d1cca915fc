package cmd

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/wordiz/internal/curriculum"
	"github.com/abhisek/wordiz/internal/screens/lesson"
	"github.com/abhisek/wordiz/internal/session"
	"github.com/abhisek/wordiz/internal/ui/theme"
)

var lessonCmd = &cobra.Command{
	Use:   "lesson [step]",
	Short: "List lesson steps or work through one",
	Long: "Without arguments, lists the lesson steps of the learning language. " +
		"With a step id, runs its exercises until each one was answered correctly. " +
		"Press tab to skip an exercise and esc to stop; r restarts a finished step.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		loader, err := curriculum.NewLoader(a.cfg.CurriculumPath, a.log)
		if err != nil {
			return fmt.Errorf("load curriculum: %w", err)
		}
		if len(args) == 0 {
			return listSteps(cmd, a, loader)
		}
		return runLesson(cmd, a, loader, args[0])
	},
}

func listSteps(cmd *cobra.Command, a *app, loader *curriculum.Loader) error {
	out := cmd.OutOrStdout()
	steps := loader.Steps(a.cfg.LearningLang)
	if len(steps) == 0 {
		fmt.Fprintf(out, "No lesson steps for %q under %s.\n", a.cfg.LearningLang, a.cfg.CurriculumPath)
		return nil
	}

	highest, err := session.HighestStep(cmd.Context(), a.backend.Settings(), a.cfg.LearningLang)
	if err != nil {
		return err
	}
	lipgloss.Fprintln(out, theme.Title.Render("Lesson steps ("+a.cfg.LearningLang+")"))
	for _, s := range steps {
		mark := "  "
		if s.Index <= highest {
			mark = theme.Correct.Render("✓ ")
		}
		lipgloss.Fprintf(out, "%s%-20s %s\n", mark, s.ID, theme.Subtitle.Render(fmt.Sprintf("%d items", len(s.Items))))
	}
	return nil
}

func runLesson(cmd *cobra.Command, a *app, loader *curriculum.Loader, stepID string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	runner := session.NewRunner(loader, a.builder, session.Config{
		LearningLang: a.cfg.LearningLang,
		NativeLang:   a.cfg.NativeLang,
		Rand:         a.rng,
		Settings:     a.backend.Settings(),
		Mastery:      a.mastery,
		Logger:       a.log,
	})
	if _, err := runner.Start(ctx, stepID); err != nil {
		return err
	}

	m := lesson.New(ctx, runner, 0)
	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(out),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("lesson: %w", err)
	}
	if err := m.Err(); err != nil {
		return err
	}

	if s := m.Summary(); s != nil {
		lipgloss.Fprintln(out, lesson.RenderSummary(s, m.Runs()))
	}
	return nil
}
