package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/wordiz/internal/config"
	"github.com/abhisek/wordiz/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "wordiz",
	Short: "Adaptive vocabulary practice in the terminal",
	Long: "Wordiz builds practice exercises from your saved words and lesson steps, " +
		"tracks how often you get each word right and retires words once they are mastered.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPractice(cmd, "surprise", 0)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("env-file", ".env", "Load environment variables from this file when it exists")
	flags.String("db", "", "Path to SQLite database file (overrides WORDIZ_DB env var)")
	flags.String("backend", "", "Persistence backend: sqlite or redis (overrides WORDIZ_BACKEND)")
	flags.String("redis-url", "", "Redis URL for the redis backend (overrides WORDIZ_REDIS_URL)")
	flags.String("profile", "", "Learner profile for the redis backend (overrides WORDIZ_PROFILE)")
	flags.String("curriculum", "", "Curriculum root directory (overrides WORDIZ_CURRICULUM_PATH)")
	flags.String("lang", "", "Language being learned (overrides WORDIZ_LEARNING_LANG)")
	flags.String("native", "", "Native language (overrides WORDIZ_NATIVE_LANG)")
	flags.Uint64("seed", 0, "Random seed for reproducible exercises (overrides WORDIZ_SEED)")

	rootCmd.AddCommand(practiceCmd)
	rootCmd.AddCommand(lessonCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig layers the .env file, WORDIZ_* variables and command-line
// flags, in increasing priority.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	if err := config.LoadDotEnv(envFile); err != nil {
		return config.Config{}, err
	}
	cfg, err := config.FromEnv()
	if err != nil {
		return cfg, err
	}

	overrides := map[string]*string{
		"backend":    &cfg.Backend,
		"redis-url":  &cfg.RedisURL,
		"profile":    &cfg.Profile,
		"curriculum": &cfg.CurriculumPath,
		"lang":       &cfg.LearningLang,
		"native":     &cfg.NativeLang,
	}
	for name, dst := range overrides {
		if v, _ := cmd.Flags().GetString(name); v != "" {
			*dst = v
		}
	}
	if seed, _ := cmd.Flags().GetUint64("seed"); seed != 0 {
		cfg.Seed = seed
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	if cfg.Backend == config.BackendSQLite {
		if cfg.DBPath, err = resolveDBPath(cmd, cfg.DBPath); err != nil {
			return cfg, fmt.Errorf("resolve DB path: %w", err)
		}
	}
	return cfg, nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then WORDIZ_DB, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, fromEnv string) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if fromEnv != "" {
		return fromEnv, store.EnsureDir(fromEnv)
	}
	return store.DefaultDBPath()
}
