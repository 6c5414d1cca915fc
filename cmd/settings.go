package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abhisek/wordiz/internal/mastery"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Read or change stored settings",
}

var settingsGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print a setting, or the mastery thresholds when no key is given",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		out := cmd.OutOrStdout()
		if len(args) == 0 {
			p := a.mastery.Policy()
			fmt.Fprintf(out, "%s = %d\n", mastery.SettingPerKindThreshold, p.PerKindThreshold)
			fmt.Fprintf(out, "%s = %d\n", mastery.SettingAggregateThreshold, p.AggregateThreshold)
			return nil
		}

		v, ok, err := a.backend.Settings().ReadSetting(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("setting %q is not set", args[0])
		}
		fmt.Fprintln(out, v)
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Store a setting; mastery thresholds are clamped into range",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		key, value := args[0], args[1]
		out := cmd.OutOrStdout()

		switch key {
		case mastery.SettingPerKindThreshold, mastery.SettingAggregateThreshold:
			n, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("%s must be a whole number: %w", key, err)
			}
			p := a.mastery.Policy()
			if key == mastery.SettingPerKindThreshold {
				p.PerKindThreshold = n
			} else {
				p.AggregateThreshold = n
			}
			saved, err := mastery.SavePolicy(cmd.Context(), a.backend.Settings(), p)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "per-kind threshold %d, aggregate threshold %d\n",
				saved.PerKindThreshold, saved.AggregateThreshold)
			return nil
		}

		if err := a.backend.Settings().WriteSetting(cmd.Context(), key, value); err != nil {
			return err
		}
		fmt.Fprintf(out, "%s = %s\n", key, value)
		return nil
	},
}

func init() {
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
}
