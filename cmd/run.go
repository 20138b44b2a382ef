package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"votebench/internal/harness"
)

var (
	runQueries  uint
	runRate     uint
	runDuration uint
	runPlan     string
	runProfile  string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a single configuration or a yaml plan",
	RunE: func(cmd *cobra.Command, args []string) error {
		if runPlan != "" {
			plan, err := LoadPlan(runPlan)
			if err != nil {
				return err
			}
			profile, err := profileByName(plan.Profile)
			if err != nil {
				return err
			}
			return runSuite(profile, plan.Experiments)
		}

		profile, err := profileByName(runProfile)
		if err != nil {
			return err
		}
		cfg := harness.ExperimentConfig{
			ConcurrentQueries: runQueries,
			VotesPerMinute:    runRate,
			DurationMinutes:   runDuration,
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		return runSuite(profile, []harness.ExperimentConfig{cfg})
	},
}

func profileByName(name string) (harness.Profile, error) {
	switch name {
	case "", "quick":
		return harness.QuickProfile(), nil
	case "standard":
		return harness.StandardProfile(), nil
	default:
		return harness.Profile{}, fmt.Errorf("unknown profile %q (want quick or standard)", name)
	}
}

func init() {
	runCmd.Flags().UintVarP(&runQueries, "queries", "q", 10, "concurrent query workers")
	runCmd.Flags().UintVarP(&runRate, "rate", "r", 100, "target votes per minute")
	runCmd.Flags().UintVarP(&runDuration, "duration", "d", 1, "duration in minutes")
	runCmd.Flags().StringVarP(&runPlan, "plan", "p", "", "yaml plan file (overrides the other flags)")
	runCmd.Flags().StringVar(&runProfile, "profile", "quick", "harness profile: quick or standard")

	rootCmd.AddCommand(runCmd)
}
