package cmd

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"votebench/internal/cli"
	"votebench/internal/clock"
	"votebench/internal/harness"
	"votebench/internal/report"
	"votebench/internal/storage"
	"votebench/internal/target"
	"votebench/internal/tui"
)

var (
	cfgFile string

	outPrefix   string
	useTUI      bool
	verbose     bool
	metricsURLs []string
	voteURL     string
)

var rootCmd = &cobra.Command{
	Use:   "votebench",
	Short: "votebench - load harness for the distributed voting platform",
	Long: `
votebench drives concurrent query and vote traffic against the voting
platform (or a pure simulation of it), samples host resources while the
workload runs, and reduces everything into per-configuration metrics.

Suites:
  quick  three light configurations, minutes of wall time
  perf   the full performance matrix, runs for hours
  run    a single custom configuration or a yaml plan`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.votebench.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outPrefix, "out", "o", "votebench_results", "output filename prefix ('' disables exports)")
	rootCmd.PersistentFlags().BoolVar(&useTUI, "tui", false, "interactive progress view")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().StringSliceVar(&metricsURLs, "metrics-url", nil, "metrics endpoint(s) of the platform; enables real network mode")
	rootCmd.PersistentFlags().StringVar(&voteURL, "vote-url", "", "vote submission endpoint; enables real network mode")

	viper.BindPFlag("metrics_urls", rootCmd.PersistentFlags().Lookup("metrics-url"))
	viper.BindPFlag("vote_url", rootCmd.PersistentFlags().Lookup("vote-url"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.SetConfigType("yaml")
			viper.SetConfigName(".votebench")
		}
	}
	viper.SetEnvPrefix("VOTEBENCH")
	viper.AutomaticEnv()
	viper.ReadInConfig()
}

func newLogger() *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	log, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

// runSuite wires a runner and suite from the flags and drives the given
// configurations through it, then writes exports and history.
func runSuite(profile harness.Profile, configs []harness.ExperimentConfig) error {
	log := newLogger()
	defer log.Sync()

	var opts []harness.Option
	var updates chan harness.Snapshot
	if useTUI {
		updates = make(chan harness.Snapshot, 100)
		opts = append(opts, harness.WithUpdates(updates))
	}

	if tgt := networkTarget(profile); tgt != nil {
		opts = append(opts, harness.WithTargetFactory(func(clock.Clock, *rand.Rand) target.Target {
			return tgt
		}))
	}

	runner := harness.NewRunner(profile, log, opts...)
	suite := harness.NewSuite(profile, runner, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := driveSuite(ctx, stop, suite, configs, profile, updates)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return fmt.Errorf("no experiments completed")
	}

	if outPrefix != "" {
		if err := report.WriteJSON(outPrefix+".json", results); err != nil {
			return err
		}
		if err := report.WriteCSV(outPrefix+".csv", results); err != nil {
			return err
		}
		f, err := os.Create(outPrefix + "_summary.txt")
		if err != nil {
			return err
		}
		report.WriteTextSummary(f, results)
		f.Close()
		fmt.Printf("\nwrote %s.json, %s.csv, %s_summary.txt\n", outPrefix, outPrefix, outPrefix)
	}

	if store, err := storage.NewStore(); err == nil {
		if err := store.Save(storage.NewHistoryItem(profile.Name, results)); err != nil {
			log.Warn("saving history failed", zap.Error(err))
		}
	}
	return nil
}

func driveSuite(ctx context.Context, cancel func(), suite *harness.Suite, configs []harness.ExperimentConfig, profile harness.Profile, updates chan harness.Snapshot) (harness.ResultSet, error) {
	if !useTUI {
		return cli.Run(ctx, suite, configs, profile)
	}

	type outcome struct {
		results harness.ResultSet
		err     error
	}
	done := make(chan outcome, 1)
	go func() {
		results, err := suite.Run(ctx, configs)
		done <- outcome{results, err}
	}()

	p := tea.NewProgram(tui.NewModel(suite, updates))
	if _, err := p.Run(); err != nil {
		return nil, err
	}
	// A quit before completion cancels between experiments; the one in
	// flight is allowed to finish.
	cancel()

	out := <-done
	return out.results, out.err
}

// networkTarget returns a shared HTTP target when endpoints are
// configured, nil for pure simulation.
func networkTarget(profile harness.Profile) target.Target {
	urls := viper.GetStringSlice("metrics_urls")
	vote := viper.GetString("vote_url")
	if len(metricsURLs) > 0 {
		urls = metricsURLs
	}
	if voteURL != "" {
		vote = voteURL
	}
	if len(urls) == 0 || vote == "" {
		return nil
	}
	return target.NewHTTP(urls, vote, profile.CallTimeout)
}

var quickCmd = &cobra.Command{
	Use:   "quick",
	Short: "Run the light preset suite (a few minutes)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSuite(harness.QuickProfile(), harness.QuickConfigs())
	},
}

var perfCmd = &cobra.Command{
	Use:   "perf",
	Short: "Run the full performance matrix (hours)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSuite(harness.StandardProfile(), harness.StandardConfigs())
	},
}

func init() {
	rootCmd.AddCommand(quickCmd)
	rootCmd.AddCommand(perfCmd)
}
