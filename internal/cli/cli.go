// Package cli runs a suite headless with line-based progress output, for
// CI and long unattended runs.
package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"votebench/internal/harness"
	"votebench/internal/report"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#04B575"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
	subtle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Run drives the suite to completion, printing progress every tick.
func Run(ctx context.Context, suite *harness.Suite, configs []harness.ExperimentConfig, profile harness.Profile) (harness.ResultSet, error) {
	printHeader(profile, configs)

	type outcome struct {
		results harness.ResultSet
		err     error
	}
	done := make(chan outcome, 1)
	go func() {
		results, err := suite.Run(ctx, configs)
		done <- outcome{results, err}
	}()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case out := <-done:
			fmt.Println()
			if out.err != nil {
				return out.results, out.err
			}
			printSummary(out.results)
			return out.results, nil
		case <-ticker.C:
			printProgress(suite)
		}
	}
}

func printHeader(profile harness.Profile, configs []harness.ExperimentConfig) {
	fmt.Println(titleStyle.Render("votebench"))
	fmt.Printf("profile: %s | experiments: %d | cooldown: %s\n", profile.Name, len(configs), profile.Cooldown)
	for i, cfg := range configs {
		fmt.Println(subtle.Render(fmt.Sprintf("  %d. %s", i+1, cfg)))
	}
	fmt.Println()
}

func printProgress(suite *harness.Suite) {
	p := suite.Progress()
	if p.Total == 0 {
		return
	}
	snap := suite.Runner().Live().Snapshot()

	state := "running"
	if p.CoolingDown {
		state = "cooldown"
	}
	fmt.Printf("\r[%d/%d] %s %-8s | queries: %d | votes: %d ok / %d failed | p95: %.1fms   ",
		p.Current, p.Total, p.Config, state,
		snap.Queries, snap.Votes, snap.VoteFails, snap.P95Ms)
}

func printSummary(results harness.ResultSet) {
	fmt.Println()
	fmt.Println(titleStyle.Render("RESULTS"))
	fmt.Println(strings.Repeat("-", 70))

	for i, rec := range results {
		line := fmt.Sprintf("%d. %s: %d votes (%.2f/min), err %.2f%%, lat mean %.1fms p95 %.1fms max %.1fms, cpu %.1f%%, mem %.0fMB",
			i+1, rec.Config,
			rec.VotesProcessed, rec.ThroughputPerMin, rec.ErrorRatePercent,
			rec.LatencyMeanMs, rec.LatencyP95Ms, rec.LatencyMaxMs,
			rec.CPUMeanPercent, rec.MemoryMeanMB)
		if rec.ErrorRatePercent > report.SaturationThresholdPercent {
			line = errStyle.Render(line)
		} else if rec.ErrorRatePercent > 0 {
			line = warnStyle.Render(line)
		}
		fmt.Println(line)
	}
	fmt.Println(strings.Repeat("-", 70))

	if idx, ok := report.SaturationPoint(results, report.SaturationThresholdPercent); ok {
		fmt.Println(errStyle.Render(fmt.Sprintf("saturation point: experiment %d (%s)", idx+1, results[idx].Config)))
	} else {
		fmt.Println(subtle.Render("saturation point: not reached"))
	}
}
