// Package report serializes experiment results for downstream analysis.
// Every exported field comes straight off the finalized records; nothing
// is re-derived here except suite-level aggregates.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"votebench/internal/harness"
	"votebench/internal/stats"
)

// SaturationThresholdPercent is the error rate above which a configuration
// is considered saturated.
const SaturationThresholdPercent = 5.0

var csvHeader = []string{
	"concurrent_queries", "votes_per_minute", "duration_minutes",
	"votes_processed", "votes_failed",
	"latency_mean_ms", "latency_p95_ms", "latency_max_ms",
	"throughput_per_min", "error_rate_percent",
	"cpu_mean_percent", "memory_mean_mb",
}

// WriteJSON writes the full result set, raw samples included.
func WriteJSON(path string, results harness.ResultSet) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// WriteCSV writes one row of derived metrics per configuration.
func WriteCSV(path string, results harness.ResultSet) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, rec := range results {
		row := []string{
			strconv.FormatUint(uint64(rec.Config.ConcurrentQueries), 10),
			strconv.FormatUint(uint64(rec.Config.VotesPerMinute), 10),
			strconv.FormatUint(uint64(rec.Config.DurationMinutes), 10),
			strconv.FormatUint(rec.VotesProcessed, 10),
			strconv.FormatUint(rec.VotesFailed, 10),
			formatFloat(rec.LatencyMeanMs),
			formatFloat(rec.LatencyP95Ms),
			formatFloat(rec.LatencyMaxMs),
			formatFloat(rec.ThroughputPerMin),
			formatFloat(rec.ErrorRatePercent),
			formatFloat(rec.CPUMeanPercent),
			formatFloat(rec.MemoryMeanMB),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// SaturationPoint returns the index of the first configuration, in run
// order, whose error rate exceeds the threshold.
func SaturationPoint(results harness.ResultSet, thresholdPct float64) (int, bool) {
	for i, rec := range results {
		if rec.ErrorRatePercent > thresholdPct {
			return i, true
		}
	}
	return 0, false
}

// WriteTextSummary writes a plain-text statistical digest of the suite.
func WriteTextSummary(w io.Writer, results harness.ResultSet) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "no results")
		return err
	}

	throughputs := make([]float64, 0, len(results))
	latencies := make([]float64, 0, len(results))
	cpus := make([]float64, 0, len(results))
	mems := make([]float64, 0, len(results))
	for _, rec := range results {
		throughputs = append(throughputs, rec.ThroughputPerMin)
		if rec.LatencyMeanMs > 0 {
			latencies = append(latencies, rec.LatencyMeanMs)
		}
		cpus = append(cpus, rec.CPUMeanPercent)
		mems = append(mems, rec.MemoryMeanMB)
	}

	fmt.Fprintf(w, "experiments: %d\n\n", len(results))
	fmt.Fprintf(w, "throughput (votes/min): max %.2f  mean %.2f\n", stats.Max(throughputs), stats.Mean(throughputs))
	if len(latencies) > 0 {
		fmt.Fprintf(w, "mean latency (ms): max %.2f  mean %.2f\n", stats.Max(latencies), stats.Mean(latencies))
	}
	fmt.Fprintf(w, "cpu (%%): max %.1f  mean %.1f\n", stats.Max(cpus), stats.Mean(cpus))
	fmt.Fprintf(w, "memory (MB): max %.1f  mean %.1f\n\n", stats.Max(mems), stats.Mean(mems))

	if idx, ok := SaturationPoint(results, SaturationThresholdPercent); ok {
		cfg := results[idx].Config
		fmt.Fprintf(w, "saturation point: experiment %d (%s), error rate %.2f%%\n",
			idx+1, cfg, results[idx].ErrorRatePercent)
	} else {
		fmt.Fprintln(w, "saturation point: not reached")
	}
	return nil
}
