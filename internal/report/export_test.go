package report

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"votebench/internal/harness"
)

func sampleResults() harness.ResultSet {
	healthy := harness.NewMetricsRecord(harness.ExperimentConfig{
		ConcurrentQueries: 5, VotesPerMinute: 50, DurationMinutes: 1,
	}, time.Unix(100, 0))
	healthy.VotesProcessed = 49
	healthy.LatencyMeanMs = 31.2
	healthy.LatencyP95Ms = 44.8
	healthy.LatencyMaxMs = 52.1
	healthy.DurationActualSec = 60.4
	healthy.ThroughputPerMin = 48.7
	healthy.ErrorRatePercent = 0
	healthy.CPUMeanPercent = 22.5
	healthy.MemoryMeanMB = 1810

	saturated := harness.NewMetricsRecord(harness.ExperimentConfig{
		ConcurrentQueries: 20, VotesPerMinute: 200, DurationMinutes: 2,
	}, time.Unix(300, 0))
	saturated.VotesProcessed = 350
	saturated.VotesFailed = 30
	saturated.LatencyMeanMs = 64.0
	saturated.ErrorRatePercent = 7.89
	saturated.ThroughputPerMin = 175

	return harness.ResultSet{healthy, saturated}
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	require.NoError(t, WriteCSV(path, sampleResults()))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3) // header + 2 records

	assert.Equal(t, "concurrent_queries", rows[0][0])
	assert.Equal(t, "memory_mean_mb", rows[0][len(rows[0])-1])
	assert.Equal(t, []string{"5", "50", "1", "49", "0", "31.20", "44.80", "52.10", "48.70", "0.00", "22.50", "1810.00"}, rows[1])
	assert.Equal(t, "7.89", rows[2][9])
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	require.NoError(t, WriteJSON(path, sampleResults()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, 49.0, decoded[0]["votes_processed"])
	assert.Equal(t, 7.89, decoded[1]["error_rate_percent"])
}

func TestSaturationPoint(t *testing.T) {
	t.Run("finds the first saturated configuration", func(t *testing.T) {
		idx, ok := SaturationPoint(sampleResults(), SaturationThresholdPercent)
		require.True(t, ok)
		assert.Equal(t, 1, idx)
	})

	t.Run("not reached below the threshold", func(t *testing.T) {
		_, ok := SaturationPoint(sampleResults(), 50)
		assert.False(t, ok)
	})

	t.Run("empty set", func(t *testing.T) {
		_, ok := SaturationPoint(nil, SaturationThresholdPercent)
		assert.False(t, ok)
	})
}

func TestWriteTextSummary(t *testing.T) {
	t.Run("digest names the saturation point", func(t *testing.T) {
		var sb strings.Builder
		require.NoError(t, WriteTextSummary(&sb, sampleResults()))

		out := sb.String()
		assert.Contains(t, out, "experiments: 2")
		assert.Contains(t, out, "saturation point: experiment 2")
	})

	t.Run("empty set", func(t *testing.T) {
		var sb strings.Builder
		require.NoError(t, WriteTextSummary(&sb, nil))
		assert.Contains(t, sb.String(), "no results")
	})
}
