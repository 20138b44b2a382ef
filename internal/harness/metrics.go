package harness

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"votebench/internal/stats"
)

// MetricsRecord aggregates every observation from one experiment run. The
// collections are appended concurrently by the workers of that run; the
// derived fields stay zero until finalize runs after all workers have
// joined, and the record is immutable from then on.
type MetricsRecord struct {
	Config    ExperimentConfig `json:"config"`
	Timestamp time.Time        `json:"timestamp"`

	VotesProcessed uint64 `json:"votes_processed"`
	VotesFailed    uint64 `json:"votes_failed"`

	mu          sync.Mutex
	LatenciesMs []float64 `json:"latencies_ms"`
	CPUSamples  []float64 `json:"cpu_samples"`
	MemSamples  []float64 `json:"memory_samples"`
	Errors      []string  `json:"errors"`

	// Derived, computed once by finalize.
	LatencyMeanMs     float64 `json:"latency_mean_ms"`
	LatencyP95Ms      float64 `json:"latency_p95_ms"`
	LatencyMaxMs      float64 `json:"latency_max_ms"`
	DurationActualSec float64 `json:"duration_actual_sec"`
	ThroughputPerMin  float64 `json:"throughput_per_min"`
	ErrorRatePercent  float64 `json:"error_rate_percent"`
	CPUMeanPercent    float64 `json:"cpu_mean_percent"`
	MemoryMeanMB      float64 `json:"memory_mean_mb"`
}

func NewMetricsRecord(cfg ExperimentConfig, now time.Time) *MetricsRecord {
	return &MetricsRecord{
		Config:    cfg,
		Timestamp: now,
	}
}

func (r *MetricsRecord) AddLatency(ms float64) {
	r.mu.Lock()
	r.LatenciesMs = append(r.LatenciesMs, ms)
	r.mu.Unlock()
}

func (r *MetricsRecord) AddError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.mu.Lock()
	r.Errors = append(r.Errors, msg)
	r.mu.Unlock()
}

// AddResourceSample appends one paired CPU/memory observation. Only the
// resource sampler calls this.
func (r *MetricsRecord) AddResourceSample(cpuPercent, memUsedMB float64) {
	r.mu.Lock()
	r.CPUSamples = append(r.CPUSamples, cpuPercent)
	r.MemSamples = append(r.MemSamples, memUsedMB)
	r.mu.Unlock()
}

func (r *MetricsRecord) VoteSucceeded() {
	atomic.AddUint64(&r.VotesProcessed, 1)
}

func (r *MetricsRecord) VoteFailed() {
	atomic.AddUint64(&r.VotesFailed, 1)
}

// LatencyCount returns the number of latency samples collected so far.
func (r *MetricsRecord) LatencyCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.LatenciesMs)
}

// finalize computes the derived statistics. It must run exactly once,
// after every worker for this record has returned.
func (r *MetricsRecord) finalize(elapsed time.Duration, policy PercentilePolicy) {
	r.LatencyMeanMs = stats.Mean(r.LatenciesMs)
	switch policy {
	case PercentileInterpolated:
		r.LatencyP95Ms = stats.PercentileInterpolated(r.LatenciesMs, 19, 20)
	default:
		r.LatencyP95Ms = stats.PercentileIndex(r.LatenciesMs, 0.95)
	}
	r.LatencyMaxMs = stats.Max(r.LatenciesMs)

	r.DurationActualSec = elapsed.Seconds()
	if r.DurationActualSec > 0 {
		r.ThroughputPerMin = float64(r.VotesProcessed) / (r.DurationActualSec / 60)
	}

	total := r.VotesProcessed + r.VotesFailed
	if total > 0 {
		r.ErrorRatePercent = float64(r.VotesFailed) / float64(total) * 100
	}

	r.CPUMeanPercent = stats.Mean(r.CPUSamples)
	r.MemoryMeanMB = stats.Mean(r.MemSamples)
}

// ResultSet is the ordered outcome of a suite run, one record per
// configuration.
type ResultSet []*MetricsRecord
