// Package harness contains the concurrent workload generator and the
// metrics-aggregation engine: workers that drive simulated query and vote
// traffic for a bounded duration, a resource sampler running alongside
// them, and the reduction of all observations into one record per
// experiment configuration.
package harness

import (
	"fmt"
	"time"
)

// ExperimentConfig is one workload point: how many concurrent readers, the
// target vote rate, and how long to hold it. Immutable once created.
type ExperimentConfig struct {
	ConcurrentQueries uint `json:"concurrent_queries" yaml:"concurrent_queries"`
	VotesPerMinute    uint `json:"votes_per_minute" yaml:"votes_per_minute"`
	DurationMinutes   uint `json:"duration_minutes" yaml:"duration_minutes"`
}

func (c ExperimentConfig) Validate() error {
	if c.ConcurrentQueries == 0 {
		return fmt.Errorf("concurrent queries must be greater than zero")
	}
	if c.VotesPerMinute == 0 {
		return fmt.Errorf("votes per minute must be greater than zero")
	}
	if c.DurationMinutes == 0 {
		return fmt.Errorf("duration minutes must be greater than zero")
	}
	return nil
}

func (c ExperimentConfig) Duration() time.Duration {
	return time.Duration(c.DurationMinutes) * time.Minute
}

// VoteInterval is the pause between vote attempts that paces issuance to
// the configured rate regardless of how fast each submission completes.
func (c ExperimentConfig) VoteInterval() time.Duration {
	return time.Duration(float64(time.Minute) / float64(c.VotesPerMinute))
}

func (c ExperimentConfig) String() string {
	return fmt.Sprintf("%dq/%dvpm/%dmin", c.ConcurrentQueries, c.VotesPerMinute, c.DurationMinutes)
}
