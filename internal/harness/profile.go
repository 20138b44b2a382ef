package harness

import "time"

// PercentilePolicy selects how the p95 latency is reduced. The two legacy
// harness variants disagree on this, so both stay reproducible.
type PercentilePolicy int

const (
	// PercentileIndexApprox sorts ascending and takes the element at
	// index floor(0.95*n).
	PercentileIndexApprox PercentilePolicy = iota
	// PercentileInterpolated uses exclusive interpolated quantiles with
	// 20 intervals, cut point 19.
	PercentileInterpolated
)

// Profile groups the knobs that differ between the quick and standard
// harness variants.
type Profile struct {
	Name string

	SampleInterval  time.Duration
	Cooldown        time.Duration
	VoteFailureProb float64
	Percentile      PercentilePolicy

	QueryDelayMin time.Duration
	QueryDelayMax time.Duration
	VoteDelayMin  time.Duration
	VoteDelayMax  time.Duration
	QueryPause    time.Duration

	CallTimeout time.Duration
	Candidates  int
}

// QuickProfile is the light variant for short local runs.
func QuickProfile() Profile {
	return Profile{
		Name:            "quick",
		SampleInterval:  2 * time.Second,
		Cooldown:        10 * time.Second,
		VoteFailureProb: 0.02,
		Percentile:      PercentileIndexApprox,
		QueryDelayMin:   10 * time.Millisecond,
		QueryDelayMax:   50 * time.Millisecond,
		VoteDelayMin:    20 * time.Millisecond,
		VoteDelayMax:    80 * time.Millisecond,
		QueryPause:      100 * time.Millisecond,
		CallTimeout:     5 * time.Second,
		Candidates:      5,
	}
}

// StandardProfile is the full performance variant.
func StandardProfile() Profile {
	return Profile{
		Name:            "standard",
		SampleInterval:  5 * time.Second,
		Cooldown:        30 * time.Second,
		VoteFailureProb: 0.05,
		Percentile:      PercentileInterpolated,
		QueryDelayMin:   10 * time.Millisecond,
		QueryDelayMax:   50 * time.Millisecond,
		VoteDelayMin:    50 * time.Millisecond,
		VoteDelayMax:    50 * time.Millisecond,
		QueryPause:      100 * time.Millisecond,
		CallTimeout:     5 * time.Second,
		Candidates:      5,
	}
}

// QuickConfigs is the preset plan for the quick profile.
func QuickConfigs() []ExperimentConfig {
	return []ExperimentConfig{
		{ConcurrentQueries: 5, VotesPerMinute: 50, DurationMinutes: 1},
		{ConcurrentQueries: 10, VotesPerMinute: 100, DurationMinutes: 1},
		{ConcurrentQueries: 20, VotesPerMinute: 200, DurationMinutes: 2},
	}
}

// StandardConfigs is the preset plan for the standard profile.
func StandardConfigs() []ExperimentConfig {
	return []ExperimentConfig{
		{ConcurrentQueries: 10, VotesPerMinute: 100, DurationMinutes: 5},
		{ConcurrentQueries: 10, VotesPerMinute: 500, DurationMinutes: 5},
		{ConcurrentQueries: 50, VotesPerMinute: 100, DurationMinutes: 5},
		{ConcurrentQueries: 50, VotesPerMinute: 500, DurationMinutes: 5},
		{ConcurrentQueries: 100, VotesPerMinute: 1000, DurationMinutes: 10},
		{ConcurrentQueries: 100, VotesPerMinute: 2000, DurationMinutes: 10},
		{ConcurrentQueries: 200, VotesPerMinute: 2000, DurationMinutes: 15},
		{ConcurrentQueries: 200, VotesPerMinute: 5000, DurationMinutes: 15},
		{ConcurrentQueries: 500, VotesPerMinute: 5000, DurationMinutes: 30},
	}
}
