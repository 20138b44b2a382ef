package harness

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"votebench/internal/clock"
)

func TestQueryWorker_Run(t *testing.T) {
	t.Run("iterates until the deadline", func(t *testing.T) {
		clk := clock.NewFake(time.Unix(0, 0))
		rec := NewMetricsRecord(testConfig(), clk.Now())
		w := &QueryWorker{
			Target: &stubTarget{clk: clk, queryDelay: 30 * time.Millisecond},
			Clock:  clk,
			Pause:  100 * time.Millisecond,
		}

		w.Run(context.Background(), rec, time.Second)

		// One iteration each 130ms of virtual time: ceil(1000/130) = 8.
		assert.Equal(t, 8, rec.LatencyCount())
		assert.Empty(t, rec.Errors)
	})

	t.Run("records failures and keeps looping", func(t *testing.T) {
		clk := clock.NewFake(time.Unix(0, 0))
		rec := NewMetricsRecord(testConfig(), clk.Now())
		w := &QueryWorker{
			Target: &stubTarget{clk: clk, queryDelay: 30 * time.Millisecond, queryErr: errors.New("boom")},
			Clock:  clk,
			Pause:  100 * time.Millisecond,
		}

		w.Run(context.Background(), rec, time.Second)

		assert.Equal(t, 0, rec.LatencyCount())
		assert.Len(t, rec.Errors, 8)
	})

	t.Run("no lost appends across 100 workers", func(t *testing.T) {
		rec := NewMetricsRecord(testConfig(), time.Unix(0, 0))

		var wg sync.WaitGroup
		for i := 0; i < 100; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				clk := clock.NewFake(time.Unix(0, 0))
				w := &QueryWorker{
					Target: &stubTarget{clk: clk, queryDelay: time.Millisecond},
					Clock:  clk,
					Pause:  4 * time.Millisecond,
				}
				w.Run(context.Background(), rec, 50*time.Millisecond)
			}()
		}
		wg.Wait()

		// Each worker iterates every 5ms of its own virtual time:
		// ceil(50/5) = 10, times 100 workers.
		assert.Equal(t, 1000, rec.LatencyCount())
	})
}

func TestVoteWorker_Run(t *testing.T) {
	t.Run("paces to the configured rate", func(t *testing.T) {
		cfg := ExperimentConfig{ConcurrentQueries: 5, VotesPerMinute: 50, DurationMinutes: 1}
		clk := clock.NewFake(time.Unix(0, 0))
		rec := NewMetricsRecord(cfg, clk.Now())
		w := &VoteWorker{
			Target:      &stubTarget{clk: clk, voteDelay: 30 * time.Millisecond},
			Clock:       clk,
			Rand:        rand.New(rand.NewSource(1)),
			FailureProb: 0,
			Candidates:  5,
		}

		w.Run(context.Background(), rec, cfg.VoteInterval(), cfg.Duration())

		// One attempt each 1.23s of virtual time over 60s.
		assert.GreaterOrEqual(t, rec.VotesProcessed, uint64(48))
		assert.LessOrEqual(t, rec.VotesProcessed, uint64(52))
		assert.Equal(t, uint64(0), rec.VotesFailed)
		assert.Equal(t, int(rec.VotesProcessed), rec.LatencyCount())
	})

	t.Run("submission errors count as failed votes", func(t *testing.T) {
		clk := clock.NewFake(time.Unix(0, 0))
		rec := NewMetricsRecord(testConfig(), clk.Now())
		w := &VoteWorker{
			Target:      &stubTarget{clk: clk, voteDelay: 10 * time.Millisecond, voteErr: errors.New("rejected")},
			Clock:       clk,
			Rand:        rand.New(rand.NewSource(1)),
			FailureProb: 0,
			Candidates:  5,
		}

		w.Run(context.Background(), rec, time.Second, 10*time.Second)

		require.Greater(t, rec.VotesFailed, uint64(0))
		assert.Equal(t, uint64(0), rec.VotesProcessed)
		assert.Equal(t, 0, rec.LatencyCount())
		assert.Len(t, rec.Errors, int(rec.VotesFailed))
	})

	t.Run("failure probability of one fails every attempt", func(t *testing.T) {
		clk := clock.NewFake(time.Unix(0, 0))
		rec := NewMetricsRecord(testConfig(), clk.Now())
		w := &VoteWorker{
			Target:      &stubTarget{clk: clk, voteDelay: 10 * time.Millisecond},
			Clock:       clk,
			Rand:        rand.New(rand.NewSource(1)),
			FailureProb: 1.0,
			Candidates:  5,
		}

		w.Run(context.Background(), rec, time.Second, 10*time.Second)

		assert.Greater(t, rec.VotesFailed, uint64(0))
		assert.Equal(t, uint64(0), rec.VotesProcessed)
		// Probability-classified failures are not operational errors.
		assert.Empty(t, rec.Errors)
	})

	t.Run("always runs at least one attempt", func(t *testing.T) {
		clk := clock.NewFake(time.Unix(0, 0))
		rec := NewMetricsRecord(testConfig(), clk.Now())
		w := &VoteWorker{
			Target:      &stubTarget{clk: clk, voteDelay: 10 * time.Millisecond},
			Clock:       clk,
			Rand:        rand.New(rand.NewSource(1)),
			FailureProb: 0,
			Candidates:  5,
		}

		// Pacing interval far longer than the experiment.
		w.Run(context.Background(), rec, time.Hour, time.Second)

		assert.Equal(t, uint64(1), rec.VotesProcessed+rec.VotesFailed)
	})
}

func TestResourceSampler_Run(t *testing.T) {
	t.Run("samples at the configured cadence", func(t *testing.T) {
		clk := clock.NewFake(time.Unix(0, 0))
		rec := NewMetricsRecord(testConfig(), clk.Now())
		s := &ResourceSampler{
			Probe:    stubProber{cpu: 42.5, mem: 2048},
			Clock:    clk,
			Interval: 2 * time.Second,
		}

		s.Run(rec, 10*time.Second)

		assert.Len(t, rec.CPUSamples, 5)
		assert.Len(t, rec.MemSamples, 5)
		assert.Equal(t, 42.5, rec.CPUSamples[0])
		assert.Empty(t, rec.Errors)
	})

	t.Run("sampling failures are recorded and non-fatal", func(t *testing.T) {
		clk := clock.NewFake(time.Unix(0, 0))
		rec := NewMetricsRecord(testConfig(), clk.Now())
		s := &ResourceSampler{
			Probe:    stubProber{failing: errors.New("proc unavailable")},
			Clock:    clk,
			Interval: 2 * time.Second,
		}

		s.Run(rec, 10*time.Second)

		assert.Empty(t, rec.CPUSamples)
		assert.Len(t, rec.Errors, 5)
	})
}
